package domain

import "time"

// Settings is the per-guild configuration document. Mutated only by the
// settings command surface; read by every other component.
type Settings struct {
	GuildID  string          `bson:"guildId" json:"guildId"`
	Bot      BotAppearance   `bson:"bot" json:"bot"`
	Channels ChannelSettings `bson:"channels" json:"channels"`
	Updater  UpdaterSettings `bson:"updater" json:"updater"`
	Features FeatureToggles  `bson:"features" json:"features"`
	Modmail  ModmailSettings `bson:"modmail" json:"modmail"`
	RSS      RSSSettings     `bson:"rss" json:"rss"`
}

// BotAppearance controls embed cosmetics.
type BotAppearance struct {
	Color     string `bson:"color" json:"color"`
	Footer    string `bson:"footer" json:"footer"`
	Timestamp bool   `bson:"timestamp" json:"timestamp"`
}

// ChannelSettings maps bot functions to channel ids.
type ChannelSettings struct {
	Logging Snowflake `bson:"logging" json:"logging"`
	Modmail Snowflake `bson:"modmail" json:"modmail"`
	Posts   Snowflake `bson:"posts" json:"posts"`
	Uploads Snowflake `bson:"uploads" json:"uploads"`
}

// UpdaterSettings configures the project update poller.
type UpdaterSettings struct {
	Channel    Snowflake `bson:"channel" json:"channel"`
	IntervalMs int       `bson:"interval" json:"interval"`
	PingRole   Snowflake `bson:"pingRole" json:"pingRole"`
}

// FeatureToggles gates the feed announcers.
type FeatureToggles struct {
	Bluesky   bool `bson:"bluesky" json:"bluesky"`
	Instagram bool `bson:"instagram" json:"instagram"`
	YouTube   bool `bson:"youtube" json:"youtube"`
}

// ModmailSettings configures ticket creation gating.
type ModmailSettings struct {
	CooldownSeconds int `bson:"cooldownSeconds" json:"cooldownSeconds"`
}

// RSSSettings configures the feed poll cadence.
type RSSSettings struct {
	IntervalMs int `bson:"intervalMs" json:"intervalMs"`
}

// Snowflake is a Discord entity id.
type Snowflake = string

// DefaultSettings returns the document written on first use of a guild.
func DefaultSettings(guildID string) *Settings {
	return &Settings{
		GuildID: guildID,
		Bot: BotAppearance{
			Color:     "#FFFFFF",
			Footer:    "membercat.exe",
			Timestamp: true,
		},
		Updater: UpdaterSettings{
			IntervalMs: 180_000,
		},
		Modmail: ModmailSettings{
			CooldownSeconds: 3600,
		},
		RSS: RSSSettings{
			IntervalMs: 300_000,
		},
	}
}

// UpdaterInterval returns the project update poll period.
func (s *Settings) UpdaterInterval() time.Duration {
	if s == nil || s.Updater.IntervalMs <= 0 {
		return 3 * time.Minute
	}
	return time.Duration(s.Updater.IntervalMs) * time.Millisecond
}

// RSSInterval returns the feed poll period.
func (s *Settings) RSSInterval() time.Duration {
	if s == nil || s.RSS.IntervalMs <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(s.RSS.IntervalMs) * time.Millisecond
}
