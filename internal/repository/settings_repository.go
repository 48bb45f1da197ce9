package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/membercat-studios/membercat-bot/internal/domain"
)

// ChannelKind names a configurable channel slot.
type ChannelKind string

const (
	ChannelLogging ChannelKind = "logging"
	ChannelModmail ChannelKind = "modmail"
	ChannelPosts   ChannelKind = "posts"
	ChannelUploads ChannelKind = "uploads"
)

// FeatureName names a toggleable feature.
type FeatureName string

const (
	FeatureBluesky   FeatureName = "bluesky"
	FeatureInstagram FeatureName = "instagram"
	FeatureYouTube   FeatureName = "youtube"
)

// SettingsRepository encapsulates the per-guild settings document.
type SettingsRepository interface {
	// Get returns the guild settings, inserting defaults on first use.
	Get(ctx context.Context, guildID string) (*domain.Settings, error)
	SetChannel(ctx context.Context, guildID string, kind ChannelKind, channelID string) error
	SetUpdaterIntervalMs(ctx context.Context, guildID string, intervalMs int) error
	SetUpdaterPingRole(ctx context.Context, guildID, roleID string) error
	SetUpdaterChannel(ctx context.Context, guildID, channelID string) error
	SetFeature(ctx context.Context, guildID string, feature FeatureName, enabled bool) error
	SetTimestamp(ctx context.Context, guildID string, enabled bool) error
	SetColor(ctx context.Context, guildID, color string) error
	SetFooter(ctx context.Context, guildID, footer string) error
	SetModmailCooldownSeconds(ctx context.Context, guildID string, seconds int) error
}

type settingsRepository struct {
	coll *mongo.Collection
}

// NewSettingsRepository instantiates the repository over the settings
// collection.
func NewSettingsRepository(db *mongo.Database) SettingsRepository {
	return &settingsRepository{coll: db.Collection("settings")}
}

func (r *settingsRepository) Get(ctx context.Context, guildID string) (*domain.Settings, error) {
	var settings domain.Settings
	err := r.coll.FindOne(ctx, bson.M{"guildId": guildID}).Decode(&settings)
	if errors.Is(err, mongo.ErrNoDocuments) {
		defaults := domain.DefaultSettings(guildID)
		if _, err := r.coll.InsertOne(ctx, defaults); err != nil {
			return nil, err
		}
		return defaults, nil
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

func (r *settingsRepository) SetChannel(ctx context.Context, guildID string, kind ChannelKind, channelID string) error {
	return r.set(ctx, guildID, "channels."+string(kind), channelID)
}

func (r *settingsRepository) SetUpdaterIntervalMs(ctx context.Context, guildID string, intervalMs int) error {
	return r.set(ctx, guildID, "updater.interval", intervalMs)
}

func (r *settingsRepository) SetUpdaterPingRole(ctx context.Context, guildID, roleID string) error {
	return r.set(ctx, guildID, "updater.pingRole", roleID)
}

func (r *settingsRepository) SetUpdaterChannel(ctx context.Context, guildID, channelID string) error {
	return r.set(ctx, guildID, "updater.channel", channelID)
}

func (r *settingsRepository) SetFeature(ctx context.Context, guildID string, feature FeatureName, enabled bool) error {
	return r.set(ctx, guildID, "features."+string(feature), enabled)
}

func (r *settingsRepository) SetTimestamp(ctx context.Context, guildID string, enabled bool) error {
	return r.set(ctx, guildID, "bot.timestamp", enabled)
}

func (r *settingsRepository) SetColor(ctx context.Context, guildID, color string) error {
	return r.set(ctx, guildID, "bot.color", color)
}

func (r *settingsRepository) SetFooter(ctx context.Context, guildID, footer string) error {
	return r.set(ctx, guildID, "bot.footer", footer)
}

func (r *settingsRepository) SetModmailCooldownSeconds(ctx context.Context, guildID string, seconds int) error {
	return r.set(ctx, guildID, "modmail.cooldownSeconds", seconds)
}

func (r *settingsRepository) set(ctx context.Context, guildID, field string, value any) error {
	filter := bson.M{"guildId": guildID}
	update := bson.M{"$set": bson.M{field: value}}
	_, err := r.coll.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}
