package discord

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/membercat-studios/membercat-bot/internal/domain"
)

// Status indicators shown on the staff-side ticket post.
const (
	IndicatorOpen     = "🟢 Open"
	IndicatorClosed   = "🔴 Closed"
	IndicatorResolved = "✅ Resolved"
)

var namedColors = map[string]int{
	"white":  0xFFFFFF,
	"red":    0xED4245,
	"green":  0x57F287,
	"blue":   0x3498DB,
	"yellow": 0xFEE75C,
	"purple": 0x9B59B6,
}

// ParseColor turns a hex code or basic color name into an embed color.
func ParseColor(value string) int {
	value = strings.TrimSpace(strings.ToLower(value))
	if c, ok := namedColors[value]; ok {
		return c
	}
	value = strings.TrimPrefix(value, "#")
	if parsed, err := strconv.ParseInt(value, 16, 32); err == nil {
		return int(parsed)
	}
	return namedColors["white"]
}

// ValidColor reports whether value parses as a hex code or known name.
func ValidColor(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	if _, ok := namedColors[value]; ok {
		return true
	}
	value = strings.TrimPrefix(value, "#")
	if len(value) != 6 {
		return false
	}
	_, err := strconv.ParseInt(value, 16, 32)
	return err == nil
}

func footer(appearance domain.BotAppearance, iconURL string) *discordgo.MessageEmbedFooter {
	if appearance.Footer == "" {
		return nil
	}
	return &discordgo.MessageEmbedFooter{Text: appearance.Footer, IconURL: iconURL}
}

func stamp(appearance domain.BotAppearance, at time.Time) string {
	if !appearance.Timestamp {
		return ""
	}
	return at.UTC().Format(time.RFC3339)
}

// TicketPostEmbed renders the staff-channel post for a ticket. The status
// field is the third field; status updates re-render the whole embed.
func TicketPostEmbed(subject, body string, author User, indicator string, appearance domain.BotAppearance, at time.Time) *discordgo.MessageEmbed {
	color := ParseColor(appearance.Color)
	switch indicator {
	case IndicatorClosed:
		color = namedColors["red"]
	case IndicatorResolved:
		color = namedColors["green"]
	}
	return &discordgo.MessageEmbed{
		Title:       "📬 New Modmail | " + subject,
		Description: body,
		Color:       color,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "From", Value: fmt.Sprintf("<@%s>", author.ID), Inline: true},
			{Name: "Created At", Value: relativeStamp(at), Inline: true},
			{Name: "Status", Value: indicator, Inline: true},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text:    "User ID: " + author.ID,
			IconURL: author.AvatarURL,
		},
		Timestamp: stamp(appearance, at),
	}
}

// TurnEmbed renders one conversation turn for a thread or DM.
func TurnEmbed(author User, suffix, body string, color int, appearance domain.BotAppearance, at time.Time) *discordgo.MessageEmbed {
	name := author.Username
	if suffix != "" {
		name += " " + suffix
	}
	return &discordgo.MessageEmbed{
		Author: &discordgo.MessageEmbedAuthor{
			Name:    name,
			IconURL: author.AvatarURL,
		},
		Description: body,
		Color:       color,
		Timestamp:   stamp(appearance, at),
	}
}

// DMOpenedEmbed tells the ticket author how to use the DM relay.
func DMOpenedEmbed(subject, threadID string, appearance domain.BotAppearance, at time.Time) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "📬 Modmail Opened",
		Description: "Your modmail has been opened. You can reply to this message to send messages to the staff team. Your messages will be forwarded to them.",
		Color:       ParseColor(appearance.Color),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Subject", Value: subject, Inline: true},
			{Name: "Thread ID", Value: threadID, Inline: true},
			{Name: "How to use", Value: "Simply send a message in this DM to communicate with the staff team."},
		},
		Footer:    &discordgo.MessageEmbedFooter{Text: "Your messages will be forwarded to the staff team"},
		Timestamp: stamp(appearance, at),
	}
}

// ClosedNoticeEmbed is posted to the thread when a ticket closes.
func ClosedNoticeEmbed(byUser User, at time.Time) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "📪 Modmail Closed",
		Description: fmt.Sprintf("Modmail closed by <@%s>", byUser.ID),
		Color:       namedColors["red"],
		Timestamp:   at.UTC().Format(time.RFC3339),
	}
}

// DMClosedEmbed notifies the author their ticket was closed.
func DMClosedEmbed(byUser User, at time.Time) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "📪 Modmail Closed",
		Description: "Your modmail has been closed by " + byUser.Username,
		Color:       namedColors["red"],
		Timestamp:   at.UTC().Format(time.RFC3339),
	}
}

// ResolvedNoticeEmbed is posted to the thread when a ticket is resolved.
func ResolvedNoticeEmbed(resolution, threadID string, byUser User, at time.Time) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "✅ Modmail Resolved",
		Description: resolution,
		Color:       namedColors["green"],
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Resolved By", Value: fmt.Sprintf("<@%s>", byUser.ID), Inline: true},
			{Name: "Resolution Time", Value: relativeStamp(at), Inline: true},
		},
		Footer:    &discordgo.MessageEmbedFooter{Text: "Modmail ID: " + threadID, IconURL: byUser.AvatarURL},
		Timestamp: at.UTC().Format(time.RFC3339),
	}
}

// DMResolvedEmbed notifies the author their ticket was resolved.
func DMResolvedEmbed(resolution string, byUser User, at time.Time) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "✅ Modmail Resolved",
		Description: "Your modmail has been resolved by " + byUser.Username,
		Color:       namedColors["green"],
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Resolution Message", Value: resolution},
		},
		Timestamp: at.UTC().Format(time.RFC3339),
	}
}

// DMBannedEmbed notifies a user they were barred from modmail.
func DMBannedEmbed(reason string, at time.Time) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "🚫 Modmail Ban",
		Description: "You have been banned from opening modmails with the staff team.",
		Color:       namedColors["red"],
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Reason", Value: reason},
		},
		Timestamp: at.UTC().Format(time.RFC3339),
	}
}

// DMUnbannedEmbed notifies a user their modmail ban was lifted.
func DMUnbannedEmbed(at time.Time) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "📬 Modmail Ban Lifted",
		Description: "You may open modmails with the staff team again.",
		Color:       namedColors["green"],
		Timestamp:   at.UTC().Format(time.RFC3339),
	}
}

// ReportEmbed summarizes every ticket a user has opened.
func ReportEmbed(username string, tickets []domain.Ticket, appearance domain.BotAppearance, at time.Time) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:     "📬 Modmails for " + username,
		Color:     ParseColor(appearance.Color),
		Timestamp: stamp(appearance, at),
	}
	for _, t := range tickets {
		indicator := IndicatorOpen
		if !t.IsOpen() {
			indicator = IndicatorClosed
		}
		value := fmt.Sprintf("Status: %s\nCreated: %s\nMessages: %d",
			indicator, relativeStamp(t.CreatedAt), len(t.Messages))
		if t.ClosedAt != nil {
			value += "\nClosed: " + relativeStamp(*t.ClosedAt)
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Modmail ID: " + t.ThreadID,
			Value: value,
		})
	}
	return embed
}

func relativeStamp(at time.Time) string {
	return fmt.Sprintf("<t:%d:R>", at.Unix())
}
