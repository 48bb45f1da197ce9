package service

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/membercat-studios/membercat-bot/internal/discord"
	"github.com/membercat-studios/membercat-bot/internal/events"
)

// AuditService mirrors domain events and moderation activity into the
// guild's logging channel. Logging is best-effort everywhere: a guild
// with no logging channel configured simply gets the structured log
// lines and nothing else.
type AuditService struct {
	dispatcher events.Dispatcher
	settings   *SettingsService
	gateway    discord.Gateway
	logger     *zap.Logger
}

// NewAuditService creates the service.
func NewAuditService(dispatcher events.Dispatcher, settings *SettingsService, gateway discord.Gateway, logger *zap.Logger) *AuditService {
	return &AuditService{
		dispatcher: dispatcher,
		settings:   settings,
		gateway:    gateway,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to events.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventTicketOpened, a.handleTicketOpened)
	a.dispatcher.Subscribe(events.EventTicketMessage, a.handleTicketMessage)
	a.dispatcher.Subscribe(events.EventTicketClosed, a.handleTicketClosed)
	a.dispatcher.Subscribe(events.EventTicketResolved, a.handleTicketClosed)
	a.dispatcher.Subscribe(events.EventUserBanned, a.handleBanChanged)
	a.dispatcher.Subscribe(events.EventUserUnbanned, a.handleBanChanged)
}

func (a *AuditService) handleTicketOpened(ctx context.Context, event events.Event) error {
	a.logger.Info("TicketOpened",
		zap.String("guild_id", event.GuildID),
		zap.String("actor", event.Actor.UserID),
		zap.Any("payload", event.Payload))
	payload, ok := event.Payload.(events.TicketOpenedPayload)
	if !ok {
		return nil
	}
	a.post(ctx, &discordgo.MessageEmbed{
		Title:       "📬 Modmail Opened",
		Description: fmt.Sprintf("<@%s> opened a modmail: **%s**", event.Actor.UserID, payload.Subject),
		Color:       0x3498DB,
		Footer:      &discordgo.MessageEmbedFooter{Text: "Thread ID: " + payload.ThreadID},
		Timestamp:   event.Timestamp.UTC().Format(time.RFC3339),
	})
	return nil
}

func (a *AuditService) handleTicketMessage(ctx context.Context, event events.Event) error {
	a.logger.Info("TicketMessage",
		zap.String("guild_id", event.GuildID),
		zap.String("actor", event.Actor.UserID),
		zap.Any("payload", event.Payload))
	return nil
}

func (a *AuditService) handleTicketClosed(ctx context.Context, event events.Event) error {
	a.logger.Info(string(event.Type),
		zap.String("guild_id", event.GuildID),
		zap.String("actor", event.Actor.UserID),
		zap.Any("payload", event.Payload))
	payload, ok := event.Payload.(events.TicketClosedPayload)
	if !ok {
		return nil
	}
	title := "📪 Modmail Closed"
	if event.Type == events.EventTicketResolved {
		title = "✅ Modmail Resolved"
	}
	description := fmt.Sprintf("Modmail by <@%s> was closed by <@%s>.", payload.AuthorID, event.Actor.UserID)
	if payload.Forced {
		description = fmt.Sprintf("Modmail by <@%s> was force-closed by a ban from <@%s>.", payload.AuthorID, event.Actor.UserID)
	}
	a.post(ctx, &discordgo.MessageEmbed{
		Title:       title,
		Description: description,
		Color:       0xED4245,
		Footer:      &discordgo.MessageEmbedFooter{Text: "Thread ID: " + payload.ThreadID},
		Timestamp:   event.Timestamp.UTC().Format(time.RFC3339),
	})
	return nil
}

func (a *AuditService) handleBanChanged(ctx context.Context, event events.Event) error {
	a.logger.Info(string(event.Type),
		zap.String("guild_id", event.GuildID),
		zap.String("actor", event.Actor.UserID),
		zap.Any("payload", event.Payload))
	payload, ok := event.Payload.(events.BanPayload)
	if !ok {
		return nil
	}
	embed := &discordgo.MessageEmbed{
		Title:       "🚫 Modmail Ban",
		Description: fmt.Sprintf("<@%s> banned <@%s> from modmail.", event.Actor.UserID, payload.TargetID),
		Color:       0xED4245,
		Timestamp:   event.Timestamp.UTC().Format(time.RFC3339),
	}
	if payload.Reason != "" {
		embed.Fields = []*discordgo.MessageEmbedField{{Name: "Reason", Value: payload.Reason}}
	}
	if event.Type == events.EventUserUnbanned {
		embed.Title = "📬 Modmail Ban Lifted"
		embed.Description = fmt.Sprintf("<@%s> unbanned <@%s> from modmail.", event.Actor.UserID, payload.TargetID)
		embed.Color = 0x57F287
	}
	a.post(ctx, embed)
	return nil
}

// MessageDeleted logs a deleted guild message.
func (a *AuditService) MessageDeleted(ctx context.Context, channelID, authorID, content string) {
	embed := &discordgo.MessageEmbed{
		Title:       "🗑️ Message Deleted",
		Description: orPlaceholder(content),
		Color:       0xED4245,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Channel", Value: fmt.Sprintf("<#%s>", channelID), Inline: true},
		},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	if authorID != "" {
		embed.Fields = append(embed.Fields,
			&discordgo.MessageEmbedField{Name: "Author", Value: fmt.Sprintf("<@%s>", authorID), Inline: true})
	}
	a.post(ctx, embed)
}

// MessageEdited logs a message edit with before and after content.
func (a *AuditService) MessageEdited(ctx context.Context, channelID, authorID, before, after string) {
	if before == after {
		return
	}
	a.post(ctx, &discordgo.MessageEmbed{
		Title: "✏️ Message Edited",
		Color: 0xFEE75C,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Channel", Value: fmt.Sprintf("<#%s>", channelID), Inline: true},
			{Name: "Author", Value: fmt.Sprintf("<@%s>", authorID), Inline: true},
			{Name: "Before", Value: orPlaceholder(before)},
			{Name: "After", Value: orPlaceholder(after)},
		},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// MemberUpdated logs nickname or timeout changes for a guild member.
func (a *AuditService) MemberUpdated(ctx context.Context, userID, change string) {
	a.post(ctx, &discordgo.MessageEmbed{
		Title:       "👤 Member Updated",
		Description: fmt.Sprintf("<@%s>: %s", userID, change),
		Color:       0x3498DB,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
	})
}

// post delivers an embed to the configured logging channel, if any.
func (a *AuditService) post(ctx context.Context, embed *discordgo.MessageEmbed) {
	settings, err := a.settings.Get(ctx)
	if err != nil {
		a.logger.Warn("could not load settings for audit log", zap.Error(err))
		return
	}
	channelID := settings.Channels.Logging
	if channelID == "" {
		return
	}
	if _, err := a.gateway.SendEmbed(ctx, channelID, embed); err != nil {
		a.logger.Warn("could not post audit log", zap.String("channel", channelID), zap.Error(err))
	}
}

func orPlaceholder(content string) string {
	if content == "" {
		return "*<no text content>*"
	}
	return content
}
