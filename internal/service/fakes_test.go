package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/membercat-studios/membercat-bot/internal/cache"
	"github.com/membercat-studios/membercat-bot/internal/discord"
	"github.com/membercat-studios/membercat-bot/internal/domain"
	"github.com/membercat-studios/membercat-bot/internal/events"
	"github.com/membercat-studios/membercat-bot/internal/repository"
)

const testGuildID = "guild-1"

// fakeMailboxRepo keeps the guild mailbox in memory and mirrors the
// store's update semantics, including ErrNotFound on missing threads.
type fakeMailboxRepo struct {
	mailbox domain.Mailbox
}

func newFakeMailboxRepo() *fakeMailboxRepo {
	return &fakeMailboxRepo{
		mailbox: domain.Mailbox{
			GuildID:   testGuildID,
			Cooldowns: map[string]time.Time{},
		},
	}
}

func (f *fakeMailboxRepo) Get(context.Context, string) (*domain.Mailbox, error) {
	copied := f.mailbox
	copied.Tickets = append([]domain.Ticket(nil), f.mailbox.Tickets...)
	copied.Banned = append([]domain.BanRecord(nil), f.mailbox.Banned...)
	copied.Cooldowns = map[string]time.Time{}
	for k, v := range f.mailbox.Cooldowns {
		copied.Cooldowns[k] = v
	}
	return &copied, nil
}

func (f *fakeMailboxRepo) AppendTicket(_ context.Context, _ string, ticket domain.Ticket) error {
	f.mailbox.Tickets = append(f.mailbox.Tickets, ticket)
	f.mailbox.TotalCount++
	return nil
}

func (f *fakeMailboxRepo) SetDMChannel(_ context.Context, _, threadID, dmChannelID string) error {
	ticket := f.mailbox.TicketByThread(threadID)
	if ticket == nil {
		return repository.ErrNotFound
	}
	ticket.DMChannelID = dmChannelID
	return nil
}

func (f *fakeMailboxRepo) AppendMessage(_ context.Context, _, threadID string, msg domain.TicketMessage) error {
	ticket := f.mailbox.TicketByThread(threadID)
	if ticket == nil {
		return repository.ErrNotFound
	}
	ticket.Messages = append(ticket.Messages, msg)
	return nil
}

func (f *fakeMailboxRepo) CloseTicket(_ context.Context, _, threadID string, closedAt time.Time) error {
	ticket := f.mailbox.TicketByThread(threadID)
	if ticket == nil {
		return repository.ErrNotFound
	}
	ticket.Status = domain.TicketStatusClosed
	ticket.ClosedAt = &closedAt
	return nil
}

func (f *fakeMailboxRepo) AddBan(_ context.Context, _ string, ban domain.BanRecord) error {
	f.mailbox.Banned = append(f.mailbox.Banned, ban)
	return nil
}

func (f *fakeMailboxRepo) RemoveBan(_ context.Context, _, userID string) error {
	for i, ban := range f.mailbox.Banned {
		if ban.UserID == userID {
			f.mailbox.Banned = append(f.mailbox.Banned[:i], f.mailbox.Banned[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeMailboxRepo) SetCooldown(_ context.Context, _, userID string, at time.Time) error {
	f.mailbox.Cooldowns[userID] = at
	return nil
}

// fakeSettingsRepo serves a single settings document.
type fakeSettingsRepo struct {
	settings domain.Settings
}

func newFakeSettingsRepo() *fakeSettingsRepo {
	settings := *domain.DefaultSettings(testGuildID)
	settings.Channels.Modmail = "modmail-channel"
	return &fakeSettingsRepo{settings: settings}
}

func (f *fakeSettingsRepo) Get(context.Context, string) (*domain.Settings, error) {
	copied := f.settings
	return &copied, nil
}

func (f *fakeSettingsRepo) SetChannel(_ context.Context, _ string, kind repository.ChannelKind, channelID string) error {
	switch kind {
	case repository.ChannelLogging:
		f.settings.Channels.Logging = channelID
	case repository.ChannelModmail:
		f.settings.Channels.Modmail = channelID
	case repository.ChannelPosts:
		f.settings.Channels.Posts = channelID
	case repository.ChannelUploads:
		f.settings.Channels.Uploads = channelID
	}
	return nil
}

func (f *fakeSettingsRepo) SetUpdaterIntervalMs(_ context.Context, _ string, ms int) error {
	f.settings.Updater.IntervalMs = ms
	return nil
}

func (f *fakeSettingsRepo) SetUpdaterPingRole(_ context.Context, _ string, roleID string) error {
	f.settings.Updater.PingRole = roleID
	return nil
}

func (f *fakeSettingsRepo) SetUpdaterChannel(_ context.Context, _ string, channelID string) error {
	f.settings.Updater.Channel = channelID
	return nil
}

func (f *fakeSettingsRepo) SetFeature(_ context.Context, _ string, feature repository.FeatureName, enabled bool) error {
	switch feature {
	case repository.FeatureBluesky:
		f.settings.Features.Bluesky = enabled
	case repository.FeatureInstagram:
		f.settings.Features.Instagram = enabled
	case repository.FeatureYouTube:
		f.settings.Features.YouTube = enabled
	}
	return nil
}

func (f *fakeSettingsRepo) SetTimestamp(_ context.Context, _ string, enabled bool) error {
	f.settings.Bot.Timestamp = enabled
	return nil
}

func (f *fakeSettingsRepo) SetColor(_ context.Context, _ string, color string) error {
	f.settings.Bot.Color = color
	return nil
}

func (f *fakeSettingsRepo) SetFooter(_ context.Context, _ string, footer string) error {
	f.settings.Bot.Footer = footer
	return nil
}

func (f *fakeSettingsRepo) SetModmailCooldownSeconds(_ context.Context, _ string, seconds int) error {
	f.settings.Modmail.CooldownSeconds = seconds
	return nil
}

// fakeGateway records outbound calls and can be told to fail specific
// operations.
type sentMessage struct {
	channelID string
	content   string
	embed     *discordgo.MessageEmbed
}

type fakeGateway struct {
	sent      []sentMessage
	edits     []sentMessage
	archived  []string
	reactions []string
	dmOpened  []string

	nextID   int
	failSend map[string]bool
	failDM   bool
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{failSend: map[string]bool{}}
}

func (f *fakeGateway) id(prefix string) string {
	f.nextID++
	return fmt.Sprintf("%s-%d", prefix, f.nextID)
}

func (f *fakeGateway) SendMessage(_ context.Context, channelID, content string) (*discord.Message, error) {
	if f.failSend[channelID] {
		return nil, errors.New("send failed")
	}
	f.sent = append(f.sent, sentMessage{channelID: channelID, content: content})
	return &discord.Message{ID: f.id("msg"), ChannelID: channelID}, nil
}

func (f *fakeGateway) SendEmbed(_ context.Context, channelID string, embed *discordgo.MessageEmbed) (*discord.Message, error) {
	if f.failSend[channelID] {
		return nil, errors.New("send failed")
	}
	f.sent = append(f.sent, sentMessage{channelID: channelID, embed: embed})
	return &discord.Message{ID: f.id("msg"), ChannelID: channelID}, nil
}

func (f *fakeGateway) SendAnnouncement(_ context.Context, channelID, content string, embed *discordgo.MessageEmbed) (*discord.Message, error) {
	if f.failSend[channelID] {
		return nil, errors.New("send failed")
	}
	f.sent = append(f.sent, sentMessage{channelID: channelID, content: content, embed: embed})
	return &discord.Message{ID: f.id("msg"), ChannelID: channelID}, nil
}

func (f *fakeGateway) CreateThread(_ context.Context, _, _, _ string) (string, error) {
	return f.id("thread"), nil
}

func (f *fakeGateway) EditEmbed(_ context.Context, channelID, messageID string, embed *discordgo.MessageEmbed) error {
	f.edits = append(f.edits, sentMessage{channelID: channelID, content: messageID, embed: embed})
	return nil
}

func (f *fakeGateway) CreateDM(_ context.Context, userID string) (string, error) {
	if f.failDM {
		return "", errors.New("cannot DM user")
	}
	f.dmOpened = append(f.dmOpened, userID)
	return "dm-" + userID, nil
}

func (f *fakeGateway) ArchiveThread(_ context.Context, threadID string) error {
	f.archived = append(f.archived, threadID)
	return nil
}

func (f *fakeGateway) React(_ context.Context, channelID, messageID, emoji string) error {
	f.reactions = append(f.reactions, channelID+"/"+messageID+"/"+emoji)
	return nil
}

// sentTo returns the embeds delivered to one channel, in order.
func (f *fakeGateway) sentTo(channelID string) []sentMessage {
	var out []sentMessage
	for _, msg := range f.sent {
		if msg.channelID == channelID {
			out = append(out, msg)
		}
	}
	return out
}

// fixture wires a modmail service against the fakes with a controllable
// clock.
type fixture struct {
	service  *ModmailService
	repo     *fakeMailboxRepo
	gateway  *fakeGateway
	cache    *cache.Memory
	settings *fakeSettingsRepo
	now      time.Time
}

func newFixture() *fixture {
	f := &fixture{
		repo:     newFakeMailboxRepo(),
		gateway:  newFakeGateway(),
		settings: newFakeSettingsRepo(),
		now:      time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	clock := func() time.Time { return f.now }
	f.cache = cache.NewMemory().WithClock(clock)

	logger := zap.NewNop()
	settingsService := NewSettingsService(testGuildID, f.settings, f.cache, logger)
	f.service = NewModmailService(ModmailDependencies{
		GuildID:          testGuildID,
		MailboxRepo:      f.repo,
		Settings:         settingsService,
		Gateway:          f.gateway,
		Cache:            f.cache,
		Dispatcher:       events.NewInMemoryDispatcher(logger),
		Logger:           logger,
		FallbackCooldown: 30 * time.Minute,
	}).WithClock(clock)
	return f
}

func (f *fixture) advance(d time.Duration) {
	f.now = f.now.Add(d)
}

func (f *fixture) user(id string) discord.User {
	return discord.User{ID: id, Username: "user-" + id}
}
