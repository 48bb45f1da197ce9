package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/membercat-studios/membercat-bot/internal/cache"
	"github.com/membercat-studios/membercat-bot/internal/discord"
	"github.com/membercat-studios/membercat-bot/internal/domain"
	"github.com/membercat-studios/membercat-bot/internal/events"
	"github.com/membercat-studios/membercat-bot/internal/repository"
)

// ticketTTL bounds how long an open-ticket snapshot may serve DM routing
// before the store is consulted again.
const ticketTTL = 5 * time.Minute

const (
	staffTurnColor = 0x57F287
	userTurnColor  = 0x3498DB
)

// ModmailService orchestrates the ticket lifecycle for a single guild.
// The cache is a read-through accelerator only; every mutation persists
// to the mailbox store immediately and touched cache entries are
// invalidated or refreshed before the operation returns. Per-ticket
// mutations are not serialized: if two operations race on one ticket the
// last persisted write wins.
type ModmailService struct {
	guildID          string
	mailboxes        repository.MailboxRepository
	settings         *SettingsService
	gateway          discord.Gateway
	cache            cache.Cache
	events           events.Dispatcher
	logger           *zap.Logger
	fallbackCooldown time.Duration
	now              func() time.Time
	newID            func() string
}

// ModmailDependencies bundles collaborators for the modmail service.
type ModmailDependencies struct {
	GuildID     string
	MailboxRepo repository.MailboxRepository
	Settings    *SettingsService
	Gateway     discord.Gateway
	Cache       cache.Cache
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
	// FallbackCooldown gates ticket creation when the guild settings
	// carry no cooldown of their own.
	FallbackCooldown time.Duration
}

// NewModmailService constructs the service.
func NewModmailService(deps ModmailDependencies) *ModmailService {
	return &ModmailService{
		guildID:          deps.GuildID,
		mailboxes:        deps.MailboxRepo,
		settings:         deps.Settings,
		gateway:          deps.Gateway,
		cache:            deps.Cache,
		events:           deps.Dispatcher,
		logger:           deps.Logger,
		fallbackCooldown: deps.FallbackCooldown,
		now:              time.Now,
		newID:            uuid.NewString,
	}
}

// WithClock overrides the time source. Tests only.
func (s *ModmailService) WithClock(now func() time.Time) *ModmailService {
	s.now = now
	return s
}

// Open creates a ticket for author: staff post, discussion thread and DM
// channel, in that order. The staff post and thread must exist before the
// ticket is persisted as open so no open ticket lacks a reachable
// channel. The DM is best-effort.
func (s *ModmailService) Open(ctx context.Context, author discord.User, subject, body string) (*domain.Ticket, error) {
	mailbox, err := s.mailboxes.Get(ctx, s.guildID)
	if err != nil {
		return nil, err
	}

	if ban := mailbox.BanFor(author.ID); ban != nil {
		return nil, errBanned(ban)
	}
	if existing := mailbox.OpenTicketFor(author.ID); existing != nil {
		return nil, errAlreadyOpen(existing.ID)
	}

	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	window := s.cooldownWindow(settings)
	if retryAt, active := s.cooldownRetry(ctx, mailbox, author.ID, window, now); active {
		return nil, errCooldownActive(retryAt)
	}

	channelID := settings.Channels.Modmail
	if channelID == "" {
		return nil, errChannelNotFound()
	}

	post, err := s.gateway.SendEmbed(ctx, channelID,
		discord.TicketPostEmbed(subject, body, author, discord.IndicatorOpen, settings.Bot, now))
	if err != nil {
		return nil, err
	}

	threadID, err := s.gateway.CreateThread(ctx, channelID, post.ID, subject+" | "+author.Username)
	if err != nil {
		return nil, err
	}
	if _, err := s.gateway.SendEmbed(ctx, threadID,
		discord.TurnEmbed(author, "", body, discord.ParseColor(settings.Bot.Color), settings.Bot, now)); err != nil {
		s.logger.Warn("could not post opening message to thread", zap.String("thread", threadID), zap.Error(err))
	}

	ticket := domain.Ticket{
		ID:          post.ID,
		Author:      author.ID,
		ChannelID:   channelID,
		ThreadID:    threadID,
		Subject:     subject,
		OpeningBody: body,
		Status:      domain.TicketStatusOpen,
		CreatedAt:   now,
		Messages:    []domain.TicketMessage{},
	}
	if err := s.mailboxes.AppendTicket(ctx, s.guildID, ticket); err != nil {
		return nil, err
	}

	s.recordCooldown(ctx, author.ID, now, window)

	if dmID, dmErr := s.gateway.CreateDM(ctx, author.ID); dmErr != nil {
		s.logger.Warn("could not DM user", zap.String("user", author.ID), zap.Error(dmErr))
	} else {
		ticket.DMChannelID = dmID
		if err := s.mailboxes.SetDMChannel(ctx, s.guildID, threadID, dmID); err != nil {
			s.logger.Warn("could not record DM channel", zap.String("thread", threadID), zap.Error(err))
		}
		if _, dmErr := s.gateway.SendEmbed(ctx, dmID,
			discord.DMOpenedEmbed(subject, threadID, settings.Bot, now)); dmErr != nil {
			s.logger.Warn("could not DM user", zap.String("user", author.ID), zap.Error(dmErr))
		}
	}

	s.cache.Set(ctx, cache.KeyOpenTicket(author.ID), ticket, ticketTTL)

	s.publish(ctx, events.Event{
		Type:    events.EventTicketOpened,
		GuildID: s.guildID,
		Actor:   events.Actor{Type: events.ActorUser, UserID: author.ID},
		Payload: events.TicketOpenedPayload{TicketID: ticket.ID, ThreadID: threadID, Subject: subject},
	})
	return &ticket, nil
}

// Respond appends a staff message to the ticket linked to threadID and
// relays it to both the thread and the author's DM. DM failure is logged,
// never fatal.
func (s *ModmailService) Respond(ctx context.Context, threadID string, staff discord.User, content string) error {
	mailbox, err := s.mailboxes.Get(ctx, s.guildID)
	if err != nil {
		return err
	}
	ticket := mailbox.TicketByThread(threadID)
	if ticket == nil {
		return errNotATicketThread()
	}
	if !ticket.IsOpen() {
		return errTicketClosed()
	}

	settings, err := s.settings.Get(ctx)
	if err != nil {
		return err
	}
	now := s.now()
	turn := discord.TurnEmbed(staff, "(Staff)", content, staffTurnColor, settings.Bot, now)

	if _, err := s.gateway.SendEmbed(ctx, threadID, turn); err != nil {
		return err
	}
	s.dmTicketAuthor(ctx, ticket, turn)

	msg := domain.TicketMessage{
		ID:        s.newID(),
		Content:   content,
		Author:    staff.ID,
		CreatedAt: now,
	}
	if err := s.mailboxes.AppendMessage(ctx, s.guildID, threadID, msg); err != nil {
		return err
	}

	ticket.Messages = append(ticket.Messages, msg)
	s.cache.Set(ctx, cache.KeyOpenTicket(ticket.Author), *ticket, ticketTTL)

	s.publish(ctx, events.Event{
		Type:    events.EventTicketMessage,
		GuildID: s.guildID,
		Actor:   events.Actor{Type: events.ActorStaff, UserID: staff.ID},
		Payload: events.TicketMessagePayload{ThreadID: threadID, AuthorID: staff.ID, BodyPreview: preview(content, 120)},
	})
	return nil
}

// Close transitions the ticket linked to threadID to closed. Closing is
// terminal; a second close fails with AlreadyClosed and changes nothing.
func (s *ModmailService) Close(ctx context.Context, threadID string, staff discord.User) error {
	mailbox, err := s.mailboxes.Get(ctx, s.guildID)
	if err != nil {
		return err
	}
	ticket := mailbox.TicketByThread(threadID)
	if ticket == nil {
		return errNotATicketThread()
	}
	if !ticket.IsOpen() {
		return errAlreadyClosed()
	}
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return err
	}
	now := s.now()
	if err := s.mailboxes.CloseTicket(ctx, s.guildID, threadID, now); err != nil {
		return err
	}

	s.updateIndicator(ctx, ticket, settings, discord.IndicatorClosed, now)
	if _, err := s.gateway.SendEmbed(ctx, threadID, discord.ClosedNoticeEmbed(staff, now)); err != nil {
		s.logger.Warn("could not post closing notice", zap.String("thread", threadID), zap.Error(err))
	}
	s.dmTicketAuthor(ctx, ticket, discord.DMClosedEmbed(staff, now))
	s.archive(ctx, threadID)
	s.cache.Delete(ctx, cache.KeyOpenTicket(ticket.Author))

	s.publish(ctx, events.Event{
		Type:    events.EventTicketClosed,
		GuildID: s.guildID,
		Actor:   events.Actor{Type: events.ActorStaff, UserID: staff.ID},
		Payload: events.TicketClosedPayload{ThreadID: threadID, AuthorID: ticket.Author},
	})
	return nil
}

// Resolve closes the ticket and records resolution as its final message.
func (s *ModmailService) Resolve(ctx context.Context, threadID string, staff discord.User, resolution string) error {
	mailbox, err := s.mailboxes.Get(ctx, s.guildID)
	if err != nil {
		return err
	}
	ticket := mailbox.TicketByThread(threadID)
	if ticket == nil {
		return errNotATicketThread()
	}
	if !ticket.IsOpen() {
		return errAlreadyClosed()
	}
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return err
	}
	now := s.now()

	msg := domain.TicketMessage{
		ID:        s.newID(),
		Content:   resolution,
		Author:    staff.ID,
		CreatedAt: now,
	}
	if err := s.mailboxes.AppendMessage(ctx, s.guildID, threadID, msg); err != nil {
		return err
	}
	if err := s.mailboxes.CloseTicket(ctx, s.guildID, threadID, now); err != nil {
		return err
	}

	s.updateIndicator(ctx, ticket, settings, discord.IndicatorResolved, now)
	if _, err := s.gateway.SendEmbed(ctx, threadID, discord.ResolvedNoticeEmbed(resolution, threadID, staff, now)); err != nil {
		s.logger.Warn("could not post resolution notice", zap.String("thread", threadID), zap.Error(err))
	}
	s.dmTicketAuthor(ctx, ticket, discord.DMResolvedEmbed(resolution, staff, now))
	s.archive(ctx, threadID)
	s.cache.Delete(ctx, cache.KeyOpenTicket(ticket.Author))

	s.publish(ctx, events.Event{
		Type:    events.EventTicketResolved,
		GuildID: s.guildID,
		Actor:   events.Actor{Type: events.ActorStaff, UserID: staff.ID},
		Payload: events.TicketClosedPayload{ThreadID: threadID, AuthorID: ticket.Author, Resolution: preview(resolution, 120)},
	})
	return nil
}

// Ban bars target from opening tickets and force-closes every open
// ticket they authored, with the same side effects as Close but no
// per-ticket staff context.
func (s *ModmailService) Ban(ctx context.Context, staff discord.User, targetID, reason string) error {
	mailbox, err := s.mailboxes.Get(ctx, s.guildID)
	if err != nil {
		return err
	}
	if mailbox.BanFor(targetID) != nil {
		return errAlreadyBanned(targetID)
	}
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return err
	}
	now := s.now()

	if err := s.mailboxes.AddBan(ctx, s.guildID, domain.BanRecord{
		UserID:    targetID,
		Reason:    reason,
		Moderator: staff.ID,
		BannedAt:  now,
	}); err != nil {
		return err
	}

	for i := range mailbox.Tickets {
		ticket := &mailbox.Tickets[i]
		if ticket.Author != targetID || !ticket.IsOpen() {
			continue
		}
		if err := s.mailboxes.CloseTicket(ctx, s.guildID, ticket.ThreadID, now); err != nil {
			s.logger.Error("could not force-close ticket", zap.String("thread", ticket.ThreadID), zap.Error(err))
			continue
		}
		s.updateIndicator(ctx, ticket, settings, discord.IndicatorClosed, now)
		if _, err := s.gateway.SendEmbed(ctx, ticket.ThreadID, discord.ClosedNoticeEmbed(staff, now)); err != nil {
			s.logger.Warn("could not post closing notice", zap.String("thread", ticket.ThreadID), zap.Error(err))
		}
		s.archive(ctx, ticket.ThreadID)
		s.publish(ctx, events.Event{
			Type:    events.EventTicketClosed,
			GuildID: s.guildID,
			Actor:   events.Actor{Type: events.ActorStaff, UserID: staff.ID},
			Payload: events.TicketClosedPayload{ThreadID: ticket.ThreadID, AuthorID: targetID, Forced: true},
		})
	}
	s.cache.Delete(ctx, cache.KeyOpenTicket(targetID))

	s.dmUser(ctx, targetID, discord.DMBannedEmbed(reason, now))

	s.publish(ctx, events.Event{
		Type:    events.EventUserBanned,
		GuildID: s.guildID,
		Actor:   events.Actor{Type: events.ActorStaff, UserID: staff.ID},
		Payload: events.BanPayload{TargetID: targetID, Reason: reason},
	})
	return nil
}

// Unban lifts a modmail ban.
func (s *ModmailService) Unban(ctx context.Context, staff discord.User, targetID string) error {
	mailbox, err := s.mailboxes.Get(ctx, s.guildID)
	if err != nil {
		return err
	}
	if mailbox.BanFor(targetID) == nil {
		return errNotBanned(targetID)
	}
	if err := s.mailboxes.RemoveBan(ctx, s.guildID, targetID); err != nil {
		return err
	}
	s.dmUser(ctx, targetID, discord.DMUnbannedEmbed(s.now()))

	s.publish(ctx, events.Event{
		Type:    events.EventUserUnbanned,
		GuildID: s.guildID,
		Actor:   events.Actor{Type: events.ActorStaff, UserID: staff.ID},
		Payload: events.BanPayload{TargetID: targetID},
	})
	return nil
}

// Report returns every ticket (open and closed) authored by targetID.
func (s *ModmailService) Report(ctx context.Context, targetID string) ([]domain.Ticket, error) {
	mailbox, err := s.mailboxes.Get(ctx, s.guildID)
	if err != nil {
		return nil, err
	}
	return mailbox.TicketsFor(targetID), nil
}

// cooldownWindow prefers the guild's configured cooldown; a guild
// without one falls back to the deploy-time default.
func (s *ModmailService) cooldownWindow(settings *domain.Settings) time.Duration {
	if settings != nil && settings.Modmail.CooldownSeconds > 0 {
		return time.Duration(settings.Modmail.CooldownSeconds) * time.Second
	}
	if s.fallbackCooldown > 0 {
		return s.fallbackCooldown
	}
	return time.Hour
}

func (s *ModmailService) cooldownRetry(ctx context.Context, mailbox *domain.Mailbox, userID string, window time.Duration, now time.Time) (time.Time, bool) {
	var last time.Time
	if !s.cache.Get(ctx, cache.KeyCooldown(userID), &last) {
		last = mailbox.Cooldowns[userID]
	}
	if last.IsZero() {
		return time.Time{}, false
	}
	retryAt := last.Add(window)
	if now.Before(retryAt) {
		return retryAt, true
	}
	return time.Time{}, false
}

func (s *ModmailService) recordCooldown(ctx context.Context, userID string, at time.Time, window time.Duration) {
	if err := s.mailboxes.SetCooldown(ctx, s.guildID, userID, at); err != nil {
		s.logger.Warn("could not persist cooldown", zap.String("user", userID), zap.Error(err))
	}
	s.cache.Set(ctx, cache.KeyCooldown(userID), at, window)
}

// updateIndicator re-renders the staff post with the new status. Failure
// is logged only; the persisted state change already happened.
func (s *ModmailService) updateIndicator(ctx context.Context, ticket *domain.Ticket, settings *domain.Settings, indicator string, at time.Time) {
	author := discord.User{ID: ticket.Author}
	embed := discord.TicketPostEmbed(ticket.Subject, ticket.OpeningBody, author, indicator, settings.Bot, ticket.CreatedAt)
	if err := s.gateway.EditEmbed(ctx, ticket.ChannelID, ticket.ID, embed); err != nil {
		s.logger.Warn("could not update ticket status display",
			zap.String("ticket", ticket.ID), zap.Error(err))
	}
}

func (s *ModmailService) archive(ctx context.Context, threadID string) {
	if err := s.gateway.ArchiveThread(ctx, threadID); err != nil {
		s.logger.Warn("could not archive thread", zap.String("thread", threadID), zap.Error(err))
	}
}

// dmTicketAuthor sends a best-effort DM via the ticket's recorded DM
// channel, opening one when absent.
func (s *ModmailService) dmTicketAuthor(ctx context.Context, ticket *domain.Ticket, embed *discordgo.MessageEmbed) {
	dmID := ticket.DMChannelID
	if dmID == "" {
		created, err := s.gateway.CreateDM(ctx, ticket.Author)
		if err != nil {
			s.logger.Warn("could not DM user", zap.String("user", ticket.Author), zap.Error(err))
			return
		}
		dmID = created
	}
	if _, err := s.gateway.SendEmbed(ctx, dmID, embed); err != nil {
		s.logger.Warn("could not DM user", zap.String("user", ticket.Author), zap.Error(err))
	}
}

func (s *ModmailService) dmUser(ctx context.Context, userID string, embed *discordgo.MessageEmbed) {
	dmID, err := s.gateway.CreateDM(ctx, userID)
	if err != nil {
		s.logger.Warn("could not DM user", zap.String("user", userID), zap.Error(err))
		return
	}
	if _, err := s.gateway.SendEmbed(ctx, dmID, embed); err != nil {
		s.logger.Warn("could not DM user", zap.String("user", userID), zap.Error(err))
	}
}

func (s *ModmailService) publish(ctx context.Context, event events.Event) {
	if s.events == nil {
		return
	}
	if event.ID == "" {
		event.ID = s.newID()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	_ = s.events.Publish(ctx, event)
}

func preview(body string, max int) string {
	body = strings.TrimSpace(body)
	if len(body) <= max {
		return body
	}
	if max <= 3 {
		return body[:max]
	}
	return body[:max-3] + "..."
}
