package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/membercat-studios/membercat-bot/internal/cache"
	"github.com/membercat-studios/membercat-bot/internal/discord"
	"github.com/membercat-studios/membercat-bot/internal/domain"
	"github.com/membercat-studios/membercat-bot/internal/events"
)

// HandleDM relays a user's direct message into their open ticket's
// thread. A DM from a user with no open ticket is ignored without reply;
// DMs are a general surface and most are not modmail traffic. Relay
// failure is surfaced so the caller can tell the user, since a silently
// dropped message would look delivered.
func (s *ModmailService) HandleDM(ctx context.Context, msg discord.InboundMessage) error {
	ticket, err := s.openTicketFor(ctx, msg.Author.ID)
	if err != nil {
		return err
	}
	if ticket == nil {
		return nil
	}

	settings, err := s.settings.Get(ctx)
	if err != nil {
		return err
	}
	now := s.now()

	turn := discord.TurnEmbed(msg.Author, "", msg.Content, userTurnColor, settings.Bot, now)
	if _, err := s.gateway.SendEmbed(ctx, ticket.ThreadID, turn); err != nil {
		return errDeliveryFailed(err)
	}

	if err := s.gateway.React(ctx, msg.ChannelID, msg.ID, "✅"); err != nil {
		s.logger.Debug("could not acknowledge DM", zap.String("user", msg.Author.ID), zap.Error(err))
	}

	record := domain.TicketMessage{
		ID:        s.newID(),
		Content:   msg.Content,
		Author:    msg.Author.ID,
		CreatedAt: now,
	}
	if err := s.mailboxes.AppendMessage(ctx, s.guildID, ticket.ThreadID, record); err != nil {
		s.logger.Error("could not record relayed DM",
			zap.String("thread", ticket.ThreadID), zap.Error(err))
	} else {
		ticket.Messages = append(ticket.Messages, record)
	}
	s.cache.Set(ctx, cache.KeyOpenTicket(ticket.Author), *ticket, ticketTTL)

	s.publish(ctx, events.Event{
		Type:    events.EventTicketMessage,
		GuildID: s.guildID,
		Actor:   events.Actor{Type: events.ActorUser, UserID: msg.Author.ID},
		Payload: events.TicketMessagePayload{ThreadID: ticket.ThreadID, AuthorID: msg.Author.ID, BodyPreview: preview(msg.Content, 120)},
	})
	return nil
}

// openTicketFor resolves the user's open ticket, cache-first. A cache
// miss falls back to the mailbox store; a stale cached ticket that the
// store says is closed is discarded.
func (s *ModmailService) openTicketFor(ctx context.Context, userID string) (*domain.Ticket, error) {
	var cached domain.Ticket
	if s.cache.Get(ctx, cache.KeyOpenTicket(userID), &cached) && cached.IsOpen() {
		return &cached, nil
	}

	mailbox, err := s.mailboxes.Get(ctx, s.guildID)
	if err != nil {
		return nil, err
	}
	ticket := mailbox.OpenTicketFor(userID)
	if ticket == nil {
		return nil, nil
	}
	s.cache.Set(ctx, cache.KeyOpenTicket(userID), *ticket, ticketTTL)
	return ticket, nil
}
