package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/membercat-studios/membercat-bot/internal/domain"
)

// ErrNotFound is returned when a targeted update matched no document.
var ErrNotFound = errors.New("document not found")

// MailboxRepository encapsulates guild mailbox persistence. Every mutation
// is a dedicated method so a future revision check can be added in one
// place. The guild document is created lazily by the first upserting write.
type MailboxRepository interface {
	// Get returns the guild mailbox, or an empty unsaved mailbox when the
	// guild has no document yet.
	Get(ctx context.Context, guildID string) (*domain.Mailbox, error)
	// AppendTicket adds a new ticket and bumps the running total,
	// creating the guild document if needed.
	AppendTicket(ctx context.Context, guildID string, ticket domain.Ticket) error
	// SetDMChannel records the DM channel handle on an existing ticket.
	SetDMChannel(ctx context.Context, guildID, threadID, dmChannelID string) error
	// AppendMessage pushes one turn onto a ticket's message log.
	AppendMessage(ctx context.Context, guildID, threadID string, msg domain.TicketMessage) error
	// CloseTicket transitions a ticket to closed with the given timestamp.
	CloseTicket(ctx context.Context, guildID, threadID string, closedAt time.Time) error
	// AddBan appends a ban record.
	AddBan(ctx context.Context, guildID string, ban domain.BanRecord) error
	// RemoveBan removes the ban record for a user.
	RemoveBan(ctx context.Context, guildID, userID string) error
	// SetCooldown records a user's last ticket-creation time.
	SetCooldown(ctx context.Context, guildID, userID string, at time.Time) error
}

type mailboxRepository struct {
	coll *mongo.Collection
}

// NewMailboxRepository instantiates the repository over the mailboxes
// collection.
func NewMailboxRepository(db *mongo.Database) MailboxRepository {
	return &mailboxRepository{coll: db.Collection("mailboxes")}
}

func (r *mailboxRepository) Get(ctx context.Context, guildID string) (*domain.Mailbox, error) {
	var mailbox domain.Mailbox
	err := r.coll.FindOne(ctx, bson.M{"guildId": guildID}).Decode(&mailbox)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return &domain.Mailbox{
			GuildID:   guildID,
			Cooldowns: map[string]time.Time{},
		}, nil
	}
	if err != nil {
		return nil, err
	}
	if mailbox.Cooldowns == nil {
		mailbox.Cooldowns = map[string]time.Time{}
	}
	return &mailbox, nil
}

func (r *mailboxRepository) AppendTicket(ctx context.Context, guildID string, ticket domain.Ticket) error {
	filter := bson.M{"guildId": guildID}
	update := bson.M{
		"$push": bson.M{"modmails": ticket},
		"$inc":  bson.M{"totalCount": 1},
		"$setOnInsert": bson.M{
			"banned":    []domain.BanRecord{},
			"cooldowns": map[string]time.Time{},
		},
	}
	_, err := r.coll.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

func (r *mailboxRepository) SetDMChannel(ctx context.Context, guildID, threadID, dmChannelID string) error {
	return r.updateTicket(ctx, guildID, threadID, bson.M{
		"$set": bson.M{"modmails.$.dmChannelId": dmChannelID},
	})
}

func (r *mailboxRepository) AppendMessage(ctx context.Context, guildID, threadID string, msg domain.TicketMessage) error {
	return r.updateTicket(ctx, guildID, threadID, bson.M{
		"$push": bson.M{"modmails.$.messages": msg},
	})
}

func (r *mailboxRepository) CloseTicket(ctx context.Context, guildID, threadID string, closedAt time.Time) error {
	return r.updateTicket(ctx, guildID, threadID, bson.M{
		"$set": bson.M{
			"modmails.$.status":   domain.TicketStatusClosed,
			"modmails.$.closedAt": closedAt,
		},
	})
}

func (r *mailboxRepository) updateTicket(ctx context.Context, guildID, threadID string, update bson.M) error {
	filter := bson.M{"guildId": guildID, "modmails.threadId": threadID}
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mailboxRepository) AddBan(ctx context.Context, guildID string, ban domain.BanRecord) error {
	filter := bson.M{"guildId": guildID}
	update := bson.M{
		"$push": bson.M{"banned": ban},
		"$setOnInsert": bson.M{
			"totalCount": 0,
			"modmails":   []domain.Ticket{},
			"cooldowns":  map[string]time.Time{},
		},
	}
	_, err := r.coll.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

func (r *mailboxRepository) RemoveBan(ctx context.Context, guildID, userID string) error {
	filter := bson.M{"guildId": guildID}
	update := bson.M{"$pull": bson.M{"banned": bson.M{"userId": userID}}}
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mailboxRepository) SetCooldown(ctx context.Context, guildID, userID string, at time.Time) error {
	filter := bson.M{"guildId": guildID}
	update := bson.M{
		"$set": bson.M{"cooldowns." + userID: at},
		"$setOnInsert": bson.M{
			"totalCount": 0,
			"modmails":   []domain.Ticket{},
			"banned":     []domain.BanRecord{},
		},
	}
	_, err := r.coll.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}
