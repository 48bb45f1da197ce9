package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/membercat-studios/membercat-bot/internal/domain"
)

// FeedPlatform names a supported social feed source.
type FeedPlatform string

const (
	PlatformBluesky   FeedPlatform = "bluesky"
	PlatformYouTube   FeedPlatform = "youtube"
	PlatformInstagram FeedPlatform = "instagram"
)

// FeedRepository persists the followed accounts and their per-account
// announcement watermarks.
type FeedRepository interface {
	// Get returns the guild feed state, or an empty state when the guild
	// has no document yet.
	Get(ctx context.Context, guildID string) (*domain.FeedState, error)
	// AddAccount starts following an account on a platform, creating the
	// guild document if needed. Duplicate checks happen above this layer.
	AddAccount(ctx context.Context, guildID string, platform FeedPlatform, accountID string) error
	// RemoveAccount stops following an account.
	RemoveAccount(ctx context.Context, guildID string, platform FeedPlatform, accountID string) error
	// SetLastPost advances the announced-post watermark for one account.
	SetLastPost(ctx context.Context, guildID string, platform FeedPlatform, accountID, postID string) error
}

type feedRepository struct {
	coll *mongo.Collection
}

// NewFeedRepository instantiates the repository over the feeds collection.
func NewFeedRepository(db *mongo.Database) FeedRepository {
	return &feedRepository{coll: db.Collection("feeds")}
}

func (r *feedRepository) Get(ctx context.Context, guildID string) (*domain.FeedState, error) {
	var state domain.FeedState
	err := r.coll.FindOne(ctx, bson.M{"guildId": guildID}).Decode(&state)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return &domain.FeedState{GuildID: guildID}, nil
	}
	if err != nil {
		return nil, err
	}
	return &state, nil
}

func (r *feedRepository) AddAccount(ctx context.Context, guildID string, platform FeedPlatform, accountID string) error {
	filter := bson.M{"guildId": guildID}
	update := bson.M{"$push": bson.M{string(platform): domain.FeedAccount{AccountID: accountID}}}
	_, err := r.coll.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

func (r *feedRepository) RemoveAccount(ctx context.Context, guildID string, platform FeedPlatform, accountID string) error {
	filter := bson.M{"guildId": guildID}
	update := bson.M{"$pull": bson.M{string(platform): bson.M{"accountId": accountID}}}
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 || res.ModifiedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *feedRepository) SetLastPost(ctx context.Context, guildID string, platform FeedPlatform, accountID, postID string) error {
	filter := bson.M{
		"guildId": guildID,
		fmt.Sprintf("%s.accountId", platform): accountID,
	}
	update := bson.M{
		"$set": bson.M{fmt.Sprintf("%s.$.lastPostId", platform): postID},
	}
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
