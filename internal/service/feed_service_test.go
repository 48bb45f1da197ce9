package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/membercat-studios/membercat-bot/internal/domain"
	"github.com/membercat-studios/membercat-bot/internal/repository"
	"github.com/membercat-studios/membercat-bot/pkg/util"
)

// fakeFeedRepo keeps the guild feed state in memory and mirrors the
// store's ErrNotFound semantics on removal.
type fakeFeedRepo struct {
	state domain.FeedState
}

func (f *fakeFeedRepo) Get(context.Context, string) (*domain.FeedState, error) {
	copied := f.state
	copied.Bluesky = append([]domain.FeedAccount(nil), f.state.Bluesky...)
	copied.YouTube = append([]domain.FeedAccount(nil), f.state.YouTube...)
	copied.Instagram = append([]domain.FeedAccount(nil), f.state.Instagram...)
	return &copied, nil
}

func (f *fakeFeedRepo) AddAccount(_ context.Context, _ string, platform repository.FeedPlatform, accountID string) error {
	account := domain.FeedAccount{AccountID: accountID}
	switch platform {
	case repository.PlatformBluesky:
		f.state.Bluesky = append(f.state.Bluesky, account)
	case repository.PlatformYouTube:
		f.state.YouTube = append(f.state.YouTube, account)
	case repository.PlatformInstagram:
		f.state.Instagram = append(f.state.Instagram, account)
	}
	return nil
}

func (f *fakeFeedRepo) RemoveAccount(_ context.Context, _ string, platform repository.FeedPlatform, accountID string) error {
	lists := map[repository.FeedPlatform]*[]domain.FeedAccount{
		repository.PlatformBluesky:   &f.state.Bluesky,
		repository.PlatformYouTube:   &f.state.YouTube,
		repository.PlatformInstagram: &f.state.Instagram,
	}
	list := lists[platform]
	for i, account := range *list {
		if account.AccountID == accountID {
			*list = append((*list)[:i], (*list)[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeFeedRepo) SetLastPost(context.Context, string, repository.FeedPlatform, string, string) error {
	return nil
}

func newFeedFixture() (*FeedService, *fakeFeedRepo) {
	repo := &fakeFeedRepo{state: domain.FeedState{GuildID: testGuildID}}
	return NewFeedService(testGuildID, repo, zap.NewNop()), repo
}

func TestFollow(t *testing.T) {
	ctx := context.Background()

	t.Run("AddsAccount", func(t *testing.T) {
		svc, repo := newFeedFixture()
		require.NoError(t, svc.Follow(ctx, repository.PlatformBluesky, "did:plc:abc123"))

		require.Len(t, repo.state.Bluesky, 1)
		assert.Equal(t, "did:plc:abc123", repo.state.Bluesky[0].AccountID)
		assert.Empty(t, repo.state.Bluesky[0].LastPostID)
	})

	t.Run("DuplicateRejected", func(t *testing.T) {
		svc, repo := newFeedFixture()
		require.NoError(t, svc.Follow(ctx, repository.PlatformYouTube, "UC123"))

		err := svc.Follow(ctx, repository.PlatformYouTube, "UC123")
		require.Error(t, err)
		assert.Equal(t, "VALIDATION_FAILED", util.CodeOf(err))
		assert.Len(t, repo.state.YouTube, 1)
	})

	t.Run("SameIDOnAnotherPlatformAllowed", func(t *testing.T) {
		svc, repo := newFeedFixture()
		require.NoError(t, svc.Follow(ctx, repository.PlatformBluesky, "membercat"))
		require.NoError(t, svc.Follow(ctx, repository.PlatformInstagram, "membercat"))

		assert.Len(t, repo.state.Bluesky, 1)
		assert.Len(t, repo.state.Instagram, 1)
	})

	t.Run("EmptyAccountRejected", func(t *testing.T) {
		svc, repo := newFeedFixture()
		err := svc.Follow(ctx, repository.PlatformBluesky, "  ")
		require.Error(t, err)
		assert.Equal(t, "VALIDATION_FAILED", util.CodeOf(err))
		assert.Empty(t, repo.state.Bluesky)
	})

	t.Run("UnknownPlatformRejected", func(t *testing.T) {
		svc, _ := newFeedFixture()
		err := svc.Follow(ctx, repository.FeedPlatform("myspace"), "tom")
		require.Error(t, err)
		assert.Equal(t, "VALIDATION_FAILED", util.CodeOf(err))
	})
}

func TestUnfollow(t *testing.T) {
	ctx := context.Background()

	t.Run("RemovesAccount", func(t *testing.T) {
		svc, repo := newFeedFixture()
		require.NoError(t, svc.Follow(ctx, repository.PlatformBluesky, "did:plc:abc123"))

		require.NoError(t, svc.Unfollow(ctx, repository.PlatformBluesky, "did:plc:abc123"))
		assert.Empty(t, repo.state.Bluesky)
	})

	t.Run("UnknownAccountRejected", func(t *testing.T) {
		svc, _ := newFeedFixture()
		err := svc.Unfollow(ctx, repository.PlatformBluesky, "did:plc:missing")
		require.Error(t, err)
		assert.Equal(t, "VALIDATION_FAILED", util.CodeOf(err))
	})
}

func TestAccounts(t *testing.T) {
	ctx := context.Background()

	svc, _ := newFeedFixture()
	require.NoError(t, svc.Follow(ctx, repository.PlatformBluesky, "a"))
	require.NoError(t, svc.Follow(ctx, repository.PlatformBluesky, "b"))

	accounts, err := svc.Accounts(ctx, repository.PlatformBluesky)
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, "a", accounts[0].AccountID)
	assert.Equal(t, "b", accounts[1].AccountID)

	empty, err := svc.Accounts(ctx, repository.PlatformYouTube)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
