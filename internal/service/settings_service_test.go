package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/membercat-studios/membercat-bot/internal/cache"
	"github.com/membercat-studios/membercat-bot/internal/repository"
	"github.com/membercat-studios/membercat-bot/pkg/util"
)

func newSettingsFixture() (*SettingsService, *fakeSettingsRepo, *cache.Memory) {
	repo := newFakeSettingsRepo()
	store := cache.NewMemory()
	return NewSettingsService(testGuildID, repo, store, zap.NewNop()), repo, store
}

func TestSettingsGet(t *testing.T) {
	ctx := context.Background()

	t.Run("CachesAfterFirstLoad", func(t *testing.T) {
		svc, repo, store := newSettingsFixture()

		first, err := svc.Get(ctx)
		require.NoError(t, err)
		assert.Equal(t, testGuildID, first.GuildID)
		assert.True(t, store.Has(ctx, cache.KeySettings(testGuildID)))

		// Mutating the repo behind the cache is not visible until expiry.
		repo.settings.Bot.Footer = "changed behind the cache"
		second, err := svc.Get(ctx)
		require.NoError(t, err)
		assert.NotEqual(t, "changed behind the cache", second.Bot.Footer)
	})
}

func TestSettingsMutations(t *testing.T) {
	ctx := context.Background()

	t.Run("WritesInvalidateCache", func(t *testing.T) {
		svc, repo, store := newSettingsFixture()
		_, err := svc.Get(ctx)
		require.NoError(t, err)

		require.NoError(t, svc.SetFooter(ctx, "new footer"))
		assert.False(t, store.Has(ctx, cache.KeySettings(testGuildID)))
		assert.Equal(t, "new footer", repo.settings.Bot.Footer)

		settings, err := svc.Get(ctx)
		require.NoError(t, err)
		assert.Equal(t, "new footer", settings.Bot.Footer)
	})

	t.Run("SetChannel", func(t *testing.T) {
		svc, repo, _ := newSettingsFixture()
		require.NoError(t, svc.SetChannel(ctx, repository.ChannelLogging, "log-channel"))
		assert.Equal(t, "log-channel", repo.settings.Channels.Logging)
	})

	t.Run("UpdaterIntervalBounds", func(t *testing.T) {
		svc, repo, _ := newSettingsFixture()

		require.NoError(t, svc.SetUpdaterInterval(ctx, 5))
		assert.Equal(t, 5*time.Minute, repo.settings.UpdaterInterval())

		err := svc.SetUpdaterInterval(ctx, 0)
		require.Error(t, err)
		assert.Equal(t, "VALIDATION_FAILED", util.CodeOf(err))

		err = svc.SetUpdaterInterval(ctx, 61)
		require.Error(t, err)
		assert.Equal(t, "VALIDATION_FAILED", util.CodeOf(err))
	})

	t.Run("ColorValidation", func(t *testing.T) {
		svc, repo, _ := newSettingsFixture()

		require.NoError(t, svc.SetColor(ctx, "#57F287"))
		assert.Equal(t, "#57F287", repo.settings.Bot.Color)

		require.NoError(t, svc.SetColor(ctx, "green"))

		err := svc.SetColor(ctx, "not-a-color")
		require.Error(t, err)
		assert.Equal(t, "VALIDATION_FAILED", util.CodeOf(err))
	})

	t.Run("NegativeCooldownRejected", func(t *testing.T) {
		svc, _, _ := newSettingsFixture()
		err := svc.SetModmailCooldown(ctx, -1)
		require.Error(t, err)
		assert.Equal(t, "VALIDATION_FAILED", util.CodeOf(err))
	})
}

func TestSettingsToggleFeature(t *testing.T) {
	ctx := context.Background()

	t.Run("FlipsFeedToggles", func(t *testing.T) {
		svc, repo, _ := newSettingsFixture()

		enabled, err := svc.ToggleFeature(ctx, "bluesky")
		require.NoError(t, err)
		assert.True(t, enabled)
		assert.True(t, repo.settings.Features.Bluesky)

		enabled, err = svc.ToggleFeature(ctx, "bluesky")
		require.NoError(t, err)
		assert.False(t, enabled)
	})

	t.Run("FlipsTimestampCosmetic", func(t *testing.T) {
		svc, repo, _ := newSettingsFixture()

		enabled, err := svc.ToggleFeature(ctx, "timestamp")
		require.NoError(t, err)
		assert.False(t, enabled)
		assert.False(t, repo.settings.Bot.Timestamp)
	})

	t.Run("UnknownFeatureRejected", func(t *testing.T) {
		svc, _, _ := newSettingsFixture()
		_, err := svc.ToggleFeature(ctx, "teleport")
		require.Error(t, err)
		assert.Equal(t, "VALIDATION_FAILED", util.CodeOf(err))
	})
}
