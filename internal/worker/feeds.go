package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/mmcdole/gofeed"
	"go.uber.org/zap"

	"github.com/membercat-studios/membercat-bot/internal/config"
	"github.com/membercat-studios/membercat-bot/internal/discord"
	"github.com/membercat-studios/membercat-bot/internal/domain"
	"github.com/membercat-studios/membercat-bot/internal/observability"
	"github.com/membercat-studios/membercat-bot/internal/repository"
	"github.com/membercat-studios/membercat-bot/internal/service"
)

// FeedAnnouncer polls the followed social accounts over RSS and posts new
// entries to the guild's posts channel. Each account carries a watermark
// (the newest already-announced post id); an account with no watermark is
// primed silently so a fresh follow does not replay its backlog.
type FeedAnnouncer struct {
	guildID  string
	cfg      config.FeedConfig
	feeds    repository.FeedRepository
	settings *service.SettingsService
	gateway  discord.Gateway
	parser   *gofeed.Parser
	metrics  *observability.Metrics
	logger   *zap.Logger
}

// FeedDependencies bundles collaborators for the feed announcer.
type FeedDependencies struct {
	GuildID  string
	Config   config.FeedConfig
	FeedRepo repository.FeedRepository
	Settings *service.SettingsService
	Gateway  discord.Gateway
	Metrics  *observability.Metrics
	Logger   *zap.Logger
}

// NewFeedAnnouncer creates the announcer.
func NewFeedAnnouncer(deps FeedDependencies) *FeedAnnouncer {
	return &FeedAnnouncer{
		guildID:  deps.GuildID,
		cfg:      deps.Config,
		feeds:    deps.FeedRepo,
		settings: deps.Settings,
		gateway:  deps.Gateway,
		parser:   gofeed.NewParser(),
		metrics:  deps.Metrics,
		logger:   deps.Logger,
	}
}

// Run blocks until ctx is canceled. The poll period follows guild
// settings; a settings change takes effect on the next tick.
func (f *FeedAnnouncer) Run(ctx context.Context) {
	f.logger.Info("feed announcer started")
	for {
		interval := f.interval(ctx)
		select {
		case <-ctx.Done():
			f.logger.Info("feed announcer stopped")
			return
		case <-time.After(interval):
			if err := f.Poll(ctx); err != nil {
				f.metrics.RecordError("feeds", "POLL_FAILED")
				f.logger.Error("feed poll failed", zap.Error(err))
			}
			f.metrics.RecordWorkerRun("feeds")
		}
	}
}

// Poll runs one pass over every enabled platform's accounts.
func (f *FeedAnnouncer) Poll(ctx context.Context) error {
	settings, err := f.settings.Get(ctx)
	if err != nil {
		return err
	}
	state, err := f.feeds.Get(ctx, f.guildID)
	if err != nil {
		return err
	}

	if settings.Features.Bluesky {
		f.pollPlatform(ctx, repository.PlatformBluesky, state.Bluesky, settings)
	}
	if settings.Features.YouTube {
		f.pollPlatform(ctx, repository.PlatformYouTube, state.YouTube, settings)
	}
	if settings.Features.Instagram {
		f.pollPlatform(ctx, repository.PlatformInstagram, state.Instagram, settings)
	}
	return nil
}

func (f *FeedAnnouncer) pollPlatform(ctx context.Context, platform repository.FeedPlatform, accounts []domain.FeedAccount, settings *domain.Settings) {
	for _, account := range accounts {
		if err := f.pollAccount(ctx, platform, account, settings); err != nil {
			f.logger.Error("feed account poll failed",
				zap.String("platform", string(platform)),
				zap.String("account", account.AccountID),
				zap.Error(err))
		}
	}
}

func (f *FeedAnnouncer) pollAccount(ctx context.Context, platform repository.FeedPlatform, account domain.FeedAccount, settings *domain.Settings) error {
	feed, err := f.parser.ParseURLWithContext(feedURL(platform, account.AccountID), ctx)
	if err != nil {
		return err
	}
	if len(feed.Items) == 0 {
		return nil
	}
	newest := feed.Items[0]
	postID := itemID(newest)
	if postID == "" || postID == account.LastPostID {
		return nil
	}

	// An empty watermark means this account was just followed; prime it
	// without posting.
	if account.LastPostID != "" {
		if err := f.announce(ctx, platform, feed, newest, settings); err != nil {
			return err
		}
	}
	return f.feeds.SetLastPost(ctx, f.guildID, platform, account.AccountID, postID)
}

func (f *FeedAnnouncer) announce(ctx context.Context, platform repository.FeedPlatform, feed *gofeed.Feed, item *gofeed.Item, settings *domain.Settings) error {
	channelID := settings.Channels.Posts
	if channelID == "" {
		f.logger.Warn("no posts channel configured, skipping announcement",
			zap.String("platform", string(platform)))
		return nil
	}
	content := fmt.Sprintf("%s **%s** just posted!\n%s", platformEmoji(platform), feed.Title, item.Link)
	if _, err := f.gateway.SendMessage(ctx, channelID, content); err != nil {
		return err
	}
	f.logger.Info("announced feed post",
		zap.String("platform", string(platform)),
		zap.String("post", item.Link))
	return nil
}

func (f *FeedAnnouncer) interval(ctx context.Context) time.Duration {
	settings, err := f.settings.Get(ctx)
	if err != nil {
		return f.cfg.DefaultInterval()
	}
	return settings.RSSInterval()
}

// feedURL maps an account id to its public RSS endpoint. Bluesky account
// ids are the DID suffix of the profile.
func feedURL(platform repository.FeedPlatform, accountID string) string {
	switch platform {
	case repository.PlatformBluesky:
		return fmt.Sprintf("https://bsky.app/profile/did:plc:%s/rss", accountID)
	case repository.PlatformYouTube:
		return fmt.Sprintf("https://www.youtube.com/feeds/videos.xml?channel_id=%s", accountID)
	case repository.PlatformInstagram:
		return fmt.Sprintf("https://rsshub.app/instagram/user/%s", accountID)
	}
	return accountID
}

func itemID(item *gofeed.Item) string {
	if item.GUID != "" {
		return item.GUID
	}
	return item.Link
}

func platformEmoji(platform repository.FeedPlatform) string {
	switch platform {
	case repository.PlatformBluesky:
		return "🦋"
	case repository.PlatformYouTube:
		return "▶️"
	case repository.PlatformInstagram:
		return "📸"
	}
	return "📰"
}
