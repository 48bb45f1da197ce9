package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/membercat-studios/membercat-bot/internal/cache"
	"github.com/membercat-studios/membercat-bot/internal/discord"
	"github.com/membercat-studios/membercat-bot/internal/domain"
	"github.com/membercat-studios/membercat-bot/internal/repository"
	"github.com/membercat-studios/membercat-bot/pkg/util"
)

const settingsTTL = 5 * time.Minute

// SettingsService serves guild settings through the cache and applies
// mutations from the settings command surface. Every write invalidates
// the cached document so readers never see stale configuration for longer
// than one in-flight operation.
type SettingsService struct {
	guildID string
	repo    repository.SettingsRepository
	cache   cache.Cache
	logger  *zap.Logger
}

// NewSettingsService constructs the service.
func NewSettingsService(guildID string, repo repository.SettingsRepository, c cache.Cache, logger *zap.Logger) *SettingsService {
	return &SettingsService{
		guildID: guildID,
		repo:    repo,
		cache:   c,
		logger:  logger,
	}
}

// Get returns the guild settings, cache-first.
func (s *SettingsService) Get(ctx context.Context) (*domain.Settings, error) {
	key := cache.KeySettings(s.guildID)
	var cached domain.Settings
	if s.cache.Get(ctx, key, &cached) {
		return &cached, nil
	}
	settings, err := s.repo.Get(ctx, s.guildID)
	if err != nil {
		return nil, err
	}
	s.cache.Set(ctx, key, *settings, settingsTTL)
	return settings, nil
}

// SetChannel assigns a channel slot.
func (s *SettingsService) SetChannel(ctx context.Context, kind repository.ChannelKind, channelID string) error {
	return s.apply(ctx, s.repo.SetChannel(ctx, s.guildID, kind, channelID))
}

// SetUpdaterInterval sets the update poll period in minutes.
func (s *SettingsService) SetUpdaterInterval(ctx context.Context, minutes int) error {
	if minutes < 1 || minutes > 60 {
		return util.NewDomainError("VALIDATION_FAILED", "Interval must be between 1 and 60 minutes.", nil)
	}
	return s.apply(ctx, s.repo.SetUpdaterIntervalMs(ctx, s.guildID, minutes*60_000))
}

// SetUpdaterPingRole sets the role mentioned on update announcements.
func (s *SettingsService) SetUpdaterPingRole(ctx context.Context, roleID string) error {
	return s.apply(ctx, s.repo.SetUpdaterPingRole(ctx, s.guildID, roleID))
}

// SetUpdaterChannel sets the channel update announcements go to.
func (s *SettingsService) SetUpdaterChannel(ctx context.Context, channelID string) error {
	return s.apply(ctx, s.repo.SetUpdaterChannel(ctx, s.guildID, channelID))
}

// ToggleFeature flips one of the feed toggles or the timestamp cosmetic.
// Returns the new state.
func (s *SettingsService) ToggleFeature(ctx context.Context, feature string) (bool, error) {
	settings, err := s.repo.Get(ctx, s.guildID)
	if err != nil {
		return false, err
	}
	var next bool
	switch strings.ToLower(feature) {
	case "bluesky":
		next = !settings.Features.Bluesky
		err = s.repo.SetFeature(ctx, s.guildID, repository.FeatureBluesky, next)
	case "instagram":
		next = !settings.Features.Instagram
		err = s.repo.SetFeature(ctx, s.guildID, repository.FeatureInstagram, next)
	case "youtube":
		next = !settings.Features.YouTube
		err = s.repo.SetFeature(ctx, s.guildID, repository.FeatureYouTube, next)
	case "timestamp":
		next = !settings.Bot.Timestamp
		err = s.repo.SetTimestamp(ctx, s.guildID, next)
	default:
		return false, util.NewDomainError("VALIDATION_FAILED", "Unknown feature: "+feature, nil)
	}
	if err != nil {
		return false, err
	}
	s.invalidate(ctx)
	return next, nil
}

// SetColor sets the embed color.
func (s *SettingsService) SetColor(ctx context.Context, color string) error {
	if !discord.ValidColor(color) {
		return util.NewDomainError("VALIDATION_FAILED", "Use a hex code like #57F287 or a basic color name.", nil)
	}
	return s.apply(ctx, s.repo.SetColor(ctx, s.guildID, color))
}

// SetFooter sets the embed footer text.
func (s *SettingsService) SetFooter(ctx context.Context, footer string) error {
	return s.apply(ctx, s.repo.SetFooter(ctx, s.guildID, strings.TrimSpace(footer)))
}

// SetModmailCooldown sets the minimum interval between ticket creations.
func (s *SettingsService) SetModmailCooldown(ctx context.Context, seconds int) error {
	if seconds < 0 {
		return util.NewDomainError("VALIDATION_FAILED", "Cooldown cannot be negative.", nil)
	}
	return s.apply(ctx, s.repo.SetModmailCooldownSeconds(ctx, s.guildID, seconds))
}

func (s *SettingsService) apply(ctx context.Context, err error) error {
	if err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *SettingsService) invalidate(ctx context.Context) {
	s.cache.Delete(ctx, cache.KeySettings(s.guildID))
}
