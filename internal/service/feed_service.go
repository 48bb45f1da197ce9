package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/membercat-studios/membercat-bot/internal/domain"
	"github.com/membercat-studios/membercat-bot/internal/repository"
	"github.com/membercat-studios/membercat-bot/pkg/util"
)

// FeedService manages the followed social accounts behind the feed
// announcer. Follows take effect on the announcer's next poll; a freshly
// followed account is primed silently before anything is announced.
type FeedService struct {
	guildID string
	repo    repository.FeedRepository
	logger  *zap.Logger
}

// NewFeedService constructs the service.
func NewFeedService(guildID string, repo repository.FeedRepository, logger *zap.Logger) *FeedService {
	return &FeedService{guildID: guildID, repo: repo, logger: logger}
}

// Accounts lists the followed accounts for a platform.
func (s *FeedService) Accounts(ctx context.Context, platform repository.FeedPlatform) ([]domain.FeedAccount, error) {
	if err := validPlatform(platform); err != nil {
		return nil, err
	}
	state, err := s.repo.Get(ctx, s.guildID)
	if err != nil {
		return nil, err
	}
	return state.AccountsFor(string(platform)), nil
}

// Follow starts following an account on a platform.
func (s *FeedService) Follow(ctx context.Context, platform repository.FeedPlatform, accountID string) error {
	if err := validPlatform(platform); err != nil {
		return err
	}
	accountID = strings.TrimSpace(accountID)
	if accountID == "" {
		return util.NewDomainError("VALIDATION_FAILED", "Account id cannot be empty.", nil)
	}
	state, err := s.repo.Get(ctx, s.guildID)
	if err != nil {
		return err
	}
	for _, account := range state.AccountsFor(string(platform)) {
		if account.AccountID == accountID {
			return util.NewDomainError("VALIDATION_FAILED", "This account is already followed.",
				map[string]any{"platform": platform, "accountId": accountID})
		}
	}
	if err := s.repo.AddAccount(ctx, s.guildID, platform, accountID); err != nil {
		return err
	}
	s.logger.Info("feed account followed",
		zap.String("platform", string(platform)), zap.String("account", accountID))
	return nil
}

// Unfollow stops following an account.
func (s *FeedService) Unfollow(ctx context.Context, platform repository.FeedPlatform, accountID string) error {
	if err := validPlatform(platform); err != nil {
		return err
	}
	err := s.repo.RemoveAccount(ctx, s.guildID, platform, strings.TrimSpace(accountID))
	if errors.Is(err, repository.ErrNotFound) {
		return util.NewDomainError("VALIDATION_FAILED", "This account is not followed.",
			map[string]any{"platform": platform, "accountId": accountID})
	}
	if err != nil {
		return err
	}
	s.logger.Info("feed account unfollowed",
		zap.String("platform", string(platform)), zap.String("account", accountID))
	return nil
}

func validPlatform(platform repository.FeedPlatform) error {
	switch platform {
	case repository.PlatformBluesky, repository.PlatformYouTube, repository.PlatformInstagram:
		return nil
	}
	return util.NewDomainError("VALIDATION_FAILED", "Unknown platform: "+string(platform), nil)
}
