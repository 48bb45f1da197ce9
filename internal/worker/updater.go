package worker

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/membercat-studios/membercat-bot/internal/cache"
	"github.com/membercat-studios/membercat-bot/internal/config"
	"github.com/membercat-studios/membercat-bot/internal/discord"
	"github.com/membercat-studios/membercat-bot/internal/domain"
	"github.com/membercat-studios/membercat-bot/internal/modrinth"
	"github.com/membercat-studios/membercat-bot/internal/observability"
	"github.com/membercat-studios/membercat-bot/internal/repository"
	"github.com/membercat-studios/membercat-bot/internal/service"
)

// Modrinth asks API consumers to pace bulk reads. Projects are checked in
// small batches with a pause between them.
const (
	updaterBatchSize  = 3
	updaterBatchPause = time.Second
)

// Updater polls the Modrinth organization for project updates and
// announces new releases. A project seen for the first time is tracked
// silently; announcements only start from its next update, so a fresh
// deployment does not replay history.
type Updater struct {
	cfg      config.UpdaterConfig
	client   *modrinth.Client
	projects repository.ProjectRepository
	settings *service.SettingsService
	gateway  discord.Gateway
	cache    cache.Cache
	metrics  *observability.Metrics
	logger   *zap.Logger
}

// UpdaterDependencies bundles collaborators for the updater.
type UpdaterDependencies struct {
	Config      config.UpdaterConfig
	Client      *modrinth.Client
	ProjectRepo repository.ProjectRepository
	Settings    *service.SettingsService
	Gateway     discord.Gateway
	Cache       cache.Cache
	Metrics     *observability.Metrics
	Logger      *zap.Logger
}

// NewUpdater creates the updater.
func NewUpdater(deps UpdaterDependencies) *Updater {
	return &Updater{
		cfg:      deps.Config,
		client:   deps.Client,
		projects: deps.ProjectRepo,
		settings: deps.Settings,
		gateway:  deps.Gateway,
		cache:    deps.Cache,
		metrics:  deps.Metrics,
		logger:   deps.Logger,
	}
}

// Run blocks until ctx is canceled. The poll period follows guild
// settings; a settings change takes effect on the next tick.
func (u *Updater) Run(ctx context.Context) {
	u.logger.Info("update poller started", zap.String("organization", u.cfg.Organization))
	for {
		interval := u.interval(ctx)
		select {
		case <-ctx.Done():
			u.logger.Info("update poller stopped")
			return
		case <-time.After(interval):
			if err := u.Poll(ctx); err != nil {
				u.metrics.RecordError("updater", "POLL_FAILED")
				u.logger.Error("update poll failed", zap.Error(err))
			}
			u.metrics.RecordWorkerRun("updater")
		}
	}
}

// Poll runs one polling pass: list organization projects, detect which
// moved past their tracked watermark, and announce those.
func (u *Updater) Poll(ctx context.Context) error {
	projects, err := u.client.OrganizationProjects(ctx, u.cfg.Organization)
	if err != nil {
		return err
	}
	tracker, err := u.projects.Get(ctx)
	if err != nil {
		return err
	}
	if len(projects) != tracker.TotalProjects {
		if err := u.projects.SetTotal(ctx, len(projects)); err != nil {
			u.logger.Warn("could not update project count", zap.Error(err))
		}
	}

	for i, project := range projects {
		if i > 0 && i%updaterBatchSize == 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(updaterBatchPause):
			}
		}
		if err := u.checkProject(ctx, tracker, project); err != nil {
			u.logger.Error("project check failed",
				zap.String("project", project.ID), zap.Error(err))
		}
	}
	return nil
}

func (u *Updater) checkProject(ctx context.Context, tracker *domain.ProjectTracker, project modrinth.Project) error {
	updated := project.UpdatedAt().UnixMilli()
	if updated <= 0 {
		return nil
	}
	u.cache.Set(ctx, cache.KeyProject(project.ID), project, u.cfg.DefaultInterval())

	tracked := tracker.Find(project.ID)
	if tracked == nil {
		return u.projects.Track(ctx, domain.TrackedProject{ID: project.ID, LastUpdated: updated})
	}
	if updated <= tracked.LastUpdated {
		return nil
	}

	version, err := u.client.LatestVersion(ctx, project.ID)
	if err != nil {
		return err
	}
	if version != nil {
		u.cache.Set(ctx, cache.KeyVersion(project.ID), *version, u.cfg.DefaultInterval())
	}
	if err := u.announce(ctx, project, version); err != nil {
		return err
	}
	return u.projects.SetLastUpdated(ctx, project.ID, updated)
}

func (u *Updater) announce(ctx context.Context, project modrinth.Project, version *modrinth.Version) error {
	settings, err := u.settings.Get(ctx)
	if err != nil {
		return err
	}
	channelID := settings.Updater.Channel
	if channelID == "" {
		channelID = settings.Channels.Uploads
	}
	if channelID == "" {
		u.logger.Warn("no updater channel configured, skipping announcement",
			zap.String("project", project.ID))
		return nil
	}

	embed := updateEmbed(project, version, settings.Bot)
	content := ""
	if settings.Updater.PingRole != "" {
		content = fmt.Sprintf("<@&%s>", settings.Updater.PingRole)
	}
	_, err = u.gateway.SendAnnouncement(ctx, channelID, content, embed)
	if err == nil {
		u.logger.Info("announced project update",
			zap.String("project", project.ID), zap.String("channel", channelID))
	}
	return err
}

func (u *Updater) interval(ctx context.Context) time.Duration {
	settings, err := u.settings.Get(ctx)
	if err != nil {
		return u.cfg.DefaultInterval()
	}
	return settings.UpdaterInterval()
}

func updateEmbed(project modrinth.Project, version *modrinth.Version, appearance domain.BotAppearance) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       "🚀 " + project.Name + " has been updated!",
		URL:         project.URL(),
		Description: project.Summary,
		Color:       discord.ParseColor(appearance.Color),
		Thumbnail:   &discordgo.MessageEmbedThumbnail{URL: project.IconURL},
		Timestamp:   project.UpdatedAt().UTC().Format(time.RFC3339),
	}
	if version != nil {
		embed.Fields = append(embed.Fields,
			&discordgo.MessageEmbedField{Name: "Version", Value: version.VersionNumber, Inline: true})
		if len(version.GameVersions) > 0 {
			embed.Fields = append(embed.Fields,
				&discordgo.MessageEmbedField{Name: "Game Versions", Value: strings.Join(version.GameVersions, ", "), Inline: true})
		}
		if changelog := strings.TrimSpace(version.Changelog); changelog != "" {
			if len(changelog) > 1024 {
				changelog = changelog[:1021] + "..."
			}
			embed.Fields = append(embed.Fields,
				&discordgo.MessageEmbedField{Name: "Changelog", Value: changelog})
		}
	}
	if appearance.Footer != "" {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: appearance.Footer}
	}
	return embed
}
