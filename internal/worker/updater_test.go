package worker

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
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

type fakeProjects struct {
	tracker domain.ProjectTracker
}

func (f *fakeProjects) Get(context.Context) (*domain.ProjectTracker, error) {
	copied := f.tracker
	copied.Projects = append([]domain.TrackedProject(nil), f.tracker.Projects...)
	return &copied, nil
}

func (f *fakeProjects) Track(_ context.Context, project domain.TrackedProject) error {
	f.tracker.Projects = append(f.tracker.Projects, project)
	return nil
}

func (f *fakeProjects) SetLastUpdated(_ context.Context, projectID string, lastUpdated int64) error {
	tracked := f.tracker.Find(projectID)
	if tracked == nil {
		return repository.ErrNotFound
	}
	tracked.LastUpdated = lastUpdated
	return nil
}

func (f *fakeProjects) SetTotal(_ context.Context, total int) error {
	f.tracker.TotalProjects = total
	return nil
}

type stubSettingsRepo struct {
	settings domain.Settings
}

func (s *stubSettingsRepo) Get(context.Context, string) (*domain.Settings, error) {
	copied := s.settings
	return &copied, nil
}
func (s *stubSettingsRepo) SetChannel(context.Context, string, repository.ChannelKind, string) error {
	return nil
}
func (s *stubSettingsRepo) SetUpdaterIntervalMs(context.Context, string, int) error { return nil }
func (s *stubSettingsRepo) SetUpdaterPingRole(context.Context, string, string) error {
	return nil
}
func (s *stubSettingsRepo) SetUpdaterChannel(context.Context, string, string) error { return nil }
func (s *stubSettingsRepo) SetFeature(context.Context, string, repository.FeatureName, bool) error {
	return nil
}
func (s *stubSettingsRepo) SetTimestamp(context.Context, string, bool) error            { return nil }
func (s *stubSettingsRepo) SetColor(context.Context, string, string) error              { return nil }
func (s *stubSettingsRepo) SetFooter(context.Context, string, string) error             { return nil }
func (s *stubSettingsRepo) SetModmailCooldownSeconds(context.Context, string, int) error { return nil }

type announcement struct {
	channelID string
	content   string
	embed     *discordgo.MessageEmbed
}

type stubGateway struct {
	mu            sync.Mutex
	announcements []announcement
}

func (g *stubGateway) SendMessage(_ context.Context, channelID, content string) (*discord.Message, error) {
	return &discord.Message{ID: "m", ChannelID: channelID}, nil
}

func (g *stubGateway) SendEmbed(_ context.Context, channelID string, embed *discordgo.MessageEmbed) (*discord.Message, error) {
	return &discord.Message{ID: "m", ChannelID: channelID}, nil
}

func (g *stubGateway) SendAnnouncement(_ context.Context, channelID, content string, embed *discordgo.MessageEmbed) (*discord.Message, error) {
	g.mu.Lock()
	g.announcements = append(g.announcements, announcement{channelID: channelID, content: content, embed: embed})
	g.mu.Unlock()
	return &discord.Message{ID: "m", ChannelID: channelID}, nil
}

func (g *stubGateway) CreateThread(context.Context, string, string, string) (string, error) {
	return "t", nil
}
func (g *stubGateway) EditEmbed(context.Context, string, string, *discordgo.MessageEmbed) error {
	return nil
}
func (g *stubGateway) CreateDM(context.Context, string) (string, error)     { return "dm", nil }
func (g *stubGateway) ArchiveThread(context.Context, string) error          { return nil }
func (g *stubGateway) React(context.Context, string, string, string) error { return nil }

type updaterFixture struct {
	updater  *Updater
	projects *fakeProjects
	gateway  *stubGateway
	updated  map[string]string
	mu       sync.Mutex
}

func newUpdaterFixture(t *testing.T) *updaterFixture {
	t.Helper()
	f := &updaterFixture{
		projects: &fakeProjects{},
		gateway:  &stubGateway{},
		updated:  map[string]string{"abc123": "2025-05-01T10:00:00Z"},
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/organization/membercat/projects":
			f.mu.Lock()
			updated := f.updated["abc123"]
			f.mu.Unlock()
			fmt.Fprintf(w, `[{"id": "abc123", "slug": "kitpvp", "name": "KitPvP", "updated": %q}]`, updated)
		case "/project/abc123/version":
			_, _ = w.Write([]byte(`[{"id": "v2", "project_id": "abc123", "version_number": "1.1.0", "date_published": "2025-05-02T10:00:00Z"}]`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	client := modrinth.NewClient(config.ModrinthConfig{
		BaseURL:        server.URL,
		UserAgent:      "membercat-bot/1.0.0",
		TimeoutSeconds: 2,
	})

	settingsRepo := &stubSettingsRepo{settings: *domain.DefaultSettings("guild-1")}
	settingsRepo.settings.Updater.Channel = "updates"
	settingsRepo.settings.Updater.PingRole = "role-1"

	logger := zap.NewNop()
	store := cache.NewMemory()
	f.updater = NewUpdater(UpdaterDependencies{
		Config:      config.UpdaterConfig{Organization: "membercat", DefaultIntervalMs: 180_000},
		Client:      client,
		ProjectRepo: f.projects,
		Settings:    service.NewSettingsService("guild-1", settingsRepo, store, logger),
		Gateway:     f.gateway,
		Cache:       store,
		Metrics:     observability.NewMetrics(),
		Logger:      logger,
	})
	return f
}

func (f *updaterFixture) bump(projectID, updated string) {
	f.mu.Lock()
	f.updated[projectID] = updated
	f.mu.Unlock()
}

func TestUpdaterPoll(t *testing.T) {
	ctx := context.Background()

	t.Run("FirstSightingIsTrackedSilently", func(t *testing.T) {
		f := newUpdaterFixture(t)

		require.NoError(t, f.updater.Poll(ctx))

		assert.Empty(t, f.gateway.announcements)
		tracked := f.projects.tracker.Find("abc123")
		require.NotNil(t, tracked)
		assert.Positive(t, tracked.LastUpdated)
		assert.Equal(t, 1, f.projects.tracker.TotalProjects)
	})

	t.Run("UpdateIsAnnouncedOnce", func(t *testing.T) {
		f := newUpdaterFixture(t)
		require.NoError(t, f.updater.Poll(ctx))

		f.bump("abc123", "2025-05-02T10:00:00Z")
		require.NoError(t, f.updater.Poll(ctx))

		require.Len(t, f.gateway.announcements, 1)
		ann := f.gateway.announcements[0]
		assert.Equal(t, "updates", ann.channelID)
		assert.Equal(t, "<@&role-1>", ann.content)
		assert.Contains(t, ann.embed.Title, "KitPvP")

		// Same timestamp again announces nothing.
		require.NoError(t, f.updater.Poll(ctx))
		assert.Len(t, f.gateway.announcements, 1)
	})
}
