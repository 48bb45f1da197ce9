package modrinth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/membercat-studios/membercat-bot/internal/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(config.ModrinthConfig{
		BaseURL:        server.URL,
		UserAgent:      "membercat-bot/1.0.0",
		TimeoutSeconds: 2,
	})
}

func TestOrganizationProjects(t *testing.T) {
	ctx := context.Background()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/organization/membercat/projects", r.URL.Path)
		assert.Equal(t, "membercat-bot/1.0.0", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id": "abc123", "slug": "kitpvp", "name": "KitPvP", "updated": "2025-05-01T10:00:00Z", "downloads": 1200},
			{"id": "def456", "slug": "hub", "name": "Hub", "updated": "2025-04-20T08:30:00Z", "downloads": 300}
		]`))
	})

	projects, err := client.OrganizationProjects(ctx, "membercat")
	require.NoError(t, err)
	require.Len(t, projects, 2)
	assert.Equal(t, "KitPvP", projects[0].Name)
	assert.Equal(t, "https://modrinth.com/project/kitpvp", projects[0].URL())
	assert.Equal(t, int64(1746093600000), projects[0].UpdatedAt().UnixMilli())
}

func TestProject(t *testing.T) {
	ctx := context.Background()

	t.Run("Found", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/project/kitpvp", r.URL.Path)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id": "abc123", "slug": "kitpvp", "name": "KitPvP", "summary": "Fast-paced PvP"}`))
		})

		project, err := client.Project(ctx, "kitpvp")
		require.NoError(t, err)
		assert.Equal(t, "abc123", project.ID)
		assert.Equal(t, "Fast-paced PvP", project.Summary)
	})

	t.Run("NotFound", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error": "not_found"}`, http.StatusNotFound)
		})

		_, err := client.Project(ctx, "missing")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "404")
	})
}

func TestLatestVersion(t *testing.T) {
	ctx := context.Background()

	t.Run("NewestFirst", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/project/abc123/version", r.URL.Path)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`[
				{"id": "v2", "project_id": "abc123", "version_number": "1.1.0", "date_published": "2025-05-01T10:00:00Z"},
				{"id": "v1", "project_id": "abc123", "version_number": "1.0.0", "date_published": "2025-04-01T10:00:00Z"}
			]`))
		})

		version, err := client.LatestVersion(ctx, "abc123")
		require.NoError(t, err)
		require.NotNil(t, version)
		assert.Equal(t, "1.1.0", version.VersionNumber)
	})

	t.Run("NoVersions", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`[]`))
		})

		version, err := client.LatestVersion(ctx, "abc123")
		require.NoError(t, err)
		assert.Nil(t, version)
	})
}

func TestUnparseableTimestamps(t *testing.T) {
	project := Project{Updated: "yesterday"}
	assert.True(t, project.UpdatedAt().IsZero())

	version := Version{DatePublished: ""}
	assert.True(t, version.PublishedAt().IsZero())
}
