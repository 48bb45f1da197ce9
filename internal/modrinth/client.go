package modrinth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/membercat-studios/membercat-bot/internal/config"
)

// Project is the subset of a Modrinth project the bot consumes.
type Project struct {
	ID          string   `json:"id"`
	Slug        string   `json:"slug"`
	Name        string   `json:"name"`
	Summary     string   `json:"summary"`
	IconURL     string   `json:"icon_url"`
	Updated     string   `json:"updated"`
	Downloads   int      `json:"downloads"`
	Followers   int      `json:"followers"`
	Categories  []string `json:"categories"`
	GameVersion []string `json:"game_versions"`
}

// Version is a published release of a project.
type Version struct {
	ID            string   `json:"id"`
	ProjectID     string   `json:"project_id"`
	Name          string   `json:"name"`
	VersionNumber string   `json:"version_number"`
	Changelog     string   `json:"changelog"`
	DatePublished string   `json:"date_published"`
	VersionType   string   `json:"version_type"`
	GameVersions  []string `json:"game_versions"`
	Loaders       []string `json:"loaders"`
}

// UpdatedAt parses the project's updated timestamp. A zero time means the
// API returned something unparseable and the caller should treat the
// project as unchanged.
func (p Project) UpdatedAt() time.Time {
	t, err := time.Parse(time.RFC3339, p.Updated)
	if err != nil {
		return time.Time{}
	}
	return t
}

// PublishedAt parses the version's publish timestamp.
func (v Version) PublishedAt() time.Time {
	t, err := time.Parse(time.RFC3339, v.DatePublished)
	if err != nil {
		return time.Time{}
	}
	return t
}

// URL is the public project page.
func (p Project) URL() string {
	return "https://modrinth.com/project/" + p.Slug
}

// Client is a minimal Modrinth API client. Every request carries the
// configured User-Agent; Modrinth rejects anonymous clients.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

// NewClient builds a client from configuration.
func NewClient(cfg config.ModrinthConfig) *Client {
	return &Client{
		baseURL:   cfg.BaseURL,
		userAgent: cfg.UserAgent,
		httpClient: &http.Client{
			Timeout: cfg.Timeout(),
		},
	}
}

// OrganizationProjects lists the projects owned by an organization.
func (c *Client) OrganizationProjects(ctx context.Context, org string) ([]Project, error) {
	var projects []Project
	if err := c.get(ctx, "/organization/"+url.PathEscape(org)+"/projects", &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// Project fetches a single project by id or slug.
func (c *Client) Project(ctx context.Context, id string) (*Project, error) {
	var project Project
	if err := c.get(ctx, "/project/"+url.PathEscape(id), &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// Versions lists a project's versions, newest first.
func (c *Client) Versions(ctx context.Context, projectID string) ([]Version, error) {
	var versions []Version
	if err := c.get(ctx, "/project/"+url.PathEscape(projectID)+"/version", &versions); err != nil {
		return nil, err
	}
	return versions, nil
}

// LatestVersion returns the newest version of a project, or nil when the
// project has none.
func (c *Client) LatestVersion(ctx context.Context, projectID string) (*Version, error) {
	versions, err := c.Versions(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if len(versions) == 0 {
		return nil, nil
	}
	return &versions[0], nil
}

func (c *Client) get(ctx context.Context, path string, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("modrinth request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("modrinth returned %d for %s: %s", resp.StatusCode, path, string(body))
	}
	return json.NewDecoder(resp.Body).Decode(dest)
}
