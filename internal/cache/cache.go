package cache

import (
	"context"
	"time"
)

// Cache is an advisory key/value store with per-entry TTLs. Absence is
// always tolerated by callers: a miss means "fall back to the durable
// store", never an error. Implementations must treat backend failures as
// misses for the same reason.
type Cache interface {
	// Set stores value under key, overwriting any existing entry. A
	// non-positive ttl stores the entry without expiry.
	Set(ctx context.Context, key string, value any, ttl time.Duration)
	// Get decodes the entry into dest (a non-nil pointer) and reports
	// whether a live entry was found.
	Get(ctx context.Context, key string, dest any) bool
	// Has reports whether a live entry exists for key.
	Has(ctx context.Context, key string) bool
	// Delete removes the entry immediately. Deleting an absent key is not
	// an error.
	Delete(ctx context.Context, key string)
	// CleanUp evicts every expired entry. Invoked periodically by the
	// sweep worker; the period must stay below the shortest TTL in use.
	CleanUp(ctx context.Context)
	// Size returns the number of live entries, for the stats endpoint.
	Size(ctx context.Context) int
}

// Key namespaces. Correctness of the shared cache relies on consistent
// namespacing, not isolation.
const (
	nsOpenTicket = "modmail:"
	nsCooldown   = "cooldown:"
	nsSettings   = "settings:"
	nsProject    = "project:"
	nsVersion    = "version:"
	nsTeam       = "team:"
)

// KeyOpenTicket addresses a user's open modmail ticket snapshot.
func KeyOpenTicket(userID string) string { return nsOpenTicket + userID }

// KeyCooldown addresses a user's last ticket-creation timestamp.
func KeyCooldown(userID string) string { return nsCooldown + userID }

// KeySettings addresses a guild's settings document.
func KeySettings(guildID string) string { return nsSettings + guildID }

// KeyProject addresses a Modrinth project payload.
func KeyProject(projectID string) string { return nsProject + projectID }

// KeyVersion addresses a Modrinth latest-version payload.
func KeyVersion(projectID string) string { return nsVersion + projectID }

// KeyTeam addresses a Modrinth organization payload.
func KeyTeam(slug string) string { return nsTeam + slug }
