package domain

// TrackedProject records the last known update time of one Modrinth
// project. LastUpdated is unix milliseconds of the project's `updated`
// field at the last announcement.
type TrackedProject struct {
	ID          string `bson:"id" json:"id"`
	LastUpdated int64  `bson:"lastUpdated" json:"lastUpdated"`
}

// ProjectTracker is the singleton document backing the update poller.
type ProjectTracker struct {
	TotalProjects int              `bson:"totalProjects" json:"totalProjects"`
	Projects      []TrackedProject `bson:"projects" json:"projects"`
}

// Find returns the tracked entry for a project id, if present.
func (t *ProjectTracker) Find(id string) *TrackedProject {
	for i := range t.Projects {
		if t.Projects[i].ID == id {
			return &t.Projects[i]
		}
	}
	return nil
}

// FeedAccount is one followed social account and the newest post already
// announced for it.
type FeedAccount struct {
	AccountID  string `bson:"accountId" json:"accountId"`
	LastPostID string `bson:"lastPostId" json:"lastPostId"`
}

// FeedState is the per-guild document backing the feed announcers.
type FeedState struct {
	GuildID   string        `bson:"guildId" json:"guildId"`
	Bluesky   []FeedAccount `bson:"bluesky" json:"bluesky"`
	YouTube   []FeedAccount `bson:"youtube" json:"youtube"`
	Instagram []FeedAccount `bson:"instagram" json:"instagram"`
}

// AccountsFor returns the follow list for a platform name.
func (s *FeedState) AccountsFor(platform string) []FeedAccount {
	switch platform {
	case "bluesky":
		return s.Bluesky
	case "youtube":
		return s.YouTube
	case "instagram":
		return s.Instagram
	}
	return nil
}
