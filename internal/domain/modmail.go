package domain

import "time"

// TicketStatus enumerates lifecycle states for modmail tickets. A closed
// ticket is terminal; resolution is a closed ticket whose log ends with
// the resolution message.
type TicketStatus string

const (
	TicketStatusOpen   TicketStatus = "open"
	TicketStatusClosed TicketStatus = "closed"
)

// TicketMessage is one staff or user turn in a ticket's append-only log.
type TicketMessage struct {
	ID        string    `bson:"id" json:"id"`
	Content   string    `bson:"content" json:"content"`
	Author    string    `bson:"author" json:"author"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// Ticket is one modmail conversation between a user and the staff team.
// ID is the staff-side post message id, the stable handle for editing the
// status display. The subject and opening body are ticket metadata, not
// part of the message log.
type Ticket struct {
	ID          string          `bson:"id" json:"id"`
	Author      string          `bson:"author" json:"author"`
	ChannelID   string          `bson:"channelId" json:"channelId"`
	ThreadID    string          `bson:"threadId" json:"threadId"`
	DMChannelID string          `bson:"dmChannelId" json:"dmChannelId"`
	Subject     string          `bson:"subject" json:"subject"`
	OpeningBody string          `bson:"openingBody" json:"openingBody"`
	Status      TicketStatus    `bson:"status" json:"status"`
	CreatedAt   time.Time       `bson:"createdAt" json:"createdAt"`
	ClosedAt    *time.Time      `bson:"closedAt,omitempty" json:"closedAt,omitempty"`
	Messages    []TicketMessage `bson:"messages" json:"messages"`
}

// IsOpen reports whether the ticket still accepts messages.
func (t *Ticket) IsOpen() bool {
	return t.Status == TicketStatusOpen
}

// BanRecord marks a user as barred from opening tickets.
type BanRecord struct {
	UserID    string    `bson:"userId" json:"userId"`
	Reason    string    `bson:"reason" json:"reason"`
	Moderator string    `bson:"moderator" json:"moderator"`
	BannedAt  time.Time `bson:"bannedAt" json:"bannedAt"`
}

// Mailbox is the per-guild modmail aggregate: every ticket ever opened,
// the ban list, and per-user cooldown timestamps. Created lazily on first
// use and never deleted; closed tickets stay for audit history.
type Mailbox struct {
	GuildID    string               `bson:"guildId" json:"guildId"`
	TotalCount int                  `bson:"totalCount" json:"totalCount"`
	Tickets    []Ticket             `bson:"modmails" json:"modmails"`
	Banned     []BanRecord          `bson:"banned" json:"banned"`
	Cooldowns  map[string]time.Time `bson:"cooldowns" json:"cooldowns"`
}

// OpenTicketFor returns the author's open ticket, if any. At most one open
// ticket exists per author at any time.
func (m *Mailbox) OpenTicketFor(author string) *Ticket {
	for i := range m.Tickets {
		if m.Tickets[i].Author == author && m.Tickets[i].IsOpen() {
			return &m.Tickets[i]
		}
	}
	return nil
}

// TicketByThread returns the ticket linked to the given thread, if any.
func (m *Mailbox) TicketByThread(threadID string) *Ticket {
	for i := range m.Tickets {
		if m.Tickets[i].ThreadID == threadID {
			return &m.Tickets[i]
		}
	}
	return nil
}

// TicketsFor returns every ticket (open and closed) authored by the user.
func (m *Mailbox) TicketsFor(author string) []Ticket {
	var out []Ticket
	for _, t := range m.Tickets {
		if t.Author == author {
			out = append(out, t)
		}
	}
	return out
}

// BanFor returns the user's active ban record, if any.
func (m *Mailbox) BanFor(userID string) *BanRecord {
	for i := range m.Banned {
		if m.Banned[i].UserID == userID {
			return &m.Banned[i]
		}
	}
	return nil
}
