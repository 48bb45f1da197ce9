package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketOpened   EventType = "ticket_opened"
	EventTicketMessage  EventType = "ticket_message"
	EventTicketClosed   EventType = "ticket_closed"
	EventTicketResolved EventType = "ticket_resolved"
	EventUserBanned     EventType = "user_banned"
	EventUserUnbanned   EventType = "user_unbanned"
)

// ActorType distinguishes staff from end users.
type ActorType string

const (
	ActorUser  ActorType = "user"
	ActorStaff ActorType = "staff"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	Type   ActorType `json:"type"`
	UserID string    `json:"user_id"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	GuildID   string      `json:"guild_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketOpenedPayload payload.
type TicketOpenedPayload struct {
	TicketID string `json:"ticket_id"`
	ThreadID string `json:"thread_id"`
	Subject  string `json:"subject"`
}

// TicketMessagePayload payload.
type TicketMessagePayload struct {
	ThreadID    string `json:"thread_id"`
	AuthorID    string `json:"author_id"`
	BodyPreview string `json:"body_preview"`
}

// TicketClosedPayload payload.
type TicketClosedPayload struct {
	ThreadID   string `json:"thread_id"`
	AuthorID   string `json:"author_id"`
	Resolution string `json:"resolution,omitempty"`
	Forced     bool   `json:"forced,omitempty"`
}

// BanPayload payload.
type BanPayload struct {
	TargetID string `json:"target_id"`
	Reason   string `json:"reason,omitempty"`
}
