package websocket

import "time"

type EventType string

const (
	EventMessageNew     EventType = "message:new"
	EventMessageEdited  EventType = "message:edited"
	EventMessageDeleted EventType = "message:deleted"
	EventTypingStart    EventType = "typing:start"
	EventTypingStop     EventType = "typing:stop"
)

type UserRef struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// Event is the wire envelope pushed to subscribers. Message events carry a
// Data payload; message:deleted carries only the id so deleted content never
// reaches a live client's cache; typing events carry the user and a server
// timestamp.
type Event struct {
	Type EventType   `json:"type"`
	Data interface{} `json:"data,omitempty"`
	ID   uint        `json:"id,omitempty"`
	User *UserRef    `json:"user,omitempty"`
	TS   string      `json:"ts,omitempty"`
}

func NewTypingEvent(t EventType, user UserRef) Event {
	return Event{
		Type: t,
		User: &user,
		TS:   time.Now().UTC().Format(time.RFC3339),
	}
}
