package models

import (
	"time"
)

const (
	MessageTypeText     = "text"
	MessageTypeImage    = "image"
	MessageTypeAudio    = "audio"
	MessageTypeVideo    = "video"
	MessageTypeDocument = "document"
)

// Message ids are autoincrement integers: the id is both the room ordering
// key and the pagination cursor, so it must be monotonic across restarts.
type Message struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	RoomID     uint      `gorm:"not null;index" json:"room_id"`
	SenderID   string    `gorm:"size:128;not null" json:"sender_id"`
	SenderName string    `gorm:"size:255;not null" json:"sender_name"`
	Type       string    `gorm:"size:16;not null;default:'text'" json:"type"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	Meta       string    `gorm:"type:text" json:"meta,omitempty"`
	CreatedAt  time.Time `json:"timestamp"`
	Deleted    bool      `gorm:"not null;default:false" json:"deleted"`
}
