package models

import (
	"time"
)

// Per-user state layered on top of shared room history. None of these rows
// affect what other users see.

// HiddenMark suppresses a single message for one user.
type HiddenMark struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	MessageID uint      `gorm:"not null;uniqueIndex:idx_hidden_message_user" json:"message_id"`
	UserID    string    `gorm:"size:128;not null;uniqueIndex:idx_hidden_message_user" json:"user_id"`
	HiddenAt  time.Time `json:"hidden_at"`
}

// RoomClear is a per-user watermark: messages created at or before ClearedAt
// are excluded from that user's history. The watermark only moves forward.
type RoomClear struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	RoomID    uint      `gorm:"not null;uniqueIndex:idx_clear_room_user" json:"room_id"`
	UserID    string    `gorm:"size:128;not null;uniqueIndex:idx_clear_room_user" json:"user_id"`
	ClearedAt time.Time `json:"cleared_at"`
}

type ReadReceipt struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	MessageID   uint       `gorm:"not null;uniqueIndex:idx_receipt_message_user" json:"message_id"`
	UserID      string     `gorm:"size:128;not null;uniqueIndex:idx_receipt_message_user" json:"user_id"`
	DeliveredAt *time.Time `json:"delivered_at,omitempty"`
	ReadAt      *time.Time `json:"read_at,omitempty"`
}
