package models

import (
	"time"
)

const (
	RoomTypeGroup   = "group"
	RoomTypePrivate = "private"
)

const (
	VisibilityAll     = "all"
	VisibilityStudent = "student"
	VisibilityTeacher = "teacher"
	VisibilityMentor  = "mentor"
)

type Room struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	Name       string `gorm:"uniqueIndex;not null" json:"name"`
	Type       string `gorm:"not null;check:type IN ('group','private')" json:"type"`
	Visibility string `gorm:"not null;default:'all'" json:"visibility"`
	Meta       string `gorm:"type:text" json:"meta,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

const (
	MemberRoleMember    = "member"
	MemberRoleModerator = "moderator"
)

type RoomMember struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	RoomID uint   `gorm:"not null;uniqueIndex:idx_room_member" json:"room_id"`
	UserID string `gorm:"size:128;not null;uniqueIndex:idx_room_member" json:"user_id"`
	Role   string `gorm:"size:16;not null;default:'member'" json:"role"`
}
