package services

import "errors"

var (
	ErrRoomNotFound    = errors.New("room not found")
	ErrMessageNotFound = errors.New("message not found")
	ErrMessageDeleted  = errors.New("message already deleted")
	ErrNameTaken       = errors.New("room name already taken")
)
