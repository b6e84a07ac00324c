package database

import (
	"errors"

	"gorm.io/gorm"

	"campuschat/internal/models"
)

func (d *Database) SaveMessage(message *models.Message) error {
	return d.db.Create(message).Error
}

func (d *Database) GetMessage(id uint) (*models.Message, error) {
	var message models.Message
	if err := d.db.First(&message, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &message, nil
}

func (d *Database) UpdateMessage(message *models.Message) error {
	return d.db.Save(message).Error
}

// SoftDeleteMessage flips the deleted flag. The row stays; repeating the call
// is a no-op.
func (d *Database) SoftDeleteMessage(id uint) error {
	return d.db.Model(&models.Message{}).
		Where("id = ?", id).
		Update("deleted", true).Error
}

// VisibleMessages returns the room history a given user is allowed to see:
// soft-deleted rows are always dropped; with a user id, messages hidden by
// that user and messages at or before the user's clear watermark are dropped
// as well. Ordering is ascending by message id.
func (d *Database) VisibleMessages(roomID uint, userID string, offset, limit int) ([]models.Message, error) {
	query := d.db.Where("room_id = ? AND deleted = ?", roomID, false)

	if userID != "" {
		var clear models.RoomClear
		err := d.db.Where("room_id = ? AND user_id = ?", roomID, userID).First(&clear).Error
		if err == nil {
			query = query.Where("created_at > ?", clear.ClearedAt)
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}

		query = query.Where(
			"id NOT IN (SELECT message_id FROM hidden_marks WHERE user_id = ?)",
			userID,
		)
	}

	var messages []models.Message
	err := query.
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&messages).Error
	return messages, err
}

// SearchMessages matches message content, most recent first. Only the
// soft-delete filter applies; per-user overlays are not consulted here.
func (d *Database) SearchMessages(roomID uint, q string, limit int) ([]models.Message, error) {
	query := d.db.Where("room_id = ? AND deleted = ?", roomID, false)
	if q != "" {
		query = query.Where("content ILIKE ?", "%"+q+"%")
	}

	var messages []models.Message
	err := query.
		Order("id DESC").
		Limit(limit).
		Find(&messages).Error
	return messages, err
}
