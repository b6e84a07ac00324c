package database

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"campuschat/internal/models"
)

// Per-user overlay rows are written as atomic upserts against their unique
// (entity, user) indexes so concurrent requests never duplicate state.

func (d *Database) UpsertHiddenMark(messageID uint, userID string, at time.Time) error {
	mark := models.HiddenMark{
		MessageID: messageID,
		UserID:    userID,
		HiddenAt:  at,
	}
	return d.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "message_id"}, {Name: "user_id"}},
		DoNothing: true,
	}).Create(&mark).Error
}

// UpsertRoomClear advances the watermark; GREATEST keeps it monotonic, so an
// out-of-order clear can never make history visible again.
func (d *Database) UpsertRoomClear(roomID uint, userID string, at time.Time) error {
	row := models.RoomClear{
		RoomID:    roomID,
		UserID:    userID,
		ClearedAt: at,
	}
	return d.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "room_id"}, {Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"cleared_at": gorm.Expr("GREATEST(room_clears.cleared_at, excluded.cleared_at)"),
		}),
	}).Create(&row).Error
}

// UpsertReadReceipt sets read_at on every call and delivered_at only if it
// was never recorded.
func (d *Database) UpsertReadReceipt(messageID uint, userID string, at time.Time) error {
	row := models.ReadReceipt{
		MessageID:   messageID,
		UserID:      userID,
		DeliveredAt: &at,
		ReadAt:      &at,
	}
	return d.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "message_id"}, {Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"read_at":      gorm.Expr("excluded.read_at"),
			"delivered_at": gorm.Expr("COALESCE(read_receipts.delivered_at, excluded.delivered_at)"),
		}),
	}).Create(&row).Error
}
