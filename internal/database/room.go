package database

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"campuschat/internal/models"
)

func (d *Database) CreateRoom(room *models.Room) error {
	return d.db.Create(room).Error
}

func (d *Database) GetRoom(id uint) (*models.Room, error) {
	var room models.Room
	if err := d.db.First(&room, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &room, nil
}

func (d *Database) ListRooms() ([]models.Room, error) {
	var rooms []models.Room
	err := d.db.Order("id ASC").Find(&rooms).Error
	return rooms, err
}

// FindDirectRoom looks for a private room that both users are members of.
// Private DM rooms carry exactly two memberships, so a double join is enough.
func (d *Database) FindDirectRoom(userA, userB string) (*models.Room, error) {
	var room models.Room
	err := d.db.
		Joins("JOIN room_members ma ON ma.room_id = rooms.id AND ma.user_id = ?", userA).
		Joins("JOIN room_members mb ON mb.room_id = rooms.id AND mb.user_id = ?", userB).
		Where("rooms.type = ?", models.RoomTypePrivate).
		First(&room).Error
	if err != nil {
		return nil, err
	}
	return &room, nil
}

// CreateDirectRoom creates the room and both memberships atomically. A
// duplicate-key error on the deterministic room name means another call won
// the race; the caller re-queries.
func (d *Database) CreateDirectRoom(room *models.Room, userA, userB string) error {
	return d.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(room).Error; err != nil {
			return err
		}
		members := []models.RoomMember{
			{RoomID: room.ID, UserID: userA, Role: models.MemberRoleMember},
			{RoomID: room.ID, UserID: userB, Role: models.MemberRoleMember},
		}
		return tx.Create(&members).Error
	})
}

func (d *Database) AddMembers(roomID uint, userIDs []string) error {
	if len(userIDs) == 0 {
		return nil
	}
	members := make([]models.RoomMember, 0, len(userIDs))
	for _, uid := range userIDs {
		members = append(members, models.RoomMember{
			RoomID: roomID,
			UserID: uid,
			Role:   models.MemberRoleMember,
		})
	}
	return d.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "room_id"}, {Name: "user_id"}},
		DoNothing: true,
	}).Create(&members).Error
}

func (d *Database) RemoveMembers(roomID uint, userIDs []string) error {
	if len(userIDs) == 0 {
		return nil
	}
	return d.db.
		Where("room_id = ? AND user_id IN ?", roomID, userIDs).
		Delete(&models.RoomMember{}).Error
}

func (d *Database) RoomMembers(roomID uint) ([]models.RoomMember, error) {
	var members []models.RoomMember
	err := d.db.Where("room_id = ?", roomID).Order("id ASC").Find(&members).Error
	return members, err
}
