package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"gorm.io/gorm"

	"campuschat/internal/models"
)

// RoomStore is what the room/DM resolver needs from the durable store.
type RoomStore interface {
	CreateRoom(room *models.Room) error
	GetRoom(id uint) (*models.Room, error)
	ListRooms() ([]models.Room, error)
	FindDirectRoom(userA, userB string) (*models.Room, error)
	CreateDirectRoom(room *models.Room, userA, userB string) error
	AddMembers(roomID uint, userIDs []string) error
	RemoveMembers(roomID uint, userIDs []string) error
	RoomMembers(roomID uint) ([]models.RoomMember, error)
}

type RoomService struct {
	store RoomStore

	mu        sync.Mutex
	pairLocks map[string]*sync.Mutex
}

func NewRoomService(store RoomStore) *RoomService {
	return &RoomService{
		store:     store,
		pairLocks: make(map[string]*sync.Mutex),
	}
}

func (s *RoomService) CreateRoom(name, roomType, visibility string, meta map[string]interface{}) (*models.Room, error) {
	if visibility == "" {
		visibility = models.VisibilityAll
	}
	room := &models.Room{
		Name:       name,
		Type:       roomType,
		Visibility: visibility,
		Meta:       encodeMeta(meta),
	}
	if err := s.store.CreateRoom(room); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrNameTaken
		}
		return nil, err
	}
	return room, nil
}

func (s *RoomService) ListRooms() ([]models.Room, error) {
	return s.store.ListRooms()
}

func (s *RoomService) GetRoom(id uint) (*models.Room, error) {
	room, err := s.store.GetRoom(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return room, nil
}

// ResolveDM returns the private room for a user pair, creating it on first
// use. The pair is normalized so argument order never matters. Creation is
// serialized per pair and additionally guarded by the unique room name, so
// concurrent calls converge on one room: the loser of the race re-reads the
// winner's row.
func (s *RoomService) ResolveDM(userA, userB string) (*models.Room, error) {
	a, b := normalizePair(userA, userB)

	lock := s.pairLock(a + "\x00" + b)
	lock.Lock()
	defer lock.Unlock()

	room, err := s.store.FindDirectRoom(a, b)
	if err == nil {
		return room, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	meta, _ := json.Marshal(map[string]interface{}{
		"dm":    true,
		"users": []string{a, b},
	})
	room = &models.Room{
		Name:       fmt.Sprintf("dm:%s:%s", a, b),
		Type:       models.RoomTypePrivate,
		Visibility: models.VisibilityAll,
		Meta:       string(meta),
	}

	err = s.store.CreateDirectRoom(room, a, b)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// Another instance created it between our lookup and insert.
		return s.store.FindDirectRoom(a, b)
	}
	if err != nil {
		return nil, err
	}
	return room, nil
}

func (s *RoomService) UpdateMembers(roomID uint, add, remove []string) error {
	if _, err := s.GetRoom(roomID); err != nil {
		return err
	}
	if err := s.store.AddMembers(roomID, add); err != nil {
		return err
	}
	return s.store.RemoveMembers(roomID, remove)
}

func (s *RoomService) Members(roomID uint) ([]models.RoomMember, error) {
	if _, err := s.GetRoom(roomID); err != nil {
		return nil, err
	}
	return s.store.RoomMembers(roomID)
}

func (s *RoomService) pairLock(key string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.pairLocks[key]
	if !ok {
		lock = &sync.Mutex{}
		s.pairLocks[key] = lock
	}
	return lock
}

func normalizePair(a, b string) (string, string) {
	if b < a {
		return b, a
	}
	return a, b
}
