package services

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"

	"campuschat/internal/models"
	"campuschat/internal/websocket"
)

// fakeStore is an in-memory stand-in for the gorm store, mirroring its
// constraint behavior: unique room names and upsert-per-(entity,user) rows.
type fakeStore struct {
	mu sync.Mutex

	nextRoomID uint
	nextMsgID  uint

	rooms    map[uint]*models.Room
	byName   map[string]uint
	members  map[uint][]models.RoomMember
	messages map[uint]*models.Message
	hidden   map[string]time.Time
	clears   map[string]time.Time
	receipts map[string]*models.ReadReceipt

	failSaveMessage bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		rooms:    make(map[uint]*models.Room),
		byName:   make(map[string]uint),
		members:  make(map[uint][]models.RoomMember),
		messages: make(map[uint]*models.Message),
		hidden:   make(map[string]time.Time),
		clears:   make(map[string]time.Time),
		receipts: make(map[string]*models.ReadReceipt),
	}
}

func overlayKey(id uint, userID string) string {
	return fmt.Sprintf("%d|%s", id, userID)
}

func (f *fakeStore) CreateRoom(room *models.Room) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, taken := f.byName[room.Name]; taken {
		return gorm.ErrDuplicatedKey
	}
	f.nextRoomID++
	room.ID = f.nextRoomID
	room.CreatedAt = time.Now()
	stored := *room
	f.rooms[room.ID] = &stored
	f.byName[room.Name] = room.ID
	return nil
}

func (f *fakeStore) GetRoom(id uint) (*models.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	room, ok := f.rooms[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *room
	return &copied, nil
}

func (f *fakeStore) ListRooms() ([]models.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := make([]uint, 0, len(f.rooms))
	for id := range f.rooms {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]models.Room, 0, len(ids))
	for _, id := range ids {
		out = append(out, *f.rooms[id])
	}
	return out, nil
}

func (f *fakeStore) FindDirectRoom(userA, userB string) (*models.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, room := range f.rooms {
		if room.Type != models.RoomTypePrivate {
			continue
		}
		var hasA, hasB bool
		for _, m := range f.members[id] {
			if m.UserID == userA {
				hasA = true
			}
			if m.UserID == userB {
				hasB = true
			}
		}
		if hasA && hasB {
			copied := *room
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeStore) CreateDirectRoom(room *models.Room, userA, userB string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, taken := f.byName[room.Name]; taken {
		return gorm.ErrDuplicatedKey
	}
	f.nextRoomID++
	room.ID = f.nextRoomID
	stored := *room
	f.rooms[room.ID] = &stored
	f.byName[room.Name] = room.ID
	f.members[room.ID] = []models.RoomMember{
		{RoomID: room.ID, UserID: userA, Role: models.MemberRoleMember},
		{RoomID: room.ID, UserID: userB, Role: models.MemberRoleMember},
	}
	return nil
}

func (f *fakeStore) AddMembers(roomID uint, userIDs []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, uid := range userIDs {
		exists := false
		for _, m := range f.members[roomID] {
			if m.UserID == uid {
				exists = true
				break
			}
		}
		if !exists {
			f.members[roomID] = append(f.members[roomID], models.RoomMember{
				RoomID: roomID, UserID: uid, Role: models.MemberRoleMember,
			})
		}
	}
	return nil
}

func (f *fakeStore) RemoveMembers(roomID uint, userIDs []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	remove := make(map[string]bool, len(userIDs))
	for _, uid := range userIDs {
		remove[uid] = true
	}
	kept := f.members[roomID][:0]
	for _, m := range f.members[roomID] {
		if !remove[m.UserID] {
			kept = append(kept, m)
		}
	}
	f.members[roomID] = kept
	return nil
}

func (f *fakeStore) RoomMembers(roomID uint) ([]models.RoomMember, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.RoomMember(nil), f.members[roomID]...), nil
}

func (f *fakeStore) SaveMessage(message *models.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failSaveMessage {
		return fmt.Errorf("store unavailable")
	}
	f.nextMsgID++
	message.ID = f.nextMsgID
	stored := *message
	f.messages[message.ID] = &stored
	return nil
}

func (f *fakeStore) GetMessage(id uint) (*models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	message, ok := f.messages[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *message
	return &copied, nil
}

func (f *fakeStore) UpdateMessage(message *models.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.messages[message.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	stored := *message
	f.messages[message.ID] = &stored
	return nil
}

func (f *fakeStore) SoftDeleteMessage(id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if message, ok := f.messages[id]; ok {
		message.Deleted = true
	}
	return nil
}

func (f *fakeStore) UpsertHiddenMark(messageID uint, userID string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := overlayKey(messageID, userID)
	if _, ok := f.hidden[key]; !ok {
		f.hidden[key] = at
	}
	return nil
}

func (f *fakeStore) UpsertRoomClear(roomID uint, userID string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := overlayKey(roomID, userID)
	if prev, ok := f.clears[key]; !ok || at.After(prev) {
		f.clears[key] = at
	}
	return nil
}

func (f *fakeStore) UpsertReadReceipt(messageID uint, userID string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := overlayKey(messageID, userID)
	ts := at
	if rr, ok := f.receipts[key]; ok {
		rr.ReadAt = &ts
		return nil
	}
	f.receipts[key] = &models.ReadReceipt{
		MessageID:   messageID,
		UserID:      userID,
		DeliveredAt: &ts,
		ReadAt:      &ts,
	}
	return nil
}

func (f *fakeStore) VisibleMessages(roomID uint, userID string, offset, limit int) ([]models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	ids := make([]uint, 0, len(f.messages))
	for id := range f.messages {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	clear, hasClear := f.clears[overlayKey(roomID, userID)]

	var out []models.Message
	for _, id := range ids {
		m := f.messages[id]
		if m.RoomID != roomID || m.Deleted {
			continue
		}
		if userID != "" {
			if _, hidden := f.hidden[overlayKey(id, userID)]; hidden {
				continue
			}
			if hasClear && !m.CreatedAt.After(clear) {
				continue
			}
		}
		out = append(out, *m)
	}

	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeStore) SearchMessages(roomID uint, q string, limit int) ([]models.Message, error) {
	// Not exercised by the service tests; search filtering is covered at the
	// query level.
	return nil, nil
}

// fakePublisher records every event handed to the hub.
type fakePublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

type publishedEvent struct {
	RoomID uint
	Event  websocket.Event
}

func (p *fakePublisher) Publish(roomID uint, event websocket.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{RoomID: roomID, Event: event})
}

func (p *fakePublisher) all() []publishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]publishedEvent(nil), p.events...)
}
