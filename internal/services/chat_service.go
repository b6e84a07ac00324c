package services

import (
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"

	"campuschat/internal/models"
	"campuschat/internal/websocket"
)

// MessageStore is what the lifecycle controller needs from the durable store.
type MessageStore interface {
	GetRoom(id uint) (*models.Room, error)
	GetMessage(id uint) (*models.Message, error)
	SaveMessage(message *models.Message) error
	UpdateMessage(message *models.Message) error
	SoftDeleteMessage(id uint) error
	UpsertHiddenMark(messageID uint, userID string, at time.Time) error
	UpsertRoomClear(roomID uint, userID string, at time.Time) error
	UpsertReadReceipt(messageID uint, userID string, at time.Time) error
	VisibleMessages(roomID uint, userID string, offset, limit int) ([]models.Message, error)
	SearchMessages(roomID uint, q string, limit int) ([]models.Message, error)
}

// Publisher fans an event out to a room's live subscribers.
type Publisher interface {
	Publish(roomID uint, event websocket.Event)
}

// ChatService drives the message lifecycle: validate, write to the store,
// then notify the hub. A failed write never publishes.
type ChatService struct {
	store MessageStore
	pub   Publisher
}

func NewChatService(store MessageStore, pub Publisher) *ChatService {
	return &ChatService{store: store, pub: pub}
}

func (s *ChatService) Send(roomID uint, senderID, senderName, msgType, content string, meta map[string]interface{}) (*models.Message, error) {
	if _, err := s.store.GetRoom(roomID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}

	if msgType == "" {
		msgType = models.MessageTypeText
	}

	message := &models.Message{
		RoomID:     roomID,
		SenderID:   senderID,
		SenderName: senderName,
		Type:       msgType,
		Content:    content,
		Meta:       encodeMeta(meta),
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.store.SaveMessage(message); err != nil {
		return nil, err
	}

	s.pub.Publish(roomID, websocket.Event{
		Type: websocket.EventMessageNew,
		Data: message,
	})

	return message, nil
}

// Edit overwrites content in place and stamps the meta map; there is no
// version history. Editing a deleted message is rejected.
func (s *ChatService) Edit(messageID uint, content string) (*models.Message, error) {
	message, err := s.getMessage(messageID)
	if err != nil {
		return nil, err
	}
	if message.Deleted {
		return nil, ErrMessageDeleted
	}

	meta := decodeMeta(message.Meta)
	meta["edited"] = true
	meta["edited_at"] = time.Now().UTC().Format(time.RFC3339)

	message.Content = content
	message.Meta = encodeMeta(meta)

	if err := s.store.UpdateMessage(message); err != nil {
		return nil, err
	}

	s.pub.Publish(message.RoomID, websocket.Event{
		Type: websocket.EventMessageEdited,
		Data: map[string]interface{}{
			"id":      message.ID,
			"content": message.Content,
			"meta":    message.Meta,
		},
	})

	return message, nil
}

// Delete soft-deletes: the row persists but its content is never shown
// again. Deleting twice is a no-op. The broadcast carries only the id.
func (s *ChatService) Delete(messageID uint) error {
	message, err := s.getMessage(messageID)
	if err != nil {
		return err
	}
	if message.Deleted {
		return nil
	}

	if err := s.store.SoftDeleteMessage(messageID); err != nil {
		return err
	}

	s.pub.Publish(message.RoomID, websocket.Event{
		Type: websocket.EventMessageDeleted,
		ID:   message.ID,
	})

	return nil
}

// Hide suppresses one message for one user only. No broadcast: it changes
// nothing for anyone else.
func (s *ChatService) Hide(messageID uint, userID string) error {
	if _, err := s.getMessage(messageID); err != nil {
		return err
	}
	return s.store.UpsertHiddenMark(messageID, userID, time.Now().UTC())
}

// ClearRoom advances the user's watermark to now. The store keeps it
// monotonic.
func (s *ChatService) ClearRoom(roomID uint, userID string) error {
	if _, err := s.store.GetRoom(roomID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRoomNotFound
		}
		return err
	}
	return s.store.UpsertRoomClear(roomID, userID, time.Now().UTC())
}

// MarkRead upserts the receipt: read implies delivered.
func (s *ChatService) MarkRead(messageID uint, userID string) error {
	if _, err := s.getMessage(messageID); err != nil {
		return err
	}
	return s.store.UpsertReadReceipt(messageID, userID, time.Now().UTC())
}

func (s *ChatService) History(roomID uint, userID string, offset, limit int) ([]models.Message, error) {
	if limit <= 0 {
		limit = 100
	}
	return s.store.VisibleMessages(roomID, userID, offset, limit)
}

func (s *ChatService) Search(roomID uint, q string, limit int) ([]models.Message, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.store.SearchMessages(roomID, q, limit)
}

func (s *ChatService) getMessage(id uint) (*models.Message, error) {
	message, err := s.store.GetMessage(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMessageNotFound
		}
		return nil, err
	}
	return message, nil
}

func encodeMeta(meta map[string]interface{}) string {
	if len(meta) == 0 {
		return ""
	}
	data, err := json.Marshal(meta)
	if err != nil {
		return ""
	}
	return string(data)
}

func decodeMeta(raw string) map[string]interface{} {
	meta := make(map[string]interface{})
	if raw != "" {
		// A corrupt meta blob is replaced rather than propagated.
		_ = json.Unmarshal([]byte(raw), &meta)
	}
	return meta
}
