package presence

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
)

// Store tracks which users currently hold a live subscription to a room.
// Backed by a redis set per room so the list survives a single process and
// can be shared by replicas; the hub itself stays transport-only.
type Store struct {
	rdb *redis.Client
}

func NewStore(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

func roomKey(roomID uint) string {
	return fmt.Sprintf("presence:room:%d", roomID)
}

func (s *Store) Join(ctx context.Context, roomID uint, userID string) error {
	return s.rdb.SAdd(ctx, roomKey(roomID), userID).Err()
}

func (s *Store) Leave(ctx context.Context, roomID uint, userID string) error {
	return s.rdb.SRem(ctx, roomKey(roomID), userID).Err()
}

func (s *Store) Online(ctx context.Context, roomID uint) ([]string, error) {
	return s.rdb.SMembers(ctx, roomKey(roomID)).Result()
}
