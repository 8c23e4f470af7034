package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rocketscienceinc/minesweeper-backend/internal/apperror"
	"github.com/rocketscienceinc/minesweeper-backend/internal/entity"
)

// RoomRepository - one latest SessionState per room. Writes replace the prior
// entry unconditionally; referencing an unknown room on save creates it.
type RoomRepository interface {
	Save(ctx context.Context, roomID string, state *entity.SessionState) error
	GetByID(ctx context.Context, roomID string) (*entity.SessionState, error)
	DeleteByID(ctx context.Context, roomID string) error
}

type dbRoom struct {
	client *redis.Client
}

func NewRoomRepository(client *redis.Client) RoomRepository {
	return &dbRoom{
		client: client,
	}
}

func (that *dbRoom) Save(ctx context.Context, roomID string, state *entity.SessionState) error {
	stateJSON, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("could not marshal session state: %w", err)
	}

	roomKey := "room:" + roomID
	if err = that.client.Set(ctx, roomKey, stateJSON, 0).Err(); err != nil {
		return fmt.Errorf("failed to set room state: %w", err)
	}

	return nil
}

func (that *dbRoom) GetByID(ctx context.Context, roomID string) (*entity.SessionState, error) {
	roomKey := "room:" + roomID

	response, err := that.client.Get(ctx, roomKey).Result()

	if errors.Is(err, redis.Nil) {
		return nil, apperror.ErrRoomStateNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get room state: %w", err)
	}

	var state entity.SessionState
	if err = json.Unmarshal([]byte(response), &state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session state: %w", err)
	}

	return &state, nil
}

func (that *dbRoom) DeleteByID(ctx context.Context, roomID string) error {
	roomKey := "room:" + roomID

	if err := that.client.Del(ctx, roomKey).Err(); err != nil {
		return fmt.Errorf("failed to delete room state: %w", err)
	}

	return nil
}
