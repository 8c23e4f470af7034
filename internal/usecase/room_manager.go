package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/minesweeper-backend/internal/apperror"
	"github.com/rocketscienceinc/minesweeper-backend/internal/entity"
)

type roomRepo interface {
	Save(ctx context.Context, roomID string, state *entity.SessionState) error
	GetByID(ctx context.Context, roomID string) (*entity.SessionState, error)
	DeleteByID(ctx context.Context, roomID string) error
}

// RoomManager - relay-side room logic: hydration for late joiners,
// last-write-wins snapshot replacement, deletion on reset. It never tracks
// participant identity or presence; membership lives in the transport.
type RoomManager struct {
	logger   *slog.Logger
	roomRepo roomRepo
}

func NewRoomManager(logger *slog.Logger, roomRepo roomRepo) *RoomManager {
	return &RoomManager{
		logger:   logger,

		roomRepo: roomRepo,
	}
}

// HydrateRoom - returns the room's last broadcast state for a joining
// participant, or ErrRoomStateNotFound when nobody has published yet.
func (that *RoomManager) HydrateRoom(ctx context.Context, roomID string) (*entity.SessionState, error) {
	state, err := that.roomRepo.GetByID(ctx, roomID)
	if errors.Is(err, apperror.ErrRoomStateNotFound) {
		return nil, apperror.ErrRoomStateNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to hydrate room: %w", err)
	}

	return state, nil
}

// SaveState - validates and stores an incoming snapshot, replacing the prior
// entry unconditionally. An unknown room is created implicitly.
func (that *RoomManager) SaveState(ctx context.Context, roomID string, state *entity.SessionState) error {
	if state == nil {
		return fmt.Errorf("%w: missing session state", apperror.ErrProtocol)
	}

	if err := state.Validate(); err != nil {
		return fmt.Errorf("%w: %w", apperror.ErrProtocol, err)
	}

	if err := that.roomRepo.Save(ctx, roomID, state); err != nil {
		return fmt.Errorf("failed to save room state: %w", err)
	}

	return nil
}

// ResetRoom - deletes the room's stored state; peers are notified by the
// transport, not here.
func (that *RoomManager) ResetRoom(ctx context.Context, roomID string) error {
	log := that.logger.With("method", "ResetRoom")

	if err := that.roomRepo.DeleteByID(ctx, roomID); err != nil {
		return fmt.Errorf("failed to reset room: %w", err)
	}

	log.Info("room state deleted", "roomID", roomID)

	return nil
}
