package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/minesweeper-backend/internal/apperror"
)

func (that *Server) handleJoinRoom(ctx context.Context, msg *Message, conn *memberConn) error {
	log := that.logger.With("method", "handleJoinRoom")

	payloadReq, err := that.decodePayload(msg)
	if err != nil {
		return err
	}

	if payloadReq.RoomID == "" {
		log.Error("room id is missing in payload")
		return that.sendErrorResponse(conn, msg.Action, "room id is required")
	}

	that.registerMember(payloadReq.RoomID, conn)

	log = log.With("roomID", payloadReq.RoomID)

	state, err := that.rooms.HydrateRoom(ctx, payloadReq.RoomID)
	if errors.Is(err, apperror.ErrRoomStateNotFound) {
		log.Info("joined empty room, nothing to hydrate")

		payloadResp := Payload{RoomID: payloadReq.RoomID}
		if err = that.sendMessage(conn, msg.Action, payloadResp); err != nil {
			return fmt.Errorf("failed to send response: %w", err)
		}

		return nil
	}

	if err != nil {
		log.Error("failed to hydrate room", "error", err)
		return that.sendErrorResponse(conn, msg.Action, "failed to hydrate room")
	}

	// hydration snapshot goes only to the joining participant
	payloadResp := Payload{
		RoomID: payloadReq.RoomID,
		State:  state,
	}

	if err = that.sendMessage(conn, "sync-state", payloadResp); err != nil {
		return fmt.Errorf("failed to send hydration snapshot: %w", err)
	}

	log.Info("participant joined and hydrated")

	return nil
}

func (that *Server) handleUpdateState(ctx context.Context, msg *Message, conn *memberConn) error {
	log := that.logger.With("method", "handleUpdateState")

	payloadReq, err := that.decodePayload(msg)
	if err != nil {
		return err
	}

	if payloadReq.RoomID == "" || payloadReq.State == nil {
		log.Error("room id or state is missing in payload")
		return that.sendErrorResponse(conn, msg.Action, "room id and state are required")
	}

	log = log.With("roomID", payloadReq.RoomID)

	if err = that.rooms.SaveState(ctx, payloadReq.RoomID, payloadReq.State); err != nil {
		if errors.Is(err, apperror.ErrProtocol) {
			log.Error("dropping invalid snapshot", "error", err)
			return that.sendErrorResponse(conn, msg.Action, "invalid session state")
		}

		log.Error("failed to save room state", "error", err)

		return that.sendErrorResponse(conn, msg.Action, "failed to save room state")
	}

	that.broadcast(payloadReq.RoomID, conn, "sync-state", *payloadReq)

	log.Info("room state replaced", "clientID", payloadReq.ClientID, "seq", payloadReq.Seq)

	return nil
}

func (that *Server) handleCellClick(ctx context.Context, msg *Message, conn *memberConn) error {
	return that.forwardAction(ctx, msg, conn)
}

func (that *Server) handleCellFlag(ctx context.Context, msg *Message, conn *memberConn) error {
	return that.forwardAction(ctx, msg, conn)
}

// forwardAction - relays a cell action notice verbatim to the other room
// members. The relay checks shape only; it never interprets coordinates.
func (that *Server) forwardAction(_ context.Context, msg *Message, conn *memberConn) error {
	log := that.logger.With("method", "forwardAction", "action", msg.Action)

	payloadReq, err := that.decodePayload(msg)
	if err != nil {
		return err
	}

	if payloadReq.RoomID == "" || payloadReq.Row == nil || payloadReq.Col == nil {
		log.Error("room id or coordinates are missing in payload")
		return that.sendErrorResponse(conn, msg.Action, "room id, row and col are required")
	}

	that.broadcast(payloadReq.RoomID, conn, msg.Action, *payloadReq)

	log.Info("action forwarded", "roomID", payloadReq.RoomID, "row", *payloadReq.Row, "col", *payloadReq.Col)

	return nil
}

func (that *Server) handleResetGame(ctx context.Context, msg *Message, conn *memberConn) error {
	log := that.logger.With("method", "handleResetGame")

	payloadReq, err := that.decodePayload(msg)
	if err != nil {
		return err
	}

	if payloadReq.RoomID == "" {
		log.Error("room id is missing in payload")
		return that.sendErrorResponse(conn, msg.Action, "room id is required")
	}

	log = log.With("roomID", payloadReq.RoomID)

	if err = that.rooms.ResetRoom(ctx, payloadReq.RoomID); err != nil {
		log.Error("failed to reset room", "error", err)
		return that.sendErrorResponse(conn, msg.Action, "failed to reset room")
	}

	that.broadcast(payloadReq.RoomID, conn, msg.Action, *payloadReq)

	log.Info("room reset", "clientID", payloadReq.ClientID)

	return nil
}

func (that *Server) decodePayload(msg *Message) (*Payload, error) {
	var payload Payload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return nil, fmt.Errorf("%w: %w", apperror.ErrProtocol, err)
	}

	return &payload, nil
}

func (that *Server) sendErrorResponse(conn *memberConn, action, errorMsg string) error {
	payload := Payload{Error: errorMsg}
	if err := that.sendMessage(conn, action, payload); err != nil {
		return fmt.Errorf("failed to send error response: %w", err)
	}

	return nil
}
