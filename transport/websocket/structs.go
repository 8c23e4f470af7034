package websocket

import (
	"encoding/json"

	"github.com/rocketscienceinc/minesweeper-backend/internal/entity"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Payload - the single payload shape shared by all room actions. ClientID and
// Seq tag the originating mutation so peers can ignore echoes of their own
// messages instead of guessing with a timing window.
type Payload struct {
	RoomID   string               `json:"room_id,omitempty"`
	ClientID string               `json:"client_id,omitempty"`
	Seq      uint64               `json:"seq,omitempty"`
	Row      *int                 `json:"row,omitempty"`
	Col      *int                 `json:"col,omitempty"`
	State    *entity.SessionState `json:"state,omitempty"`
	Error    string               `json:"error,omitempty"`
}

// frame represents a WebSocket frame and its metadata.
type frame struct {
	isFin   bool
	opCode  byte
	length  uint64
	payload []byte
}
