package syncclient

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/minesweeper-backend/internal/entity"
	"github.com/rocketscienceinc/minesweeper-backend/internal/minesweeper"
	"github.com/rocketscienceinc/minesweeper-backend/internal/pkg"
	transport "github.com/rocketscienceinc/minesweeper-backend/transport/websocket"
)

// Conn - the slice of a websocket connection the client needs. Satisfied by
// *websocket.Conn; tests substitute an in-memory pair.
type Conn interface {
	ReadJSON(v any) error
	WriteJSON(v any) error
	Close() error
}

// Client - one participant's view of a shared session. It owns its local
// GameSession, pushes local mutations to the relay tagged with its client ID
// and a per-client sequence number, and applies remote snapshots as
// authoritative overwrites. A message carrying its own client ID is an echo
// and is ignored.
type Client struct {
	logger *slog.Logger
	conn   Conn

	roomID   string
	clientID string
	seq      uint64

	mu      sync.Mutex
	session *minesweeper.Session
}

// New - wraps an established connection. Use Dial to connect over the network.
func New(logger *slog.Logger, conn Conn, roomID string, difficulty entity.Difficulty) *Client {
	return &Client{
		logger: logger,
		conn:   conn,

		roomID:   roomID,
		clientID: pkg.GenerateClientID(),

		session: minesweeper.NewSession(difficulty, nil),
	}
}

// Dial - connects to the relay and joins the room, requesting hydration.
func Dial(ctx context.Context, logger *slog.Logger, url, roomID string, difficulty entity.Difficulty) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to dial relay: %w", err)
	}

	client := New(logger, conn, roomID, difficulty)

	if err = client.Join(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return client, nil
}

// Join - subscribes to the room; the relay replies with a sync-state snapshot
// if the room already has one.
func (that *Client) Join() error {
	if err := that.send("join-room", transport.Payload{}); err != nil {
		return fmt.Errorf("failed to join room: %w", err)
	}

	return nil
}

// State - a snapshot of the local session for the presentation layer.
func (that *Client) State() *entity.SessionState {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.session.Snapshot()
}

// ClientID - this participant's origin tag.
func (that *Client) ClientID() string {
	return that.clientID
}

// Reveal - applies a local reveal and, if it changed anything, sends the
// action notice plus the resulting full snapshot to the relay.
func (that *Client) Reveal(row, col int) {
	that.mu.Lock()
	changed := that.session.Reveal(row, col)
	snapshot := that.session.Snapshot()
	that.mu.Unlock()

	if !changed {
		return
	}

	that.notifyAction("cell-click", row, col)
	that.pushState(snapshot)
}

// ToggleFlag - applies a local flag toggle and publishes it like Reveal.
func (that *Client) ToggleFlag(row, col int) {
	that.mu.Lock()
	changed := that.session.ToggleFlag(row, col)
	snapshot := that.session.Snapshot()
	that.mu.Unlock()

	if !changed {
		return
	}

	that.notifyAction("cell-flag", row, col)
	that.pushState(snapshot)
}

// Reset - resets the local session and tells the relay to drop the room's
// stored state and notify the other participants.
func (that *Client) Reset(difficulty entity.Difficulty) {
	that.mu.Lock()
	that.session.Reset(difficulty)
	that.mu.Unlock()

	if err := that.send("reset-game", transport.Payload{}); err != nil {
		that.logger.Error("failed to send reset", "error", err)
	}
}

// Run - the client's dispatcher: inbound messages and the one-second
// elapsed-time tick are handled as discrete, non-overlapping callbacks.
func (that *Client) Run(ctx context.Context) error {
	messages := make(chan transport.Message)
	readErr := make(chan error, 1)

	go func() {
		for {
			var message transport.Message
			if err := that.conn.ReadJSON(&message); err != nil {
				readErr <- err
				return
			}

			select {
			case messages <- message:
			case <-ctx.Done():
				return
			}
		}
	}()

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return that.conn.Close()
		case err := <-readErr:
			return fmt.Errorf("connection closed: %w", err)
		case <-ticker.C:
			that.mu.Lock()
			that.session.Tick()
			that.mu.Unlock()
		case message := <-messages:
			that.HandleMessage(&message)
		}
	}
}

// HandleMessage - applies one inbound relay message to the local session.
func (that *Client) HandleMessage(msg *transport.Message) {
	log := that.logger.With("method", "HandleMessage", "action", msg.Action)

	var payload transport.Payload
	if len(msg.Payload) > 0 {
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			log.Error("dropping malformed payload", "error", err)
			return
		}
	}

	if payload.Error != "" {
		log.Error("relay rejected message", "error", payload.Error)
		return
	}

	// echo of our own tagged mutation
	if payload.ClientID != "" && payload.ClientID == that.clientID {
		return
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	switch msg.Action {
	case "sync-state":
		if payload.State == nil {
			log.Error("sync-state without state")
			return
		}
		if err := payload.State.Validate(); err != nil {
			log.Error("dropping invalid snapshot", "error", err)
			return
		}
		that.session.Apply(payload.State)
	case "cell-click":
		if payload.Row == nil || payload.Col == nil {
			log.Error("cell-click without coordinates")
			return
		}
		that.session.Reveal(*payload.Row, *payload.Col)
	case "cell-flag":
		if payload.Row == nil || payload.Col == nil {
			log.Error("cell-flag without coordinates")
			return
		}
		that.session.ToggleFlag(*payload.Row, *payload.Col)
	case "reset-game":
		that.session.Reset(that.session.State().Difficulty)
	case "join-room":
		// join acknowledgement for an empty room, nothing to apply
	default:
		log.Error("unknown action")
	}
}

// notifyAction - the lightweight {row, col} notice peers replay locally.
func (that *Client) notifyAction(action string, row, col int) {
	if err := that.send(action, transport.Payload{Row: &row, Col: &col}); err != nil {
		that.logger.Error("failed to send action notice", "action", action, "error", err)
	}
}

// pushState - the authoritative full snapshot that wins over replay drift.
func (that *Client) pushState(snapshot *entity.SessionState) {
	if err := that.send("update-state", transport.Payload{State: snapshot}); err != nil {
		that.logger.Error("failed to push state", "error", err)
	}
}

// send - fire-and-forget publish, tagged with room, origin and sequence.
func (that *Client) send(action string, payload transport.Payload) error {
	that.mu.Lock()
	that.seq++
	seq := that.seq
	that.mu.Unlock()

	payload.RoomID = that.roomID
	payload.ClientID = that.clientID
	payload.Seq = seq

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	message := transport.Message{
		Action:  action,
		Payload: payloadBytes,
	}

	if err = that.conn.WriteJSON(message); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}
