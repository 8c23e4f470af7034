package websocket

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/rocketscienceinc/minesweeper-backend/internal/entity"
	"github.com/rocketscienceinc/minesweeper-backend/internal/pkg"
)

type roomManager interface {
	HydrateRoom(ctx context.Context, roomID string) (*entity.SessionState, error)
	SaveState(ctx context.Context, roomID string, state *entity.SessionState) error
	ResetRoom(ctx context.Context, roomID string) error
}

// memberConn - one participant's connection. The mutex serializes frame
// writes: a member receives frames both from its own handler replies and
// from other senders' broadcast goroutines.
type memberConn struct {
	writeMutex sync.Mutex
	bufrw      *bufio.ReadWriter
}

// Server - the relay. One dispatcher goroutine per connection; within a room
// messages are handled strictly in arrival order by whichever connection
// delivered them, and the stored snapshot is last-write-wins.
type Server struct {
	logger *slog.Logger
	rooms  roomManager

	handlers map[string]func(ctx context.Context, message *Message, conn *memberConn) error

	membersMutex sync.RWMutex
	members      map[string]map[*memberConn]bool
}

func New(logger *slog.Logger, rooms roomManager) *Server {
	server := &Server{
		logger: logger,
		rooms:  rooms,

		handlers: make(map[string]func(context.Context, *Message, *memberConn) error),
		members:  make(map[string]map[*memberConn]bool),
	}

	server.handlers["join-room"] = server.handleJoinRoom
	server.handlers["update-state"] = server.handleUpdateState
	server.handlers["cell-click"] = server.handleCellClick
	server.handlers["cell-flag"] = server.handleCellFlag
	server.handlers["reset-game"] = server.handleResetGame

	return server
}

// Start - starts WebSocket server.
func (that *Server) Start(ctx context.Context, port string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		that.upgradeToWebSocket(ctx, w, r)
	})

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	if err := srv.ListenAndServe(); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// upgradeToWebSocket - upgrades the connection to WebSocket.
func (that *Server) upgradeToWebSocket(ctx context.Context, writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "upgradeToWebSocket")

	if req.Header.Get("Upgrade") != "websocket" {
		http.Error(writer, "not a websocket upgrade", http.StatusBadRequest)
		return
	}

	key := req.Header.Get("Sec-WebSocket-Key")
	acceptKey := pkg.GenerateAcceptKey(key)

	writer.Header().Set("Upgrade", "websocket")
	writer.Header().Set("Connection", "Upgrade")
	writer.Header().Set("Sec-WebSocket-Accept", acceptKey)
	writer.WriteHeader(http.StatusSwitchingProtocols)

	hijacker, ok := writer.(http.Hijacker)
	if !ok {
		log.Error("web server does not support hijacking", "error", http.StatusText(http.StatusInternalServerError))
		return
	}

	netConn, bufrw, err := hijacker.Hijack()
	if err != nil {
		log.Error("failed to hijack connection", "error", err)
		return
	}

	defer netConn.Close()

	log.Info("WebSocket connection established")

	conn := &memberConn{bufrw: bufrw}

	if err = that.handleMessages(ctx, conn); err != nil {
		log.Error("error handling messages", "error", err)
	}

	that.dropConnection(conn)
}

// handleMessages - processes messages from the client. A malformed message is
// dropped and logged; only a transport read error ends the loop.
func (that *Server) handleMessages(ctx context.Context, conn *memberConn) error {
	log := that.logger.With("method", "handleMessages")

	for {
		reqBody, err := that.readRequest(conn)
		if err != nil {
			log.Error("error reading message", "error", err)
			return err
		}

		var message Message
		if err = json.Unmarshal(reqBody, &message); err != nil {
			log.Error("failed to unmarshal message", "error", err)
			continue
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			log.Error("unknown action", "action", message.Action)
			continue
		}

		if err = handler(ctx, &message, conn); err != nil {
			log.Error("error processing message", "action", message.Action, "error", err)
		}
	}
}

// registerMember - subscribes a connection to a room.
func (that *Server) registerMember(roomID string, conn *memberConn) {
	that.membersMutex.Lock()
	defer that.membersMutex.Unlock()

	if that.members[roomID] == nil {
		that.members[roomID] = make(map[*memberConn]bool)
	}

	that.members[roomID][conn] = true
}

// dropConnection - removes a closed connection from every room. A participant
// that disconnects simply stops receiving; peers get no departure notice.
func (that *Server) dropConnection(conn *memberConn) {
	that.membersMutex.Lock()
	defer that.membersMutex.Unlock()

	for roomID, conns := range that.members {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(that.members, roomID)
		}
	}
}

// broadcast - sends a message to every room member except the sender.
func (that *Server) broadcast(roomID string, sender *memberConn, action string, payload Payload) {
	log := that.logger.With("method", "broadcast", "roomID", roomID, "action", action)

	that.membersMutex.RLock()
	conns := make([]*memberConn, 0, len(that.members[roomID]))
	for conn := range that.members[roomID] {
		if conn != sender {
			conns = append(conns, conn)
		}
	}
	that.membersMutex.RUnlock()

	for _, conn := range conns {
		if err := that.sendMessage(conn, action, payload); err != nil {
			log.Error("failed to send message to room member", "error", err)
		}
	}
}
