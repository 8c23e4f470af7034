package rest

import (
	"encoding/json"
	"net/http"

	"github.com/rocketscienceinc/minesweeper-backend/internal/pkg"
)

func pingHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
}

// createRoomHandler - issues a fresh shareable room token. The room itself is
// created lazily by the relay on the first state update.
func createRoomHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	response := struct {
		RoomID string `json:"room_id"`
	}{
		RoomID: pkg.GenerateRoomToken(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
}
