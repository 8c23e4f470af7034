package pkg

import (
	"crypto/rand"
	"crypto/sha1" //nolint: gosec // RFC 6455 requires SHA-1 for the handshake
	"encoding/base64"

	"github.com/google/uuid"
)

// Static GUID defined in RFC 6455 for WebSocket.
const websocketGUID = "258EAFA5-E914-47DA-95CA-C5AB0DC85B11"

// GenerateAcceptKey - generates key for WebSocket handshake.
func GenerateAcceptKey(key string) string {
	h := sha1.New() //nolint: gosec // see import comment

	h.Write([]byte(key + websocketGUID))

	return base64.StdEncoding.EncodeToString(h.Sum(nil))
}

// GenerateClientID - identifies one participant for origin tagging.
func GenerateClientID() string {
	return uuid.NewString()
}

// GenerateRoomToken - a short opaque token carried in the shareable
// session URL.
func GenerateRoomToken() string {
	b := make([]byte, 6)
	if _, err := rand.Read(b); err != nil {
		return "error-generating-room-token"
	}

	return base64.RawURLEncoding.EncodeToString(b)
}
