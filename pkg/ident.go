package pkg

import (
	"strings"

	"github.com/google/uuid"
)

// GenerateSessionID returns a unique id for a connected user session.
func GenerateSessionID() string {
	return uuid.NewString()
}

// GenerateBotID returns an id for a server-seated bot user.
func GenerateBotID() string {
	return "bot-" + uuid.NewString()
}

// GenerateRoomID returns a short shareable room code.
func GenerateRoomID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}
