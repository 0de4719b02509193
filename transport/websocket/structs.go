package websocket

import (
	"encoding/json"

	"github.com/gravityplay/gravity-backend/internal/entity"
)

// Message is the envelope for every frame in both directions: an action
// name plus an action-specific payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type LoginResponse struct {
	User *entity.User `json:"user"`
}

type CreateRoomPayload struct {
	Name     string `json:"name"`
	GameType string `json:"gameType"`
	VsBot    bool   `json:"vsBot"`
	Color    string `json:"color"`
}

type JoinRoomPayload struct {
	RoomID string `json:"roomId"`
}

type ReadyPayload struct {
	RoomID string `json:"roomId"`
	Ready  bool   `json:"ready"`
}

// MovePayload carries the room id plus the move fields inline: x/y for the
// stone games, from/to/promotion for chess.
type MovePayload struct {
	RoomID string `json:"roomId"`
	entity.Move
}

type LeavePayload struct {
	RoomID string `json:"roomId"`
}

type ErrorPayload struct {
	Error string `json:"error"`
}

// envelope serializes an outbound message in one step, so the bytes are
// final before the caller releases any lock protecting the payload.
func envelope(action string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Message{Action: action, Payload: raw})
}
