package entity

const (
	StatusWaiting = "waiting"
	StatusPlaying = "playing"
	StatusEnded   = "ended"

	MaxPlayers = 2
)

// Room is one game session: up to two seated players, any number of
// spectators, and the authoritative game state while playing.
type Room struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	GameType   GameType   `json:"gameType"`
	Players    []*Player  `json:"players"`
	Spectators []*User    `json:"spectators"`
	Status     string     `json:"status"`
	GameState  *GameState `json:"gameState,omitempty"`
	CreatedAt  int64      `json:"createdAt"`
	VsBot      bool       `json:"vsBot,omitempty"`
}

func NewRoom(id, name string, gameType GameType) *Room {
	return &Room{
		ID:         id,
		Name:       name,
		GameType:   gameType,
		Players:    make([]*Player, 0, MaxPlayers),
		Spectators: []*User{},
		Status:     StatusWaiting,
	}
}

func (that *Room) IsWaiting() bool {
	return that.Status == StatusWaiting
}

func (that *Room) IsPlaying() bool {
	return that.Status == StatusPlaying
}

func (that *Room) IsEnded() bool {
	return that.Status == StatusEnded
}

// PlayerByID returns the seated player with the given id, or nil.
func (that *Room) PlayerByID(id string) *Player {
	for _, player := range that.Players {
		if player.ID == id {
			return player
		}
	}
	return nil
}

// PlayerByColor returns the seated player holding the given color, or nil.
func (that *Room) PlayerByColor(color Color) *Player {
	for _, player := range that.Players {
		if player.Color == color {
			return player
		}
	}
	return nil
}

func (that *Room) HasUser(id string) bool {
	if that.PlayerByID(id) != nil {
		return true
	}
	for _, spectator := range that.Spectators {
		if spectator.ID == id {
			return true
		}
	}
	return false
}

// RemoveUser drops the user from both the player and spectator lists and
// reports whether a seated player was removed.
func (that *Room) RemoveUser(id string) bool {
	removedPlayer := false

	players := that.Players[:0]
	for _, player := range that.Players {
		if player.ID == id {
			removedPlayer = true
			continue
		}
		players = append(players, player)
	}
	that.Players = players

	spectators := that.Spectators[:0]
	for _, spectator := range that.Spectators {
		if spectator.ID == id {
			continue
		}
		spectators = append(spectators, spectator)
	}
	that.Spectators = spectators

	return removedPlayer
}

func (that *Room) Empty() bool {
	return len(that.Players) == 0
}

// Clone copies the room with fresh player and spectator lists, so the copy
// can be serialized outside the room's lock. The GameState pointer is
// shared: committed states are immutable.
func (that *Room) Clone() *Room {
	clone := *that

	clone.Players = make([]*Player, len(that.Players))
	for i, player := range that.Players {
		copied := *player
		clone.Players[i] = &copied
	}

	clone.Spectators = make([]*User, len(that.Spectators))
	for i, spectator := range that.Spectators {
		copied := *spectator
		clone.Spectators[i] = &copied
	}

	return &clone
}

// BothReady reports whether two players are seated and both flagged ready.
func (that *Room) BothReady() bool {
	if len(that.Players) != MaxPlayers {
		return false
	}
	for _, player := range that.Players {
		if !player.Ready {
			return false
		}
	}
	return true
}
