package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoom_RemoveUser(t *testing.T) {
	t.Run("SeatedPlayer", func(t *testing.T) {
		room := NewRoom("r1", "test", GameTypeRenju)
		room.Players = append(room.Players,
			&Player{User: User{ID: "a"}},
			&Player{User: User{ID: "b"}},
		)

		removed := room.RemoveUser("a")

		assert.True(t, removed)
		require.Len(t, room.Players, 1)
		assert.Equal(t, "b", room.Players[0].ID)
	})

	t.Run("Spectator", func(t *testing.T) {
		room := NewRoom("r1", "test", GameTypeRenju)
		room.Players = append(room.Players, &Player{User: User{ID: "a"}})
		room.Spectators = append(room.Spectators, &User{ID: "watcher"})

		removed := room.RemoveUser("watcher")

		assert.False(t, removed)
		assert.Empty(t, room.Spectators)
		assert.Len(t, room.Players, 1)
	})

	t.Run("UnknownUser", func(t *testing.T) {
		room := NewRoom("r1", "test", GameTypeRenju)
		room.Players = append(room.Players, &Player{User: User{ID: "a"}})

		assert.False(t, room.RemoveUser("missing"))
		assert.Len(t, room.Players, 1)
	})
}

func TestRoom_BothReady(t *testing.T) {
	room := NewRoom("r1", "test", GameTypeGo)
	assert.False(t, room.BothReady())

	room.Players = append(room.Players,
		&Player{User: User{ID: "a"}, Ready: true},
		&Player{User: User{ID: "b"}},
	)
	assert.False(t, room.BothReady())

	room.Players[1].Ready = true
	assert.True(t, room.BothReady())
}

func TestRoom_Clone(t *testing.T) {
	room := NewRoom("r1", "test", GameTypeRenju)
	room.Players = append(room.Players, &Player{User: User{ID: "a"}})
	room.Spectators = append(room.Spectators, &User{ID: "watcher"})

	clone := room.Clone()

	// mutating the clone must not touch the original
	clone.Players[0].Ready = true
	clone.Spectators[0].Nickname = "changed"

	assert.False(t, room.Players[0].Ready)
	assert.Empty(t, room.Spectators[0].Nickname)
}

func TestGameState_CurrentColor(t *testing.T) {
	renjuState := &GameState{Type: GameTypeRenju, Renju: &RenjuState{CurrentPlayer: ColorBlack}}
	assert.Equal(t, ColorBlack, renjuState.CurrentColor())

	chessState := &GameState{Type: GameTypeChess, Chess: &ChessState{Turn: ColorWhite}}
	assert.Equal(t, ColorWhite, chessState.CurrentColor())

	malformed := &GameState{Type: GameTypeGo}
	assert.Equal(t, Color(""), malformed.CurrentColor())
}
