package service

import (
	"context"
	"math/rand"
	"time"

	"github.com/gravityplay/gravity-backend/internal/entity"
	"github.com/gravityplay/gravity-backend/internal/game/chessadapter"
	"github.com/gravityplay/gravity-backend/internal/game/gogame"
	"github.com/gravityplay/gravity-backend/internal/game/renju"
)

// startGameLocked flips the room into play: assigns colors if the players
// don't hold them yet, builds the opening state, and kicks off the first
// automated turn when a bot moves first. Caller holds the session lock.
func (that *GameManager) startGameLocked(room *entity.Room) {
	if len(room.Players) != entity.MaxPlayers {
		return
	}

	first, second := room.Players[0], room.Players[1]
	if first.Color == "" || second.Color == "" {
		if rand.Intn(2) == 0 {
			first.Color, second.Color = entity.ColorBlack, entity.ColorWhite
		} else {
			first.Color, second.Color = entity.ColorWhite, entity.ColorBlack
		}
	}

	var state *entity.GameState
	switch room.GameType {
	case entity.GameTypeGo:
		state = gogame.NewState()
	case entity.GameTypeChess:
		state = chessadapter.NewState()
	default:
		state = renju.NewState()
	}

	room.Status = entity.StatusPlaying
	room.GameState = state

	that.logger.Info("game started", "roomID", room.ID, "gameType", room.GameType)

	that.broadcaster.ToRoom(room.ID, EventRoomState, room.Clone())
	that.broadcaster.ToRoom(room.ID, EventGameStart, room.Clone())

	if player := room.PlayerByColor(state.CurrentColor()); player != nil && player.IsBot {
		that.scheduleBotTurn(room.ID)
	}
}

// SubmitMove applies a player's move. Illegal, out-of-turn, and misdirected
// moves are dropped without a reply; the return value reports whether the
// move was committed.
func (that *GameManager) SubmitMove(roomID, userID string, move entity.Move) bool {
	sess, ok := that.rooms.get(roomID)
	if !ok {
		return false
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	player := sess.room.PlayerByID(userID)
	if player == nil {
		return false
	}

	return that.applyMoveLocked(sess.room, player, move)
}

func (that *GameManager) applyMoveLocked(room *entity.Room, player *entity.Player, move entity.Move) bool {
	state := room.GameState
	if !room.IsPlaying() || state == nil || state.Finished() {
		return false
	}
	if player.Color == "" || player.Color != state.CurrentColor() {
		return false
	}

	duration := time.Now().UnixMilli() - state.LastMoveTime
	if duration < 0 {
		duration = 0
	}

	next, ok := advanceState(room.GameType, state, player.Color, move, duration)
	if !ok {
		return false
	}

	room.GameState = next
	if next.Finished() {
		room.Status = entity.StatusEnded
	}

	that.broadcaster.ToRoom(room.ID, EventGameState, next)

	if next.Finished() {
		that.logger.Info("game finished", "roomID", room.ID, "winner", next.Winner)
		that.broadcaster.ToRoom(room.ID, EventRoomState, room.Clone())
		return true
	}

	if upNext := room.PlayerByColor(next.CurrentColor()); upNext != nil && upNext.IsBot {
		that.scheduleBotTurn(room.ID)
	}

	return true
}

// advanceState runs the move through the room's engine and returns the
// successor state, with the winner stamped when the move decides the game.
func advanceState(gameType entity.GameType, state *entity.GameState, color entity.Color, move entity.Move, duration int64) (*entity.GameState, bool) {
	switch gameType {
	case entity.GameTypeRenju:
		if !renju.IsValidMove(state, move.X, move.Y) {
			return nil, false
		}
		next, err := renju.ApplyMove(state, move.X, move.Y, color, duration)
		if err != nil {
			return nil, false
		}
		if winner := renju.CheckWin(next.Renju.Board, move.X, move.Y, color); winner != "" {
			next.Winner = winner
		}
		return next, true

	case entity.GameTypeGo:
		if !gogame.IsValidMove(state, move.X, move.Y, color) {
			return nil, false
		}
		next, err := gogame.ApplyMove(state, move.X, move.Y, color, duration)
		if err != nil {
			return nil, false
		}
		return next, true

	case entity.GameTypeChess:
		next, err := chessadapter.ApplyMove(state, chessadapter.Move{
			From:      move.From,
			To:        move.To,
			Promotion: move.Promotion,
		}, duration)
		if err != nil {
			return nil, false
		}
		return next, true
	}

	return nil, false
}

func (that *GameManager) scheduleBotTurn(roomID string) {
	time.AfterFunc(that.botMoveDelay, func() {
		that.executeBotTurn(roomID)
	})
}

// executeBotTurn plays one automated move. The session lock is held across
// the advisor call so nothing commits a conflicting move mid-suggestion;
// the oracle timeout bounds how long the room stays locked. A further bot
// turn, if due, is scheduled by the commit path.
func (that *GameManager) executeBotTurn(roomID string) {
	log := that.logger.With("method", "executeBotTurn", "roomID", roomID)

	sess, ok := that.rooms.get(roomID)
	if !ok {
		return
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	room := sess.room
	state := room.GameState
	if !room.IsPlaying() || state == nil || state.Finished() {
		return
	}

	player := room.PlayerByColor(state.CurrentColor())
	if player == nil || !player.IsBot {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), that.oracleTimeout)
	defer cancel()

	move, ok := that.advisor.SuggestMove(ctx, state)
	if !ok {
		log.Warn("no move available for automated player")
		return
	}

	if !that.applyMoveLocked(room, player, move) {
		log.Warn("automated move rejected", "move", move)
	}
}
