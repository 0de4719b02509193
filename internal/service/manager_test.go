package service

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravityplay/gravity-backend/internal/ai"
	"github.com/gravityplay/gravity-backend/internal/apperror"
	"github.com/gravityplay/gravity-backend/internal/entity"
	"github.com/gravityplay/gravity-backend/internal/repository"
)

type memoryUsers struct {
	mu    sync.Mutex
	users map[string]*entity.User
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{users: make(map[string]*entity.User)}
}

func (that *memoryUsers) CreateOrUpdate(_ context.Context, user *entity.User) error {
	that.mu.Lock()
	defer that.mu.Unlock()
	copied := *user
	that.users[user.ID] = &copied
	return nil
}

func (that *memoryUsers) GetByID(_ context.Context, id string) (*entity.User, error) {
	that.mu.Lock()
	defer that.mu.Unlock()
	user, ok := that.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (that *memoryUsers) DeleteByID(_ context.Context, id string) error {
	that.mu.Lock()
	defer that.mu.Unlock()
	delete(that.users, id)
	return nil
}

func (that *memoryUsers) List(_ context.Context) ([]*entity.User, error) {
	that.mu.Lock()
	defer that.mu.Unlock()
	users := make([]*entity.User, 0, len(that.users))
	for _, user := range that.users {
		copied := *user
		users = append(users, &copied)
	}
	return users, nil
}

func (that *memoryUsers) CountOnline(_ context.Context) (int, error) {
	that.mu.Lock()
	defer that.mu.Unlock()
	return len(that.users), nil
}

type broadcastEvent struct {
	RoomID string
	Name   string
}

type recordingBroadcaster struct {
	mu     sync.Mutex
	events []broadcastEvent
}

func (that *recordingBroadcaster) ToRoom(roomID, event string, _ any) {
	that.mu.Lock()
	defer that.mu.Unlock()
	that.events = append(that.events, broadcastEvent{RoomID: roomID, Name: event})
}

func (that *recordingBroadcaster) ToAll(event string, _ any) {
	that.mu.Lock()
	defer that.mu.Unlock()
	that.events = append(that.events, broadcastEvent{Name: event})
}

func (that *recordingBroadcaster) Subscribe(roomID, _ string) {
	that.mu.Lock()
	defer that.mu.Unlock()
	that.events = append(that.events, broadcastEvent{RoomID: roomID, Name: "subscribe"})
}

func (that *recordingBroadcaster) Unsubscribe(roomID, _ string) {
	that.mu.Lock()
	defer that.mu.Unlock()
	that.events = append(that.events, broadcastEvent{RoomID: roomID, Name: "unsubscribe"})
}

func (that *recordingBroadcaster) has(roomID, event string) bool {
	return that.indexOf(roomID, event) >= 0
}

func (that *recordingBroadcaster) indexOf(roomID, event string) int {
	that.mu.Lock()
	defer that.mu.Unlock()
	for i, recorded := range that.events {
		if recorded.RoomID == roomID && recorded.Name == event {
			return i
		}
	}
	return -1
}

func newTestManager(t *testing.T) (*GameManager, *recordingBroadcaster) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	broadcaster := &recordingBroadcaster{}

	manager := NewGameManager(
		logger,
		newMemoryUsers(),
		ai.NewAdvisor(logger, nil),
		broadcaster,
		time.Millisecond,
		time.Second,
	)
	return manager, broadcaster
}

func TestGameManager_CreateRoom(t *testing.T) {
	t.Run("TwoHumanRoomWaitsForReadiness", func(t *testing.T) {
		ctx := context.Background()
		manager, _ := newTestManager(t)

		// Given: a logged-in guest
		user, err := manager.CreateGuest(ctx)
		require.NoError(t, err)

		// When: the guest opens a room against another human
		room, err := manager.CreateRoom(ctx, user.ID, "", entity.GameTypeRenju, false, "black")
		require.NoError(t, err)

		// Then: the room is waiting with one seated player and no game state
		assert.True(t, room.IsWaiting())
		assert.Len(t, room.Players, 1)
		assert.Equal(t, entity.ColorBlack, room.Players[0].Color)
		assert.Nil(t, room.GameState)
	})

	t.Run("VsBotRoomStartsImmediately", func(t *testing.T) {
		ctx := context.Background()
		manager, broadcaster := newTestManager(t)

		user, err := manager.CreateGuest(ctx)
		require.NoError(t, err)

		// When: the guest opens a room against the bot
		room, err := manager.CreateRoom(ctx, user.ID, "", entity.GameTypeRenju, true, "black")
		require.NoError(t, err)

		// Then: the game starts without any readiness handshake
		assert.True(t, room.IsPlaying())
		require.NotNil(t, room.GameState)
		assert.Len(t, room.Players, 2)

		bot := room.Players[1]
		assert.True(t, bot.IsBot)
		assert.True(t, bot.Ready)
		assert.Equal(t, entity.ColorWhite, bot.Color)

		assert.True(t, broadcaster.has(room.ID, EventGameStart))

		// And: the creator was in the room group before the start broadcast
		subscribedAt := broadcaster.indexOf(room.ID, "subscribe")
		startedAt := broadcaster.indexOf(room.ID, EventGameStart)
		require.GreaterOrEqual(t, subscribedAt, 0)
		assert.Less(t, subscribedAt, startedAt)
	})

	t.Run("UnknownUserRejected", func(t *testing.T) {
		ctx := context.Background()
		manager, _ := newTestManager(t)

		_, err := manager.CreateRoom(ctx, "nobody", "", entity.GameTypeRenju, false, "")
		assert.ErrorIs(t, err, apperror.ErrNotAuthenticated)
	})
}

func TestGameManager_JoinRoom(t *testing.T) {
	t.Run("SecondPlayerTakesOppositeColor", func(t *testing.T) {
		ctx := context.Background()
		manager, _ := newTestManager(t)

		creator, err := manager.CreateGuest(ctx)
		require.NoError(t, err)
		joiner, err := manager.CreateGuest(ctx)
		require.NoError(t, err)

		room, err := manager.CreateRoom(ctx, creator.ID, "", entity.GameTypeGo, false, "white")
		require.NoError(t, err)

		// When: a second guest joins
		joined, err := manager.JoinRoom(ctx, joiner.ID, room.ID)
		require.NoError(t, err)

		// Then: they are seated with the remaining color
		require.Len(t, joined.Players, 2)
		assert.Equal(t, entity.ColorBlack, joined.Players[1].Color)
		assert.Empty(t, joined.Spectators)
	})

	t.Run("ThirdUserSpectates", func(t *testing.T) {
		ctx := context.Background()
		manager, _ := newTestManager(t)

		creator, _ := manager.CreateGuest(ctx)
		joiner, _ := manager.CreateGuest(ctx)
		watcher, _ := manager.CreateGuest(ctx)

		room, err := manager.CreateRoom(ctx, creator.ID, "", entity.GameTypeRenju, false, "")
		require.NoError(t, err)
		_, err = manager.JoinRoom(ctx, joiner.ID, room.ID)
		require.NoError(t, err)

		joined, err := manager.JoinRoom(ctx, watcher.ID, room.ID)
		require.NoError(t, err)

		assert.Len(t, joined.Players, 2)
		require.Len(t, joined.Spectators, 1)
		assert.Equal(t, watcher.ID, joined.Spectators[0].ID)
	})

	t.Run("RejoinIsNoOp", func(t *testing.T) {
		ctx := context.Background()
		manager, _ := newTestManager(t)

		creator, _ := manager.CreateGuest(ctx)
		room, err := manager.CreateRoom(ctx, creator.ID, "", entity.GameTypeRenju, false, "")
		require.NoError(t, err)

		joined, err := manager.JoinRoom(ctx, creator.ID, room.ID)
		require.NoError(t, err)

		assert.Len(t, joined.Players, 1)
		assert.Empty(t, joined.Spectators)
	})

	t.Run("SeatsIntoAnEndedRoomWithAFreeSeat", func(t *testing.T) {
		ctx := context.Background()
		manager, _ := newTestManager(t)
		black, _, roomID := startTwoPlayerGame(t, manager, entity.GameTypeRenju)

		// Given: one player abandoned the live game
		require.NoError(t, manager.LeaveRoom(ctx, black.ID, roomID))

		// When: a new guest joins the ended room
		newcomer, _ := manager.CreateGuest(ctx)
		joined, err := manager.JoinRoom(ctx, newcomer.ID, roomID)
		require.NoError(t, err)

		// Then: the free seat is taken, not the spectator bench
		assert.Len(t, joined.Players, 2)
		assert.Empty(t, joined.Spectators)
	})

	t.Run("RoomNotFound", func(t *testing.T) {
		ctx := context.Background()
		manager, _ := newTestManager(t)

		user, _ := manager.CreateGuest(ctx)
		_, err := manager.JoinRoom(ctx, user.ID, "missing")
		assert.ErrorIs(t, err, apperror.ErrRoomNotFound)
	})
}

func TestGameManager_SetReady(t *testing.T) {
	ctx := context.Background()
	manager, _ := newTestManager(t)

	creator, _ := manager.CreateGuest(ctx)
	joiner, _ := manager.CreateGuest(ctx)

	room, err := manager.CreateRoom(ctx, creator.ID, "", entity.GameTypeRenju, false, "black")
	require.NoError(t, err)
	_, err = manager.JoinRoom(ctx, joiner.ID, room.ID)
	require.NoError(t, err)

	// When: only one player is ready
	require.NoError(t, manager.SetReady(room.ID, creator.ID, true))

	// Then: the game has not started
	snapshot, err := manager.Room(room.ID)
	require.NoError(t, err)
	assert.True(t, snapshot.IsWaiting())

	// When: the second player becomes ready
	require.NoError(t, manager.SetReady(room.ID, joiner.ID, true))

	// Then: the game starts with both colors assigned
	snapshot, err = manager.Room(room.ID)
	require.NoError(t, err)
	assert.True(t, snapshot.IsPlaying())
	require.NotNil(t, snapshot.GameState)
	assert.Equal(t, entity.ColorBlack, snapshot.Players[0].Color)
	assert.Equal(t, entity.ColorWhite, snapshot.Players[1].Color)

	// And: readiness requests for missing rooms are reported
	assert.ErrorIs(t, manager.SetReady("missing", creator.ID, true), apperror.ErrRoomNotFound)
}

// startTwoPlayerGame wires up a playing room with the creator on black.
func startTwoPlayerGame(t *testing.T, manager *GameManager, gameType entity.GameType) (black, white *entity.User, roomID string) {
	t.Helper()
	ctx := context.Background()

	black, err := manager.CreateGuest(ctx)
	require.NoError(t, err)
	white, err = manager.CreateGuest(ctx)
	require.NoError(t, err)

	room, err := manager.CreateRoom(ctx, black.ID, "", gameType, false, "black")
	require.NoError(t, err)
	_, err = manager.JoinRoom(ctx, white.ID, room.ID)
	require.NoError(t, err)

	require.NoError(t, manager.SetReady(room.ID, black.ID, true))
	require.NoError(t, manager.SetReady(room.ID, white.ID, true))

	snapshot, err := manager.Room(room.ID)
	require.NoError(t, err)
	require.True(t, snapshot.IsPlaying())

	return black, white, room.ID
}

func TestGameManager_SubmitMove(t *testing.T) {
	t.Run("OutOfTurnMoveIgnored", func(t *testing.T) {
		manager, _ := newTestManager(t)
		_, white, roomID := startTwoPlayerGame(t, manager, entity.GameTypeRenju)

		// When: white moves while black is to play
		applied := manager.SubmitMove(roomID, white.ID, entity.Move{X: 7, Y: 7})

		// Then: the move is dropped and the state untouched
		assert.False(t, applied)

		snapshot, err := manager.Room(roomID)
		require.NoError(t, err)
		assert.Empty(t, snapshot.GameState.Renju.History)
	})

	t.Run("SpectatorMoveIgnored", func(t *testing.T) {
		ctx := context.Background()
		manager, _ := newTestManager(t)
		_, _, roomID := startTwoPlayerGame(t, manager, entity.GameTypeRenju)

		watcher, _ := manager.CreateGuest(ctx)
		_, err := manager.JoinRoom(ctx, watcher.ID, roomID)
		require.NoError(t, err)

		assert.False(t, manager.SubmitMove(roomID, watcher.ID, entity.Move{X: 7, Y: 7}))
	})

	t.Run("FiveInARowEndsTheGame", func(t *testing.T) {
		manager, broadcaster := newTestManager(t)
		black, white, roomID := startTwoPlayerGame(t, manager, entity.GameTypeRenju)

		// When: black builds an unanswered row of five
		for i := 0; i < 4; i++ {
			require.True(t, manager.SubmitMove(roomID, black.ID, entity.Move{X: i, Y: 0}))
			require.True(t, manager.SubmitMove(roomID, white.ID, entity.Move{X: i, Y: 5}))
		}
		require.True(t, manager.SubmitMove(roomID, black.ID, entity.Move{X: 4, Y: 0}))

		// Then: black wins and the room is closed to further moves
		snapshot, err := manager.Room(roomID)
		require.NoError(t, err)
		assert.True(t, snapshot.IsEnded())
		assert.Equal(t, entity.Winner(entity.ColorBlack), snapshot.GameState.Winner)
		assert.True(t, broadcaster.has(roomID, EventGameState))

		assert.False(t, manager.SubmitMove(roomID, white.ID, entity.Move{X: 8, Y: 8}))
	})

	t.Run("GoCaptureRemovesStone", func(t *testing.T) {
		manager, _ := newTestManager(t)
		black, white, roomID := startTwoPlayerGame(t, manager, entity.GameTypeGo)

		// When: black surrounds the white corner stone
		require.True(t, manager.SubmitMove(roomID, black.ID, entity.Move{X: 1, Y: 0}))
		require.True(t, manager.SubmitMove(roomID, white.ID, entity.Move{X: 0, Y: 0}))
		require.True(t, manager.SubmitMove(roomID, black.ID, entity.Move{X: 0, Y: 1}))

		// Then: the stone is captured and credited to black
		snapshot, err := manager.Room(roomID)
		require.NoError(t, err)

		goState := snapshot.GameState.Go
		assert.Equal(t, entity.EmptyCell, goState.Board[0][0])
		assert.Equal(t, 1, goState.Captured.Black)
		assert.Equal(t, entity.ColorWhite, goState.CurrentPlayer)
	})

	t.Run("ChessMoveRecordedInAlgebraicNotation", func(t *testing.T) {
		manager, _ := newTestManager(t)
		_, white, roomID := startTwoPlayerGame(t, manager, entity.GameTypeChess)

		require.True(t, manager.SubmitMove(roomID, white.ID, entity.Move{From: "e2", To: "e4"}))

		snapshot, err := manager.Room(roomID)
		require.NoError(t, err)

		chessState := snapshot.GameState.Chess
		require.Len(t, chessState.History, 1)
		assert.Equal(t, "e4", chessState.History[0].SAN)
		assert.Equal(t, entity.ColorBlack, chessState.Turn)
	})
}

func TestGameManager_BotPlaysItsTurn(t *testing.T) {
	ctx := context.Background()
	manager, _ := newTestManager(t)

	user, err := manager.CreateGuest(ctx)
	require.NoError(t, err)

	// Given: a vs-bot room where the bot holds black and moves first
	room, err := manager.CreateRoom(ctx, user.ID, "", entity.GameTypeRenju, true, "white")
	require.NoError(t, err)
	require.True(t, room.IsPlaying())

	// Then: the bot places its opening stone on its own
	assert.Eventually(t, func() bool {
		snapshot, err := manager.Room(room.ID)
		if err != nil {
			return false
		}
		return len(snapshot.GameState.Renju.History) == 1 &&
			snapshot.GameState.Renju.CurrentPlayer == entity.ColorWhite
	}, 2*time.Second, 10*time.Millisecond)
}

func TestGameManager_LeaveRoom(t *testing.T) {
	t.Run("LeavingLiveGameEndsIt", func(t *testing.T) {
		ctx := context.Background()
		manager, broadcaster := newTestManager(t)
		black, _, roomID := startTwoPlayerGame(t, manager, entity.GameTypeRenju)

		// When: a seated player walks away mid-game
		require.NoError(t, manager.LeaveRoom(ctx, black.ID, roomID))

		// Then: the game is over and the room told about it
		snapshot, err := manager.Room(roomID)
		require.NoError(t, err)
		assert.True(t, snapshot.IsEnded())
		assert.Len(t, snapshot.Players, 1)
		assert.True(t, broadcaster.has(roomID, EventRoomState))
	})

	t.Run("LastPlayerOutDeletesRoom", func(t *testing.T) {
		ctx := context.Background()
		manager, _ := newTestManager(t)
		black, white, roomID := startTwoPlayerGame(t, manager, entity.GameTypeRenju)

		require.NoError(t, manager.LeaveRoom(ctx, black.ID, roomID))
		require.NoError(t, manager.LeaveRoom(ctx, white.ID, roomID))

		_, err := manager.Room(roomID)
		assert.ErrorIs(t, err, apperror.ErrRoomNotFound)
	})
}

func TestGameManager_Disconnect(t *testing.T) {
	ctx := context.Background()
	manager, _ := newTestManager(t)
	black, _, roomID := startTwoPlayerGame(t, manager, entity.GameTypeRenju)

	// When: a player's connection drops
	manager.Disconnect(ctx, black.ID)

	// Then: they are gone from the room and the presence counters
	snapshot, err := manager.Room(roomID)
	require.NoError(t, err)
	assert.Nil(t, snapshot.PlayerByID(black.ID))

	stats, err := manager.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Online)
}

func TestGameManager_Lobby(t *testing.T) {
	ctx := context.Background()
	manager, _ := newTestManager(t)

	userOne, _ := manager.CreateGuest(ctx)
	_, _ = manager.CreateGuest(ctx)

	_, err := manager.CreateRoom(ctx, userOne.ID, "morning renju", entity.GameTypeRenju, false, "")
	require.NoError(t, err)

	lobby, err := manager.Lobby(ctx)
	require.NoError(t, err)

	assert.Len(t, lobby.Users, 2)
	require.Len(t, lobby.Rooms, 1)
	assert.Equal(t, "morning renju", lobby.Rooms[0].Name)
}
