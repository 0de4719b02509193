package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gravityplay/gravity-backend/internal/apperror"
	"github.com/gravityplay/gravity-backend/internal/entity"
	"github.com/gravityplay/gravity-backend/internal/repository"
	"github.com/gravityplay/gravity-backend/pkg"
)

// Outbound event names.
const (
	EventStats     = "stats"
	EventRoomList  = "room:list"
	EventRoomState = "room:state"
	EventGameStart = "game:start"
	EventGameState = "game:state"
)

const (
	botNickname = "Gravity Bot"
	botAvatar   = "🤖"
)

// Broadcaster pushes server-initiated events to clients and tracks which
// room group each user's connection belongs to. ToRoom and ToAll must
// serialize the payload before returning, so callers can hand over room
// state while still holding the room's lock.
type Broadcaster interface {
	ToRoom(roomID, event string, payload any)
	ToAll(event string, payload any)
	Subscribe(roomID, userID string)
	Unsubscribe(roomID, userID string)
}

type moveAdvisor interface {
	SuggestMove(ctx context.Context, state *entity.GameState) (entity.Move, bool)
}

// Stats is the global presence snapshot pushed on every membership change.
type Stats struct {
	Online int `json:"online"`
	Rooms  int `json:"rooms"`
}

// Lobby bundles everything a freshly connected client needs.
type Lobby struct {
	Users []*entity.User `json:"users"`
	Rooms []*entity.Room `json:"rooms"`
}

// GameManager owns the room registry and drives every session through its
// lifecycle: membership, readiness, moves, automated turns, and teardown.
type GameManager struct {
	logger      *slog.Logger
	users       repository.UserRepository
	advisor     moveAdvisor
	broadcaster Broadcaster

	botMoveDelay  time.Duration
	oracleTimeout time.Duration

	rooms *registry
}

func NewGameManager(
	logger *slog.Logger,
	users repository.UserRepository,
	advisor moveAdvisor,
	broadcaster Broadcaster,
	botMoveDelay time.Duration,
	oracleTimeout time.Duration,
) *GameManager {
	return &GameManager{
		logger:        logger.With("component", "game_manager"),
		users:         users,
		advisor:       advisor,
		broadcaster:   broadcaster,
		botMoveDelay:  botMoveDelay,
		oracleTimeout: oracleTimeout,
		rooms:         newRegistry(),
	}
}

// CreateGuest registers a new guest session with a generated nickname and
// avatar, and announces the updated presence counters.
func (that *GameManager) CreateGuest(ctx context.Context) (*entity.User, error) {
	user := &entity.User{
		ID:       pkg.GenerateSessionID(),
		Nickname: pkg.GenerateNickname(),
		Avatar:   pkg.GenerateAvatar(),
	}

	if err := that.users.CreateOrUpdate(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to register guest: %w", err)
	}

	that.broadcastStats(ctx)

	return user, nil
}

// Disconnect tears down everything the user participates in: removes them
// from every room, drops the session record, and refreshes the lobby.
func (that *GameManager) Disconnect(ctx context.Context, userID string) {
	log := that.logger.With("method", "Disconnect", "userID", userID)

	for _, sess := range that.rooms.all() {
		that.removeFromRoom(sess, userID)
	}

	if err := that.users.DeleteByID(ctx, userID); err != nil {
		log.Error("failed to delete user", "error", err)
	}

	that.broadcastRoomList()
	that.broadcastStats(ctx)
}

// Lobby returns the current online users and room list.
func (that *GameManager) Lobby(ctx context.Context) (*Lobby, error) {
	users, err := that.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list online users: %w", err)
	}

	return &Lobby{
		Users: users,
		Rooms: that.rooms.snapshotRooms(),
	}, nil
}

// Stats returns the presence counters.
func (that *GameManager) Stats(ctx context.Context) (*Stats, error) {
	online, err := that.users.CountOnline(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count online users: %w", err)
	}

	return &Stats{Online: online, Rooms: that.rooms.count()}, nil
}

// Room returns a snapshot of the room, or apperror.ErrRoomNotFound.
func (that *GameManager) Room(roomID string) (*entity.Room, error) {
	sess, ok := that.rooms.get(roomID)
	if !ok {
		return nil, apperror.ErrRoomNotFound
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	return sess.room.Clone(), nil
}

// CreateRoom opens a new room with the creator seated. When vsBot is set, a
// server-controlled player takes the second seat and the game starts
// immediately, no readiness required. preferredColor may be "black" or
// "white"; anything else is resolved randomly at game start.
func (that *GameManager) CreateRoom(ctx context.Context, userID, name string, gameType entity.GameType, vsBot bool, preferredColor string) (*entity.Room, error) {
	user, err := that.userByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !gameType.Valid() {
		gameType = entity.GameTypeRenju
	}
	if name == "" {
		name = user.Nickname + "'s room"
	}

	room := entity.NewRoom(pkg.GenerateRoomID(), name, gameType)
	room.CreatedAt = time.Now().UnixMilli()

	creator := &entity.Player{User: *user, Color: seatColor(preferredColor)}
	room.Players = append(room.Players, creator)

	if vsBot {
		room.VsBot = true
		room.Name = user.Nickname + " vs " + botNickname

		bot := &entity.Player{
			User: entity.User{
				ID:       pkg.GenerateBotID(),
				Nickname: botNickname,
				Avatar:   botAvatar,
				IsBot:    true,
			},
			Ready: true,
		}
		if creator.Color != "" {
			bot.Color = creator.Color.Opposite()
		}
		room.Players = append(room.Players, bot)
	}

	sess := that.rooms.put(room)

	// the creator joins the room group before any start broadcast fires
	that.broadcaster.Subscribe(room.ID, userID)

	sess.mu.Lock()
	if vsBot {
		that.startGameLocked(room)
	}
	snapshot := room.Clone()
	sess.mu.Unlock()

	that.logger.Info("room created", "roomID", room.ID, "gameType", gameType, "vsBot", vsBot)

	that.broadcastRoomList()
	that.broadcastStats(ctx)

	return snapshot, nil
}

// JoinRoom seats the user when a seat is free; otherwise they join as a
// spectator. Joining a room the user already occupies is a no-op.
func (that *GameManager) JoinRoom(ctx context.Context, userID, roomID string) (*entity.Room, error) {
	user, err := that.userByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	sess, ok := that.rooms.get(roomID)
	if !ok {
		return nil, apperror.ErrRoomNotFound
	}

	that.broadcaster.Subscribe(roomID, userID)

	sess.mu.Lock()
	room := sess.room

	if room.HasUser(userID) {
		snapshot := room.Clone()
		sess.mu.Unlock()
		return snapshot, nil
	}

	if len(room.Players) < entity.MaxPlayers {
		player := &entity.Player{User: *user}
		if len(room.Players) == 1 && room.Players[0].Color != "" {
			player.Color = room.Players[0].Color.Opposite()
		}
		room.Players = append(room.Players, player)
	} else {
		room.Spectators = append(room.Spectators, user)
	}

	snapshot := room.Clone()
	that.broadcaster.ToRoom(room.ID, EventRoomState, snapshot)
	sess.mu.Unlock()

	that.broadcastRoomList()

	return snapshot, nil
}

// SetReady flips a seated player's readiness. The game starts as soon as
// both seats are ready. Requests from spectators and bots are ignored.
func (that *GameManager) SetReady(roomID, userID string, ready bool) error {
	sess, ok := that.rooms.get(roomID)
	if !ok {
		return apperror.ErrRoomNotFound
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	room := sess.room

	player := room.PlayerByID(userID)
	if player == nil || player.IsBot {
		return nil
	}
	player.Ready = ready

	that.broadcaster.ToRoom(room.ID, EventRoomState, room.Clone())

	if room.IsWaiting() && room.BothReady() {
		that.startGameLocked(room)
	}

	return nil
}

// LeaveRoom removes the user from the room. A seated player leaving a live
// game ends it; the last player out deletes the room.
func (that *GameManager) LeaveRoom(ctx context.Context, userID, roomID string) error {
	sess, ok := that.rooms.get(roomID)
	if !ok {
		return apperror.ErrRoomNotFound
	}

	that.removeFromRoom(sess, userID)

	that.broadcastRoomList()
	that.broadcastStats(ctx)

	return nil
}

func (that *GameManager) removeFromRoom(sess *session, userID string) {
	sess.mu.Lock()
	room := sess.room

	if !room.HasUser(userID) {
		sess.mu.Unlock()
		return
	}

	wasSeated := room.RemoveUser(userID)
	that.broadcaster.Unsubscribe(room.ID, userID)

	if room.Empty() {
		sess.mu.Unlock()
		that.rooms.remove(room.ID)
		that.logger.Info("room deleted", "roomID", room.ID)
		return
	}

	if wasSeated && room.IsPlaying() {
		room.Status = entity.StatusEnded
		that.logger.Info("game abandoned", "roomID", room.ID, "userID", userID)
	}

	that.broadcaster.ToRoom(room.ID, EventRoomState, room.Clone())
	sess.mu.Unlock()
}

func (that *GameManager) userByID(ctx context.Context, userID string) (*entity.User, error) {
	user, err := that.users.GetByID(ctx, userID)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, apperror.ErrNotAuthenticated
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (that *GameManager) broadcastStats(ctx context.Context) {
	stats, err := that.Stats(ctx)
	if err != nil {
		that.logger.Error("failed to collect stats", "error", err)
		return
	}
	that.broadcaster.ToAll(EventStats, stats)
}

func (that *GameManager) broadcastRoomList() {
	that.broadcaster.ToAll(EventRoomList, that.rooms.snapshotRooms())
}

func seatColor(preferred string) entity.Color {
	switch color := entity.Color(preferred); color {
	case entity.ColorBlack, entity.ColorWhite:
		return color
	}
	return ""
}
