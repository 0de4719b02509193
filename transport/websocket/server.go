package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/gravityplay/gravity-backend/internal/entity"
	"github.com/gravityplay/gravity-backend/internal/service"
)

type gameManager interface {
	CreateGuest(ctx context.Context) (*entity.User, error)
	Disconnect(ctx context.Context, userID string)
	Lobby(ctx context.Context) (*service.Lobby, error)
	CreateRoom(ctx context.Context, userID, name string, gameType entity.GameType, vsBot bool, preferredColor string) (*entity.Room, error)
	JoinRoom(ctx context.Context, userID, roomID string) (*entity.Room, error)
	SetReady(roomID, userID string, ready bool) error
	LeaveRoom(ctx context.Context, userID, roomID string) error
	SubmitMove(roomID, userID string, move entity.Move) bool
}

type Server struct {
	logger   *slog.Logger
	manager  gameManager
	hub      *Hub
	upgrader websocket.Upgrader
	handlers map[string]func(ctx context.Context, cl *client, msg *Message) error
}

func New(logger *slog.Logger, manager gameManager, hub *Hub) *Server {
	server := &Server{
		logger:  logger.With("component", "websocket"),
		manager: manager,
		hub:     hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		handlers: make(map[string]func(context.Context, *client, *Message) error),
	}

	server.handlers["login"] = server.handleLogin
	server.handlers["lobby:state"] = server.handleLobbyState
	server.handlers["room:create"] = server.handleCreateRoom
	server.handlers["room:join"] = server.handleJoinRoom
	server.handlers["room:ready"] = server.handleReady
	server.handlers["room:move"] = server.handleMove
	server.handlers["room:leave"] = server.handleLeaveRoom

	return server
}

// Start runs the WebSocket server until the context is canceled.
func (that *Server) Start(ctx context.Context, port string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", that.serveWS)

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: mux,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

func (that *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "serveWS")

	conn, err := that.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	cl := newClient(conn)
	that.hub.register(cl)

	log.Info("connection established", "remoteAddr", r.RemoteAddr)

	go cl.writePump()
	that.readLoop(r.Context(), cl)

	that.hub.unregister(cl)
	cl.close()

	if userID := cl.user(); userID != "" {
		that.manager.Disconnect(context.Background(), userID)
	}
}

// readLoop reads frames until the connection dies, dispatching each action
// to its handler. Handler errors are reported back on the same action.
func (that *Server) readLoop(ctx context.Context, cl *client) {
	log := that.logger.With("method", "readLoop")

	cl.conn.SetReadLimit(maxMessageSize)
	_ = cl.conn.SetReadDeadline(time.Now().Add(pongWait))
	cl.conn.SetPongHandler(func(string) error {
		return cl.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := cl.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Warn("connection closed unexpectedly", "error", err)
			}
			return
		}

		var message Message
		if err := json.Unmarshal(raw, &message); err != nil {
			log.Warn("failed to unmarshal message", "error", err)
			continue
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			log.Warn("unknown action", "action", message.Action)
			continue
		}

		if err := handler(ctx, cl, &message); err != nil {
			log.Error("failed to handle message", "action", message.Action, "error", err)
			that.sendError(cl, message.Action, err)
		}
	}
}

func (that *Server) send(cl *client, action string, payload any) error {
	message, err := envelope(action, payload)
	if err != nil {
		return fmt.Errorf("failed to marshal response: %w", err)
	}

	cl.enqueue(message)
	return nil
}

func (that *Server) sendError(cl *client, action string, err error) {
	message, marshalErr := envelope(action, ErrorPayload{Error: err.Error()})
	if marshalErr != nil {
		return
	}

	cl.enqueue(message)
}
