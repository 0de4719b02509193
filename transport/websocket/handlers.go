package websocket

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gravityplay/gravity-backend/internal/apperror"
	"github.com/gravityplay/gravity-backend/internal/entity"
)

func (that *Server) handleLogin(ctx context.Context, cl *client, msg *Message) error {
	if cl.user() != "" {
		return nil
	}

	user, err := that.manager.CreateGuest(ctx)
	if err != nil {
		return fmt.Errorf("failed to create guest: %w", err)
	}

	cl.setUser(user.ID)

	that.logger.Info("guest logged in", "userID", user.ID, "nickname", user.Nickname)

	return that.send(cl, msg.Action, LoginResponse{User: user})
}

func (that *Server) handleLobbyState(ctx context.Context, cl *client, msg *Message) error {
	if cl.user() == "" {
		return apperror.ErrNotAuthenticated
	}

	lobby, err := that.manager.Lobby(ctx)
	if err != nil {
		return fmt.Errorf("failed to collect lobby state: %w", err)
	}

	return that.send(cl, msg.Action, lobby)
}

func (that *Server) handleCreateRoom(ctx context.Context, cl *client, msg *Message) error {
	userID := cl.user()
	if userID == "" {
		return apperror.ErrNotAuthenticated
	}

	var payload CreateRoomPayload
	if len(msg.Payload) > 0 {
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return fmt.Errorf("failed to unmarshal payload: %w", err)
		}
	}

	room, err := that.manager.CreateRoom(ctx, userID, payload.Name, entity.GameType(payload.GameType), payload.VsBot, payload.Color)
	if err != nil {
		return err
	}

	return that.send(cl, msg.Action, room)
}

func (that *Server) handleJoinRoom(ctx context.Context, cl *client, msg *Message) error {
	userID := cl.user()
	if userID == "" {
		return apperror.ErrNotAuthenticated
	}

	var payload JoinRoomPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	room, err := that.manager.JoinRoom(ctx, userID, payload.RoomID)
	if err != nil {
		return err
	}

	return that.send(cl, msg.Action, room)
}

func (that *Server) handleReady(_ context.Context, cl *client, msg *Message) error {
	userID := cl.user()
	if userID == "" {
		return apperror.ErrNotAuthenticated
	}

	var payload ReadyPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	return that.manager.SetReady(payload.RoomID, userID, payload.Ready)
}

// handleMove forwards the move and stays silent on rejection: out-of-turn
// and illegal moves are dropped without a reply.
func (that *Server) handleMove(_ context.Context, cl *client, msg *Message) error {
	userID := cl.user()
	if userID == "" {
		return apperror.ErrNotAuthenticated
	}

	var payload MovePayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	that.manager.SubmitMove(payload.RoomID, userID, payload.Move)

	return nil
}

func (that *Server) handleLeaveRoom(ctx context.Context, cl *client, msg *Message) error {
	userID := cl.user()
	if userID == "" {
		return apperror.ErrNotAuthenticated
	}

	var payload LeavePayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	return that.manager.LeaveRoom(ctx, userID, payload.RoomID)
}
