package apperror

import "errors"

var (
	ErrNotAuthenticated = errors.New("no session for this connection")
	ErrRoomNotFound     = errors.New("room not found")
	ErrInvalidMove      = errors.New("invalid move")
	ErrUnknownGameType  = errors.New("unknown game type")
)
