package apperrors

import "errors"

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrNotAuthorized    = errors.New("not authorized")
	ErrListenerRunning  = errors.New("listener already running")
	ErrNoListenerFound  = errors.New("no running listener found")
	ErrResponseFinished = errors.New("response already sent")
)
