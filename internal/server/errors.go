package server

import "errors"

// Server-specific errors
var (
	ErrServerClosed      = errors.New("server is closed")
	ErrMaxClientsReached = errors.New("maximum viewers reached")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrInvalidMessage    = errors.New("invalid message")
	ErrUnknownCommand    = errors.New("unknown command")
	ErrQueueFull         = errors.New("command queue full")
)
