package domain

import "errors"

var (
	ErrUnknownSpread     = errors.New("unknown spread")
	ErrDeckTooSmall      = errors.New("deck has fewer cards than the spread has slots")
	ErrSessionIDRequired = errors.New("session_id is required")
)
