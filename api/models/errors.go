package models

import "errors"

var (
	ErrInvalidPassword    = errors.New("password must be between 1 and 72 bytes")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrSelfFollow         = errors.New("users cannot follow themselves")
	ErrOwnMessage         = errors.New("users cannot like their own messages")
	ErrUserNotFound       = errors.New("user not found")
	ErrMessageNotFound    = errors.New("message not found")
	ErrInvalidResetToken  = errors.New("reset token is invalid or has expired")
)
