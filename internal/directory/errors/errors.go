package errors

import "errors"

var (
	ErrUserNotFound = errors.New("user not found")

	ErrGuideNotFound = errors.New("guide not found")
)
