package services

import "errors"

var (
	ErrNotFound             = errors.New("not found")
	ErrForbidden            = errors.New("forbidden")
	ErrUnsupportedMediaType = errors.New("file type not allowed")
	ErrPayloadTooLarge      = errors.New("file too large")
)
