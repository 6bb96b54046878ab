package domain

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidPath       = errors.New("invalid asset path")
	ErrUnsupportedMedia  = errors.New("unsupported media type")
	ErrUnknownCollection = errors.New("unknown collection")
)
