package model

import "errors"

var (
	// ErrNotFound is returned when a document or list entry does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateKey is returned when an entity with the same key is already listed.
	ErrDuplicateKey = errors.New("duplicate key")
	// ErrInvalidInput is returned when an entity fails validation.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnsupportedImage is returned for blobs that are not images.
	ErrUnsupportedImage = errors.New("unsupported image type")
)
