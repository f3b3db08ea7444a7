package storage

import "errors"

var (
	ErrKeyNotFound   = errors.New("key not found")
	ErrTokenNotFound = errors.New("token not found")
	ErrClosed        = errors.New("storage closed")
)
