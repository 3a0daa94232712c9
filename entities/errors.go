package entities

import "errors"

// ErrNotFound is wrapped by every repository when a lookup by id misses.
var ErrNotFound = errors.New("record not found")
