package repository

import "errors"

// ErrNotFound is wrapped with the entity name by every lookup that misses,
// e.g. "task: not found".
var ErrNotFound = errors.New("not found")
