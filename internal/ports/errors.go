package ports

import "errors"

// ErrNotFound is returned by repositories when no record has the given id.
var ErrNotFound = errors.New("record not found")
