package store

import "errors"

// ErrNotFound is returned by write operations targeting a row that does not
// exist. Read operations return nil instead.
var ErrNotFound = errors.New("record not found")
