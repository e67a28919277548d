package repository

import "errors"

// ErrStaleVersion is returned when a guarded update matched no row because the
// record changed since it was read.
var ErrStaleVersion = errors.New("record was modified concurrently")
