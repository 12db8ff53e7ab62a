package repos

import "errors"

// ErrNotFound is returned by writes that matched no row.
var ErrNotFound = errors.New("not found")
