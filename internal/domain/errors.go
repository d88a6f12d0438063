package domain

import "errors"

// ErrNoPlace means a search ran fine but matched nothing.
var ErrNoPlace = errors.New("no place found")
