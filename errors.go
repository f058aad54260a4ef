package genvec

import "github.com/pkg/errors"

// ErrStaleIndex is returned when value is written using an index which is no longer valid.
var ErrStaleIndex = errors.New("stale index")
