package activity

import "errors"

// ErrInvalidInput indicates an unusable activity entry.
var ErrInvalidInput = errors.New("invalid activity input")
