package gcashocr

import "errors"

// ErrNoAmount is returned when no plausible peso amount can be extracted.
var ErrNoAmount = errors.New("no amount detected")
