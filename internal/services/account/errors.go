package account

import "errors"

// ErrRequestPending is returned when the same request is already in flight
var ErrRequestPending = errors.New("request already in progress")
