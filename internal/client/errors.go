package client

import "errors"

// Every error returned by Booker and RemoteStore wraps exactly one of these.
var (
	ErrValidation = errors.New("invalid booking request")
	ErrCapacity   = errors.New("no bookings left for that day")
	ErrConflict   = errors.New("that time is already booked")
	ErrTransport  = errors.New("booking store unreachable")
	ErrNotFound   = errors.New("no booking matches those details")
	ErrRejected   = errors.New("booking store rejected the request")
)
