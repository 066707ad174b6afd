package ipc

import "errors"

var (
	ErrFrameTooLarge = errors.New("ipc: frame too large")
	ErrInvalidUTF8   = errors.New("ipc: frame is not valid UTF-8")
	// ErrWorkerExited means the worker process ended before the exchange
	// was complete.
	ErrWorkerExited = errors.New("ipc: worker exited")
	ErrInvalidTask  = errors.New("ipc: invalid task")
)
