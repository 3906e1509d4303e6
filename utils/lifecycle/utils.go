// Package lifecycle runs a worker's Step loop on its own goroutine and
// coordinates starting, stopping and the terminal error.
package lifecycle

import "errors"

// Instance is anything with a name and a cleanup hook.
type Instance interface {
	Close_()
	String() string
}

// AsyncInstance is an Instance driven by repeated Step calls. Step returns
// BreakError to stop cleanly; any other error stops the loop and becomes
// the manager's Err.
type AsyncInstance interface {
	Instance
	Step(stopChan <-chan struct{}) error
}

// Manager starts and closes an Instance exactly once.
type Manager[T Instance] interface {
	Start(func(T) error) error
	Close()
}

// AsyncManager is a Manager for an AsyncInstance.
type AsyncManager[T AsyncInstance] interface {
	Manager[T]
	Done() <-chan struct{}
	Err() error
}

type BreakError struct{}

func (*BreakError) Error() string {
	return "break"
}

type StartedAlreadyError struct{}

func (*StartedAlreadyError) Error() string {
	return "started already"
}

type StartedAfterCloseError struct{}

func (*StartedAfterCloseError) Error() string {
	return "start after close"
}

// ErrPanic is reported by Err when Step panicked.
var ErrPanic = errors.New("lifecycle: step panicked")

