package lifecycle

import (
	"errors"
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/ugparu/goflv/utils/logger"
)

type asyncLifecycleManager[T AsyncInstance] struct {
	instance             T
	stopChan, doneChan   chan struct{}
	startOnce, closeOnce *sync.Once
	mu                   sync.Mutex
	err                  error
}

// NewAsyncManager wraps instance. The loop starts with Start and ends when
// Step fails, returns BreakError or Close is called.
func NewAsyncManager[T AsyncInstance](instance T) AsyncManager[T] {
	return &asyncLifecycleManager[T]{
		instance:  instance,
		stopChan:  make(chan struct{}),
		doneChan:  make(chan struct{}),
		startOnce: &sync.Once{},
		closeOnce: &sync.Once{},
	}
}

func (ssc *asyncLifecycleManager[T]) Start(startFunc func(T) error) (err error) {
	select {
	case <-ssc.stopChan:
		return &StartedAfterCloseError{}
	default:
		err = &StartedAlreadyError{}
	}
	ssc.startOnce.Do(func() {
		logger.Debugf(ssc.instance, "Starting async")
		if err = startFunc(ssc.instance); err != nil {
			ssc.setErr(err)
			close(ssc.doneChan)
			return
		}
		go ssc.process()
	})
	return err
}

func (ssc *asyncLifecycleManager[T]) process() {
	logger.Debug(ssc.instance, "Entering main loop")

	defer close(ssc.doneChan)
	running := true
	for running {
		func() {
			defer func() {
				if r := recover(); r != nil {
					logger.Errorf(ssc.instance, "Panic detected! Recovering from: %v", r)
					logger.Errorf(ssc.instance, "%s", debug.Stack())
					ssc.setErr(fmt.Errorf("%w: %v", ErrPanic, r))
					running = false
				}
			}()
			if err := ssc.instance.Step(ssc.stopChan); err != nil {
				var brk *BreakError
				if !errors.As(err, &brk) {
					logger.Warningf(ssc.instance, "Detected error: %s", err.Error())
					ssc.setErr(err)
				}
				running = false
			}
		}()
	}
}

func (ssc *asyncLifecycleManager[T]) setErr(err error) {
	ssc.mu.Lock()
	defer ssc.mu.Unlock()
	if ssc.err == nil {
		ssc.err = err
	}
}

// Err returns the error that ended the loop, nil after a clean stop.
func (ssc *asyncLifecycleManager[T]) Err() error {
	ssc.mu.Lock()
	defer ssc.mu.Unlock()
	return ssc.err
}

func (ssc *asyncLifecycleManager[T]) Close() {
	ssc.closeOnce.Do(func() {
		close(ssc.stopChan)
		ssc.startOnce.Do(func() {
			close(ssc.doneChan)
		})
		<-ssc.doneChan
		ssc.instance.Close_()
	})
}

func (ssc *asyncLifecycleManager[T]) Done() <-chan struct{} {
	return ssc.doneChan
}
