package telemetry

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// emitTimeout is the max time allowed for a single async emit. Used by AsyncEmitter and by ShutdownDrainDuration.
const emitTimeout = 5 * time.Second

// ShutdownDrainDuration is how long to wait after gRPC GracefulStop before shutting down OTel providers,
// so in-flight async emits have time to complete. Must be >= emitTimeout.
const ShutdownDrainDuration = emitTimeout

// AsyncEmitter runs Emit in a goroutine with a short timeout so the caller is not blocked.
// The goroutine uses context.Background() so request cancellation does not abort an in-flight emit.
type AsyncEmitter struct {
	next   EventEmitter
	logger *zap.Logger
	wg     sync.WaitGroup
}

// NewAsyncEmitter wraps next. logger may be nil.
func NewAsyncEmitter(next EventEmitter, logger *zap.Logger) *AsyncEmitter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AsyncEmitter{next: next, logger: logger}
}

// Emit schedules the event and returns immediately. A nil receiver, emitter or event is a no-op.
func (a *AsyncEmitter) Emit(_ context.Context, event *Event) error {
	if a == nil || a.next == nil || event == nil {
		return nil
	}
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		emitCtx, cancel := context.WithTimeout(context.Background(), emitTimeout)
		defer cancel()
		if err := a.next.Emit(emitCtx, event); err != nil {
			a.logger.Warn("telemetry: async emit failed",
				zap.String("event_type", event.Type),
				zap.String("event_id", event.ID),
				zap.Error(err))
		}
	}()
	return nil
}

// Wait blocks until every scheduled emit has finished.
func (a *AsyncEmitter) Wait() {
	if a == nil {
		return
	}
	a.wg.Wait()
}
