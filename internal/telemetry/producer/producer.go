// Package producer publishes lifecycle events to a message broker.
package producer

import "craftconnect/backend/internal/telemetry"

// Producer emits lifecycle events. Callers use it best-effort: log and ignore errors.
type Producer interface {
	telemetry.EventEmitter
	// Close releases resources (e.g. Kafka writer). Safe to call if already closed.
	Close() error
}
