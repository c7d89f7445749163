package backend

import (
	"context"

	"budget/internal/amqp"
	"budget/internal/ports"
)

// Backend is the persistence surface the application runs on.
type Backend interface {
	ports.Store
}

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// BackendResult contains the backend instance and optional cleanup function
type BackendResult struct {
	Backend Backend
	// Events is nil when AMQP is not configured or unreachable.
	Events  *amqp.Client
	Cleanup CleanupFunc
}

// Publisher returns Events as a ports.EventPublisher, or nil without one.
func (r *BackendResult) Publisher() ports.EventPublisher {
	if r.Events == nil {
		return nil
	}
	return r.Events
}

// Factory creates backends based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}
