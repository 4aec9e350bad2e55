package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// WorkerRegistrar installs the network-interception worker.
type WorkerRegistrar interface {
	// Register installs the worker script found at scriptURL and returns its registration.
	Register(ctx context.Context, scriptURL string) (*Registration, error)
}

// Registration describes an installed interception worker.
type Registration struct {
	ID           uuid.UUID `json:"id"`            // Unique identifier of the registration
	ScriptURL    string    `json:"script_url"`    // Script the worker runs
	Scope        string    `json:"scope"`         // Path scope the worker controls
	RegisteredAt time.Time `json:"registered_at"` // When the registration was created
}
