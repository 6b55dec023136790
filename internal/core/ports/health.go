package ports

import "context"

// HealthChecker reports whether an optional backing store is reachable.
type HealthChecker interface {
	// Ping returns nil when the store answers.
	Ping(ctx context.Context) error
	// Name is the label used in the /health report, e.g. "postgresql".
	Name() string
}
