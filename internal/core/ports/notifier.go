package ports

import (
	"context"

	"github.com/solx/solx-api/internal/core/domain"
)

// NotificationQueue accepts notification jobs for asynchronous delivery.
type NotificationQueue interface {
	Enqueue(n domain.Notification)
}

// Notifier delivers a single notification to the outside world.
type Notifier interface {
	Deliver(ctx context.Context, n domain.Notification) error
}

// DedupChecker remembers recently handled keys.
type DedupChecker interface {
	// Claim returns true if key was not seen within the dedup window and
	// records it; false if it is a repeat.
	Claim(ctx context.Context, key string) (bool, error)
}
