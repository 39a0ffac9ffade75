package notify

import "context"

// Notifier delivers a run summary to one destination.
type Notifier interface {
	Notify(ctx context.Context, message string) error
}
