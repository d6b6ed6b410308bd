package audit

import "context"

// Repository describes audit persistence needs.
type Repository interface {
	Insert(ctx context.Context, e Entry) error
	List(ctx context.Context, limit int) ([]Entry, error)
}

// Recorder accepts entries without blocking the caller. Implementations
// deliver best-effort in the background.
type Recorder interface {
	Record(ctx context.Context, e Entry)
}
