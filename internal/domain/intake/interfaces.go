package intake

import (
	"context"

	"github.com/rpggio/watertrack/internal/domain/activity"
)

// Repository provides persistence for intake records.
type Repository interface {
	Create(ctx context.Context, rec *Record) error
	Get(ctx context.Context, id string) (*Record, error)
	Update(ctx context.Context, rec *Record) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, opts ListOptions) ([]Record, error)
}

// TargetProvider supplies the user's daily target in milliliters.
type TargetProvider interface {
	DailyTarget(ctx context.Context) (int, error)
}

// ActivityRepository logs intake activities.
type ActivityRepository interface {
	Log(ctx context.Context, entry *activity.ActivityEntry) error
}
