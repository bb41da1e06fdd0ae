package profile

import (
	"context"

	"github.com/rpggio/watertrack/internal/domain/activity"
)

// Repository provides persistence for the single profile.
type Repository interface {
	Get(ctx context.Context) (*Profile, error)
	Save(ctx context.Context, p *Profile) error
}

// ActivityRepository logs profile activities.
type ActivityRepository interface {
	Log(ctx context.Context, entry *activity.ActivityEntry) error
}
