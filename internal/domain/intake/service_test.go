package intake_test

import (
	"context"
	"testing"
	"time"

	"github.com/rpggio/watertrack/internal/domain/activity"
	"github.com/rpggio/watertrack/internal/domain/intake"
	"github.com/rpggio/watertrack/internal/repository"
	"github.com/rpggio/watertrack/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func newService(records *mocks.IntakeRepository, targets *mocks.TargetProvider, activities *mocks.ActivityRepository) *intake.Service {
	var tp intake.TargetProvider
	if targets != nil {
		tp = targets
	}
	var ar intake.ActivityRepository
	if activities != nil {
		ar = activities
	}
	return intake.NewService(records, tp, ar, intake.DefaultLimits(), nil).
		WithClock(func() time.Time { return fixedNow }, time.UTC)
}

func todayOptions() intake.ListOptions {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 1).Add(-time.Millisecond)
	return intake.ListOptions{From: &from, To: &to}
}

func TestIntakeService_Add(t *testing.T) {
	ctx := context.Background()

	records := &mocks.IntakeRepository{}
	activities := &mocks.ActivityRepository{}
	records.On("List", ctx, todayOptions()).Return([]intake.Record{{ID: "a", VolumeML: 300}}, nil)
	records.On("Create", ctx, mock.Anything).Return(nil)
	activities.On("Log", ctx, mock.MatchedBy(func(e *activity.ActivityEntry) bool {
		return e.ActivityType == activity.TypeIntakeAdded &&
			e.Summary == "added 250 ml" &&
			e.Details == "timestamp=2024-01-01T12:00:00Z note=morning"
	})).Return(nil)

	svc := newService(records, nil, activities)
	rec, err := svc.Add(ctx, intake.AddRequest{VolumeML: 250, Note: "  morning  "})
	require.NoError(t, err)
	require.NotEmpty(t, rec.ID)
	require.Equal(t, 250, rec.VolumeML)
	require.Equal(t, "morning", rec.Note)
	require.Equal(t, fixedNow, rec.Timestamp)
	records.AssertExpectations(t)
	activities.AssertExpectations(t)
}

func TestIntakeService_AddValidation(t *testing.T) {
	ctx := context.Background()
	svc := newService(&mocks.IntakeRepository{}, nil, nil)

	_, err := svc.Add(ctx, intake.AddRequest{VolumeML: 0})
	require.ErrorIs(t, err, intake.ErrInvalidInput)

	_, err = svc.Add(ctx, intake.AddRequest{VolumeML: 2500})
	require.ErrorIs(t, err, intake.ErrSingleIntakeTooLarge)

	zero := time.Time{}
	_, err = svc.Add(ctx, intake.AddRequest{VolumeML: 200, Timestamp: &zero})
	require.ErrorIs(t, err, intake.ErrInvalidInput)
}

func TestIntakeService_TimestampYearOutOfRange(t *testing.T) {
	ctx := context.Background()

	lateZone := time.FixedZone("UTC-10", -10*60*60)
	earlyZone := time.FixedZone("UTC+10", 10*60*60)
	cases := map[string]time.Time{
		"rolls into year 10000": time.Date(9999, 12, 31, 23, 59, 59, 0, lateZone),
		"rolls before year 0":   time.Date(0, 1, 1, 5, 0, 0, 0, earlyZone),
		"year 12000":            time.Date(12000, 6, 1, 0, 0, 0, 0, time.UTC),
	}
	for name, ts := range cases {
		t.Run(name, func(t *testing.T) {
			records := &mocks.IntakeRepository{}
			svc := newService(records, nil, nil)

			_, err := svc.Add(ctx, intake.AddRequest{VolumeML: 250, Timestamp: &ts})
			require.ErrorIs(t, err, intake.ErrInvalidInput)
			records.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}

	t.Run("update", func(t *testing.T) {
		records := &mocks.IntakeRepository{}
		records.On("Get", ctx, "r1").Return(&intake.Record{ID: "r1", Timestamp: fixedNow, VolumeML: 250}, nil)
		svc := newService(records, nil, nil)

		ts := cases["rolls into year 10000"]
		_, err := svc.Update(ctx, intake.UpdateRequest{ID: "r1", Timestamp: &ts})
		require.ErrorIs(t, err, intake.ErrInvalidInput)
		records.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("last representable instant", func(t *testing.T) {
		ts := time.Date(9999, 12, 31, 23, 59, 59, 999_000_000, time.UTC)
		require.NoError(t, intake.ValidateTimestamp(ts))
	})
}

func TestIntakeService_AddDailyLimit(t *testing.T) {
	ctx := context.Background()

	records := &mocks.IntakeRepository{}
	records.On("List", ctx, todayOptions()).Return([]intake.Record{
		{ID: "a", VolumeML: 2000},
		{ID: "b", VolumeML: 2000},
		{ID: "c", VolumeML: 2000},
		{ID: "d", VolumeML: 1900},
	}, nil)

	svc := newService(records, nil, nil)
	_, err := svc.Add(ctx, intake.AddRequest{VolumeML: 200})
	require.ErrorIs(t, err, intake.ErrDailyLimitExceeded)
	records.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestIntakeService_UpdateKeepsTimestamp(t *testing.T) {
	ctx := context.Background()
	ts := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)

	records := &mocks.IntakeRepository{}
	records.On("Get", ctx, "r1").Return(&intake.Record{ID: "r1", Timestamp: ts, VolumeML: 250}, nil)
	records.On("List", ctx, todayOptions()).Return([]intake.Record{{ID: "r1", VolumeML: 250}}, nil)
	records.On("Update", ctx, mock.Anything).Return(nil)

	svc := newService(records, nil, nil)
	volume := 400
	note := "bigger glass"
	rec, err := svc.Update(ctx, intake.UpdateRequest{ID: "r1", VolumeML: &volume, Note: &note})
	require.NoError(t, err)
	require.Equal(t, 400, rec.VolumeML)
	require.Equal(t, "bigger glass", rec.Note)
	require.Equal(t, ts, rec.Timestamp)
}

func TestIntakeService_UpdateNotFound(t *testing.T) {
	ctx := context.Background()

	records := &mocks.IntakeRepository{}
	records.On("Get", ctx, "missing").Return((*intake.Record)(nil), repository.ErrNotFound)

	svc := newService(records, nil, nil)
	volume := 100
	_, err := svc.Update(ctx, intake.UpdateRequest{ID: "missing", VolumeML: &volume})
	require.ErrorIs(t, err, intake.ErrRecordNotFound)
}

func TestIntakeService_Delete(t *testing.T) {
	ctx := context.Background()

	records := &mocks.IntakeRepository{}
	records.On("Delete", ctx, "r1").Return(nil)
	records.On("Delete", ctx, "missing").Return(repository.ErrNotFound)

	svc := newService(records, nil, nil)
	require.NoError(t, svc.Delete(ctx, "r1"))
	require.ErrorIs(t, svc.Delete(ctx, "missing"), intake.ErrRecordNotFound)
	require.ErrorIs(t, svc.Delete(ctx, ""), intake.ErrInvalidInput)
}

func TestIntakeService_ListRangeIncludesEndDate(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2024, 1, 1, 15, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 3, 9, 0, 0, 0, time.UTC)

	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC).Add(-time.Millisecond)

	records := &mocks.IntakeRepository{}
	records.On("List", ctx, intake.ListOptions{From: &from, To: &to}).Return([]intake.Record{}, nil)

	svc := newService(records, nil, nil)
	_, err := svc.ListRange(ctx, start, end)
	require.NoError(t, err)
	records.AssertExpectations(t)

	_, err = svc.ListRange(ctx, end, start)
	require.ErrorIs(t, err, intake.ErrInvalidInput)
}

func TestIntakeService_ListRecent(t *testing.T) {
	ctx := context.Background()
	from := fixedNow.Add(-7 * 24 * time.Hour)
	to := fixedNow

	records := &mocks.IntakeRepository{}
	records.On("List", ctx, intake.ListOptions{From: &from, To: &to}).Return([]intake.Record{}, nil)

	svc := newService(records, nil, nil)
	_, err := svc.ListRecent(ctx, 7)
	require.NoError(t, err)

	_, err = svc.ListRecent(ctx, 0)
	require.ErrorIs(t, err, intake.ErrInvalidInput)

	_, err = svc.ListRecent(ctx, intake.MaxRecentDays+1)
	require.ErrorIs(t, err, intake.ErrInvalidInput)
	_, err = svc.ListRecent(ctx, 200000)
	require.ErrorIs(t, err, intake.ErrInvalidInput)
	records.AssertNumberOfCalls(t, "List", 1)
}

func TestIntakeService_Status(t *testing.T) {
	ctx := context.Background()

	records := &mocks.IntakeRepository{}
	targets := &mocks.TargetProvider{}
	records.On("List", ctx, todayOptions()).Return([]intake.Record{
		{ID: "a", VolumeML: 250},
		{ID: "b", VolumeML: 300},
	}, nil)
	targets.On("DailyTarget", ctx).Return(2000, nil)

	svc := newService(records, targets, nil)
	status, err := svc.Status(ctx)
	require.NoError(t, err)
	require.Equal(t, 550, status.ConsumedML)
	require.Equal(t, 2000, status.TargetML)
	require.Equal(t, 1450, status.RemainingML)
	require.Equal(t, 2, status.Records)
	require.InDelta(t, 0.275, status.Progress, 1e-9)
}

func TestProgress(t *testing.T) {
	require.Zero(t, intake.Progress(500, 0))
	require.Zero(t, intake.Progress(0, 2000))
	require.InDelta(t, 0.5, intake.Progress(1000, 2000), 1e-9)
	require.Equal(t, 1.0, intake.Progress(2500, 2000))
}

func TestListOptionsIncludes(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	opts := intake.ListOptions{From: &from, To: &to}

	require.True(t, opts.Includes(from))
	require.True(t, opts.Includes(to))
	require.False(t, opts.Includes(to.Add(time.Millisecond)))
	require.True(t, intake.ListOptions{}.Includes(time.Time{}))
}
