package snapshot_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rpggio/watertrack/internal/domain/activity"
	"github.com/rpggio/watertrack/internal/domain/profile"
	"github.com/rpggio/watertrack/internal/repository/mocks"
	"github.com/rpggio/watertrack/internal/snapshot"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type memState struct {
	st         snapshot.State
	replaced   int
	replaceErr error
}

func (m *memState) Snapshot(context.Context) (snapshot.State, error) {
	return m.st, nil
}

func (m *memState) Replace(_ context.Context, st snapshot.State) error {
	if m.replaceErr != nil {
		return m.replaceErr
	}
	m.st = st
	m.replaced++
	return nil
}

func newSerializer(state *memState) *snapshot.Serializer {
	return snapshot.NewSerializer(state, state, nil, nil)
}

func TestSerializer_ExportImport(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "backup.json")

	source := &memState{st: aliceState()}
	require.NoError(t, newSerializer(source).Export(ctx, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	want, err := snapshot.Encode(aliceState())
	require.NoError(t, err)
	require.Equal(t, string(want), string(data))

	target := &memState{st: snapshot.State{Profile: &profile.Profile{Name: "Other", Unit: profile.UnitOZ, TargetML: 900}}}
	imported, err := newSerializer(target).Import(ctx, path)
	require.NoError(t, err)
	requireSameState(t, aliceState(), imported)
	requireSameState(t, aliceState(), target.st)
	require.Equal(t, 1, target.replaced)
}

func TestSerializer_ExportOverwrites(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "backup.json")
	require.NoError(t, os.WriteFile(path, []byte("stale contents that are much longer than nothing"), 0o644))

	st := aliceState()
	st.Records = st.Records[:1]
	require.NoError(t, newSerializer(&memState{st: st}).Export(ctx, path))

	got, err := snapshot.ReadFile(path)
	require.NoError(t, err)
	requireSameState(t, st, got)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1, "temporary files must not be left behind")
}

func TestSerializer_ExportWithoutProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backup.json")

	err := newSerializer(&memState{}).Export(context.Background(), path)
	require.ErrorIs(t, err, snapshot.ErrNoProfile)
	require.NoFileExists(t, path)
}

func TestSerializer_ExportIOError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "backup.json")

	err := newSerializer(&memState{st: aliceState()}).Export(context.Background(), path)
	require.ErrorIs(t, err, snapshot.ErrIO)
}

func TestSerializer_ImportFailuresLeaveStateUntouched(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	doc, err := snapshot.Encode(aliceState())
	require.NoError(t, err)

	tampered := []byte(string(doc))
	tampered[len(`{"profile":{"name":"A`)] = 'B'

	noProfile, err := snapshot.Encode(snapshot.State{Records: aliceState().Records})
	require.NoError(t, err)

	cases := []struct {
		name    string
		content []byte
		want    error
	}{
		{name: "tampered", content: tampered, want: snapshot.ErrIntegrity},
		{name: "truncated", content: doc[:40], want: snapshot.ErrParse},
		{name: "no profile", content: noProfile, want: snapshot.ErrParse},
		{name: "missing file", want: snapshot.ErrIO},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(dir, tc.name+".json")
			if tc.content != nil {
				require.NoError(t, os.WriteFile(path, tc.content, 0o644))
			}

			original := snapshot.State{Profile: &profile.Profile{Name: "Keep", Unit: profile.UnitML, TargetML: 1500}}
			target := &memState{st: original}

			_, err := newSerializer(target).Import(ctx, path)
			require.ErrorIs(t, err, tc.want)
			require.Zero(t, target.replaced)
			requireSameState(t, original, target.st)
		})
	}
}

func TestSerializer_ImportSinkError(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "backup.json")
	require.NoError(t, newSerializer(&memState{st: aliceState()}).Export(ctx, path))

	boom := errors.New("disk full")
	_, err := newSerializer(&memState{replaceErr: boom}).Import(ctx, path)
	require.ErrorIs(t, err, boom)
}

func TestSerializer_LogsActivity(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "backup.json")

	activities := &mocks.ActivityRepository{}
	activities.On("Log", ctx, mock.MatchedBy(func(e *activity.ActivityEntry) bool {
		return e.ActivityType == activity.TypeDataExported &&
			e.Summary == "exported 2 records" &&
			e.Details == "path="+path
	})).Return(nil).Once()
	activities.On("Log", ctx, mock.MatchedBy(func(e *activity.ActivityEntry) bool {
		return e.ActivityType == activity.TypeDataImported &&
			e.Summary == "imported 2 records for Alice" &&
			e.Details == "path="+path
	})).Return(nil).Once()

	state := &memState{st: aliceState()}
	svc := snapshot.NewSerializer(state, state, activities, nil)
	require.NoError(t, svc.Export(ctx, path))
	_, err := svc.Import(ctx, path)
	require.NoError(t, err)

	activities.AssertExpectations(t)
}

func TestSerializer_Reset(t *testing.T) {
	ctx := context.Background()
	state := &memState{st: aliceState()}

	activities := &mocks.ActivityRepository{}
	activities.On("Log", ctx, mock.MatchedBy(func(e *activity.ActivityEntry) bool {
		return e.ActivityType == activity.TypeDataCleared
	})).Return(nil).Once()

	require.NoError(t, snapshot.NewSerializer(state, state, activities, nil).Reset(ctx))
	require.Nil(t, state.st.Profile)
	require.NotNil(t, state.st.Records)
	require.Empty(t, state.st.Records)
	activities.AssertExpectations(t)
}
