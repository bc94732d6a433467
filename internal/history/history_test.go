package history

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conduit-lang/eventc/internal/compiler/codegen"
	"github.com/conduit-lang/eventc/internal/compiler/errors"
)

func newMockStore(t *testing.T, driver string) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewStore(db, driver), mock
}

func TestNewRun(t *testing.T) {
	result := codegen.Result{
		Name:   "Level",
		Failed: true,
		Diagnostics: errors.ErrorList{
			errors.NewUnknownInstruction(errors.Location{Scene: "Level"}, "action", "Nope"),
			errors.NewUnknownVariable(errors.Location{Scene: "Level"}, "Ghost"),
		},
	}
	started := time.Now()

	run := NewRun("Game", "js", result, []string{"Sprite"}, started, 15*time.Millisecond)
	assert.NotEqual(t, uuid.Nil, run.ID)
	assert.Equal(t, "Level", run.Scene)
	assert.False(t, run.Success)
	assert.Equal(t, 1, run.ErrorCount)
	assert.Equal(t, 1, run.WarningCount)
	assert.Equal(t, []string{"Sprite"}, run.Extensions)
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open("mysql", "dsn")
	assert.Error(t, err)
}

func TestStore_Initialize(t *testing.T) {
	store, mock := newMockStore(t, DriverPostgres)
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS generation_runs").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, store.Initialize(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Record(t *testing.T) {
	tests := []struct {
		driver string
		values string
	}{
		{DriverPostgres, "VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)"},
		{DriverPgx, "VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)"},
		{DriverSQLite, "VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"},
	}

	for _, tt := range tests {
		t.Run(tt.driver, func(t *testing.T) {
			store, mock := newMockStore(t, tt.driver)
			run := &Run{
				Project:    "Game",
				Scene:      "Level",
				Backend:    "js",
				StartedAt:  time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
				Duration:   1500 * time.Millisecond,
				Success:    true,
				Extensions: []string{"Sprite", "TextObject"},
			}

			mock.ExpectExec(regexp.QuoteMeta(tt.values)).
				WithArgs(sqlmock.AnyArg(), "Game", "Level", "js", run.StartedAt, int64(1500), true, 0, 0, "Sprite,TextObject").
				WillReturnResult(sqlmock.NewResult(1, 1))

			require.NoError(t, store.Record(context.Background(), run))
			assert.NotEqual(t, uuid.Nil, run.ID)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestStore_RecordError(t *testing.T) {
	store, mock := newMockStore(t, DriverPostgres)
	mock.ExpectExec("INSERT INTO generation_runs").WillReturnError(assert.AnError)

	err := store.Record(context.Background(), &Run{Scene: "Level"})
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestStore_List(t *testing.T) {
	store, mock := newMockStore(t, DriverPostgres)
	id := uuid.New()
	started := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"id", "project", "scene", "backend", "started_at", "duration_ms", "success", "error_count", "warning_count", "extensions"}).
		AddRow(id.String(), "Game", "Level", "native", started, int64(250), false, 2, 1, "").
		AddRow(uuid.NewString(), "Game", "Menu", "js", started.Add(-time.Minute), int64(10), true, 0, 0, "Sprite")
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY started_at DESC\nLIMIT $1")).
		WithArgs(2).
		WillReturnRows(rows)

	runs, err := store.List(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, id, runs[0].ID)
	assert.Equal(t, 250*time.Millisecond, runs[0].Duration)
	assert.False(t, runs[0].Success)
	assert.Equal(t, 2, runs[0].ErrorCount)
	assert.Nil(t, runs[0].Extensions)
	assert.Equal(t, []string{"Sprite"}, runs[1].Extensions)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_ListInvalidID(t *testing.T) {
	store, mock := newMockStore(t, DriverPostgres)
	rows := sqlmock.NewRows([]string{"id", "project", "scene", "backend", "started_at", "duration_ms", "success", "error_count", "warning_count", "extensions"}).
		AddRow("not-a-uuid", "Game", "Level", "js", time.Now(), int64(1), true, 0, 0, "")
	mock.ExpectQuery("SELECT id, project, scene").WillReturnRows(rows)

	_, err := store.List(context.Background(), 0)
	assert.Error(t, err)
}

func TestStore_SQLite(t *testing.T) {
	store, err := Open(DriverSQLite, ":memory:")
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	require.NoError(t, store.Initialize(ctx))
	require.NoError(t, store.Initialize(ctx), "Initialize must be idempotent")

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	for i, scene := range []string{"Level", "Menu", "Level"} {
		require.NoError(t, store.Record(ctx, &Run{
			Project:    "Game",
			Scene:      scene,
			Backend:    "js",
			StartedAt:  base.Add(time.Duration(i) * time.Minute),
			Duration:   time.Duration(i+1) * time.Second,
			Success:    i != 1,
			ErrorCount: i,
			Extensions: []string{"Sprite"},
		}))
	}

	runs, err := store.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, "Level", runs[0].Scene)
	assert.Equal(t, 3*time.Second, runs[0].Duration)
	assert.True(t, runs[0].StartedAt.Equal(base.Add(2*time.Minute)))
	assert.False(t, runs[1].Success)

	levels, err := store.ListScene(ctx, "Level", 1)
	require.NoError(t, err)
	require.Len(t, levels, 1)
	assert.Equal(t, 2, levels[0].ErrorCount)
	assert.Equal(t, []string{"Sprite"}, levels[0].Extensions)
}
