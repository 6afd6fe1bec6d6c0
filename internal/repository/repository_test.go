package repository

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tgienger/todo/internal/db"
	"github.com/tgienger/todo/internal/models"
)

// ============================================================================
// Test Helpers
// ============================================================================

func setupRepository(t *testing.T) (*TodoRepository, *db.DB) {
	t.Helper()
	database, err := db.Open(context.Background(), db.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	return New(database), database
}

func nextResult(t *testing.T, ch <-chan Result) Result {
	t.Helper()
	select {
	case r, ok := <-ch:
		require.True(t, ok, "stream closed unexpectedly")
		return r
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for result")
	}
	return Result{}
}

// recordingStore captures the records handed to the store
type recordingStore struct {
	mu       sync.Mutex
	inserted []db.TodoRecord
	failWith error
}

func (s *recordingStore) ObserveAll(ctx context.Context) <-chan db.Snapshot {
	ch := make(chan db.Snapshot, 1)
	ch <- db.Snapshot{Err: s.failWith}
	close(ch)
	return ch
}

func (s *recordingStore) ObserveByCompletion(ctx context.Context, completed bool) <-chan db.Snapshot {
	return s.ObserveAll(ctx)
}

func (s *recordingStore) Get(ctx context.Context, id int64) (*db.TodoRecord, error) {
	return nil, s.failWith
}

func (s *recordingStore) Insert(ctx context.Context, rec db.TodoRecord) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inserted = append(s.inserted, rec)
	return 7, s.failWith
}

func (s *recordingStore) Update(ctx context.Context, rec db.TodoRecord) error     { return s.failWith }
func (s *recordingStore) Delete(ctx context.Context, rec db.TodoRecord) error     { return s.failWith }
func (s *recordingStore) DeleteByID(ctx context.Context, id int64) error          { return s.failWith }

// ============================================================================
// Mapping
// ============================================================================

func TestRecordDomainMapping(t *testing.T) {
	t.Parallel()

	image := "/img/a.png"
	created := time.Date(2024, 5, 1, 8, 30, 0, 250*int(time.Millisecond), time.UTC)
	updated := created.Add(time.Minute)

	tests := []struct {
		name string
		task models.Task
	}{
		{
			name: "plain task",
			task: models.Task{ID: 1, Title: "Buy milk", CreatedAt: created, UpdatedAt: created},
		},
		{
			name: "completed task with image",
			task: models.Task{
				ID:          2,
				Title:       "Walk dog",
				Description: "around the block",
				IsCompleted: true,
				ImagePath:   &image,
				CreatedAt:   created,
				UpdatedAt:   updated,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := toRecord(tt.task)
			assert.Equal(t, tt.task.CreatedAt.UnixMilli(), rec.CreatedAt)
			assert.Equal(t, tt.task.UpdatedAt.UnixMilli(), rec.UpdatedAt)
			assert.Equal(t, tt.task, toDomain(rec))
		})
	}
}

func TestToResultCarriesError(t *testing.T) {
	t.Parallel()

	boom := errors.New("disk on fire")
	r := toResult(db.Snapshot{Err: boom})
	assert.ErrorIs(t, r.Err, boom)
	assert.Nil(t, r.Tasks)
}

// ============================================================================
// Pass-through behaviour
// ============================================================================

func TestInsertTaskDropsCallerID(t *testing.T) {
	t.Parallel()

	store := &recordingStore{}
	repo := New(store)

	id, err := repo.InsertTask(context.Background(), models.Task{ID: 99, Title: "x"})
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)

	require.Len(t, store.inserted, 1)
	assert.Zero(t, store.inserted[0].ID)
}

func TestStoreErrorsPropagate(t *testing.T) {
	t.Parallel()

	boom := errors.New("write rejected")
	repo := New(&recordingStore{failWith: boom})
	ctx := context.Background()

	_, err := repo.InsertTask(ctx, models.Task{Title: "x"})
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, repo.UpdateTask(ctx, models.Task{ID: 1}), boom)
	assert.ErrorIs(t, repo.DeleteTask(ctx, models.Task{ID: 1}), boom)
	assert.ErrorIs(t, repo.DeleteTaskByID(ctx, 1), boom)

	task, err := repo.GetTask(ctx, 1)
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, task)

	r := nextResult(t, repo.GetAllTasks(ctx))
	assert.ErrorIs(t, r.Err, boom)
}

// ============================================================================
// Against SQLite
// ============================================================================

func TestRoundTrip(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	repo, _ := setupRepository(t)

	now := time.Date(2024, 5, 1, 8, 30, 0, 0, time.UTC)
	id, err := repo.InsertTask(ctx, models.NewTask("Buy milk", "", nil, now))
	require.NoError(t, err)

	r := nextResult(t, repo.GetAllTasks(ctx))
	require.NoError(t, r.Err)
	require.Len(t, r.Tasks, 1)

	got := r.Tasks[0]
	assert.Equal(t, id, got.ID)
	assert.Equal(t, "Buy milk", got.Title)
	assert.Empty(t, got.Description)
	assert.Nil(t, got.ImagePath)
	assert.False(t, got.IsCompleted)
	assert.True(t, got.CreatedAt.Equal(now))
	assert.True(t, got.UpdatedAt.Equal(got.CreatedAt))

	single, err := repo.GetTask(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, got, *single)
}

func TestGetTaskMissing(t *testing.T) {
	repo, _ := setupRepository(t)

	task, err := repo.GetTask(context.Background(), 404)
	assert.NoError(t, err)
	assert.Nil(t, task)
}

func TestUpdateMissingTask(t *testing.T) {
	repo, _ := setupRepository(t)

	err := repo.UpdateTask(context.Background(), models.Task{ID: 404, Title: "ghost"})
	assert.ErrorIs(t, err, db.ErrNotFound)
}

func TestDeleteTaskByIDTwice(t *testing.T) {
	ctx := context.Background()
	repo, _ := setupRepository(t)

	id, err := repo.InsertTask(ctx, models.NewTask("temp", "", nil, time.Now()))
	require.NoError(t, err)

	assert.NoError(t, repo.DeleteTaskByID(ctx, id))
	assert.NoError(t, repo.DeleteTaskByID(ctx, id))
}

func TestGetTasksByStatus(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	repo, _ := setupRepository(t)

	now := time.Date(2024, 5, 1, 8, 30, 0, 0, time.UTC)
	done := models.NewTask("done", "", nil, now)
	done.IsCompleted = true
	_, err := repo.InsertTask(ctx, done)
	require.NoError(t, err)
	_, err = repo.InsertTask(ctx, models.NewTask("open", "", nil, now.Add(time.Second)))
	require.NoError(t, err)

	r := nextResult(t, repo.GetTasksByStatus(ctx, true))
	require.NoError(t, r.Err)
	require.Len(t, r.Tasks, 1)
	assert.Equal(t, "done", r.Tasks[0].Title)

	r = nextResult(t, repo.GetTasksByStatus(ctx, false))
	require.NoError(t, r.Err)
	require.Len(t, r.Tasks, 1)
	assert.Equal(t, "open", r.Tasks[0].Title)
}
