// Package repository translates between persisted todo records and domain tasks
package repository

import (
	"context"
	"time"

	"github.com/tgienger/todo/internal/db"
	"github.com/tgienger/todo/internal/live"
	"github.com/tgienger/todo/internal/models"
)

// Store is the persistence contract the repository relies on
type Store interface {
	ObserveAll(ctx context.Context) <-chan db.Snapshot
	ObserveByCompletion(ctx context.Context, completed bool) <-chan db.Snapshot
	Get(ctx context.Context, id int64) (*db.TodoRecord, error)
	Insert(ctx context.Context, rec db.TodoRecord) (int64, error)
	Update(ctx context.Context, rec db.TodoRecord) error
	Delete(ctx context.Context, rec db.TodoRecord) error
	DeleteByID(ctx context.Context, id int64) error
}

// Compile-time verification that *db.DB implements Store
var _ Store = (*db.DB)(nil)

// Result is one emission of a task stream
type Result struct {
	Tasks []models.Task
	Err   error
}

// TodoRepository forwards every call to the store, converting shapes on the way
type TodoRepository struct {
	store Store
}

// New creates a repository over store
func New(store Store) *TodoRepository {
	return &TodoRepository{store: store}
}

// GetAllTasks streams every task, newest first
func (r *TodoRepository) GetAllTasks(ctx context.Context) <-chan Result {
	return live.Map(ctx, r.store.ObserveAll(ctx), toResult)
}

// GetTasksByStatus streams tasks with the given completion flag
func (r *TodoRepository) GetTasksByStatus(ctx context.Context, completed bool) <-chan Result {
	return live.Map(ctx, r.store.ObserveByCompletion(ctx, completed), toResult)
}

// GetTask returns the task with id, or nil when there is none
func (r *TodoRepository) GetTask(ctx context.Context, id int64) (*models.Task, error) {
	rec, err := r.store.Get(ctx, id)
	if err != nil || rec == nil {
		return nil, err
	}
	task := toDomain(*rec)
	return &task, nil
}

// InsertTask stores a new task and returns the id the store assigned
func (r *TodoRepository) InsertTask(ctx context.Context, task models.Task) (int64, error) {
	rec := toRecord(task)
	rec.ID = 0
	return r.store.Insert(ctx, rec)
}

// UpdateTask replaces the stored task with the same id
func (r *TodoRepository) UpdateTask(ctx context.Context, task models.Task) error {
	return r.store.Update(ctx, toRecord(task))
}

// DeleteTask removes task
func (r *TodoRepository) DeleteTask(ctx context.Context, task models.Task) error {
	return r.store.Delete(ctx, toRecord(task))
}

// DeleteTaskByID removes the task with id; a missing id is not an error
func (r *TodoRepository) DeleteTaskByID(ctx context.Context, id int64) error {
	return r.store.DeleteByID(ctx, id)
}

func toResult(s db.Snapshot) Result {
	if s.Err != nil {
		return Result{Err: s.Err}
	}
	tasks := make([]models.Task, len(s.Records))
	for i, rec := range s.Records {
		tasks[i] = toDomain(rec)
	}
	return Result{Tasks: tasks}
}

func toDomain(rec db.TodoRecord) models.Task {
	return models.Task{
		ID:          rec.ID,
		Title:       rec.Title,
		Description: rec.Description,
		IsCompleted: rec.IsCompleted,
		ImagePath:   rec.ImagePath,
		CreatedAt:   time.UnixMilli(rec.CreatedAt).UTC(),
		UpdatedAt:   time.UnixMilli(rec.UpdatedAt).UTC(),
	}
}

func toRecord(task models.Task) db.TodoRecord {
	return db.TodoRecord{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		IsCompleted: task.IsCompleted,
		ImagePath:   task.ImagePath,
		CreatedAt:   task.CreatedAt.UnixMilli(),
		UpdatedAt:   task.UpdatedAt.UnixMilli(),
	}
}
