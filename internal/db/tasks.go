package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// TodoRecord is the persisted form of a task.
// Timestamps are unix milliseconds.
type TodoRecord struct {
	ID          int64
	Title       string
	Description string
	IsCompleted bool
	ImagePath   *string
	CreatedAt   int64
	UpdatedAt   int64
}

const todoColumns = `id, title, description, is_completed, image_path, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTodo(row rowScanner) (TodoRecord, error) {
	var r TodoRecord
	err := row.Scan(&r.ID, &r.Title, &r.Description, &r.IsCompleted, &r.ImagePath, &r.CreatedAt, &r.UpdatedAt)
	return r, err
}

// Get retrieves a todo by ID; it returns nil when no such row exists
func (db *DB) Get(ctx context.Context, id int64) (*TodoRecord, error) {
	r, err := scanTodo(db.QueryRowContext(ctx,
		`SELECT `+todoColumns+` FROM todos WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get todo %d: %w", id, err)
	}
	return &r, nil
}

// ListAll returns every todo, newest first
func (db *DB) ListAll(ctx context.Context) ([]TodoRecord, error) {
	return db.list(ctx, `SELECT `+todoColumns+` FROM todos ORDER BY created_at DESC, id DESC`)
}

// ListByCompletion returns todos with the given completion flag, newest first
func (db *DB) ListByCompletion(ctx context.Context, completed bool) ([]TodoRecord, error) {
	return db.list(ctx, `
		SELECT `+todoColumns+`
		FROM todos
		WHERE is_completed = ?
		ORDER BY created_at DESC, id DESC
	`, completed)
}

func (db *DB) list(ctx context.Context, query string, args ...any) ([]TodoRecord, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	todos := []TodoRecord{}
	for rows.Next() {
		r, err := scanTodo(rows)
		if err != nil {
			return nil, err
		}
		todos = append(todos, r)
	}
	return todos, rows.Err()
}

// Insert creates a new todo and returns its assigned ID. rec.ID is ignored.
func (db *DB) Insert(ctx context.Context, rec TodoRecord) (int64, error) {
	result, err := db.ExecContext(ctx, `
		INSERT INTO todos (title, description, is_completed, image_path, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, rec.Title, rec.Description, rec.IsCompleted, rec.ImagePath, rec.CreatedAt, rec.UpdatedAt)
	if err != nil {
		return 0, fmt.Errorf("failed to insert todo: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read inserted id: %w", err)
	}

	db.changed()
	return id, nil
}

// Update replaces every mutable column of an existing todo.
// created_at is never written after insert.
func (db *DB) Update(ctx context.Context, rec TodoRecord) error {
	result, err := db.ExecContext(ctx, `
		UPDATE todos
		SET title = ?, description = ?, is_completed = ?, image_path = ?, updated_at = ?
		WHERE id = ?
	`, rec.Title, rec.Description, rec.IsCompleted, rec.ImagePath, rec.UpdatedAt, rec.ID)
	if err != nil {
		return fmt.Errorf("failed to update todo %d: %w", rec.ID, err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update todo %d: %w", rec.ID, err)
	}
	if n == 0 {
		return fmt.Errorf("failed to update todo %d: %w", rec.ID, ErrNotFound)
	}

	db.changed()
	return nil
}

// Delete deletes the row matching rec.ID
func (db *DB) Delete(ctx context.Context, rec TodoRecord) error {
	return db.DeleteByID(ctx, rec.ID)
}

// DeleteByID deletes a todo. Deleting a missing id is not an error.
func (db *DB) DeleteByID(ctx context.Context, id int64) error {
	result, err := db.ExecContext(ctx, "DELETE FROM todos WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete todo %d: %w", id, err)
	}

	if n, err := result.RowsAffected(); err == nil && n > 0 {
		db.changed()
	}
	return nil
}

// Count returns the number of todos
func (db *DB) Count(ctx context.Context) (int, error) {
	var count int
	err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM todos").Scan(&count)
	return count, err
}
