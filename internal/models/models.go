package models

import "time"

// Task represents a single todo item
type Task struct {
	ID          int64
	Title       string
	Description string
	IsCompleted bool
	ImagePath   *string // nil when no image is attached
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewTask returns an unsaved task stamped with now
func NewTask(title, description string, imagePath *string, now time.Time) Task {
	now = now.Truncate(time.Millisecond)
	return Task{
		Title:       title,
		Description: description,
		ImagePath:   imagePath,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Touched returns a copy of t with UpdatedAt moved to now.
// Timestamps are persisted with millisecond precision, so when now does not
// land after the current UpdatedAt the value is bumped by one millisecond.
func (t Task) Touched(now time.Time) Task {
	now = now.Truncate(time.Millisecond)
	if !now.After(t.UpdatedAt) {
		now = t.UpdatedAt.Truncate(time.Millisecond).Add(time.Millisecond)
	}
	t.UpdatedAt = now
	return t
}

// Toggled returns a copy of t with the completion flag inverted and UpdatedAt refreshed
func (t Task) Toggled(now time.Time) Task {
	t.IsCompleted = !t.IsCompleted
	return t.Touched(now)
}

// HasImage reports whether an image reference is attached
func (t Task) HasImage() bool {
	return t.ImagePath != nil && *t.ImagePath != ""
}
