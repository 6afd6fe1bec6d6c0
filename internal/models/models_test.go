package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewTask(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 123456789, time.UTC)
	task := NewTask("Buy milk", "", nil, now)

	assert.Zero(t, task.ID)
	assert.Equal(t, "Buy milk", task.Title)
	assert.False(t, task.IsCompleted)
	assert.Nil(t, task.ImagePath)
	assert.Equal(t, task.CreatedAt, task.UpdatedAt)
	assert.Equal(t, 123*time.Millisecond, time.Duration(task.CreatedAt.Nanosecond()))
}

func TestTouched(t *testing.T) {
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	task := NewTask("a", "", nil, base)

	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{"clock advanced", base.Add(time.Second), base.Add(time.Second)},
		{"clock unchanged", base, base.Add(time.Millisecond)},
		{"clock went backwards", base.Add(-time.Hour), base.Add(time.Millisecond)},
		{"sub-millisecond advance", base.Add(500 * time.Microsecond), base.Add(time.Millisecond)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := task.Touched(tt.now)
			assert.Equal(t, tt.want, got.UpdatedAt)
			assert.Equal(t, task.CreatedAt, got.CreatedAt)
		})
	}
}

func TestToggled(t *testing.T) {
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	task := NewTask("a", "", nil, base)

	done := task.Toggled(base)
	assert.True(t, done.IsCompleted)
	assert.True(t, done.UpdatedAt.After(task.UpdatedAt))

	undone := done.Toggled(base)
	assert.False(t, undone.IsCompleted)
	assert.True(t, undone.UpdatedAt.After(done.UpdatedAt))

	assert.False(t, task.IsCompleted, "original value must not change")
}

func TestHasImage(t *testing.T) {
	empty := ""
	path := "/tmp/cat.png"

	assert.False(t, Task{}.HasImage())
	assert.False(t, Task{ImagePath: &empty}.HasImage())
	assert.True(t, Task{ImagePath: &path}.HasImage())
}
