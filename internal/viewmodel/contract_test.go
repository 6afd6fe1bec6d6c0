package viewmodel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tgienger/todo/internal/models"
)

func TestFilterApply(t *testing.T) {
	t.Parallel()

	tasks := []models.Task{
		{ID: 3, Title: "c", IsCompleted: true},
		{ID: 2, Title: "b"},
		{ID: 1, Title: "a", IsCompleted: true},
	}

	tests := []struct {
		filter Filter
		want   []int64
	}{
		{FilterAll, []int64{3, 2, 1}},
		{FilterActive, []int64{2}},
		{FilterCompleted, []int64{3, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.filter.String(), func(t *testing.T) {
			var ids []int64
			for _, task := range tt.filter.Apply(tasks) {
				ids = append(ids, task.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestFilterApplyEmpty(t *testing.T) {
	t.Parallel()

	for _, f := range Filters {
		assert.Empty(t, f.Apply(nil))
	}
}

func TestParseFilter(t *testing.T) {
	t.Parallel()

	for _, f := range Filters {
		got, err := ParseFilter(f.String())
		require.NoError(t, err)
		assert.Equal(t, f, got)
	}

	got, err := ParseFilter("  Done ")
	require.NoError(t, err)
	assert.Equal(t, FilterCompleted, got)

	_, err = ParseFilter("someday")
	assert.Error(t, err)
}

func TestNewAddTodo(t *testing.T) {
	t.Parallel()

	ev, err := NewAddTodo("  Buy milk ", " semi-skimmed ", "  ")
	require.NoError(t, err)
	assert.Equal(t, "Buy milk", ev.Title)
	assert.Equal(t, "semi-skimmed", ev.Description)
	assert.Nil(t, ev.ImagePath)

	ev, err = NewAddTodo("Cat", "", "/img/cat.png")
	require.NoError(t, err)
	require.NotNil(t, ev.ImagePath)
	assert.Equal(t, "/img/cat.png", *ev.ImagePath)

	_, err = NewAddTodo("   ", "desc", "")
	assert.ErrorIs(t, err, ErrEmptyTitle)
}
