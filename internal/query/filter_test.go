package query

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskhive/taskhive-api/internal/domain"
)

func TestNewTaskFilterRequiresOwner(t *testing.T) {
	t.Parallel()

	_, err := NewTaskFilter(uuid.Nil, "", "", "")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestNewTaskFilter(t *testing.T) {
	t.Parallel()

	ownerID := uuid.New()

	t.Run("all filters present", func(t *testing.T) {
		t.Parallel()

		f, err := NewTaskFilter(ownerID, "true", "high", "report")
		require.NoError(t, err)

		assert.Equal(t, ownerID, f.OwnerID)
		require.NotNil(t, f.Completed)
		assert.True(t, *f.Completed)
		require.NotNil(t, f.Priority)
		assert.Equal(t, domain.PriorityHigh, *f.Priority)
		assert.Equal(t, "report", f.Search)
	})

	t.Run("no filters present", func(t *testing.T) {
		t.Parallel()

		f, err := NewTaskFilter(ownerID, "", "", "")
		require.NoError(t, err)

		assert.Nil(t, f.Completed)
		assert.Nil(t, f.Priority)
		assert.Empty(t, f.Search)
	})

	t.Run("unrecognized values are silently ignored", func(t *testing.T) {
		t.Parallel()

		f, err := NewTaskFilter(ownerID, "maybe", "urgent", "   ")
		require.NoError(t, err)

		assert.Nil(t, f.Completed)
		assert.Nil(t, f.Priority)
		assert.Empty(t, f.Search)
	})

	t.Run("status false is a real predicate", func(t *testing.T) {
		t.Parallel()

		f, err := NewTaskFilter(ownerID, "false", "", "")
		require.NoError(t, err)

		require.NotNil(t, f.Completed)
		assert.False(t, *f.Completed)
	})

	t.Run("search is trimmed", func(t *testing.T) {
		t.Parallel()

		f, err := NewTaskFilter(ownerID, "", "", "  groceries  ")
		require.NoError(t, err)
		assert.Equal(t, "groceries", f.Search)
	})
}
