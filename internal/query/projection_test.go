package query

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/taskhive/taskhive-api/internal/domain"
)

func TestResolveProjection(t *testing.T) {
	t.Parallel()

	t.Run("absent request returns full whitelist", func(t *testing.T) {
		t.Parallel()

		p := ResolveProjection("", TaskFields)
		assert.Equal(t, TaskFields, p.Fields())
	})

	t.Run("subset is intersected in whitelist order", func(t *testing.T) {
		t.Parallel()

		p := ResolveProjection("priority,id,title", TaskFields)
		assert.Equal(t, []string{"id", "title", "priority"}, p.Fields())
		assert.False(t, p.Has("createdAt"))
		assert.False(t, p.Has("userId"))
	})

	t.Run("unknown fields are silently dropped", func(t *testing.T) {
		t.Parallel()

		p := ResolveProjection("id,password,hashed_password,nope", TaskFields)
		assert.Equal(t, []string{"id"}, p.Fields())
	})

	t.Run("all-unknown request falls back to full whitelist", func(t *testing.T) {
		t.Parallel()

		p := ResolveProjection("password,secret", UserFields)
		assert.Equal(t, UserFields, p.Fields())
	})

	t.Run("whitespace around fields is tolerated", func(t *testing.T) {
		t.Parallel()

		p := ResolveProjection(" id , title ", TaskFields)
		assert.Equal(t, []string{"id", "title"}, p.Fields())
	})
}

func TestProjectTask(t *testing.T) {
	t.Parallel()

	task := &domain.Task{
		ID:        42,
		UserID:    uuid.New(),
		Title:     "write tests",
		Completed: true,
		Priority:  domain.PriorityHigh,
		CreatedAt: time.Now().UTC(),
	}

	shaped := ProjectTask(task, ResolveProjection("id,title,priority", TaskFields))

	assert.Equal(t, int64(42), shaped["id"])
	assert.Equal(t, "write tests", shaped["title"])
	assert.Equal(t, domain.PriorityHigh, shaped["priority"])
	assert.NotContains(t, shaped, "createdAt")
	assert.NotContains(t, shaped, "userId")
}

func TestProjectUserNeverExposesCredential(t *testing.T) {
	t.Parallel()

	user := &domain.User{
		ID:             uuid.New(),
		Name:           "Test User",
		Email:          "test@example.com",
		HashedPassword: "bcrypt-hash",
		CreatedAt:      time.Now().UTC(),
	}

	shaped := ProjectUser(user, ResolveProjection("", UserFields))

	assert.Contains(t, shaped, "email")
	assert.Contains(t, shaped, "createdAt")
	assert.NotContains(t, shaped, "password")
	assert.NotContains(t, shaped, "hashed_password")
	for _, v := range shaped {
		assert.NotEqual(t, "bcrypt-hash", v)
	}
}
