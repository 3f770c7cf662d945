package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testhr/llamagate/internal/core"
)

func TestUsers_CreateAndLookup(t *testing.T) {
	ctx := context.Background()
	repo := NewUsers(testDB(t))

	created, err := repo.Create(ctx, core.User{Name: "roberto", Email: "roberto@example.com", Password: "hash-1"})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	found, err := repo.ByEmail(ctx, "roberto@example.com")
	require.NoError(t, err)
	assert.Equal(t, "roberto", found.Name)
	assert.Equal(t, "hash-1", found.Password)

	_, err = repo.ByEmail(ctx, "missing@example.com")
	assert.ErrorIs(t, err, core.ErrUserNotFound)
}

func TestUsers_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	repo := NewUsers(testDB(t))

	_, err := repo.Create(ctx, core.User{Name: "pablo", Email: "pablo@example.com", Password: "h"})
	require.NoError(t, err)

	_, err = repo.Create(ctx, core.User{Name: "pablo", Email: "pablo@example.com", Password: "h"})
	assert.ErrorIs(t, err, core.ErrUserExists)
}

func TestUsers_UpdatePassword(t *testing.T) {
	ctx := context.Background()
	repo := NewUsers(testDB(t))

	_, err := repo.Create(ctx, core.User{Name: "shafeena", Email: "shafeena@example.com", Password: "old"})
	require.NoError(t, err)

	require.NoError(t, repo.UpdatePassword(ctx, "shafeena@example.com", "new"))

	found, err := repo.ByEmail(ctx, "shafeena@example.com")
	require.NoError(t, err)
	assert.Equal(t, "new", found.Password)

	assert.ErrorIs(t, repo.UpdatePassword(ctx, "nobody@example.com", "x"), core.ErrUserNotFound)
}
