package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	commentDomain "github.com/shareit-hub/service-booking/internal/domain/comment"
	itemDomain "github.com/shareit-hub/service-booking/internal/domain/item"
	userDomain "github.com/shareit-hub/service-booking/internal/domain/user"
	"github.com/shareit-hub/service-booking/internal/repository"
	"github.com/shareit-hub/service-booking/internal/testutil"
	"github.com/shareit-hub/service-booking/pkg/domain"
)

func TestGormItemRepository(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repository.NewGormItemRepository(db)
	ctx := context.Background()

	drill, err := itemDomain.NewItem(1, 10, "Drill", "cordless", false)
	require.NoError(t, err)
	require.NoError(t, repo.Upsert(ctx, drill))

	saw, err := itemDomain.NewItem(2, 10, "Saw", "", true)
	require.NoError(t, err)
	require.NoError(t, repo.Upsert(ctx, saw))

	got, err := repo.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.False(t, got.Available(), "available=false survives the insert")
	assert.Equal(t, int64(10), got.OwnerID())

	_, err = repo.FindByID(ctx, 99)
	assert.True(t, domain.IsNotFound(err))

	idsByOwner, err := repo.FindIDsByOwner(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, idsByOwner)

	none, err := repo.FindIDsByOwner(ctx, 11)
	require.NoError(t, err)
	assert.Empty(t, none)

	avail := true
	require.NoError(t, got.Apply(itemDomain.Patch{Available: &avail}))
	require.NoError(t, repo.Update(ctx, got))

	stale, err := itemDomain.NewItem(1, 10, "Drill", "", true)
	require.NoError(t, err)
	require.NoError(t, stale.Apply(itemDomain.Patch{Available: &avail}))
	assert.True(t, domain.IsConflict(repo.Update(ctx, stale)), "version 1 -> 2 already applied")

	relisted, err := itemDomain.NewItem(2, 12, "Saw", "new owner", true)
	require.NoError(t, err)
	require.NoError(t, repo.Upsert(ctx, relisted))
	moved, err := repo.FindByID(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(12), moved.OwnerID())

	byIDs, err := repo.FindByIDs(ctx, []int64{1, 2, 3})
	require.NoError(t, err)
	assert.Len(t, byIDs, 2)

	owned, err := repo.FindByOwnerID(ctx, 10)
	require.NoError(t, err)
	require.Len(t, owned, 1)
	assert.True(t, owned[0].Available())

	require.NoError(t, repo.Delete(ctx, 1))
	_, err = repo.FindByID(ctx, 1)
	assert.True(t, domain.IsNotFound(err))
}

func TestGormUserRepository(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repository.NewGormUserRepository(db)
	ctx := context.Background()

	u, err := userDomain.NewUser(3, "Ann", "ann@example.com")
	require.NoError(t, err)
	require.NoError(t, repo.Upsert(ctx, u))

	ok, err := repo.Exists(ctx, 3)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Exists(ctx, 4)
	require.NoError(t, err)
	assert.False(t, ok)

	renamed, err := userDomain.NewUser(3, "Anna", "ann@example.com")
	require.NoError(t, err)
	require.NoError(t, repo.Upsert(ctx, renamed))

	got, err := repo.FindByID(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, "Anna", got.Name())

	byIDs, err := repo.FindByIDs(ctx, []int64{3, 4})
	require.NoError(t, err)
	assert.Len(t, byIDs, 1)

	require.NoError(t, repo.Delete(ctx, 3))
	_, err = repo.FindByID(ctx, 3)
	assert.True(t, domain.IsNotFound(err))
}

func TestGormCommentRepository(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repository.NewGormCommentRepository(db)
	ctx := context.Background()

	for _, text := range []string{"first", "second"} {
		c, err := commentDomain.NewComment(1, 5, 9, text)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, c))
		assert.NotZero(t, c.ID())
	}
	other, err := commentDomain.NewComment(2, 5, 10, "other item")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, other))

	got, err := repo.FindByItemID(ctx, 1)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "first", got[0].Text())

	grouped, err := repo.FindByItemIDs(ctx, []int64{1, 2, 3})
	require.NoError(t, err)
	assert.Len(t, grouped[1], 2)
	assert.Len(t, grouped[2], 1)
	assert.Empty(t, grouped[3])
}
