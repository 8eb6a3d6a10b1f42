package db

import (
	"context"
	"fmt"
	"math"
	"strings"
	"testing"

	"socks_stock/internal/domain"
	"socks_stock/internal/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	conn, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, Migrate(conn))
	return conn
}

func TestSocksRepo_IncreaseCreatesThenAccumulates(t *testing.T) {
	repo := NewSocksRepo(newTestDB(t))
	ctx := context.Background()

	batch, err := repo.Increase(ctx, "red", 80, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(10), batch.Quantity)
	assert.NotZero(t, batch.ID)

	batch, err = repo.Increase(ctx, "red", 80, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(20), batch.Quantity)

	var count int64
	require.NoError(t, repo.db.Model(&domain.Batch{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestSocksRepo_IncreaseRejectsOverflow(t *testing.T) {
	repo := NewSocksRepo(newTestDB(t))
	ctx := context.Background()

	_, err := repo.Increase(ctx, "red", 80, math.MaxInt64-1)
	require.NoError(t, err)

	batch, err := repo.Increase(ctx, "red", 80, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(math.MaxInt64), batch.Quantity)

	_, err = repo.Increase(ctx, "red", 80, 1)
	require.ErrorIs(t, err, errs.ErrOverflow)

	stored, err := repo.FindByColorAndCottonPart(ctx, "red", 80)
	require.NoError(t, err)
	assert.Equal(t, int64(math.MaxInt64), stored.Quantity)
}

func TestSocksRepo_Decrease(t *testing.T) {
	repo := NewSocksRepo(newTestDB(t))
	ctx := context.Background()

	_, err := repo.Decrease(ctx, "blue", 50, 1)
	require.ErrorIs(t, err, errs.ErrNotFound)

	_, err = repo.Increase(ctx, "blue", 50, 5)
	require.NoError(t, err)

	_, err = repo.Decrease(ctx, "blue", 50, 6)
	require.ErrorIs(t, err, errs.ErrInsufficient)

	stored, err := repo.FindByColorAndCottonPart(ctx, "blue", 50)
	require.NoError(t, err)
	assert.Equal(t, int64(5), stored.Quantity)

	batch, err := repo.Decrease(ctx, "blue", 50, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(0), batch.Quantity)
}

func TestSocksRepo_SumQuantity(t *testing.T) {
	repo := NewSocksRepo(newTestDB(t))
	ctx := context.Background()

	for _, cp := range []int{10, 50, 90} {
		_, err := repo.Increase(ctx, "black", cp, int64(cp))
		require.NoError(t, err)
	}
	_, err := repo.Increase(ctx, "white", 50, 1000)
	require.NoError(t, err)

	cases := []struct {
		op   domain.Operation
		cp   int
		want int64
	}{
		{domain.OpMoreThan, 50, 90},
		{domain.OpLessThan, 50, 10},
		{domain.OpEqual, 50, 50},
		{domain.OpMoreThan, 90, 0},
		{domain.OpLessThan, 100, 150},
	}
	for _, tc := range cases {
		got, err := repo.SumQuantity(ctx, "black", tc.op, tc.cp)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "%s %d", tc.op, tc.cp)
	}

	got, err := repo.SumQuantity(ctx, "green", domain.OpEqual, 50)
	require.NoError(t, err)
	assert.Zero(t, got)

	_, err = repo.SumQuantity(ctx, "black", domain.Operation("between"), 50)
	require.Error(t, err)
}

func TestSocksRepo_DeleteAll(t *testing.T) {
	repo := NewSocksRepo(newTestDB(t))
	ctx := context.Background()

	_, err := repo.Increase(ctx, "red", 1, 1)
	require.NoError(t, err)
	_, err = repo.Increase(ctx, "blue", 2, 2)
	require.NoError(t, err)

	require.NoError(t, repo.DeleteAll(ctx))

	_, err = repo.FindByColorAndCottonPart(ctx, "red", 1)
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestUserRepo_CreateAndFind(t *testing.T) {
	repo := NewUserRepo(newTestDB(t))
	ctx := context.Background()

	u := &domain.User{Username: "alice", Password: "hash", Role: domain.RoleUser}
	require.NoError(t, repo.Create(ctx, u))
	assert.NotZero(t, u.ID)

	err := repo.Create(ctx, &domain.User{Username: "alice", Password: "other", Role: domain.RoleUser})
	require.ErrorIs(t, err, errs.ErrDuplicate)

	byID, err := repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", byID.Username)

	byName, err := repo.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byName.ID)

	_, err = repo.FindByID(ctx, 999)
	require.ErrorIs(t, err, errs.ErrNotFound)
	_, err = repo.FindByUsername(ctx, "ghost")
	require.ErrorIs(t, err, errs.ErrNotFound)

	exists, err := repo.ExistsByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, exists)
	exists, err = repo.ExistsByUsername(ctx, "ghost")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestUserRepo_RoleUpdatesAndDelete(t *testing.T) {
	repo := NewUserRepo(newTestDB(t))
	ctx := context.Background()

	alice := &domain.User{Username: "alice", Password: "h", Role: domain.RoleUser}
	bob := &domain.User{Username: "bob", Password: "h", Role: domain.RoleUser}
	require.NoError(t, repo.Create(ctx, alice))
	require.NoError(t, repo.Create(ctx, bob))

	updated, err := repo.UpdateRole(ctx, bob.ID, domain.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, updated.Role)

	admins, err := repo.FindByRole(ctx, domain.RoleAdmin)
	require.NoError(t, err)
	require.Len(t, admins, 1)
	assert.Equal(t, "bob", admins[0].Username)

	_, err = repo.UpdateRole(ctx, 999, domain.RoleAdmin)
	require.ErrorIs(t, err, errs.ErrNotFound)

	require.NoError(t, repo.Delete(ctx, alice.ID))
	require.ErrorIs(t, repo.Delete(ctx, alice.ID), errs.ErrNotFound)

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "bob", all[0].Username)
}
