package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tesoro-admin/tesoro/internal/platform/httpx"
	"github.com/tesoro-admin/tesoro/internal/platform/store"
)

func newTestMutator(t *testing.T) (*Mutator, *Repository, *fakeStore) {
	t.Helper()
	fs := newFakeStore(t)
	client := store.NewClient(fs.server.URL, time.Second)
	repo := NewRepository(client, time.Minute)
	return NewMutator(client, repo), repo, fs
}

func TestValidationNeverReachesTheStore(t *testing.T) {
	mutator, _, fs := newTestMutator(t)
	ctx := context.Background()

	_, err := mutator.CreateDepartment(ctx, "   ")
	require.ErrorIs(t, err, httpx.ErrValidation)

	_, err = mutator.CreateType(ctx, LedgerIncome, "Cuotas", 0)
	require.ErrorIs(t, err, httpx.ErrValidation)

	_, err = mutator.CreateSubType(ctx, LedgerIncome, "", 70)
	require.ErrorIs(t, err, httpx.ErrValidation)

	assert.Empty(t, fs.hits)
}

func TestCreateTypeInvalidatesExactlyItsParent(t *testing.T) {
	mutator, repo, fs := newTestMutator(t)
	ctx := context.Background()

	// Warm both departments' type lists.
	_, err := repo.ListTypes(ctx, LedgerIncome, id(7))
	require.NoError(t, err)
	other, err := repo.ListTypes(ctx, LedgerIncome, id(8))
	require.NoError(t, err)

	created, err := mutator.CreateType(ctx, LedgerIncome, "Donaciones", 7)
	require.NoError(t, err)
	assert.Equal(t, int64(99), created.ID)

	// Department 7's list was dropped, department 8's cached value survives
	// untouched.
	_, cached := repo.cachedTypes(LedgerIncome, 7)
	assert.False(t, cached)
	stillCached, cached := repo.cachedTypes(LedgerIncome, 8)
	require.True(t, cached)
	assert.Equal(t, other, stillCached)

	// A fresh read for department 7 refetches; department 8 stays at one hit.
	_, err = repo.ListTypes(ctx, LedgerIncome, id(7))
	require.NoError(t, err)
	assert.Equal(t, 2, fs.count("GET /income-type?departmentId=7"))
	assert.Equal(t, 1, fs.count("GET /income-type?departmentId=8"))
}

func TestReparentInvalidatesOldAndNewParent(t *testing.T) {
	mutator, repo, _ := newTestMutator(t)
	ctx := context.Background()

	_, err := repo.ListTypes(ctx, LedgerIncome, id(7))
	require.NoError(t, err)
	_, err = repo.ListTypes(ctx, LedgerIncome, id(8))
	require.NoError(t, err)

	updated, err := mutator.UpdateType(ctx, LedgerIncome, UpdateTypeInput{
		ID:               70,
		Name:             "Cuotas",
		DepartmentID:     8,
		PrevDepartmentID: 7,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(8), updated.DepartmentID)

	_, cached := repo.cachedTypes(LedgerIncome, 7)
	assert.False(t, cached)
	_, cached = repo.cachedTypes(LedgerIncome, 8)
	assert.False(t, cached)
}

func TestRenameWithoutReparentLeavesOtherKeysAlone(t *testing.T) {
	mutator, repo, _ := newTestMutator(t)
	ctx := context.Background()

	_, err := repo.ListTypes(ctx, LedgerIncome, id(8))
	require.NoError(t, err)

	_, err = mutator.UpdateType(ctx, LedgerIncome, UpdateTypeInput{
		ID:               70,
		Name:             "Cuotas ordinarias",
		DepartmentID:     7,
		PrevDepartmentID: 7,
	})
	require.NoError(t, err)

	_, cached := repo.cachedTypes(LedgerIncome, 8)
	assert.True(t, cached)
}

func TestCreateSubTypeInvalidatesTypeKey(t *testing.T) {
	mutator, _, fs := newTestMutator(t)
	ctx := context.Background()

	_, err := mutator.CreateSubType(ctx, LedgerIncome, "Anual", 70)
	// The fake store has no POST /income-sub-type route; what matters here is
	// that the request was dispatched after validation passed.
	require.Error(t, err)
	assert.Equal(t, 1, fs.count("POST /income-sub-type"))
}
