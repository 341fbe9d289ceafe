package repository_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/nusatech-dev/backoffice-api/internal/repository"
	"github.com/nusatech-dev/backoffice-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uniqueScope(label string) string {
	return fmt.Sprintf("%s-%d", label, time.Now().UnixNano())
}

func TestGetNextNumber_StartsAtOne(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewNumberSequenceRepository(db)
	ctx := context.Background()

	scope := uniqueScope("AAAAA")

	n, err := repo.GetNextNumber(ctx, "QUO", scope, 3, 2026)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestGetNextNumber_Increments(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewNumberSequenceRepository(db)
	ctx := context.Background()

	scope := uniqueScope("AAAAB")

	for want := 1; want <= 5; want++ {
		n, err := repo.GetNextNumber(ctx, "PKS", scope, 3, 2026)
		require.NoError(t, err)
		assert.Equal(t, want, n)
	}
}

func TestGetNextNumber_ScopesAreIndependent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewNumberSequenceRepository(db)
	ctx := context.Background()

	scopeA := uniqueScope("PTTI/AAAAA")
	scopeB := uniqueScope("PTMN/AAAAA")

	n, err := repo.GetNextNumber(ctx, "PKS", scopeA, 3, 2026)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = repo.GetNextNumber(ctx, "PKS", scopeA, 3, 2026)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	// a different scope starts its own count
	n, err = repo.GetNextNumber(ctx, "PKS", scopeB, 3, 2026)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestGetNextNumber_MonthRestart(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewNumberSequenceRepository(db)
	ctx := context.Background()

	scope := uniqueScope("AAAAC")

	n, err := repo.GetNextNumber(ctx, "QUO", scope, 3, 2026)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = repo.GetNextNumber(ctx, "QUO", scope, 3, 2026)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	// next month starts over at 1
	n, err = repo.GetNextNumber(ctx, "QUO", scope, 4, 2026)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestGetNextNumber_ConcurrentDrawsAreUnique(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewNumberSequenceRepository(db)
	ctx := context.Background()

	scope := uniqueScope("AAAAD")
	const workers = 10

	results := make(chan int, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n, err := repo.GetNextNumber(ctx, "SPK", scope, 3, 2026)
			assert.NoError(t, err)
			results <- n
		}()
	}
	wg.Wait()
	close(results)

	seen := make(map[int]bool)
	for n := range results {
		assert.False(t, seen[n], "sequence value %d drawn twice", n)
		seen[n] = true
	}
	assert.Len(t, seen, workers)
}

func TestGetCurrentSequence(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewNumberSequenceRepository(db)
	ctx := context.Background()

	scope := uniqueScope("AAAAE")

	n, err := repo.GetCurrentSequence(ctx, "QUO", scope, 3, 2026)
	require.NoError(t, err)
	assert.Equal(t, 0, n, "unknown scope reads as zero")

	_, err = repo.GetNextNumber(ctx, "QUO", scope, 3, 2026)
	require.NoError(t, err)

	n, err = repo.GetCurrentSequence(ctx, "QUO", scope, 3, 2026)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestSetSequence_NeverLowers(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewNumberSequenceRepository(db)
	ctx := context.Background()

	scope := uniqueScope("AAAAF")

	require.NoError(t, repo.SetSequence(ctx, "QUO", scope, 3, 2026, 40))

	n, err := repo.GetNextNumber(ctx, "QUO", scope, 3, 2026)
	require.NoError(t, err)
	assert.Equal(t, 41, n)

	// lower values are ignored
	require.NoError(t, repo.SetSequence(ctx, "QUO", scope, 3, 2026, 10))

	n, err = repo.GetNextNumber(ctx, "QUO", scope, 3, 2026)
	require.NoError(t, err)
	assert.Equal(t, 42, n)
}
