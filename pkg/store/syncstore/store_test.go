package syncstore

import (
	"testing"
	"time"

	"github.com/fystack/megasena-analyzer/pkg/infra"
	"github.com/fystack/megasena-analyzer/pkg/kvstore"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const game = "megasena"

func newStore(t *testing.T) Store {
	t.Helper()
	kv, err := kvstore.NewBadgerStore(t.TempDir(), "test", infra.JSON)
	require.NoError(t, err)
	s := New(kv)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestLatestContest(t *testing.T) {
	s := newStore(t)

	latest, err := s.GetLatestContest(game)
	require.NoError(t, err)
	assert.Zero(t, latest)

	require.NoError(t, s.SaveLatestContest(game, 2801))
	latest, err = s.GetLatestContest(game)
	require.NoError(t, err)
	assert.Equal(t, 2801, latest)

	assert.Error(t, s.SaveLatestContest(game, 0))
	assert.Error(t, s.SaveLatestContest("", 10))
}

func TestFailedContests(t *testing.T) {
	s := newStore(t)

	failed, err := s.GetFailedContests(game)
	require.NoError(t, err)
	assert.Empty(t, failed)

	require.NoError(t, s.SaveFailedContests(game, []int{30, 10, 20}))
	require.NoError(t, s.SaveFailedContests(game, []int{20, 5, 0, -1}))

	failed, err = s.GetFailedContests(game)
	require.NoError(t, err)
	assert.Equal(t, []int{5, 10, 20, 30}, failed)

	require.NoError(t, s.RemoveFailedContests(game, []int{10, 30, 99}))
	failed, err = s.GetFailedContests(game)
	require.NoError(t, err)
	assert.Equal(t, []int{5, 20}, failed)
}

func TestLastSync(t *testing.T) {
	s := newStore(t)

	at, err := s.GetLastSync(game)
	require.NoError(t, err)
	assert.True(t, at.IsZero())

	now := time.Date(2025, 3, 1, 20, 0, 0, 0, time.UTC)
	require.NoError(t, s.SaveLastSync(game, now))
	at, err = s.GetLastSync(game)
	require.NoError(t, err)
	assert.True(t, now.Equal(at))
}

func TestCostPerGame(t *testing.T) {
	s := newStore(t)

	_, found, err := s.GetCostPerGame()
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, s.SaveCostPerGame(decimal.RequireFromString("5.00")))
	cost, found, err := s.GetCostPerGame()
	require.NoError(t, err)
	assert.True(t, found)
	assert.True(t, cost.Equal(decimal.NewFromInt(5)))

	assert.Error(t, s.SaveCostPerGame(decimal.Zero))
	assert.Error(t, s.SaveCostPerGame(decimal.NewFromInt(-2)))
}
