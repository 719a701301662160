package syncstore

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/fystack/megasena-analyzer/pkg/common/constant"
	"github.com/fystack/megasena-analyzer/pkg/infra"
	"github.com/fystack/megasena-analyzer/pkg/kvstore"
	"github.com/shopspring/decimal"
)

const (
	settingCostPerGame = "cost_per_game"
	keyLastSync        = "last_sync"
)

func latestContestKey(game string) string {
	return fmt.Sprintf("%s/%s/%s", constant.KVPrefixSyncState, game, constant.KVPrefixLatestContest)
}

func failedContestsKey(game string) string {
	return fmt.Sprintf("%s/%s/%s", constant.KVPrefixSyncState, game, constant.KVPrefixFailedContest)
}

func lastSyncKey(game string) string {
	return fmt.Sprintf("%s/%s/%s", constant.KVPrefixSyncState, game, keyLastSync)
}

func settingKey(name string) string {
	return fmt.Sprintf("%s/%s", constant.KVPrefixSettings, name)
}

// Store keeps collector progress and user settings between runs.
type Store interface {
	GetLatestContest(game string) (int, error)
	SaveLatestContest(game string, contest int) error

	GetFailedContests(game string) ([]int, error)
	SaveFailedContests(game string, contests []int) error
	RemoveFailedContests(game string, contests []int) error

	GetLastSync(game string) (time.Time, error)
	SaveLastSync(game string, at time.Time) error

	GetCostPerGame() (decimal.Decimal, bool, error)
	SaveCostPerGame(cost decimal.Decimal) error

	Close() error
}

type syncStore struct {
	store infra.KVStore
}

func New(store infra.KVStore) Store {
	return &syncStore{store: store}
}

// GetLatestContest returns 0 when nothing was synced yet.
func (s *syncStore) GetLatestContest(game string) (int, error) {
	v, err := s.store.Get(latestContestKey(game))
	if errors.Is(err, kvstore.ErrKeyNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(v)
}

func (s *syncStore) SaveLatestContest(game string, contest int) error {
	if game == "" {
		return errors.New("game name is required")
	}
	if contest <= 0 {
		return errors.New("contest number is required")
	}
	return s.store.Set(latestContestKey(game), strconv.Itoa(contest))
}

func (s *syncStore) GetFailedContests(game string) ([]int, error) {
	var contests []int
	ok, err := s.store.GetAny(failedContestsKey(game), &contests)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return contests, nil
}

// SaveFailedContests merges contests into the failed list (deduplicated + sorted).
func (s *syncStore) SaveFailedContests(game string, toAdd []int) error {
	if game == "" {
		return errors.New("game name is required")
	}
	if len(toAdd) == 0 {
		return nil
	}

	key := failedContestsKey(game)
	var contests []int
	if _, err := s.store.GetAny(key, &contests); err != nil {
		return err
	}

	for _, c := range toAdd {
		if c <= 0 {
			continue
		}
		if !slices.Contains(contests, c) {
			contests = append(contests, c)
		}
	}
	slices.Sort(contests)

	return s.store.SetAny(key, contests)
}

func (s *syncStore) RemoveFailedContests(game string, toRemove []int) error {
	if game == "" {
		return errors.New("game name is required")
	}
	if len(toRemove) == 0 {
		return nil
	}

	key := failedContestsKey(game)
	var contests []int
	ok, err := s.store.GetAny(key, &contests)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	drop := make(map[int]struct{}, len(toRemove))
	for _, c := range toRemove {
		drop[c] = struct{}{}
	}
	filtered := make([]int, 0, len(contests))
	for _, c := range contests {
		if _, ok := drop[c]; !ok {
			filtered = append(filtered, c)
		}
	}
	return s.store.SetAny(key, filtered)
}

// GetLastSync returns the zero time when no sync has completed.
func (s *syncStore) GetLastSync(game string) (time.Time, error) {
	var at time.Time
	if _, err := s.store.GetAny(lastSyncKey(game), &at); err != nil {
		return time.Time{}, err
	}
	return at, nil
}

func (s *syncStore) SaveLastSync(game string, at time.Time) error {
	return s.store.SetAny(lastSyncKey(game), at.UTC())
}

func (s *syncStore) GetCostPerGame() (decimal.Decimal, bool, error) {
	v, err := s.store.Get(settingKey(settingCostPerGame))
	if errors.Is(err, kvstore.ErrKeyNotFound) {
		return decimal.Zero, false, nil
	}
	if err != nil {
		return decimal.Zero, false, err
	}
	cost, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("stored cost %q: %w", v, err)
	}
	return cost, true, nil
}

func (s *syncStore) SaveCostPerGame(cost decimal.Decimal) error {
	if !cost.IsPositive() {
		return fmt.Errorf("cost per game must be positive, got %s", cost)
	}
	return s.store.Set(settingKey(settingCostPerGame), cost.String())
}

func (s *syncStore) Close() error {
	return s.store.Close()
}
