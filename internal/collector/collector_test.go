package collector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fystack/megasena-analyzer/internal/caixa"
	"github.com/fystack/megasena-analyzer/pkg/common/config"
	"github.com/fystack/megasena-analyzer/pkg/infra"
	"github.com/fystack/megasena-analyzer/pkg/kvstore"
	"github.com/fystack/megasena-analyzer/pkg/lottery"
	"github.com/fystack/megasena-analyzer/pkg/storage"
	"github.com/fystack/megasena-analyzer/pkg/store/syncstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func numbersFor(contest int) []int {
	out := make([]int, 0, 6)
	for i := range 6 {
		out = append(out, (contest+i*10)%60+1)
	}
	return out
}

type fakeClient struct {
	mu      sync.Mutex
	latest  int
	broken  map[int]bool
	invalid map[int]bool
	calls   map[int]int
}

func newFakeClient(latest int) *fakeClient {
	return &fakeClient{latest: latest, broken: map[int]bool{}, invalid: map[int]bool{}, calls: map[int]int{}}
}

func (f *fakeClient) LatestContest(context.Context) (int, error) {
	return f.latest, nil
}

func (f *fakeClient) Draw(_ context.Context, contest int) (lottery.Draw, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[contest]++
	if f.broken[contest] {
		return lottery.Draw{}, errors.New("boom")
	}
	if f.invalid[contest] {
		return lottery.NewDraw(contest, "", []int{1, 1, 2, 3, 4, 5}), nil
	}
	return lottery.NewDraw(contest, "01/01/2000", numbersFor(contest)), nil
}

type memRepo struct {
	history lottery.History
	saves   int
}

func (r *memRepo) Load() (lottery.History, error) {
	return maps.Clone(r.history), nil
}

func (r *memRepo) SaveAll(h lottery.History) error {
	r.saves++
	r.history = maps.Clone(h)
	return nil
}

type recordingEmitter struct {
	contests []int
}

func (e *recordingEmitter) EmitDraw(d lottery.Draw) error {
	e.contests = append(e.contests, d.Contest)
	return nil
}
func (e *recordingEmitter) Subject() string { return "test.draw.synced" }
func (e *recordingEmitter) Close()          {}

func historyUpTo(n int) lottery.History {
	h := lottery.History{}
	for c := 1; c <= n; c++ {
		h.Add(lottery.NewDraw(c, "01/01/2000", numbersFor(c)))
	}
	return h
}

func newState(t *testing.T) syncstore.Store {
	t.Helper()
	kv, err := kvstore.NewBadgerStore("", "test", infra.JSON)
	require.NoError(t, err)
	s := syncstore.New(kv)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func testConfig() config.SourceConfig {
	return config.SourceConfig{
		InitialThreshold: 100,
		Throttle:         config.Throttle{RPS: 100, Burst: 10, BatchSize: 50, Concurrency: 5},
	}
}

func newTestCollector(client caixa.Client, repo Repository, state syncstore.Store, em *recordingEmitter) *Collector {
	c := New(Deps{Client: client, Repo: repo, State: state, Emitter: em, Config: testConfig(), Game: "megasena"})
	c.sleep = func(ctx context.Context, _ time.Duration) error { return ctx.Err() }
	return c
}

func TestNeedsInitialDownload(t *testing.T) {
	c := New(Deps{Config: testConfig()})

	assert.True(t, c.NeedsInitialDownload(lottery.History{}, 10))
	assert.True(t, c.NeedsInitialDownload(historyUpTo(5), 106))
	assert.False(t, c.NeedsInitialDownload(historyUpTo(5), 105))
	assert.False(t, c.NeedsInitialDownload(historyUpTo(5), 5))
}

func TestUpdate_FullDownload(t *testing.T) {
	client := newFakeClient(230)
	repo := &memRepo{history: lottery.History{}}
	state := newState(t)
	em := &recordingEmitter{}

	res, err := newTestCollector(client, repo, state, em).Update(context.Background())
	require.NoError(t, err)

	assert.True(t, res.Updated)
	assert.Equal(t, 230, res.Latest)
	assert.Equal(t, 230, res.Total)
	assert.Len(t, res.Fetched, 230)
	assert.Empty(t, res.Failed)
	assert.Len(t, repo.history, 230)
	assert.Len(t, em.contests, 230)
	assert.NoError(t, repo.history.Validate())

	latest, err := state.GetLatestContest("megasena")
	require.NoError(t, err)
	assert.Equal(t, 230, latest)
}

func TestUpdate_IncrementalSequential(t *testing.T) {
	client := newFakeClient(205)
	repo := &memRepo{history: historyUpTo(200)}
	em := &recordingEmitter{}

	res, err := newTestCollector(client, repo, nil, em).Update(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []int{201, 202, 203, 204, 205}, res.Fetched)
	assert.Equal(t, []int{201, 202, 203, 204, 205}, em.contests)
	assert.Equal(t, 205, res.Total)
	assert.Equal(t, 0, client.calls[200])
}

func TestUpdate_IncrementalBatch(t *testing.T) {
	client := newFakeClient(260)
	repo := &memRepo{history: historyUpTo(200)}

	res, err := newTestCollector(client, repo, nil, &recordingEmitter{}).Update(context.Background())
	require.NoError(t, err)
	assert.Len(t, res.Fetched, 60)
	assert.Len(t, repo.history, 260)
}

func TestUpdate_UpToDate(t *testing.T) {
	client := newFakeClient(50)
	repo := &memRepo{history: historyUpTo(50)}

	res, err := newTestCollector(client, repo, nil, &recordingEmitter{}).Update(context.Background())
	require.NoError(t, err)
	assert.False(t, res.Updated)
	assert.Zero(t, repo.saves)
}

func TestUpdate_FailedContestsAreRecordedAndRetried(t *testing.T) {
	client := newFakeClient(208)
	client.broken[203] = true
	client.invalid[206] = true
	repo := &memRepo{history: historyUpTo(200)}
	state := newState(t)

	c := newTestCollector(client, repo, state, &recordingEmitter{})
	res, err := c.Update(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{203, 206}, res.Failed)
	assert.NotContains(t, repo.history, 203)

	failed, err := state.GetFailedContests("megasena")
	require.NoError(t, err)
	assert.Equal(t, []int{203, 206}, failed)

	// the next run picks them up first
	client.broken[203] = false
	client.invalid[206] = false
	res, err = c.Update(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{203, 206}, res.Fetched)
	assert.Empty(t, res.Failed)
	assert.Len(t, repo.history, 208)

	failed, err = state.GetFailedContests("megasena")
	require.NoError(t, err)
	assert.Empty(t, failed)
}

func TestUpdate_CancelledContext(t *testing.T) {
	client := newFakeClient(500)
	repo := &memRepo{history: lottery.History{}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newTestCollector(client, repo, nil, &recordingEmitter{}).Update(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDownloadBatchParallel(t *testing.T) {
	client := newFakeClient(20)
	client.broken[7] = true
	c := newTestCollector(client, &memRepo{}, nil, &recordingEmitter{})

	fetched, failed, err := c.DownloadBatchParallel(context.Background(), []int{5, 6, 7, 8})
	require.NoError(t, err)
	assert.Len(t, fetched, 3)
	assert.Equal(t, []int{7}, failed)
	assert.Equal(t, 8, fetched[8].Contest)
}

func TestUpdate_AgainstHTTPAPI(t *testing.T) {
	const latest = 12
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := strings.Trim(r.URL.Path, "/")
		if path == "" {
			_ = json.NewEncoder(w).Encode(map[string]any{"numero": latest})
			return
		}
		n, err := strconv.Atoi(path)
		if err != nil || n > latest {
			http.NotFound(w, r)
			return
		}
		dezenas := make([]string, 0, 6)
		for _, v := range numbersFor(n) {
			dezenas = append(dezenas, fmt.Sprintf("%02d", v))
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"numero":                       n,
			"dataApuracao":                 "11/03/1996",
			"dezenasSorteadasOrdemSorteio": dezenas,
			"acumulado":                    n%2 == 0,
		})
	}))
	defer srv.Close()

	dir := t.TempDir()
	repo := storage.NewFileStore(filepath.Join(dir, "h.json"), filepath.Join(dir, "h.csv"))
	src := config.SourceConfig{
		URLs:             []string{srv.URL},
		Timeout:          time.Second,
		MaxRetries:       1,
		RetryDelay:       time.Millisecond,
		InitialThreshold: 100,
		Throttle:         config.Throttle{RPS: 1000, Burst: 100, BatchSize: 5, Concurrency: 3},
	}
	c := New(Deps{Client: caixa.NewClient(src), Repo: repo, Config: src})

	res, err := c.Update(context.Background())
	require.NoError(t, err)
	assert.Equal(t, latest, res.Total)

	h, err := repo.Load()
	require.NoError(t, err)
	assert.Len(t, h, latest)
	assert.Equal(t, numbersFor(3), h[3].Numbers)
	assert.True(t, h[4].Accumulated)
}
