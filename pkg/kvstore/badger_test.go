package kvstore

import (
	"testing"

	"github.com/fystack/megasena-analyzer/pkg/infra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, prefix string) *BadgerStore {
	t.Helper()
	store, err := NewBadgerStore(t.TempDir(), prefix, infra.JSON)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestBadgerStore_SetGet(t *testing.T) {
	store := newTestStore(t, "test")

	require.NoError(t, store.Set("latest", "2800"))
	v, err := store.Get("latest")
	require.NoError(t, err)
	assert.Equal(t, "2800", v)
	assert.Equal(t, StoreName, store.GetName())
}

func TestBadgerStore_GetMissing(t *testing.T) {
	store := newTestStore(t, "")

	_, err := store.Get("missing")
	assert.ErrorIs(t, err, ErrKeyNotFound)

	var out []int
	found, err := store.GetAny("missing", &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestBadgerStore_EmptyKey(t *testing.T) {
	store := newTestStore(t, "")

	assert.ErrorIs(t, store.Set("", "x"), ErrKeyEmpty)
	assert.ErrorIs(t, store.SetAny("", 1), ErrKeyEmpty)
}

func TestBadgerStore_SetAnyGetAny(t *testing.T) {
	store := newTestStore(t, "p")

	in := []int{3, 7, 11}
	require.NoError(t, store.SetAny("failed", in))

	var out []int
	found, err := store.GetAny("failed", &out)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, in, out)
}

func TestBadgerStore_ListAndDelete(t *testing.T) {
	store := newTestStore(t, "p")

	require.NoError(t, store.Set("a/1", "one"))
	require.NoError(t, store.Set("a/2", "two"))
	require.NoError(t, store.Set("b/1", "other"))

	pairs, err := store.List("a/")
	require.NoError(t, err)
	require.Len(t, pairs, 2)
	assert.Equal(t, "p/a/1", pairs[0].Key)
	assert.Equal(t, []byte("two"), pairs[1].Value)

	require.NoError(t, store.Delete("a/1"))
	pairs, err = store.List("a/")
	require.NoError(t, err)
	assert.Len(t, pairs, 1)

	_, err = store.List("")
	assert.Error(t, err)
}

func TestBadgerStore_InMemory(t *testing.T) {
	store, err := NewBadgerStore("", "", nil)
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Set("k", "v"))
	v, err := store.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v", v)
}
