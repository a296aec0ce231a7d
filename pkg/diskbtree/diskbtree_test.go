package diskbtree

import (
	"fmt"
	"math/rand"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

func int64Less(a, b int64) bool { return a < b }

func openTemp(t *testing.T) *Tree[int64, string] {
	t.Helper()
	dir := t.TempDir()
	tr, err := Open[int64, string](
		filepath.Join(dir, "nodes.db"),
		filepath.Join(dir, "data.db"),
		Int64Codec{}, int64Less,
	)
	require.NoError(t, err)
	return tr
}

func TestDiskBTree_InsertGetRoundTrip(t *testing.T) {
	tr := openTemp(t)
	defer tr.Close()

	for i := int64(0); i < 300; i++ {
		created, err := tr.Insert(i, fmt.Sprintf("v%d", i))
		require.NoError(t, err)
		require.True(t, created)
	}
	require.Equal(t, 300, tr.Len())

	for i := int64(0); i < 300; i++ {
		v, ok := tr.Get(i)
		require.True(t, ok)
		require.Equal(t, fmt.Sprintf("v%d", i), v)
	}
	_, ok := tr.Get(999)
	require.False(t, ok)
}

func TestDiskBTree_OverwriteDoesNotGrowSize(t *testing.T) {
	tr := openTemp(t)
	defer tr.Close()

	created, err := tr.Insert(1, "a")
	require.NoError(t, err)
	require.True(t, created)

	created, err = tr.Insert(1, "b")
	require.NoError(t, err)
	require.False(t, created)

	v, ok := tr.Get(1)
	require.True(t, ok)
	require.Equal(t, "b", v)
	require.Equal(t, 1, tr.Len())
}

func TestDiskBTree_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	nodePath := filepath.Join(dir, "nodes.db")
	dataPath := filepath.Join(dir, "data.db")

	tr, err := Open[int64, string](nodePath, dataPath, Int64Codec{}, int64Less)
	require.NoError(t, err)
	rng := rand.New(rand.NewSource(7))
	keys := rng.Perm(500)
	for _, k := range keys {
		_, err := tr.Insert(int64(k), fmt.Sprintf("val-%d", k))
		require.NoError(t, err)
	}
	require.NoError(t, tr.Close())

	reopened, err := Open[int64, string](nodePath, dataPath, Int64Codec{}, int64Less)
	require.NoError(t, err)
	defer reopened.Close()

	require.Equal(t, 500, reopened.Len())
	for _, k := range keys {
		v, ok := reopened.Get(int64(k))
		require.True(t, ok)
		require.Equal(t, fmt.Sprintf("val-%d", k), v)
	}
}

func TestDiskBTree_RangeSeqForwardOnly(t *testing.T) {
	tr := openTemp(t)
	defer tr.Close()

	for i := int64(0); i < 100; i++ {
		_, err := tr.Insert(i, fmt.Sprintf("v%d", i))
		require.NoError(t, err)
	}

	var got []int64
	for k := range tr.RangeSeq(Inclusive[int64](10), Exclusive[int64](20)) {
		got = append(got, k)
	}
	require.True(t, sort.SliceIsSorted(got, func(i, j int) bool { return got[i] < got[j] }))
	require.Len(t, got, 10)
	require.Equal(t, int64(10), got[0])
	require.Equal(t, int64(19), got[len(got)-1])
}

func TestDiskBTree_DeleteRemovesKey(t *testing.T) {
	tr := openTemp(t)
	defer tr.Close()

	for i := int64(0); i < 50; i++ {
		_, err := tr.Insert(i, "v")
		require.NoError(t, err)
	}
	ok, err := tr.Delete(25)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 49, tr.Len())

	_, found := tr.Get(25)
	require.False(t, found)

	ok, err = tr.Delete(25)
	require.NoError(t, err)
	require.False(t, ok)

	var got []int64
	for k := range tr.RangeSeq(Unbounded[int64](), Unbounded[int64]()) {
		got = append(got, k)
	}
	require.Len(t, got, 49)
	require.True(t, sort.SliceIsSorted(got, func(i, j int) bool { return got[i] < got[j] }))
}
