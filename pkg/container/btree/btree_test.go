package btree

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

func intLess(a, b int) bool { return a < b }

func TestBTree_InsertGetAcrossDegrees(t *testing.T) {
	for _, degree := range []int{2, 3, 8} {
		tr := New[int, string](degree, intLess)
		for i := 0; i < 200; i++ {
			tr.Insert(i, "v")
		}
		require.Equal(t, 200, tr.Len())
		for i := 0; i < 200; i++ {
			v, ok := tr.Get(i)
			require.True(t, ok)
			require.Equal(t, "v", v)
		}
		_, ok := tr.Get(999)
		require.False(t, ok)
	}
}

func TestBTree_AllIsSorted(t *testing.T) {
	tr := New[int, string](3, intLess)
	rng := rand.New(rand.NewSource(1))
	vals := rng.Perm(500)
	for _, v := range vals {
		tr.Insert(v, "v")
	}
	var got []int
	for k := range tr.All() {
		got = append(got, k)
	}
	want := append([]int(nil), vals...)
	sort.Ints(want)
	require.Equal(t, want, got)
}

func TestBTree_EraseAll(t *testing.T) {
	tr := New[int, string](2, intLess)
	rng := rand.New(rand.NewSource(2))
	vals := rng.Perm(300)
	for _, v := range vals {
		tr.Insert(v, "v")
	}
	rng.Shuffle(len(vals), func(i, j int) { vals[i], vals[j] = vals[j], vals[i] })
	for _, v := range vals {
		require.True(t, tr.Erase(v), "erase %d", v)
	}
	require.Equal(t, 0, tr.Len())
	count := 0
	for range tr.All() {
		count++
	}
	require.Equal(t, 0, count)
}

func TestBTree_EraseSomeKeepsOrder(t *testing.T) {
	tr := New[int, string](3, intLess)
	for i := 0; i < 100; i++ {
		tr.Insert(i, "v")
	}
	remaining := map[int]bool{}
	for i := 0; i < 100; i++ {
		remaining[i] = true
	}
	for i := 0; i < 100; i += 3 {
		require.True(t, tr.Erase(i))
		delete(remaining, i)
	}
	var got []int
	for k := range tr.All() {
		got = append(got, k)
	}
	var want []int
	for k := range remaining {
		want = append(want, k)
	}
	sort.Ints(want)
	require.Equal(t, want, got)
}

func TestBTree_Overwrite(t *testing.T) {
	tr := New[int, string](2, intLess)
	tr.Insert(1, "a")
	require.False(t, tr.Insert(1, "b"))
	v, _ := tr.Get(1)
	require.Equal(t, "b", v)
	require.Equal(t, 1, tr.Len())
}

func TestBTree_IteratorPathInfo(t *testing.T) {
	tr := New[int, string](2, intLess)
	for i := 0; i < 50; i++ {
		tr.Insert(i, "v")
	}
	it := NewIterator[int, string](tr)
	var got []int
	maxDepth := 0
	for it.Next() {
		got = append(got, it.Key())
		require.GreaterOrEqual(t, it.Index(), 0)
		require.LessOrEqual(t, it.Index(), it.CurrentNodeKeysCount())
		if it.Depth() > maxDepth {
			maxDepth = it.Depth()
		}
	}
	require.Len(t, got, 50)
	require.True(t, sort.IntsAreSorted(got))
	require.Greater(t, maxDepth, 0)
}
