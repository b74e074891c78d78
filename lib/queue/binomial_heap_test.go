package queue

import (
	"errors"
	randv2 "math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benz9527/xalgo/lib/infra"
)

func drain[K any](t *testing.T, pq MergeablePriorityQueue[K]) []K {
	t.Helper()
	keys := make([]K, 0, pq.Len())
	for !pq.IsEmpty() {
		key, err := pq.ExtractMin()
		require.NoError(t, err)
		keys = append(keys, key)
	}
	return keys
}

func TestBinomialHeap_Basic(t *testing.T) {
	pq := NewBinomialHeap[int]()
	require.True(t, pq.IsEmpty())
	for _, key := range []int{4, 1, 3, 2, 5} {
		pq.Insert(key)
	}
	require.Equal(t, int64(5), pq.Len())
	require.NoError(t, pq.Validate())

	key, err := pq.PeekMin()
	require.NoError(t, err)
	require.Equal(t, 1, key)

	expected := []int{1, 2, 3, 4, 5}
	for i := range expected {
		key, err = pq.ExtractMin()
		require.NoError(t, err)
		require.Equal(t, expected[i], key)
		require.NoError(t, pq.Validate())
	}

	_, err = pq.ExtractMin()
	require.ErrorIs(t, err, ErrBinomialHeapEmpty)
	_, err = pq.PeekMin()
	require.True(t, errors.Is(err, ErrBinomialHeapEmpty))
	require.Equal(t, int64(0), pq.Len())
}

func TestBinomialHeap_Merge(t *testing.T) {
	a, b := NewBinomialHeap[int](), NewBinomialHeap[int]()
	for _, key := range []int{1, 4, 6} {
		a.Insert(key)
	}
	for _, key := range []int{2, 3, 5} {
		b.Insert(key)
	}
	a.Merge(b)
	require.NoError(t, a.Validate())
	require.NoError(t, b.Validate())
	require.True(t, b.IsEmpty())
	_, err := b.PeekMin()
	require.ErrorIs(t, err, ErrBinomialHeapEmpty)

	require.Equal(t, int64(6), a.Len())
	require.Equal(t, []int{1, 2, 3, 4, 5, 6}, drain(t, a))

	// The drained source is still usable.
	b.Insert(9)
	key, err := b.PeekMin()
	require.NoError(t, err)
	require.Equal(t, 9, key)
}

func TestBinomialHeap_MergeEdgeCases(t *testing.T) {
	testcases := []struct {
		name     string
		dst, src []int
	}{
		{name: "both empty"},
		{name: "into empty", src: []int{3, 1, 2}},
		{name: "from empty", dst: []int{3, 1, 2}},
		{name: "src min lower", dst: []int{10, 20, 30}, src: []int{1}},
		{name: "dst min lower", dst: []int{1}, src: []int{10, 20, 30}},
		{name: "equal mins", dst: []int{5, 5, 7}, src: []int{5, 6}},
		{name: "carry chain", dst: ascendingKeys(1, 31), src: []int{0}},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(tt *testing.T) {
			dst, src := NewBinomialHeap[int](), NewBinomialHeap[int]()
			for _, key := range tc.dst {
				dst.Insert(key)
			}
			for _, key := range tc.src {
				src.Insert(key)
			}
			dst.Merge(src)
			require.NoError(tt, dst.Validate())
			require.True(tt, src.IsEmpty())

			expected := append(slices.Clone(tc.dst), tc.src...)
			slices.Sort(expected)
			require.Equal(tt, int64(len(expected)), dst.Len())
			actual := drain(tt, dst)
			if len(expected) == 0 {
				require.Empty(tt, actual)
				return
			}
			require.Equal(tt, expected, actual)
		})
	}
}

func ascendingKeys(from, n int) []int {
	keys := make([]int, n)
	for i := range keys {
		keys[i] = from + i
	}
	return keys
}

func TestBinomialHeap_SelfMerge(t *testing.T) {
	pq := NewBinomialHeap[int]()
	for _, key := range []int{3, 1, 2} {
		pq.Insert(key)
	}
	pq.Merge(pq)
	pq.Merge(nil)
	require.Equal(t, int64(3), pq.Len())
	require.NoError(t, pq.Validate())
	require.Equal(t, []int{1, 2, 3}, drain(t, pq))
}

// sortedSliceQueue is a naive queue to exercise the merge of a foreign
// implementation.
type sortedSliceQueue struct {
	keys []int
}

func (q *sortedSliceQueue) Len() int64    { return int64(len(q.keys)) }
func (q *sortedSliceQueue) IsEmpty() bool { return len(q.keys) == 0 }
func (q *sortedSliceQueue) Insert(key int) {
	idx, _ := slices.BinarySearch(q.keys, key)
	q.keys = slices.Insert(q.keys, idx, key)
}

func (q *sortedSliceQueue) PeekMin() (int, error) {
	if q.IsEmpty() {
		return 0, ErrBinomialHeapEmpty
	}
	return q.keys[0], nil
}

func (q *sortedSliceQueue) ExtractMin() (int, error) {
	if q.IsEmpty() {
		return 0, ErrBinomialHeapEmpty
	}
	key := q.keys[0]
	q.keys = q.keys[1:]
	return key, nil
}

func (q *sortedSliceQueue) Merge(other MergeablePriorityQueue[int]) {
	for !other.IsEmpty() {
		key, _ := other.ExtractMin()
		q.Insert(key)
	}
}

func (q *sortedSliceQueue) Validate() error { return nil }
func (q *sortedSliceQueue) Clone() MergeablePriorityQueue[int] {
	return &sortedSliceQueue{keys: slices.Clone(q.keys)}
}
func (q *sortedSliceQueue) Release() { q.keys = nil }

func TestBinomialHeap_MergeForeign(t *testing.T) {
	foreign := &sortedSliceQueue{}
	for _, key := range []int{8, 2, 6} {
		foreign.Insert(key)
	}
	pq := NewBinomialHeap[int]()
	for _, key := range []int{7, 1} {
		pq.Insert(key)
	}
	pq.Merge(foreign)
	require.True(t, foreign.IsEmpty())
	require.NoError(t, pq.Validate())
	require.Equal(t, []int{1, 2, 6, 7, 8}, drain(t, pq))
}

func TestBinomialHeap_MergeDifferentOrdering(t *testing.T) {
	pq := NewBinomialHeap[int]()
	pq.Insert(5)
	reversed := NewBinomialHeapWithComparator[int](infra.Reverse(infra.OrderedKeyCompare[int]))
	for _, key := range []int{1, 2, 3} {
		reversed.Insert(key)
	}
	pq.Merge(reversed)
	require.True(t, reversed.IsEmpty())
	require.Equal(t, int64(4), pq.Len())
	require.NoError(t, pq.Validate())
	top, err := pq.PeekMin()
	require.NoError(t, err)
	require.Equal(t, 1, top)
	require.Equal(t, []int{1, 2, 3, 5}, drain(t, pq))

	// Both ways round.
	reversed.Insert(5)
	other := NewBinomialHeap[int]()
	for _, key := range ascendingKeys(0, 7) {
		other.Insert(key)
	}
	reversed.Merge(other)
	require.True(t, other.IsEmpty())
	require.NoError(t, reversed.Validate())
	require.Equal(t, []int{6, 5, 5, 4, 3, 2, 1, 0}, drain(t, reversed))
}

func TestBinomialHeap_MergeSameOrderingSplicesTrees(t *testing.T) {
	cmp := infra.Reverse(infra.OrderedKeyCompare[int])
	a := NewBinomialHeapWithComparator[int](cmp)
	for _, key := range ascendingKeys(0, 4) {
		a.Insert(key)
	}
	b := a.Clone()
	require.Equal(t, a.(*binomialHeap[int]).ordering, b.(*binomialHeap[int]).ordering)
	a.Merge(b)
	require.True(t, b.IsEmpty())
	// Two order-2 trees linked into one order-3 tree.
	forest := a.(*binomialHeap[int]).forest
	require.Len(t, forest, 4)
	require.NotNil(t, forest[3])
	require.NoError(t, a.Validate())
	require.Equal(t, []int{3, 3, 2, 2, 1, 1, 0, 0}, drain(t, a))

	require.NotEqual(t,
		NewBinomialHeapWithComparator[int](cmp).(*binomialHeap[int]).ordering,
		NewBinomialHeapWithComparator[int](cmp).(*binomialHeap[int]).ordering,
	)
	require.Equal(t,
		NewBinomialHeap[int]().(*binomialHeap[int]).ordering,
		NewBinomialHeap[int]().(*binomialHeap[int]).ordering,
	)
}

func TestBinomialHeap_MergeTypedNil(t *testing.T) {
	pq := NewBinomialHeap[int]()
	pq.Insert(2)
	require.NotPanics(t, func() {
		pq.Merge((*binomialHeap[int])(nil))
	})
	require.Equal(t, int64(1), pq.Len())
	require.NoError(t, pq.Validate())
}

func TestBinomialHeap_HeapSort(t *testing.T) {
	testcases := []struct {
		name       string
		total      int
		keyRange   int
		checkEvery bool
	}{
		{name: "1", total: 1, keyRange: 10, checkEvery: true},
		{name: "duplicates", total: 500, keyRange: 16, checkEvery: true},
		{name: "distinct 1000", total: 1000, keyRange: 1 << 30, checkEvery: true},
		{name: "distinct 100000", total: 100_000, keyRange: 1 << 30},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(tt *testing.T) {
			pq := NewBinomialHeap[int]()
			keys := make([]int, 0, tc.total)
			for i := 0; i < tc.total; i++ {
				key := randv2.IntN(tc.keyRange)
				keys = append(keys, key)
				pq.Insert(key)
				require.Equal(tt, int64(i+1), pq.Len())
				if tc.checkEvery {
					require.NoError(tt, pq.Validate())
				}
			}
			require.NoError(tt, pq.Validate())
			slices.Sort(keys)

			prev := keys[0]
			for i := 0; i < tc.total; i++ {
				key, err := pq.ExtractMin()
				require.NoError(tt, err)
				require.LessOrEqual(tt, prev, key)
				require.Equal(tt, keys[i], key)
				require.Equal(tt, int64(tc.total-i-1), pq.Len())
				if tc.checkEvery {
					require.NoError(tt, pq.Validate())
				}
				prev = key
			}
			require.True(tt, pq.IsEmpty())
		})
	}
}

func TestBinomialHeap_InterleavedSize(t *testing.T) {
	pq := NewBinomialHeap[uint32]()
	inserts, extracts := int64(0), int64(0)
	shadow := make([]uint32, 0, 1024)
	for i := 0; i < 10_000; i++ {
		if randv2.IntN(3) == 0 {
			key, err := pq.ExtractMin()
			if len(shadow) == 0 {
				require.ErrorIs(t, err, ErrBinomialHeapEmpty)
				continue
			}
			require.NoError(t, err)
			require.Equal(t, shadow[0], key)
			shadow = shadow[1:]
			extracts++
		} else {
			key := randv2.Uint32() % 4096
			pq.Insert(key)
			idx, _ := slices.BinarySearch(shadow, key)
			shadow = slices.Insert(shadow, idx, key)
			inserts++
		}
		require.Equal(t, inserts-extracts, pq.Len())
	}
	require.NoError(t, pq.Validate())
}

func TestBinomialHeap_MergeRandomUnion(t *testing.T) {
	for round := 0; round < 20; round++ {
		a, b := NewBinomialHeap[int64](), NewBinomialHeap[int64]()
		expected := make([]int64, 0, 512)
		for i, n := 0, randv2.IntN(256); i < n; i++ {
			key := randv2.Int64N(100)
			a.Insert(key)
			expected = append(expected, key)
		}
		for i, n := 0, randv2.IntN(256); i < n; i++ {
			key := randv2.Int64N(100)
			b.Insert(key)
			expected = append(expected, key)
		}
		slices.Sort(expected)

		a.Merge(b)
		require.True(t, b.IsEmpty())
		require.Equal(t, int64(0), b.Len())
		require.NoError(t, a.Validate())
		actual := drain(t, a)
		if len(expected) == 0 {
			require.Empty(t, actual)
			continue
		}
		require.Equal(t, expected, actual)
	}
}

func TestBinomialHeap_ForestShape(t *testing.T) {
	pq := newBinomialHeap[int](infra.OrderedKeyCompare[int], naturalOrdering)
	for i := 0; i < 13; i++ {
		pq.Insert(randv2.Int())
	}
	// 13 = 0b1101
	require.Len(t, pq.forest, 4)
	require.NotNil(t, pq.forest[0])
	require.Nil(t, pq.forest[1])
	require.NotNil(t, pq.forest[2])
	require.NotNil(t, pq.forest[3])
	for k, root := range pq.forest {
		if root != nil {
			require.Equal(t, k, root.order())
		}
	}

	_, err := pq.ExtractMin()
	require.NoError(t, err)
	require.NoError(t, pq.Validate())
	// 12 = 0b1100
	require.Len(t, pq.forest, 4)
	require.Nil(t, pq.forest[0])
	require.Nil(t, pq.forest[1])
}

func TestBinomialTree_LinkTie(t *testing.T) {
	type task struct {
		priority int
		name     string
	}
	cmp := func(i, j task) int64 { return int64(i.priority - j.priority) }

	x := &binomialNode[task]{key: task{priority: 1, name: "x"}}
	y := &binomialNode[task]{key: task{priority: 1, name: "y"}}
	root := link[task](cmp, x, y)
	require.Equal(t, "x", root.key.name)
	require.Equal(t, 1, root.order())
	require.Same(t, y, root.children[0])

	z := &binomialNode[task]{key: task{priority: 0, name: "z"}}
	w := &binomialNode[task]{key: task{priority: 2, name: "w"}}
	root = link[task](cmp, w, z)
	require.Equal(t, "z", root.key.name)

	require.Panics(t, func() {
		link[task](cmp, x, &binomialNode[task]{key: task{priority: 3, name: "v"}})
	})
}

func TestBinomialHeap_Comparator(t *testing.T) {
	pq := NewBinomialHeapWithComparator[int](infra.Reverse(infra.OrderedKeyCompare[int]))
	for _, key := range []int{4, 9, 1, 7} {
		pq.Insert(key)
	}
	require.Equal(t, []int{9, 7, 4, 1}, drain(t, pq))

	require.Panics(t, func() {
		NewBinomialHeapWithComparator[int](nil)
	})
}

func TestBinomialHeap_Clone(t *testing.T) {
	pq := NewBinomialHeap[int]()
	for _, key := range randv2.Perm(100) {
		pq.Insert(key)
	}
	cloned := pq.Clone()
	require.NoError(t, cloned.Validate())
	require.Equal(t, pq.Len(), cloned.Len())

	for i := 0; i < 50; i++ {
		_, err := pq.ExtractMin()
		require.NoError(t, err)
	}
	cloned.Insert(-1)

	key, err := pq.PeekMin()
	require.NoError(t, err)
	require.Equal(t, 50, key)
	key, err = cloned.PeekMin()
	require.NoError(t, err)
	require.Equal(t, -1, key)

	assert.Equal(t, ascendingKeys(-1, 101), drain(t, cloned))
	assert.Equal(t, ascendingKeys(50, 50), drain(t, pq))
}

func TestBinomialHeap_Release(t *testing.T) {
	pq := NewBinomialHeap[int]()
	for i := 0; i < 1<<16; i++ {
		pq.Insert(i)
	}
	pq.Release()
	require.True(t, pq.IsEmpty())
	require.NoError(t, pq.Validate())
	_, err := pq.PeekMin()
	require.ErrorIs(t, err, ErrBinomialHeapEmpty)

	pq.Insert(2)
	pq.Insert(1)
	require.Equal(t, []int{1, 2}, drain(t, pq))
}

func TestBinomialHeap_ValidateViolations(t *testing.T) {
	testcases := []struct {
		name     string
		corrupt  func(pq *binomialHeap[int])
		expected error
	}{
		{
			name: "child less than parent",
			corrupt: func(pq *binomialHeap[int]) {
				pq.forest[2].children[1].key = 0
			},
			expected: ErrBinomialHeapOrderViolation,
		},
		{
			name: "stale cached min",
			corrupt: func(pq *binomialHeap[int]) {
				pq.min = 42
			},
			expected: ErrBinomialHeapMinViolation,
		},
		{
			name: "len larger than nodes",
			corrupt: func(pq *binomialHeap[int]) {
				pq.count = 7
			},
			expected: ErrBinomialHeapSizeViolation,
		},
		{
			name: "len smaller than nodes",
			corrupt: func(pq *binomialHeap[int]) {
				pq.count = 2
			},
			expected: ErrBinomialHeapSizeViolation,
		},
		{
			name: "tree order mismatch",
			corrupt: func(pq *binomialHeap[int]) {
				pq.forest[2].children = pq.forest[2].children[:1]
			},
			expected: ErrBinomialHeapShapeViolation,
		},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(tt *testing.T) {
			pq := newBinomialHeap[int](infra.OrderedKeyCompare[int], naturalOrdering)
			for _, key := range []int{1, 2, 3, 4} {
				pq.Insert(key)
			}
			require.NoError(tt, pq.Validate())
			require.Len(tt, pq.forest, 3)

			tc.corrupt(pq)
			err := pq.Validate()
			require.Error(tt, err)
			require.ErrorIs(tt, err, tc.expected)
		})
	}
}

func BenchmarkBinomialHeap_Insert(b *testing.B) {
	b.StopTimer()
	pq := NewBinomialHeap[int]()
	keys := make([]int, 0, b.N)
	for i := 0; i < b.N; i++ {
		keys = append(keys, randv2.Int())
	}
	b.StartTimer()
	for i := 0; i < b.N; i++ {
		pq.Insert(keys[i])
	}
}

func BenchmarkBinomialHeap_InsertExtract(b *testing.B) {
	pq := NewBinomialHeap[int]()
	for i := 0; i < 1024; i++ {
		pq.Insert(randv2.Int())
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		pq.Insert(randv2.Int())
		_, _ = pq.ExtractMin()
	}
}

func BenchmarkBinomialHeap_Merge(b *testing.B) {
	for i := 0; i < b.N; i++ {
		x, y := NewBinomialHeap[int](), NewBinomialHeap[int]()
		for j := 0; j < 64; j++ {
			x.Insert(j)
			y.Insert(-j)
		}
		x.Merge(y)
	}
}
