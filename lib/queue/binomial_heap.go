package queue

import (
	"fmt"
	"sync/atomic"

	"go.uber.org/multierr"

	"github.com/benz9527/xalgo/lib/infra"
)

/*
The forest is indexed by order, slot k is nil or a binomial tree of
order k. The occupied slots spell the binary digits of the heap size.

	size 13 = 0b1101

	slot:   0     1     2     3
	       B0    nil    B2    B3
*/
type binomialHeap[K any] struct {
	forest   []*binomialNode[K]
	cmp      infra.Comparator[K]
	min      K // valid when count > 0
	count    int64
	ordering uint64
}

// Heaps sharing an ordering token may splice their trees together.
// The natural order shares one token, every comparator heap owns a fresh one.
const naturalOrdering uint64 = 0

var orderingSeq atomic.Uint64

func nextOrdering() uint64 {
	return orderingSeq.Add(1)
}

func (heap *binomialHeap[K]) Len() int64 {
	return heap.count
}

func (heap *binomialHeap[K]) IsEmpty() bool {
	return heap.count == 0
}

// union melds a forest into the heap like a binary addition, walking the
// orders upward with a single carry. Size and min are left to the caller.
func (heap *binomialHeap[K]) union(other []*binomialNode[K]) {
	var carry *binomialNode[K]
	for k := 0; k < len(other) || carry != nil; k++ {
		if k == len(heap.forest) {
			heap.forest = append(heap.forest, nil)
		}
		var y *binomialNode[K]
		if k < len(other) {
			y = other[k]
		}
		x := heap.forest[k]
		switch {
		case y == nil && carry == nil:
		case x == nil && carry == nil:
			heap.forest[k] = y
		case x == nil && y == nil:
			heap.forest[k], carry = carry, nil
		case carry == nil:
			heap.forest[k], carry = nil, link(heap.cmp, x, y)
		case y == nil:
			heap.forest[k], carry = nil, link(heap.cmp, x, carry)
		case x == nil:
			heap.forest[k], carry = nil, link(heap.cmp, carry, y)
		default:
			// Three trees of order k, the carry stays.
			heap.forest[k], carry = carry, link(heap.cmp, x, y)
		}
	}
	for n := len(heap.forest); n > 0 && heap.forest[n-1] == nil; n-- {
		heap.forest = heap.forest[:n-1]
	}
}

// minSlot scans the roots in ascending order. The lowest order wins ties.
func (heap *binomialHeap[K]) minSlot() int {
	slot := -1
	for k, root := range heap.forest {
		if root == nil {
			continue
		}
		if slot < 0 || heap.cmp(root.key, heap.forest[slot].key) < 0 {
			slot = k
		}
	}
	return slot
}

func (heap *binomialHeap[K]) refreshMin() {
	if slot := heap.minSlot(); slot >= 0 {
		heap.min = heap.forest[slot].key
		return
	}
	var zero K
	heap.min = zero
}

func (heap *binomialHeap[K]) Insert(key K) {
	heap.union([]*binomialNode[K]{{key: key}})
	if heap.count == 0 || heap.cmp(key, heap.min) < 0 {
		heap.min = key
	}
	heap.count++
}

func (heap *binomialHeap[K]) PeekMin() (key K, err error) {
	if heap.count == 0 {
		return key, ErrBinomialHeapEmpty
	}
	return heap.min, nil
}

// ExtractMin detaches the minimum root. Its children are a complete
// forest of orders 0..k-1 and are melded back.
func (heap *binomialHeap[K]) ExtractMin() (key K, err error) {
	if heap.count == 0 {
		return key, ErrBinomialHeapEmpty
	}
	slot := heap.minSlot()
	if slot < 0 {
		// impossible run to here
		panic( /* debug assertion */ "[binomial heap] non-empty heap without roots")
	}

	root := heap.forest[slot]
	heap.forest[slot] = nil
	children := root.children
	root.children = nil
	heap.union(children)

	heap.count--
	heap.refreshMin()
	return root.key, nil
}

func (heap *binomialHeap[K]) Merge(other MergeablePriorityQueue[K]) {
	if other == nil {
		return
	}
	src, ok := other.(*binomialHeap[K])
	if ok && (src == nil || src == heap) {
		return
	}
	if !ok || src.ordering != heap.ordering {
		// The trees of other are ordered differently, re-insert key by key.
		heap.drain(other)
		return
	}
	if src.count == 0 {
		return
	}

	expected := src.min
	if heap.count > 0 && heap.cmp(heap.min, expected) <= 0 {
		expected = heap.min
	}
	heap.union(src.forest)
	heap.count += src.count
	heap.refreshMin()
	if heap.cmp(heap.min, expected) != 0 {
		// impossible run to here
		panic( /* debug assertion */ "[binomial heap] merge min mismatch")
	}

	var zero K
	src.forest, src.count, src.min = nil, 0, zero
}

func (heap *binomialHeap[K]) drain(other MergeablePriorityQueue[K]) {
	for !other.IsEmpty() {
		key, err := other.ExtractMin()
		if err != nil {
			return
		}
		heap.Insert(key)
	}
}

/*
Validation rules:
v1. Slot k holds a tree of order k, so it has 2^k nodes.
v2. Heap order, a child key is never less than its parent key.
v3. The cached min equals the minimum of the roots.
v4. Len equals the sum of the tree sizes.
*/
func (heap *binomialHeap[K]) Validate() error {
	type frame struct {
		n     *binomialNode[K]
		order int
	}
	var (
		merr                         error
		total                        int64
		minRoot                      *binomialNode[K]
		shapeReported, orderReported bool
		stack                        = make([]frame, 0, 64)
	)

	for k, root := range heap.forest {
		if root == nil {
			continue
		}
		if minRoot == nil || heap.cmp(root.key, minRoot.key) < 0 {
			minRoot = root
		}
		stack = append(stack[:0], frame{n: root, order: k})
		for len(stack) > 0 {
			f := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if total++; /* v4 */ total > heap.count {
				return multierr.Append(merr, fmt.Errorf("%w: reachable nodes exceed len %d",
					ErrBinomialHeapSizeViolation, heap.count))
			}
			if /* v1 */ f.n.order() != f.order && !shapeReported {
				shapeReported = true
				merr = multierr.Append(merr, fmt.Errorf("%w: slot %d key %v order %d, expected %d",
					ErrBinomialHeapShapeViolation, k, f.n.key, f.n.order(), f.order))
			}
			for j, c := range f.n.children {
				if c == nil {
					if !shapeReported {
						shapeReported = true
						merr = multierr.Append(merr, fmt.Errorf("%w: slot %d key %v nil child %d",
							ErrBinomialHeapShapeViolation, k, f.n.key, j))
					}
					continue
				}
				if /* v2 */ heap.cmp(c.key, f.n.key) < 0 && !orderReported {
					orderReported = true
					merr = multierr.Append(merr, fmt.Errorf("%w: slot %d child key %v less than parent key %v",
						ErrBinomialHeapOrderViolation, k, c.key, f.n.key))
				}
				stack = append(stack, frame{n: c, order: j})
			}
		}
	}

	if /* v4 */ total != heap.count {
		merr = multierr.Append(merr, fmt.Errorf("%w: reachable %d, len %d",
			ErrBinomialHeapSizeViolation, total, heap.count))
	}
	if /* v3 */ minRoot != nil && heap.cmp(heap.min, minRoot.key) != 0 {
		merr = multierr.Append(merr, fmt.Errorf("%w: cached %v, roots min %v",
			ErrBinomialHeapMinViolation, heap.min, minRoot.key))
	}
	return merr
}

func (heap *binomialHeap[K]) Clone() MergeablePriorityQueue[K] {
	forest := make([]*binomialNode[K], len(heap.forest))
	for k, root := range heap.forest {
		forest[k] = cloneTree(root)
	}
	return &binomialHeap[K]{
		forest:   forest,
		cmp:      heap.cmp,
		min:      heap.min,
		count:    heap.count,
		ordering: heap.ordering,
	}
}

// Release tears every tree down iteratively. The heap is empty and
// reusable after.
func (heap *binomialHeap[K]) Release() {
	for k, root := range heap.forest {
		releaseTree(root)
		heap.forest[k] = nil
	}
	var zero K
	heap.forest, heap.count, heap.min = nil, 0, zero
}

func NewBinomialHeap[K infra.OrderedKey]() MergeablePriorityQueue[K] {
	return newBinomialHeap[K](infra.OrderedKeyCompare[K], naturalOrdering)
}

func NewBinomialHeapWithComparator[K any](cmp infra.Comparator[K]) MergeablePriorityQueue[K] {
	if cmp == nil {
		panic("[binomial heap] nil key comparator")
	}
	return newBinomialHeap[K](cmp, nextOrdering())
}

func newBinomialHeap[K any](cmp infra.Comparator[K], ordering uint64) *binomialHeap[K] {
	return &binomialHeap[K]{
		forest:   make([]*binomialNode[K], 0, 8),
		cmp:      cmp,
		ordering: ordering,
	}
}
