package queue

// MergeablePriorityQueue is a min-oriented priority queue whose instances
// can be melded together. It is not thread safe.
type MergeablePriorityQueue[K any] interface {
	Len() int64
	IsEmpty() bool
	Insert(key K)
	// PeekMin returns the minimum key without removing it.
	PeekMin() (K, error)
	ExtractMin() (K, error)
	// Merge moves every key of other into the receiver and leaves other
	// empty. Merging a queue into itself or a nil queue is a no-op.
	// The keys of other are re-ordered by the receiver's comparator.
	Merge(other MergeablePriorityQueue[K])
	// Validate returns nil iff the structural and ordering invariants hold.
	Validate() error
	Clone() MergeablePriorityQueue[K]
	Release()
}

type BinomialHeapErr string

const (
	ErrBinomialHeapEmpty          BinomialHeapErr = "binomial heap is empty"
	ErrBinomialHeapShapeViolation BinomialHeapErr = "binomial heap shape violation"
	ErrBinomialHeapOrderViolation BinomialHeapErr = "binomial heap order violation"
	ErrBinomialHeapMinViolation   BinomialHeapErr = "binomial heap min violation"
	ErrBinomialHeapSizeViolation  BinomialHeapErr = "binomial heap size violation"
)

func (err BinomialHeapErr) Error() string {
	return string(err)
}
