package tree

import "iter"

// go install golang.org/x/tools/cmd/stringer@latest

//go:generate stringer -type=RBColor
type RBColor uint8

const (
	Black RBColor = iota
	Red
)

type rbDirection int8

const (
	dirLeft rbDirection = -1 + iota
	dirRoot
	dirRight
)

// RBTree is an ordered map backed by a red-black tree.
// Keys are unique, the value type is opaque to the tree.
// It is not thread safe.
type RBTree[K any, V any] interface {
	Len() int64
	Get(key K) (V, bool)
	Contains(key K) bool
	// Insert stores the key and value if the key is absent and returns
	// (val, true). If the key is present, the existing value is returned
	// unchanged with false.
	Insert(key K, val V) (V, bool)
	// Remove deletes the key and returns its value. Absent key is a no-op.
	Remove(key K) (V, bool)
	RemoveMin() (K, V, bool)
	Min() (K, V, bool)
	Max() (K, V, bool)
	// All enumerates the entries lazily in ascending key order.
	// Mutating the tree while ranging is not supported.
	All() iter.Seq2[K, V]
	Keys() iter.Seq[K]
	Foreach(action func(idx int64, color RBColor, key K, val V) bool)
	// Validate returns nil iff every red-black tree property holds.
	// All violations found are combined into the returned error.
	Validate() error
	IsValid() bool
	BlackHeight() int
	Height() int
	// Clone returns a deep copy of the tree structure.
	Clone() RBTree[K, V]
	Release()
}
