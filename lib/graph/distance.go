package graph

import (
	"math"
	"math/bits"
	"strconv"
)

// Distance is a non-negative path length or the infinity.
// The zero value is the infinity, the distance of an unreached vertex.
type Distance struct {
	value  uint64
	finite bool
}

func Finite(n uint64) Distance {
	return Distance{value: n, finite: true}
}

func Infinity() Distance {
	return Distance{}
}

func (d Distance) IsInf() bool {
	return !d.finite
}

// Value returns math.MaxUint64 for the infinity.
func (d Distance) Value() uint64 {
	if d.IsInf() {
		return math.MaxUint64
	}
	return d.value
}

// Add saturates. The infinity absorbs any operand and an overflow
// results in the infinity.
func (d Distance) Add(o Distance) Distance {
	if d.IsInf() || o.IsInf() {
		return Infinity()
	}
	sum, carry := bits.Add64(d.value, o.value, 0)
	if carry != 0 {
		return Infinity()
	}
	return Finite(sum)
}

// Compare orders the infinity after every finite distance and equal
// to itself.
func (d Distance) Compare(o Distance) int64 {
	switch {
	case d.IsInf() && o.IsInf():
		return 0
	case d.IsInf():
		return 1
	case o.IsInf():
		return -1
	case d.value < o.value:
		return -1
	case d.value > o.value:
		return 1
	default:
	}
	return 0
}

func (d Distance) Less(o Distance) bool {
	return d.Compare(o) < 0
}

func (d Distance) String() string {
	if d.IsInf() {
		return "inf"
	}
	return strconv.FormatUint(d.value, 10)
}

// DistanceComparator adapts Distance.Compare to the collections.
func DistanceComparator(i, j Distance) int64 {
	return i.Compare(j)
}
