package tree

import "math"

// rbHandle addresses a node inside the tree arena.
// The zero handle is the nil leaf, which is always black.
type rbHandle int32

const nilLeaf rbHandle = 0

type rbNode[K any, V any] struct {
	key    K
	val    V
	parent rbHandle
	left   rbHandle
	right  rbHandle
	color  RBColor
}

// rbArena owns every node of a tree. Parent and child links are
// handles, so there are no pointer cycles and teardown is a slice drop.
type rbArena[K any, V any] struct {
	nodes    []rbNode[K, V] // nodes[0] is the nil leaf placeholder
	recycled []rbHandle
}

func (arena *rbArena[K, V]) allocate(key K, val V, color RBColor) rbHandle {
	if len(arena.nodes) == 0 {
		arena.nodes = append(arena.nodes, rbNode[K, V]{})
	}
	if n := len(arena.recycled); n > 0 {
		h := arena.recycled[n-1]
		arena.recycled = arena.recycled[:n-1]
		arena.nodes[h] = rbNode[K, V]{key: key, val: val, color: color}
		return h
	}
	if len(arena.nodes) > math.MaxInt32 {
		panic( /* debug assertion */ "[rbtree] arena handles exhausted")
	}
	arena.nodes = append(arena.nodes, rbNode[K, V]{key: key, val: val, color: color})
	return rbHandle(len(arena.nodes) - 1)
}

// recycle zeroes the node so that the key and value can be collected.
func (arena *rbArena[K, V]) recycle(h rbHandle) {
	arena.nodes[h] = rbNode[K, V]{}
	arena.recycled = append(arena.recycled, h)
}

func (arena *rbArena[K, V]) clone() rbArena[K, V] {
	nodes := make([]rbNode[K, V], len(arena.nodes), cap(arena.nodes))
	copy(nodes, arena.nodes)
	recycled := make([]rbHandle, len(arena.recycled))
	copy(recycled, arena.recycled)
	return rbArena[K, V]{nodes: nodes, recycled: recycled}
}

func (arena *rbArena[K, V]) release() {
	clear(arena.nodes)
	arena.nodes = nil
	arena.recycled = nil
}

func (arena *rbArena[K, V]) node(h rbHandle) *rbNode[K, V] {
	if h == nilLeaf {
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] access nil leaf node")
	}
	return &arena.nodes[h]
}

func (arena *rbArena[K, V]) parent(h rbHandle) rbHandle { return arena.nodes[h].parent }
func (arena *rbArena[K, V]) left(h rbHandle) rbHandle   { return arena.nodes[h].left }
func (arena *rbArena[K, V]) right(h rbHandle) rbHandle  { return arena.nodes[h].right }

func (arena *rbArena[K, V]) isRed(h rbHandle) bool {
	return h != nilLeaf && arena.nodes[h].color == Red
}

func (arena *rbArena[K, V]) isBlack(h rbHandle) bool {
	return !arena.isRed(h)
}

func (arena *rbArena[K, V]) setColor(h rbHandle, color RBColor) {
	if h == nilLeaf {
		return
	}
	arena.nodes[h].color = color
}

func (arena *rbArena[K, V]) direction(h rbHandle) rbDirection {
	if h == nilLeaf {
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] nil leaf node without direction")
	}
	p := arena.nodes[h].parent
	if p == nilLeaf {
		return dirRoot
	}
	if arena.nodes[p].left == h {
		return dirLeft
	}
	return dirRight
}

func (arena *rbArena[K, V]) sibling(h rbHandle) rbHandle {
	p := arena.nodes[h].parent
	switch arena.direction(h) {
	case dirLeft:
		return arena.nodes[p].right
	case dirRight:
		return arena.nodes[p].left
	default:
	}
	return nilLeaf
}

func (arena *rbArena[K, V]) minimum(h rbHandle) rbHandle {
	for h != nilLeaf && arena.nodes[h].left != nilLeaf {
		h = arena.nodes[h].left
	}
	return h
}

func (arena *rbArena[K, V]) maximum(h rbHandle) rbHandle {
	for h != nilLeaf && arena.nodes[h].right != nilLeaf {
		h = arena.nodes[h].right
	}
	return h
}

// The pred node of the current node is its previous node in sorted order.
func (arena *rbArena[K, V]) pred(x rbHandle) rbHandle {
	if x == nilLeaf {
		return nilLeaf
	}
	if l := arena.nodes[x].left; l != nilLeaf {
		return arena.maximum(l)
	}
	// Backtrack to father node that is the x's pred.
	aux := arena.nodes[x].parent
	for aux != nilLeaf && x == arena.nodes[aux].left {
		x = aux
		aux = arena.nodes[aux].parent
	}
	return aux
}

// The succ node of the current node is its next node in sorted order.
func (arena *rbArena[K, V]) succ(x rbHandle) rbHandle {
	if x == nilLeaf {
		return nilLeaf
	}
	if r := arena.nodes[x].right; r != nilLeaf {
		return arena.minimum(r)
	}
	// Backtrack to father node that is the x's succ.
	aux := arena.nodes[x].parent
	for aux != nilLeaf && x == arena.nodes[aux].right {
		x = aux
		aux = arena.nodes[aux].parent
	}
	return aux
}
