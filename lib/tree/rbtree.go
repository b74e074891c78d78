package tree

import (
	"iter"

	"github.com/benz9527/xalgo/lib/infra"
)

type rbTree[K any, V any] struct {
	arena          rbArena[K, V]
	cmp            infra.Comparator[K]
	root           rbHandle
	count          int64
	isRmBorrowPred bool
	isDesc         bool
}

func (tree *rbTree[K, V]) Len() int64 {
	return tree.count
}

// References:
// https://elixir.bootlin.com/linux/latest/source/lib/rbtree.c
// rbtree properties:
// https://en.wikipedia.org/wiki/Red%E2%80%93black_tree#Properties
// p1. Every node is either red or black.
// p2. All NIL nodes are considered black.
// p3. A red node does not have a red child. (red-violation)
// p4. Every path from a given node to any of its descendant
//   NIL nodes goes through the same number of black nodes. (black-violation)
// p5. The root is black.
// (Conclusion) If a node X has exactly one child, it must be a red child,
//   because if it were black, its NIL descendants would sit at a different
//   black depth than X's NIL child, violating p4.
// The longest path nodes' number is 2 * shortest path nodes' number.

// replaceChild links the new child into the slot of old child under p,
// and fixes the new child's parent link. A nil p means the tree root.
func (tree *rbTree[K, V]) replaceChild(p, old, repl rbHandle) {
	if p == nilLeaf {
		tree.root = repl
	} else if tree.arena.left(p) == old {
		tree.arena.node(p).left = repl
	} else {
		tree.arena.node(p).right = repl
	}
	if repl != nilLeaf {
		tree.arena.node(repl).parent = p
	}
}

/*
		 |                         |
		 X                         S
		/ \     leftRotate(X)     / \
	   L   S    ============>    X   Sd
		  / \                   / \
		Sc   Sd                L   Sc
*/
func (tree *rbTree[K, V]) leftRotate(x rbHandle) {
	y := tree.arena.right(x)
	if y == nilLeaf {
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] left rotate node x.right is nil")
	}

	p, sc := tree.arena.parent(x), tree.arena.left(y)
	tree.arena.node(x).right = sc
	if sc != nilLeaf {
		tree.arena.node(sc).parent = x
	}
	tree.replaceChild(p, x, y)
	tree.arena.node(y).left = x
	tree.arena.node(x).parent = y
}

/*
			 |                         |
			 X                         L
			/ \     rightRotate(X)    / \
	       L   R    ============>   Ld   X
		  / \                           / \
		Ld   Lc                        Lc  R
*/
func (tree *rbTree[K, V]) rightRotate(x rbHandle) {
	y := tree.arena.left(x)
	if y == nilLeaf {
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] right rotate node x.left is nil")
	}

	p, lc := tree.arena.parent(x), tree.arena.right(y)
	tree.arena.node(x).left = lc
	if lc != nilLeaf {
		tree.arena.node(lc).parent = x
	}
	tree.replaceChild(p, x, y)
	tree.arena.node(y).right = x
	tree.arena.node(x).parent = y
}

func (tree *rbTree[K, V]) search(key K) rbHandle {
	for aux := tree.root; aux != nilLeaf; {
		res := tree.cmp(key, tree.arena.nodes[aux].key)
		if res == 0 {
			return aux
		} else if res > 0 {
			aux = tree.arena.nodes[aux].right
		} else {
			aux = tree.arena.nodes[aux].left
		}
	}
	return nilLeaf
}

func (tree *rbTree[K, V]) Get(key K) (val V, ok bool) {
	if x := tree.search(key); x != nilLeaf {
		return tree.arena.nodes[x].val, true
	}
	return val, false
}

func (tree *rbTree[K, V]) Contains(key K) bool {
	return tree.search(key) != nilLeaf
}

// i1: Empty rbtree, insert directly, but root node is painted to black.
// i2: Key is present, keep the existing entry unchanged.
func (tree *rbTree[K, V]) Insert(key K, val V) (V, bool) {
	if /* i1 */ tree.root == nilLeaf {
		tree.root = tree.arena.allocate(key, val, Black)
		tree.count++
		return val, true
	}

	var (
		x, y = tree.root, nilLeaf
		res  int64
	)
	for x != nilLeaf {
		y = x
		res = tree.cmp(key, tree.arena.nodes[x].key)
		if /* i2 */ res == 0 {
			return tree.arena.nodes[x].val, false
		} else if /* less */ res < 0 {
			x = tree.arena.nodes[x].left
		} else /* greater */ {
			x = tree.arena.nodes[x].right
		}
	}

	z := tree.arena.allocate(key, val, Red)
	tree.arena.node(z).parent = y
	if res < 0 {
		tree.arena.node(y).left = z
	} else {
		tree.arena.node(y).right = z
	}

	tree.count++
	tree.insertRebalance(z)
	return val, true
}

/*
New node X is red by default.

<X> is a RED node.
[X] is a BLACK node (or NIL).
{X} is either a RED node or a BLACK node.

im1: Current node X is root, repaint it into black.

im2: Current node X's parent P is black, hold p3 and p4.

im3: If both the parent P and the uncle U are red, grandpa G is black.
(red-violation)
After repainted G into red may be still red-violation.
Continue to fix grandpa.

	    [G]             <G>
	    / \             / \
	  <P> <U>  ====>  [P] [U]
	  /               /
	<X>             <X>

im4: The parent P is red but the uncle U is black. (red-violation)
X is opposite direction to P (inner grandchild). Rotate P to opposite
direction. After rotation it is still red-violation, enter im5 to fix.

	  [G]                 [G]
	  / \    rotate(P)    / \
	<P> [U]  ========>  <X> [U]
	  \                 /
	  <X>             <P>

im5: X is the same direction as parent (outer grandchild).

	    [G]                 <P>               [P]
	    / \    rotate(G)    / \    repaint    / \
	  <P> [U]  ========>  <X> [G]  ======>  <X> <G>
	  /                         \                 \
	<X>                         [U]               [U]
*/
func (tree *rbTree[K, V]) insertRebalance(x rbHandle) {
	for {
		p := tree.arena.parent(x)
		if /* im1 */ p == nilLeaf {
			tree.arena.setColor(x, Black)
			return
		}
		if /* im2 */ tree.arena.isBlack(p) {
			return
		}

		g := tree.arena.parent(p)
		if g == nilLeaf {
			// Red root, repaint it and the red-violation disappears.
			tree.arena.setColor(p, Black)
			return
		}

		if u := tree.arena.sibling(p); /* im3 */ tree.arena.isRed(u) {
			tree.arena.setColor(p, Black)
			tree.arena.setColor(u, Black)
			tree.arena.setColor(g, Red)
			x = g
			continue
		}

		dir, pDir := tree.arena.direction(x), tree.arena.direction(p)
		if /* im4 */ dir != pDir {
			switch dir {
			case dirLeft:
				tree.rightRotate(p)
			case dirRight:
				tree.leftRotate(p)
			default:
				// impossible run to here
				panic( /* debug assertion */ "[rbtree] insert violate (im4)")
			}
			x, p = p, x
		}

		switch /* im5 */ pDir {
		case dirLeft:
			tree.rightRotate(g)
		case dirRight:
			tree.leftRotate(g)
		default:
			// impossible run to here
			panic( /* debug assertion */ "[rbtree] insert violate (im5)")
		}
		tree.arena.setColor(p, Black)
		tree.arena.setColor(g, Red)
		return
	}
}

/*
r1: Current node X has left and right node.
Find node X's succ (or pred) to replace it to be removed.
Copy the key and value only, then remove the succ (or pred) node,
which has at most one child.

Find succ:

	  |                    |
	  X                    S
	 / \                  / \
	L  ..   copy(S, X)   L  ..
		|   =========>       |
		P                    P
	   / \                  / \
	  S  ..                X  ..

r2: Current node Y has exactly one child. The child must be a red node.
(See conclusion. Otherwise, black-violation)
Promote the child and repaint it into black.

r3: (1) Current node Y is a red leaf node, remove directly.

r3: (2) Current node Y is a black leaf node, rebalance with Y still in
place as the double-black node, then unlink it. (black-violation)
*/
func (tree *rbTree[K, V]) removeNode(z rbHandle) V {
	removed := tree.arena.nodes[z].val

	y := z
	if /* r1 */ tree.arena.left(z) != nilLeaf && tree.arena.right(z) != nilLeaf {
		if tree.isRmBorrowPred {
			y = tree.arena.pred(z)
		} else {
			y = tree.arena.succ(z)
		}
		zn, yn := tree.arena.node(z), tree.arena.node(y)
		zn.key, zn.val = yn.key, yn.val
	}

	child := tree.arena.left(y)
	if child == nilLeaf {
		child = tree.arena.right(y)
	}

	if /* r2 */ child != nilLeaf {
		tree.replaceChild(tree.arena.parent(y), y, child)
		if tree.arena.isBlack(y) {
			tree.arena.setColor(child, Black)
		}
	} else if tree.arena.parent(y) == nilLeaf {
		// The last node.
		tree.root = nilLeaf
	} else {
		if /* r3 (2) */ tree.arena.isBlack(y) {
			tree.removeRebalance(y)
		}
		// Rotations may have moved y, reload its parent.
		tree.replaceChild(tree.arena.parent(y), y, nilLeaf)
	}

	tree.arena.recycle(y)
	tree.count--
	return removed
}

/*
<X> is a RED node.
[X] is a BLACK node (or NIL).
{X} is either a RED node or a BLACK node.

Sc is the same direction to X and it X's sibling's child node.
Sd is the opposite direction to X and it X's sibling's child node.

rm1: Current node X's sibling S is red, so the parent P, nephew node Sc and Sd
must be black. (Otherwise, red-violation)
(1) X is left node of P, left rotate P
(2) X is right node of P, right rotate P.
(3) repaint S into black, P into red. Reduce to a black sibling case.

	  [P]                   <S>               [S]
	  / \    l-rotate(P)    / \    repaint    / \
	[X] <S>  ==========>  [P] [D]  ======>  <P> [Sd]
	    / \               / \               / \
	 [Sc] [Sd]          [X] [Sc]          [X] [Sc]

rm2: The sibling S, nephew node Sc and Sd are black.
Repaint S into red. The deficit moves up to P. If P is red, painting
it into black absorbs the deficit. Otherwise, continue from P.

	  {P}             {P}
	  / \             / \
	[X] [S]  ====>  [X] <S>
	    / \             / \
	 [Sc] [Sd]       [Sc] [Sd]

rm3: Current node X's sibling S is black, nephew node Sc is red and Sd
is black. Ignore X's parent P's color (red or black is okay)
(1) If X is left node of P, right rotate S.
(2) If X is right node of P, left rotate S.
(3) Repaint S into red, Sc into black
Enter into rm4 to fix.

	                        {P}                {P}
	  {P}                   / \                / \
	  / \    r-rotate(S)  [X] <Sc>   repaint  [X] [Sc]
	[X] [S]  ==========>        \    ======>       \
	    / \                     [S]                <S>
	  <Sc> [Sd]                   \                  \
	                              [Sd]               [Sd]

rm4: Current node X's sibling S is black and Sd is red.
Ignore X's parent P's color (red or black is okay)
(1) If X is left node of P, left rotate P.
(2) If X is right node of P, right rotate P.
(3) S takes P's color, P and Sd are painted into black.
The deficit is absorbed, stop.

	  {P}                   [S]                {S}
	  / \    l-rotate(P)    / \     repaint    / \
	[X] [S]  ==========>  {P} <Sd>  ======>  [P] [Sd]
	    / \               / \                / \
	 [Sc] <Sd>          [X] [Sc]           [X] [Sc]
*/
func (tree *rbTree[K, V]) removeRebalance(x rbHandle) {
	for x != tree.root && tree.arena.isBlack(x) {
		p, dir := tree.arena.parent(x), tree.arena.direction(x)
		s := tree.arena.sibling(x)
		if s == nilLeaf {
			// impossible run to here
			panic( /* debug assertion */ "[rbtree] double black node without sibling")
		}

		if /* rm1 */ tree.arena.isRed(s) {
			switch dir {
			case dirLeft:
				tree.leftRotate(p)
			case dirRight:
				tree.rightRotate(p)
			default:
				// impossible run to here
				panic( /* debug assertion */ "[rbtree] remove violate (rm1)")
			}
			tree.arena.setColor(s, Black)
			tree.arena.setColor(p, Red)
			s = tree.arena.sibling(x)
		}

		var sc, sd rbHandle
		switch dir {
		case dirLeft:
			sc, sd = tree.arena.left(s), tree.arena.right(s)
		case dirRight:
			sc, sd = tree.arena.right(s), tree.arena.left(s)
		default:
			// impossible run to here
			panic( /* debug assertion */ "[rbtree] remove violate (rm2)")
		}

		if /* rm2 */ tree.arena.isBlack(sc) && tree.arena.isBlack(sd) {
			tree.arena.setColor(s, Red)
			x = p
			continue
		}

		if /* rm3 */ tree.arena.isBlack(sd) {
			switch dir {
			case dirLeft:
				tree.rightRotate(s)
			case dirRight:
				tree.leftRotate(s)
			default:
			}
			tree.arena.setColor(sc, Black)
			tree.arena.setColor(s, Red)
			s, sd = sc, s
		}

		switch /* rm4 */ dir {
		case dirLeft:
			tree.leftRotate(p)
		case dirRight:
			tree.rightRotate(p)
		default:
		}
		tree.arena.setColor(s, tree.arena.nodes[p].color)
		tree.arena.setColor(p, Black)
		tree.arena.setColor(sd, Black)
		x = tree.root
	}
	tree.arena.setColor(x, Black)
}

func (tree *rbTree[K, V]) Remove(key K) (val V, ok bool) {
	z := tree.search(key)
	if z == nilLeaf {
		return val, false
	}
	return tree.removeNode(z), true
}

func (tree *rbTree[K, V]) RemoveMin() (key K, val V, ok bool) {
	if tree.root == nilLeaf {
		return key, val, false
	}
	_min := tree.arena.minimum(tree.root)
	key = tree.arena.nodes[_min].key
	return key, tree.removeNode(_min), true
}

func (tree *rbTree[K, V]) Min() (key K, val V, ok bool) {
	if tree.root == nilLeaf {
		return key, val, false
	}
	n := tree.arena.nodes[tree.arena.minimum(tree.root)]
	return n.key, n.val, true
}

func (tree *rbTree[K, V]) Max() (key K, val V, ok bool) {
	if tree.root == nilLeaf {
		return key, val, false
	}
	n := tree.arena.nodes[tree.arena.maximum(tree.root)]
	return n.key, n.val, true
}

// Inorder traversal by the succ links, no auxiliary stack.
func (tree *rbTree[K, V]) Foreach(action func(idx int64, color RBColor, key K, val V) bool) {
	if tree.root == nilLeaf {
		return
	}
	idx := int64(0)
	for aux := tree.arena.minimum(tree.root); aux != nilLeaf; aux = tree.arena.succ(aux) {
		n := &tree.arena.nodes[aux]
		if !action(idx, n.color, n.key, n.val) {
			return
		}
		idx++
	}
}

func (tree *rbTree[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		tree.Foreach(func(_ int64, _ RBColor, key K, val V) bool {
			return yield(key, val)
		})
	}
}

func (tree *rbTree[K, V]) Keys() iter.Seq[K] {
	return func(yield func(K) bool) {
		tree.Foreach(func(_ int64, _ RBColor, key K, _ V) bool {
			return yield(key)
		})
	}
}

func (tree *rbTree[K, V]) Clone() RBTree[K, V] {
	return &rbTree[K, V]{
		arena:          tree.arena.clone(),
		cmp:            tree.cmp,
		root:           tree.root,
		count:          tree.count,
		isRmBorrowPred: tree.isRmBorrowPred,
		isDesc:         tree.isDesc,
	}
}

// Release drops every node at once. The tree is empty and reusable after.
func (tree *rbTree[K, V]) Release() {
	tree.arena.release()
	tree.root = nilLeaf
	tree.count = 0
}

type RBTreeOpt[K any, V any] func(*rbTree[K, V])

// WithRBTreeDesc enumerates the keys in descending natural order.
func WithRBTreeDesc[K any, V any]() RBTreeOpt[K, V] {
	return func(tree *rbTree[K, V]) {
		tree.isDesc = true
	}
}

// WithRBTreeRemoveBorrowPred makes a two children node removal borrow
// the in-order predecessor instead of the successor.
func WithRBTreeRemoveBorrowPred[K any, V any]() RBTreeOpt[K, V] {
	return func(tree *rbTree[K, V]) {
		tree.isRmBorrowPred = true
	}
}

func WithRBTreeCapacity[K any, V any](capacity int) RBTreeOpt[K, V] {
	return func(tree *rbTree[K, V]) {
		if capacity <= 0 {
			return
		}
		tree.arena.nodes = make([]rbNode[K, V], 1, capacity+1)
	}
}

func NewRBTree[K infra.OrderedKey, V any](opts ...RBTreeOpt[K, V]) RBTree[K, V] {
	return newRBTree[K, V](infra.OrderedKeyCompare[K], opts...)
}

func NewRBTreeWithComparator[K any, V any](cmp infra.Comparator[K], opts ...RBTreeOpt[K, V]) RBTree[K, V] {
	if cmp == nil {
		panic("[rbtree] nil key comparator")
	}
	return newRBTree[K, V](cmp, opts...)
}

func newRBTree[K any, V any](cmp infra.Comparator[K], opts ...RBTreeOpt[K, V]) *rbTree[K, V] {
	tree := &rbTree[K, V]{
		cmp: cmp,
	}
	for _, o := range opts {
		if o != nil {
			o(tree)
		}
	}
	if tree.isDesc {
		tree.cmp = infra.Reverse(cmp)
	}
	return tree
}
