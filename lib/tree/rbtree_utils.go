package tree

import (
	"fmt"

	"go.uber.org/multierr"
)

type RBTreeErr string

const (
	ErrRBTreeRootViolation  RBTreeErr = "rbtree root violation"
	ErrRBTreeRedViolation   RBTreeErr = "rbtree red violation"
	ErrRBTreeBlackViolation RBTreeErr = "rbtree black violation"
	ErrRBTreeOrderViolation RBTreeErr = "rbtree order violation"
	ErrRBTreeLinkViolation  RBTreeErr = "rbtree link violation"
	ErrRBTreeSizeViolation  RBTreeErr = "rbtree size violation"
)

func (err RBTreeErr) Error() string {
	return string(err)
}

// rbtree rule validation utilities.

// References:
// https://github1s.com/minghu6/rust-minghu6/blob/master/coll_st/src/bst/rb.rs

/*
<X> is a RED node.
[X] is a BLACK node (or NIL).

	        [13]
			/  \
		 <8>    [15]
		 / \    /  \
	  [6] [11] [14] [17]
	  /              /
	<1>            [16]

2-3-4 tree like:

	       <8> --- [13] --- <15>
		  /  \             /    \
		 /    \           /      \
	  <1>-[6][11]      [14] <16>-[17]

Each nil leaf to root node black depth are equal.
*/

type rbValidateFrame struct {
	h      rbHandle
	blacks int // black nodes from root to h, both included
}

// Validate walks the child links only (inorder, explicit stack), so a
// corrupted parent link cannot derail the traversal itself.
func (tree *rbTree[K, V]) Validate() error {
	if tree.root == nilLeaf {
		if tree.count != 0 {
			return fmt.Errorf("%w: empty tree with len %d", ErrRBTreeSizeViolation, tree.count)
		}
		return nil
	}

	var merr error
	if tree.arena.isRed(tree.root) {
		merr = multierr.Append(merr, ErrRBTreeRootViolation)
	}
	if p := tree.arena.parent(tree.root); p != nilLeaf {
		merr = multierr.Append(merr, fmt.Errorf("%w: root with parent %d", ErrRBTreeLinkViolation, p))
	}

	var (
		redReported, blackReported, orderReported, linkReported bool

		stack      = make([]rbValidateFrame, 0, 64)
		prev       = nilLeaf
		visited    = int64(0)
		limit      = int64(len(tree.arena.nodes))
		pathBlacks = -1
	)
	pushLeft := func(h rbHandle, blacks int) {
		for ; h != nilLeaf; h = tree.arena.left(h) {
			if tree.arena.isBlack(h) {
				blacks++
			}
			stack = append(stack, rbValidateFrame{h: h, blacks: blacks})
		}
	}

	pushLeft(tree.root, 0)
	for size := len(stack); size > 0; size = len(stack) {
		f := stack[size-1]
		stack = stack[:size-1]
		if visited++; visited > limit {
			merr = multierr.Append(merr, fmt.Errorf("%w: child links contain a cycle", ErrRBTreeLinkViolation))
			break
		}

		n := &tree.arena.nodes[f.h]
		for _, c := range [2]rbHandle{n.left, n.right} {
			if c == nilLeaf {
				if pathBlacks < 0 {
					pathBlacks = f.blacks
				} else if pathBlacks != f.blacks && !blackReported {
					blackReported = true
					merr = multierr.Append(merr, fmt.Errorf("%w: key %v black depth %d, expected %d",
						ErrRBTreeBlackViolation, n.key, f.blacks, pathBlacks))
				}
				continue
			}
			if cn := &tree.arena.nodes[c]; cn.parent != f.h && !linkReported {
				linkReported = true
				merr = multierr.Append(merr, fmt.Errorf("%w: key %v child %v parent mismatch",
					ErrRBTreeLinkViolation, n.key, cn.key))
			}
			if n.color == Red && tree.arena.isRed(c) && !redReported {
				redReported = true
				merr = multierr.Append(merr, fmt.Errorf("%w: key %v red node with red child %v",
					ErrRBTreeRedViolation, n.key, tree.arena.nodes[c].key))
			}
		}

		if prev != nilLeaf && tree.cmp(tree.arena.nodes[prev].key, n.key) >= 0 && !orderReported {
			orderReported = true
			merr = multierr.Append(merr, fmt.Errorf("%w: key %v after key %v",
				ErrRBTreeOrderViolation, n.key, tree.arena.nodes[prev].key))
		}
		prev = f.h
		pushLeft(n.right, f.blacks)
	}

	if visited != tree.count && visited <= limit {
		merr = multierr.Append(merr, fmt.Errorf("%w: reachable %d, len %d", ErrRBTreeSizeViolation, visited, tree.count))
	}
	return merr
}

func (tree *rbTree[K, V]) IsValid() bool {
	return tree.Validate() == nil
}

// BlackHeight counts the black nodes on a root to nil leaf path,
// excluding the root itself.
func (tree *rbTree[K, V]) BlackHeight() int {
	bh := 0
	if tree.root == nilLeaf {
		return bh
	}
	for aux := tree.arena.left(tree.root); aux != nilLeaf; aux = tree.arena.left(aux) {
		if tree.arena.isBlack(aux) {
			bh++
		}
	}
	return bh
}

// Height is the number of nodes on the longest root to nil leaf path.
// BFS traversal by levels.
func (tree *rbTree[K, V]) Height() int {
	if tree.root == nilLeaf {
		return 0
	}
	height := 0
	level := []rbHandle{tree.root}
	next := make([]rbHandle, 0, 2)
	for len(level) > 0 {
		height++
		next = next[:0]
		for _, h := range level {
			if l := tree.arena.left(h); l != nilLeaf {
				next = append(next, l)
			}
			if r := tree.arena.right(h); r != nilLeaf {
				next = append(next, r)
			}
		}
		level, next = next, level
	}
	return height
}
