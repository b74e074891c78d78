package queue

import "github.com/benz9527/xalgo/lib/infra"

// References:
// https://en.wikipedia.org/wiki/Binomial_heap

/*
A binomial tree of order k is two trees of order k-1, the root of one
linked as the last child of the other. children[j] is of order j.

	B0    B1     B2          B3
	o     o      o           o
	      |     / \        / | \
	      o    o   o      o  o  o
	               |         | / \
	               o         o o  o
	                              |
	                              o
*/
type binomialNode[K any] struct {
	key      K
	children []*binomialNode[K]
}

func (n *binomialNode[K]) order() int {
	return len(n.children)
}

// link joins two trees of the same order. The larger root becomes the last
// child of the smaller one. On equal keys x stays the parent.
func link[K any](cmp infra.Comparator[K], x, y *binomialNode[K]) *binomialNode[K] {
	if x.order() != y.order() {
		// impossible run to here
		panic( /* debug assertion */ "[binomial heap] link trees of different order")
	}
	if cmp(y.key, x.key) < 0 {
		x, y = y, x
	}
	x.children = append(x.children, y)
	return x
}

// cloneTree deep copies a tree without recursion.
func cloneTree[K any](root *binomialNode[K]) *binomialNode[K] {
	if root == nil {
		return nil
	}
	type pair struct {
		src, dst *binomialNode[K]
	}
	dup := &binomialNode[K]{key: root.key}
	stack := []pair{{src: root, dst: dup}}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if len(p.src.children) == 0 {
			continue
		}
		p.dst.children = make([]*binomialNode[K], len(p.src.children))
		for j, c := range p.src.children {
			p.dst.children[j] = &binomialNode[K]{key: c.key}
			stack = append(stack, pair{src: c, dst: p.dst.children[j]})
		}
	}
	return dup
}

// releaseTree unlinks every node without recursion, so that the keys can
// be collected no matter how deep the tree is.
func releaseTree[K any](root *binomialNode[K]) {
	if root == nil {
		return
	}
	var zero K
	stack := []*binomialNode[K]{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		stack = append(stack, n.children...)
		clear(n.children)
		n.children = nil
		n.key = zero
	}
}
