package graph

import (
	"fmt"

	"github.com/benz9527/xalgo/lib/infra"
)

type GraphErr string

const (
	ErrNilGraph         GraphErr = "graph is nil"
	ErrVertexOutOfRange GraphErr = "vertex out of range"
)

func (err GraphErr) Error() string {
	return string(err)
}

type Edge struct {
	To     int
	Weight uint64
}

// DirectedGraph is a weighted adjacency list over the vertices 0..n-1.
// Parallel edges and self loops are kept as they are.
type DirectedGraph struct {
	adj   [][]Edge
	edges int
}

// NewDirectedGraph treats a negative n as zero.
func NewDirectedGraph(n int) *DirectedGraph {
	return &DirectedGraph{
		adj: make([][]Edge, max(n, 0)),
	}
}

func (g *DirectedGraph) Vertices() int {
	return len(g.adj)
}

func (g *DirectedGraph) Edges() int {
	return g.edges
}

func (g *DirectedGraph) contains(v int) bool {
	return v >= 0 && v < len(g.adj)
}

func (g *DirectedGraph) AddEdge(from, to int, weight uint64) error {
	if !g.contains(from) || !g.contains(to) {
		return infra.WrapErrorStackWithMessage(ErrVertexOutOfRange,
			fmt.Sprintf("edge %d->%d, vertices %d", from, to, len(g.adj)))
	}
	g.adj[from] = append(g.adj[from], Edge{To: to, Weight: weight})
	g.edges++
	return nil
}

// Neighbours returns the out edges of v in insertion order, nil if v is
// out of range. The slice must not be modified.
func (g *DirectedGraph) Neighbours(v int) []Edge {
	if !g.contains(v) {
		return nil
	}
	return g.adj[v]
}
