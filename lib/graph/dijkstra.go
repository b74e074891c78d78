package graph

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/benz9527/xalgo/lib/infra"
	"github.com/benz9527/xalgo/lib/queue"
	"github.com/benz9527/xalgo/xlog"
)

type dijkstraEntry struct {
	dist   Distance
	vertex int
}

// Equal distances are settled by the smaller vertex first.
func dijkstraEntryComparator(i, j dijkstraEntry) int64 {
	if res := i.dist.Compare(j.dist); res != 0 {
		return res
	}
	return int64(i.vertex - j.vertex)
}

type dijkstraCfg struct {
	logger xlog.XLogger
}

type DijkstraOption func(*dijkstraCfg)

// WithDijkstraLogger debug logs every settled vertex and the run summary.
func WithDijkstraLogger(logger xlog.XLogger) DijkstraOption {
	return func(cfg *dijkstraCfg) {
		if logger == nil {
			return
		}
		cfg.logger = xlog.Component(logger, "dijkstra")
	}
}

// Dijkstra computes the shortest distances from source to every vertex.
// Unreachable vertices keep the infinity.
//
// The heap is lazy: a relaxed vertex is inserted again with its smaller
// distance, and the stale entries are skipped once the vertex is settled.
func Dijkstra(g *DirectedGraph, source int, opts ...DijkstraOption) ([]Distance, error) {
	if g == nil {
		return nil, infra.WrapErrorStack(ErrNilGraph)
	}
	if !g.contains(source) {
		return nil, infra.WrapErrorStackWithMessage(ErrVertexOutOfRange,
			fmt.Sprintf("source %d, vertices %d", source, g.Vertices()))
	}
	cfg := &dijkstraCfg{}
	for _, o := range opts {
		if o != nil {
			o(cfg)
		}
	}

	var (
		dist      = make([]Distance, g.Vertices()) // all infinity
		finalized = make([]bool, g.Vertices())
		pq        = queue.NewBinomialHeapWithComparator[dijkstraEntry](dijkstraEntryComparator)
		settled   = 0
		stale     = 0
	)
	defer pq.Release()

	dist[source] = Finite(0)
	pq.Insert(dijkstraEntry{dist: dist[source], vertex: source})
	for !pq.IsEmpty() {
		e, err := pq.ExtractMin()
		if err != nil {
			return nil, infra.WrapErrorStackWithMessage(err, "dijkstra heap")
		}
		if finalized[e.vertex] {
			stale++
			continue
		}
		finalized[e.vertex] = true
		settled++
		if cfg.logger != nil {
			cfg.logger.Debug("vertex settled",
				zap.Int("vertex", e.vertex),
				zap.Stringer("distance", e.dist),
			)
		}

		for _, edge := range g.adj[e.vertex] {
			if finalized[edge.To] {
				continue
			}
			if cand := e.dist.Add(Finite(edge.Weight)); cand.Less(dist[edge.To]) {
				dist[edge.To] = cand
				pq.Insert(dijkstraEntry{dist: cand, vertex: edge.To})
			}
		}
	}

	if cfg.logger != nil {
		cfg.logger.Debug("shortest paths done",
			zap.Int("source", source),
			zap.Int("vertices", g.Vertices()),
			zap.Int("settled", settled),
			zap.Int("stale", stale),
		)
	}
	return dist, nil
}
