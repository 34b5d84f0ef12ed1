package cuckoo

// RemovedEdge records an edge peeled off the graph together with its
// endpoints as they were when it was removed.
type RemovedEdge struct {
	Edge      int
	Endpoints []int
}

// Finder reduces a cuckoo graph to its core by repeatedly removing the
// edges incident to a vertex of residual degree 1. It returns the edges
// that could not be removed, in increasing order, and the removed edges
// in removal order: replaying them from last to first guarantees that
// when an edge is visited, the vertex that caused its removal is not
// touched by any edge visited before it.
type Finder interface {
	Find(g *Graph) (core []int, removed []RemovedEdge)
}

// Singleton peels edges incident to a vertex whose residual degree is 1,
// where a self-loop adds 2 to the degree of its vertex. What remains is
// the 2-core of the multigraph.
type Singleton struct{}

// Find implements Finder.
func (Singleton) Find(g *Graph) ([]int, []RemovedEdge) {
	return peel(g, true)
}

// TwoCore peels like Singleton but counts every incident edge once,
// self-loops included. A self-loop whose vertex has no other edge is
// therefore removed and its bucket solved on its own, so the remainder is
// never larger than the Singleton one. Only meaningful for two-hash graphs.
type TwoCore struct{}

// Find implements Finder.
func (TwoCore) Find(g *Graph) ([]int, []RemovedEdge) {
	return peel(g, false)
}

func peel(g *Graph, loopsTwice bool) ([]int, []RemovedEdge) {
	weight := func(e, v int) int {
		if loopsTwice {
			return g.multiplicity(e, v)
		}
		return 1
	}

	alive := make([]bool, g.EdgeNum())
	for e := range alive {
		alive[e] = true
	}

	degree := make([]int, g.VertexNum())
	queue := make([]int, 0, g.VertexNum())
	for v := range degree {
		for _, e := range g.Edges(v) {
			degree[v] += weight(e, v)
		}
		if degree[v] == 1 {
			queue = append(queue, v)
		}
	}

	removed := make([]RemovedEdge, 0, g.EdgeNum())
	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]
		// the degree may have dropped since v was queued
		if degree[v] != 1 {
			continue
		}

		e := -1
		for _, candidate := range g.Edges(v) {
			if alive[candidate] {
				e = candidate
				break
			}
		}
		alive[e] = false

		endpoints := make([]int, len(g.Endpoints(e)))
		copy(endpoints, g.Endpoints(e))
		removed = append(removed, RemovedEdge{Edge: e, Endpoints: endpoints})

		for i, u := range endpoints {
			if seenBefore(endpoints[:i], u) {
				continue
			}
			degree[u] -= weight(e, u)
			if degree[u] == 1 {
				queue = append(queue, u)
			}
		}
	}

	core := make([]int, 0, g.EdgeNum()-len(removed))
	for e, a := range alive {
		if a {
			core = append(core, e)
		}
	}

	return core, removed
}
