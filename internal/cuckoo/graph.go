package cuckoo

import "fmt"

// Graph is a cuckoo multigraph over a fixed number of vertices (buckets)
// in which every item contributes one (hyper)edge joining its bucket
// indices. Edges are identified by their insertion order.
type Graph struct {
	arity int
	// endpoints of every edge
	edges [][]int
	// distinct edges incident to every vertex, in insertion order
	incident [][]int
}

// NewGraph returns an empty graph with n vertices whose edges have arity
// endpoints.
func NewGraph(n, arity int) *Graph {
	return &Graph{
		arity:    arity,
		incident: make([][]int, n),
	}
}

// AddEdge inserts an edge and returns its id. A two-hash edge may be a
// self-loop; it is then listed once in the incidence of its vertex.
func (g *Graph) AddEdge(endpoints []int) int {
	if len(endpoints) != g.arity {
		panic(fmt.Errorf("edge has %d endpoints, graph arity is %d", len(endpoints), g.arity))
	}

	id := len(g.edges)
	g.edges = append(g.edges, endpoints)
	for i, v := range endpoints {
		if v < 0 || v >= len(g.incident) {
			panic(fmt.Errorf("vertex %d out of range [0, %d)", v, len(g.incident)))
		}
		if seenBefore(endpoints[:i], v) {
			continue
		}
		g.incident[v] = append(g.incident[v], id)
	}

	return id
}

// Arity returns the number of endpoints of every edge.
func (g *Graph) Arity() int {
	return g.arity
}

// VertexNum returns the number of vertices.
func (g *Graph) VertexNum() int {
	return len(g.incident)
}

// EdgeNum returns the number of edges.
func (g *Graph) EdgeNum() int {
	return len(g.edges)
}

// Endpoints returns the endpoints of edge e. The slice must not be modified.
func (g *Graph) Endpoints(e int) []int {
	return g.edges[e]
}

// Edges returns the distinct edges incident to vertex v. The slice must
// not be modified.
func (g *Graph) Edges(v int) []int {
	return g.incident[v]
}

// multiplicity counts how many endpoints of edge e are v.
func (g *Graph) multiplicity(e, v int) int {
	n := 0
	for _, u := range g.edges[e] {
		if u == v {
			n++
		}
	}
	return n
}

func seenBefore(vs []int, v int) bool {
	for _, u := range vs {
		if u == v {
			return true
		}
	}
	return false
}
