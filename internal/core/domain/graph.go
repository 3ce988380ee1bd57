// Package domain contains the core domain models for the shader dependency graph.
package domain

import (
	"iter"
	"slices"
)

// NodeID identifies a node in a Graph.
// IDs are assigned from a monotonically increasing counter and are never reused,
// even after the node they named has been removed.
type NodeID uint64

// Graph is an identity-indexed directed graph.
// Edges point from a parent to the nodes it depends on. Children are kept in
// insertion order without duplicates. Graph does no cycle detection and is not
// safe for concurrent use; owners must synchronize access.
type Graph[T any] struct {
	nodes map[NodeID]T
	edges map[NodeID][]NodeID
	next  NodeID
}

// NewGraph creates a new empty Graph.
func NewGraph[T any]() *Graph[T] {
	return &Graph[T]{
		nodes: make(map[NodeID]T),
		edges: make(map[NodeID][]NodeID),
	}
}

// AddNode stores payload under a fresh id and returns it.
func (g *Graph[T]) AddNode(payload T) NodeID {
	id := g.next
	g.next++
	g.nodes[id] = payload
	return id
}

// Node returns the payload stored under id.
func (g *Graph[T]) Node(id NodeID) (T, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Update replaces the payload of an existing node.
// It reports false and does nothing when id is unknown.
func (g *Graph[T]) Update(id NodeID, payload T) bool {
	if _, ok := g.nodes[id]; !ok {
		return false
	}
	g.nodes[id] = payload
	return true
}

// Children returns the payloads of the direct children of id, in edge order.
// Unknown ids and leaves yield an empty slice.
func (g *Graph[T]) Children(id NodeID) []T {
	ids := g.edges[id]
	out := make([]T, 0, len(ids))
	for _, c := range ids {
		if n, ok := g.nodes[c]; ok {
			out = append(out, n)
		}
	}
	return out
}

// ChildIDs returns a copy of the child ids of id, in edge order.
func (g *Graph[T]) ChildIDs(id NodeID) []NodeID {
	return slices.Clone(g.edges[id])
}

// AddChild adds the edge parent -> child.
// It is a no-op when the edge already exists or either id is unknown;
// callers that care must validate ids beforehand.
func (g *Graph[T]) AddChild(parent, child NodeID) {
	if _, ok := g.nodes[parent]; !ok {
		return
	}
	if _, ok := g.nodes[child]; !ok {
		return
	}
	if slices.Contains(g.edges[parent], child) {
		return
	}
	g.edges[parent] = append(g.edges[parent], child)
}

// RemoveChild removes the edge parent -> child if present.
func (g *Graph[T]) RemoveChild(parent, child NodeID) {
	children, ok := g.edges[parent]
	if !ok {
		return
	}
	idx := slices.Index(children, child)
	if idx < 0 {
		return
	}
	children = slices.Delete(children, idx, idx+1)
	if len(children) == 0 {
		delete(g.edges, parent)
		return
	}
	g.edges[parent] = children
}

// RemoveNode removes id together with every edge it takes part in.
func (g *Graph[T]) RemoveNode(id NodeID) {
	if _, ok := g.nodes[id]; !ok {
		return
	}
	delete(g.nodes, id)
	delete(g.edges, id)
	for parent := range g.edges {
		g.RemoveChild(parent, id)
	}
}

// Len returns the number of nodes in the graph.
func (g *Graph[T]) Len() int {
	return len(g.nodes)
}

// All returns an iterator over every node in ascending id order.
func (g *Graph[T]) All() iter.Seq2[NodeID, T] {
	return func(yield func(NodeID, T) bool) {
		ids := make([]NodeID, 0, len(g.nodes))
		for id := range g.nodes {
			ids = append(ids, id)
		}
		slices.Sort(ids)
		for _, id := range ids {
			if !yield(id, g.nodes[id]) {
				return
			}
		}
	}
}
