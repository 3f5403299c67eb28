package htmlbuilder

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// graph is a directed graph of comparable nodes, used to make sure block
// declarations form a tree before anything gets registered.
type graph[Type comparable] struct {
	// nodes holds the nodes in the graph, in the order they were added.
	nodes []Type

	// index maps each node to its position in nodes.
	index map[Type]int

	// edgesTo holds graph edges, keyed by the position of the node the
	// edges point to.
	//
	// if there's a node 1 and a node 2, and an edge from 1->2, edgesTo
	// will have a key of 2 with a value of [1].
	edgesTo map[int]map[int]struct{}

	// edgesFrom holds graph edges, keyed by the position of the node the
	// edges point from.
	//
	// if there's a node 1 and a node 2, and an edge from 1->2, edgesFrom
	// will have a key of 1 with a value of [2].
	edgesFrom map[int]map[int]struct{}
}

func newGraph[Type comparable]() *graph[Type] {
	return &graph[Type]{
		index:     map[Type]int{},
		edgesTo:   map[int]map[int]struct{}{},
		edgesFrom: map[int]map[int]struct{}{},
	}
}

// add adds node to the graph if it isn't there yet, and reports whether it
// was added.
func (g *graph[Type]) add(node Type) (int, bool) {
	if pos, ok := g.index[node]; ok {
		return pos, false
	}
	g.nodes = append(g.nodes, node)
	g.index[node] = len(g.nodes) - 1
	return len(g.nodes) - 1, true
}

// connect adds an edge pointing from one node to the other, adding either
// node if needed. Walking the graph always yields from before to.
func (g *graph[Type]) connect(from, to Type) {
	fromPos, _ := g.add(from)
	toPos, _ := g.add(to)
	if g.edgesFrom[fromPos] == nil {
		g.edgesFrom[fromPos] = map[int]struct{}{}
	}
	if g.edgesTo[toPos] == nil {
		g.edgesTo[toPos] = map[int]struct{}{}
	}
	g.edgesFrom[fromPos][toPos] = struct{}{}
	g.edgesTo[toPos][fromPos] = struct{}{}
}

// walk returns the nodes of the graph so that every node comes after all the
// nodes that point to it. Ties are broken by the order nodes were added in.
// If the graph has a cycle, the nodes that could be ordered are returned
// along with an ErrBlockCycle describing the rest, using describe to name
// them.
func (g *graph[Type]) walk(describe func(Type) string) ([]Type, error) {
	// work on copies so the graph can be walked more than once
	edgesTo := map[int]map[int]struct{}{}
	for k, v := range g.edgesTo {
		edgesTo[k] = map[int]struct{}{}
		for from := range v {
			edgesTo[k][from] = struct{}{}
		}
	}
	edgesFrom := map[int]map[int]struct{}{}
	for k, v := range g.edgesFrom {
		edgesFrom[k] = map[int]struct{}{}
		for to := range v {
			edgesFrom[k][to] = struct{}{}
		}
	}

	noParents := make([]int, 0, len(g.nodes))
	results := make([]Type, 0, len(g.nodes))
	for pos := range g.nodes {
		if len(edgesTo[pos]) < 1 {
			noParents = append(noParents, pos)
		}
	}
	for len(noParents) > 0 {
		pos := noParents[0]
		noParents = noParents[1:]
		results = append(results, g.nodes[pos])
		var changed bool
		for child := range edgesFrom[pos] {
			delete(edgesTo[child], pos)
			if len(edgesTo[child]) < 1 {
				delete(edgesTo, child)
				noParents = append(noParents, child)
				changed = true
			}
		}
		delete(edgesFrom, pos)
		if changed {
			slices.Sort(noParents)
		}
	}
	if len(edgesTo) > 0 {
		var stuck []string
		for pos := range g.nodes {
			if _, ok := edgesTo[pos]; !ok {
				continue
			}
			var from []string
			for val := range edgesTo[pos] {
				from = append(from, strconv.Itoa(val))
			}
			slices.Sort(from)
			stuck = append(stuck, fmt.Sprintf("%d(%s)<-%s", pos, describe(g.nodes[pos]), strings.Join(from, ",")))
		}
		return results, fmt.Errorf("%w: %s", ErrBlockCycle, strings.Join(stuck, "; "))
	}
	return results, nil
}
