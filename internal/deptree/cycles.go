package deptree

import (
	"fmt"
	"sort"
	"strings"
)

var cycleSuggestions = []string{
	"Extract the shared code into a separate module that both sides can depend on",
	"Introduce an interface or abstraction to invert one of the dependencies",
	"Use dependency injection instead of importing the collaborator directly",
	"Move the tightly coupled functionality into a single module",
}

const pairCycleSuggestion = "Consider merging these two modules, or move the shared types into a third file"

// DetectCycles finds circular dependencies with a depth-first search that
// tracks the current path. Nodes are visited in id order so the result is
// deterministic. Cycles with the same members are reported once, keeping
// the more severe instance.
func DetectCycles(nodes map[string]*Node, edges []Edge) []CircularDependency {
	adj := make(map[string][]string, len(nodes))
	seen := make(map[[2]string]bool, len(edges))
	for _, e := range edges {
		if nodes[e.From] == nil || nodes[e.To] == nil {
			continue
		}
		key := [2]string{e.From, e.To}
		if seen[key] {
			continue
		}
		seen[key] = true
		adj[e.From] = append(adj[e.From], e.To)
	}

	visited := make(map[string]bool, len(nodes))
	onStack := make(map[string]bool)
	var stack []string
	var found []CircularDependency

	var visit func(id string)
	visit = func(id string) {
		visited[id] = true
		onStack[id] = true
		stack = append(stack, id)

		for _, next := range adj[id] {
			if onStack[next] {
				start := indexOf(stack, next)
				path := make([]string, 0, len(stack)-start+1)
				path = append(path, stack[start:]...)
				path = append(path, next)
				found = append(found, newCircularDependency(path, nodes))
				continue
			}
			if !visited[next] {
				visit(next)
			}
		}

		stack = stack[:len(stack)-1]
		onStack[id] = false
	}

	for _, id := range sortedIDs(nodes) {
		if !visited[id] {
			visit(id)
		}
	}

	return dedupeCycles(found)
}

func newCircularDependency(path []string, nodes map[string]*Node) CircularDependency {
	c := CircularDependency{Path: path}
	members := c.Members()

	complexity := 0
	var size int64
	names := make([]string, 0, len(path))
	for _, id := range members {
		n := nodes[id]
		complexity += n.Complexity
		size += n.Size
		names = append(names, n.Path)
	}
	names = append(names, nodes[path[0]].Path)

	c.Severity = CycleSeverity(len(members), complexity, size)
	c.Description = fmt.Sprintf("Circular dependency between %d modules: %s", len(members), strings.Join(names, " -> "))
	c.Suggestions = append([]string{}, cycleSuggestions...)
	if len(members) == 2 {
		c.Suggestions = append(c.Suggestions, pairCycleSuggestion)
	}
	return c
}

// CycleSeverity grades a cycle by member count, summed complexity and
// summed byte size. The first matching row wins.
func CycleSeverity(length, complexity int, size int64) Severity {
	switch {
	case length > 5 || complexity > 50 || size > 10000:
		return SeverityCritical
	case length > 3 || complexity > 20 || size > 5000:
		return SeverityHigh
	case length > 2 || complexity > 10:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// cycleKey identifies a cycle by its sorted membership.
func cycleKey(c CircularDependency) string {
	members := append([]string(nil), c.Members()...)
	sort.Strings(members)
	return strings.Join(members, "\x00")
}

func dedupeCycles(cycles []CircularDependency) []CircularDependency {
	index := make(map[string]int)
	out := make([]CircularDependency, 0, len(cycles))
	for _, c := range cycles {
		key := cycleKey(c)
		if i, ok := index[key]; ok {
			if c.Severity.Rank() > out[i].Severity.Rank() {
				out[i] = c
			}
			continue
		}
		index[key] = len(out)
		out = append(out, c)
	}
	return out
}

func indexOf(ids []string, id string) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}
