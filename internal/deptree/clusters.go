package deptree

import (
	"fmt"
	"math"
	"path"
	"sort"
)

// StructuralClusters groups File nodes by directory. Directories with
// fewer than two files produce no cluster.
//
// Cohesion is the number of distinct ordered member pairs joined by an edge
// divided by k(k-1). Coupling is the number of distinct pairs crossing the
// boundary divided by k, capped at 1.
func StructuralClusters(nodes map[string]*Node, edges []Edge) []ModuleCluster {
	groups := make(map[string][]string)
	for _, id := range sortedIDs(nodes) {
		n := nodes[id]
		if n.Kind != KindFile {
			continue
		}
		dir := path.Dir(n.Path)
		groups[dir] = append(groups[dir], id)
	}

	dirs := make([]string, 0, len(groups))
	for dir, members := range groups {
		if len(members) >= 2 {
			dirs = append(dirs, dir)
		}
	}
	sort.Strings(dirs)

	clusters := make([]ModuleCluster, 0, len(dirs))
	for _, dir := range dirs {
		members := groups[dir]
		inGroup := make(map[string]bool, len(members))
		for _, id := range members {
			inGroup[id] = true
		}

		internal, crossing := boundaryEdges(inGroup, edges)

		k := float64(len(members))
		name := dir
		if dir == "." {
			name = "(project root)"
		}
		clusters = append(clusters, ModuleCluster{
			ID:          "dir:" + dir,
			Name:        name,
			Kind:        ClusterStructural,
			Members:     members,
			Cohesion:    float64(internal) / (k * (k - 1)),
			Coupling:    math.Min(1, float64(crossing)/k),
			Description: fmt.Sprintf("Directory %s: %d files, %d internal and %d external dependencies", name, len(members), internal, crossing),
		})
	}
	return clusters
}

// boundaryEdges counts distinct ordered pairs joined by an edge inside the
// group and crossing its boundary in either direction.
func boundaryEdges(inGroup map[string]bool, edges []Edge) (internal, crossing int) {
	counted := make(map[[2]string]bool)
	for _, e := range edges {
		if e.From == e.To {
			continue
		}
		key := [2]string{e.From, e.To}
		if counted[key] {
			continue
		}
		from, to := inGroup[e.From], inGroup[e.To]
		switch {
		case from && to:
			internal++
		case from != to:
			crossing++
		default:
			continue
		}
		counted[key] = true
	}
	return internal, crossing
}

// Declaration is a named group of project paths declared by the user.
type Declaration struct {
	ID             string
	Name           string
	Responsibility string
	// Match reports whether a project-relative file path belongs to the group.
	Match func(path string) bool
}

// DeclaredClusters builds one cluster per declaration owning at least one
// File node, scored like structural clusters. A file is owned by the first
// declaration it matches. A single-member cluster has cohesion 0.
func DeclaredClusters(nodes map[string]*Node, edges []Edge, decls []Declaration) []ModuleCluster {
	owned := make([][]string, len(decls))
	for _, id := range sortedIDs(nodes) {
		n := nodes[id]
		if n.Kind != KindFile {
			continue
		}
		for i, d := range decls {
			if d.Match(n.Path) {
				owned[i] = append(owned[i], id)
				break
			}
		}
	}

	var clusters []ModuleCluster
	for i, d := range decls {
		members := owned[i]
		if len(members) == 0 {
			continue
		}
		inGroup := make(map[string]bool, len(members))
		for _, id := range members {
			inGroup[id] = true
		}

		internal, crossing := boundaryEdges(inGroup, edges)
		k := float64(len(members))
		cohesion := 0.0
		if k > 1 {
			cohesion = float64(internal) / (k * (k - 1))
		}
		desc := d.Responsibility
		if desc == "" {
			desc = fmt.Sprintf("Declared module %s: %d files", d.Name, len(members))
		}
		clusters = append(clusters, ModuleCluster{
			ID:          "module:" + d.ID,
			Name:        d.Name,
			Kind:        ClusterDeclared,
			Members:     members,
			Cohesion:    cohesion,
			Coupling:    math.Min(1, float64(crossing)/k),
			Description: desc,
		})
	}
	return clusters
}
