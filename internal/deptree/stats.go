package deptree

import (
	"time"

	"github.com/google/uuid"
)

// ComputeStatistics aggregates a tree without modifying it. Mappings are
// the retained similarity pairs, or nil when semantic enhancement was off.
func ComputeStatistics(t *DependencyTree, mappings []SimilarityMapping) Statistics {
	stats := Statistics{
		TotalNodes:         len(t.Nodes),
		TotalEdges:         len(t.Edges),
		MaxDepth:           maxParentDepth(t.Nodes),
		CircularCount:      len(t.Cycles),
		ClusterCount:       len(t.Clusters),
		SimilarityMappings: mappings,
		BuildID:            uuid.NewString(),
		GeneratedAt:        time.Now().UTC(),
	}
	if len(t.Nodes) > 0 {
		stats.AverageDependencies = float64(len(t.Edges)) / float64(len(t.Nodes))
	}
	for _, e := range t.Edges {
		if e.IsExternal {
			stats.ExternalDependencies++
		}
	}
	for i, c := range t.Clusters {
		if !c.Kind.IsSemantic() {
			continue
		}
		if stats.SemanticClusters == nil {
			stats.SemanticClusters = make(map[int][]string)
		}
		stats.SemanticClusters[i] = append([]string(nil), c.Members...)
	}
	return stats
}

// maxParentDepth is the longest chain of parent links over all nodes. A
// node with several parents takes the deepest chain; a parent already on
// the current chain counts as depth zero.
func maxParentDepth(nodes map[string]*Node) int {
	depth := make(map[string]int, len(nodes))
	inProgress := make(map[string]bool)

	var walk func(id string) int
	walk = func(id string) int {
		if d, ok := depth[id]; ok {
			return d
		}
		if inProgress[id] {
			return 0
		}
		inProgress[id] = true
		best := 0
		for _, p := range nodes[id].Parents {
			if nodes[p] == nil {
				continue
			}
			if d := walk(p) + 1; d > best {
				best = d
			}
		}
		inProgress[id] = false
		depth[id] = best
		return best
	}

	max := 0
	for _, id := range sortedIDs(nodes) {
		if d := walk(id); d > max {
			max = d
		}
	}
	return max
}
