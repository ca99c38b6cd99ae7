package output

import (
	"sort"
	"strings"

	"github.com/jghiringhelli/codeseeker-sub004/internal/deptree"
)

// SortCycles sorts cycles by severity DESC, member count DESC, path ASC
func SortCycles(cycles []deptree.CircularDependency) {
	sort.SliceStable(cycles, func(i, j int) bool {
		// Primary: severity DESC
		if ri, rj := cycles[i].Severity.Rank(), cycles[j].Severity.Rank(); ri != rj {
			return ri > rj
		}
		// Secondary: member count DESC
		if li, lj := len(cycles[i].Members()), len(cycles[j].Members()); li != lj {
			return li > lj
		}
		// Tertiary: path ASC
		return strings.Join(cycles[i].Path, "\x00") < strings.Join(cycles[j].Path, "\x00")
	})
}

// SortClusters sorts clusters by kind priority, cohesion DESC, id ASC
func SortClusters(clusters []deptree.ModuleCluster) {
	sort.SliceStable(clusters, func(i, j int) bool {
		// Primary: kind priority
		pi, pj := GetClusterKindPriority(clusters[i].Kind), GetClusterKindPriority(clusters[j].Kind)
		if pi != pj {
			return pi < pj
		}
		// Secondary: cohesion DESC
		if clusters[i].Cohesion != clusters[j].Cohesion {
			return clusters[i].Cohesion > clusters[j].Cohesion
		}
		// Tertiary: id ASC
		return clusters[i].ID < clusters[j].ID
	})
}

// SortSimilarities sorts mappings by score DESC, nodeA ASC, nodeB ASC
func SortSimilarities(mappings []deptree.SimilarityMapping) {
	sort.SliceStable(mappings, func(i, j int) bool {
		if mappings[i].Score != mappings[j].Score {
			return mappings[i].Score > mappings[j].Score
		}
		if mappings[i].NodeA != mappings[j].NodeA {
			return mappings[i].NodeA < mappings[j].NodeA
		}
		return mappings[i].NodeB < mappings[j].NodeB
	})
}
