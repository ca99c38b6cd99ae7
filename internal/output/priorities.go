package output

import "github.com/jghiringhelli/codeseeker-sub004/internal/deptree"

// ClusterKindPriority defines the ordering priority for cluster kinds
// Lower numbers have higher priority (sorted first)
var ClusterKindPriority = map[deptree.ClusterKind]int{
	deptree.ClusterStructural: 1,
	deptree.ClusterDomain:     2,
	deptree.ClusterRole:       3,
	deptree.ClusterDeclared:   4,
}

// GetClusterKindPriority returns the priority for a cluster kind
// Unknown kinds sort last
func GetClusterKindPriority(kind deptree.ClusterKind) int {
	if priority, ok := ClusterKindPriority[kind]; ok {
		return priority
	}
	return len(ClusterKindPriority) + 1
}
