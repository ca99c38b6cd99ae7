package deptree

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeStatistics(t *testing.T) {
	tree := newTree([]string{"a", "b", "c", "ext"}, "a>b", "b>c", "a>c", "a>ext")
	tree.Nodes["ext"].Kind = KindExternal
	tree.Edges[3].IsExternal = true
	tree.RebuildStructure()
	tree.Cycles = []CircularDependency{}
	tree.Clusters = []ModuleCluster{
		{ID: "dir:.", Kind: ClusterStructural, Members: []string{"a", "b", "c"}},
		{ID: "role:model", Kind: ClusterRole, Members: []string{"a", "b", "c"}},
	}
	before := snapshot(tree)

	stats := ComputeStatistics(tree, nil)

	assert.Equal(t, 4, stats.TotalNodes)
	assert.Equal(t, 4, stats.TotalEdges)
	assert.Equal(t, 2, stats.MaxDepth)
	assert.InDelta(t, 1.0, stats.AverageDependencies, 1e-9)
	assert.Equal(t, 1, stats.ExternalDependencies)
	assert.Equal(t, 2, stats.ClusterCount)
	assert.Equal(t, map[int][]string{1: {"a", "b", "c"}}, stats.SemanticClusters)
	assert.NotEmpty(t, stats.BuildID)
	assert.False(t, stats.GeneratedAt.IsZero())
	assert.Equal(t, before, snapshot(tree))
}

func TestComputeStatistics_Empty(t *testing.T) {
	stats := ComputeStatistics(&DependencyTree{Nodes: map[string]*Node{}}, nil)
	assert.Zero(t, stats.TotalNodes)
	assert.Zero(t, stats.AverageDependencies)
	assert.Zero(t, stats.MaxDepth)
	assert.Nil(t, stats.SemanticClusters)
}

func TestMaxParentDepth_TerminatesOnCycles(t *testing.T) {
	tree := newTree([]string{"a", "b", "c"}, "a>b", "b>c", "c>a")
	tree.RebuildStructure()

	depth := maxParentDepth(tree.Nodes)
	assert.GreaterOrEqual(t, depth, 1)
	assert.LessOrEqual(t, depth, len(tree.Nodes))
}

func TestMaxParentDepth_TakesLongestChain(t *testing.T) {
	// d is reachable directly from a and through a > b > c.
	tree := newTree([]string{"a", "b", "c", "d"}, "a>d", "a>b", "b>c", "c>d")
	tree.RebuildStructure()
	assert.Equal(t, 3, maxParentDepth(tree.Nodes))
}
