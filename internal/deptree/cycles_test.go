package deptree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// graph builds file nodes for ids and edges from "from>to" pairs.
func graph(ids []string, pairs ...string) (map[string]*Node, []Edge) {
	nodes := make(map[string]*Node, len(ids))
	for _, id := range ids {
		nodes[id] = &Node{ID: id, Name: id, Path: id + ".ts", Kind: KindFile, Complexity: 1, Size: 10}
	}
	edges := make([]Edge, 0, len(pairs))
	for _, p := range pairs {
		for i := 0; i < len(p); i++ {
			if p[i] == '>' {
				edges = append(edges, Edge{From: p[:i], To: p[i+1:], Type: EdgeImport, Weight: 2})
				break
			}
		}
	}
	return nodes, edges
}

func TestDetectCycles_ThreeNodeCycleReportedOnce(t *testing.T) {
	// DFS starts from "a", "m" or "z" depending on which id sorts first.
	for _, ids := range [][]string{{"a", "m", "z"}, {"m", "z", "a"}} {
		nodes, edges := graph(ids, ids[0]+">"+ids[1], ids[1]+">"+ids[2], ids[2]+">"+ids[0])

		cycles := DetectCycles(nodes, edges)

		require.Len(t, cycles, 1)
		assert.ElementsMatch(t, ids, cycles[0].Members())
		assert.Len(t, cycles[0].Path, 4)
		assert.Equal(t, cycles[0].Path[0], cycles[0].Path[3])
	}
}

func TestDetectCycles_Acyclic(t *testing.T) {
	nodes, edges := graph([]string{"a", "b", "c"}, "a>b", "b>c", "a>c")
	assert.Empty(t, DetectCycles(nodes, edges))
}

func TestDetectCycles_TwoIndependentCycles(t *testing.T) {
	nodes, edges := graph([]string{"a", "b", "c", "d"}, "a>b", "b>a", "c>d", "d>c")

	cycles := DetectCycles(nodes, edges)

	require.Len(t, cycles, 2)
	assert.Equal(t, []string{"a", "b", "a"}, cycles[0].Path)
	assert.Equal(t, []string{"c", "d", "c"}, cycles[1].Path)
}

func TestDetectCycles_IgnoresDanglingEdges(t *testing.T) {
	nodes, edges := graph([]string{"a"}, "a>missing", "missing>a")
	assert.Empty(t, DetectCycles(nodes, edges))
}

func TestDetectCycles_PairGetsExtraSuggestion(t *testing.T) {
	nodes, edges := graph([]string{"a", "b"}, "a>b", "b>a")

	cycles := DetectCycles(nodes, edges)

	require.Len(t, cycles, 1)
	c := cycles[0]
	assert.Len(t, c.Suggestions, len(cycleSuggestions)+1)
	assert.Contains(t, c.Suggestions, pairCycleSuggestion)
	assert.Equal(t, "Circular dependency between 2 modules: a.ts -> b.ts -> a.ts", c.Description)
	assert.Equal(t, SeverityLow, c.Severity)
}

func TestCycleSeverity(t *testing.T) {
	tests := []struct {
		name       string
		length     int
		complexity int
		size       int64
		want       Severity
	}{
		{"small pair", 2, 2, 100, SeverityLow},
		{"three members", 3, 3, 100, SeverityMedium},
		{"complexity above 10", 2, 11, 100, SeverityMedium},
		{"complexity exactly 10", 2, 10, 100, SeverityLow},
		{"four members", 4, 3, 100, SeverityHigh},
		{"complexity above 20", 2, 21, 100, SeverityHigh},
		{"size above 5000", 2, 2, 5001, SeverityHigh},
		{"size exactly 5000", 2, 2, 5000, SeverityLow},
		{"six members", 6, 3, 100, SeverityCritical},
		{"complexity above 50", 2, 51, 100, SeverityCritical},
		{"size above 10000", 2, 2, 10001, SeverityCritical},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CycleSeverity(tt.length, tt.complexity, tt.size))
		})
	}
}

func TestCycleSeverity_MonotonicInLength(t *testing.T) {
	prev := -1
	for length := 2; length <= 6; length++ {
		rank := CycleSeverity(length, 2, 100).Rank()
		assert.GreaterOrEqual(t, rank, prev)
		prev = rank
	}
	assert.Equal(t, SeverityCritical, CycleSeverity(6, 2, 100))
}

func TestDedupeCycles_KeepsMoreSevere(t *testing.T) {
	low := CircularDependency{Path: []string{"a", "b", "a"}, Severity: SeverityLow}
	high := CircularDependency{Path: []string{"b", "a", "b"}, Severity: SeverityHigh}
	tie := CircularDependency{Path: []string{"b", "a", "b"}, Severity: SeverityLow}

	assert.Equal(t, []CircularDependency{high}, dedupeCycles([]CircularDependency{low, high}))
	assert.Equal(t, []CircularDependency{low}, dedupeCycles([]CircularDependency{low, tie}))
}
