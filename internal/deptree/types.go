// Package deptree builds and analyzes the module dependency graph of a
// project: nodes and typed edges, circular dependencies, structural and
// semantic clusters, and summary statistics.
//
// Nodes live in a single map keyed by id; Children and Parents hold ids
// only and are derived from the edge list by RebuildStructure.
package deptree

import (
	"sort"
	"time"
)

// NodeKind classifies a node.
type NodeKind string

const (
	KindFile     NodeKind = "file"
	KindModule   NodeKind = "module"
	KindPackage  NodeKind = "package"
	KindExternal NodeKind = "external"
	KindVirtual  NodeKind = "virtual"
)

// EdgeType classifies an edge.
type EdgeType string

const (
	EdgeImport        EdgeType = "import"
	EdgeExport        EdgeType = "export"
	EdgeDynamicImport EdgeType = "dynamic_import"
	EdgeTypeOnly      EdgeType = "type_only"
	EdgeInheritance   EdgeType = "inheritance"
	EdgeComposition   EdgeType = "composition"
)

// Severity grades a circular dependency.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Rank orders severities from low (0) to critical (3).
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 3
	case SeverityHigh:
		return 2
	case SeverityMedium:
		return 1
	default:
		return 0
	}
}

// Business domains inferred by semantic enhancement.
const (
	DomainAuthentication = "authentication"
	DomainUserManagement = "user-management"
	DomainProductCatalog = "product-catalog"
	DomainOrders         = "order-processing"
	DomainPayments       = "payment-processing"
	DomainAdministration = "administration"
	DomainAPI            = "api-layer"
	DomainData           = "data-layer"
	DomainPresentation   = "presentation-layer"
	DomainBusinessLogic  = "business-logic"
	DomainGeneral        = "general"
)

// Architectural roles inferred by semantic enhancement.
const (
	RoleController    = "controller"
	RoleService       = "service"
	RoleRepository    = "repository"
	RoleModel         = "model"
	RoleMiddleware    = "middleware"
	RoleUtility       = "utility"
	RoleConfiguration = "configuration"
	RoleTest          = "test"
	RoleUIComponent   = "ui-component"
	RoleUnknown       = "unknown"
)

// Node is one file, external package or the virtual root.
type Node struct {
	ID       string   `json:"id" yaml:"id"`
	Name     string   `json:"name" yaml:"name"`
	Path     string   `json:"path" yaml:"path"`
	Kind     NodeKind `json:"type" yaml:"type"`
	Language string   `json:"language" yaml:"language"`

	Size            int64     `json:"size" yaml:"size"`
	Complexity      int       `json:"complexity" yaml:"complexity"`
	LinesOfCode     int       `json:"linesOfCode" yaml:"linesOfCode"`
	Maintainability float64   `json:"maintainabilityIndex" yaml:"maintainabilityIndex"`
	LastModified    time.Time `json:"lastModified,omitzero" yaml:"lastModified,omitempty"`

	IsEntryPoint bool `json:"isEntryPoint" yaml:"isEntryPoint"`
	IsLeaf       bool `json:"isLeaf" yaml:"isLeaf"`
	// Degraded is set when extraction failed and metrics are estimated.
	Degraded bool `json:"degraded,omitempty" yaml:"degraded,omitempty"`

	Children []string `json:"children" yaml:"children"`
	Parents  []string `json:"parents" yaml:"parents"`
	Imports  []string `json:"imports,omitempty" yaml:"imports,omitempty"`
	Exports  []string `json:"exports,omitempty" yaml:"exports,omitempty"`

	Keywords          []string `json:"keywords,omitempty" yaml:"keywords,omitempty"`
	SimilarNodes      []string `json:"similarNodes,omitempty" yaml:"similarNodes,omitempty"`
	BusinessDomain    string   `json:"businessDomain,omitempty" yaml:"businessDomain,omitempty"`
	ArchitecturalRole string   `json:"architecturalRole,omitempty" yaml:"architecturalRole,omitempty"`
}

// Edge is a directed, typed dependency between two nodes.
type Edge struct {
	From       string   `json:"from" yaml:"from"`
	To         string   `json:"to" yaml:"to"`
	Type       EdgeType `json:"type" yaml:"type"`
	Weight     int      `json:"weight" yaml:"weight"`
	Line       int      `json:"line,omitempty" yaml:"line,omitempty"`
	IsExternal bool     `json:"isExternal" yaml:"isExternal"`
}

// CircularDependency is a cycle of node ids; Path repeats the first id at
// the end.
type CircularDependency struct {
	Path        []string `json:"path" yaml:"path"`
	Severity    Severity `json:"severity" yaml:"severity"`
	Description string   `json:"description" yaml:"description"`
	Suggestions []string `json:"suggestions" yaml:"suggestions"`
}

// Members returns the distinct node ids of the cycle.
func (c CircularDependency) Members() []string {
	if len(c.Path) < 2 {
		return c.Path
	}
	return c.Path[:len(c.Path)-1]
}

// ClusterKind tells which algorithm produced a cluster. Declared clusters
// come from user module declarations.
type ClusterKind string

const (
	ClusterStructural ClusterKind = "structural"
	ClusterDomain     ClusterKind = "domain"
	ClusterRole       ClusterKind = "role"
	ClusterDeclared   ClusterKind = "declared"
)

// IsSemantic reports whether the cluster came from semantic enhancement.
func (k ClusterKind) IsSemantic() bool {
	return k == ClusterDomain || k == ClusterRole
}

// ModuleCluster groups related nodes.
type ModuleCluster struct {
	ID          string      `json:"id" yaml:"id"`
	Name        string      `json:"name" yaml:"name"`
	Kind        ClusterKind `json:"kind" yaml:"kind"`
	Members     []string    `json:"nodes" yaml:"nodes"`
	Cohesion    float64     `json:"cohesion" yaml:"cohesion"`
	Coupling    float64     `json:"coupling" yaml:"coupling"`
	Description string      `json:"description" yaml:"description"`
}

// SimilarityMapping is a scored pair of similar nodes.
type SimilarityMapping struct {
	NodeA string  `json:"nodeA" yaml:"nodeA"`
	NodeB string  `json:"nodeB" yaml:"nodeB"`
	Score float64 `json:"similarity" yaml:"similarity"`
}

// Statistics summarizes a tree.
type Statistics struct {
	TotalNodes           int     `json:"totalNodes" yaml:"totalNodes"`
	TotalEdges           int     `json:"totalEdges" yaml:"totalEdges"`
	MaxDepth             int     `json:"maxDepth" yaml:"maxDepth"`
	AverageDependencies  float64 `json:"averageDependencies" yaml:"averageDependencies"`
	CircularCount        int     `json:"circularDependencies" yaml:"circularDependencies"`
	ExternalDependencies int     `json:"externalDependencies" yaml:"externalDependencies"`
	ClusterCount         int     `json:"clusterCount" yaml:"clusterCount"`

	// SemanticClusters maps an index into DependencyTree.Clusters to its members.
	SemanticClusters   map[int][]string    `json:"semanticClusters,omitempty" yaml:"semanticClusters,omitempty"`
	SimilarityMappings []SimilarityMapping `json:"similarityMappings,omitempty" yaml:"similarityMappings,omitempty"`

	BuildID     string    `json:"buildId" yaml:"buildId"`
	GeneratedAt time.Time `json:"generatedAt" yaml:"generatedAt"`
}

// Request describes one tree build.
type Request struct {
	ProjectPath string
	// FilePattern overrides the discovery glob.
	FilePattern     string
	IncludeExternal bool
	// CircularOnly restricts the exposed edges to those between cycle members.
	CircularOnly bool
	MaxDepth     int
	// Semantic runs keyword, domain, role and similarity enhancement.
	Semantic bool
}

// DependencyTree is the result of a build.
type DependencyTree struct {
	ProjectPath string               `json:"projectPath" yaml:"projectPath"`
	Root        string               `json:"root" yaml:"root"`
	Nodes       map[string]*Node     `json:"nodes" yaml:"nodes"`
	Edges       []Edge               `json:"edges" yaml:"edges"`
	Cycles      []CircularDependency `json:"circularDependencies" yaml:"circularDependencies"`
	Clusters    []ModuleCluster      `json:"clusters" yaml:"clusters"`
	Stats       Statistics           `json:"statistics" yaml:"statistics"`
	MaxDepth    int                  `json:"maxDepth" yaml:"maxDepth"`

	// unfiltered holds the edges removed by a circular-only request.
	unfiltered []Edge
}

// Node returns the node with the given id.
func (t *DependencyTree) Node(id string) (*Node, bool) {
	n, ok := t.Nodes[id]
	return n, ok
}

// AllEdges returns every edge found during the build, including those a
// circular-only request dropped from Edges.
func (t *DependencyTree) AllEdges() []Edge {
	if t.unfiltered != nil {
		return t.unfiltered
	}
	return t.Edges
}

// RootNode returns the root node, or nil for an empty tree.
func (t *DependencyTree) RootNode() *Node {
	return t.Nodes[t.Root]
}

// SortedIDs returns every node id in ascending order.
func (t *DependencyTree) SortedIDs() []string {
	return sortedIDs(t.Nodes)
}

// OutgoingEdges returns the edges leaving id, in edge-list order.
func (t *DependencyTree) OutgoingEdges(id string) []Edge {
	var out []Edge
	for _, e := range t.Edges {
		if e.From == id {
			out = append(out, e)
		}
	}
	return out
}

// IncomingEdges returns the edges entering id, in edge-list order.
func (t *DependencyTree) IncomingEdges(id string) []Edge {
	var in []Edge
	for _, e := range t.Edges {
		if e.To == id {
			in = append(in, e)
		}
	}
	return in
}

// CyclesWith returns the cycles that include id.
func (t *DependencyTree) CyclesWith(id string) []CircularDependency {
	var out []CircularDependency
	for _, c := range t.Cycles {
		for _, m := range c.Members() {
			if m == id {
				out = append(out, c)
				break
			}
		}
	}
	return out
}

func sortedIDs(nodes map[string]*Node) []string {
	ids := make([]string, 0, len(nodes))
	for id := range nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
