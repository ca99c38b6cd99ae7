// Package render prints dependency trees and their analysis summaries for
// terminals. Styling goes through a lipgloss renderer bound to the output
// writer, so non-terminal writers get plain text.
package render

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/jghiringhelli/codeseeker-sub004/internal/deptree"
	"github.com/jghiringhelli/codeseeker-sub004/internal/output"
)

// CircularMarker is appended to a node that closes a cycle on the current path.
const CircularMarker = "(circular reference)"

// Options controls tree printing.
type Options struct {
	// MaxDepth bounds how many levels below the start node are printed.
	MaxDepth int
	// ShowDeps labels each child with the edge types leading to it.
	ShowDeps bool
	// NoColor forces plain output even on a terminal.
	NoColor bool
}

type styles struct {
	header   lipgloss.Style
	root     lipgloss.Style
	external lipgloss.Style
	virtual  lipgloss.Style
	circular lipgloss.Style
	muted    lipgloss.Style
	severity map[deptree.Severity]lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		header:   r.NewStyle().Foreground(lipgloss.Color("6")).Bold(true),
		root:     r.NewStyle().Bold(true),
		external: r.NewStyle().Foreground(lipgloss.Color("240")),
		virtual:  r.NewStyle().Italic(true),
		circular: r.NewStyle().Foreground(lipgloss.Color("9")),
		muted:    r.NewStyle().Foreground(lipgloss.Color("240")),
		severity: map[deptree.Severity]lipgloss.Style{
			deptree.SeverityCritical: r.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
			deptree.SeverityHigh:     r.NewStyle().Foreground(lipgloss.Color("208")),
			deptree.SeverityMedium:   r.NewStyle().Foreground(lipgloss.Color("3")),
			deptree.SeverityLow:      r.NewStyle().Foreground(lipgloss.Color("2")),
		},
	}
}

// Printer writes styled reports to a writer.
type Printer struct {
	w      io.Writer
	opts   Options
	styles styles
}

// NewPrinter creates a Printer for w.
func NewPrinter(w io.Writer, opts Options) *Printer {
	r := lipgloss.NewRenderer(w)
	if opts.NoColor {
		r.SetColorProfile(termenv.Ascii)
	}
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = deptree.DefaultMaxDepth
	}
	return &Printer{w: w, opts: opts, styles: newStyles(r)}
}

// Tree prints the tree from its root.
func (p *Printer) Tree(t *deptree.DependencyTree) {
	p.Subtree(t, t.Root, p.opts.MaxDepth)
}

// Subtree prints the tree below id down to depth levels.
//
// Each child receives its own copy of the set of ancestors on the current
// path. A node reachable by several paths is printed under each of them;
// only a return to an ancestor on the same path is cut short with
// CircularMarker.
func (p *Printer) Subtree(t *deptree.DependencyTree, id string, depth int) {
	n, ok := t.Node(id)
	if !ok {
		fmt.Fprintln(p.w, p.styles.muted.Render("(empty tree)"))
		return
	}
	fmt.Fprintln(p.w, p.styles.root.Render(p.label(n)))
	p.children(t, n, "", 1, depth, map[string]bool{n.ID: true})
}

func (p *Printer) children(t *deptree.DependencyTree, n *deptree.Node, prefix string, level, depth int, ancestors map[string]bool) {
	if level > depth {
		return
	}
	for i, childID := range n.Children {
		child, ok := t.Node(childID)
		if !ok {
			continue
		}
		last := i == len(n.Children)-1
		branch, indent := "├── ", "│   "
		if last {
			branch, indent = "└── ", "    "
		}

		line := p.label(child)
		if p.opts.ShowDeps {
			if types := edgeTypes(t, n.ID, childID); types != "" {
				line += " " + p.styles.muted.Render("["+types+"]")
			}
		}
		if ancestors[childID] {
			fmt.Fprintln(p.w, prefix+branch+line+" "+p.styles.circular.Render(CircularMarker))
			continue
		}
		fmt.Fprintln(p.w, prefix+branch+line)

		path := make(map[string]bool, len(ancestors)+1)
		for k := range ancestors {
			path[k] = true
		}
		path[childID] = true
		p.children(t, child, prefix+indent, level+1, depth, path)
	}
}

func (p *Printer) label(n *deptree.Node) string {
	switch n.Kind {
	case deptree.KindVirtual:
		return p.styles.virtual.Render(n.Name)
	case deptree.KindExternal:
		return p.styles.external.Render(n.Name + " (external)")
	}
	detail := fmt.Sprintf("(%s, complexity %d, %d LOC", n.Language, n.Complexity, n.LinesOfCode)
	if n.Degraded {
		detail += ", estimated"
	}
	return n.Path + " " + p.styles.muted.Render(detail+")")
}

func edgeTypes(t *deptree.DependencyTree, from, to string) string {
	seen := make(map[deptree.EdgeType]bool)
	var types []string
	for _, e := range t.OutgoingEdges(from) {
		if e.To == to && !seen[e.Type] {
			seen[e.Type] = true
			types = append(types, string(e.Type))
		}
	}
	return strings.Join(types, ", ")
}

// Cycles prints a circular dependency summary, most severe first.
func (p *Printer) Cycles(cycles []deptree.CircularDependency) {
	fmt.Fprintln(p.w, p.styles.header.Render(fmt.Sprintf("Circular dependencies (%d)", len(cycles))))
	if len(cycles) == 0 {
		fmt.Fprintln(p.w, "  none found")
		return
	}
	ordered := append([]deptree.CircularDependency(nil), cycles...)
	output.SortCycles(ordered)
	for i, c := range ordered {
		sev := p.styles.severity[c.Severity].Render(strings.ToUpper(string(c.Severity)))
		fmt.Fprintf(p.w, "  %d. [%s] %s\n", i+1, sev, c.Description)
		for _, s := range c.Suggestions {
			fmt.Fprintln(p.w, p.styles.muted.Render("     - "+s))
		}
	}
}

// Clusters prints structural and semantic clusters.
func (p *Printer) Clusters(clusters []deptree.ModuleCluster) {
	fmt.Fprintln(p.w, p.styles.header.Render(fmt.Sprintf("Clusters (%d)", len(clusters))))
	if len(clusters) == 0 {
		fmt.Fprintln(p.w, "  none found")
		return
	}
	ordered := append([]deptree.ModuleCluster(nil), clusters...)
	output.SortClusters(ordered)
	for _, c := range ordered {
		fmt.Fprintf(p.w, "  %s [%s] %d files, cohesion %s, coupling %s\n",
			c.Name, c.Kind, len(c.Members), output.FormatFloat(c.Cohesion), output.FormatFloat(c.Coupling))
		if c.Description != "" {
			fmt.Fprintln(p.w, p.styles.muted.Render("     "+c.Description))
		}
	}
}

// Stats prints the summary statistics.
func (p *Printer) Stats(s deptree.Statistics) {
	fmt.Fprintln(p.w, p.styles.header.Render("Statistics"))
	rows := [][2]string{
		{"Nodes", fmt.Sprint(s.TotalNodes)},
		{"Edges", fmt.Sprint(s.TotalEdges)},
		{"Max depth", fmt.Sprint(s.MaxDepth)},
		{"Average dependencies", output.FormatFloat(s.AverageDependencies)},
		{"Circular dependencies", fmt.Sprint(s.CircularCount)},
		{"External dependencies", fmt.Sprint(s.ExternalDependencies)},
		{"Clusters", fmt.Sprint(s.ClusterCount)},
	}
	if len(s.SimilarityMappings) > 0 {
		rows = append(rows, [2]string{"Similar pairs", fmt.Sprint(len(s.SimilarityMappings))})
	}
	for _, r := range rows {
		fmt.Fprintf(p.w, "  %-22s %s\n", r[0]+":", r[1])
	}
}

// Similarities prints the top n similarity pairs by score.
func (p *Printer) Similarities(t *deptree.DependencyTree, n int) {
	mappings := append([]deptree.SimilarityMapping(nil), t.Stats.SimilarityMappings...)
	if len(mappings) == 0 {
		return
	}
	output.SortSimilarities(mappings)
	if n > 0 && len(mappings) > n {
		mappings = mappings[:n]
	}
	fmt.Fprintln(p.w, p.styles.header.Render("Most similar files"))
	for _, m := range mappings {
		fmt.Fprintf(p.w, "  %s  %s <-> %s\n", output.FormatFloat(m.Score), pathOf(t, m.NodeA), pathOf(t, m.NodeB))
	}
}

// Section prints a titled list, or "none found" when lines is empty.
func (p *Printer) Section(title string, lines []string) {
	fmt.Fprintln(p.w, p.styles.header.Render(fmt.Sprintf("%s (%d)", title, len(lines))))
	if len(lines) == 0 {
		fmt.Fprintln(p.w, "  none found")
		return
	}
	for _, l := range lines {
		fmt.Fprintln(p.w, "  "+l)
	}
}

// Report prints the full non-interactive report: tree, cycles, clusters
// and statistics.
func (p *Printer) Report(t *deptree.DependencyTree) {
	p.Tree(t)
	fmt.Fprintln(p.w)
	p.Cycles(t.Cycles)
	fmt.Fprintln(p.w)
	p.Clusters(t.Clusters)
	if len(t.Stats.SimilarityMappings) > 0 {
		fmt.Fprintln(p.w)
		p.Similarities(t, 10)
	}
	fmt.Fprintln(p.w)
	p.Stats(t.Stats)
}

func pathOf(t *deptree.DependencyTree, id string) string {
	if n, ok := t.Node(id); ok {
		return n.Path
	}
	return id
}

// SortedLanguages lists the distinct languages of file nodes.
func SortedLanguages(t *deptree.DependencyTree) []string {
	seen := make(map[string]bool)
	for _, n := range t.Nodes {
		if n.Kind == deptree.KindFile {
			seen[n.Language] = true
		}
	}
	out := make([]string, 0, len(seen))
	for l := range seen {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}
