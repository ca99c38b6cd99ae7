package navigator

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jghiringhelli/codeseeker-sub004/internal/deptree"
	"github.com/jghiringhelli/codeseeker-sub004/internal/output"
	"github.com/jghiringhelli/codeseeker-sub004/internal/render"
)

const helpText = `Commands:
  ls                      list children of the current node
  cd <n|name>             move to a child by number or name (.. parent, / root)
  parent                  move to the parent node
  back                    return to the previous node
  pwd                     show the navigation path
  info                    show details of the current node
  deps                    show incoming and outgoing dependencies
  cycles [all]            show cycles through the current node, or all cycles
  tree [depth]            print the tree below the current node
  stats                   show tree statistics
  select [n|name]         add a node to the selection
  selected                list selected nodes
  clear                   clear the selection
  filter <key> <value>    external on|off, lang <name|all>, kind <k1,k2|all>, depth <n>
  help                    show this help
  exit                    leave the navigator`

func (n *Navigator) help() {
	fmt.Fprintln(n.out, helpText)
}

func (n *Navigator) list() {
	node := n.Current()
	if node == nil {
		n.errorf("tree is empty")
		return
	}
	children := n.visibleChildren()
	fmt.Fprintf(n.out, "%s (%d of %d children shown)\n", displayName(node), len(children), len(node.Children))
	if len(children) == 0 {
		fmt.Fprintln(n.out, "  (no children)")
		return
	}
	for i, c := range children {
		mark := " "
		if n.isSelected(c.ID) {
			mark = "*"
		}
		fmt.Fprintf(n.out, "%s %2d. %s%s\n", mark, i+1, displayName(c), n.summary(c))
	}
}

// summary is the short annotation shown after a node in listings.
func (n *Navigator) summary(node *deptree.Node) string {
	var parts []string
	switch node.Kind {
	case deptree.KindFile:
		parts = append(parts, node.Language)
	default:
		parts = append(parts, string(node.Kind))
	}
	if len(node.Children) > 0 {
		parts = append(parts, fmt.Sprintf("%d deps", len(node.Children)))
	}
	if len(n.tree.CyclesWith(node.ID)) > 0 {
		parts = append(parts, "in cycle")
	}
	return " (" + strings.Join(parts, ", ") + ")"
}

func (n *Navigator) info() {
	node := n.Current()
	if node == nil {
		n.errorf("tree is empty")
		return
	}
	rows := [][2]string{
		{"ID", node.ID},
		{"Name", node.Name},
		{"Path", node.Path},
		{"Type", string(node.Kind)},
	}
	if node.Kind == deptree.KindFile {
		loc := strconv.Itoa(node.LinesOfCode)
		if node.Degraded {
			loc += " (estimated)"
		}
		rows = append(rows,
			[2]string{"Language", node.Language},
			[2]string{"Size", fmt.Sprintf("%d bytes", node.Size)},
			[2]string{"Complexity", strconv.Itoa(node.Complexity)},
			[2]string{"Lines of code", loc},
			[2]string{"Maintainability", output.FormatFloat(node.Maintainability)},
			[2]string{"Entry point", strconv.FormatBool(node.IsEntryPoint)},
			[2]string{"Leaf", strconv.FormatBool(node.IsLeaf)},
		)
	}
	rows = append(rows,
		[2]string{"Children", strconv.Itoa(len(node.Children))},
		[2]string{"Parents", strconv.Itoa(len(node.Parents))},
	)
	if node.BusinessDomain != "" {
		rows = append(rows, [2]string{"Domain", node.BusinessDomain})
	}
	if node.ArchitecturalRole != "" {
		rows = append(rows, [2]string{"Role", node.ArchitecturalRole})
	}
	if len(node.Keywords) > 0 {
		rows = append(rows, [2]string{"Keywords", strings.Join(node.Keywords, ", ")})
	}
	if len(node.Exports) > 0 {
		rows = append(rows, [2]string{"Exports", strings.Join(node.Exports, ", ")})
	}
	if len(node.SimilarNodes) > 0 {
		similar := make([]string, len(node.SimilarNodes))
		for i, id := range node.SimilarNodes {
			similar[i] = displayName(n.tree.Nodes[id])
		}
		rows = append(rows, [2]string{"Similar", strings.Join(similar, ", ")})
	}
	if cycles := n.tree.CyclesWith(node.ID); len(cycles) > 0 {
		rows = append(rows, [2]string{"Cycles", strconv.Itoa(len(cycles))})
	}
	for _, r := range rows {
		fmt.Fprintf(n.out, "%-16s %s\n", r[0]+":", r[1])
	}
}

func (n *Navigator) deps() {
	node := n.Current()
	if node == nil {
		n.errorf("tree is empty")
		return
	}
	out := n.tree.OutgoingEdges(node.ID)
	fmt.Fprintf(n.out, "Depends on (%d):\n", len(out))
	for _, e := range out {
		fmt.Fprintf(n.out, "  -> %s [%s, weight %d]\n", displayName(n.tree.Nodes[e.To]), e.Type, e.Weight)
	}
	in := n.tree.IncomingEdges(node.ID)
	fmt.Fprintf(n.out, "Used by (%d):\n", len(in))
	for _, e := range in {
		fmt.Fprintf(n.out, "  <- %s [%s]\n", displayName(n.tree.Nodes[e.From]), e.Type)
	}
}

func (n *Navigator) cycles(args []string) {
	if len(args) > 0 && strings.EqualFold(args[0], "all") {
		n.printer.Cycles(n.tree.Cycles)
		return
	}
	node := n.Current()
	if node == nil {
		n.printer.Cycles(nil)
		return
	}
	n.printer.Cycles(n.tree.CyclesWith(node.ID))
}

func (n *Navigator) subtree(args []string) {
	depth := n.filter.Depth
	if len(args) > 0 {
		d, err := strconv.Atoi(args[0])
		if err != nil || d <= 0 {
			n.errorf("depth must be a positive number, got %q", args[0])
			return
		}
		depth = d
	}
	n.printer.Subtree(n.tree, n.current, depth)
}

func (n *Navigator) stats() {
	n.printer.Stats(n.tree.Stats)
	if langs := render.SortedLanguages(n.tree); len(langs) > 0 {
		fmt.Fprintf(n.out, "  %-22s %s\n", "Languages:", strings.Join(langs, ", "))
	}
	fmt.Fprintf(n.out, "  %-22s %d\n", "History:", len(n.history))
	fmt.Fprintf(n.out, "  %-22s %d\n", "Selected:", len(n.selected))
}

func (n *Navigator) setFilter(args []string) {
	if len(args) == 0 {
		fmt.Fprintf(n.out, "Filter: %s\n", n.filter)
		return
	}
	if err := n.filter.apply(args); err != nil {
		n.errorf("%v", err)
		return
	}
	fmt.Fprintf(n.out, "Filter: %s\n", n.filter)
}
