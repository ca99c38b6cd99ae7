// Package navigator implements an interactive, line-oriented browser over a
// built dependency tree.
//
// The navigator only reads the tree. Its own state is the current node, a
// linear history for back, a selection set and the listing filter.
package navigator

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/jghiringhelli/codeseeker-sub004/internal/deptree"
	"github.com/jghiringhelli/codeseeker-sub004/internal/render"
	"github.com/jghiringhelli/codeseeker-sub004/internal/slogutil"
)

// Prompt is printed before each command.
const Prompt = "codeseeker> "

// Options configures a Navigator.
type Options struct {
	// NoColor disables styling of tree and summary output.
	NoColor bool
	// TreeDepth is the default depth of the tree command.
	TreeDepth int
}

// Navigator is a command loop over a DependencyTree.
type Navigator struct {
	tree    *deptree.DependencyTree
	in      *bufio.Scanner
	out     io.Writer
	printer *render.Printer
	logger  *slog.Logger

	sessionID string
	current   string
	history   []string
	selected  []string
	filter    Filter
}

// New creates a Navigator positioned at the tree root. Commands are read
// from in and all output goes to out.
func New(tree *deptree.DependencyTree, in io.Reader, out io.Writer, opts Options, logger *slog.Logger) *Navigator {
	filter := DefaultFilter()
	if opts.TreeDepth > 0 {
		filter.Depth = opts.TreeDepth
	}
	return &Navigator{
		tree:      tree,
		in:        bufio.NewScanner(in),
		out:       out,
		printer:   render.NewPrinter(out, render.Options{MaxDepth: filter.Depth, NoColor: opts.NoColor}),
		logger:    slogutil.OrDiscard(logger),
		sessionID: uuid.New().String(),
		current:   tree.Root,
		filter:    filter,
	}
}

// SessionID identifies this navigator run in logs.
func (n *Navigator) SessionID() string {
	return n.sessionID
}

// Current returns the node the navigator is positioned at.
func (n *Navigator) Current() *deptree.Node {
	return n.tree.Nodes[n.current]
}

// Selected returns the selected node ids in selection order.
func (n *Navigator) Selected() []string {
	return append([]string(nil), n.selected...)
}

// Run reads and executes commands until exit, end of input or ctx is done.
func (n *Navigator) Run(ctx context.Context) error {
	n.logger.Info("Navigator started", "session", n.sessionID, "root", n.tree.Root)
	fmt.Fprintln(n.out, "Interactive dependency navigator. Type 'help' for commands.")
	n.printLocation()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(n.out, Prompt)
		if !n.in.Scan() {
			fmt.Fprintln(n.out)
			n.logger.Info("Navigator input closed", "session", n.sessionID)
			return n.in.Err()
		}
		if !n.Execute(n.in.Text()) {
			n.logger.Info("Navigator exited", "session", n.sessionID)
			return nil
		}
	}
}

// Execute runs one command line. It returns false when the loop should end.
func (n *Navigator) Execute(line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return true
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]
	n.logger.Debug("Navigator command", "session", n.sessionID, "command", cmd, "args", args)

	switch cmd {
	case "exit", "quit":
		fmt.Fprintln(n.out, "Goodbye.")
		return false
	case "ls":
		n.list()
	case "cd":
		n.cd(strings.Join(args, " "))
	case "parent", "up":
		n.parent()
	case "back":
		n.back()
	case "pwd":
		n.pwd()
	case "info":
		n.info()
	case "deps":
		n.deps()
	case "cycles":
		n.cycles(args)
	case "tree":
		n.subtree(args)
	case "stats":
		n.stats()
	case "select":
		n.selectNode(strings.Join(args, " "))
	case "selected":
		n.listSelected()
	case "clear":
		n.selected = nil
		fmt.Fprintln(n.out, "Selection cleared.")
	case "filter":
		n.setFilter(args)
	case "help", "?":
		n.help()
	default:
		n.errorf("unknown command %q (type 'help' for commands)", cmd)
	}
	return true
}

func (n *Navigator) errorf(format string, args ...any) {
	fmt.Fprintf(n.out, "Error: "+format+"\n", args...)
}

// moveTo records the current node in history and moves to id.
func (n *Navigator) moveTo(id string) {
	n.history = append(n.history, n.current)
	n.current = id
	n.printLocation()
}

func (n *Navigator) printLocation() {
	node := n.Current()
	if node == nil {
		fmt.Fprintln(n.out, "Tree is empty.")
		return
	}
	fmt.Fprintf(n.out, "Now at: %s\n", displayName(node))
}

// visibleChildren returns the current node's children that pass the filter.
func (n *Navigator) visibleChildren() []*deptree.Node {
	node := n.Current()
	if node == nil {
		return nil
	}
	var out []*deptree.Node
	for _, id := range node.Children {
		if child, ok := n.tree.Node(id); ok && n.filter.Allows(child) {
			out = append(out, child)
		}
	}
	return out
}

// resolve finds a node by 1-based child index, then by case-insensitive
// substring among the visible children, then among all nodes.
func (n *Navigator) resolve(arg string) (*deptree.Node, bool) {
	children := n.visibleChildren()
	if idx, err := strconv.Atoi(arg); err == nil {
		if idx < 1 || idx > len(children) {
			return nil, false
		}
		return children[idx-1], true
	}

	needle := strings.ToLower(arg)
	for _, c := range children {
		if matches(c, needle) {
			return c, true
		}
	}
	for _, id := range n.tree.SortedIDs() {
		node := n.tree.Nodes[id]
		if node.Kind != deptree.KindVirtual && matches(node, needle) {
			return node, true
		}
	}
	return nil, false
}

func matches(node *deptree.Node, needle string) bool {
	return strings.Contains(strings.ToLower(node.Path), needle) ||
		strings.Contains(strings.ToLower(node.Name), needle)
}

func (n *Navigator) cd(arg string) {
	switch arg {
	case "":
		n.errorf("usage: cd <number|name>")
		return
	case "..":
		n.parent()
		return
	case "/":
		if n.current != n.tree.Root {
			n.moveTo(n.tree.Root)
		}
		return
	}

	node, ok := n.resolve(arg)
	if !ok {
		n.errorf("no node matches %q", arg)
		if hints := suggestions(n.tree, arg, 3); len(hints) > 0 {
			fmt.Fprintf(n.out, "Did you mean: %s?\n", strings.Join(hints, ", "))
		}
		return
	}
	n.moveTo(node.ID)
}

// parent moves up one level. With several parents the user picks one by
// number; an empty or invalid answer cancels.
func (n *Navigator) parent() {
	node := n.Current()
	if node == nil || len(node.Parents) == 0 {
		n.errorf("%s has no parent", displayName(node))
		return
	}
	if len(node.Parents) == 1 {
		n.moveTo(node.Parents[0])
		return
	}

	fmt.Fprintf(n.out, "%s has %d parents:\n", displayName(node), len(node.Parents))
	for i, id := range node.Parents {
		fmt.Fprintf(n.out, "  %d. %s\n", i+1, displayName(n.tree.Nodes[id]))
	}
	fmt.Fprintf(n.out, "Select parent (1-%d, empty to cancel): ", len(node.Parents))
	if !n.in.Scan() {
		fmt.Fprintln(n.out)
		return
	}
	answer := strings.TrimSpace(n.in.Text())
	if answer == "" {
		fmt.Fprintln(n.out, "Cancelled.")
		return
	}
	idx, err := strconv.Atoi(answer)
	if err != nil || idx < 1 || idx > len(node.Parents) {
		n.errorf("invalid selection %q", answer)
		return
	}
	n.moveTo(node.Parents[idx-1])
}

func (n *Navigator) back() {
	if len(n.history) == 0 {
		n.errorf("no previous location")
		return
	}
	last := len(n.history) - 1
	n.current = n.history[last]
	n.history = n.history[:last]
	n.printLocation()
}

func (n *Navigator) pwd() {
	names := make([]string, 0, len(n.history)+1)
	for _, id := range n.history {
		names = append(names, displayName(n.tree.Nodes[id]))
	}
	names = append(names, displayName(n.Current()))
	fmt.Fprintln(n.out, strings.Join(names, " > "))
}

func (n *Navigator) selectNode(arg string) {
	node := n.Current()
	if arg != "" {
		var ok bool
		if node, ok = n.resolve(arg); !ok {
			n.errorf("no node matches %q", arg)
			return
		}
	}
	if node == nil {
		n.errorf("nothing to select")
		return
	}
	for _, id := range n.selected {
		if id == node.ID {
			fmt.Fprintf(n.out, "%s is already selected.\n", displayName(node))
			return
		}
	}
	n.selected = append(n.selected, node.ID)
	fmt.Fprintf(n.out, "Selected %s (%d total).\n", displayName(node), len(n.selected))
}

func (n *Navigator) listSelected() {
	if len(n.selected) == 0 {
		fmt.Fprintln(n.out, "No nodes selected.")
		return
	}
	for i, id := range n.selected {
		fmt.Fprintf(n.out, "  %d. %s\n", i+1, displayName(n.tree.Nodes[id]))
	}
}

func (n *Navigator) isSelected(id string) bool {
	for _, s := range n.selected {
		if s == id {
			return true
		}
	}
	return false
}

func displayName(node *deptree.Node) string {
	if node == nil {
		return "(none)"
	}
	if node.Kind == deptree.KindFile {
		return node.Path
	}
	return node.Name
}
