package navigator

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/jghiringhelli/codeseeker-sub004/internal/deptree"
)

// Filter decides which children ls and cd consider.
type Filter struct {
	// Kinds is the allow-list of node kinds; empty allows every kind.
	Kinds        map[deptree.NodeKind]bool
	ShowExternal bool
	// Language restricts file nodes to one language; empty allows all.
	Language string
	// Depth is the default depth of the tree command.
	Depth int
}

// DefaultFilter shows every kind except external packages.
func DefaultFilter() Filter {
	return Filter{Depth: 3}
}

// Allows reports whether n passes the filter.
func (f Filter) Allows(n *deptree.Node) bool {
	if n.Kind == deptree.KindExternal && !f.ShowExternal {
		return false
	}
	if len(f.Kinds) > 0 && !f.Kinds[n.Kind] {
		return false
	}
	if f.Language != "" && n.Kind == deptree.KindFile && !strings.EqualFold(n.Language, f.Language) {
		return false
	}
	return true
}

func (f Filter) String() string {
	kinds := "all"
	if len(f.Kinds) > 0 {
		names := make([]string, 0, len(f.Kinds))
		for k := range f.Kinds {
			names = append(names, string(k))
		}
		sort.Strings(names)
		kinds = strings.Join(names, ",")
	}
	lang := f.Language
	if lang == "" {
		lang = "all"
	}
	external := "off"
	if f.ShowExternal {
		external = "on"
	}
	return fmt.Sprintf("external=%s lang=%s kind=%s depth=%d", external, lang, kinds, f.Depth)
}

var knownKinds = map[string]deptree.NodeKind{
	"file":     deptree.KindFile,
	"module":   deptree.KindModule,
	"package":  deptree.KindPackage,
	"external": deptree.KindExternal,
	"virtual":  deptree.KindVirtual,
}

// apply updates the filter from "filter" command arguments.
func (f *Filter) apply(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: filter external on|off | lang <name|all> | kind <k1,k2|all> | depth <n>")
	}
	key, value := strings.ToLower(args[0]), strings.ToLower(args[1])
	switch key {
	case "external":
		switch value {
		case "on":
			f.ShowExternal = true
		case "off":
			f.ShowExternal = false
		default:
			return fmt.Errorf("filter external expects on or off, got %q", value)
		}
	case "lang", "language":
		if value == "all" {
			value = ""
		}
		f.Language = value
	case "kind":
		if value == "all" {
			f.Kinds = nil
			return nil
		}
		kinds := make(map[deptree.NodeKind]bool)
		for _, name := range strings.Split(value, ",") {
			k, ok := knownKinds[strings.TrimSpace(name)]
			if !ok {
				return fmt.Errorf("unknown node kind %q", name)
			}
			kinds[k] = true
		}
		f.Kinds = kinds
	case "depth":
		d, err := strconv.Atoi(value)
		if err != nil || d <= 0 {
			return fmt.Errorf("depth must be a positive number, got %q", value)
		}
		f.Depth = d
	default:
		return fmt.Errorf("unknown filter %q", key)
	}
	return nil
}
