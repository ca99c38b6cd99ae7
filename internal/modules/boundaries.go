package modules

import (
	"fmt"
	"sort"

	"github.com/jghiringhelli/codeseeker-sub004/internal/deptree"
)

// Violation is an edge from one declared module into another that its
// boundaries do not allow.
type Violation struct {
	From       string           `json:"from"`
	To         string           `json:"to"`
	FromModule string           `json:"fromModule"`
	ToModule   string           `json:"toModule"`
	Type       deptree.EdgeType `json:"type"`
	Line       int              `json:"line,omitempty"`
}

func (v Violation) String() string {
	return fmt.Sprintf("%s -> %s: %s may not depend on %s", v.From, v.To, v.FromModule, v.ToModule)
}

// CheckBoundaries reports every edge between File nodes of two different
// declared modules where the source module restricts its dependencies and
// the target is not listed. A file belongs to the first declaration it
// matches. Edges dropped by a circular-only build are still checked.
func CheckBoundaries(t *deptree.DependencyTree, decls []Declaration) []Violation {
	owner := make(map[string]int)
	for _, id := range t.SortedIDs() {
		n := t.Nodes[id]
		if n.Kind != deptree.KindFile {
			continue
		}
		for i, d := range decls {
			if d.Matches(n.Path) {
				owner[id] = i
				break
			}
		}
	}

	var out []Violation
	for _, e := range t.AllEdges() {
		fi, ok := owner[e.From]
		if !ok {
			continue
		}
		ti, ok := owner[e.To]
		if !ok || fi == ti {
			continue
		}
		from, to := decls[fi], decls[ti]
		if from.Boundaries == nil || from.Boundaries.AllowedDependencies == nil || allows(from.Boundaries, to) {
			continue
		}
		out = append(out, Violation{
			From:       t.Nodes[e.From].Path,
			To:         t.Nodes[e.To].Path,
			FromModule: from.Name,
			ToModule:   to.Name,
			Type:       e.Type,
			Line:       e.Line,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].From != out[j].From {
			return out[i].From < out[j].From
		}
		return out[i].To < out[j].To
	})
	return out
}

func allows(b *Boundaries, target Declaration) bool {
	for _, a := range b.AllowedDependencies {
		if a == target.Name || a == target.Path || a == target.ID {
			return true
		}
	}
	return false
}
