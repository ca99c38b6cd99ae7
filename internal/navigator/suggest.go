package navigator

import (
	"sort"
	"strings"

	"github.com/hbollon/go-edlib"

	"github.com/jghiringhelli/codeseeker-sub004/internal/deptree"
)

// minSuggestionScore is the Jaro-Winkler similarity a name needs to be
// offered as a "did you mean" hint.
const minSuggestionScore = 0.8

type suggestion struct {
	name  string
	score float32
}

// suggestions returns up to limit node names closest to query, best first.
// Both the base name and the full path of each node are scored.
func suggestions(t *deptree.DependencyTree, query string, limit int) []string {
	q := strings.ToLower(query)
	var found []suggestion
	for _, id := range t.SortedIDs() {
		n := t.Nodes[id]
		if n.Kind == deptree.KindVirtual {
			continue
		}
		best := float32(0)
		for _, candidate := range []string{n.Name, n.Path} {
			score, err := edlib.StringsSimilarity(q, strings.ToLower(candidate), edlib.JaroWinkler)
			if err == nil && score > best {
				best = score
			}
		}
		if best >= minSuggestionScore {
			found = append(found, suggestion{name: displayName(n), score: best})
		}
	}

	sort.SliceStable(found, func(i, j int) bool {
		return found[i].score > found[j].score
	})
	if len(found) > limit {
		found = found[:limit]
	}
	names := make([]string, len(found))
	for i, s := range found {
		names[i] = s.name
	}
	return names
}
