package deptree

import (
	"fmt"
	"math"
	"path"
	"regexp"
	"sort"
	"strings"

	"github.com/surgebase/porter2"
)

// SemanticOptions tunes semantic enhancement.
type SemanticOptions struct {
	MaxKeywords int
	MaxSimilar  int
	// Threshold is the exclusive lower bound for a retained similarity.
	Threshold float64
}

// DefaultSemanticOptions returns the standard limits.
func DefaultSemanticOptions() SemanticOptions {
	return SemanticOptions{MaxKeywords: 10, MaxSimilar: 10, Threshold: 0.3}
}

var domainVocabulary = []string{
	"user", "customer", "product", "order", "payment", "invoice", "report",
	"auth", "security", "admin", "dashboard", "api", "database", "cache",
	"notification", "email", "analytics", "logging", "monitoring",
}

var (
	businessSuffixPattern = regexp.MustCompile(`\b(?:class|function|def|interface|const)\s+([A-Za-z_$][\w$]*(?:Service|Manager|Controller|Handler|Repository|Model|Entity))\b`)
	crudFunctionPattern   = regexp.MustCompile(`\b(?:function|def)\s+((?:create|get|update|delete|find|save|remove|fetch|list|add)[A-Za-z0-9_]*)`)
	typedExportPattern    = regexp.MustCompile(`\bexport\s+(?:const|class|interface|type|function)\s+([A-Za-z_$][\w$]*(?:Schema|Model|Interface|Type))\b`)
	wordSeparator         = regexp.MustCompile(`[^A-Za-z0-9]+`)
	camelBoundary         = regexp.MustCompile(`([a-z0-9])([A-Z])`)
)

type trigger struct {
	label string
	re    *regexp.Regexp
}

// wordTrigger matches any alternative at the start of a word.
func wordTrigger(label string, alternatives ...string) trigger {
	return trigger{
		label: label,
		re:    regexp.MustCompile(`(?:^|[^a-z0-9])(?:` + strings.Join(alternatives, "|") + `)`),
	}
}

// Checked in order; the first match wins.
var domainTriggers = []trigger{
	wordTrigger(DomainAuthentication, "auth"),
	wordTrigger(DomainUserManagement, "user"),
	wordTrigger(DomainProductCatalog, "product"),
	wordTrigger(DomainOrders, "order"),
	wordTrigger(DomainPayments, "payment"),
	wordTrigger(DomainAdministration, "admin"),
	wordTrigger(DomainAPI, `api(?:[^a-z]|$)`, "route"),
	wordTrigger(DomainData, "database", "model"),
	wordTrigger(DomainPresentation, `ui(?:[^a-z]|$)`, "component"),
	wordTrigger(DomainBusinessLogic, "service", "business logic"),
}

var roleTriggers = []trigger{
	wordTrigger(RoleController, "controller"),
	wordTrigger(RoleService, "service"),
	wordTrigger(RoleRepository, "repository"),
	wordTrigger(RoleModel, "model"),
	wordTrigger(RoleMiddleware, "middleware"),
	wordTrigger(RoleUtility, "util", "helper"),
	wordTrigger(RoleConfiguration, "config"),
	wordTrigger(RoleTest, "test", "spec"),
	wordTrigger(RoleUIComponent, "react"),
}

var vocabularyTriggers = func() []trigger {
	out := make([]trigger, len(domainVocabulary))
	for i, w := range domainVocabulary {
		out[i] = wordTrigger(w, w)
	}
	return out
}()

// triggerText lowercases s after splitting camelCase words, so that
// UserService matches both user and service.
func triggerText(s string) string {
	return strings.ToLower(camelBoundary.ReplaceAllString(s, "$1 $2"))
}

func firstTrigger(triggers []trigger, text, fallback string) string {
	text = triggerText(text)
	for _, t := range triggers {
		if t.re.MatchString(text) {
			return t.label
		}
	}
	return fallback
}

// InferDomain returns the business domain for a file path and content.
func InferDomain(filePath, content string) string {
	return firstTrigger(domainTriggers, filePath+"\n"+content, DomainGeneral)
}

// InferRole returns the architectural role for a file path and content.
func InferRole(filePath, content string) string {
	return firstTrigger(roleTriggers, filePath+"\n"+content, RoleUnknown)
}

// ExtractKeywords collects up to max keywords: stemmed file name words,
// business-suffixed declarations, CRUD function names, typed exports and
// the domain vocabulary found in content.
func ExtractKeywords(filePath, content string, max int) []string {
	var keywords []string
	seen := make(map[string]bool)
	add := func(k string) bool {
		if k == "" || seen[k] {
			return len(keywords) < max
		}
		if len(keywords) >= max {
			return false
		}
		seen[k] = true
		keywords = append(keywords, k)
		return len(keywords) < max
	}

	base := path.Base(filePath)
	base = strings.TrimSuffix(base, path.Ext(base))
	for _, w := range fileNameWords(base) {
		if !add(porter2.Stem(w)) {
			return keywords
		}
	}

	for _, re := range []*regexp.Regexp{businessSuffixPattern, crudFunctionPattern, typedExportPattern} {
		for _, m := range re.FindAllStringSubmatch(content, -1) {
			if !add(strings.ToLower(m[1])) {
				return keywords
			}
		}
	}

	text := triggerText(content)
	for _, t := range vocabularyTriggers {
		if t.re.MatchString(text) {
			if !add(t.label) {
				return keywords
			}
		}
	}
	return keywords
}

// fileNameWords splits a base name on separators and camelCase boundaries,
// dropping words shorter than three letters.
func fileNameWords(name string) []string {
	var words []string
	for _, part := range wordSeparator.Split(name, -1) {
		for _, w := range splitCamelCase(part) {
			if len(w) >= 3 {
				words = append(words, strings.ToLower(w))
			}
		}
	}
	return words
}

func splitCamelCase(s string) []string {
	if s == "" {
		return nil
	}
	var words []string
	start := 0
	for i := 1; i < len(s); i++ {
		if isUpper(s[i]) && isLower(s[i-1]) {
			words = append(words, s[start:i])
			start = i
		}
		// XMLParser -> XML, Parser
		if i > 1 && isLower(s[i]) && isUpper(s[i-1]) && isUpper(s[i-2]) {
			words = append(words, s[start:i-1])
			start = i - 1
		}
	}
	return append(words, s[start:])
}

func isUpper(c byte) bool { return c >= 'A' && c <= 'Z' }
func isLower(c byte) bool { return c >= 'a' && c <= 'z' }

// EnhanceNodes fills Keywords, BusinessDomain and ArchitecturalRole on the
// given nodes. content returns a node's source text; an error leaves the
// content empty.
func EnhanceNodes(nodes []*Node, content func(*Node) (string, error), opts SemanticOptions) {
	for _, n := range nodes {
		text, err := content(n)
		if err != nil {
			text = ""
		}
		n.Keywords = ExtractKeywords(n.Path, text, opts.MaxKeywords)
		n.BusinessDomain = InferDomain(n.Path, text)
		n.ArchitecturalRole = InferRole(n.Path, text)
	}
}

// Similarity scores two nodes in [0, 1].
func Similarity(a, b *Node) float64 {
	score := 0.0
	if a.BusinessDomain != "" && a.BusinessDomain != DomainGeneral && a.BusinessDomain == b.BusinessDomain {
		score += 0.3
	}
	if a.ArchitecturalRole != "" && a.ArchitecturalRole != RoleUnknown && a.ArchitecturalRole == b.ArchitecturalRole {
		score += 0.2
	}
	score += 0.4 * jaccard(a.Keywords, b.Keywords)
	if path.Dir(a.Path) == path.Dir(b.Path) {
		score += 0.1
	}
	return math.Min(1, score)
}

func jaccard(a, b []string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	set := make(map[string]bool, len(a))
	for _, k := range a {
		set[k] = true
	}
	inter := 0
	union := len(set)
	counted := make(map[string]bool, len(b))
	for _, k := range b {
		if counted[k] {
			continue
		}
		counted[k] = true
		if set[k] {
			inter++
		} else {
			union++
		}
	}
	return float64(inter) / float64(union)
}

// ComputeSimilarities scores every pair of nodes, keeps pairs above the
// threshold ranked by score, and records each node's most similar peers.
// A pair is only linked when both sides still have room, so SimilarNodes
// stays symmetric.
func ComputeSimilarities(nodes []*Node, opts SemanticOptions) []SimilarityMapping {
	var mappings []SimilarityMapping
	for i := 0; i < len(nodes); i++ {
		for j := i + 1; j < len(nodes); j++ {
			if nodes[i].ID == nodes[j].ID {
				continue
			}
			s := Similarity(nodes[i], nodes[j])
			if s > opts.Threshold {
				mappings = append(mappings, SimilarityMapping{NodeA: nodes[i].ID, NodeB: nodes[j].ID, Score: s})
			}
		}
	}
	sort.SliceStable(mappings, func(i, j int) bool {
		if mappings[i].Score != mappings[j].Score {
			return mappings[i].Score > mappings[j].Score
		}
		if mappings[i].NodeA != mappings[j].NodeA {
			return mappings[i].NodeA < mappings[j].NodeA
		}
		return mappings[i].NodeB < mappings[j].NodeB
	})

	byID := make(map[string]*Node, len(nodes))
	for _, n := range nodes {
		n.SimilarNodes = nil
		byID[n.ID] = n
	}
	for _, m := range mappings {
		a, b := byID[m.NodeA], byID[m.NodeB]
		if len(a.SimilarNodes) >= opts.MaxSimilar || len(b.SimilarNodes) >= opts.MaxSimilar {
			continue
		}
		a.SimilarNodes = append(a.SimilarNodes, b.ID)
		b.SimilarNodes = append(b.SimilarNodes, a.ID)
	}
	return mappings
}

// SemanticClusters groups nodes by shared business domain (two or more
// members) and by shared architectural role (three or more members).
//
// Cohesion is the mean score of the retained mappings between members;
// coupling is the mean similarity of every member and non-member pair.
func SemanticClusters(nodes []*Node, mappings []SimilarityMapping) []ModuleCluster {
	byDomain := make(map[string][]*Node)
	byRole := make(map[string][]*Node)
	for _, n := range nodes {
		if n.BusinessDomain != "" && n.BusinessDomain != DomainGeneral {
			byDomain[n.BusinessDomain] = append(byDomain[n.BusinessDomain], n)
		}
		if n.ArchitecturalRole != "" && n.ArchitecturalRole != RoleUnknown {
			byRole[n.ArchitecturalRole] = append(byRole[n.ArchitecturalRole], n)
		}
	}

	var clusters []ModuleCluster
	for _, domain := range sortedKeys(byDomain) {
		members := byDomain[domain]
		if len(members) < 2 {
			continue
		}
		c := semanticCluster(ClusterDomain, domain, members, nodes, mappings)
		c.Description = fmt.Sprintf("%d files in the %s domain", len(members), domain)
		clusters = append(clusters, c)
	}
	for _, role := range sortedKeys(byRole) {
		members := byRole[role]
		if len(members) < 3 {
			continue
		}
		c := semanticCluster(ClusterRole, role, members, nodes, mappings)
		c.Description = fmt.Sprintf("%d files acting as %s", len(members), role)
		clusters = append(clusters, c)
	}
	return clusters
}

func semanticCluster(kind ClusterKind, label string, members, all []*Node, mappings []SimilarityMapping) ModuleCluster {
	inCluster := make(map[string]bool, len(members))
	ids := make([]string, 0, len(members))
	for _, m := range members {
		inCluster[m.ID] = true
		ids = append(ids, m.ID)
	}
	sort.Strings(ids)

	cohesion := 0.0
	if len(members) >= 2 {
		sum, n := 0.0, 0
		for _, m := range mappings {
			if inCluster[m.NodeA] && inCluster[m.NodeB] {
				sum += m.Score
				n++
			}
		}
		if n > 0 {
			cohesion = sum / float64(n)
		}
	}

	coupling := 0.0
	sum, n := 0.0, 0
	for _, m := range members {
		for _, other := range all {
			if inCluster[other.ID] {
				continue
			}
			sum += Similarity(m, other)
			n++
		}
	}
	if n > 0 {
		coupling = sum / float64(n)
	}

	title := "Domain"
	if kind == ClusterRole {
		title = "Role"
	}
	return ModuleCluster{
		ID:       string(kind) + ":" + label,
		Name:     title + ": " + label,
		Kind:     kind,
		Members:  ids,
		Cohesion: cohesion,
		Coupling: coupling,
	}
}

func sortedKeys(m map[string][]*Node) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
