package extract

import (
	"regexp"
	"sort"
	"strings"
)

// importPattern extracts one kind of dependency. Group indexes are 1-based;
// a zero clause group means the pattern binds no local names.
type importPattern struct {
	re          *regexp.Regexp
	depType     DependencyType
	targetGroup int
	clauseGroup int
	dynamic     bool
	typeOnly    bool
}

// esClause matches an import clause: a default binding, a namespace
// binding, a named list, or a default binding followed by one of the others.
const esClause = `([\w$]+(?:\s*,\s*(?:\{[^}]*\}|\*\s*as\s+[\w$]+))?|\{[^}]*\}|\*\s*as\s+[\w$]+)`

var esImportPatterns = []importPattern{
	{
		re:          regexp.MustCompile(`(?m)^[ \t]*import\s+type\s+` + esClause + `\s*from\s*['"]([^'"\n]+)['"]`),
		depType:     DepImport,
		clauseGroup: 1,
		targetGroup: 2,
		typeOnly:    true,
	},
	{
		re:          regexp.MustCompile(`(?m)^[ \t]*import\s+` + esClause + `\s*from\s*['"]([^'"\n]+)['"]`),
		depType:     DepImport,
		clauseGroup: 1,
		targetGroup: 2,
	},
	{
		re:          regexp.MustCompile(`(?m)^[ \t]*import\s*['"]([^'"\n]+)['"]`),
		depType:     DepImport,
		targetGroup: 1,
	},
	{
		re:          regexp.MustCompile(`(?m)^[ \t]*export\s+(?:type\s+)?(?:\*(?:\s*as\s+[\w$]+)?|\{[^}]*\})\s*from\s*['"]([^'"\n]+)['"]`),
		depType:     DepExport,
		targetGroup: 1,
	},
	{
		re:          regexp.MustCompile(`\brequire\s*\(\s*['"]([^'"\n]+)['"]\s*\)`),
		depType:     DepImport,
		targetGroup: 1,
	},
	{
		re:          regexp.MustCompile(`\bimport\s*\(\s*['"]([^'"\n]+)['"]\s*\)`),
		depType:     DepImport,
		targetGroup: 1,
		dynamic:     true,
	},
}

var (
	identPattern = regexp.MustCompile(`[A-Za-z_$][\w$]*`)

	esExtendsPattern    = regexp.MustCompile(`\bclass\s+[\w$]+(?:\s*<[^>{]*>)?\s+extends\s+([A-Za-z_$][\w$]*)`)
	esImplementsPattern = regexp.MustCompile(`\bimplements\s+([\w$\s,.]+?)\s*\{`)
	esNewPattern        = regexp.MustCompile(`\bnew\s+([A-Z][\w$]*)\s*[(<]`)

	pyFromPattern     = regexp.MustCompile(`(?m)^[ \t]*from\s+(\.+[\w.]*|[\w.]+)\s+import\s+(\([^)]*\)|[^\n#]+)`)
	pyImportPattern   = regexp.MustCompile(`(?m)^[ \t]*import\s+([\w.]+(?:\s+as\s+\w+)?(?:\s*,\s*[\w.]+(?:\s+as\s+\w+)?)*)`)
	pyClassPattern    = regexp.MustCompile(`(?m)^[ \t]*class\s+\w+\s*\(([^)]*)\)`)
	pyInstancePattern = regexp.MustCompile(`=\s*([A-Z]\w*)\s*\(`)
)

// dependencySet accumulates dependencies, dropping repeats of the same
// kind and target.
type dependencySet struct {
	source   []byte
	deps     []Dependency
	seen     map[string]bool
	bindings map[string]string
}

func newDependencySet(source []byte) *dependencySet {
	return &dependencySet{
		source:   source,
		seen:     make(map[string]bool),
		bindings: make(map[string]string),
	}
}

func (s *dependencySet) add(d Dependency, offset int) {
	key := string(d.Type) + "|" + d.Target
	if d.Dynamic {
		key += "|dynamic"
	}
	if d.TypeOnly {
		key += "|type"
	}
	if s.seen[key] {
		return
	}
	s.seen[key] = true
	d.Line = lineAt(s.source, offset)
	d.IsExternal = !IsRelative(d.Target)
	s.deps = append(s.deps, d)
}

func (s *dependencySet) bind(name, target string) {
	if name == "" {
		return
	}
	if _, ok := s.bindings[name]; !ok {
		s.bindings[name] = target
	}
}

func (s *dependencySet) result() []Dependency {
	sort.SliceStable(s.deps, func(i, j int) bool { return s.deps[i].Line < s.deps[j].Line })
	return s.deps
}

// ScanDependencies extracts import, export, inheritance and composition
// dependencies from source. Inheritance and composition are only reported
// for names bound by an import, with the import's target.
func ScanDependencies(source []byte, lang Language) []Dependency {
	switch {
	case lang.isECMAScript():
		return scanECMAScript(source)
	case lang == LangPython:
		return scanPython(source)
	default:
		return nil
	}
}

func scanECMAScript(source []byte) []Dependency {
	set := newDependencySet(source)
	text := string(source)
	taken := make(map[int]bool)

	for _, p := range esImportPatterns {
		for _, m := range p.re.FindAllStringSubmatchIndex(text, -1) {
			if taken[m[0]] {
				continue
			}
			taken[m[0]] = true

			target := strings.TrimSpace(text[m[2*p.targetGroup]:m[2*p.targetGroup+1]])
			if target == "" {
				continue
			}
			set.add(Dependency{
				Type:     p.depType,
				Target:   target,
				Dynamic:  p.dynamic,
				TypeOnly: p.typeOnly,
			}, m[0])

			if p.clauseGroup > 0 {
				clause := text[m[2*p.clauseGroup]:m[2*p.clauseGroup+1]]
				for _, name := range identPattern.FindAllString(clause, -1) {
					if name != "as" && name != "type" {
						set.bind(name, target)
					}
				}
			}
		}
	}

	for _, m := range esExtendsPattern.FindAllStringSubmatchIndex(text, -1) {
		set.addBound(DepInheritance, text[m[2]:m[3]], m[0])
	}
	for _, m := range esImplementsPattern.FindAllStringSubmatchIndex(text, -1) {
		for _, name := range strings.Split(text[m[2]:m[3]], ",") {
			set.addBound(DepInheritance, strings.TrimSpace(name), m[0])
		}
	}
	for _, m := range esNewPattern.FindAllStringSubmatchIndex(text, -1) {
		set.addBound(DepComposition, text[m[2]:m[3]], m[0])
	}

	return set.result()
}

func scanPython(source []byte) []Dependency {
	set := newDependencySet(source)
	text := string(source)

	for _, m := range pyFromPattern.FindAllStringSubmatchIndex(text, -1) {
		module := text[m[2]:m[3]]
		names := pythonNames(text[m[4]:m[5]])

		if !strings.HasPrefix(module, ".") {
			set.add(Dependency{Type: DepImport, Target: module}, m[0])
			for _, n := range names {
				set.bind(n.local, module)
			}
			continue
		}

		prefix, rest := pythonRelative(module)
		if rest != "" {
			target := prefix + rest
			set.add(Dependency{Type: DepImport, Target: target}, m[0])
			for _, n := range names {
				set.bind(n.local, target)
			}
			continue
		}
		// "from . import views" imports sibling modules
		for _, n := range names {
			if n.name == "*" {
				continue
			}
			target := prefix + n.name
			set.add(Dependency{Type: DepImport, Target: target}, m[0])
			set.bind(n.local, target)
		}
	}

	for _, m := range pyImportPattern.FindAllStringSubmatchIndex(text, -1) {
		for _, n := range pythonNames(text[m[2]:m[3]]) {
			set.add(Dependency{Type: DepImport, Target: n.name}, m[0])
			local := n.local
			if local == n.name {
				local = strings.SplitN(n.name, ".", 2)[0]
			}
			set.bind(local, n.name)
		}
	}

	for _, m := range pyClassPattern.FindAllStringSubmatchIndex(text, -1) {
		for _, base := range strings.Split(text[m[2]:m[3]], ",") {
			base = strings.TrimSpace(base)
			if base == "" || strings.Contains(base, "=") {
				continue
			}
			set.addBound(DepInheritance, strings.SplitN(base, ".", 2)[0], m[0])
		}
	}
	for _, m := range pyInstancePattern.FindAllStringSubmatchIndex(text, -1) {
		set.addBound(DepComposition, text[m[2]:m[3]], m[0])
	}

	return set.result()
}

// addBound records a dependency on the import that bound name, if any.
func (s *dependencySet) addBound(depType DependencyType, name string, offset int) {
	target, ok := s.bindings[name]
	if !ok {
		return
	}
	s.add(Dependency{Type: depType, Target: target}, offset)
}

type pythonName struct {
	name  string
	local string
}

// pythonNames parses "a, b as c" or "(a,\n b)".
func pythonNames(list string) []pythonName {
	list = strings.Trim(strings.TrimSpace(list), "()")
	var names []pythonName
	for _, part := range strings.Split(list, ",") {
		fields := strings.Fields(part)
		switch {
		case len(fields) == 0:
			continue
		case len(fields) >= 3 && fields[1] == "as":
			names = append(names, pythonName{name: fields[0], local: fields[2]})
		default:
			names = append(names, pythonName{name: fields[0], local: fields[0]})
		}
	}
	return names
}

// pythonRelative converts "..pkg.mod" into ("../", "pkg/mod").
func pythonRelative(module string) (prefix, rest string) {
	dots := len(module) - len(strings.TrimLeft(module, "."))
	if dots == 1 {
		prefix = "./"
	} else {
		prefix = strings.Repeat("../", dots-1)
	}
	rest = strings.ReplaceAll(module[dots:], ".", "/")
	return prefix, rest
}

func lineAt(source []byte, offset int) int {
	if offset > len(source) {
		offset = len(source)
	}
	line := 1
	for _, b := range source[:offset] {
		if b == '\n' {
			line++
		}
	}
	return line
}

// countLinesOfCode counts non-blank lines.
func countLinesOfCode(source []byte) int {
	n := 0
	for _, line := range strings.Split(string(source), "\n") {
		if strings.TrimSpace(line) != "" {
			n++
		}
	}
	return n
}
