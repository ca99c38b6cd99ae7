package deptree

import "github.com/jghiringhelli/codeseeker-sub004/internal/paths"

// resolvableExtensions are probed, in order, when an import omits its
// extension.
var resolvableExtensions = []string{".ts", ".tsx", ".js", ".jsx", ".py"}

// resolveImport maps a relative import in file from to the id of an
// existing node. byPath indexes node ids by project-relative path.
// Unresolvable imports return false.
func resolveImport(from, target string, byPath map[string]string) (string, bool) {
	resolved, ok := paths.ResolveRelative(from, target)
	if !ok {
		return "", false
	}
	for _, candidate := range importCandidates(resolved) {
		if id, ok := byPath[candidate]; ok {
			return id, true
		}
	}
	return "", false
}

func importCandidates(resolved string) []string {
	candidates := make([]string, 0, 2+2*len(resolvableExtensions))
	candidates = append(candidates, resolved)
	for _, ext := range resolvableExtensions {
		candidates = append(candidates, resolved+ext)
	}
	for _, ext := range resolvableExtensions {
		candidates = append(candidates, resolved+"/index"+ext)
	}
	return append(candidates, resolved+"/__init__.py")
}
