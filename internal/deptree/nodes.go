package deptree

import (
	"math"
	"path"
	"regexp"
	"strconv"
	"strings"
)

// VirtualRootID is the id of the synthesized root.
const VirtualRootID = "__virtual_root__"

var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9]`)

// SanitizeID derives a node id from a project-relative path.
func SanitizeID(p string) string {
	return nonAlphanumeric.ReplaceAllString(p, "_")
}

// idAllocator hands out unique ids; a collision gets a _2, _3... suffix.
type idAllocator struct {
	used map[string]bool
}

func newIDAllocator() *idAllocator {
	return &idAllocator{used: make(map[string]bool)}
}

func (a *idAllocator) allocate(base string) string {
	id := base
	for i := 2; a.used[id]; i++ {
		id = base + "_" + strconv.Itoa(i)
	}
	a.used[id] = true
	return id
}

var languageByExtension = map[string]string{
	".ts":   "typescript",
	".tsx":  "typescript",
	".mts":  "typescript",
	".cts":  "typescript",
	".js":   "javascript",
	".jsx":  "javascript",
	".mjs":  "javascript",
	".cjs":  "javascript",
	".py":   "python",
	".go":   "go",
	".java": "java",
	".rs":   "rust",
	".rb":   "ruby",
	".php":  "php",
	".cs":   "csharp",
	".kt":   "kotlin",
}

// LanguageOf maps a file extension to a language name, or "unknown".
func LanguageOf(p string) string {
	if lang, ok := languageByExtension[strings.ToLower(path.Ext(p))]; ok {
		return lang
	}
	return "unknown"
}

var entryPointNames = map[string]bool{
	"index":  true,
	"main":   true,
	"app":    true,
	"server": true,
	"cli":    true,
}

// IsEntryPointPath reports whether the file's base name (without
// extension) marks an entry point.
func IsEntryPointPath(p string) bool {
	base := path.Base(p)
	return entryPointNames[strings.ToLower(strings.TrimSuffix(base, path.Ext(base)))]
}

// MaintainabilityIndex is max(0, 171 - 5.2 ln(LOC) - 0.23 complexity).
func MaintainabilityIndex(linesOfCode, complexity int) float64 {
	loc := math.Max(float64(linesOfCode), 1)
	mi := 171 - 5.2*math.Log(loc) - 0.23*float64(complexity)
	return math.Max(0, mi)
}

// EstimateLinesOfCode is used when extraction fails.
func EstimateLinesOfCode(size int64) int {
	return int(math.Ceil(float64(size) / 50))
}
