// Package modules reads user module declarations from MODULES.toml and
// checks the dependency tree against their declared boundaries.
package modules

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	toml "github.com/pelletier/go-toml/v2"

	"github.com/jghiringhelli/codeseeker-sub004/internal/deptree"
	"github.com/jghiringhelli/codeseeker-sub004/internal/paths"
)

// DeclarationFile is the default filename for module declarations
const DeclarationFile = "MODULES.toml"

// Declaration is one [[module]] entry of MODULES.toml
type Declaration struct {
	// ID is generated from Path when empty
	ID string `toml:"id,omitempty"`
	// Name defaults to the last segment of Path
	Name string `toml:"name"`
	// Path is a project-relative directory, file or doublestar glob
	Path string `toml:"path"`

	Responsibility string      `toml:"responsibility,omitempty"`
	Owner          string      `toml:"owner,omitempty"`
	Tags           []string    `toml:"tags,omitempty"`
	Boundaries     *Boundaries `toml:"boundaries,omitempty"`
}

// Boundaries restricts which declared modules a module may import from.
type Boundaries struct {
	// AllowedDependencies lists module names or paths this module may depend
	// on. Nil means unrestricted; an empty list forbids every other module.
	AllowedDependencies []string `toml:"allowed_dependencies,omitempty"`
}

// File is the root structure of MODULES.toml
type File struct {
	Version int           `toml:"version"`
	Modules []Declaration `toml:"module"`
}

// ParseFile parses a MODULES.toml file
func ParseFile(filePath string) (*File, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", DeclarationFile, err)
	}

	var f File
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", DeclarationFile, err)
	}
	if f.Version < 1 {
		f.Version = 1
	}
	return &f, nil
}

// Load reads the declarations of projectRoot. A missing file yields no
// declarations and no error.
func Load(projectRoot string) ([]Declaration, error) {
	filePath := filepath.Join(projectRoot, DeclarationFile)
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return nil, nil
	}

	f, err := ParseFile(filePath)
	if err != nil {
		return nil, err
	}
	return normalize(f.Modules)
}

func normalize(decls []Declaration) ([]Declaration, error) {
	out := make([]Declaration, 0, len(decls))
	for _, d := range decls {
		if d.Path == "" {
			return nil, fmt.Errorf("module declaration %q missing required 'path' field", d.Name)
		}
		d.Path = strings.TrimSuffix(path.Clean(paths.NormalizePath(d.Path)), "/")
		if !doublestar.ValidatePattern(d.Path) {
			return nil, fmt.Errorf("module %q has invalid path pattern %q", d.Name, d.Path)
		}
		if d.ID == "" {
			d.ID = StableID(d.Path)
		}
		if d.Name == "" {
			d.Name = path.Base(d.Path)
		}
		out = append(out, d)
	}
	return out, nil
}

// Write writes f as TOML, creating parent directories.
func Write(filePath string, f *File) error {
	data, err := toml.Marshal(f)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", DeclarationFile, err)
	}
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", DeclarationFile, err)
	}
	return nil
}

// Example returns a starter declaration file.
func Example() *File {
	return &File{
		Version: 1,
		Modules: []Declaration{
			{
				Name:           "api",
				Path:           "src/api",
				Responsibility: "HTTP handlers and routing",
				Tags:           []string{"core"},
				Boundaries:     &Boundaries{AllowedDependencies: []string{"services"}},
			},
			{
				Name:           "services",
				Path:           "src/services",
				Responsibility: "Business logic",
			},
		},
	}
}

// StableID derives a module id from its normalized path, so ids survive
// renames of the module name.
func StableID(modulePath string) string {
	hash := sha256.Sum256([]byte(paths.NormalizePath(modulePath)))
	return "mod_" + hex.EncodeToString(hash[:6])
}

// Matches reports whether a project-relative file path belongs to d: the
// path itself, anything below it, or a glob match.
func (d Declaration) Matches(rel string) bool {
	if strings.ContainsAny(d.Path, "*?[{") {
		ok, _ := doublestar.Match(d.Path, rel)
		return ok
	}
	return d.Path == "." || rel == d.Path || strings.HasPrefix(rel, d.Path+"/")
}

// ClusterDeclarations converts declarations for the tree builder.
func ClusterDeclarations(decls []Declaration) []deptree.Declaration {
	out := make([]deptree.Declaration, len(decls))
	for i, d := range decls {
		out[i] = deptree.Declaration{
			ID:             d.ID,
			Name:           d.Name,
			Responsibility: d.Responsibility,
			Match:          d.Matches,
		}
	}
	return out
}
