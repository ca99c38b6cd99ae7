package extract

import (
	"path/filepath"
	"strings"
)

// Language represents a language the extractor can parse.
type Language string

const (
	LangJavaScript Language = "javascript"
	LangTypeScript Language = "typescript"
	LangTSX        Language = "tsx"
	LangPython     Language = "python"
)

// LanguageFromExtension returns the Language for a file extension.
func LanguageFromExtension(ext string) (Language, bool) {
	switch strings.ToLower(ext) {
	case ".js", ".jsx", ".mjs", ".cjs":
		return LangJavaScript, true
	case ".ts", ".mts", ".cts":
		return LangTypeScript, true
	case ".tsx":
		return LangTSX, true
	case ".py", ".pyw":
		return LangPython, true
	default:
		return "", false
	}
}

// LanguageFromPath returns the Language for a file path.
func LanguageFromPath(path string) (Language, bool) {
	return LanguageFromExtension(filepath.Ext(path))
}

// isECMAScript reports whether lang uses ES module syntax.
func (l Language) isECMAScript() bool {
	return l == LangJavaScript || l == LangTypeScript || l == LangTSX
}
