package extract

import (
	"regexp"
	"sort"
	"strings"
)

type symbolPattern struct {
	re      *regexp.Regexp
	symType SymbolType
}

// Patterns capture (1) an optional export keyword or indentation and (2) the name.
var esSymbolPatterns = []symbolPattern{
	{regexp.MustCompile(`(?m)^[ \t]*(export\s+)?(?:default\s+)?(?:async\s+)?function\s*\*?\s*([A-Za-z_$][\w$]*)`), SymbolFunction},
	{regexp.MustCompile(`(?m)^[ \t]*(export\s+)?(?:default\s+)?(?:abstract\s+)?class\s+([A-Za-z_$][\w$]*)`), SymbolClass},
	{regexp.MustCompile(`(?m)^[ \t]*(export\s+)?(?:declare\s+)?interface\s+([A-Za-z_$][\w$]*)`), SymbolInterface},
	{regexp.MustCompile(`(?m)^[ \t]*(export\s+)?(?:declare\s+)?type\s+([A-Za-z_$][\w$]*)\s*(?:<[^=\n]*>)?\s*=`), SymbolTypeAlias},
	{regexp.MustCompile(`(?m)^[ \t]*(export\s+)?(?:declare\s+)?(?:const\s+)?enum\s+([A-Za-z_$][\w$]*)`), SymbolEnum},
	{regexp.MustCompile(`(?m)^(export\s+)?(?:const|let|var)\s+([A-Za-z_$][\w$]*)`), SymbolVariable},
}

var (
	pyDefPattern   = regexp.MustCompile(`(?m)^([ \t]*)(?:async\s+)?def\s+([A-Za-z_]\w*)`)
	pyClassDecl    = regexp.MustCompile(`(?m)^([ \t]*)class\s+([A-Za-z_]\w*)`)
	decisionTokens = regexp.MustCompile(`\b(?:if|elif|for|while|case|catch|except)\b|&&|\|\||\band\b|\bor\b`)
)

// scanSymbols finds declarations with regular expressions. It is used when
// tree-sitter is unavailable or fails.
func scanSymbols(source []byte, lang Language) []Symbol {
	text := string(source)
	var symbols []Symbol

	switch {
	case lang.isECMAScript():
		for _, p := range esSymbolPatterns {
			for _, m := range p.re.FindAllStringSubmatchIndex(text, -1) {
				symbols = append(symbols, Symbol{
					Name:       text[m[4]:m[5]],
					Type:       p.symType,
					Location:   locationAt(source, m[4]),
					IsExported: m[2] >= 0,
				})
			}
		}
	case lang == LangPython:
		for _, m := range pyClassDecl.FindAllStringSubmatchIndex(text, -1) {
			name := text[m[4]:m[5]]
			symbols = append(symbols, Symbol{
				Name:       name,
				Type:       SymbolClass,
				Location:   locationAt(source, m[4]),
				IsExported: !strings.HasPrefix(name, "_"),
			})
		}
		for _, m := range pyDefPattern.FindAllStringSubmatchIndex(text, -1) {
			name := text[m[4]:m[5]]
			symType := SymbolFunction
			if m[3] > m[2] {
				symType = SymbolMethod
			}
			symbols = append(symbols, Symbol{
				Name:       name,
				Type:       symType,
				Location:   locationAt(source, m[4]),
				IsExported: !strings.HasPrefix(name, "_"),
			})
		}
	}

	sortSymbols(symbols)
	return symbols
}

// estimateComplexity counts decision keywords and boolean operators.
func estimateComplexity(source []byte, lang Language) int {
	text := string(source)
	count := 0
	for _, tok := range decisionTokens.FindAllString(text, -1) {
		if (tok == "and" || tok == "or") && lang != LangPython {
			continue
		}
		count++
	}
	return count + 1
}

func locationAt(source []byte, offset int) Location {
	line := lineAt(source, offset)
	col := offset
	if i := strings.LastIndexByte(string(source[:offset]), '\n'); i >= 0 {
		col = offset - i - 1
	}
	return Location{Line: line, Column: col + 1}
}

func sortSymbols(symbols []Symbol) {
	sort.SliceStable(symbols, func(i, j int) bool {
		if symbols[i].Location.Line != symbols[j].Location.Line {
			return symbols[i].Location.Line < symbols[j].Location.Line
		}
		return symbols[i].Location.Column < symbols[j].Location.Column
	})
}
