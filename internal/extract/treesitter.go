//go:build cgo

package extract

import (
	"context"
	"fmt"
	"strings"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// TreeSitterAvailable reports whether this build can parse with tree-sitter.
func TreeSitterAvailable() bool {
	return true
}

// treeSitter wraps a parser; sitter.Parser is not safe for concurrent use.
type treeSitter struct {
	mu     sync.Mutex
	parser *sitter.Parser
}

func newTreeSitter() *treeSitter {
	return &treeSitter{parser: sitter.NewParser()}
}

func grammar(lang Language) (*sitter.Language, error) {
	switch lang {
	case LangJavaScript:
		return javascript.GetLanguage(), nil
	case LangTypeScript:
		return typescript.GetLanguage(), nil
	case LangTSX:
		return tsx.GetLanguage(), nil
	case LangPython:
		return python.GetLanguage(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, lang)
	}
}

func (t *treeSitter) analyze(ctx context.Context, source []byte, lang Language) (*treeResult, error) {
	g, err := grammar(lang)
	if err != nil {
		return nil, err
	}

	t.mu.Lock()
	t.parser.SetLanguage(g)
	tree, err := t.parser.ParseCtx(ctx, nil, source)
	t.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	root := tree.RootNode()

	res := &treeResult{}
	for _, fn := range findNodes(root, functionNodeTypes(lang)) {
		res.complexity += cyclomatic(fn, source, lang)
	}
	if res.complexity < 1 {
		res.complexity = 1
	}
	res.symbols = collectSymbols(root, source, lang)
	sortSymbols(res.symbols)
	return res, nil
}

func functionNodeTypes(lang Language) []string {
	if lang == LangPython {
		return []string{"function_definition", "lambda"}
	}
	return []string{"function_declaration", "function_expression", "arrow_function", "method_definition", "generator_function_declaration"}
}

func decisionNodeTypes(lang Language) []string {
	if lang == LangPython {
		return []string{
			"if_statement",
			"elif_clause",
			"for_statement",
			"while_statement",
			"except_clause",
			"with_statement",
			"boolean_operator",
			"conditional_expression",
			"list_comprehension",
			"dictionary_comprehension",
			"set_comprehension",
			"generator_expression",
		}
	}
	return []string{
		"if_statement",
		"for_statement",
		"for_in_statement",
		"while_statement",
		"do_statement",
		"switch_case",
		"catch_clause",
		"ternary_expression",
		"binary_expression", // only && and ||
		"optional_chain_expression",
	}
}

// cyclomatic counts decision points plus one.
func cyclomatic(fn *sitter.Node, source []byte, lang Language) int {
	n := 1
	for _, d := range findNodes(fn, decisionNodeTypes(lang)) {
		if d.Type() == "binary_expression" && !isLogicalOperator(d, source) {
			continue
		}
		n++
	}
	return n
}

func isLogicalOperator(node *sitter.Node, source []byte) bool {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child == nil || child.IsNamed() {
			continue
		}
		switch child.Content(source) {
		case "&&", "||", "??":
			return true
		}
	}
	return false
}

var esDeclarations = map[string]SymbolType{
	"function_declaration":           SymbolFunction,
	"generator_function_declaration": SymbolFunction,
	"class_declaration":              SymbolClass,
	"abstract_class_declaration":     SymbolClass,
	"method_definition":              SymbolMethod,
	"interface_declaration":          SymbolInterface,
	"type_alias_declaration":         SymbolTypeAlias,
	"enum_declaration":               SymbolEnum,
	"public_field_definition":        SymbolProperty,
	"field_definition":               SymbolProperty,
}

func collectSymbols(root *sitter.Node, source []byte, lang Language) []Symbol {
	var symbols []Symbol

	var walk func(*sitter.Node)
	walk = func(node *sitter.Node) {
		if node == nil {
			return
		}
		if sym, ok := symbolFor(node, source, lang); ok {
			symbols = append(symbols, sym)
		}
		for i := 0; i < int(node.ChildCount()); i++ {
			walk(node.Child(i))
		}
	}
	walk(root)
	return symbols
}

func symbolFor(node *sitter.Node, source []byte, lang Language) (Symbol, bool) {
	var symType SymbolType
	exported := false

	if lang == LangPython {
		switch node.Type() {
		case "class_definition":
			symType = SymbolClass
		case "function_definition":
			symType = SymbolFunction
			if insidePythonClass(node) {
				symType = SymbolMethod
			}
		default:
			return Symbol{}, false
		}
	} else {
		switch node.Type() {
		case "variable_declarator":
			decl := node.Parent()
			if decl == nil || decl.Parent() == nil {
				return Symbol{}, false
			}
			switch decl.Parent().Type() {
			case "program":
			case "export_statement":
				exported = true
			default:
				return Symbol{}, false
			}
			symType = SymbolVariable
			if value := node.ChildByFieldName("value"); value != nil {
				switch value.Type() {
				case "arrow_function", "function_expression", "function":
					symType = SymbolFunction
				}
			}
		default:
			t, ok := esDeclarations[node.Type()]
			if !ok {
				return Symbol{}, false
			}
			symType = t
			if p := node.Parent(); p != nil && p.Type() == "export_statement" {
				exported = true
			}
		}
	}

	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return Symbol{}, false
	}
	name := nameNode.Content(source)
	if lang == LangPython {
		exported = !strings.HasPrefix(name, "_")
	}

	start, end := node.StartPoint(), node.EndPoint()
	return Symbol{
		Name: name,
		Type: symType,
		Location: Location{
			Line:      int(start.Row) + 1,
			Column:    int(start.Column) + 1,
			EndLine:   int(end.Row) + 1,
			EndColumn: int(end.Column) + 1,
		},
		IsExported: exported,
	}, true
}

func insidePythonClass(fn *sitter.Node) bool {
	p := fn.Parent()
	if p != nil && p.Type() == "decorated_definition" {
		p = p.Parent()
	}
	return p != nil && p.Type() == "block" && p.Parent() != nil && p.Parent().Type() == "class_definition"
}

func findNodes(root *sitter.Node, types []string) []*sitter.Node {
	want := make(map[string]bool, len(types))
	for _, t := range types {
		want[t] = true
	}

	var result []*sitter.Node
	var walk func(*sitter.Node)
	walk = func(node *sitter.Node) {
		if node == nil {
			return
		}
		if want[node.Type()] {
			result = append(result, node)
		}
		for i := 0; i < int(node.ChildCount()); i++ {
			walk(node.Child(i))
		}
	}
	walk(root)
	return result
}
