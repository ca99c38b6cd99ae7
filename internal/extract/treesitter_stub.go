//go:build !cgo

package extract

import (
	"context"
	"errors"
)

var errNoTreeSitter = errors.New("tree-sitter requires CGO")

// TreeSitterAvailable reports whether this build can parse with tree-sitter.
func TreeSitterAvailable() bool {
	return false
}

type treeSitter struct{}

func newTreeSitter() *treeSitter {
	return &treeSitter{}
}

func (t *treeSitter) analyze(ctx context.Context, source []byte, lang Language) (*treeResult, error) {
	return nil, errNoTreeSitter
}
