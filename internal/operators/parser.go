package operators

import (
	"sync"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
)

// pythonLanguage is shared by every parser instance.
var pythonLanguage = tree_sitter.NewLanguage(tree_sitter_python.Language())

// parserPool reuses tree-sitter parsers across goroutines. A parser is
// not safe for concurrent use, so each harvest borrows one.
var parserPool = sync.Pool{
	New: func() any {
		p := tree_sitter.NewParser()
		// The python grammar is compiled in, so this cannot fail.
		_ = p.SetLanguage(pythonLanguage)
		return p
	},
}

// parseSource parses python source into a syntax tree. The caller owns
// the returned tree and must Close it. A tree containing syntax errors
// comes back with ok=false so each operator can decide how to react.
func parseSource(src []byte) (tree *tree_sitter.Tree, ok bool) {
	p := parserPool.Get().(*tree_sitter.Parser)
	defer parserPool.Put(p)

	tree = p.Parse(src, nil)
	if tree == nil {
		return nil, false
	}
	return tree, !tree.RootNode().HasError()
}

// walk applies fn to every node of the subtree rooted at n, depth first.
func walk(n *tree_sitter.Node, fn func(*tree_sitter.Node)) {
	fn(n)
	for i := uint(0); i < n.ChildCount(); i++ {
		walk(n.Child(i), fn)
	}
}
