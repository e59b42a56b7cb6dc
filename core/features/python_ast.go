package features

import (
	"fmt"
	"strings"

	"github.com/go-python/gpython/ast"
	"github.com/go-python/gpython/parser"
)

// NodeCounts tallies the Python AST node kinds used as features.
type NodeCounts struct {
	For         int
	While       int
	If          int
	FunctionDef int
	ClassDef    int
	ListComp    int
	DictComp    int
	SetComp     int

	// Decisions counts branch points for cyclomatic complexity.
	Decisions int
}

// Slice returns the counts in feature order.
func (c NodeCounts) Slice() []float64 {
	return []float64{
		float64(c.For),
		float64(c.While),
		float64(c.If),
		float64(c.FunctionDef),
		float64(c.ClassDef),
		float64(c.ListComp),
		float64(c.DictComp),
		float64(c.SetComp),
	}
}

// Cyclomatic returns the total cyclomatic complexity over all function blocks.
// Each function contributes one, plus one per decision point anywhere in the module.
func (c NodeCounts) Cyclomatic() int {
	if c.FunctionDef == 0 && c.Decisions == 0 {
		return 0
	}
	return c.FunctionDef + c.Decisions
}

// ParsePython parses code as a Python module and counts its nodes.
// The parser may panic on unusual input, so panics are reported as errors.
func ParsePython(code string) (counts NodeCounts, err error) {
	defer func() {
		if r := recover(); r != nil {
			counts = NodeCounts{}
			err = fmt.Errorf("python parser panic: %v", r)
		}
	}()

	if !strings.HasSuffix(code, "\n") {
		code += "\n"
	}
	tree, err := parser.Parse(strings.NewReader(code), "<snippet>", "exec")
	if err != nil {
		return NodeCounts{}, fmt.Errorf("python parse: %w", err)
	}

	ast.Walk(tree, func(node ast.Ast) bool {
		switch node.(type) {
		case *ast.For:
			counts.For++
			counts.Decisions++
		case *ast.While:
			counts.While++
			counts.Decisions++
		case *ast.If:
			counts.If++
			counts.Decisions++
		case *ast.FunctionDef:
			counts.FunctionDef++
		case *ast.ClassDef:
			counts.ClassDef++
		case *ast.ListComp:
			counts.ListComp++
			counts.Decisions++
		case *ast.DictComp:
			counts.DictComp++
			counts.Decisions++
		case *ast.SetComp:
			counts.SetComp++
			counts.Decisions++
		case *ast.GeneratorExp, *ast.IfExp, *ast.BoolOp, *ast.ExceptHandler:
			counts.Decisions++
		}
		return true
	})
	return counts, nil
}

// orZero degrades a failed parse to zero counts.
func orZero(counts NodeCounts, err error) NodeCounts {
	if err != nil {
		return NodeCounts{}
	}
	return counts
}

// PythonNodes returns the AST counts of code, or zero counts when it does not parse.
func PythonNodes(code string) NodeCounts {
	return orZero(ParsePython(code))
}
