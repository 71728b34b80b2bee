package engine

import "fmt"

// StyleOp is one styling operation: apply Style to the rune range
// [Start, End) of paragraph Para. Ops are transient; the engine emits
// them and the mutator consumes them immediately.
type StyleOp struct {
	Para  int
	Start int
	End   int
	Style RuleStyle
}

func (op StyleOp) String() string {
	return fmt.Sprintf("op(p%d %d..%d)", op.Para, op.Start, op.End)
}
