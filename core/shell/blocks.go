package shell

import "errors"

// MaxNest is the deepest IF nesting allowed.
const MaxNest = 16

var (
	ErrTooManyBlocks = errors.New("too many nested blocks")
	ErrNoMatchingIf  = errors.New("no matching IF")
)

// BlockState is the execution state of a single IF block.
type BlockState int

const (
	// Executing runs lines.
	Executing BlockState = iota
	// SkippingToElse skips lines until the matching ELSE or ENDIF.
	SkippingToElse
	// SkippingToEndif skips lines until the matching ENDIF.
	SkippingToEndif
)

func (b BlockState) String() string {
	switch b {
	case Executing:
		return "executing"
	case SkippingToElse:
		return "skipping-to-else"
	case SkippingToEndif:
		return "skipping-to-endif"
	default:
		return "unknown"
	}
}

// BlockStack tracks nested IF/ELSE/ENDIF blocks.
type BlockStack struct {
	stack []BlockState
}

// Executing is true if lines outside of IF/ELSE/ENDIF should run.
func (b *BlockStack) Executing() bool {
	return len(b.stack) == 0 || b.stack[len(b.stack)-1] == Executing
}

// Depth returns the number of open blocks.
func (b *BlockStack) Depth() int {
	return len(b.stack)
}

// Top returns the innermost block state, ok is false if no block is open.
func (b *BlockStack) Top() (state BlockState, ok bool) {
	if len(b.stack) == 0 {
		return Executing, false
	}
	return b.stack[len(b.stack)-1], true
}

// If opens a block. cond is only evaluated if the enclosing block executes.
func (b *BlockStack) If(cond func() bool) error {
	if len(b.stack) >= MaxNest {
		return ErrTooManyBlocks
	}

	switch {
	case !b.Executing():
		b.stack = append(b.stack, SkippingToEndif)
	case cond():
		b.stack = append(b.stack, Executing)
	default:
		b.stack = append(b.stack, SkippingToElse)
	}
	return nil
}

// Else switches the innermost block to its other branch.
func (b *BlockStack) Else() error {
	top := len(b.stack) - 1
	if top < 0 {
		return ErrNoMatchingIf
	}

	switch b.stack[top] {
	case Executing:
		b.stack[top] = SkippingToEndif
	case SkippingToElse:
		if top == 0 || b.stack[top-1] == Executing {
			b.stack[top] = Executing
		} else {
			b.stack[top] = SkippingToEndif
		}
	}
	return nil
}

// EndIf closes the innermost block.
func (b *BlockStack) EndIf() error {
	if len(b.stack) == 0 {
		return ErrNoMatchingIf
	}
	b.stack = b.stack[:len(b.stack)-1]
	return nil
}
