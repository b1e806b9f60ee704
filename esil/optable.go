package esil

import (
	"iter"
	"maps"
	"slices"
	"sync"
	"sync/atomic"
)

// Op is the implementation of one ESIL operator.
type Op func(m *Machine) error

// OpTable maps operator tokens to their implementation. It is
// read-only once bound to a Machine and may be shared between machines.
type OpTable struct {
	ops    map[string]Op
	frozen atomic.Bool
}

// NewOpTable creates a table holding the builtin operators, open for
// extension with Set.
func NewOpTable() (table *OpTable) {
	table = &OpTable{
		ops: make(map[string]Op, len(builtinOps)),
	}
	maps.Copy(table.ops, builtinOps)
	return
}

var defaultOps = sync.OnceValue(func() *OpTable {
	table := NewOpTable()
	table.Freeze()
	return table
})

// DefaultOps returns the shared, frozen table of builtin operators.
func DefaultOps() *OpTable {
	return defaultOps()
}

// Set installs or replaces an operator.
func (t *OpTable) Set(token string, op Op) (err error) {
	if len(token) == 0 || op == nil {
		err = ErrOpInvalid
		return
	}
	if t.frozen.Load() {
		err = ErrOpTableFrozen
		return
	}
	t.ops[token] = op
	return
}

// Lookup finds the operator for a token.
func (t *OpTable) Lookup(token string) (op Op, ok bool) {
	op, ok = t.ops[token]
	return
}

// Tokens iterates the operator tokens in order.
func (t *OpTable) Tokens() iter.Seq[string] {
	return slices.Values(slices.Sorted(maps.Keys(t.ops)))
}

// Freeze makes the table read-only.
func (t *OpTable) Freeze() {
	t.frozen.Store(true)
}

// widthOps builds the fixed width and register width variants of a
// memory operator family: <base>1, <base>2, <base>4, <base>8 become
// "<base>[1]" ... and "<base>[]" follows Machine.Bits.
func widthOps(ops map[string]Op, base string, build func(bits uint) Op) {
	for _, size := range []uint{1, 2, 4, 8} {
		ops[base+"["+string(rune('0'+size))+"]"] = build(size * 8)
	}
	ops[base+"[]"] = func(m *Machine) error {
		switch m.Bits {
		case 8, 16, 32, 64:
			return build(m.Bits)(m)
		}
		return ErrBadWidth
	}
}

var builtinOps = func() map[string]Op {
	ops := map[string]Op{
		"$":  opInterrupt,
		"$$": opTrap,

		// "a,b,==" pushes nothing; the result is read back through
		// %z, %s, %bN and the other flag internals.
		"==": opCompare,
		"<":  compareOp(func(a, b uint64) bool { return a < b }),
		">":  compareOp(func(a, b uint64) bool { return a > b }),
		"<=": compareOp(func(a, b uint64) bool { return a <= b }),
		">=": compareOp(func(a, b uint64) bool { return a >= b }),

		"?{": opIf,
		"}":  opNop,
		"}{": opNop,

		"<<": binaryOp(aluShl),
		">>": binaryOp(aluShr),
		"&":  binaryOp(aluAnd),
		"|":  binaryOp(aluOr),
		"^":  binaryOp(aluXor),
		"+":  binaryOp(aluAdd),
		"-":  binaryOp(aluSub),
		"*":  binaryOp(aluMul),
		"/":  binaryOp(aluDiv),
		"%":  binaryOp(aluMod),
		"!":  unaryOp(aluNot),
		"++": unaryOp(aluInc),
		"--": unaryOp(aluDec),

		"=":   opAssign,
		"<<=": assignOp(aluShl),
		">>=": assignOp(aluShr),
		"&=":  assignOp(aluAnd),
		"|=":  assignOp(aluOr),
		"^=":  assignOp(aluXor),
		"+=":  assignOp(aluAdd),
		"-=":  assignOp(aluSub),
		"*=":  assignOp(aluMul),
		"/=":  assignOp(aluDiv),
		"%=":  assignOp(aluMod),
		"!=":  opNotAssign,
		"++=": stepAssignOp(aluInc),
		"--=": stepAssignOp(aluDec),

		"[*]":  opPeekSome,
		"=[*]": opPokeSome,

		"STACK": opStack,
		"POP":   opPop,
		"DUP":   opDup,
		"CLEAR": opClear,
		"BREAK": opBreak,
		"TODO":  opTodo,
		"GOTO":  opGoto,
	}

	widthOps(ops, "", peekOp)
	widthOps(ops, "=", pokeOp)
	widthOps(ops, "|=", memoryOp(aluOr))
	widthOps(ops, "^=", memoryOp(aluXor))
	widthOps(ops, "&=", memoryOp(aluAnd))
	widthOps(ops, "+=", memoryOp(aluAdd))
	widthOps(ops, "-=", memoryOp(aluSub))
	widthOps(ops, "*=", memoryOp(aluMul))
	widthOps(ops, "/=", memoryOp(aluDiv))
	widthOps(ops, "%=", memoryOp(aluMod))
	widthOps(ops, "<<=", memoryOp(aluShl))
	widthOps(ops, ">>=", memoryOp(aluShr))
	widthOps(ops, "++=", memoryStepOp(aluInc))
	widthOps(ops, "--=", memoryStepOp(aluDec))

	return ops
}()
