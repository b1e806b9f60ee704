package esil

// TrapType classifies the fault that halted an evaluation.
type TrapType int

//go:generate go tool stringer -linecomment -type=TrapType
const (
	TRAP_NONE       = TrapType(0) // none
	TRAP_UNHANDLED  = TrapType(1) // unhandled
	TRAP_BREAKPOINT = TrapType(2) // breakpoint
	TRAP_DIVBYZERO  = TrapType(3) // divbyzero
	TRAP_WRITE_ERR  = TrapType(4) // write-err
	TRAP_READ_ERR   = TrapType(5) // read-err
	TRAP_EXEC_ERR   = TrapType(6) // exec-err
	TRAP_TODO       = TrapType(7) // todo
	TRAP_HALT       = TrapType(8) // halt
	TRAP_INTERNAL   = TrapType(9) // internal
)

// Trap codes raised with TRAP_INTERNAL.
const (
	TRAP_CODE_STACK_FULL = uint64(1)
	TRAP_CODE_LOOP       = uint64(2)
	TRAP_CODE_GOTO       = uint64(3)
	TRAP_CODE_WORD       = uint64(4)
)

// SetTrap records a trap. Evaluation of the current string stops after
// the word that raised it.
func (m *Machine) SetTrap(trap TrapType, code uint64) {
	m.Trap = trap
	m.TrapCode = code
}

// Trapped returns the pending trap as an error, or nil.
func (m *Machine) Trapped() error {
	if m.Trap == TRAP_NONE {
		return nil
	}
	return ErrTrap{Type: m.Trap, Code: m.TrapCode}
}
