package esil

// aluOp combines a destination value d with a source value s.
type aluOp func(m *Machine, d, s uint64) (uint64, error)

// stepOp transforms a single value.
type stepOp func(v uint64) uint64

func aluAdd(m *Machine, d, s uint64) (uint64, error) { return d + s, nil }
func aluSub(m *Machine, d, s uint64) (uint64, error) { return d - s, nil }
func aluMul(m *Machine, d, s uint64) (uint64, error) { return d * s, nil }
func aluAnd(m *Machine, d, s uint64) (uint64, error) { return d & s, nil }
func aluOr(m *Machine, d, s uint64) (uint64, error)  { return d | s, nil }
func aluXor(m *Machine, d, s uint64) (uint64, error) { return d ^ s, nil }

// Shifts of 64 or more bits clear the value.
func aluShl(m *Machine, d, s uint64) (uint64, error) { return d << s, nil }
func aluShr(m *Machine, d, s uint64) (uint64, error) { return d >> s, nil }

func aluDiv(m *Machine, d, s uint64) (uint64, error) {
	if s == 0 {
		m.SetTrap(TRAP_DIVBYZERO, 0)
		return 0, ErrDivideByZero
	}
	return d / s, nil
}

func aluMod(m *Machine, d, s uint64) (uint64, error) {
	if s == 0 {
		m.SetTrap(TRAP_DIVBYZERO, 0)
		return 0, ErrDivideByZero
	}
	return d % s, nil
}

func aluInc(v uint64) uint64 { return v + 1 }
func aluDec(v uint64) uint64 { return v - 1 }

func aluNot(v uint64) uint64 {
	if v == 0 {
		return 1
	}
	return 0
}
