package esil

// pop removes an operand, failing on an empty stack.
func (m *Machine) pop() (p Param, err error) {
	p, ok := m.Stack.Pop()
	if !ok {
		err = ErrStackEmpty
	}
	return
}

// push adds an operand. A full stack raises an internal trap.
func (m *Machine) push(p Param) (err error) {
	err = m.Stack.Push(p)
	if err != nil {
		log().Warningf("esil stack is full")
		m.SetTrap(TRAP_INTERNAL, TRAP_CODE_STACK_FULL)
	}
	return
}

// popValue removes an operand and resolves it.
func (m *Machine) popValue() (p Param, value uint64, err error) {
	p, err = m.pop()
	if err != nil {
		return
	}
	value, err = m.Value(p)
	return
}

// popPair removes the destination (top) and source operands.
func (m *Machine) popPair() (dst, src Param, err error) {
	dst, err = m.pop()
	if err != nil {
		return
	}
	src, err = m.pop()
	return
}

// width returns the bit width of a register operand, or 0.
func (m *Machine) width(p Param) (width uint) {
	width, _ = m.RegisterWidth(p.Text)
	return
}

// binaryOp pushes alu(below, top), so "a,b,-" computes a - b.
func binaryOp(alu aluOp) Op {
	return func(m *Machine) (err error) {
		top, below, err := m.popPair()
		if err != nil {
			return
		}
		a, err := m.Value(below)
		if err != nil {
			return
		}
		b, err := m.Value(top)
		if err != nil {
			return
		}
		r, err := alu(m, a, b)
		if err != nil {
			return
		}
		return m.push(Number(r))
	}
}

// unaryOp replaces the top operand with step(top).
func unaryOp(step stepOp) Op {
	return func(m *Machine) (err error) {
		_, v, err := m.popValue()
		if err != nil {
			return
		}
		return m.push(Number(step(v)))
	}
}

// compareOp pushes 1 when cmp(below, top) holds, else 0.
func compareOp(cmp func(a, b uint64) bool) Op {
	return func(m *Machine) (err error) {
		top, below, err := m.popPair()
		if err != nil {
			return
		}
		a, err := m.Value(below)
		if err != nil {
			return
		}
		b, err := m.Value(top)
		if err != nil {
			return
		}
		var result uint64
		if cmp(a, b) {
			result = 1
		}
		return m.push(Number(result))
	}
}

// opCompare stamps the flags with below - top at the width of the
// register operand, without writing anything.
func opCompare(m *Machine) (err error) {
	top, below, err := m.popPair()
	if err != nil {
		return
	}
	a, err := m.Value(below)
	if err != nil {
		return
	}
	b, err := m.Value(top)
	if err != nil {
		return
	}

	size := m.Flags.Size
	if below.Kind == PARAM_REGISTER {
		size = m.width(below)
	} else if top.Kind == PARAM_REGISTER {
		size = m.width(top)
	}
	m.Flags.Stamp(a, a-b, size)
	return
}

// opAssign implements "src,dst,=".
func opAssign(m *Machine) (err error) {
	dst, src, err := m.popPair()
	if err != nil {
		return
	}
	d, ok := m.ReadRegister(dst.Text)
	if !ok {
		err = ErrNotRegister
		return
	}
	s, err := m.Value(src)
	if err != nil {
		return
	}
	if src.Kind != PARAM_INTERNAL {
		m.Flags.Stamp(d, s, m.width(dst))
	}
	if !m.WriteRegister(dst.Text, s) {
		err = ErrRegisterWrite
	}
	return
}

// assignOp implements "src,dst,OP=": dst = alu(dst, src).
func assignOp(alu aluOp) Op {
	return func(m *Machine) (err error) {
		dst, src, err := m.popPair()
		if err != nil {
			return
		}
		s, err := m.Value(src)
		if err != nil {
			return
		}
		d, ok := m.ReadRegister(dst.Text)
		if !ok {
			err = ErrNotRegister
			return
		}
		r, err := alu(m, d, s)
		if err != nil {
			return
		}
		if src.Kind != PARAM_INTERNAL {
			m.Flags.Stamp(d, r, m.width(dst))
		}
		if !m.WriteRegister(dst.Text, r) {
			err = ErrRegisterWrite
		}
		return
	}
}

// stepAssignOp implements "reg,++=" and "reg,--=".
func stepAssignOp(step stepOp) Op {
	return func(m *Machine) (err error) {
		p, err := m.pop()
		if err != nil {
			return
		}
		if p.Kind != PARAM_REGISTER {
			err = ErrNotRegister
			return
		}
		d, err := m.Value(p)
		if err != nil {
			return
		}
		r := step(d)
		m.Flags.Stamp(d, r, m.width(p))
		if !m.WriteRegister(p.Text, r) {
			err = ErrRegisterWrite
		}
		return
	}
}

// opNotAssign implements "reg,!=": reg = !reg.
func opNotAssign(m *Machine) (err error) {
	p, err := m.pop()
	if err != nil {
		return
	}
	v, ok := m.ReadRegister(p.Text)
	if !ok {
		err = ErrNotRegister
		return
	}
	if !m.WriteRegister(p.Text, aluNot(v)) {
		err = ErrRegisterWrite
	}
	return
}

func opNop(m *Machine) error {
	return nil
}

// opIf starts a conditional block; a false guard skips to its end.
func opIf(m *Machine) (err error) {
	_, v, err := m.popValue()
	if err != nil || v == 0 {
		m.skip = 1
	}
	return
}

func opInterrupt(m *Machine) (err error) {
	_, interrupt, err := m.popValue()
	if err != nil {
		return
	}
	return m.FireInterrupt(interrupt)
}

// opTrap implements "code,type,$$".
func opTrap(m *Machine) (err error) {
	_, trap, err := m.popValue()
	if err != nil {
		return
	}
	_, code, err := m.popValue()
	if err != nil {
		return
	}
	m.SetTrap(TrapType(trap), code)
	return
}

func opStack(m *Machine) error {
	return m.DumpStack()
}

func opPop(m *Machine) error {
	m.Stack.Pop()
	return nil
}

func opDup(m *Machine) (err error) {
	p, err := m.pop()
	if err != nil {
		return
	}
	m.push(p)
	return m.push(p)
}

func opClear(m *Machine) error {
	m.Stack.Reset()
	return nil
}

func opBreak(m *Machine) error {
	m.Stop(STOP_BREAK)
	return nil
}

func opTodo(m *Machine) error {
	m.Stop(STOP_TODO)
	return nil
}

func opGoto(m *Machine) (err error) {
	_, target, err := m.popValue()
	if err != nil {
		return
	}
	m.Goto(target)
	return
}
