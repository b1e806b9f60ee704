package esil

// peekOp implements "addr,[n]".
func peekOp(bits uint) Op {
	return func(m *Machine) (err error) {
		_, addr, err := m.popValue()
		if err != nil {
			return
		}
		buf := make([]byte, bits/8)
		if !m.ReadMemory(addr, buf) {
			m.SetTrap(TRAP_READ_ERR, addr)
			err = ErrMemoryRead
			return
		}
		return m.push(Number(m.Decode(buf) & sizeMask(bits)))
	}
}

// pokeOp implements "value,addr,=[n]".
func pokeOp(bits uint) Op {
	return func(m *Machine) (err error) {
		dst, src, err := m.popPair()
		if err != nil {
			return
		}
		value, err := m.Value(src)
		if err != nil {
			return
		}
		addr, err := m.Value(dst)
		if err != nil {
			return
		}

		buf := make([]byte, bits/8)
		value &= sizeMask(bits)
		if src.Kind != PARAM_INTERNAL {
			var prior uint64
			if m.ReadMemory(addr, buf) {
				prior = m.Decode(buf)
			}
			m.Flags.Stamp(prior, value, bits)
		}

		m.Encode(value, buf)
		return m.WriteMemory(addr, buf)
	}
}

// memoryOp implements "src,addr,OP=[n]" as a peek, the alu step and a
// poke, so width and byte order handling stay in peekOp and pokeOp.
func memoryOp(alu aluOp) func(bits uint) Op {
	return func(bits uint) Op {
		peek := peekOp(bits)
		poke := pokeOp(bits)
		return func(m *Machine) (err error) {
			dst, src, err := m.popPair()
			if err != nil {
				return
			}
			s, err := m.Value(src)
			if err != nil {
				return
			}
			if err = m.push(dst); err != nil {
				return
			}
			if err = peek(m); err != nil {
				return
			}
			cur, err := m.pop()
			if err != nil {
				return
			}
			r, err := alu(m, cur.Value, s)
			if err != nil {
				return
			}
			if err = m.push(Number(r)); err != nil {
				return
			}
			if err = m.push(dst); err != nil {
				return
			}
			return poke(m)
		}
	}
}

// memoryStepOp implements "addr,++=[n]" and "addr,--=[n]".
func memoryStepOp(step stepOp) func(bits uint) Op {
	return func(bits uint) Op {
		peek := peekOp(bits)
		poke := pokeOp(bits)
		return func(m *Machine) (err error) {
			dst, err := m.pop()
			if err != nil {
				return
			}
			if err = m.push(dst); err != nil {
				return
			}
			if err = peek(m); err != nil {
				return
			}
			cur, err := m.pop()
			if err != nil {
				return
			}
			if err = m.push(Number(step(cur.Value))); err != nil {
				return
			}
			if err = m.push(dst); err != nil {
				return
			}
			return poke(m)
		}
	}
}

// opPeekSome implements "regN,...,reg1,count,addr,[*]": each register
// is loaded from consecutive 32-bit words starting at addr.
func opPeekSome(m *Machine) (err error) {
	_, ptr, err := m.popValue()
	if err != nil {
		return
	}
	_, count, err := m.popValue()
	if err != nil {
		return
	}

	buf := make([]byte, 4)
	for range count {
		var reg Param
		reg, err = m.pop()
		if err != nil {
			return
		}
		if !m.ReadMemory(ptr, buf) {
			log().Warningf("cannot peek from 0x%08x", ptr)
			m.SetTrap(TRAP_READ_ERR, ptr)
			err = ErrMemoryRead
			return
		}
		if !m.WriteRegister(reg.Text, m.Decode(buf)) {
			err = ErrRegisterWrite
			return
		}
		ptr += 4
	}
	return
}

// opPokeSome implements "valN,...,val1,count,addr,=[*]": each value is
// stored to consecutive 32-bit words starting at addr.
func opPokeSome(m *Machine) (err error) {
	_, ptr, err := m.popValue()
	if err != nil {
		return
	}
	_, count, err := m.popValue()
	if err != nil {
		return
	}

	buf := make([]byte, 4)
	for range count {
		var value uint64
		_, value, err = m.popValue()
		if err != nil {
			return
		}
		m.Encode(value, buf)
		err = m.WriteMemory(ptr, buf)
		if err != nil {
			log().Warningf("cannot write at 0x%08x", ptr)
			return
		}
		ptr += 4
	}
	return
}
