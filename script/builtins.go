package script

import (
	"go.starlark.net/starlark"

	"github.com/ezrec/esil/esil"
)

var builtins = starlark.StringDict{
	"reg":    starlark.NewBuiltin("reg", builtinReg),
	"setreg": starlark.NewBuiltin("setreg", builtinSetReg),
	"peek":   starlark.NewBuiltin("peek", builtinPeek),
	"poke":   starlark.NewBuiltin("poke", builtinPoke),
	"trap":   starlark.NewBuiltin("trap", builtinTrap),
	"offset": starlark.NewBuiltin("offset", builtinOffset),
}

func machine(thread *starlark.Thread) (m *esil.Machine, err error) {
	m, ok := thread.Local(machineKey).(*esil.Machine)
	if !ok {
		err = ErrNoMachine
	}
	return
}

// toUint64 accepts negative ints as their two's complement.
func toUint64(i starlark.Int) (value uint64, ok bool) {
	if value, ok = i.Uint64(); ok {
		return
	}
	v, ok := i.Int64()
	value = uint64(v)
	return
}

func sizeOf(size int) (bytes int, err error) {
	switch size {
	case 1, 2, 4, 8:
		bytes = size
	default:
		err = ErrSize
	}
	return
}

// reg(name) returns the register value, or None for an unknown register.
func builtinReg(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var name string
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "name", &name); err != nil {
		return nil, err
	}
	m, err := machine(thread)
	if err != nil {
		return nil, err
	}
	value, ok := m.ReadRegister(name)
	if !ok {
		return starlark.None, nil
	}
	return starlark.MakeUint64(value), nil
}

// setreg(name, value) writes a register and reports success.
func builtinSetReg(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var name string
	var value starlark.Int
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "name", &name, "value", &value); err != nil {
		return nil, err
	}
	m, err := machine(thread)
	if err != nil {
		return nil, err
	}
	v, ok := toUint64(value)
	if !ok {
		return starlark.False, nil
	}
	return starlark.Bool(m.WriteRegister(name, v)), nil
}

// peek(addr, size=4) reads an integer in the machine byte order.
func builtinPeek(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var addr starlark.Int
	size := 4
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "addr", &addr, "size?", &size); err != nil {
		return nil, err
	}
	m, err := machine(thread)
	if err != nil {
		return nil, err
	}
	bytes, err := sizeOf(size)
	if err != nil {
		return nil, err
	}
	a, _ := toUint64(addr)

	buf := make([]byte, bytes)
	if !m.ReadMemory(a, buf) {
		return nil, ErrMemory
	}

	return starlark.MakeUint64(m.Decode(buf)), nil
}

// poke(addr, value, size=4) writes an integer in the machine byte order.
func builtinPoke(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var addr, value starlark.Int
	size := 4
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "addr", &addr, "value", &value, "size?", &size); err != nil {
		return nil, err
	}
	m, err := machine(thread)
	if err != nil {
		return nil, err
	}
	bytes, err := sizeOf(size)
	if err != nil {
		return nil, err
	}
	a, _ := toUint64(addr)
	v, _ := toUint64(value)

	buf := make([]byte, bytes)
	m.Encode(v, buf)
	if err := m.WriteMemory(a, buf); err != nil {
		return nil, err
	}
	return starlark.None, nil
}

// trap(type, code=0) raises a trap on the machine.
func builtinTrap(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var trap int
	code := starlark.MakeInt(0)
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "type", &trap, "code?", &code); err != nil {
		return nil, err
	}
	m, err := machine(thread)
	if err != nil {
		return nil, err
	}
	c, _ := toUint64(code)
	m.SetTrap(esil.TrapType(trap), c)
	return starlark.None, nil
}

// offset() returns the address of the current instruction.
func builtinOffset(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 0); err != nil {
		return nil, err
	}
	m, err := machine(thread)
	if err != nil {
		return nil, err
	}
	return starlark.MakeUint64(m.Offset), nil
}
