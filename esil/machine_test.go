package esil

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type testRegister struct {
	value uint64
	width uint
}

// testRegisters is a flat register file with writes truncated to width.
type testRegisters map[string]*testRegister

func (tr testRegisters) ReadRegister(name string) (value uint64, width uint, ok bool) {
	reg, ok := tr[name]
	if !ok {
		return
	}
	return reg.value, reg.width, true
}

func (tr testRegisters) WriteRegister(name string, value uint64) (ok bool) {
	reg, ok := tr[name]
	if ok {
		reg.value = value & sizeMask(reg.width)
	}
	return
}

// testMemory is a byte map. Addresses in fault fail to transfer.
type testMemory struct {
	data  map[uint64]byte
	fault map[uint64]bool
}

func (tm *testMemory) ReadMemory(addr uint64, buf []byte) (n int) {
	for n = range buf {
		if tm.fault[addr+uint64(n)] {
			return
		}
		buf[n] = tm.data[addr+uint64(n)]
	}
	return len(buf)
}

func (tm *testMemory) WriteMemory(addr uint64, buf []byte) (n int) {
	for n = range buf {
		if tm.fault[addr+uint64(n)] {
			return
		}
		tm.data[addr+uint64(n)] = buf[n]
	}
	return len(buf)
}

func newTestMachine(t *testing.T, setup Setup) (m *Machine, regs testRegisters, mem *testMemory) {
	regs = testRegisters{
		"rax": {width: 64},
		"eax": {width: 32},
		"ebx": {width: 32},
		"ecx": {width: 32},
		"al":  {width: 8},
		"zf":  {width: 1},
		"pc":  {width: 64},
	}
	mem = &testMemory{
		data:  map[uint64]byte{},
		fault: map[uint64]bool{},
	}

	setup.Registers = regs
	setup.Memory = mem
	if setup.Output == nil {
		setup.Output = &bytes.Buffer{}
	}

	m, err := NewMachine(setup)
	if err != nil {
		t.Fatal(err)
	}
	return
}

func (tm *testMemory) bytes(addr uint64, size int) (data []byte) {
	data = make([]byte, size)
	for n := range data {
		data[n] = tm.data[addr+uint64(n)]
	}
	return
}

type testPlugin struct {
	initErr    error
	fini       bool
	interrupts map[uint64]bool
}

func (tp *testPlugin) Init(m *Machine) error {
	return tp.initErr
}

func (tp *testPlugin) Fini(m *Machine) {
	tp.fini = true
}

func (tp *testPlugin) Interrupt(m *Machine, interrupt uint64) bool {
	return tp.interrupts[interrupt]
}

func TestNewMachine(t *testing.T) {
	assert := assert.New(t)

	m, err := NewMachine(Setup{})
	assert.NoError(err)
	assert.Equal(uint(ESIL_BITS), m.Bits)
	assert.Equal(ESIL_GOTO_LIMIT, m.GotoLimit)
	assert.Same(DefaultOps(), m.Ops())
	assert.Nil(m.Stats)
	assert.Empty(m.Interrupts().Numbers())

	assert.ErrorIs(m.Interrupts().Set(1, func(*Machine, uint64) error { return nil }), ErrInterruptTableFrozen)
	assert.ErrorIs(m.Ops().Set("NOP", opNop), ErrOpTableFrozen)
}

func TestPlugin(t *testing.T) {
	assert := assert.New(t)

	bad := errors.New("no such cpu")
	_, err := NewMachine(Setup{Plugin: &testPlugin{initErr: bad}})
	assert.ErrorIs(err, ErrPluginInit)
	assert.ErrorIs(err, bad)

	plugin := &testPlugin{interrupts: map[uint64]bool{0x80: true}}
	m, err := NewMachine(Setup{Plugin: plugin})
	assert.NoError(err)

	assert.NoError(m.Parse("0x80,$"))
	assert.ErrorIs(m.Parse("0x81,$"), ErrInterruptUnhandled)

	assert.NoError(m.Close())
	assert.True(plugin.fini)
}

func TestRegisterAccess(t *testing.T) {
	assert := assert.New(t)

	m, regs, _ := newTestMachine(t, Setup{Stats: true})

	width, ok := m.RegisterWidth("al")
	assert.True(ok)
	assert.Equal(uint(8), width)

	_, ok = m.RegisterWidth("xmm0")
	assert.False(ok)

	assert.True(m.WriteRegister("al", 0x1ff))
	value, ok := m.ReadRegister("al")
	assert.True(ok)
	assert.Equal(uint64(0xff), value)
	assert.Equal(uint64(0xff), regs["al"].value)

	assert.False(m.WriteRegister("xmm0", 1))
	_, ok = m.ReadRegister("xmm0")
	assert.False(ok)

	assert.Equal(1, m.Stats.RegRead["al"])
	assert.Equal(1, m.Stats.RegWrite["al"])
	assert.NotContains(m.Stats.RegWrite, "xmm0")
}

func TestHooks(t *testing.T) {
	assert := assert.New(t)

	var written []uint64
	var commands []string
	m, regs, mem := newTestMachine(t, Setup{
		Hooks: Hooks{
			RegRead: func(m *Machine, name string) (uint64, bool) {
				return 0x42, name == "ebx"
			},
			MemWrite: func(m *Machine, addr uint64, buf []byte) bool {
				written = append(written, addr)
				return addr == 0x300
			},
			FlagRead: func(m *Machine, flag string) (uint64, bool) {
				return 7, flag == "x"
			},
			Command: func(m *Machine, word string) bool {
				commands = append(commands, word)
				return word == "*"
			},
		},
	})

	// Reads of ebx are served by the hook.
	assert.NoError(m.Parse("ebx,eax,="))
	assert.Equal(uint64(0x42), regs["eax"].value)

	// Writes to 0x300 never reach the backend.
	assert.NoError(m.Parse("1,0x300,=[1],2,0x301,=[1]"))
	assert.Equal([]uint64{0x300, 0x301}, written)
	assert.Equal(byte(0), mem.data[0x300])
	assert.Equal(byte(2), mem.data[0x301])

	// Internal values can be extended.
	assert.NoError(m.Parse("%x,eax,="))
	assert.Equal(uint64(7), regs["eax"].value)

	// A handled command skips the builtin operator.
	assert.NoError(m.Parse("3,4,*"))
	assert.Equal(2, m.Stack.Len())
	assert.Contains(commands, "*")
}

func TestReadOnly(t *testing.T) {
	assert := assert.New(t)

	m, _, mem := newTestMachine(t, Setup{ReadOnly: true})

	err := m.Parse("1,0x100,=[4],2,eax,=")
	assert.ErrorIs(err, ErrMemoryReadOnly)
	assert.ErrorIs(err, ErrTrap{})
	assert.Equal(TRAP_WRITE_ERR, m.Trap)
	assert.Equal(uint64(0x100), m.TrapCode)
	assert.Empty(mem.data)

	value, _ := m.ReadRegister("eax")
	assert.Equal(uint64(0), value)
}

func TestMemoryFault(t *testing.T) {
	assert := assert.New(t)

	m, _, mem := newTestMachine(t, Setup{})
	mem.fault[0x102] = true

	err := m.Parse("0x100,[4]")
	assert.ErrorIs(err, ErrMemoryRead)
	assert.Equal(TRAP_READ_ERR, m.Trap)
	assert.Equal(uint64(0x100), m.TrapCode)
	assert.True(m.Stack.Empty())

	err = m.Parse("1,0x100,=[4]")
	assert.ErrorIs(err, ErrMemoryWrite)
	assert.Equal(TRAP_WRITE_ERR, m.Trap)
}

func TestByteOrder(t *testing.T) {
	assert := assert.New(t)

	m := &Machine{}
	buf := make([]byte, 4)
	m.Encode(0x11223344, buf)
	assert.Equal([]byte{0x44, 0x33, 0x22, 0x11}, buf)
	assert.Equal(uint64(0x11223344), m.Decode(buf))

	m.BigEndian = true
	m.Encode(0x11223344, buf)
	assert.Equal([]byte{0x11, 0x22, 0x33, 0x44}, buf)
	assert.Equal(uint64(0x11223344), m.Decode(buf))
}

func TestDumpStack(t *testing.T) {
	assert := assert.New(t)

	out := &bytes.Buffer{}
	m, _, _ := newTestMachine(t, Setup{Output: out})

	assert.NoError(m.Parse("1,eax,2,3,+,STACK"))
	assert.Equal("0x5\neax\n1\n", out.String())

	out.Reset()
	m.SetTrap(TRAP_HALT, 3)
	assert.NoError(m.DumpStack())
	assert.Equal("ESIL TRAP type 8 0x3\n0x5\neax\n1\n", out.String())

	assert.Contains(m.String(), "halt")
}
