package esil

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/tliron/commonlog"
)

// log resolves the logger on first use, after the host picked a backend.
var log = sync.OnceValue(func() commonlog.Logger {
	return commonlog.GetLogger("esil")
})

const (
	ESIL_GOTO_LIMIT = 4096 // Default per-call word budget.
	ESIL_BITS       = 64   // Default register width.
)

// Setup configures a new Machine.
type Setup struct {
	Registers  Registers       // Default register backend.
	Memory     Memory          // Default memory backend.
	Plugin     Plugin          // Optional CPU plugin.
	Hooks      Hooks           // Access hooks.
	Ops        *OpTable        // Operator table, nil for DefaultOps().
	Interrupts *InterruptTable // Interrupt table, nil for an empty one.
	Aggregator Aggregator      // Optional block aggregator.
	Output     io.Writer       // STACK dump sink, nil for os.Stdout.

	GotoLimit int  // Per-call word budget, 0 for ESIL_GOTO_LIMIT.
	Bits      uint // Register width used by []-style operators and %r.
	BigEndian bool // Byte order of the memory image.
	Verbose   bool // Trace every register and memory access.
	ReadOnly  bool // Reject memory writes.
	Stats     bool // Record accessed registers and addresses.
}

// Machine is the evaluation state for one emulation context.
type Machine struct {
	Verbose   bool   // Set to trace register and memory accesses.
	ReadOnly  bool   // Set to reject memory writes.
	BigEndian bool   // Byte order of the memory image.
	Bits      uint   // Register width in bits.
	GotoLimit int    // Per-call word budget.
	Offset    uint64 // Address of the current instruction.

	Output     io.Writer  // STACK dump sink.
	Hooks      Hooks      // Access hooks.
	Aggregator Aggregator // Optional block aggregator.
	Stats      *Stats     // Access statistics, nil when disabled.

	Stack    Stack    // Operand stack.
	Flags    Flags    // Flag derivation channel.
	Trap     TrapType // Pending trap.
	TrapCode uint64   // Code of the pending trap.

	registers  Registers
	memory     Memory
	plugin     Plugin
	ops        *OpTable
	interrupts *InterruptTable

	skip   int     // Depth of the false block being skipped.
	ctl    Control // Control request of the running word.
	budget int     // Words left for this call.
}

// NewMachine creates a Machine from a Setup. It fails when the plugin
// initializer fails.
func NewMachine(setup Setup) (m *Machine, err error) {
	m = &Machine{
		Verbose:    setup.Verbose,
		ReadOnly:   setup.ReadOnly,
		BigEndian:  setup.BigEndian,
		Bits:       setup.Bits,
		GotoLimit:  setup.GotoLimit,
		Output:     setup.Output,
		Hooks:      setup.Hooks,
		Aggregator: setup.Aggregator,
		registers:  setup.Registers,
		memory:     setup.Memory,
		plugin:     setup.Plugin,
		ops:        setup.Ops,
		interrupts: setup.Interrupts,
	}

	if m.Bits == 0 {
		m.Bits = ESIL_BITS
	}
	if m.GotoLimit <= 0 {
		m.GotoLimit = ESIL_GOTO_LIMIT
	}
	if m.Output == nil {
		m.Output = os.Stdout
	}
	if m.ops == nil {
		m.ops = DefaultOps()
	}
	m.ops.Freeze()
	if m.interrupts == nil {
		m.interrupts = NewInterruptTable()
	}
	m.interrupts.Freeze()
	if setup.Stats {
		m.Stats = NewStats()
	}

	if m.plugin != nil {
		err = m.plugin.Init(m)
		if err != nil {
			err = errors.Join(ErrPluginInit, err)
			m = nil
			return
		}
	}

	return
}

// Close releases the stack and lets the plugin tear down.
func (m *Machine) Close() (err error) {
	m.Stack.Reset()
	if m.plugin != nil {
		m.plugin.Fini(m)
	}
	return
}

// Ops returns the operator table bound to the machine.
func (m *Machine) Ops() *OpTable {
	return m.ops
}

// Interrupts returns the interrupt table bound to the machine.
func (m *Machine) Interrupts() *InterruptTable {
	return m.interrupts
}

// SetOffset sets the address reported by %%.
func (m *Machine) SetOffset(offset uint64) {
	m.Offset = offset
}

// Skipping reports whether a false conditional block is being skipped.
func (m *Machine) Skipping() bool {
	return m.skip > 0
}

// String returns the machine state as text.
func (m *Machine) String() (text string) {
	text += fmt.Sprintf("% 7s: 0x%08x\n", "offset", m.Offset)
	text += fmt.Sprintf("% 7s: %v 0x%x\n", "trap", m.Trap, m.TrapCode)
	text += fmt.Sprintf("% 7s: 0x%x -> 0x%x (%d bits)\n", "flags", m.Flags.Old, m.Flags.Cur, m.Flags.Size)
	for n := m.Stack.Len() - 1; n >= 0; n-- {
		text += fmt.Sprintf("% 7s: %v\n", fmt.Sprintf("[%d]", n), m.Stack.Data[n])
	}
	return
}

// DumpStack writes the pending trap and the stack, top first, to Output.
func (m *Machine) DumpStack() (err error) {
	if m.Trap != TRAP_NONE {
		_, err = fmt.Fprintf(m.Output, "ESIL TRAP type %d 0x%x\n", int(m.Trap), m.TrapCode)
		if err != nil {
			return
		}
	}
	for n := m.Stack.Len() - 1; n >= 0; n-- {
		_, err = fmt.Fprintf(m.Output, "%v\n", m.Stack.Data[n])
		if err != nil {
			return
		}
	}
	return
}

// RegisterWidth returns the width in bits of a register known to the
// register backend.
func (m *Machine) RegisterWidth(name string) (width uint, ok bool) {
	if m.registers == nil {
		return
	}
	_, width, ok = m.registers.ReadRegister(name)
	return
}

// ReadRegister reads a register through the hooks, then the backend.
func (m *Machine) ReadRegister(name string) (value uint64, ok bool) {
	if m.Hooks.RegRead != nil {
		value, ok = m.Hooks.RegRead(m, name)
	}
	if !ok && m.registers != nil {
		value, _, ok = m.registers.ReadRegister(name)
	}
	if !ok {
		value = 0
		return
	}

	if m.Verbose {
		log().Debugf("%v=0x%x", name, value)
	}
	if m.Stats != nil {
		m.Stats.regRead(name)
	}
	return
}

// WriteRegister writes a register through the hooks, then the backend.
func (m *Machine) WriteRegister(name string, value uint64) (ok bool) {
	if m.Verbose {
		log().Debugf("%v=0x%x", name, value)
	}
	if m.Hooks.RegWrite != nil {
		ok = m.Hooks.RegWrite(m, name, value)
	}
	if !ok && m.registers != nil {
		ok = m.registers.WriteRegister(name, value)
	}
	if ok && m.Stats != nil {
		m.Stats.regWrite(name)
	}
	return
}

// ReadMemory fills buf from addr through the hooks, then the backend.
func (m *Machine) ReadMemory(addr uint64, buf []byte) (ok bool) {
	if m.Hooks.MemRead != nil {
		ok = m.Hooks.MemRead(m, addr, buf)
	}
	if !ok && m.memory != nil {
		ok = m.memory.ReadMemory(addr, buf) == len(buf)
	}

	if m.Verbose {
		log().Debugf("0x%08x R> %v", addr, hex.EncodeToString(buf))
	}
	if ok && m.Stats != nil {
		m.Stats.memRead(addr)
	}
	return
}

// WriteMemory stores buf at addr through the hooks, then the backend.
// Read-only machines reject every write with a TRAP_WRITE_ERR.
func (m *Machine) WriteMemory(addr uint64, buf []byte) (err error) {
	if m.Verbose {
		log().Debugf("0x%08x <W %v", addr, hex.EncodeToString(buf))
	}

	if m.ReadOnly {
		m.SetTrap(TRAP_WRITE_ERR, addr)
		err = ErrMemoryReadOnly
		return
	}

	var ok bool
	if m.Hooks.MemWrite != nil {
		ok = m.Hooks.MemWrite(m, addr, buf)
	}
	if !ok && m.memory != nil {
		ok = m.memory.WriteMemory(addr, buf) == len(buf)
	}
	if !ok {
		m.SetTrap(TRAP_WRITE_ERR, addr)
		err = ErrMemoryWrite
		return
	}

	if m.Stats != nil {
		m.Stats.memWrite(addr)
	}
	return
}

// Decode converts bytes in the machine byte order to a value.
func (m *Machine) Decode(buf []byte) (value uint64) {
	for n := range buf {
		index := n
		if !m.BigEndian {
			index = len(buf) - 1 - n
		}
		value = (value << 8) | uint64(buf[index])
	}
	return
}

// Encode stores value into buf in the machine byte order.
func (m *Machine) Encode(value uint64, buf []byte) {
	for n := range buf {
		index := n
		if m.BigEndian {
			index = len(buf) - 1 - n
		}
		buf[index] = byte(value >> (8 * n))
	}
}
