package esil

// Registers is the register file collaborator.
type Registers interface {
	// ReadRegister returns the value and bit width of a register.
	ReadRegister(name string) (value uint64, width uint, ok bool)
	// WriteRegister stores a value, truncated to the register width.
	WriteRegister(name string, value uint64) (ok bool)
}

// Memory is the memory image collaborator. Both calls return the
// number of bytes transferred; a short count is a failed access.
type Memory interface {
	ReadMemory(addr uint64, buf []byte) (n int)
	WriteMemory(addr uint64, buf []byte) (n int)
}

// Hooks intercept accesses before the default backends see them. A
// hook that returns false declines and the access falls through.
type Hooks struct {
	RegRead   func(m *Machine, name string) (value uint64, ok bool)
	RegWrite  func(m *Machine, name string, value uint64) (ok bool)
	MemRead   func(m *Machine, addr uint64, buf []byte) (ok bool)
	MemWrite  func(m *Machine, addr uint64, buf []byte) (ok bool)
	FlagRead  func(m *Machine, flag string) (value uint64, ok bool)
	Command   func(m *Machine, word string) (handled bool)
	Interrupt func(m *Machine, interrupt uint64) (handled bool)
}

// Plugin carries CPU specific setup and interrupt handling.
type Plugin interface {
	Init(m *Machine) error
	Fini(m *Machine)
	Interrupt(m *Machine, interrupt uint64) (handled bool)
}
