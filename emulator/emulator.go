// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"sync"

	"github.com/tliron/commonlog"

	"github.com/ezrec/esil/esil"
)

var log = sync.OnceValue(func() commonlog.Logger {
	return commonlog.GetLogger("esil.emulator")
})

// Emulator runs a listing on an ESIL machine.
type Emulator struct {
	Verbose       bool     // If set, enables verbose logging.
	*esil.Machine          // Reference to the evaluation machine.
	Listing       *Listing // Reference to the currently running listing.

	// PC names the program counter register. When set, the next line is
	// the one at the address held in PC, and PC is advanced to the next
	// line before each instruction runs. Otherwise lines run in order.
	PC string

	Steps int // Instructions executed since a reset.

	line int
}

// NewEmulator creates a new emulator.
func NewEmulator(m *esil.Machine) (emu *Emulator) {
	emu = &Emulator{
		Machine: m,
		Listing: &Listing{},
	}

	return
}

// Reset rewinds to the first line of the listing.
func (emu *Emulator) Reset() (err error) {
	emu.line = 0
	emu.Steps = 0

	if len(emu.PC) > 0 && len(emu.Listing.Lines) > 0 {
		if !emu.Machine.WriteRegister(emu.PC, emu.Listing.Lines[0].Address) {
			err = esil.ErrRegisterWrite
		}
	}

	return
}

// LineNo returns the source line number of the next instruction, or 0
// when execution has left the listing.
func (emu *Emulator) LineNo() int {
	index, ok := emu.next()
	if !ok {
		return 0
	}
	return emu.Listing.Lines[index].LineNo
}

func (emu *Emulator) next() (index int, ok bool) {
	if len(emu.PC) == 0 {
		index = emu.line
		ok = index < len(emu.Listing.Lines)
		return
	}

	pc, ok := emu.Machine.ReadRegister(emu.PC)
	if !ok {
		return
	}
	return emu.Listing.Find(pc)
}

// Tick evaluates a single instruction. Running off the listing or a
// TRAP_HALT finishes the run.
func (emu *Emulator) Tick() (done bool, err error) {
	emu.Machine.Verbose = emu.Verbose

	index, ok := emu.next()
	if !ok {
		done = true
		return
	}
	line := emu.Listing.Lines[index]

	defer func() {
		if err != nil {
			err = &ErrRuntime{LineNo: line.LineNo, Offset: line.Address, Err: err}
		}
	}()

	emu.Machine.SetOffset(line.Address)

	if len(emu.PC) > 0 {
		following := line.Address + 1
		if index+1 < len(emu.Listing.Lines) {
			following = emu.Listing.Lines[index+1].Address
		}
		if !emu.Machine.WriteRegister(emu.PC, following) {
			err = esil.ErrRegisterWrite
			return
		}
	}

	if emu.Verbose {
		log().Debugf("0x%08x: %v", line.Address, line.Program)
	}

	err = emu.Machine.Run(line.Program)
	emu.Steps++
	emu.line = index + 1

	if emu.Machine.Trap == esil.TRAP_HALT {
		done = true
		err = nil
	}

	return
}
