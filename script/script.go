// Package script runs interrupt handlers written in Starlark.
//
// A script declares a global dict named interrupts that maps interrupt
// numbers to functions of one argument, the interrupt number:
//
//	def syscall(n):
//	    if reg("rax") == 60:
//	        trap(8, reg("rdi"))
//
//	interrupts = {0x80: syscall}
//
// Handlers reach the machine that fired the interrupt through the
// builtins reg, setreg, peek, poke, trap and offset.
package script

import (
	"maps"
	"slices"
	"sync"

	"github.com/ezrec/esil/esil"
	"github.com/tliron/commonlog"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

var log = sync.OnceValue(func() commonlog.Logger {
	return commonlog.GetLogger("esil.script")
})

// machineKey is the thread local holding the running *esil.Machine.
const machineKey = "esil.machine"

// Script is a loaded set of interrupt handlers.
type Script struct {
	Name     string
	Handlers map[uint64]starlark.Callable
}

func newThread(name string) *starlark.Thread {
	return &starlark.Thread{
		Name: name,
		Print: func(thread *starlark.Thread, msg string) {
			log().Infof("%v: %v", thread.Name, msg)
		},
	}
}

// Load executes a script and collects its interrupts dict. The src
// argument follows starlark.ExecFileOptions: nil reads filename.
func Load(filename string, src any) (s *Script, err error) {
	thread := newThread(filename)
	opts := syntax.FileOptions{}

	globals, err := starlark.ExecFileOptions(&opts, thread, filename, src, builtins)
	if err != nil {
		return
	}

	dict, ok := globals["interrupts"].(*starlark.Dict)
	if !ok {
		err = ErrNoInterrupts
		return
	}

	s = &Script{
		Name:     filename,
		Handlers: make(map[uint64]starlark.Callable, dict.Len()),
	}
	for _, item := range dict.Items() {
		key, ok := item[0].(starlark.Int)
		if !ok {
			s, err = nil, ErrInterruptKey
			return
		}
		interrupt, ok := key.Uint64()
		if !ok {
			s, err = nil, ErrInterruptKey
			return
		}
		fn, ok := item[1].(starlark.Callable)
		if !ok {
			s, err = nil, ErrScript{Interrupt: interrupt, Err: ErrHandler}
			return
		}
		s.Handlers[interrupt] = fn
	}

	return
}

// Interrupts returns the handled interrupt numbers in order.
func (s *Script) Interrupts() []uint64 {
	return slices.Sorted(maps.Keys(s.Handlers))
}

// Install registers every handler in an interrupt table.
func (s *Script) Install(table *esil.InterruptTable) (err error) {
	for _, interrupt := range s.Interrupts() {
		err = table.Set(interrupt, s.handler(s.Handlers[interrupt]))
		if err != nil {
			return
		}
	}
	return
}

// handler adapts a Starlark callable to an esil.InterruptHandler. A
// handler that fails raises TRAP_EXEC_ERR.
func (s *Script) handler(fn starlark.Callable) esil.InterruptHandler {
	return func(m *esil.Machine, interrupt uint64) (err error) {
		thread := newThread(s.Name)
		thread.SetLocal(machineKey, m)

		_, err = starlark.Call(thread, fn, starlark.Tuple{starlark.MakeUint64(interrupt)}, nil)
		if err != nil {
			log().Warningf("%v", err)
			m.SetTrap(esil.TRAP_EXEC_ERR, interrupt)
			err = ErrScript{Interrupt: interrupt, Err: err}
		}
		return
	}
}
