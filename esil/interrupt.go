package esil

import (
	"maps"
	"slices"
	"sync/atomic"
)

// InterruptHandler services one interrupt number.
type InterruptHandler func(m *Machine, interrupt uint64) error

// InterruptTable maps interrupt numbers to handlers. It is read-only
// once bound to a Machine and may be shared between machines.
type InterruptTable struct {
	handlers map[uint64]InterruptHandler
	frozen   atomic.Bool
}

// NewInterruptTable creates an empty table.
func NewInterruptTable() *InterruptTable {
	return &InterruptTable{
		handlers: map[uint64]InterruptHandler{},
	}
}

// Set installs a handler.
func (it *InterruptTable) Set(interrupt uint64, handler InterruptHandler) (err error) {
	if handler == nil {
		err = ErrInterruptInvalid
		return
	}
	if it.frozen.Load() {
		err = ErrInterruptTableFrozen
		return
	}
	it.handlers[interrupt] = handler
	return
}

// Lookup finds the handler for an interrupt.
func (it *InterruptTable) Lookup(interrupt uint64) (handler InterruptHandler, ok bool) {
	handler, ok = it.handlers[interrupt]
	return
}

// Numbers returns the installed interrupt numbers in order.
func (it *InterruptTable) Numbers() []uint64 {
	return slices.Sorted(maps.Keys(it.handlers))
}

// Freeze makes the table read-only.
func (it *InterruptTable) Freeze() {
	it.frozen.Store(true)
}

// FireInterrupt offers an interrupt to the command hook, the plugin and
// finally the interrupt table. An interrupt nobody answers raises
// TRAP_UNHANDLED.
func (m *Machine) FireInterrupt(interrupt uint64) (err error) {
	if m.Hooks.Interrupt != nil && m.Hooks.Interrupt(m, interrupt) {
		return
	}

	if m.plugin != nil && m.plugin.Interrupt(m, interrupt) {
		return
	}

	handler, ok := m.interrupts.Lookup(interrupt)
	if !ok {
		log().Warningf("cannot find interrupt-handler for interrupt %d", interrupt)
		m.SetTrap(TRAP_UNHANDLED, interrupt)
		err = ErrInterruptUnhandled
		return
	}

	return handler(m, interrupt)
}
