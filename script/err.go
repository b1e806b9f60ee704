package script

import (
	"errors"

	"github.com/ezrec/esil/translate"
)

var f = translate.From

var (
	ErrNoInterrupts = errors.New(f("script defines no interrupts dict"))
	ErrInterruptKey = errors.New(f("interrupt number must be a non-negative int"))
	ErrHandler      = errors.New(f("interrupt handler must be callable"))
	ErrNoMachine    = errors.New(f("builtin called outside an interrupt"))
	ErrMemory       = errors.New(f("memory access failed"))
	ErrSize         = errors.New(f("access size must be 1, 2, 4 or 8"))
)

// ErrScript records a failure of the handler for one interrupt.
type ErrScript struct {
	Interrupt uint64
	Err       error
}

func (err ErrScript) Error() string {
	return f("interrupt %d: %v", err.Interrupt, err.Err)
}

func (err ErrScript) Unwrap() error {
	return err.Err
}
