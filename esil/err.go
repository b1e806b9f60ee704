package esil

import (
	"errors"

	"github.com/ezrec/esil/translate"
)

var f = translate.From

var (
	// Stack errors
	ErrStackEmpty = errors.New(f("stack empty"))
	ErrStackFull  = errors.New(f("stack full"))

	// Parse errors
	ErrWordTooLong   = errors.New(f("word too long"))
	ErrInvalidParam  = errors.New(f("invalid parameter"))
	ErrInfiniteLoop  = errors.New(f("infinite loop detected"))
	ErrGotoTarget    = errors.New(f("goto target missing"))
	ErrTodo          = errors.New(f("unimplemented"))
	ErrDivideByZero  = errors.New(f("division by zero"))
	ErrNotRegister   = errors.New(f("not a register"))
	ErrRegisterRead  = errors.New(f("register read failed"))
	ErrRegisterWrite = errors.New(f("register write failed"))
	ErrBadWidth      = errors.New(f("unsupported width"))
	ErrNoCondition   = errors.New(f("condition left no value"))

	// Memory errors
	ErrMemoryRead     = errors.New(f("memory read failed"))
	ErrMemoryWrite    = errors.New(f("memory write failed"))
	ErrMemoryReadOnly = errors.New(f("memory is read-only"))

	// Interrupt errors
	ErrInterruptUnhandled = errors.New(f("interrupt unhandled"))

	// Setup errors
	ErrOpInvalid        = errors.New(f("operator invalid"))
	ErrOpTableFrozen    = errors.New(f("operator table frozen"))
	ErrInterruptInvalid = errors.New(f("interrupt handler invalid"))

	ErrInterruptTableFrozen = errors.New(f("interrupt table frozen"))
	ErrPluginInit           = errors.New(f("plugin init failed"))
)

// ErrWord records which word of an ESIL string failed.
type ErrWord struct {
	Index int
	Word  string
	Err   error
}

func (err ErrWord) Error() string {
	return f("word %d '%v' %v", err.Index, err.Word, err.Err)
}

func (err ErrWord) Unwrap() error {
	return err.Err
}

// ErrTrap is returned by Parse when the evaluation raised a trap.
type ErrTrap struct {
	Type TrapType
	Code uint64
}

func (err ErrTrap) Error() string {
	return f("trap %v code 0x%x", err.Type.String(), err.Code)
}

// Is matches an ErrTrap of the same type. ErrTrap{} matches any trap.
func (err ErrTrap) Is(target error) (ok bool) {
	t, ok := target.(ErrTrap)
	if !ok {
		return
	}
	ok = t.Type == TRAP_NONE || t.Type == err.Type
	return
}

// ErrParam indicates a token that is neither a number, a register nor an
// internal value.
type ErrParam string

func (err ErrParam) Error() string {
	return f("'%v' is not a number, register or internal value", string(err))
}

func (err ErrParam) Unwrap() error {
	return ErrInvalidParam
}
