package emulator

import (
	"errors"

	"github.com/ezrec/esil/translate"
)

var f = translate.From

var (
	ErrAddress = errors.New(f("line address is not a number"))
)

// ErrRuntime indicates the location of a runtime error.
type ErrRuntime struct {
	LineNo int
	Offset uint64
	Err    error
}

func (err *ErrRuntime) Error() string {
	return f("line %d (0x%x) %v", err.LineNo, err.Offset, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}

// ErrListing indicates a listing line that failed to compile.
type ErrListing struct {
	LineNo int
	Err    error
}

func (err *ErrListing) Error() string {
	return f("line %d %v", err.LineNo, err.Err)
}

func (err *ErrListing) Unwrap() error {
	return err.Err
}
