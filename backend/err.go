package backend

import (
	"errors"

	"github.com/ezrec/esil/translate"
)

var f = translate.From

var (
	// Register file errors
	ErrRegisterDefined = errors.New(f("register already defined"))
	ErrRegisterParent  = errors.New(f("register parent unknown"))
	ErrRegisterSize    = errors.New(f("register size invalid"))
)

// ErrRegister names the register a definition error applies to.
type ErrRegister struct {
	Name string
	Err  error
}

func (err ErrRegister) Error() string {
	return f("register '%v': %v", err.Name, err.Err)
}

func (err ErrRegister) Unwrap() error {
	return err.Err
}
