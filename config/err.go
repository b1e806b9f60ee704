package config

import (
	"errors"

	"github.com/ezrec/esil/translate"
)

var f = translate.From

var (
	ErrBits       = errors.New(f("bits must be 8, 16, 32 or 64"))
	ErrMemoryData = errors.New(f("memory data is not hex"))
	ErrPC         = errors.New(f("pc register is not defined"))
)

// ErrConfig records which profile failed to load.
type ErrConfig struct {
	Path string
	Err  error
}

func (err ErrConfig) Error() string {
	return f("%v: %v", err.Path, err.Err)
}

func (err ErrConfig) Unwrap() error {
	return err.Err
}
