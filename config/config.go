// Package config loads machine profiles for the esil tools.
//
// A profile is a TOML file:
//
//	bits = 32
//	pc = "eip"
//	script = "syscalls.star"
//
//	[[register]]
//	name = "eax"
//	size = 32
//
//	[[register]]
//	name = "al"
//	size = 8
//	parent = "eax"
//
//	[[memory]]
//	address = 0x1000
//	data = "90c3"
//	read-only = true
package config

import (
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"slices"

	"github.com/BurntSushi/toml"

	"github.com/ezrec/esil/backend"
	"github.com/ezrec/esil/esil"
	"github.com/ezrec/esil/script"
)

// Register is one [[register]] table.
type Register struct {
	Name   string `toml:"name"`
	Size   uint   `toml:"size"`
	Parent string `toml:"parent"`
	Offset uint   `toml:"offset"`
}

// Region is one [[memory]] table.
type Region struct {
	Address  uint64 `toml:"address"`
	Data     string `toml:"data"`
	ReadOnly bool   `toml:"read-only"`
}

// Config is a machine profile.
type Config struct {
	Bits      uint   `toml:"bits"`
	BigEndian bool   `toml:"big-endian"`
	GotoLimit int    `toml:"goto-limit"`
	ReadOnly  bool   `toml:"read-only"`
	Strict    bool   `toml:"strict"`
	Verbose   bool   `toml:"verbose"`
	Stats     bool   `toml:"stats"`
	PC        string `toml:"pc"`
	Script    string `toml:"script"`

	RegisterDefs []Register `toml:"register"`
	Regions      []Region   `toml:"memory"`

	// Dir resolves relative paths such as Script. Set by Load.
	Dir string `toml:"-"`
}

// Default returns the profile used when none is given: a 64 bit little
// endian machine with no registers.
func Default() *Config {
	return &Config{
		Bits:      esil.ESIL_BITS,
		GotoLimit: esil.ESIL_GOTO_LIMIT,
	}
}

// Parse decodes a profile and applies defaults.
func Parse(data []byte) (c *Config, err error) {
	c = Default()
	if err = toml.Unmarshal(data, c); err != nil {
		c = nil
		return
	}

	if err = c.validate(); err != nil {
		c = nil
		return
	}
	return
}

// Load reads a profile from a file.
func Load(path string) (c *Config, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		err = ErrConfig{Path: path, Err: err}
		return
	}

	c, err = Parse(data)
	if err != nil {
		err = ErrConfig{Path: path, Err: err}
		return
	}

	c.Dir, err = filepath.Abs(filepath.Dir(path))
	if err != nil {
		c = nil
		err = ErrConfig{Path: path, Err: err}
	}
	return
}

func (c *Config) validate() (err error) {
	if c.Bits == 0 {
		c.Bits = esil.ESIL_BITS
	}
	if c.GotoLimit <= 0 {
		c.GotoLimit = esil.ESIL_GOTO_LIMIT
	}
	if !slices.Contains([]uint{8, 16, 32, 64}, c.Bits) {
		return ErrBits
	}

	if len(c.PC) > 0 && !slices.ContainsFunc(c.RegisterDefs, func(r Register) bool { return r.Name == c.PC }) {
		return ErrPC
	}

	return
}

// Registers builds the register file described by the profile.
func (c *Config) Registers() (rf *backend.RegisterFile, err error) {
	rf = backend.NewRegisterFile()
	for _, reg := range c.RegisterDefs {
		err = rf.Define(backend.Register{
			Name:   reg.Name,
			Size:   reg.Size,
			Parent: reg.Parent,
			Offset: reg.Offset,
		})
		if err != nil {
			rf = nil
			return
		}
	}
	return
}

// Memory builds the memory image described by the profile.
func (c *Config) Memory() (mem *backend.Memory, err error) {
	mem = &backend.Memory{Strict: c.Strict}
	for _, region := range c.Regions {
		var data []byte
		data, err = hex.DecodeString(region.Data)
		if err != nil {
			mem = nil
			err = errors.Join(ErrMemoryData, err)
			return
		}
		mem.Map(region.Address, data, region.ReadOnly)
	}
	return
}

// Interrupts loads the profile script, if any, into a new table.
func (c *Config) Interrupts() (table *esil.InterruptTable, err error) {
	table = esil.NewInterruptTable()
	if len(c.Script) == 0 {
		return
	}

	path := c.Script
	if !filepath.IsAbs(path) && len(c.Dir) > 0 {
		path = filepath.Join(c.Dir, path)
	}

	s, err := script.Load(path, nil)
	if err != nil {
		table = nil
		return
	}

	err = s.Install(table)
	if err != nil {
		table = nil
	}
	return
}

// Setup builds an esil.Setup with the backends of the profile.
func (c *Config) Setup() (setup esil.Setup, err error) {
	rf, err := c.Registers()
	if err != nil {
		return
	}
	mem, err := c.Memory()
	if err != nil {
		return
	}
	interrupts, err := c.Interrupts()
	if err != nil {
		return
	}

	setup = esil.Setup{
		Registers:  rf,
		Memory:     mem,
		Interrupts: interrupts,
		GotoLimit:  c.GotoLimit,
		Bits:       c.Bits,
		BigEndian:  c.BigEndian,
		Verbose:    c.Verbose,
		ReadOnly:   c.ReadOnly,
		Stats:      c.Stats,
	}
	return
}
