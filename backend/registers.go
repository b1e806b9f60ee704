package backend

import (
	"maps"
	"slices"

	"github.com/ezrec/esil/esil"
)

// Register describes one named register. A register with a Parent is a
// view of Size bits of the parent starting at bit Offset.
type Register struct {
	Name   string
	Size   uint
	Parent string
	Offset uint
}

type slot struct {
	root   string
	offset uint
	size   uint
}

// RegisterFile holds named registers of arbitrary width. Writes are
// truncated to the register width.
type RegisterFile struct {
	slots  map[string]slot
	values map[string]uint64
}

var _ esil.Registers = (*RegisterFile)(nil)

// NewRegisterFile returns an empty register file.
func NewRegisterFile() *RegisterFile {
	return &RegisterFile{
		slots:  map[string]slot{},
		values: map[string]uint64{},
	}
}

func mask(size uint) uint64 {
	if size >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << size) - 1
}

// Define adds a register. Parents must be defined first.
func (rf *RegisterFile) Define(reg Register) (err error) {
	defer func() {
		if err != nil {
			err = ErrRegister{Name: reg.Name, Err: err}
		}
	}()

	if _, ok := rf.slots[reg.Name]; ok || len(reg.Name) == 0 {
		err = ErrRegisterDefined
		return
	}
	if reg.Size == 0 || reg.Size > 64 {
		err = ErrRegisterSize
		return
	}

	s := slot{root: reg.Name, size: reg.Size}
	if len(reg.Parent) > 0 {
		parent, ok := rf.slots[reg.Parent]
		if !ok {
			err = ErrRegisterParent
			return
		}
		if reg.Offset+reg.Size > parent.size {
			err = ErrRegisterSize
			return
		}
		s.root = parent.root
		s.offset = parent.offset + reg.Offset
	} else if reg.Offset != 0 {
		err = ErrRegisterParent
		return
	}

	rf.slots[reg.Name] = s
	if s.root == reg.Name {
		rf.values[reg.Name] = 0
	}
	return
}

// ReadRegister implements esil.Registers.
func (rf *RegisterFile) ReadRegister(name string) (value uint64, width uint, ok bool) {
	s, ok := rf.slots[name]
	if !ok {
		return
	}
	value = (rf.values[s.root] >> s.offset) & mask(s.size)
	width = s.size
	return
}

// WriteRegister implements esil.Registers.
func (rf *RegisterFile) WriteRegister(name string, value uint64) (ok bool) {
	s, ok := rf.slots[name]
	if !ok {
		return
	}
	m := mask(s.size) << s.offset
	rf.values[s.root] = (rf.values[s.root] &^ m) | ((value << s.offset) & m)
	return
}

// Names returns the defined register names in order.
func (rf *RegisterFile) Names() []string {
	return slices.Sorted(maps.Keys(rf.slots))
}

// Reset zeroes every register.
func (rf *RegisterFile) Reset() {
	for name := range rf.values {
		rf.values[name] = 0
	}
}
