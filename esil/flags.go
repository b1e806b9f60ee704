package esil

import (
	"math/bits"
)

// Flags is the flag derivation channel: the value of the last flag
// producing write before (Old) and after (Cur) the operation, and the
// width of that operation in bits. Only operators that write a register
// or memory location from a non-internal operand update it.
type Flags struct {
	Old  uint64
	Cur  uint64
	Size uint
}

// mask returns a value with the bit+1 least significant bits set.
func mask(bit uint) uint64 {
	bit &= 0x3f
	if bit == 63 {
		return ^uint64(0)
	}
	return (uint64(1) << (bit + 1)) - 1
}

// sizeMask returns a value with the low size bits set.
func sizeMask(size uint) uint64 {
	if size == 0 || size >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << size) - 1
}

// Stamp records a flag producing write of the given width. The result
// is masked to that width.
func (fl *Flags) Stamp(old, cur uint64, size uint) {
	fl.Old = old
	fl.Cur = cur & sizeMask(size)
	fl.Size = size
}

// Zero is set when the last result was zero.
func (fl Flags) Zero() bool {
	return fl.Cur == 0
}

// Sign is bit Size-1 of the last result.
func (fl Flags) Sign() bool {
	if fl.Size == 0 || fl.Size > 64 {
		return false
	}
	return (fl.Cur>>(fl.Size-1))&1 == 1
}

// Borrow is set when the low bit+1 bits of the operation decreased.
func (fl Flags) Borrow(bit uint) bool {
	return (fl.Old & mask(bit)) < (fl.Cur & mask(bit))
}

// Carry is set when the low bit+1 bits of the operation wrapped upward.
func (fl Flags) Carry(bit uint) bool {
	return (fl.Cur & mask(bit)) < (fl.Old & mask(bit))
}

// Overflow is the carry out of the sign bit xor the carry into it.
func (fl Flags) Overflow() bool {
	if fl.Size < 2 {
		return false
	}
	return fl.Carry(fl.Size-1) != fl.Carry(fl.Size-2)
}

// Parity is set when the low byte of the last result has an odd number
// of bits set.
func (fl Flags) Parity() bool {
	return bits.OnesCount8(uint8(fl.Cur))&1 == 1
}
