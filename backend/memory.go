package backend

import (
	"github.com/ezrec/esil/esil"
)

const (
	PAGE_SHIFT = 12
	PAGE_SIZE  = 1 << PAGE_SHIFT
	PAGE_MASK  = PAGE_SIZE - 1
)

// Range is the half open address interval [Start, End).
type Range struct {
	Start uint64
	End   uint64
}

func (r Range) contains(addr uint64) bool {
	return addr >= r.Start && addr < r.End
}

// Memory is a sparse byte image allocated a page at a time. Unless
// Strict is set, unmapped pages read as zero and are created on write.
type Memory struct {
	Strict   bool
	Pages    map[uint64][]byte
	ReadOnly []Range
}

var _ esil.Memory = (*Memory)(nil)

func (mem *Memory) page(addr uint64, create bool) (data []byte) {
	index := addr >> PAGE_SHIFT
	data, ok := mem.Pages[index]
	if !ok && create {
		if mem.Pages == nil {
			mem.Pages = make(map[uint64][]byte)
		}
		data = make([]byte, PAGE_SIZE)
		mem.Pages[index] = data
	}
	return
}

func (mem *Memory) readOnly(addr uint64) bool {
	for _, r := range mem.ReadOnly {
		if r.contains(addr) {
			return true
		}
	}
	return false
}

// Map copies data into the image at addr, creating pages as needed.
// With readOnly set the range rejects later writes.
func (mem *Memory) Map(addr uint64, data []byte, readOnly bool) {
	for n, b := range data {
		at := addr + uint64(n)
		mem.page(at, true)[at&PAGE_MASK] = b
	}
	if readOnly && len(data) > 0 {
		mem.ReadOnly = append(mem.ReadOnly, Range{Start: addr, End: addr + uint64(len(data))})
	}
}

// ReadMemory implements esil.Memory. A strict image stops at the first
// unmapped byte.
func (mem *Memory) ReadMemory(addr uint64, buf []byte) (n int) {
	for n = range buf {
		at := addr + uint64(n)
		data := mem.page(at, false)
		if data == nil {
			if mem.Strict {
				return
			}
			buf[n] = 0
			continue
		}
		buf[n] = data[at&PAGE_MASK]
	}
	n = len(buf)
	return
}

// WriteMemory implements esil.Memory. Writing stops at the first
// read-only byte, or in a strict image at the first unmapped one.
func (mem *Memory) WriteMemory(addr uint64, buf []byte) (n int) {
	for n = range buf {
		at := addr + uint64(n)
		if mem.readOnly(at) {
			return
		}
		data := mem.page(at, !mem.Strict)
		if data == nil {
			return
		}
		data[at&PAGE_MASK] = buf[n]
	}
	n = len(buf)
	return
}

// Reset drops every page and read-only range.
func (mem *Memory) Reset() {
	mem.Pages = nil
	mem.ReadOnly = nil
}
