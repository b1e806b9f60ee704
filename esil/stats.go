package esil

import (
	"fmt"
	"iter"

	"github.com/ezrec/esil/internal"
	"github.com/fxamacker/cbor/v2"
)

// cborEncMode encodes Stats deterministically so exports can be diffed.
var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	cborEncMode = em
}

// Stats counts the registers and addresses touched by a Machine.
type Stats struct {
	RegRead  map[string]int `cbor:"1,keyasint"`
	RegWrite map[string]int `cbor:"2,keyasint"`
	MemRead  map[uint64]int `cbor:"3,keyasint"`
	MemWrite map[uint64]int `cbor:"4,keyasint"`
}

// NewStats returns empty statistics.
func NewStats() *Stats {
	return &Stats{
		RegRead:  map[string]int{},
		RegWrite: map[string]int{},
		MemRead:  map[uint64]int{},
		MemWrite: map[uint64]int{},
	}
}

func (s *Stats) regRead(name string)  { s.RegRead[name]++ }
func (s *Stats) regWrite(name string) { s.RegWrite[name]++ }
func (s *Stats) memRead(addr uint64)  { s.MemRead[addr]++ }
func (s *Stats) memWrite(addr uint64) { s.MemWrite[addr]++ }

// Reset clears every counter.
func (s *Stats) Reset() {
	clear(s.RegRead)
	clear(s.RegWrite)
	clear(s.MemRead)
	clear(s.MemWrite)
}

// Accesses iterates every recorded access as (kind, target) pairs:
// register reads, register writes, memory reads and memory writes, each
// in order.
func (s *Stats) Accesses() iter.Seq2[string, string] {
	reg := func(name string) string { return name }
	mem := func(addr uint64) string { return fmt.Sprintf("0x%x", addr) }
	return internal.Concat2(
		internal.Tagged("reg-read", s.RegRead, reg),
		internal.Tagged("reg-write", s.RegWrite, reg),
		internal.Tagged("mem-read", s.MemRead, mem),
		internal.Tagged("mem-write", s.MemWrite, mem),
	)
}

// Encode returns the statistics as canonical CBOR.
func (s *Stats) Encode() ([]byte, error) {
	return cborEncMode.Marshal(s)
}

// DecodeStats parses statistics produced by Encode.
func DecodeStats(data []byte) (s *Stats, err error) {
	s = NewStats()
	if err = cbor.Unmarshal(data, s); err != nil {
		s = nil
		return
	}
	return
}
