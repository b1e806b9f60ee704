package esil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBlockCollector(t *testing.T) {
	assert := assert.New(t)

	bc := &BlockCollector{}
	m, regs, _ := newTestMachine(t, Setup{Aggregator: bc})
	m.SetOffset(0x400)

	assert.NoError(m.Parse("1,eax,=,1,?{,2,eax,=,0,?{,3,ebx,=,},},4,ecx,="))
	assert.Equal(uint64(1), regs["eax"].value)
	assert.Equal(uint64(0), regs["ebx"].value)
	assert.Equal(uint64(4), regs["ecx"].value)

	assert.Len(bc.Blocks, 1)
	block := bc.Blocks[0]
	assert.Equal(uint64(0x400), block.Address)
	assert.Equal(uint64(1), block.Guard)
	assert.Equal("2,eax,=,0,?{,3,ebx,=,}", block.Text())
	assert.Equal(4, block.Ops)

	assert.NoError(bc.Replay(m, 0))
	assert.Equal(uint64(2), regs["eax"].value)
	assert.Equal(uint64(0), regs["ebx"].value)

	assert.ErrorIs(bc.Replay(m, 1), ErrGotoTarget)

	bc.Reset()
	assert.Empty(bc.Blocks)
}

func TestBlockCollectorExecute(t *testing.T) {
	assert := assert.New(t)

	bc := &BlockCollector{Execute: true}
	m, regs, _ := newTestMachine(t, Setup{Aggregator: bc})

	assert.NoError(m.Parse("1,?{,2,eax,=,1,?{,3,ebx,=,},}"))
	assert.Equal(uint64(2), regs["eax"].value)
	assert.Equal(uint64(3), regs["ebx"].value)

	assert.NoError(m.Parse("0,?{,4,eax,=,}"))
	assert.Equal(uint64(2), regs["eax"].value)
	assert.Len(bc.Blocks, 2)

	// A BREAK inside the block ends the whole string.
	assert.NoError(m.Parse("1,?{,BREAK,},5,eax,="))
	assert.Equal(uint64(2), regs["eax"].value)

	// A trap inside the block halts the string.
	err := m.Parse("1,?{,1,0,/,},6,eax,=")
	assert.ErrorIs(err, ErrDivideByZero)
	assert.Equal(uint64(2), regs["eax"].value)

	// Unterminated blocks are dropped by the next string.
	assert.NoError(m.Parse("1,?{,7,eax,="))
	assert.NoError(m.Parse("8,ebx,="))
	assert.Equal(uint64(2), regs["eax"].value)
	assert.Equal(uint64(8), regs["ebx"].value)
	assert.Len(bc.Blocks, 4)
}

func TestBlockCollectorElse(t *testing.T) {
	assert := assert.New(t)

	table := []struct {
		text string
		eax  uint64
	}{
		{"0,?{,1,eax,=,}{,2,eax,=,}", 2},
		{"1,?{,3,eax,=,}{,4,eax,=,}", 3},
		{"0,?{,5,eax,=,1,?{,6,eax,=,},}{,7,eax,=,}", 7},
		{"1,?{,0,?{,8,eax,=,}{,9,eax,=,},}{,10,eax,=,}", 9},
	}

	for _, entry := range table {
		plain, plainRegs, _ := newTestMachine(t, Setup{})
		assert.NoError(plain.Parse(entry.text), entry.text)
		assert.Equal(entry.eax, plainRegs["eax"].value, entry.text)

		bc := &BlockCollector{Execute: true}
		m, regs, _ := newTestMachine(t, Setup{Aggregator: bc})
		assert.NoError(m.Parse(entry.text), entry.text)
		assert.Equal(entry.eax, regs["eax"].value, entry.text)
		assert.Len(bc.Blocks, 1, entry.text)
	}

	bc := &BlockCollector{}
	m, regs, _ := newTestMachine(t, Setup{Aggregator: bc})
	assert.NoError(m.Parse("0,?{,1,eax,=,}{,2,eax,=,}"))
	assert.Equal(uint64(0), regs["eax"].value)
	assert.Equal("1,eax,=,}{,2,eax,=", bc.Blocks[0].Text())

	assert.NoError(bc.Replay(m, 0))
	assert.Equal(uint64(2), regs["eax"].value)
}

func TestBlockCollectorGuardError(t *testing.T) {
	assert := assert.New(t)

	plain, plainRegs, _ := newTestMachine(t, Setup{})
	err := plain.Parse("?{,1,eax,=,},2,ebx,=")
	assert.ErrorIs(err, ErrStackEmpty)
	assert.Equal(uint64(0), plainRegs["eax"].value)
	assert.Equal(uint64(2), plainRegs["ebx"].value)

	bc := &BlockCollector{Execute: true}
	m, regs, _ := newTestMachine(t, Setup{Aggregator: bc})
	err = m.Parse("?{,1,eax,=,},2,ebx,=")
	assert.ErrorIs(err, ErrStackEmpty)
	assert.Equal(uint64(0), regs["eax"].value)
	assert.Equal(uint64(2), regs["ebx"].value)

	assert.Len(bc.Blocks, 1)
	assert.Equal(uint64(0), bc.Blocks[0].Guard)
	assert.Equal("1,eax,=", bc.Blocks[0].Text())
}
