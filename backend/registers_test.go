package backend

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func x86(t *testing.T) (rf *RegisterFile) {
	rf = NewRegisterFile()
	for _, reg := range []Register{
		{Name: "rax", Size: 64},
		{Name: "eax", Size: 32, Parent: "rax"},
		{Name: "ax", Size: 16, Parent: "eax"},
		{Name: "al", Size: 8, Parent: "ax"},
		{Name: "ah", Size: 8, Parent: "ax", Offset: 8},
		{Name: "zf", Size: 1},
	} {
		if err := rf.Define(reg); err != nil {
			t.Fatal(err)
		}
	}
	return
}

func TestRegisterFile(t *testing.T) {
	assert := assert.New(t)

	rf := x86(t)

	assert.True(rf.WriteRegister("rax", 0x1122334455667788))

	table := [](struct {
		name  string
		value uint64
		width uint
	}){
		{"rax", 0x1122334455667788, 64},
		{"eax", 0x55667788, 32},
		{"ax", 0x7788, 16},
		{"al", 0x88, 8},
		{"ah", 0x77, 8},
		{"zf", 0, 1},
	}

	for _, entry := range table {
		value, width, ok := rf.ReadRegister(entry.name)
		assert.True(ok, entry.name)
		assert.Equal(entry.value, value, entry.name)
		assert.Equal(entry.width, width, entry.name)
	}

	assert.True(rf.WriteRegister("ah", 0x1ff))
	value, _, _ := rf.ReadRegister("rax")
	assert.Equal(uint64(0x112233445566ff88), value)

	assert.True(rf.WriteRegister("zf", 2))
	value, _, _ = rf.ReadRegister("zf")
	assert.Equal(uint64(0), value)

	_, _, ok := rf.ReadRegister("rbx")
	assert.False(ok)
	assert.False(rf.WriteRegister("rbx", 1))

	assert.Equal([]string{"ah", "al", "ax", "eax", "rax", "zf"}, rf.Names())

	rf.Reset()
	value, _, _ = rf.ReadRegister("rax")
	assert.Equal(uint64(0), value)
}

func TestRegisterFileDefine(t *testing.T) {
	assert := assert.New(t)

	rf := x86(t)

	table := [](struct {
		reg Register
		err error
	}){
		{Register{Name: "rax", Size: 64}, ErrRegisterDefined},
		{Register{Name: "", Size: 64}, ErrRegisterDefined},
		{Register{Name: "big", Size: 65}, ErrRegisterSize},
		{Register{Name: "none", Size: 0}, ErrRegisterSize},
		{Register{Name: "bh", Size: 8, Parent: "rbx"}, ErrRegisterParent},
		{Register{Name: "bad", Size: 8, Offset: 3}, ErrRegisterParent},
		{Register{Name: "high", Size: 8, Parent: "ax", Offset: 12}, ErrRegisterSize},
	}

	for _, entry := range table {
		err := rf.Define(entry.reg)
		assert.ErrorIs(err, entry.err, entry.reg.Name)
		var rerr ErrRegister
		assert.ErrorAs(err, &rerr)
		assert.Equal(entry.reg.Name, rerr.Name)
	}
}
