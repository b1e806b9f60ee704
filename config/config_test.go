package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/esil/esil"
)

const profile = `
bits = 32
big-endian = true
pc = "pc"
stats = true
script = "irq.star"

[[register]]
name = "pc"
size = 32

[[register]]
name = "r0"
size = 32

[[register]]
name = "r0l"
size = 16
parent = "r0"

[[memory]]
address = 0x100
data = "deadbeef"
read-only = true
`

const irq = `
def handler(n):
    setreg("r0", n)

interrupts = {5: handler}
`

func TestParse(t *testing.T) {
	assert := assert.New(t)

	c, err := Parse([]byte(profile))
	assert.NoError(err)
	assert.Equal(uint(32), c.Bits)
	assert.True(c.BigEndian)
	assert.Equal(esil.ESIL_GOTO_LIMIT, c.GotoLimit)
	assert.Equal("pc", c.PC)
	assert.Len(c.RegisterDefs, 3)
	assert.Equal(Region{Address: 0x100, Data: "deadbeef", ReadOnly: true}, c.Regions[0])

	c, err = Parse(nil)
	assert.NoError(err)
	assert.Equal(Default(), c)
}

func TestParseErrors(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		text string
		err  error
	}){
		{"bits = 12\n", ErrBits},
		{"pc = \"ip\"\n", ErrPC},
	}

	for _, entry := range table {
		_, err := Parse([]byte(entry.text))
		assert.ErrorIs(err, entry.err, entry.text)
	}

	_, err := Parse([]byte("bits = "))
	assert.Error(err)
}

func TestBackends(t *testing.T) {
	assert := assert.New(t)

	c, err := Parse([]byte(profile))
	assert.NoError(err)

	rf, err := c.Registers()
	assert.NoError(err)
	assert.True(rf.WriteRegister("r0", 0x12345678))
	value, width, ok := rf.ReadRegister("r0l")
	assert.True(ok)
	assert.Equal(uint(16), width)
	assert.Equal(uint64(0x5678), value)

	mem, err := c.Memory()
	assert.NoError(err)
	buf := make([]byte, 4)
	assert.Equal(4, mem.ReadMemory(0x100, buf))
	assert.Equal([]byte{0xde, 0xad, 0xbe, 0xef}, buf)
	assert.Equal(0, mem.WriteMemory(0x100, buf))

	c.Regions = append(c.Regions, Region{Data: "xyz"})
	_, err = c.Memory()
	assert.ErrorIs(err, ErrMemoryData)

	c.RegisterDefs = append(c.RegisterDefs, Register{Name: "r0"})
	_, err = c.Registers()
	assert.Error(err)
}

func TestLoadSetup(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "machine.toml")
	if err := os.WriteFile(path, []byte(profile), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "irq.star"), []byte(irq), 0644); err != nil {
		t.Fatal(err)
	}

	c, err := Load(path)
	assert.NoError(err)
	assert.Equal(dir, c.Dir)

	setup, err := c.Setup()
	assert.NoError(err)
	assert.Equal(uint(32), setup.Bits)
	assert.True(setup.BigEndian)
	assert.True(setup.Stats)
	assert.Equal([]uint64{5}, setup.Interrupts.Numbers())

	m, err := esil.NewMachine(setup)
	assert.NoError(err)
	defer m.Close()

	assert.NoError(m.Parse("0x100,[4],r0,="))
	value, _ := m.ReadRegister("r0")
	assert.Equal(uint64(0xdeadbeef), value)

	assert.NoError(m.Parse("5,$"))
	value, _ = m.ReadRegister("r0")
	assert.Equal(uint64(5), value)
	assert.Equal(2, m.Stats.RegWrite["r0"])
}

func TestLoadMissing(t *testing.T) {
	assert := assert.New(t)

	_, err := Load(filepath.Join(t.TempDir(), "none.toml"))
	var cerr ErrConfig
	assert.ErrorAs(err, &cerr)
	assert.ErrorIs(err, os.ErrNotExist)
}
