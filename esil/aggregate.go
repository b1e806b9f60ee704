package esil

import (
	"errors"
	"strings"
)

// Aggregator is consulted before every word evaluated outside a false
// block. A handled word is not dispatched.
type Aggregator interface {
	// Begin is called when a new string starts.
	Begin(m *Machine)
	// Aggregate offers a word to the aggregator.
	Aggregate(m *Machine, w Word) (handled bool, err error)
}

// Block is a conditional body buffered by a BlockCollector.
type Block struct {
	Address uint64   // Offset of the instruction the block belongs to.
	Guard   uint64   // Value of the guard when the block was opened.
	Words   []string // Body words, without the enclosing "?{" and "}".
	Ops     int      // Number of operator words in the body.
}

// Text returns the body as an ESIL string.
func (b Block) Text() string {
	return strings.Join(b.Words, ",")
}

// guarded returns the body wrapped in a conditional on the recorded
// guard, so a "}{" in the body selects the else branch.
func (b Block) guarded() string {
	guard := "0"
	if b.Guard != 0 {
		guard = "1"
	}
	return guard + ",?{," + b.Text() + ",}"
}

// BlockCollector buffers every top level "?{ ... }" body instead of
// evaluating it in place. With Execute set the body is evaluated as a
// sub-string once it is complete.
type BlockCollector struct {
	Execute bool
	Blocks  []Block

	depth     int
	block     Block
	replaying bool
}

var _ Aggregator = (*BlockCollector)(nil)

// Begin drops a block left open by the previous string.
func (bc *BlockCollector) Begin(m *Machine) {
	if bc.depth > 0 {
		log().Warningf("unterminated conditional block at 0x%x dropped", bc.block.Address)
	}
	bc.depth = 0
	bc.block = Block{}
}

// Aggregate implements Aggregator.
func (bc *BlockCollector) Aggregate(m *Machine, w Word) (handled bool, err error) {
	if bc.replaying {
		return
	}

	if bc.depth == 0 {
		if w.Text != "?{" {
			return
		}
		handled = true
		var guard uint64
		// A guard that cannot be read opens a false block.
		_, guard, err = m.popValue()
		if err != nil {
			guard = 0
		}
		bc.depth = 1
		bc.block = Block{Address: m.Offset, Guard: guard}
		return
	}

	handled = true
	switch w.Text {
	case "?{":
		bc.depth++
	case "}":
		bc.depth--
		if bc.depth == 0 {
			return handled, bc.flush(m)
		}
	}

	bc.block.Words = append(bc.block.Words, w.Text)
	if w.Op != nil {
		bc.block.Ops++
	}
	return
}

// flush records the completed block, evaluating it when Execute is set.
func (bc *BlockCollector) flush(m *Machine) (err error) {
	block := bc.block
	bc.block = Block{}
	bc.Blocks = append(bc.Blocks, block)

	if !bc.Execute {
		return
	}
	return bc.run(m, block)
}

// Replay evaluates a recorded block as a string of its own.
func (bc *BlockCollector) Replay(m *Machine, index int) (err error) {
	if index < 0 || index >= len(bc.Blocks) {
		err = ErrGotoTarget
		return
	}

	block := bc.Blocks[index]
	if len(block.Words) == 0 {
		return
	}

	prog, err := m.Compile(block.guarded())
	if err != nil {
		return
	}

	bc.replaying = true
	defer func() { bc.replaying = false }()

	return m.Run(prog)
}

// Reset forgets every recorded block.
func (bc *BlockCollector) Reset() {
	bc.Blocks = nil
	bc.depth = 0
	bc.block = Block{}
}

func (bc *BlockCollector) run(m *Machine, block Block) (err error) {
	if len(block.Words) == 0 {
		return
	}

	prog, err := m.Compile(block.guarded())
	if err != nil {
		return
	}

	bc.replaying = true
	defer func() { bc.replaying = false }()

	stop, errs := m.exec(prog)
	m.skip = 0
	if stop != STOP_NONE {
		m.Stop(stop)
	}
	return errors.Join(errs...)
}
