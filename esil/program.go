package esil

import (
	"strings"
)

const (
	ESIL_WORD_LIMIT = 63 // Longest word accepted in an ESIL string.
)

// Word is one comma or semicolon separated token of an ESIL string.
type Word struct {
	Text string
	Op   Op   // Operator for the token, nil for operands.
	Term bool // Set when the word was closed by ';'.
}

// Program is an ESIL string split into words with its operators
// resolved against one OpTable.
type Program struct {
	Text  string
	Words []Word

	ops *OpTable
}

// Compile splits an ESIL string into words and resolves the operator
// of each one.
func (t *OpTable) Compile(text string) (prog *Program, err error) {
	prog = &Program{
		Text: text,
		ops:  t,
	}

	var word strings.Builder
	flush := func(term bool) {
		w := Word{Text: word.String(), Term: term}
		w.Op, _ = t.Lookup(w.Text)
		prog.Words = append(prog.Words, w)
		word.Reset()
	}

	for _, ch := range []byte(text) {
		switch ch {
		case ',':
			flush(false)
		case ';':
			flush(true)
		default:
			if word.Len() >= ESIL_WORD_LIMIT {
				err = ErrWord{Index: len(prog.Words), Word: word.String(), Err: ErrWordTooLong}
				prog = nil
				return
			}
			word.WriteByte(ch)
		}
	}
	if word.Len() > 0 {
		flush(false)
	}

	return
}

// String returns the words of the program joined back together.
func (prog *Program) String() string {
	var text strings.Builder
	for n, w := range prog.Words {
		text.WriteString(w.Text)
		if n < len(prog.Words)-1 {
			if w.Term {
				text.WriteByte(';')
			} else {
				text.WriteByte(',')
			}
		}
	}
	return text.String()
}

// Compile splits an ESIL string against the operators of the machine.
func (m *Machine) Compile(text string) (prog *Program, err error) {
	return m.ops.Compile(text)
}
