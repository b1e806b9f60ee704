package esil

import (
	"errors"
	"strings"
)

// StopReason tells why a string stopped early.
type StopReason int

//go:generate go tool stringer -linecomment -type=StopReason
const (
	STOP_NONE    = StopReason(0) // none
	STOP_BREAK   = StopReason(1) // break
	STOP_TODO    = StopReason(2) // todo
	STOP_INVALID = StopReason(3) // invalid
)

// ControlKind is the flow request of a word. Higher kinds take
// priority when a word makes more than one request.
type ControlKind int

const (
	CONTROL_CONTINUE = ControlKind(iota)
	CONTROL_STOP
	CONTROL_GOTO
	CONTROL_REPEAT
)

// Control is the flow request produced by one word.
type Control struct {
	Kind   ControlKind
	Target uint64     // Word index of a CONTROL_GOTO.
	Reason StopReason // Reason of a CONTROL_STOP.
}

func (m *Machine) request(ctl Control) {
	if ctl.Kind >= m.ctl.Kind {
		m.ctl = ctl
	}
}

// Stop ends the current string after the running word. Hooks may call
// it to pre-empt an evaluation.
func (m *Machine) Stop(reason StopReason) {
	m.request(Control{Kind: CONTROL_STOP, Reason: reason})
}

// Goto continues the current string at the given word index.
func (m *Machine) Goto(word uint64) {
	m.request(Control{Kind: CONTROL_GOTO, Target: word})
}

// Repeat restarts the current string from its first word with fresh
// control state. The word budget is not refilled.
func (m *Machine) Repeat() {
	m.request(Control{Kind: CONTROL_REPEAT})
}

// Parse evaluates one ESIL string.
//
// It returns nil when the string ran to its end or hit BREAK, ErrTodo
// for TODO, an ErrTrap when a trap was raised and ErrWord errors for
// words that failed without stopping the string. On any error the
// stack is left empty.
func (m *Machine) Parse(text string) (err error) {
	prog, err := m.Compile(text)
	if err != nil {
		log().Warningf("invalid esil string: %v", err)
		m.Stack.Reset()
		m.SetTrap(TRAP_INTERNAL, TRAP_CODE_WORD)
		err = errors.Join(m.Trapped(), err)
		return
	}

	return m.Run(prog)
}

// Run evaluates a compiled ESIL string.
func (m *Machine) Run(prog *Program) (err error) {
	if !m.Stack.Empty() {
		log().Warningf("stack leak: %d entries left by a previous evaluation", m.Stack.Len())
		m.Stack.Reset()
	}
	m.Trap = TRAP_NONE
	m.TrapCode = 0
	m.budget = m.GotoLimit

	if m.Aggregator != nil {
		m.Aggregator.Begin(m)
	}

	stop, errs := m.exec(prog)

	switch {
	case m.Trap != TRAP_NONE:
		errs = append([]error{m.Trapped()}, errs...)
	case stop == STOP_TODO:
		errs = append([]error{ErrTodo}, errs...)
	}

	m.skip = 0
	m.ctl = Control{}

	err = errors.Join(errs...)
	if err != nil {
		m.Stack.Reset()
	}
	return
}

// exec runs the words of a program until the end, a stop, or a trap.
func (m *Machine) exec(prog *Program) (stop StopReason, errs []error) {
	for {
		m.skip = 0
		m.ctl = Control{}

		repeat := false
		for pc := 0; pc < len(prog.Words) && !repeat; {
			w := prog.Words[pc]
			ctl, err := m.step(prog, w)
			if err != nil {
				err = ErrWord{Index: pc, Word: w.Text, Err: err}
				log().Warningf("%v", err)
				errs = append(errs, err)
			}

			if m.Trap != TRAP_NONE {
				return
			}

			switch ctl.Kind {
			case CONTROL_REPEAT:
				repeat = true
				continue
			case CONTROL_GOTO:
				if ctl.Target >= uint64(len(prog.Words)) {
					log().Warningf("cannot find word %d", ctl.Target)
					m.SetTrap(TRAP_INTERNAL, TRAP_CODE_GOTO)
					errs = append(errs, ErrWord{Index: pc, Word: w.Text, Err: ErrGotoTarget})
					return
				}
				pc = int(ctl.Target)
				continue
			case CONTROL_STOP:
				stop = ctl.Reason
				if stop == STOP_TODO {
					log().Warningf("ESIL TODO: %v", prog.Text)
				}
				return
			}

			if w.Term {
				return
			}
			pc++
		}

		if !repeat {
			return
		}
	}
}

// step runs a single word and returns its control request.
func (m *Machine) step(prog *Program, w Word) (ctl Control, err error) {
	if len(w.Text) == 0 {
		return
	}

	if m.budget <= 0 {
		log().Warningf("ESIL infinite loop detected")
		m.SetTrap(TRAP_INTERNAL, TRAP_CODE_LOOP)
		err = ErrInfiniteLoop
		return
	}
	m.budget--

	m.ctl = Control{}
	defer func() {
		ctl = m.ctl
		m.ctl = Control{}
	}()

	if m.Aggregator != nil && m.skip == 0 {
		var handled bool
		handled, err = m.Aggregator.Aggregate(m, w)
		if handled {
			return
		}
	}

	switch w.Text {
	case "}{":
		if m.skip <= 1 {
			m.skip = 1 - m.skip
		}
		return
	case "}":
		if m.skip > 0 {
			m.skip--
		}
		return
	case "?{":
		if m.skip > 0 {
			m.skip++
			return
		}
	}

	if m.skip > 0 {
		return
	}

	op := w.Op
	if prog.ops != m.ops {
		op, _ = m.ops.Lookup(w.Text)
	}

	if op != nil {
		if m.Hooks.Command != nil && m.Hooks.Command(m, w.Text) {
			return
		}
		err = op(m)
		return
	}

	err = m.push(m.Classify(w.Text))
	return
}

// Condition evaluates a string and reports whether the value it leaves
// on top of the stack is non-zero.
func (m *Machine) Condition(text string) (result bool, err error) {
	err = m.Parse(strings.TrimLeft(text, " "))
	if err != nil {
		return
	}

	p, ok := m.Stack.Pop()
	if !ok {
		log().Warningf("ESIL stack is empty")
		err = ErrNoCondition
		return
	}

	value, err := m.Value(p)
	m.Stack.Reset()
	if err != nil {
		return
	}

	result = value != 0
	return
}
