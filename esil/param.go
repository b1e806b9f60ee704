package esil

import (
	"strconv"
	"strings"
)

// ESIL_INTERNAL_PREFIX starts a token naming an internal value.
const ESIL_INTERNAL_PREFIX = '%'

// ParamKind is the classification of an operand token.
type ParamKind int

//go:generate go tool stringer -linecomment -type=ParamKind
const (
	PARAM_INVALID  = ParamKind(0) // invalid
	PARAM_NUMBER   = ParamKind(1) // number
	PARAM_REGISTER = ParamKind(2) // register
	PARAM_INTERNAL = ParamKind(3) // internal
)

// Param is a classified stack operand. Numbers carry their value,
// registers and internal values their name.
type Param struct {
	Kind  ParamKind
	Text  string
	Value uint64
}

// Number returns a numeric operand.
func Number(value uint64) Param {
	return Param{Kind: PARAM_NUMBER, Value: value}
}

// String returns the operand as it would appear in an ESIL string.
func (p Param) String() string {
	if p.Kind == PARAM_NUMBER && p.Text == "" {
		return "0x" + strconv.FormatUint(p.Value, 16)
	}
	return p.Text
}

// parseNumber decodes an ESIL numeric literal. Negative decimals wrap
// to their two's complement.
func parseNumber(word string) (value uint64, ok bool) {
	switch {
	case strings.HasPrefix(word, "0x"):
		v, err := strconv.ParseUint(word[2:], 16, 64)
		return v, err == nil
	case len(word) > 1 && word[0] == '-':
		v, err := strconv.ParseInt(word, 10, 64)
		return uint64(v), err == nil
	case len(word) > 0 && word[0] >= '0' && word[0] <= '9':
		v, err := strconv.ParseUint(word, 10, 64)
		return v, err == nil
	}
	return
}

// Classify resolves the kind of a token. Register names are looked up
// in the register backend without going through the hooks.
func (m *Machine) Classify(word string) (p Param) {
	p.Text = word

	if len(word) == 0 {
		return
	}

	if word[0] == ESIL_INTERNAL_PREFIX {
		if len(word) > 1 {
			p.Kind = PARAM_INTERNAL
		}
		return
	}

	if value, ok := parseNumber(word); ok {
		p.Kind = PARAM_NUMBER
		p.Value = value
		return
	}

	if _, ok := m.RegisterWidth(word); ok {
		p.Kind = PARAM_REGISTER
	}

	return
}

// Value resolves an operand in internal, number, register order. An
// invalid operand stops the current string.
func (m *Machine) Value(p Param) (value uint64, err error) {
	switch p.Kind {
	case PARAM_INTERNAL:
		value, err = m.readInternal(p.Text)
	case PARAM_NUMBER:
		value = p.Value
	case PARAM_REGISTER:
		var ok bool
		value, ok = m.ReadRegister(p.Text)
		if !ok {
			err = ErrRegisterRead
		}
	default:
		if m.Verbose {
			log().Debugf("invalid arg (%v)", p.Text)
		}
		m.Stop(STOP_INVALID)
		err = ErrParam(p.Text)
	}

	return
}

// readInternal computes the value of a %x token from the flag stamp.
func (m *Machine) readInternal(word string) (value uint64, err error) {
	if m.Hooks.FlagRead != nil {
		if v, ok := m.Hooks.FlagRead(m, word[1:]); ok {
			return v, nil
		}
	}

	bit := func() uint {
		n, _ := parseNumber(word[2:])
		return uint(n)
	}

	var flag bool
	switch word[1] {
	case '%':
		value = m.Offset
		return
	case 'z':
		flag = m.Flags.Zero()
	case 'b':
		// %bN reports a borrow out of an N bit wide operation.
		flag = m.Flags.Borrow((bit() + 63) & 63)
	case 'c':
		flag = m.Flags.Carry(bit())
	case 'o':
		flag = m.Flags.Overflow()
	case 'p':
		flag = m.Flags.Parity()
	case 'r':
		value = uint64(m.Bits / 8)
		return
	case 's':
		flag = m.Flags.Sign()
	default:
		err = ErrParam(word)
		return
	}

	if flag {
		value = 1
	}
	return
}
