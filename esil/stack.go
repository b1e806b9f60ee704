package esil

const (
	STACK_LIMIT = 32 // Internal stack limit; one slot is kept free.
)

// Stack is the bounded operand stack.
type Stack struct {
	Data []Param
}

// Push appends an operand, or fails with ErrStackFull leaving earlier
// entries untouched.
func (s *Stack) Push(p Param) (err error) {
	if s.Full() {
		err = ErrStackFull
		return
	}
	s.Data = append(s.Data, p)
	return
}

// Pop removes the most recently pushed operand.
func (s *Stack) Pop() (p Param, ok bool) {
	p, ok = s.Peek()
	if ok {
		s.Data[len(s.Data)-1] = Param{}
		s.Data = s.Data[:len(s.Data)-1]
	}
	return
}

func (s *Stack) Empty() bool {
	return len(s.Data) == 0
}

func (s *Stack) Full() bool {
	return len(s.Data) >= STACK_LIMIT-1
}

func (s *Stack) Len() int {
	return len(s.Data)
}

func (s *Stack) Peek() (p Param, ok bool) {
	if s.Empty() {
		return
	}

	return s.Data[len(s.Data)-1], true
}

// Reset discards every entry.
func (s *Stack) Reset() {
	if len(s.Data) > 0 {
		clear(s.Data)
		s.Data = s.Data[:0]
	}
}
