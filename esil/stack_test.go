package esil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStack(t *testing.T) {
	assert := assert.New(t)

	s := &Stack{}
	assert.True(s.Empty())

	_, ok := s.Pop()
	assert.False(ok)
	assert.True(s.Empty())

	for _, word := range []string{"1", "eax", "%z", "0xffffffffffffffff"} {
		p := Param{Text: word}
		assert.NoError(s.Push(p))
		top, ok := s.Pop()
		assert.True(ok)
		assert.Equal(p, top)
	}
	assert.True(s.Empty())
}

func TestStackFull(t *testing.T) {
	assert := assert.New(t)

	s := &Stack{}
	for n := range STACK_LIMIT - 1 {
		assert.False(s.Full())
		assert.NoError(s.Push(Number(uint64(n))))
	}
	assert.True(s.Full())
	assert.ErrorIs(s.Push(Number(99)), ErrStackFull)
	assert.Equal(STACK_LIMIT-1, s.Len())

	top, ok := s.Peek()
	assert.True(ok)
	assert.Equal(Number(STACK_LIMIT-2), top)

	for n := STACK_LIMIT - 2; n >= 0; n-- {
		p, ok := s.Pop()
		assert.True(ok)
		assert.Equal(uint64(n), p.Value)
	}

	s.Push(Number(1))
	s.Reset()
	assert.True(s.Empty())
}
