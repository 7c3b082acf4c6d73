// Package capture buffers template output in nested frames. A frame is opened
// with Push and closed with Pop; writes always land in the innermost open
// frame, and popping a frame makes the previous one current again.
package capture

import (
	"bytes"
)

// Stack is a LIFO of output buffers. The zero value is ready to use. A Stack
// is owned by a single render and is not safe for concurrent use.
type Stack struct {
	frames []*bytes.Buffer
}

// Push opens a new frame on top of the stack.
func (s *Stack) Push() {
	s.frames = append(s.frames, &bytes.Buffer{})
}

// Pop closes the innermost frame and returns everything written to it. Popping
// an empty stack returns an empty string.
func (s *Stack) Pop() string {
	if len(s.frames) == 0 {
		return ""
	}
	last := len(s.frames) - 1
	top := s.frames[last]
	s.frames[last] = nil
	s.frames = s.frames[:last]
	return top.String()
}

// Depth reports the number of open frames.
func (s *Stack) Depth() int {
	return len(s.frames)
}

// Write appends p to the innermost frame. Writes with no open frame are
// discarded.
func (s *Stack) Write(p []byte) (int, error) {
	if len(s.frames) == 0 {
		return len(p), nil
	}
	return s.frames[len(s.frames)-1].Write(p)
}

// WriteString appends str to the innermost frame.
func (s *Stack) WriteString(str string) (int, error) {
	if len(s.frames) == 0 {
		return len(str), nil
	}
	return s.frames[len(s.frames)-1].WriteString(str)
}
