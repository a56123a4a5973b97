package math3d

// Stack is a hierarchy of coordinate systems. The top matrix maps the
// current local frame to world space.
//
// A Stack built with NewStack always holds at least one matrix. The zero
// value behaves as an empty stack whose Peek is the identity.
type Stack struct {
	frames []Mat4
}

// NewStack returns a stack holding only the identity.
func NewStack() *Stack {
	return &Stack{frames: []Mat4{Identity()}}
}

// Peek returns the top matrix, or the identity if the stack is empty.
func (s *Stack) Peek() Mat4 {
	if len(s.frames) == 0 {
		return Identity()
	}
	return s.frames[len(s.frames)-1]
}

// Push duplicates the top matrix.
func (s *Stack) Push() {
	s.frames = append(s.frames, s.Peek())
}

// Pop discards the top matrix. The last remaining matrix is never removed.
func (s *Stack) Pop() {
	if len(s.frames) > 1 {
		s.frames = s.frames[:len(s.frames)-1]
	}
}

// Apply composes delta onto the top: top = top · delta.
// Subsequent geometry is transformed by delta first and then by the
// enclosing frames.
func (s *Stack) Apply(delta Mat4) {
	if len(s.frames) == 0 {
		s.frames = append(s.frames, Identity())
	}
	top := len(s.frames) - 1
	s.frames[top] = s.frames[top].Mul(delta)
}

// Depth returns the number of frames on the stack.
func (s *Stack) Depth() int {
	return len(s.frames)
}

// Reset restores the stack to the single identity frame.
func (s *Stack) Reset() {
	s.frames = append(s.frames[:0], Identity())
}
