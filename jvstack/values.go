package jvstack

import "github.com/latticevalue/jsontree/jvalue"

// ValueStack stages parsed array elements before the parser transfers them
// into a fresh, exact-size allocation. It exists so a deeply nested
// document can amortize growth the same way the byte Buffer does, instead
// of letting each nesting level's slice grow independently.
type ValueStack struct {
	data []jvalue.Value
}

// NewValueStack returns a ValueStack with the given initial capacity.
func NewValueStack(initialCapacity int) *ValueStack {
	if initialCapacity <= 0 {
		return &ValueStack{}
	}
	return &ValueStack{data: make([]jvalue.Value, 0, initialCapacity)}
}

// Len returns the number of staged values.
func (s *ValueStack) Len() int { return len(s.data) }

// Push stages one value at the top.
func (s *ValueStack) Push(v jvalue.Value) {
	s.growBy(1)
	s.data = append(s.data, v)
}

// Pop removes and returns n values from the top, oldest first — i.e. the
// order they were pushed in, suitable for copying straight into an Array's
// final storage.
func (s *ValueStack) Pop(n int) []jvalue.Value {
	if n > len(s.data) {
		panic("jvstack: pop exceeds value stack length")
	}
	top := len(s.data) - n
	region := make([]jvalue.Value, n)
	copy(region, s.data[top:])
	s.data = s.data[:top]
	return region
}

func (s *ValueStack) growBy(n int) {
	if cap(s.data)-len(s.data) >= n {
		return
	}
	cur := cap(s.data)
	grown := cur + cur/2
	target := cur + n
	if grown > target {
		target = grown
	}
	next := make([]jvalue.Value, len(s.data), target)
	copy(next, s.data)
	s.data = next
}

// MemberStack stages parsed object members before the parser transfers
// them into a fresh, exact-size allocation.
type MemberStack struct {
	data []jvalue.Member
}

// NewMemberStack returns a MemberStack with the given initial capacity.
func NewMemberStack(initialCapacity int) *MemberStack {
	if initialCapacity <= 0 {
		return &MemberStack{}
	}
	return &MemberStack{data: make([]jvalue.Member, 0, initialCapacity)}
}

// Len returns the number of staged members.
func (s *MemberStack) Len() int { return len(s.data) }

// Push stages one member at the top.
func (s *MemberStack) Push(m jvalue.Member) {
	s.growBy(1)
	s.data = append(s.data, m)
}

// Pop removes and returns n members from the top, oldest first.
func (s *MemberStack) Pop(n int) []jvalue.Member {
	if n > len(s.data) {
		panic("jvstack: pop exceeds member stack length")
	}
	top := len(s.data) - n
	region := make([]jvalue.Member, n)
	copy(region, s.data[top:])
	s.data = s.data[:top]
	return region
}

func (s *MemberStack) growBy(n int) {
	if cap(s.data)-len(s.data) >= n {
		return
	}
	cur := cap(s.data)
	grown := cur + cur/2
	target := cur + n
	if grown > target {
		target = grown
	}
	next := make([]jvalue.Member, len(s.data), target)
	copy(next, s.data)
	s.data = next
}
