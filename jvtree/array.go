package jvtree

import "github.com/latticevalue/jsontree/jvalue"

// ArraySize returns the number of elements in v. v must be an Array.
func ArraySize(v *jvalue.Value) int {
	mustBeKind(v, jvalue.Array)
	return len(v.Elems)
}

// ArrayCapacity returns the number of elements v's storage can hold
// before the next reserve or implicit growth. v must be an Array.
func ArrayCapacity(v *jvalue.Value) int {
	mustBeKind(v, jvalue.Array)
	return cap(v.Elems)
}

// ArrayGet returns a pointer to the element at index i. v must be an
// Array and i must be in [0, ArraySize(v)); violating either panics.
func ArrayGet(v *jvalue.Value, i int) *jvalue.Value {
	mustBeKind(v, jvalue.Array)
	if i < 0 || i >= len(v.Elems) {
		panic("jvtree: array index out of range")
	}
	return &v.Elems[i]
}

// ArrayReserve grows v's capacity to at least n, reallocating and copying
// explicitly (it never relies on append's opaque growth policy). It is a
// no-op if v already has capacity >= n. v must be an Array.
func ArrayReserve(v *jvalue.Value, n int) {
	mustBeKind(v, jvalue.Array)
	if cap(v.Elems) >= n {
		return
	}
	next := make([]jvalue.Value, len(v.Elems), n)
	copy(next, v.Elems)
	v.Elems = next
}

// ArrayShrink reallocates v's storage down to exactly its current size,
// releasing any spare capacity. v must be an Array.
func ArrayShrink(v *jvalue.Value) {
	mustBeKind(v, jvalue.Array)
	if cap(v.Elems) == len(v.Elems) {
		return
	}
	next := make([]jvalue.Value, len(v.Elems))
	copy(next, v.Elems)
	v.Elems = next
}

// ArrayClear frees every element and empties v, retaining its current
// capacity. v must be an Array.
func ArrayClear(v *jvalue.Value) {
	mustBeKind(v, jvalue.Array)
	for i := range v.Elems {
		v.Elems[i].Free()
	}
	v.Elems = v.Elems[:0]
}

// ArrayPushBack appends elem to the end of v, growing storage per the
// same policy as jvstack (max of 1.5x growth and exact need) when
// capacity is insufficient. v must be an Array.
func ArrayPushBack(v *jvalue.Value, elem jvalue.Value) {
	mustBeKind(v, jvalue.Array)
	if cap(v.Elems)-len(v.Elems) < 1 {
		growArray(v, 1)
	}
	v.Elems = append(v.Elems, elem)
}

// ArrayPopBack removes and returns the last element of v. v must be a
// non-empty Array.
func ArrayPopBack(v *jvalue.Value) jvalue.Value {
	mustBeKind(v, jvalue.Array)
	n := len(v.Elems)
	if n == 0 {
		panic("jvtree: pop back of empty array")
	}
	last := v.Elems[n-1]
	v.Elems[n-1] = jvalue.Value{}
	v.Elems = v.Elems[:n-1]
	return last
}

// ArrayInsert inserts elem at index i, shifting subsequent elements right.
// i must be in [0, ArraySize(v)]; inserting at ArraySize(v) is equivalent
// to ArrayPushBack. v must be an Array.
func ArrayInsert(v *jvalue.Value, i int, elem jvalue.Value) {
	mustBeKind(v, jvalue.Array)
	n := len(v.Elems)
	if i < 0 || i > n {
		panic("jvtree: array insert index out of range")
	}
	if cap(v.Elems)-n < 1 {
		growArray(v, 1)
	}
	v.Elems = append(v.Elems, jvalue.Value{})
	copy(v.Elems[i+1:], v.Elems[i:n])
	v.Elems[i] = elem
}

// ArrayErase removes the count elements starting at index i, shifting
// subsequent elements left, and returns the removed run. i must be in
// [0, ArraySize(v)], count must be >= 0, and i+count must be in
// [0, ArraySize(v)]. v must be an Array.
func ArrayErase(v *jvalue.Value, i, count int) []jvalue.Value {
	mustBeKind(v, jvalue.Array)
	n := len(v.Elems)
	if i < 0 || count < 0 || i+count > n {
		panic("jvtree: array erase range out of bounds")
	}
	removed := make([]jvalue.Value, count)
	copy(removed, v.Elems[i:i+count])
	copy(v.Elems[i:], v.Elems[i+count:])
	for k := n - count; k < n; k++ {
		v.Elems[k] = jvalue.Value{}
	}
	v.Elems = v.Elems[:n-count]
	return removed
}

func growArray(v *jvalue.Value, need int) {
	cur := cap(v.Elems)
	grown := cur + cur/2
	target := cur + need
	if grown > target {
		target = grown
	}
	ArrayReserve(v, target)
}

func mustBeKind(v *jvalue.Value, k jvalue.Kind) {
	if v.Kind != k {
		panic("jvtree: value is " + v.Kind.String() + ", not " + k.String())
	}
}
