package jvtree

import "github.com/latticevalue/jsontree/jvalue"

// KeyNotFound is the sentinel index FindIndex returns when no member has
// the requested key.
const KeyNotFound = -1

// ObjectSize returns the number of members in v. v must be an Object.
func ObjectSize(v *jvalue.Value) int {
	mustBeKind(v, jvalue.Object)
	return len(v.Members)
}

// ObjectCapacity returns the number of members v's storage can hold
// before the next reserve or implicit growth. v must be an Object.
func ObjectCapacity(v *jvalue.Value) int {
	mustBeKind(v, jvalue.Object)
	return cap(v.Members)
}

// ObjectReserve grows v's capacity to at least n, reallocating and
// copying explicitly. v must be an Object.
func ObjectReserve(v *jvalue.Value, n int) {
	mustBeKind(v, jvalue.Object)
	if cap(v.Members) >= n {
		return
	}
	next := make([]jvalue.Member, len(v.Members), n)
	copy(next, v.Members)
	v.Members = next
}

// ObjectShrink reallocates v's storage down to exactly its current size.
// v must be an Object.
func ObjectShrink(v *jvalue.Value) {
	mustBeKind(v, jvalue.Object)
	if cap(v.Members) == len(v.Members) {
		return
	}
	next := make([]jvalue.Member, len(v.Members))
	copy(next, v.Members)
	v.Members = next
}

// ObjectClear frees every member's value and empties v, retaining its
// current capacity. v must be an Object.
func ObjectClear(v *jvalue.Value) {
	mustBeKind(v, jvalue.Object)
	for i := range v.Members {
		v.Members[i].Value.Free()
	}
	v.Members = v.Members[:0]
}

// ObjectKey returns the key of the member at index i. v must be an
// Object and i must be in [0, ObjectSize(v)).
func ObjectKey(v *jvalue.Value, i int) string {
	mustBeKind(v, jvalue.Object)
	if i < 0 || i >= len(v.Members) {
		panic("jvtree: object member index out of range")
	}
	return v.Members[i].Key
}

// ObjectValue returns a pointer to the value of the member at index i.
// v must be an Object and i must be in [0, ObjectSize(v)).
func ObjectValue(v *jvalue.Value, i int) *jvalue.Value {
	mustBeKind(v, jvalue.Object)
	if i < 0 || i >= len(v.Members) {
		panic("jvtree: object member index out of range")
	}
	return &v.Members[i].Value
}

// FindIndex returns the index of the first member with the given key, or
// KeyNotFound. Lookup is a linear scan over Members in storage order: the
// library never builds a hash index over object keys, matching its
// "members are few, order matters more than lookup speed" design.
func FindIndex(v *jvalue.Value, key string) int {
	mustBeKind(v, jvalue.Object)
	return findIndex(v.Members, key)
}

func findIndex(members []jvalue.Member, key string) int {
	for i := range members {
		if members[i].Key == key {
			return i
		}
	}
	return KeyNotFound
}

// FindValue returns a pointer to the value of the first member with the
// given key, or nil if no such member exists.
func FindValue(v *jvalue.Value, key string) *jvalue.Value {
	idx := FindIndex(v, key)
	if idx == KeyNotFound {
		return nil
	}
	return &v.Members[idx].Value
}

// SetValue installs val under key, overwriting the existing member's
// value in place if key is already present (idempotent on the key set:
// repeated SetValue calls with the same key never grow the member list),
// or appending a new member if it is not. It returns a pointer to the
// stored value. v must be an Object.
func SetValue(v *jvalue.Value, key string, val jvalue.Value) *jvalue.Value {
	mustBeKind(v, jvalue.Object)
	if idx := findIndex(v.Members, key); idx != KeyNotFound {
		v.Members[idx].Value.Free()
		v.Members[idx].Value = val
		return &v.Members[idx].Value
	}
	if cap(v.Members)-len(v.Members) < 1 {
		growObject(v, 1)
	}
	v.Members = append(v.Members, jvalue.Member{Key: key, Value: val})
	return &v.Members[len(v.Members)-1].Value
}

// ObjectRemove deletes the member at index i, shifting subsequent members
// left. i must be in [0, ObjectSize(v)). v must be an Object. Removing by
// index, rather than by key, lets a caller delete a specific occurrence of
// a duplicated key (obtained via FindIndex or iteration) without disturbing
// the others.
func ObjectRemove(v *jvalue.Value, i int) {
	mustBeKind(v, jvalue.Object)
	n := len(v.Members)
	if i < 0 || i >= n {
		panic("jvtree: object remove index out of range")
	}
	v.Members[i].Value.Free()
	copy(v.Members[i:], v.Members[i+1:])
	v.Members[n-1] = jvalue.Member{}
	v.Members = v.Members[:n-1]
}

func growObject(v *jvalue.Value, need int) {
	cur := cap(v.Members)
	grown := cur + cur/2
	target := cur + need
	if grown > target {
		target = grown
	}
	ObjectReserve(v, target)
}
