// Package jvtree provides structural operations on a jvalue.Value tree:
// deep copy, destructive move, O(1) swap, structural equality, and the
// array/object editing operations (reserve, shrink, clear, insert, erase,
// and the object-only find/set/remove family). Capacity and size are
// tracked the way jvalue.Value already tracks them — cap(Elems)/len(Elems)
// and cap(Members)/len(Members) — rather than through a separate field, so
// these operations reallocate-and-copy explicitly wherever the edit would
// otherwise depend on append's opaque growth behavior.
package jvtree

import (
	"github.com/latticevalue/jsontree/jvalue"
)

// Copy returns a deep, independent copy of v: mutating the result never
// observably affects v, and vice versa.
func Copy(v *jvalue.Value) jvalue.Value {
	out := jvalue.Value{Kind: v.Kind, Num: v.Num, Str: v.Str}
	if v.Elems != nil {
		out.Elems = make([]jvalue.Value, len(v.Elems))
		for i := range v.Elems {
			out.Elems[i] = Copy(&v.Elems[i])
		}
	}
	if v.Members != nil {
		out.Members = make([]jvalue.Member, len(v.Members))
		for i := range v.Members {
			out.Members[i].Key = v.Members[i].Key
			out.Members[i].Value = Copy(&v.Members[i].Value)
		}
	}
	return out
}

// Move frees dst and hands src's contents over to it, leaving src reset
// to Null. It is O(1): no child is copied or walked. Moving a Value into
// itself is a no-op (matches the self-move law a move operation must
// satisfy: moving v onto itself must not lose v's contents).
func Move(dst, src *jvalue.Value) {
	if dst == src {
		return
	}
	dst.Free()
	*dst = *src
	*src = jvalue.Value{}
}

// Swap exchanges the full contents of a and b in O(1): no child is copied
// or walked.
func Swap(a, b *jvalue.Value) {
	if a == b {
		return
	}
	*a, *b = *b, *a
}

// Equal reports whether a and b are structurally equal: same Kind (Null,
// True, and False compare equal only to their own kind), Number compares
// by IEEE-754 equality (so 0 == -0, and NaN != NaN, same as Go's ==),
// String compares byte-for-byte, Array requires the same length and
// pairwise-equal elements in order, and Object requires the same number
// of members and, for every member of a, some member of b with the same
// key and an equal value — independent of member order.
func Equal(a, b *jvalue.Value) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case jvalue.Null, jvalue.True, jvalue.False:
		return true
	case jvalue.Number:
		return a.Num == b.Num
	case jvalue.String:
		return a.Str == b.Str
	case jvalue.Array:
		return equalArrays(a.Elems, b.Elems)
	case jvalue.Object:
		return equalObjects(a.Members, b.Members)
	default:
		return false
	}
}

func equalArrays(a, b []jvalue.Value) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(&a[i], &b[i]) {
			return false
		}
	}
	return true
}

func equalObjects(a, b []jvalue.Member) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		idx := findIndex(b, a[i].Key)
		if idx < 0 {
			return false
		}
		if !Equal(&a[i].Value, &b[idx].Value) {
			return false
		}
	}
	return true
}
