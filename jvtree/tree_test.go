package jvtree

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/latticevalue/jsontree/jvalue"
	"github.com/latticevalue/jsontree/jvparse"
)

func parse(t *testing.T, s string) *jvalue.Value {
	t.Helper()
	v, err := jvparse.ParseString(s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return v
}

func TestCopyIsIndependent(t *testing.T) {
	orig := parse(t, `{"a":[1,2,3],"b":"x"}`)
	dup := Copy(orig)

	if diff := cmp.Diff(*orig, dup); diff != "" {
		t.Fatalf("copy differs from original (-orig +copy):\n%s", diff)
	}

	ArrayPushBack(FindValue(orig, "a"), func() jvalue.Value { var v jvalue.Value; v.SetNumber(4); return v }())
	if ArraySize(FindValue(&dup, "a")) != 3 {
		t.Fatalf("copy observed mutation of original: size = %d, want 3", ArraySize(FindValue(&dup, "a")))
	}
}

func TestMoveTransfersAndResetsSource(t *testing.T) {
	src := parse(t, `[1,2,3]`)
	var dst jvalue.Value
	Move(&dst, src)

	if dst.Kind != jvalue.Array || ArraySize(&dst) != 3 {
		t.Fatalf("dst after move = %+v, want a 3-element array", dst)
	}
	if src.Kind != jvalue.Null {
		t.Fatalf("src after move = %v, want Null", src.Kind)
	}
}

func TestMoveOntoSelfIsNoOp(t *testing.T) {
	v := parse(t, `[1,2,3]`)
	Move(v, v)
	if ArraySize(v) != 3 {
		t.Fatalf("self-move lost contents: size = %d, want 3", ArraySize(v))
	}
}

func TestSwapExchangesContents(t *testing.T) {
	a := parse(t, `1`)
	b := parse(t, `"x"`)
	Swap(a, b)

	if a.Kind != jvalue.String || b.Kind != jvalue.Number {
		t.Fatalf("after swap: a.Kind=%v b.Kind=%v", a.Kind, b.Kind)
	}
}

func TestEqualReflexiveSymmetricTransitive(t *testing.T) {
	a := parse(t, `{"a":1,"b":[2,3]}`)
	b := parse(t, `{"a":1,"b":[2,3]}`)
	c := parse(t, `{"a":1,"b":[2,3]}`)

	if !Equal(a, a) {
		t.Error("Equal is not reflexive")
	}
	if !Equal(a, b) || !Equal(b, a) {
		t.Error("Equal is not symmetric")
	}
	if Equal(a, b) && Equal(b, c) && !Equal(a, c) {
		t.Error("Equal is not transitive")
	}
}

func TestEqualObjectIgnoresMemberOrder(t *testing.T) {
	a := parse(t, `{"a":1,"b":2}`)
	b := parse(t, `{"b":2,"a":1}`)
	if !Equal(a, b) {
		t.Error("objects with same members in different order should be equal")
	}
}

func TestEqualDetectsDifference(t *testing.T) {
	a := parse(t, `{"a":1}`)
	b := parse(t, `{"a":2}`)
	if Equal(a, b) {
		t.Error("objects with different values should not be equal")
	}
}

func TestEqualNumberZeroAndNegativeZero(t *testing.T) {
	a := parse(t, `0`)
	b := parse(t, `-0`)
	if !Equal(a, b) {
		t.Error("0 and -0 should compare equal")
	}
}

func TestArrayReserveAndCapacity(t *testing.T) {
	var v jvalue.Value
	v.SetArray(0)
	ArrayReserve(&v, 10)
	if ArrayCapacity(&v) < 10 {
		t.Fatalf("capacity = %d, want >= 10", ArrayCapacity(&v))
	}
	if ArraySize(&v) != 0 {
		t.Fatalf("size = %d, want 0", ArraySize(&v))
	}
}

func TestArrayShrinkDropsSpareCapacity(t *testing.T) {
	var v jvalue.Value
	v.SetArray(10)
	one := jvalue.Value{}
	one.SetNumber(1)
	ArrayPushBack(&v, one)
	ArrayShrink(&v)
	if ArrayCapacity(&v) != 1 {
		t.Fatalf("capacity after shrink = %d, want 1", ArrayCapacity(&v))
	}
}

func TestArrayClearEmptiesButKeepsCapacity(t *testing.T) {
	v := parse(t, `[1,2,3]`)
	cap0 := ArrayCapacity(v)
	ArrayClear(v)
	if ArraySize(v) != 0 {
		t.Fatalf("size after clear = %d, want 0", ArraySize(v))
	}
	if ArrayCapacity(v) < cap0 {
		t.Fatalf("capacity shrank on clear: %d < %d", ArrayCapacity(v), cap0)
	}
}

func TestArrayPushPopBack(t *testing.T) {
	var v jvalue.Value
	v.SetArray(0)
	elem := jvalue.Value{}
	elem.SetNumber(42)
	ArrayPushBack(&v, elem)
	if ArraySize(&v) != 1 {
		t.Fatalf("size = %d, want 1", ArraySize(&v))
	}
	popped := ArrayPopBack(&v)
	n, _ := popped.AsNumber()
	if n != 42 {
		t.Fatalf("popped = %v, want 42", n)
	}
	if ArraySize(&v) != 0 {
		t.Fatalf("size after pop = %d, want 0", ArraySize(&v))
	}
}

func TestArrayInsertAndErase(t *testing.T) {
	v := parse(t, `[1,2,4]`)
	three := jvalue.Value{}
	three.SetNumber(3)
	ArrayInsert(v, 2, three)

	want := parse(t, `[1,2,3,4]`)
	if !Equal(v, want) {
		t.Fatalf("after insert: %s, want %s", v.Debug(), want.Debug())
	}

	removed := ArrayErase(v, 0, 1)
	n, _ := removed[0].AsNumber()
	if n != 1 {
		t.Fatalf("erased = %v, want 1", n)
	}
	want2 := parse(t, `[2,3,4]`)
	if !Equal(v, want2) {
		t.Fatalf("after erase: %s, want %s", v.Debug(), want2.Debug())
	}
}

func TestArrayEraseRange(t *testing.T) {
	v := parse(t, `[1,2,3,4,5]`)
	removed := ArrayErase(v, 1, 3)
	if len(removed) != 3 {
		t.Fatalf("len(removed) = %d, want 3", len(removed))
	}
	want := parse(t, `[1,5]`)
	if !Equal(v, want) {
		t.Fatalf("after erase: %s, want %s", v.Debug(), want.Debug())
	}
}

func TestArrayInsertAtEndEquivalentToPushBack(t *testing.T) {
	v := parse(t, `[1,2]`)
	three := jvalue.Value{}
	three.SetNumber(3)
	ArrayInsert(v, ArraySize(v), three)
	want := parse(t, `[1,2,3]`)
	if !Equal(v, want) {
		t.Fatalf("got %s, want %s", v.Debug(), want.Debug())
	}
}

func TestArrayGetOutOfRangePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic for an out-of-range index")
		}
	}()
	v := parse(t, `[1]`)
	ArrayGet(v, 5)
}

func TestObjectFindAndSetValueIdempotentOnKeys(t *testing.T) {
	v := parse(t, `{"a":1}`)

	two := jvalue.Value{}
	two.SetNumber(2)
	SetValue(v, "a", two)
	if ObjectSize(v) != 1 {
		t.Fatalf("size after overwrite = %d, want 1 (SetValue must not grow on existing key)", ObjectSize(v))
	}
	got, _ := FindValue(v, "a").AsNumber()
	if got != 2 {
		t.Fatalf("value after overwrite = %v, want 2", got)
	}

	three := jvalue.Value{}
	three.SetNumber(3)
	SetValue(v, "b", three)
	if ObjectSize(v) != 2 {
		t.Fatalf("size after insert = %d, want 2", ObjectSize(v))
	}
}

func TestObjectFindIndexMissing(t *testing.T) {
	v := parse(t, `{"a":1}`)
	if FindIndex(v, "missing") != KeyNotFound {
		t.Fatal("expected KeyNotFound for a missing key")
	}
	if FindValue(v, "missing") != nil {
		t.Fatal("expected nil for a missing key")
	}
}

func TestObjectRemoveShiftsMembers(t *testing.T) {
	v := parse(t, `{"a":1,"b":2,"c":3}`)
	ObjectRemove(v, FindIndex(v, "b"))
	want := parse(t, `{"a":1,"c":3}`)
	if !Equal(v, want) {
		t.Fatalf("after remove: %s, want %s", v.Debug(), want.Debug())
	}
	if FindIndex(v, "b") != KeyNotFound {
		t.Fatal("expected key \"b\" to be gone after removal")
	}
}

func TestObjectRemoveTargetsSpecificDuplicateOccurrence(t *testing.T) {
	v := parse(t, `{"a":1,"a":2,"a":3}`)
	ObjectRemove(v, 1)
	if ObjectSize(v) != 2 {
		t.Fatalf("size after remove = %d, want 2", ObjectSize(v))
	}
	first, _ := ObjectValue(v, 0).AsNumber()
	second, _ := ObjectValue(v, 1).AsNumber()
	if first != 1 || second != 3 {
		t.Fatalf("remaining values = %v, %v, want 1, 3", first, second)
	}
}

func TestObjectKeyAndValueByIndex(t *testing.T) {
	v := parse(t, `{"a":1,"b":2}`)
	if ObjectKey(v, 1) != "b" {
		t.Fatalf("ObjectKey(1) = %q, want %q", ObjectKey(v, 1), "b")
	}
	n, _ := ObjectValue(v, 1).AsNumber()
	if n != 2 {
		t.Fatalf("ObjectValue(1) = %v, want 2", n)
	}
}

func TestObjectReserveShrinkClear(t *testing.T) {
	var v jvalue.Value
	v.SetObject(0)
	ObjectReserve(&v, 8)
	if ObjectCapacity(&v) < 8 {
		t.Fatalf("capacity = %d, want >= 8", ObjectCapacity(&v))
	}

	one := jvalue.Value{}
	one.SetNumber(1)
	SetValue(&v, "a", one)
	ObjectShrink(&v)
	if ObjectCapacity(&v) != 1 {
		t.Fatalf("capacity after shrink = %d, want 1", ObjectCapacity(&v))
	}

	ObjectClear(&v)
	if ObjectSize(&v) != 0 {
		t.Fatalf("size after clear = %d, want 0", ObjectSize(&v))
	}
}
