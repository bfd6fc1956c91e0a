package jvparse

import (
	"bytes"
	"testing"

	"github.com/latticevalue/jsontree/jvser"
)

// FuzzParseStringifyRoundTrip checks that any input the parser accepts can
// be re-serialized and re-parsed without the bytes drifting on a second
// pass: parse -> stringify -> parse -> stringify must agree.
func FuzzParseStringifyRoundTrip(f *testing.F) {
	seeds := [][]byte{
		[]byte(`null`),
		[]byte(`true`),
		[]byte(`false`),
		[]byte(`{"a":1,"z":[3,2,1]}`),
		[]byte(`{"":1,"𐀀":2}`),
		[]byte(`"a\/b"`),
		[]byte(`1e21`),
		[]byte(`-0`),
		[]byte(`{"a":1,"a":2}`),
	}
	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, in []byte) {
		if len(in) > 1<<20 {
			return
		}

		v, err := Parse(in)
		if err != nil {
			return
		}

		out1, serErr := jvser.Stringify(v)
		if serErr != nil {
			t.Fatalf("stringify parsed value: %v", serErr)
		}

		v2, err2 := Parse(out1)
		if err2 != nil {
			t.Fatalf("reparse stringified output %q: %v", out1, err2)
		}
		out2, serErr2 := jvser.Stringify(v2)
		if serErr2 != nil {
			t.Fatalf("restringify: %v", serErr2)
		}
		if !bytes.Equal(out1, out2) {
			t.Fatalf("non-deterministic bytes: %q vs %q", out1, out2)
		}
	})
}
