package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/latticevalue/jsontree/jvalue"
	"github.com/latticevalue/jsontree/jvparse"
	"github.com/latticevalue/jsontree/jvser"
	"github.com/latticevalue/jsontree/jvtree"
)

func newGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <path> [file|-]",
		Short: "Parse a JSON document and print the value at a dotted/indexed path",
		Long: `The path is a sequence of object-member names and array indices, e.g.:

  a.b.c        member c of member b of member a
  a.b[0].c     member c of element 0 of member b of member a
  [0][1]       element 1 of element 0 of the root array`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			segments, err := parsePath(args[0])
			if err != nil {
				return err
			}
			data, err := readInput(args[1:], cmd.InOrStdin())
			if err != nil {
				return err
			}
			v, parseErr := jvparse.Parse(data)
			if parseErr != nil {
				return parseErr
			}
			found, err := navigate(v, segments)
			if err != nil {
				return err
			}
			out, serErr := jvser.Stringify(found)
			if serErr != nil {
				return serErr
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
}

// pathSegment is either an object-member access (Key set) or an
// array-index access (IsIndex true).
type pathSegment struct {
	Key     string
	Index   int
	IsIndex bool
}

// parsePath parses a dotted/indexed path like "a.b[0].c" into segments.
func parsePath(path string) ([]pathSegment, error) {
	var segments []pathSegment
	for _, dotPart := range strings.Split(path, ".") {
		if dotPart == "" {
			continue
		}
		rest := dotPart
		for len(rest) > 0 {
			if rest[0] == '[' {
				end := strings.IndexByte(rest, ']')
				if end < 0 {
					return nil, fmt.Errorf("malformed path %q: unterminated '['", path)
				}
				idx, err := strconv.Atoi(rest[1:end])
				if err != nil {
					return nil, fmt.Errorf("malformed path %q: invalid index %q", path, rest[1:end])
				}
				segments = append(segments, pathSegment{Index: idx, IsIndex: true})
				rest = rest[end+1:]
				continue
			}
			end := strings.IndexByte(rest, '[')
			if end < 0 {
				segments = append(segments, pathSegment{Key: rest})
				rest = ""
				continue
			}
			segments = append(segments, pathSegment{Key: rest[:end]})
			rest = rest[end:]
		}
	}
	return segments, nil
}

func navigate(v *jvalue.Value, segments []pathSegment) (*jvalue.Value, error) {
	cur := v
	for i, seg := range segments {
		if seg.IsIndex {
			if cur.Kind != jvalue.Array {
				return nil, fmt.Errorf("path segment %d: expected an array, found %s", i, cur.Kind)
			}
			if seg.Index < 0 || seg.Index >= jvtree.ArraySize(cur) {
				return nil, fmt.Errorf("path segment %d: index %d out of range", i, seg.Index)
			}
			cur = jvtree.ArrayGet(cur, seg.Index)
			continue
		}
		if cur.Kind != jvalue.Object {
			return nil, fmt.Errorf("path segment %d: expected an object, found %s", i, cur.Kind)
		}
		found := jvtree.FindValue(cur, seg.Key)
		if found == nil {
			return nil, fmt.Errorf("path segment %d: key %q not found", i, seg.Key)
		}
		cur = found
	}
	return cur, nil
}
