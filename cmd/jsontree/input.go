package main

import (
	"fmt"
	"io"
	"os"
)

// maxInputSize bounds how much a single invocation will read, the same
// way the library's own parser bounds nesting depth: a limit sized for
// denial-of-service resistance, not for any document this tool would
// plausibly be asked to format.
const maxInputSize = 64 * 1024 * 1024

func readInput(args []string, stdin io.Reader) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		return readBounded(stdin)
	}
	f, err := os.Open(args[0])
	if err != nil {
		return nil, fmt.Errorf("read file %q: %w", args[0], err)
	}
	defer func() { _ = f.Close() }()
	return readBounded(f)
}

func readBounded(r io.Reader) ([]byte, error) {
	lr := io.LimitReader(r, maxInputSize+1)
	data, err := io.ReadAll(lr)
	if err != nil {
		return nil, fmt.Errorf("read input stream: %w", err)
	}
	if len(data) > maxInputSize {
		return nil, fmt.Errorf("input exceeds maximum size %d bytes", maxInputSize)
	}
	return data, nil
}
