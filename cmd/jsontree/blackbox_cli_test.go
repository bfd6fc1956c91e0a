package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"
)

var (
	buildBlackboxOnce sync.Once
	blackboxBin       string
	errBlackboxBuild  error
)

func repoRoot(t *testing.T) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("resolve caller")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "../.."))
}

func blackboxBinary(t *testing.T) string {
	t.Helper()
	root := repoRoot(t)
	buildBlackboxOnce.Do(func() {
		dir, err := os.MkdirTemp("", "jsontree-blackbox-*")
		if err != nil {
			errBlackboxBuild = err
			return
		}
		blackboxBin = filepath.Join(dir, "jsontree")

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		cmd := exec.CommandContext(
			ctx,
			"go", "build", "-trimpath", "-buildvcs=false", "-o", blackboxBin, "./cmd/jsontree",
		)
		cmd.Dir = root
		cmd.Env = append(os.Environ(), "CGO_ENABLED=0")
		errBlackboxBuild = cmd.Run()
	})
	if errBlackboxBuild != nil {
		t.Fatalf("build blackbox binary: %v", errBlackboxBuild)
	}
	return blackboxBin
}

func runBlackbox(t *testing.T, args []string, stdin []byte) (int, []byte, []byte) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, blackboxBinary(t), args...)
	cmd.Stdin = bytes.NewReader(stdin)
	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	if err == nil {
		return 0, stdout.Bytes(), stderr.Bytes()
	}
	var ee *exec.ExitError
	if errors.As(err, &ee) {
		return ee.ExitCode(), stdout.Bytes(), stderr.Bytes()
	}
	t.Fatalf("run blackbox: %v", err)
	return 0, nil, nil
}

func TestBlackboxFormatRemovesWhitespace(t *testing.T) {
	code, stdout, stderr := runBlackbox(t, []string{"format", "-"}, []byte(`{ "a" : 1 }`))
	if code != 0 {
		t.Fatalf("expected exit 0, got %d stderr=%q", code, string(stderr))
	}
	if string(stdout) != `{"a":1}` {
		t.Fatalf("got %q", string(stdout))
	}
}

func TestBlackboxFormatRejectsInvalidJSON(t *testing.T) {
	code, _, stderr := runBlackbox(t, []string{"format", "-"}, []byte(`{`))
	if code == 0 {
		t.Fatalf("expected a nonzero exit code, stderr=%q", string(stderr))
	}
	if len(stderr) == 0 {
		t.Fatal("expected a diagnostic on stderr")
	}
}

func TestBlackboxGetNavigatesNestedPath(t *testing.T) {
	code, stdout, stderr := runBlackbox(t, []string{"get", "a.b[1]", "-"}, []byte(`{"a":{"b":[10,20,30]}}`))
	if code != 0 {
		t.Fatalf("expected exit 0, got %d stderr=%q", code, string(stderr))
	}
	if string(stdout) != "20" {
		t.Fatalf("got %q", string(stdout))
	}
}

func TestBlackboxGetReportsMissingKey(t *testing.T) {
	code, _, stderr := runBlackbox(t, []string{"get", "missing", "-"}, []byte(`{"a":1}`))
	if code == 0 {
		t.Fatal("expected a nonzero exit code")
	}
	if !bytes.Contains(stderr, []byte("not found")) {
		t.Fatalf("unexpected stderr: %q", string(stderr))
	}
}

func TestBlackboxTopLevelHelpExitZero(t *testing.T) {
	code, _, stderr := runBlackbox(t, []string{"--help"}, nil)
	if code != 0 {
		t.Fatalf("expected exit 0, got %d stderr=%q", code, string(stderr))
	}
}
