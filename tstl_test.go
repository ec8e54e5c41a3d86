package tstl

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestRun(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("test drives cat; skipping on windows")
	}

	path := filepath.Join(t.TempDir(), "echo.tstl")
	content := ">>> hello\n!>>\n<<< hello\n!<<\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	result, err := Run(path, []string{"cat"})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if !result.Passed {
		t.Errorf("Passed = false, diagnostics: %v", result.Diagnostics)
	}
}

func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "one.tstl")
	if err := os.WriteFile(path, []byte(">>> x\n"), 0644); err != nil {
		t.Fatal(err)
	}

	src, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer src.Close()

	if !src.Scan() {
		t.Fatalf("Scan = false, err: %v", src.Err())
	}
	if d := src.Directive(); d.Kind != KindInput || d.Text != "x\n" {
		t.Errorf("unexpected directive: %+v", d)
	}
}
