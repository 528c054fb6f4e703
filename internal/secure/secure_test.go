package secure

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func Test_RandomBytes_ReturnsDistinctValues_When_CalledTwice(t *testing.T) {
	t.Parallel()

	a := RandomBytes(32)
	b := RandomBytes(32)

	if string(a) == string(b) {
		t.Fatal("two calls produced identical bytes")
	}
}

func Test_ShredFile_RemovesFile_When_ItExists(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "secret")
	if err := os.WriteFile(path, []byte("sensitive content"), 0o600); err != nil {
		t.Fatal(err)
	}

	if err := ShredFile(path); err != nil {
		t.Fatalf("ShredFile: %v", err)
	}

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected file to be removed, stat err = %v", err)
	}
}

func Test_ShredFile_ReturnsNil_When_FileDoesNotExist(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "missing")

	if err := ShredFile(path); err != nil {
		t.Fatalf("ShredFile on missing file: %v", err)
	}
}

func Test_SetRandomLastModified_SetsTimeInThePast_When_Called(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "f")
	if err := os.WriteFile(path, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	before := time.Now()

	if err := SetRandomLastModified(path); err != nil {
		t.Fatalf("SetRandomLastModified: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}

	if info.ModTime().After(before) {
		t.Fatalf("mtime %s should not be after %s", info.ModTime(), before)
	}
}
