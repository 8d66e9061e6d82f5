package lock

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

func TestPathFor(t *testing.T) {
	tests := []struct {
		state string
		want  string
	}{
		{"/var/lib/vaultpay/vaultpay.db", "/var/lib/vaultpay/vaultpay.pid"},
		{"state.db", "state.pid"},
		{"/data/.db", "/data/vaultpay.pid"},
	}
	for _, tt := range tests {
		if got := PathFor(tt.state); got != tt.want {
			t.Errorf("PathFor(%q) = %q, want %q", tt.state, got, tt.want)
		}
	}
}

func TestAcquireWritesPID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vaultpay.pid")

	l, err := Acquire(path)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	defer l.Release()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read lock file: %v", err)
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid != os.Getpid() {
		t.Fatalf("lock file pid = %q, want %d", data, os.Getpid())
	}
}

func TestReacquireAfterRelease(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vaultpay.pid")

	l, err := Acquire(path)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if err := l.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}
	// Released handles are safe to release again.
	if err := l.Release(); err != nil {
		t.Fatalf("second Release: %v", err)
	}

	l2, err := Acquire(path)
	if err != nil {
		t.Fatalf("reacquire: %v", err)
	}
	defer l2.Release()
}

func TestAcquireEmptyPath(t *testing.T) {
	if _, err := Acquire(""); err == nil {
		t.Fatal("expected error for empty path")
	}
}
