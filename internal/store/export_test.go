package store

import (
	"testing"

	"golang.org/x/sys/unix"
)

// HoldExclusiveLock takes the data file lock for path until the test ends.
func HoldExclusiveLock(t *testing.T, path string) {
	t.Helper()

	lock, err := acquireLock(path, unix.LOCK_EX, LockTimeout)
	if err != nil {
		t.Fatalf("acquire exclusive lock: %v", err)
	}

	t.Cleanup(lock.release)
}
