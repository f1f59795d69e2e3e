package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sys/unix"
)

// LockTimeout is the default bound on how long [Update] and [View] wait for
// the data file lock. See [WithLockTimeout].
const LockTimeout = 2 * time.Second

const (
	dirPerms  = 0o750
	filePerms = 0o644

	minBackoff = time.Millisecond
	maxBackoff = 25 * time.Millisecond
)

// fileLock is an advisory flock(2) held on a dedicated lock file next to
// the data file. The lock file is never removed, so every process locks the
// same inode.
type fileLock struct {
	file *os.File
}

// lockPath returns the lock file for a data file: ".<name>.lock" in the
// same directory.
func lockPath(path string) string {
	return filepath.Join(filepath.Dir(path), "."+filepath.Base(path)+".lock")
}

// acquireLock takes an exclusive (how == unix.LOCK_EX) or shared
// (unix.LOCK_SH) lock for the data file at path, polling with backoff until
// timeout. It returns a nil lock and no error when a shared lock is
// requested and the directory does not exist: there is nothing to read yet.
func acquireLock(path string, how int, timeout time.Duration) (*fileLock, error) {
	lp := lockPath(path)

	if how == unix.LOCK_EX {
		err := os.MkdirAll(filepath.Dir(lp), dirPerms)
		if err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
	}

	file, err := os.OpenFile(lp, os.O_CREATE|os.O_RDWR, filePerms)
	if err != nil {
		if how == unix.LOCK_SH && errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}

		return nil, fmt.Errorf("opening lock file: %w", err)
	}

	fd := int(file.Fd())
	deadline := time.Now().Add(timeout)
	backoff := minBackoff

	for {
		err = unix.Flock(fd, how|unix.LOCK_NB)
		if err == nil {
			return &fileLock{file: file}, nil
		}

		if !errors.Is(err, unix.EWOULDBLOCK) && !errors.Is(err, unix.EINTR) {
			_ = file.Close()

			return nil, fmt.Errorf("flock: %w", err)
		}

		if time.Now().After(deadline) {
			_ = file.Close()

			return nil, fmt.Errorf("%w: %s", ErrLockTimeout, path)
		}

		time.Sleep(backoff)

		backoff = min(backoff*2, maxBackoff)
	}
}

// release unlocks and closes the lock file. It is safe on a nil lock.
func (l *fileLock) release() {
	if l == nil || l.file == nil {
		return
	}

	_ = unix.Flock(int(l.file.Fd()), unix.LOCK_UN)
	_ = l.file.Close()
	l.file = nil
}
