package store

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/natefinch/atomic"
	"golang.org/x/sys/unix"
)

// LoadFile reads the data file at path into a new store. A missing file is
// an empty store; it is created on the first [SaveFile].
func LoadFile(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Store{}, nil
		}

		return nil, &IOError{Op: "load", Err: err}
	}

	defer func() { _ = f.Close() }()

	s := &Store{}

	err = s.LoadFrom(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return s, nil
}

// SaveFile writes s to path. The file is replaced atomically: readers see
// either the old contents or the new ones, never a partial write.
func SaveFile(path string, s *Store) error {
	var buf bytes.Buffer

	err := s.SaveTo(&buf)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	err = os.MkdirAll(filepath.Dir(path), dirPerms)
	if err != nil {
		return &IOError{Op: "write", Err: err}
	}

	err = atomic.WriteFile(path, &buf)
	if err != nil {
		return fmt.Errorf("%s: %w", path, &IOError{Op: "write", Err: err})
	}

	return nil
}

// Option configures [Update] and [View].
type Option func(*fileOptions)

type fileOptions struct {
	lockTimeout time.Duration
}

// WithLockTimeout sets how long to wait for the data file lock.
// The default is [LockTimeout].
func WithLockTimeout(d time.Duration) Option {
	return func(o *fileOptions) {
		o.lockTimeout = d
	}
}

func applyOptions(opts []Option) fileOptions {
	o := fileOptions{lockTimeout: LockTimeout}
	for _, opt := range opts {
		opt(&o)
	}

	return o
}

// Update loads the data file under an exclusive lock, runs fn on the store
// and saves the result. Nothing is written if fn returns an error.
func Update(path string, fn func(s *Store) error, opts ...Option) error {
	o := applyOptions(opts)

	lock, err := acquireLock(path, unix.LOCK_EX, o.lockTimeout)
	if err != nil {
		return fmt.Errorf("acquiring lock: %w", err)
	}

	defer lock.release()

	s, err := LoadFile(path)
	if err != nil {
		return err
	}

	err = fn(s)
	if err != nil {
		return err
	}

	return SaveFile(path, s)
}

// View loads the data file under a shared lock and runs fn on the store.
// Changes fn makes to the store are discarded.
func View(path string, fn func(s *Store) error, opts ...Option) error {
	o := applyOptions(opts)

	lock, err := acquireLock(path, unix.LOCK_SH, o.lockTimeout)
	if err != nil {
		return fmt.Errorf("acquiring lock: %w", err)
	}

	defer lock.release()

	s, err := LoadFile(path)
	if err != nil {
		return err
	}

	return fn(s)
}
