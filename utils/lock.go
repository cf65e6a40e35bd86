package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrLocked is returned by LockDir when another run already writes into the
// same directory.
var ErrLocked = errors.New("output directory is locked by another run")

// DirLock is an exclusive, non-blocking lock on an output directory. The lock
// file lives in the OS temp dir so the locked directory itself only receives
// generated images.
type DirLock struct {
	flock *flock.Flock
	dir   string
}

// LockDir acquires the lock for dir or fails with ErrLocked.
func LockDir(dir string) (*DirLock, error) {
	path, err := lockPath(dir)
	if err != nil {
		return nil, err
	}
	fl := flock.New(path)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to try lock on %s: %w", dir, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrLocked, dir)
	}
	return &DirLock{flock: fl, dir: dir}, nil
}

func (l *DirLock) Unlock() error {
	if err := l.flock.Unlock(); err != nil {
		return fmt.Errorf("failed to release lock on %s: %w", l.dir, err)
	}
	return nil
}

func lockPath(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", dir, err)
	}
	sum := sha256.Sum256([]byte(abs))
	return filepath.Join(os.TempDir(), "laymix-"+hex.EncodeToString(sum[:6])+".lock"), nil
}
