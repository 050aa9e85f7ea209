package features

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"syscall"
)

// ErrTableLocked indicates another run holds the table lock.
var ErrTableLocked = errors.New("feature table is locked by another process")

// TableLock is an exclusive flock(2) on "<table>.lock". The kernel drops it
// when the process exits.
type TableLock struct {
	table string
	path  string
	file  *os.File
}

// NewTableLock creates the lock for the given table path.
func NewTableLock(tablePath string) *TableLock {
	return &TableLock{table: tablePath, path: tablePath + ".lock"}
}

// TryLock acquires the lock without blocking. ErrTableLocked is returned
// when another process holds it.
func (l *TableLock) TryLock() error {
	if l.file != nil {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return fmt.Errorf("failed to create lock directory: %w", err)
	}
	file, err := os.OpenFile(l.path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return fmt.Errorf("failed to open lock file: %w", err)
	}

	if err := syscall.Flock(int(file.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
		_ = file.Close()
		if errors.Is(err, syscall.EWOULDBLOCK) {
			return ErrTableLocked
		}
		return fmt.Errorf("flock failed: %w", err)
	}

	l.file = file
	return nil
}

// Unlock releases the lock. Unlocking an unheld lock is a no-op.
func (l *TableLock) Unlock() error {
	if l.file == nil {
		return nil
	}

	err := syscall.Flock(int(l.file.Fd()), syscall.LOCK_UN)
	closeErr := l.file.Close()
	l.file = nil

	if err != nil {
		return fmt.Errorf("flock unlock failed: %w", err)
	}
	if closeErr != nil {
		return fmt.Errorf("close failed: %w", closeErr)
	}
	return nil
}

// Path returns the lock file path.
func (l *TableLock) Path() string {
	return l.path
}
