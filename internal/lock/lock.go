package lock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mitchellh/go-ps"

	"github.com/oshokin/office-controller/internal/config"
)

// Lock is a held facility lock.
type Lock struct {
	path string
	pid  int
}

var (
	// ErrLocked is returned when a live process already holds the facility.
	ErrLocked = errors.New("facility is locked by another process")

	errInvalidFacility = errors.New("invalid facility name")
)

const lockExtension = ".lock"

// Acquire takes the lock for facility inside dir.
func Acquire(dir, facility string) (*Lock, error) {
	facility = strings.ToLower(strings.TrimSpace(facility))
	if facility == "" || facility == "." || facility == ".." || strings.ContainsAny(facility, `/\`) {
		return nil, fmt.Errorf("%w: %q", errInvalidFacility, facility)
	}

	l := &Lock{
		path: filepath.Join(filepath.Clean(dir), facility+lockExtension),
		pid:  os.Getpid(),
	}

	// One retry after clearing a stale file.
	for range 2 {
		err := l.create()
		if err == nil {
			return l, nil
		}

		if !errors.Is(err, os.ErrExist) {
			return nil, err
		}

		if err = l.checkOwner(); err != nil {
			return nil, err
		}

		if err = os.Remove(l.path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("remove stale lock: %w", err)
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrLocked, l.path)
}

// Path returns the lock file location.
func (l *Lock) Path() string {
	return l.path
}

// Release removes the lock file if this process still owns it.
func (l *Lock) Release() error {
	if l == nil {
		return nil
	}

	pid, err := readPID(l.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}

		return err
	}

	if pid != l.pid {
		return nil
	}

	if err = os.Remove(l.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove lock: %w", err)
	}

	return nil
}

func (l *Lock) create() error {
	file, err := os.OpenFile(l.path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, config.DefaultFilePermissions)
	if err != nil {
		return err
	}

	if _, err = file.WriteString(strconv.Itoa(l.pid)); err != nil {
		_ = file.Close()
		_ = os.Remove(l.path)

		return fmt.Errorf("write lock: %w", err)
	}

	if err = file.Close(); err != nil {
		return fmt.Errorf("close lock: %w", err)
	}

	return nil
}

// checkOwner returns ErrLocked when the recorded owner is still running.
// An unreadable or malformed file counts as stale.
func (l *Lock) checkOwner() error {
	pid, err := readPID(l.path)
	if err != nil {
		return nil //nolint:nilerr // Unreadable lock files are replaced.
	}

	process, err := ps.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("inspect lock owner: %w", err)
	}

	if process == nil {
		return nil
	}

	return fmt.Errorf("%w: held by %s (pid %d)", ErrLocked, process.Executable(), pid)
}

func readPID(path string) (int, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(contents)))
	if err != nil || pid <= 0 {
		return 0, fmt.Errorf("malformed lock file %s", path)
	}

	return pid, nil
}
