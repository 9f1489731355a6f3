package daemon

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ErrNotRunning is returned when no live daemon owns the pid file
var ErrNotRunning = errors.New("clipman daemon is not running")

// WritePID records pid, refusing to overwrite the pid of a live process
func WritePID(path string, pid int) error {
	if existing, err := ReadPID(path); err == nil && existing != pid && processAlive(existing) {
		return fmt.Errorf("daemon already running with PID %d", existing)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create pid directory: %w", err)
	}
	return os.WriteFile(path, []byte(strconv.Itoa(pid)), 0644)
}

// ReadPID returns the pid stored at path
func ReadPID(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return 0, fmt.Errorf("invalid PID in file: %q", string(data))
	}
	return pid, nil
}

func RemovePID(path string) {
	os.Remove(path)
}

// Status returns the pid of the running daemon, or ErrNotRunning. Stale pid
// files are removed.
func Status(pidFile string) (int, error) {
	pid, err := ReadPID(pidFile)
	if err != nil {
		return 0, ErrNotRunning
	}
	if !processAlive(pid) {
		RemovePID(pidFile)
		return 0, ErrNotRunning
	}
	return pid, nil
}

// Stop asks the running daemon to shut down
func Stop(pidFile string) (int, error) {
	pid, err := Status(pidFile)
	if err != nil {
		return 0, err
	}
	proc, err := os.FindProcess(pid)
	if err != nil {
		return 0, fmt.Errorf("failed to find process: %w", err)
	}
	if err := terminate(proc); err != nil {
		return 0, fmt.Errorf("failed to stop process %d: %w", pid, err)
	}
	return pid, nil
}
