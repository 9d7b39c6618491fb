package platform

import (
	"fmt"
	"os"
	"os/exec"
	"sync/atomic"
)

// Package-level hooks for testing.
var (
	executable   = os.Executable
	startProcess = func(cmd *exec.Cmd) error { return cmd.Start() }
)

// Process controls the lifetime of the running application.
type Process struct {
	quit     func()
	exitCode atomic.Int32
}

// NewProcess creates a process controller. quit asks the desktop framework
// to shut down; main exits with ExitCode once it has.
func NewProcess(quit func()) *Process {
	return &Process{quit: quit}
}

// Exit records the exit code and shuts the application down.
func (p *Process) Exit(code int) {
	p.exitCode.Store(int32(code))
	p.quit()
}

// ExitCode returns the code requested by the last Exit call.
func (p *Process) ExitCode() int {
	return int(p.exitCode.Load())
}

// Relaunch starts a fresh copy of the executable with the same arguments
// and shuts this one down.
func (p *Process) Relaunch() error {
	exe, err := executable()
	if err != nil {
		return fmt.Errorf("locate executable: %w", err)
	}
	cmd := exec.Command(exe, os.Args[1:]...)
	cmd.Env = os.Environ()
	if err := startProcess(cmd); err != nil {
		return fmt.Errorf("start %s: %w", exe, err)
	}
	if cmd.Process != nil {
		_ = cmd.Process.Release()
	}
	p.Exit(0)
	return nil
}
