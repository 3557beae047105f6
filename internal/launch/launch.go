// Package launch spawns application commands detached from the calling
// process, so a toggled application outlives the CLI invocation that
// started it.
package launch

import (
	"errors"
	"os/exec"
	"strings"
	"syscall"

	"github.com/eraxe/kayland/internal/util"
	"github.com/eraxe/kayland/internal/windows"
)

// Shell launches commands through /bin/sh in a new session. Stdio is
// detached and the child is released immediately; its exit status is never
// observed.
type Shell struct {
	logger *util.Logger
	start  func(cmd *exec.Cmd) (int, error)
}

// NewShell returns a launcher that fork/execs for real.
func NewShell(logger *util.Logger) *Shell {
	return &Shell{logger: logger, start: startDetached}
}

// NewShellWithStarter substitutes the process start step, for tests.
func NewShellWithStarter(logger *util.Logger, start func(cmd *exec.Cmd) (int, error)) *Shell {
	return &Shell{logger: logger, start: start}
}

// Launch starts command and returns the child pid. The error reports spawn
// failure only; a command that starts and then exits non-zero is still a
// successful launch.
func (s *Shell) Launch(command string) (int, error) {
	if strings.TrimSpace(command) == "" {
		return 0, errors.New("empty launch command")
	}
	cmd := exec.Command("/bin/sh", "-c", command)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
	pid, err := s.start(cmd)
	if err != nil {
		return 0, err
	}
	s.logger.Debugf("launched %q pid=%d", command, pid)
	return pid, nil
}

func startDetached(cmd *exec.Cmd) (int, error) {
	if err := cmd.Start(); err != nil {
		return 0, err
	}
	pid := cmd.Process.Pid
	_ = cmd.Process.Release()
	return pid, nil
}

var _ windows.Launcher = (*Shell)(nil)
