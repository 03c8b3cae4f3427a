package term

import (
	"context"
	"fmt"
	"io"
	"os/exec"
)

// Runner drives the shell process behind an instance. Implementations must be
// safe to call from the service under its lock.
type Runner interface {
	Start(ctx context.Context) error
	Write(text string) error
	Stop() error
}

// RunnerFactory builds a Runner for a launch config. onExit is invoked from a
// background goroutine when the process terminates on its own.
type RunnerFactory func(launch ShellLaunchConfig, onExit func(err error)) Runner

// execRunner runs the shell via os/exec with an input pipe for SendText.
type execRunner struct {
	launch ShellLaunchConfig
	onExit func(err error)
	cancel context.CancelFunc
	stdin  io.WriteCloser
	cmd    *exec.Cmd
}

// NewExecRunner is the default RunnerFactory.
func NewExecRunner(launch ShellLaunchConfig, onExit func(err error)) Runner {
	return &execRunner{launch: launch, onExit: onExit}
}

func (r *execRunner) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	cmd := exec.CommandContext(ctx, r.launch.Executable, r.launch.Args...)
	cmd.Dir = r.launch.Cwd
	stdin, err := cmd.StdinPipe()
	if err != nil {
		cancel()
		return fmt.Errorf("stdin pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		cancel()
		return fmt.Errorf("start %s: %w", r.launch.Executable, err)
	}
	r.cancel = cancel
	r.stdin = stdin
	r.cmd = cmd
	stopped := ctx
	go func() {
		err := cmd.Wait()
		if stopped.Err() != nil {
			// Stopped by the service; not an unexpected exit.
			return
		}
		if r.onExit != nil {
			r.onExit(err)
		}
	}()
	return nil
}

func (r *execRunner) Write(text string) error {
	if r.stdin == nil {
		return ErrNotReady
	}
	if _, err := io.WriteString(r.stdin, text); err != nil {
		return fmt.Errorf("send text: %w", err)
	}
	return nil
}

func (r *execRunner) Stop() error {
	if r.cancel == nil {
		return nil
	}
	r.cancel()
	if r.stdin != nil {
		_ = r.stdin.Close()
	}
	return nil
}
