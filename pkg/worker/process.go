package worker

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"sync"
)

// Process is a running predictor subprocess.
type Process struct {
	*Conn

	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout io.ReadCloser
	stderr *bytes.Buffer

	closeOnce sync.Once
}

// Start launches `python -u script args...`. The script must speak the
// length-prefixed protocol on stdin/stdout and log only to stderr.
func Start(ctx context.Context, python, script string, args ...string) (*Process, error) {
	cmd := exec.CommandContext(ctx, python, append([]string{"-u", script}, args...)...)
	stderr := &bytes.Buffer{}
	cmd.Stderr = stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		stdin.Close()
		return nil, fmt.Errorf("stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		stdin.Close()
		return nil, fmt.Errorf("start %s: %w", script, err)
	}

	return &Process{
		Conn:   NewConn(stdout, stdin),
		cmd:    cmd,
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
	}, nil
}

// Stderr returns what the worker logged. Only call it after Close.
func (p *Process) Stderr() string {
	return p.stderr.String()
}

// Close closes stdin so the worker exits, then waits for it.
func (p *Process) Close() error {
	var err error
	p.closeOnce.Do(func() {
		p.stdin.Close()
		err = p.cmd.Wait()
	})
	return err
}
