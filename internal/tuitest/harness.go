// Package tuitest drives a terminal program inside a pseudo terminal and
// records what it draws, for end-to-end tests of the TUI.
package tuitest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/creack/pty"
)

const (
	defaultWidth   = 120
	defaultHeight  = 32
	defaultTimeout = 5 * time.Second
	pollInterval   = 25 * time.Millisecond
)

// Step is one scripted interaction. The harness sleeps for Delay, then waits
// until WaitFor appears in the rendered output (when set), then writes Input.
type Step struct {
	Delay   time.Duration
	WaitFor string
	Input   []byte
}

// Config configures how the harness spawns and drives the program.
type Config struct {
	Command          []string
	Dir              string
	Env              []string
	Width            int
	Height           int
	Steps            []Step
	Timeout          time.Duration
	AllowedExitCodes []int
	AllowInterrupt   bool
}

// Recording contains the raw terminal stream plus parsed frames.
type Recording struct {
	Raw      []byte
	Frames   []Frame
	Duration time.Duration
}

// screen collects PTY output while the script is still running.
type screen struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (s *screen) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Write(p)
}

func (s *screen) Bytes() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]byte(nil), s.buf.Bytes()...)
}

func (s *screen) contains(text string) bool {
	return strings.Contains(stripANSI(string(s.Bytes())), text)
}

// Run executes the configured command inside a PTY, replays the script and
// captures every byte written to the terminal.
func Run(ctx context.Context, cfg Config) (*Recording, error) {
	if len(cfg.Command) == 0 {
		return nil, errors.New("tuitest: command is required")
	}
	width, height, timeout := cfg.Width, cfg.Height, cfg.Timeout
	if width <= 0 {
		width = defaultWidth
	}
	if height <= 0 {
		height = defaultHeight
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, cfg.Command[0], cfg.Command[1:]...)
	cmd.Dir = cfg.Dir
	cmd.Env = buildEnv(cfg.Env)

	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{Rows: uint16(height), Cols: uint16(width)})
	if err != nil {
		return nil, fmt.Errorf("tuitest: start program: %w", err)
	}
	defer func() { _ = ptmx.Close() }()

	output := &screen{}
	copyDone := make(chan struct{})
	go func() {
		defer close(copyDone)
		responder := newTerminalResponder(ptmx)
		buf := make([]byte, 4096)
		for {
			n, readErr := ptmx.Read(buf)
			if n > 0 {
				responder.Process(buf[:n])
				_, _ = output.Write(buf[:n])
			}
			if readErr != nil {
				return
			}
		}
	}()

	start := time.Now()
	for i, step := range cfg.Steps {
		if err := runStep(ctx, ptmx, output, step); err != nil {
			return nil, fmt.Errorf("tuitest: step %d: %w", i, err)
		}
	}

	waitErr := make(chan error, 1)
	go func() {
		waitErr <- cmd.Wait()
	}()

	select {
	case err := <-waitErr:
		if err != nil && !exitAllowed(cfg, err) {
			return nil, fmt.Errorf("tuitest: program exited with error: %w", err)
		}
	case <-ctx.Done():
		return nil, fmt.Errorf("tuitest: timeout waiting for program exit: %w", ctx.Err())
	}

	// Closing the PTY lets the reader goroutine finish draining.
	_ = ptmx.Close()
	<-copyDone

	raw := output.Bytes()
	return &Recording{Raw: raw, Frames: parseFrames(raw), Duration: time.Since(start)}, nil
}

func runStep(ctx context.Context, ptmx *os.File, output *screen, step Step) error {
	if step.Delay > 0 {
		select {
		case <-ctx.Done():
			return fmt.Errorf("context cancelled before script finished: %w", ctx.Err())
		case <-time.After(step.Delay):
		}
	}
	if step.WaitFor != "" {
		if err := waitFor(ctx, output, step.WaitFor); err != nil {
			return err
		}
	}
	if len(step.Input) > 0 {
		if _, err := ptmx.Write(step.Input); err != nil {
			return fmt.Errorf("write input: %w", err)
		}
	}
	return nil
}

func waitFor(ctx context.Context, output *screen, text string) error {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for {
		if output.contains(text) {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("waiting for %q: %w", text, ctx.Err())
		case <-ticker.C:
		}
	}
}

func exitAllowed(cfg Config, err error) bool {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		for _, code := range append([]int{0}, cfg.AllowedExitCodes...) {
			if exitErr.ExitCode() == code {
				return true
			}
		}
	}
	return cfg.AllowInterrupt && strings.Contains(err.Error(), "signal: interrupt")
}

func buildEnv(extra []string) []string {
	env := append(os.Environ(), extra...)
	for _, entry := range env {
		if strings.HasPrefix(entry, "TERM=") {
			return env
		}
	}
	return append(env, "TERM=xterm-256color")
}

// Text returns the bytes a user would send by typing s.
func Text(s string) []byte {
	return []byte(s)
}

var (
	// KeyEnter sends a carriage return to the PTY.
	KeyEnter = []byte{'\r'}
	// KeyCtrlC requests the program to terminate.
	KeyCtrlC = []byte{3}
	// KeyCtrlK toggles the key cheatsheet.
	KeyCtrlK = []byte{11}
	// KeyCtrlO opens the path prompt.
	KeyCtrlO = []byte{15}
	// KeyCtrlX clears the file selection.
	KeyCtrlX = []byte{24}
	// KeyEsc exits transient overlays inside the TUI.
	KeyEsc = []byte{27}
)
