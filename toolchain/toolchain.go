// Package toolchain locates and drives the external tools the
// generator delegates to: pdflatex for typesetting and ImageMagick for
// image conversion. Every run gets a deadline and its combined output
// captured, so a hanging or failing tool surfaces as a readable error
// instead of a stuck build.
package toolchain

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultTimeout bounds a single external tool run. LaTeX runs on a
// large catalog are slow; image conversions never get near this.
const DefaultTimeout = 10 * time.Minute

// maxCapturedOutput bounds how much tool output is kept for error
// reporting.
const maxCapturedOutput = 512 * 1024

// Tool is a resolved external binary.
type Tool struct {
	Name string // the name it was requested under, e.g. "pdflatex"
	Path string // resolved binary location
}

// Toolchain resolves and runs external tools. Construct it with New;
// resolution results are cached.
type Toolchain struct {
	log     *zap.Logger
	timeout time.Duration

	mu    sync.Mutex
	tools map[string]Tool
}

// Option configures a Toolchain.
type Option func(*Toolchain)

// WithLogger sets the logger tool runs are reported to.
func WithLogger(log *zap.Logger) Option {
	return func(tc *Toolchain) {
		if log != nil {
			tc.log = log
		}
	}
}

// WithTimeout overrides the per-run deadline.
func WithTimeout(d time.Duration) Option {
	return func(tc *Toolchain) {
		if d > 0 {
			tc.timeout = d
		}
	}
}

// New creates a Toolchain using functional options.
func New(opts ...Option) *Toolchain {
	tc := &Toolchain{
		log:     zap.NewNop(),
		timeout: DefaultTimeout,
		tools:   make(map[string]Tool),
	}
	for _, opt := range opts {
		opt(tc)
	}
	return tc
}

// Find resolves a tool by name, trying the alternatives in order when
// the primary name is not installed. The result is cached under the
// primary name.
func (tc *Toolchain) Find(name string, alternatives ...string) (Tool, error) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	if tool, ok := tc.tools[name]; ok {
		return tool, nil
	}
	for _, candidate := range append([]string{name}, alternatives...) {
		path, err := exec.LookPath(candidate)
		if err != nil {
			continue
		}
		tool := Tool{Name: candidate, Path: path}
		tc.tools[name] = tool
		tc.log.Debug("tool resolved", zap.String("name", candidate), zap.String("path", path))
		return tool, nil
	}
	if len(alternatives) > 0 {
		return Tool{}, fmt.Errorf("toolchain: none of %s installed", strings.Join(append([]string{name}, alternatives...), ", "))
	}
	return Tool{}, fmt.Errorf("toolchain: %s not installed", name)
}

// Has reports whether a tool is installed without keeping an error.
func (tc *Toolchain) Has(name string, alternatives ...string) bool {
	_, err := tc.Find(name, alternatives...)
	return err == nil
}

// RunResult carries what an external tool run produced.
type RunResult struct {
	Output   string // combined stdout and stderr, bounded
	ExitCode int
	Duration time.Duration
}

// Run executes the tool with the given arguments in dir, under the
// configured deadline. Combined output is captured in the result even
// when the run fails.
func (tc *Toolchain) Run(ctx context.Context, dir string, tool Tool, args ...string) (*RunResult, error) {
	ctx, cancel := context.WithTimeout(ctx, tc.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, tool.Path, args...)
	cmd.Dir = dir
	var buf limitedBuffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf

	tc.log.Debug("running tool",
		zap.String("tool", tool.Name),
		zap.Strings("args", args),
		zap.String("dir", dir))

	start := time.Now()
	err := cmd.Run()
	res := &RunResult{Output: buf.String(), Duration: time.Since(start)}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
		}
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return res, fmt.Errorf("toolchain: %s timed out after %s", tool.Name, tc.timeout)
		}
		return res, fmt.Errorf("toolchain: running %s: %w", tool.Name, err)
	}
	tc.log.Debug("tool finished",
		zap.String("tool", tool.Name),
		zap.Duration("duration", res.Duration))
	return res, nil
}

// ToolStatus is one entry of a Doctor report.
type ToolStatus struct {
	Name  string
	Path  string
	Found bool
}

// Doctor reports which of the required external tools are installed.
func (tc *Toolchain) Doctor() []ToolStatus {
	checks := []struct {
		name string
		alts []string
	}{
		{"pdflatex", nil},
		{"magick", []string{"convert"}},
	}
	statuses := make([]ToolStatus, 0, len(checks))
	for _, c := range checks {
		tool, err := tc.Find(c.name, c.alts...)
		statuses = append(statuses, ToolStatus{
			Name:  c.name,
			Path:  tool.Path,
			Found: err == nil,
		})
	}
	return statuses
}

// limitedBuffer keeps at most maxCapturedOutput bytes and drops the
// rest, so a chatty tool cannot balloon memory.
type limitedBuffer struct {
	data      []byte
	truncated bool
}

func (b *limitedBuffer) Write(p []byte) (int, error) {
	room := maxCapturedOutput - len(b.data)
	if room > 0 {
		if len(p) <= room {
			b.data = append(b.data, p...)
		} else {
			b.data = append(b.data, p[:room]...)
			b.truncated = true
		}
	} else {
		b.truncated = true
	}
	return len(p), nil
}

func (b *limitedBuffer) String() string {
	if b.truncated {
		return string(b.data) + "\n[output truncated]"
	}
	return string(b.data)
}

// tail returns the last few lines of tool output for error messages.
func tail(output string, lines int) string {
	output = strings.TrimRight(output, "\n")
	if output == "" {
		return output
	}
	parts := strings.Split(output, "\n")
	if len(parts) > lines {
		parts = parts[len(parts)-lines:]
	}
	return strings.Join(parts, "\n")
}
