// Package scripts runs the commands a generation run asks for, phase by
// phase. Scripts within a phase run concurrently; the commands of one script
// run in order.
package scripts

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
	"strings"
	"sync"

	"github.com/ariel-frischer/blockcraft/internal/block"
	"github.com/ariel-frischer/blockcraft/internal/progress"
	"github.com/google/shlex"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ExecFunc runs one tokenized command in dir.
type ExecFunc func(ctx context.Context, dir string, args []string, stdout, stderr io.Writer) error

// CommandError reports a command that failed.
type CommandError struct {
	Command string
	Phase   block.Phase
	Err     error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s script %q failed: %v", e.Phase, e.Command, e.Err)
}

func (e *CommandError) Unwrap() error { return e.Err }

// Runner executes scripts in a project directory.
type Runner struct {
	Dir    string
	Stdout io.Writer
	Stderr io.Writer
	Logger *zap.Logger
	// Display reports progress per command. Optional.
	Display *progress.Display
	// Exec defaults to running the command as a child process.
	Exec ExecFunc
	// Parallel caps concurrent scripts per phase. Zero means no limit.
	Parallel int

	mu sync.Mutex
}

// Run executes scripts grouped by phase in ascending order. A failure stops
// the run after the failing phase's other scripts finish.
func (r *Runner) Run(ctx context.Context, scripts []block.Script) error {
	for _, phase := range phases(scripts) {
		if err := r.runPhase(ctx, phase, scripts); err != nil {
			return err
		}
	}
	return nil
}

func phases(scripts []block.Script) []block.Phase {
	seen := make(map[block.Phase]bool)
	var out []block.Phase
	for _, s := range scripts {
		if !seen[s.Phase] {
			seen[s.Phase] = true
			out = append(out, s.Phase)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (r *Runner) runPhase(ctx context.Context, phase block.Phase, scripts []block.Script) error {
	g, ctx := errgroup.WithContext(ctx)
	if r.Parallel > 0 {
		g.SetLimit(r.Parallel)
	}
	for _, s := range scripts {
		if s.Phase != phase {
			continue
		}
		g.Go(func() error {
			for _, command := range s.Commands {
				if err := r.runCommand(ctx, phase, command); err != nil {
					return err
				}
			}
			return nil
		})
	}
	return g.Wait()
}

func (r *Runner) runCommand(ctx context.Context, phase block.Phase, command string) error {
	args, err := shlex.Split(command)
	if err != nil {
		return &CommandError{Command: command, Phase: phase, Err: fmt.Errorf("parsing command: %w", err)}
	}
	if len(args) == 0 {
		return nil
	}

	r.logger().Debug("running script", zap.Stringer("phase", phase), zap.Strings("args", args))
	if r.Display != nil {
		r.Display.Start(command)
	}

	var stdout, stderr bytes.Buffer
	err = r.exec()(ctx, r.Dir, args, &stdout, &stderr)
	r.flush(&stdout, &stderr)

	if err != nil {
		if r.Display != nil {
			r.Display.Fail(command)
		}
		return &CommandError{Command: command, Phase: phase, Err: err}
	}
	if r.Display != nil {
		r.Display.Succeed(command)
	}
	return nil
}

// flush writes a command's captured output in one piece so concurrent
// scripts do not interleave.
func (r *Runner) flush(stdout, stderr *bytes.Buffer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Stdout != nil && stdout.Len() > 0 {
		_, _ = r.Stdout.Write(stdout.Bytes())
	}
	if r.Stderr != nil && stderr.Len() > 0 {
		_, _ = r.Stderr.Write(stderr.Bytes())
	}
}

func (r *Runner) exec() ExecFunc {
	if r.Exec != nil {
		return r.Exec
	}
	return Command
}

func (r *Runner) logger() *zap.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return zap.NewNop()
}

// Command runs args as a child process with the current environment.
func Command(ctx context.Context, dir string, args []string, stdout, stderr io.Writer) error {
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Dir = dir
	cmd.Env = os.Environ()
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	if err := cmd.Run(); err != nil {
		if buf, ok := stderr.(fmt.Stringer); ok {
			if msg := strings.TrimSpace(buf.String()); msg != "" {
				return fmt.Errorf("%w: %s", err, lastLine(msg))
			}
		}
		return err
	}
	return nil
}

func lastLine(s string) string {
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return s
}
