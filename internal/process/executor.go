// Package process runs an external program with a discrete argument vector,
// drains both output streams concurrently and bounds the run with a timeout.
package process

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"mvdan.cc/sh/v3/syntax"

	"github.com/opencode-ai/gh-mcp/internal/event"
)

const (
	DefaultTimeout    = 30 * time.Second
	DefaultDrainGrace = time.Second
)

// Executor spawns one child process per Run. It holds no per-run state and is
// safe for concurrent use.
type Executor struct {
	program string
	timeout time.Duration
	grace   time.Duration
	dir     string
	env     []string
	logger  zerolog.Logger
	bus     *event.Bus
}

// Option configures an Executor.
type Option func(*Executor)

// WithTimeout bounds each run, measured from launch. Non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(e *Executor) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// WithDrainGrace bounds how long output readers are awaited after the process exits.
func WithDrainGrace(d time.Duration) Option {
	return func(e *Executor) {
		if d > 0 {
			e.grace = d
		}
	}
}

// WithDir sets the child's working directory.
func WithDir(dir string) Option {
	return func(e *Executor) {
		e.dir = dir
	}
}

// WithEnv appends KEY=VALUE entries to the inherited environment.
func WithEnv(env ...string) Option {
	return func(e *Executor) {
		e.env = append(e.env, env...)
	}
}

// WithLogger sets the logger used for per-run diagnostics.
func WithLogger(logger zerolog.Logger) Option {
	return func(e *Executor) {
		e.logger = logger
	}
}

// WithBus publishes command.started and command.finished events for every run.
func WithBus(bus *event.Bus) Option {
	return func(e *Executor) {
		e.bus = bus
	}
}

// NewExecutor creates an executor for program.
func NewExecutor(program string, opts ...Option) *Executor {
	e := &Executor{
		program: program,
		timeout: DefaultTimeout,
		grace:   DefaultDrainGrace,
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Program returns the executable this executor launches.
func (e *Executor) Program() string { return e.program }

// Timeout returns the per-run wall-clock bound.
func (e *Executor) Timeout() time.Duration { return e.timeout }

// Run launches the program with args and blocks until it exits, the timeout
// fires, or ctx is cancelled. Every outcome is reported as a Result.
func (e *Executor) Run(ctx context.Context, args ...string) Result {
	id := ulid.Make().String()
	argv := append([]string(nil), args...)
	log := e.logger.With().Str("id", id).Logger()

	log.Debug().Str("command", CommandLine(e.program, argv)).Msg("running command")
	e.publish(event.CommandStarted, event.CommandStartedData{
		ID:      id,
		Program: e.program,
		Args:    argv,
	})

	start := time.Now()
	res := e.run(ctx, argv)
	elapsed := time.Since(start)

	logEvent := log.Debug()
	if !res.Success() {
		logEvent = log.Warn().Str("kind", string(res.Kind())).Str("stderr", res.Stderr)
	}
	logEvent.Int("exit", res.ExitCode).Dur("duration", elapsed).Msg("command finished")

	e.publish(event.CommandFinished, event.CommandFinishedData{
		ID:          id,
		Program:     e.program,
		Args:        argv,
		ExitCode:    res.ExitCode,
		Kind:        string(res.Kind()),
		Duration:    elapsed,
		StdoutBytes: len(res.Stdout),
		StderrBytes: len(res.Stderr),
	})

	return res
}

type waitResult struct {
	state *os.ProcessState
	err   error
}

func (e *Executor) run(ctx context.Context, args []string) Result {
	if err := ctx.Err(); err != nil {
		return interrupted(err)
	}

	cmd := exec.Command(e.program, args...)
	cmd.Dir = e.dir
	if len(e.env) > 0 {
		cmd.Env = append(os.Environ(), e.env...)
	}
	setProcessGroup(cmd)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return launchFailure(err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		stdout.Close()
		return launchFailure(err)
	}

	if err := cmd.Start(); err != nil {
		return launchFailure(err)
	}

	timer := time.NewTimer(e.timeout)
	defer timer.Stop()

	// The two buffers are written only by their own drain goroutine and read
	// only after drains.Wait has returned.
	var outBuf, errBuf strings.Builder
	var drains errgroup.Group
	drains.Go(func() error { return drain(stdout, &outBuf) })
	drains.Go(func() error { return drain(stderr, &errBuf) })

	closePipes := func() {
		stdout.Close()
		stderr.Close()
	}

	// Process.Wait reaps the child without closing the read ends, so the
	// drains keep reading until EOF or until closePipes is called.
	exited := make(chan waitResult, 1)
	go func() {
		state, err := cmd.Process.Wait()
		exited <- waitResult{state: state, err: err}
	}()

	abort := func() {
		if err := killTree(cmd.Process); err != nil {
			e.logger.Debug().Err(err).Int("pid", cmd.Process.Pid).Msg("kill failed")
		}
		<-exited
		closePipes()
		_ = drains.Wait()
	}

	var w waitResult
	select {
	case w = <-exited:
	case <-timer.C:
		abort()
		return failed(KindTimeout,
			fmt.Sprintf("Command timed out after %s", e.timeout),
			fmt.Errorf("%w after %s", ErrTimeout, e.timeout))
	case <-ctx.Done():
		abort()
		return interrupted(ctx.Err())
	}

	joined := make(chan error, 1)
	go func() { joined <- drains.Wait() }()

	grace := time.NewTimer(e.grace)
	select {
	case <-joined:
	case <-grace.C:
		// A descendant still holds the pipes open; stop reading.
		closePipes()
		<-joined
	}
	grace.Stop()
	closePipes()

	if w.err != nil {
		return launchFailure(w.err)
	}

	res := Result{
		Stdout:   trimTrailing(outBuf.String()),
		Stderr:   trimTrailing(errBuf.String()),
		ExitCode: w.state.ExitCode(),
	}
	if res.ExitCode != 0 {
		res.Err = &Error{Kind: KindNonZeroExit, ExitCode: res.ExitCode}
	}
	return res
}

// drain copies r into buf one line at a time, normalizing line endings to "\n".
func drain(r io.Reader, buf *strings.Builder) error {
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		if len(line) > 0 {
			line = strings.TrimSuffix(line, "\n")
			line = strings.TrimSuffix(line, "\r")
			buf.WriteString(line)
			buf.WriteByte('\n')
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
}

func trimTrailing(s string) string {
	return strings.TrimRightFunc(s, unicode.IsSpace)
}

func launchFailure(err error) Result {
	return failed(KindLaunch, fmt.Sprintf("Failed to execute command - %v", err), err)
}

func interrupted(err error) Result {
	return failed(KindInterrupted, fmt.Sprintf("Command execution interrupted - %v", err), err)
}

func (e *Executor) publish(eventType event.EventType, data any) {
	if e.bus == nil {
		return
	}
	e.bus.PublishSync(event.Event{Type: eventType, Data: data})
}

// CommandLine renders program and args as a copy-pasteable shell command.
func CommandLine(program string, args []string) string {
	parts := make([]string, 0, len(args)+1)
	for _, s := range append([]string{program}, args...) {
		q, err := syntax.Quote(s, syntax.LangBash)
		if err != nil {
			q = strconv.Quote(s)
		}
		parts = append(parts, q)
	}
	return strings.Join(parts, " ")
}
