package process

import (
	"errors"
	"fmt"
)

// ExitFailed is the exit code reported when the process could not be launched,
// timed out, or was interrupted.
const ExitFailed = -1

// Kind classifies an unsuccessful invocation.
type Kind string

const (
	KindLaunch      Kind = "launch_failure"
	KindTimeout     Kind = "timeout"
	KindInterrupted Kind = "interrupted"
	KindNonZeroExit Kind = "non_zero_exit"
)

// Sentinels for errors.Is matching against an *Error's kind.
var (
	ErrLaunch      = errors.New("launch failure")
	ErrTimeout     = errors.New("command timed out")
	ErrInterrupted = errors.New("command interrupted")
	ErrNonZeroExit = errors.New("non-zero exit")
)

// Error describes why an invocation failed.
type Error struct {
	Kind     Kind
	ExitCode int
	Err      error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: exit status %d", e.Kind, e.ExitCode)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for this error's kind.
func (e *Error) Is(target error) bool {
	switch e.Kind {
	case KindLaunch:
		return target == ErrLaunch
	case KindTimeout:
		return target == ErrTimeout
	case KindInterrupted:
		return target == ErrInterrupted
	case KindNonZeroExit:
		return target == ErrNonZeroExit
	}
	return false
}

// Result is the outcome of one invocation. It is a plain value and carries
// no reference to the process that produced it.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int

	// Err classifies the failure; nil when ExitCode is 0.
	Err error
}

// Success reports whether the process exited with status 0.
func (r Result) Success() bool {
	return r.ExitCode == 0
}

// Output returns stdout on success and an "Error: "-prefixed message otherwise.
// The message is stderr, falling back to the failure itself when stderr is empty.
func (r Result) Output() string {
	if r.Success() {
		return r.Stdout
	}
	msg := r.Stderr
	if msg == "" && r.Err != nil {
		msg = r.Err.Error()
	}
	return "Error: " + msg
}

// Kind returns the failure kind, or "" for a successful result.
func (r Result) Kind() Kind {
	var perr *Error
	if errors.As(r.Err, &perr) {
		return perr.Kind
	}
	return ""
}

// failed builds a result for a run that produced no usable output.
func failed(kind Kind, message string, cause error) Result {
	return Result{
		Stderr:   message,
		ExitCode: ExitFailed,
		Err:      &Error{Kind: kind, ExitCode: ExitFailed, Err: cause},
	}
}
