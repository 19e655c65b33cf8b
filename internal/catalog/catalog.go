// Package catalog runs named operations: validate, build, execute, project.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/opencode-ai/gh-mcp/internal/config"
	"github.com/opencode-ai/gh-mcp/internal/ghcli"
	"github.com/opencode-ai/gh-mcp/internal/process"
)

// Runner executes the configured program with the given arguments.
// *process.Executor satisfies it.
type Runner interface {
	Run(ctx context.Context, args ...string) process.Result
}

// ErrUnknownOperation matches *UnknownOperationError.
var ErrUnknownOperation = errors.New("unknown operation")

// UnknownOperationError is returned for a name outside the catalog.
type UnknownOperationError struct {
	Name       string
	Suggestion string
}

func (e *UnknownOperationError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("Unknown operation '%s', did you mean '%s'?", e.Name, e.Suggestion)
	}
	return fmt.Sprintf("Unknown operation '%s'", e.Name)
}

func (e *UnknownOperationError) Is(target error) bool {
	return target == ErrUnknownOperation
}

// Catalog dispatches operations to a Runner. Safe for concurrent use.
type Catalog struct {
	settings config.Settings
	runner   Runner
	logger   zerolog.Logger
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithLogger sets the logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Catalog) {
		c.logger = logger
	}
}

// New creates a catalog. settings is normalized and kept by value.
func New(settings config.Settings, runner Runner, opts ...Option) *Catalog {
	c := &Catalog{
		settings: settings.Normalize(),
		runner:   runner,
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewDefault creates a catalog backed by a process executor built from settings.
func NewDefault(settings config.Settings, opts ...process.Option) *Catalog {
	settings = settings.Normalize()
	opts = append([]process.Option{
		process.WithTimeout(settings.Timeout),
		process.WithDrainGrace(settings.DrainGrace),
	}, opts...)
	return New(settings, process.NewExecutor(settings.Program, opts...))
}

// Settings returns the settings the catalog was built with.
func (c *Catalog) Settings() config.Settings {
	return c.settings
}

// Operations returns every operation, sorted by name.
func (c *Catalog) Operations() []*ghcli.Operation {
	return ghcli.All()
}

// Execute validates args, builds each step and runs it. A failing step ends
// the sequence and its result is returned. Validation and lookup failures are
// returned as errors before any process is started.
func (c *Catalog) Execute(ctx context.Context, name string, args ghcli.Args) (process.Result, error) {
	op, ok := ghcli.Lookup(name)
	if !ok {
		return process.Result{}, &UnknownOperationError{Name: name, Suggestion: Suggest(name)}
	}
	if args == nil {
		args = ghcli.Args{}
	}
	if err := op.Validate(args); err != nil {
		c.logger.Debug().Str("operation", op.Name).Err(err).Msg("rejected arguments")
		return process.Result{}, err
	}

	var (
		res  process.Result
		prev string
	)
	for i, step := range op.Steps {
		res = c.runner.Run(ctx, step(args, c.settings, prev)...)
		if !res.Success() {
			c.logger.Debug().
				Str("operation", op.Name).
				Int("step", i+1).
				Str("kind", string(res.Kind())).
				Msg("operation failed")
			return res, nil
		}
		prev = strings.TrimSpace(res.Stdout)
	}
	return res, nil
}

// Invoke runs an operation and returns its output, or an "Error: "-prefixed
// message for any failure.
func (c *Catalog) Invoke(ctx context.Context, name string, args ghcli.Args) string {
	res, err := c.Execute(ctx, name, args)
	if err != nil {
		return "Error: " + err.Error()
	}
	return res.Output()
}
