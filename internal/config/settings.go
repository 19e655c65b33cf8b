// Package config provides the immutable settings value and its layered loading.
package config

import (
	"strings"
	"time"
)

// Fallback values applied by Normalize.
const (
	DefaultProgram     = "gh"
	DefaultBranch      = "main"
	DefaultTimeout     = 30 * time.Second
	DefaultDrainGrace  = time.Second
	DefaultCommitLimit = 10
	DefaultSearchLimit = 30
	DefaultListLimit   = 30
)

// Settings is passed by value into the catalog and executor; nothing mutates
// it after construction.
type Settings struct {
	// Program is the CLI binary (name resolved via PATH, or an absolute path).
	Program string
	// DefaultBranch is used when an operation needs a branch and none was given.
	DefaultBranch string
	// Timeout bounds each external command.
	Timeout time.Duration
	// DrainGrace bounds output draining after the command exits.
	DrainGrace time.Duration
	// CommitLimit is the default number of commits returned by commit history.
	CommitLimit int
	// SearchLimit is the default number of search results.
	SearchLimit int
	// ListLimit is the default number of results for release and run listings.
	ListLimit int
}

// Defaults returns settings with every fallback applied.
func Defaults() Settings {
	return Settings{}.Normalize()
}

// Normalize replaces unset or invalid fields with their fallbacks.
func (s Settings) Normalize() Settings {
	if strings.TrimSpace(s.Program) == "" {
		s.Program = DefaultProgram
	}
	if strings.TrimSpace(s.DefaultBranch) == "" {
		s.DefaultBranch = DefaultBranch
	}
	if s.Timeout <= 0 {
		s.Timeout = DefaultTimeout
	}
	if s.DrainGrace <= 0 {
		s.DrainGrace = DefaultDrainGrace
	}
	if s.CommitLimit <= 0 {
		s.CommitLimit = DefaultCommitLimit
	}
	if s.SearchLimit <= 0 {
		s.SearchLimit = DefaultSearchLimit
	}
	if s.ListLimit <= 0 {
		s.ListLimit = DefaultListLimit
	}
	return s
}
