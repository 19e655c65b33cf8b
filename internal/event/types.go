package event

import "time"

// CommandStartedData is the data for command.started events.
type CommandStartedData struct {
	ID      string   `json:"id"`
	Program string   `json:"program"`
	Args    []string `json:"args"`
}

// CommandFinishedData is the data for command.finished events.
// Kind is empty for a successful run.
type CommandFinishedData struct {
	ID          string        `json:"id"`
	Program     string        `json:"program"`
	Args        []string      `json:"args"`
	ExitCode    int           `json:"exitCode"`
	Kind        string        `json:"kind,omitempty"`
	Duration    time.Duration `json:"duration"`
	StdoutBytes int           `json:"stdoutBytes"`
	StderrBytes int           `json:"stderrBytes"`
}
