package event

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"
)

// RunAudit logs one line per finished command read from the watermill
// command.finished topic. It returns when ctx is done or the bus is closed.
func RunAudit(ctx context.Context, bus *Bus, logger zerolog.Logger) error {
	msgs, err := bus.Messages(ctx, CommandFinished)
	if err != nil {
		return err
	}

	for msg := range msgs {
		var e struct {
			Data CommandFinishedData `json:"data"`
		}
		if err := json.Unmarshal(msg.Payload, &e); err != nil {
			logger.Warn().Err(err).Str("message_id", msg.UUID).Msg("malformed audit message")
			msg.Ack()
			continue
		}

		ev := logger.Info()
		if e.Data.Kind != "" {
			ev = logger.Warn().Str("kind", e.Data.Kind)
		}
		ev.Str("id", e.Data.ID).
			Str("program", e.Data.Program).
			Strs("args", e.Data.Args).
			Int("exit_code", e.Data.ExitCode).
			Dur("duration", e.Data.Duration).
			Int("stdout_bytes", e.Data.StdoutBytes).
			Int("stderr_bytes", e.Data.StderrBytes).
			Msg("command finished")
		msg.Ack()
	}
	return nil
}
