package notify

import (
	"context"

	"github.com/rs/zerolog"
)

// LogSender records notifications in the log instead of delivering them.
// It is the engine's default when no sender is configured, and keeps
// development setups working without a mail relay. Reset references are
// logged in full, so it must not be used where logs are broadly readable.
type LogSender struct {
	logger zerolog.Logger
}

func NewLogSender(logger zerolog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) SendWelcome(_ context.Context, email, name string) error {
	s.logger.Info().Str("email", email).Str("name", name).Msg("welcome notification")
	return nil
}

func (s *LogSender) SendRecovery(_ context.Context, email, resetReference string) error {
	s.logger.Info().Str("email", email).Str("reset_reference", resetReference).Msg("recovery notification")
	return nil
}
