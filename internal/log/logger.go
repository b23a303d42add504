package log

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New builds the root logger. Development gets colorized console output at
// debug level; production drops color and raises the floor to info.
func New(environment string) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
		NoColor:    environment == "production",
	}

	level := zerolog.DebugLevel
	if environment == "production" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	return zerolog.New(output).With().
		Timestamp().
		Str("service", "workdesk-api").
		Str("env", environment).
		Logger()
}
