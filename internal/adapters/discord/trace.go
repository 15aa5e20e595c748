package discord

import (
	"time"

	"github.com/rs/zerolog"
)

func step(log zerolog.Logger, label string) func() {
	start := time.Now()
	return func() { log.Debug().Str("step", label).Dur("took", time.Since(start)).Msg("trace") }
}
