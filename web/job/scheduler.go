package job

import (
	"fmt"
	"strings"

	"github.com/proveedores/liquidaciones/logger"

	"github.com/robfig/cron/v3"
)

// cronLogger routes cron's own messages to the panel logger.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...any) {
	logger.Debugf("cron: %s%s", msg, formatKeysAndValues(keysAndValues))
}

func (cronLogger) Error(err error, msg string, keysAndValues ...any) {
	logger.Errorf("cron: %s: %v%s", msg, err, formatKeysAndValues(keysAndValues))
}

func formatKeysAndValues(keysAndValues []any) string {
	var b strings.Builder
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		fmt.Fprintf(&b, " %v=%v", keysAndValues[i], keysAndValues[i+1])
	}
	return b.String()
}

// jobWrappers recover panics and skip a run while the previous one is still
// going, so a slow fetch never overlaps the next tick.
func jobWrappers() []cron.JobWrapper {
	return []cron.JobWrapper{
		cron.Recover(cronLogger{}),
		cron.SkipIfStillRunning(cronLogger{}),
	}
}

// NewScheduler returns the cron used for background jobs.
func NewScheduler() *cron.Cron {
	return cron.New(cron.WithLogger(cronLogger{}), cron.WithChain(jobWrappers()...))
}
