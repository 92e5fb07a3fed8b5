package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// logTimeFormat prints time of day with centiseconds, e.g. "14:32:01.45".
const logTimeFormat = "15:04:05.00"

func newLogger(w io.Writer, level log.Level) *log.Logger {
	return newLoggerWith(w, log.Options{Level: level})
}

// newLoggerWith builds a timestamped logger from opts. The server passes
// its configured formatter through here.
func newLoggerWith(w io.Writer, opts log.Options) *log.Logger {
	opts.ReportTimestamp = true
	if opts.TimeFormat == "" {
		opts.TimeFormat = logTimeFormat
	}
	return log.NewWithOptions(w, opts)
}

// timer measures one step of a command.
type timer struct {
	logger *log.Logger
	start  time.Time
}

// startTimer logs step at debug level and starts timing it.
func startTimer(l *log.Logger, step string) *timer {
	l.Debug(step)
	return &timer{logger: l, start: time.Now()}
}

// done logs msg at info level with the elapsed milliseconds appended,
// e.g. "INFO loaded summary devices=12 elapsed=4ms".
func (t *timer) done(msg string, keyvals ...any) {
	elapsed := time.Since(t.start).Round(time.Millisecond)
	t.logger.Info(msg, append(keyvals, "elapsed", elapsed)...)
}
