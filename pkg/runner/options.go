package runner

import (
	"io"
	"log/slog"
	"time"
)

// DefaultInputBufferSize is the number of decoded steps buffered ahead of the live loop.
const DefaultInputBufferSize = 64

// DefaultFrame is one frame at 60 fps.
const DefaultFrame = time.Second / 60

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.Logger = logger
	}
}

// WithReporter configures how progress is reported.
func WithReporter(rep Reporter) Option {
	return func(r *Runner) {
		r.Reporter = rep
	}
}

// WithFrame sets the live tick interval.
func WithFrame(d time.Duration) Option {
	return func(r *Runner) {
		if d > 0 {
			r.Frame = d
		}
	}
}

// WithInput sets the NDJSON step source for Live. Defaults to os.Stdin.
func WithInput(in io.Reader) Option {
	return func(r *Runner) {
		r.Input = in
	}
}

// WithSignals installs OS signal handling in Live.
func WithSignals(enabled bool) Option {
	return func(r *Runner) {
		r.Signals = enabled
	}
}
