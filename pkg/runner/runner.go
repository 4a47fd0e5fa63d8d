package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/aretw0/raybrush/internal/logging"
	"github.com/aretw0/raybrush/pkg/script"
	"github.com/aretw0/raybrush/pkg/stage"
)

// Runner plays input against one stage and reports what happened.
type Runner struct {
	Stage *stage.Stage

	// Reporter receives every step and the final state.
	// If nil, nothing is reported.
	Reporter Reporter

	// Logger is used for internal debug logging.
	// If nil, a no-op logger is used.
	Logger *slog.Logger

	// Frame is the live tick interval.
	Frame time.Duration

	// Input is the live NDJSON source.
	Input io.Reader

	// Signals makes Live stop on SIGINT/SIGTERM.
	Signals bool
}

// New creates a Runner for st.
func New(st *stage.Stage, opts ...Option) *Runner {
	r := &Runner{
		Stage:    st,
		Reporter: nopReporter{},
		Logger:   logging.NewNop(),
		Frame:    DefaultFrame,
		Input:    os.Stdin,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.Reporter == nil {
		r.Reporter = nopReporter{}
	}
	return r
}

// Replay dispatches every step of sc in simulated time and returns the final state.
func (r *Runner) Replay(ctx context.Context, sc *script.Script) (stage.State, error) {
	if err := sc.Validate(); err != nil {
		return stage.State{}, fmt.Errorf("invalid script %q: %w", sc.Name, err)
	}
	r.Logger.InfoContext(ctx, "replay started", "script", sc.Name, "steps", len(sc.Steps), "duration", sc.Duration())

	for i, step := range sc.Steps {
		if err := ctx.Err(); err != nil {
			st, ferr := r.finish(ctx)
			return st, errors.Join(err, ferr)
		}
		if err := r.Stage.Dispatch(ctx, step); err != nil {
			return stage.State{}, fmt.Errorf("step %d: %w", i, err)
		}
		if err := r.Reporter.Step(ctx, FrameOf(r.Stage, i, step)); err != nil {
			return stage.State{}, fmt.Errorf("report error: %w", err)
		}
	}
	return r.finish(ctx)
}

type decoded struct {
	step script.Step
	err  error
}

// Live ticks the stage once per Frame of wall-clock time and dispatches
// steps as they arrive on Input. It returns when the input ends, ctx is
// cancelled or, with Signals, the process is interrupted. Undecodable
// lines are logged and skipped.
func (r *Runner) Live(ctx context.Context) (stage.State, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var signals *interrupts
	if r.Signals {
		signals = watchInterrupts(ctx)
		defer signals.release()
		ctx = signals.ctx
	}

	steps := make(chan decoded, DefaultInputBufferSize)
	go r.pump(ctx, script.NewDecoder(r.Input), steps)

	ticker := time.NewTicker(r.Frame)
	defer ticker.Stop()

	r.Logger.InfoContext(ctx, "live started", "stage", r.Stage.ID(), "frame", r.Frame)
	index := 0
	for {
		select {
		case <-ctx.Done():
			return r.finish(ctx)

		case <-ticker.C:
			r.Stage.Tick(ctx, r.Frame)

		case in := <-steps:
			if errors.Is(in.err, io.EOF) {
				return r.finish(ctx)
			}
			if in.err != nil {
				if signals != nil && signals.settle(raceWindow) {
					return r.finish(ctx)
				}
				if ctx.Err() != nil {
					return r.finish(ctx)
				}
				if !isLineError(in.err) {
					st, ferr := r.finish(ctx)
					return st, errors.Join(fmt.Errorf("input error: %w", in.err), ferr)
				}
				r.Logger.WarnContext(ctx, "skipping input", "err", in.err)
				continue
			}
			if err := r.Stage.Dispatch(ctx, in.step); err != nil {
				r.Logger.WarnContext(ctx, "step rejected", "event", in.step.Event, "err", err)
				continue
			}
			if err := r.Reporter.Step(ctx, FrameOf(r.Stage, index, in.step)); err != nil {
				return stage.State{}, fmt.Errorf("report error: %w", err)
			}
			index++
		}
	}
}

// pump decodes steps until EOF or a read error, which it forwards last.
func (r *Runner) pump(ctx context.Context, dec *script.Decoder, out chan<- decoded) {
	for {
		step, err := dec.Next()
		select {
		case out <- decoded{step: step, err: err}:
		case <-ctx.Done():
			return
		}
		if err != nil && !isLineError(err) {
			return
		}
	}
}

// isLineError tells decode errors of one line, after which reading can
// continue, from errors of the underlying reader.
func isLineError(err error) bool {
	var le *script.LineError
	return errors.As(err, &le)
}

// finish reports the final state.
func (r *Runner) finish(ctx context.Context) (stage.State, error) {
	// Use a fresh context so remote ownership lookups still work after cancellation.
	st, err := r.Stage.Inspect(context.WithoutCancel(ctx))
	if err != nil {
		return st, err
	}
	if err := r.Reporter.Finish(ctx, st); err != nil {
		return st, fmt.Errorf("report error: %w", err)
	}
	r.Logger.InfoContext(ctx, "run finished", "stage", st.ID, "elapsed", st.Elapsed)
	return st, nil
}
