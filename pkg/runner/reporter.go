package runner

import (
	"context"
	"time"

	"github.com/aretw0/raybrush/pkg/domain"
	"github.com/aretw0/raybrush/pkg/script"
	"github.com/aretw0/raybrush/pkg/stage"
)

// Reporter presents the progress of a run.
type Reporter interface {
	// Step is called after each dispatched step.
	Step(ctx context.Context, f Frame) error

	// Finish is called once with the final stage state.
	Finish(ctx context.Context, st stage.State) error
}

// ContentRenderer transforms markdown before it is written.
// This allows TUI rendering (markdown to ANSI) without coupling the runner to it.
type ContentRenderer func(string) (string, error)

// Frame is the stage as seen right after a step.
type Frame struct {
	Index      int              `json:"index"`
	Elapsed    time.Duration    `json:"elapsed"`
	Event      domain.EventName `json:"event,omitempty"`
	Controller domain.Snapshot  `json:"controller"`
	Trail      stage.TrailState `json:"trail"`
}

// FrameOf captures st after step index.
func FrameOf(st *stage.Stage, index int, step script.Step) Frame {
	trail := st.Trail()
	return Frame{
		Index:      index,
		Elapsed:    st.Elapsed(),
		Event:      step.Event,
		Controller: st.Engine().Snapshot(),
		Trail: stage.TrailState{
			Position: trail.Position(),
			Emitting: trail.Emitting(),
			Points:   trail.Points(),
		},
	}
}

type nopReporter struct{}

func (nopReporter) Step(context.Context, Frame) error        { return nil }
func (nopReporter) Finish(context.Context, stage.State) error { return nil }
