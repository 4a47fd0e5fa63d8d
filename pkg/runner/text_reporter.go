package runner

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/muesli/termenv"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/aretw0/raybrush/pkg/domain"
	"github.com/aretw0/raybrush/pkg/stage"
)

// TextReporter writes a line per step and a markdown summary.
type TextReporter struct {
	Writer   io.Writer
	Renderer ContentRenderer
	Verbose  bool

	out *termenv.Output
}

// TextReporterOption defines configuration for TextReporter.
type TextReporterOption func(*TextReporter)

// WithTextRenderer configures the summary renderer.
func WithTextRenderer(renderer ContentRenderer) TextReporterOption {
	return func(r *TextReporter) {
		r.Renderer = renderer
	}
}

// WithVerbose prints every step, not only the summary.
func WithVerbose(verbose bool) TextReporterOption {
	return func(r *TextReporter) {
		r.Verbose = verbose
	}
}

// NewTextReporter creates a reporter for w. Colours are used only when w is a terminal.
func NewTextReporter(w io.Writer, opts ...TextReporterOption) *TextReporter {
	if w == nil {
		w = os.Stdout
	}
	r := &TextReporter{Writer: w}
	if IsTerminal(w) {
		r.out = termenv.NewOutput(w)
	} else {
		r.out = termenv.NewOutput(w, termenv.WithProfile(termenv.Ascii))
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var eventColors = map[domain.EventName]string{
	domain.EventGrabStart:   "#34d399",
	domain.EventGrabEnd:     "#f87171",
	domain.EventTriggerDown: "#38bdf8",
	domain.EventTriggerUp:   "#818cf8",
	domain.EventTick:        "#6b7280",
}

func (r *TextReporter) Step(_ context.Context, f Frame) error {
	if !r.Verbose {
		return nil
	}
	p := r.out.ColorProfile()
	name := string(f.Event)
	if name == "" {
		name = "wait"
	}
	label := r.out.String(fmt.Sprintf("%-22s", name))
	if c, ok := eventColors[f.Event]; ok {
		label = label.Foreground(p.Color(c))
	}

	var state []string
	if f.Controller.Grabbed {
		state = append(state, string(f.Controller.Modality))
	}
	if f.Controller.Draw.Drawing {
		state = append(state, "drawing")
	}
	if f.Controller.Phase != "" && f.Controller.Phase != domain.PhaseThirdPerson {
		state = append(state, string(f.Controller.Phase))
	}
	if f.Controller.EmissionStopped {
		state = append(state, "erased")
	}

	_, err := fmt.Fprintf(r.Writer, "%9s  %s trail=%s %s\n",
		f.Elapsed, label, formatVec(f.Trail.Position), strings.Join(state, ","))
	return err
}

func (r *TextReporter) Finish(_ context.Context, st stage.State) error {
	out := Markdown(st)
	if r.Renderer != nil {
		if rendered, err := r.Renderer(out); err == nil {
			out = rendered
		}
	}
	_, err := fmt.Fprintln(r.Writer, strings.TrimSpace(out))
	return err
}

func formatVec(v r3.Vec) string {
	return fmt.Sprintf("(%.3f, %.3f, %.3f)", v.X, v.Y, v.Z)
}
