package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/aretw0/raybrush"
	"github.com/aretw0/raybrush/internal/presentation/tui"
	"github.com/aretw0/raybrush/pkg/runner"
	"github.com/aretw0/raybrush/pkg/script"
	"github.com/aretw0/raybrush/pkg/stage"
)

// RunOptions configure the run and live commands.
type RunOptions struct {
	Scene   string
	JSON    bool
	Verbose bool
	Quiet   bool
	Out     io.Writer
	In      io.Reader
}

func (o RunOptions) out() io.Writer {
	if o.Out == nil {
		return os.Stdout
	}
	return o.Out
}

// reporter picks JSON lines or coloured text with a glamour summary.
func (o RunOptions) reporter() runner.Reporter {
	w := o.out()
	if o.JSON {
		return runner.NewJSONReporter(w)
	}
	opts := []runner.TextReporterOption{runner.WithVerbose(o.Verbose)}
	if runner.IsTerminal(w) {
		opts = append(opts, runner.WithTextRenderer(tui.NewRenderer(runner.TerminalWidth(w))))
	}
	return runner.NewTextReporter(w, opts...)
}

func (o RunOptions) banner() {
	if !o.JSON && !o.Quiet && runner.IsTerminal(o.out()) {
		tui.PrintBanner(o.out(), raybrush.Version)
	}
}

func (a *App) newStage(ctx context.Context, ref, id string) (*stage.Stage, error) {
	doc, err := a.ResolveScene(ctx, ref)
	if err != nil {
		return nil, err
	}
	if id == "" {
		id = doc.Name
	}
	return stage.New(doc, append(a.StageOptions(), stage.WithID(id))...)
}

// RunReplay plays the script at path. The --scene flag overrides the scene the script names.
func (a *App) RunReplay(ctx context.Context, path string, opts RunOptions) (stage.State, error) {
	sc, err := script.Load(path)
	if err != nil {
		return stage.State{}, err
	}
	ref := opts.Scene
	if ref == "" {
		ref = sc.Scene
	}
	st, err := a.newStage(ctx, ref, sc.Name)
	if err != nil {
		return stage.State{}, err
	}
	defer st.Close(context.WithoutCancel(ctx))

	opts.banner()
	r := runner.New(st, runner.WithLogger(a.Logger), runner.WithReporter(opts.reporter()))
	return r.Replay(ctx, sc)
}

// RunLive ticks a stage at the configured frame rate, reading steps as NDJSON.
func (a *App) RunLive(ctx context.Context, opts RunOptions) (stage.State, error) {
	st, err := a.newStage(ctx, opts.Scene, "")
	if err != nil {
		return stage.State{}, err
	}
	defer st.Close(context.WithoutCancel(ctx))

	in := opts.In
	if in == nil {
		in = os.Stdin
	}
	opts.banner()
	r := runner.New(st,
		runner.WithLogger(a.Logger),
		runner.WithReporter(opts.reporter()),
		runner.WithFrame(a.Config.FrameInterval()),
		runner.WithInput(in),
		runner.WithSignals(true),
	)
	return r.Live(ctx)
}

// HandleExecutionError hides interruptions: a cancelled run exits cleanly.
func HandleExecutionError(err error) error {
	if err == nil || errors.Is(err, context.Canceled) {
		return nil
	}
	return fmt.Errorf("raybrush: %w", err)
}
