/*
Package runner drives a stage from outside: replaying a script at simulated
speed or running it live against a wall-clock frame ticker with steps read
from an NDJSON stream.

# Key Components

  - Runner: owns the loop. Replay is deterministic; Live ticks once per
    frame and stops on EOF, cancellation or SIGINT/SIGTERM.
  - Reporter: decouples how progress is shown. TextReporter writes
    coloured lines and a markdown summary, JSONReporter writes JSON lines.

# Usage

	st, _ := stage.New(scene.Default())
	r := runner.New(st, runner.WithReporter(runner.NewTextReporter(os.Stdout)))
	state, err := r.Replay(ctx, sc)
*/
package runner
