package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"vertexdrag/internal/replay"
)

var replayOutput string

// replayCmd runs a pointer-event script without a canvas
var replayCmd = &cobra.Command{
	Use:   "replay <script>",
	Short: "Replay a YAML pointer-event script against a GeoJSON layer",
	Long: `Feeds the events of a script (activate, press, move, release, deactivate)
to the vertex tool and writes the edited layer to the script's output.

Example script:
  layer: roads.geojson
  output: roads.edited.geojson
  viewport: {origin_x: 0, origin_y: 100, units_per_pixel: 0.5}
  events:
    - type: activate
    - {type: press, x: 12, y: 40}
    - {type: move, x: 30, y: 42}
    - {type: release, x: 30, y: 42}`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

func init() {
	replayCmd.Flags().StringVarP(&replayOutput, "output", "o", "", "Write the edited layer here (overrides the script)")
}

func runReplay(cmd *cobra.Command, args []string) error {
	script, err := replay.LoadScript(args[0])
	if err != nil {
		return err
	}
	if replayOutput != "" {
		script.Output = replayOutput
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := replay.NewRunner(replay.Options{
		Tool:   toolConfig(),
		Logger: logger,
	}).Run(ctx, script)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, step := range res.Steps {
		if step.Err != nil {
			fmt.Fprintf(out, "  event %d (%s): %v\n", step.Index, step.Event.Type, step.Err)
		}
	}
	fmt.Fprintf(out, "%d events, %d commits, %d failures\n", len(res.Steps), res.Commits, res.Failures)
	if script.Output != "" {
		fmt.Fprintf(out, "wrote %s\n", script.Output)
	}
	return nil
}
