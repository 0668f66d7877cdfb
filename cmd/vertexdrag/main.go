package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"vertexdrag/internal/config"
	"vertexdrag/internal/geometry"
	"vertexdrag/internal/logging"
	"vertexdrag/internal/tool"
)

var (
	// Global flags
	configPath string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "vertexdrag",
	Short: "Interactive vertex dragging for vector layers",
	Long: `vertexdrag moves individual vertices of vector features by dragging.

Press near a vertex to pick it up, move to preview the edit, and release to
commit it to the layer. Layers are GeoJSON FeatureCollections.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}

		level := cfg.Log.Level
		if verbose {
			level = "debug"
		}
		logger, err = logging.New(level, cfg.Log.Development)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: ./vertexdrag.yaml if present)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(inspectCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// toolConfig maps the loaded configuration onto the tool's tunables
func toolConfig() tool.Config {
	return tool.Config{
		TolerancePixels: cfg.Tool.TolerancePixels,
		Validation: geometry.ValidateOptions{
			RejectSelfIntersections: cfg.Tool.RejectSelfIntersections,
		},
	}
}
