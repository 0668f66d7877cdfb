package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"vertexdrag/internal/layer"
	"vertexdrag/internal/server"
)

var (
	serveAddr  string
	serveLayer string
)

// serveCmd hosts the tool over HTTP
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the vertex tool over HTTP",
	Long: `Loads a GeoJSON layer and exposes the vertex tool to a browser canvas.

Endpoints:
  GET  /health             - Tool and layer status
  POST /tool/activate      - Bind the tool to the layer
  POST /tool/deactivate    - Unbind, cancelling any open drag
  PUT  /viewport           - Set origin and map units per pixel
  POST /pointer/press      - Pick up the vertex under the pointer
  POST /pointer/move       - Preview the drag
  POST /pointer/release    - Commit the drag
  GET  /preview            - Current overlay geometry and style
  GET  /features           - Layer as a GeoJSON FeatureCollection
  GET  /metrics            - Prometheus metrics`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides server.address)")
	serveCmd.Flags().StringVar(&serveLayer, "layer", "", "GeoJSON layer file (overrides layer.path)")
}

func runServe(cmd *cobra.Command, args []string) error {
	addr := cfg.Server.Address
	if serveAddr != "" {
		addr = serveAddr
	}
	path := cfg.Layer.Path
	if serveLayer != "" {
		path = serveLayer
	}

	var l *layer.MemoryLayer
	if path != "" {
		var err error
		l, err = layer.LoadGeoJSON(path, logger)
		if err != nil {
			return err
		}
		l.SetReadOnly(cfg.Layer.ReadOnly)
	} else {
		logger.Warn("no layer configured; activation will be refused until one is loaded")
	}

	autosave := ""
	if cfg.Layer.Autosave && path != "" {
		autosave = path
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	srv := server.New(l, server.Config{
		Tool: toolConfig(),
		Style: server.PreviewStyle{
			Color: cfg.Preview.Color,
			Width: cfg.Preview.Width,
		},
		AllowedOrigins: cfg.Server.AllowedOrigins,
		AutosavePath:   autosave,
	}, reg, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("starting vertexdrag server",
		zap.String("address", addr),
		zap.String("layer", path),
		zap.Bool("read_only", cfg.Layer.ReadOnly),
		zap.Bool("autosave", autosave != ""))

	return srv.ListenAndServe(ctx, addr)
}
