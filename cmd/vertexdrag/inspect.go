package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"vertexdrag/internal/geometry"
	"vertexdrag/internal/layer"
	"vertexdrag/internal/locator"
)

var (
	inspectX         float64
	inspectY         float64
	inspectTolerance float64
)

// inspectCmd lists a layer's features and optionally locates a vertex
var inspectCmd = &cobra.Command{
	Use:   "inspect <geojson>",
	Short: "List a layer's editable features",
	Long: `Prints every feature with its geometry type, vertex count and bounds.

With --x and --y, also reports the vertex the tool would pick up at that map
position, using --tolerance in map units.`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().Float64Var(&inspectX, "x", 0, "Map x of the query point")
	inspectCmd.Flags().Float64Var(&inspectY, "y", 0, "Map y of the query point")
	inspectCmd.Flags().Float64Var(&inspectTolerance, "tolerance", 5, "Snapping tolerance in map units")
}

func runInspect(cmd *cobra.Command, args []string) error {
	l, err := layer.LoadGeoJSON(args[0], logger)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTYPE\tVERTICES\tBOUNDS")
	for _, id := range l.FeatureIDs() {
		g, err := l.ReadGeometry(id)
		if err != nil {
			return err
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", id, g.Kind(), g.Len(), formatBounds(g))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(out, "%d features in layer %q\n", l.Len(), l.Name())

	if !cmd.Flags().Changed("x") && !cmd.Flags().Changed("y") {
		return nil
	}

	at := geometry.Pt(inspectX, inspectY)
	ref, ok := locator.Find(l, at, inspectTolerance)
	if !ok {
		fmt.Fprintf(out, "no vertex within %g of (%g, %g)\n", inspectTolerance, at.X, at.Y)
		return nil
	}
	g, _ := l.ReadGeometry(ref.FeatureID)
	v, _ := g.VertexAt(ref.VertexIndex)
	fmt.Fprintf(out, "nearest vertex: %s #%d at (%g, %g), distance %g\n",
		ref.FeatureID, ref.VertexIndex, v.X, v.Y, v.Distance(at))
	return nil
}

func formatBounds(g geometry.Geometry) string {
	b, ok := g.Bounds()
	if !ok {
		return "-"
	}
	return fmt.Sprintf("(%g, %g)-(%g, %g)", b.Min.X, b.Min.Y, b.Max.X, b.Max.Y)
}
