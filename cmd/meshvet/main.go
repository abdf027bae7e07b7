// meshvet is the headless companion to the desktop app: it loads a
// baseline and a candidate mesh, runs the same normalization and
// comparison pipeline, and prints the report.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "meshvet",
	Short: "Compare triangulated 3D meshes",
	Long: `meshvet compares a candidate triangle mesh against a baseline:
the candidate is centered, scale-matched to the baseline and optionally
re-oriented in 90° steps, then measured for volume, triangle count and
per-axis extents.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
