package main

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/meshvet/meshvet/pkg/loader"
	"github.com/meshvet/meshvet/pkg/mesh"
	"github.com/meshvet/meshvet/pkg/metrics"
	"github.com/meshvet/meshvet/pkg/orient"
	"github.com/meshvet/meshvet/pkg/script"
	"github.com/meshvet/meshvet/pkg/store"
)

var (
	rotations  []string
	asScript   bool
	jsonOutput bool
)

var compareCmd = &cobra.Command{
	Use:   "compare BASELINE CANDIDATE",
	Short: "Compare a candidate mesh against a baseline",
	Long: `Load two meshes (.stl or .obj files, or http(s) URLs), normalize the
candidate against the baseline and print the comparison report.

With --script, the arguments are solid-description script files that are
evaluated and tessellated instead of decoded.

Reported volumes use the divergence-theorem approximation: they are
exact only for watertight meshes with consistent winding.`,
	Args: cobra.ExactArgs(2),
	RunE: runCompare,
}

func init() {
	rootCmd.AddCommand(compareCmd)

	compareCmd.Flags().StringSliceVar(&rotations, "rotate", nil,
		"quarter turns to apply to the candidate, in order (x+, x-, y+, y-)")
	compareCmd.Flags().BoolVar(&asScript, "script", false,
		"treat arguments as solid-description script files")
	compareCmd.Flags().BoolVar(&jsonOutput, "json", false,
		"print the report as JSON")
}

func runCompare(cmd *cobra.Command, args []string) error {
	baseline, err := loadMesh(args[0])
	if err != nil {
		return fmt.Errorf("baseline: %w", err)
	}
	candidate, err := loadMesh(args[1])
	if err != nil {
		return fmt.Errorf("candidate: %w", err)
	}

	session := store.NewSession()
	if err := session.SetBaseline(baseline); err != nil {
		return err
	}
	if err := session.SetCandidate(candidate); err != nil {
		return err
	}

	for _, rot := range rotations {
		axis, dir, ok := parseRotation(rot)
		if !ok {
			fmt.Fprintf(os.Stderr, "ignoring unknown rotation %q\n", rot)
			continue
		}
		session.RotateCandidate(axis, dir)
	}

	report, err := session.Compare()
	if err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(report)
	}
	printReport(cmd.OutOrStdout(), baseline.Name, candidate.Name, report)
	return nil
}

// loadMesh reads a mesh from a file, URL or script depending on flags.
func loadMesh(arg string) (*mesh.Mesh, error) {
	if asScript {
		src, err := os.ReadFile(arg)
		if err != nil {
			return nil, err
		}
		m, evalErrs, err := script.NewEngine().Evaluate(string(src))
		if err != nil {
			return nil, err
		}
		if len(evalErrs) > 0 {
			return nil, fmt.Errorf("%s: %s", arg, evalErrs[0].Error())
		}
		m.Name = arg
		return m, nil
	}
	if strings.HasPrefix(arg, "http://") || strings.HasPrefix(arg, "https://") {
		return loader.Load(loader.URLSource(arg))
	}
	return loader.Load(loader.FileSource(arg))
}

// parseRotation maps a flag token onto an axis and direction.
func parseRotation(token string) (orient.Axis, int, bool) {
	switch strings.ToLower(token) {
	case "x+", "x":
		return orient.AxisX, 1, true
	case "x-":
		return orient.AxisX, -1, true
	case "y+", "y":
		return orient.AxisY, 1, true
	case "y-":
		return orient.AxisY, -1, true
	}
	return 0, 0, false
}

// percentString formats a percent difference, rendering the +Inf
// sentinel (zero baseline, nonzero candidate) as "inf".
func percentString(v float64) string {
	if math.IsInf(v, 1) {
		return "inf"
	}
	return fmt.Sprintf("%+.2f%%", v)
}

func printReport(w io.Writer, baseName, candName string, r *metrics.Report) {
	fmt.Fprintf(w, "Baseline:  %s\n", baseName)
	fmt.Fprintf(w, "Candidate: %s\n\n", candName)

	fmt.Fprintf(w, "%-12s %14s %14s %12s\n", "", "baseline", "candidate", "diff")
	fmt.Fprintf(w, "%-12s %14.4f %14.4f %12s\n", "volume",
		r.Volumes.Baseline, r.Volumes.Candidate, percentString(r.Volumes.PercentDifference))
	fmt.Fprintf(w, "%-12s %14d %14d %12s\n", "triangles",
		r.TriangleCounts.Baseline, r.TriangleCounts.Candidate, percentString(r.TriangleCounts.PercentDifference))
	fmt.Fprintf(w, "%-12s %14.4f %14.4f %12s\n", "x extent",
		r.Dimensions.X.Baseline, r.Dimensions.X.Candidate, percentString(r.Dimensions.X.PercentDifference))
	fmt.Fprintf(w, "%-12s %14.4f %14.4f %12s\n", "y extent",
		r.Dimensions.Y.Baseline, r.Dimensions.Y.Candidate, percentString(r.Dimensions.Y.PercentDifference))
	fmt.Fprintf(w, "%-12s %14.4f %14.4f %12s\n", "z extent",
		r.Dimensions.Z.Baseline, r.Dimensions.Z.Candidate, percentString(r.Dimensions.Z.PercentDifference))
	fmt.Fprintf(w, "\n(volumes assume watertight, consistently wound meshes)\n")
}

// jsonMeasure mirrors metrics.Measure with a string percent field so
// the +Inf sentinel survives JSON encoding.
type jsonMeasure struct {
	Baseline          float64 `json:"baseline"`
	Candidate         float64 `json:"candidate"`
	PercentDifference string  `json:"percentDifference"`
}

type jsonReport struct {
	Volumes        jsonMeasure `json:"volumes"`
	TriangleCounts jsonMeasure `json:"triangleCounts"`
	Dimensions     struct {
		X jsonMeasure `json:"x"`
		Y jsonMeasure `json:"y"`
		Z jsonMeasure `json:"z"`
	} `json:"dimensions"`
}

func printJSON(r *metrics.Report) error {
	out := jsonReport{
		Volumes: jsonMeasure{r.Volumes.Baseline, r.Volumes.Candidate,
			percentString(r.Volumes.PercentDifference)},
		TriangleCounts: jsonMeasure{float64(r.TriangleCounts.Baseline), float64(r.TriangleCounts.Candidate),
			percentString(r.TriangleCounts.PercentDifference)},
	}
	out.Dimensions.X = jsonMeasure{r.Dimensions.X.Baseline, r.Dimensions.X.Candidate,
		percentString(r.Dimensions.X.PercentDifference)}
	out.Dimensions.Y = jsonMeasure{r.Dimensions.Y.Baseline, r.Dimensions.Y.Candidate,
		percentString(r.Dimensions.Y.PercentDifference)}
	out.Dimensions.Z = jsonMeasure{r.Dimensions.Z.Baseline, r.Dimensions.Z.Candidate,
		percentString(r.Dimensions.Z.PercentDifference)}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
