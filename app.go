package main

import (
	"context"
	"fmt"
	"log"
	"math"
	"strings"

	"github.com/meshvet/meshvet/pkg/decimate"
	"github.com/meshvet/meshvet/pkg/loader"
	"github.com/meshvet/meshvet/pkg/mesh"
	"github.com/meshvet/meshvet/pkg/metrics"
	"github.com/meshvet/meshvet/pkg/orient"
	"github.com/meshvet/meshvet/pkg/script"
	"github.com/meshvet/meshvet/pkg/store"
)

// App is the Wails backend. It owns one comparison session and exposes
// load/rotate/report methods to the frontend via bindings.
type App struct {
	ctx     context.Context
	session *store.Session
	script  *script.Engine
}

// NewApp creates a new App with an empty session.
func NewApp() *App {
	return &App{
		session: store.NewSession(),
		script:  script.NewEngine(),
	}
}

// startup is called by Wails on app startup. The context is saved so
// we can call Wails runtime methods later if needed.
func (a *App) startup(ctx context.Context) {
	a.ctx = ctx
}

// PercentData is a JSON-safe percent difference. JSON cannot carry
// +Inf, so the zero-baseline sentinel travels as the infinite flag.
type PercentData struct {
	Value    float64 `json:"value"`
	Infinite bool    `json:"infinite"`
}

// MeasureData is a baseline/candidate measurement pair for the frontend.
type MeasureData struct {
	Baseline          float64     `json:"baseline"`
	Candidate         float64     `json:"candidate"`
	PercentDifference PercentData `json:"percentDifference"`
}

// CountData is MeasureData for integral quantities.
type CountData struct {
	Baseline          int         `json:"baseline"`
	Candidate         int         `json:"candidate"`
	PercentDifference PercentData `json:"percentDifference"`
}

// DimensionsData holds per-axis extent comparisons.
type DimensionsData struct {
	X MeasureData `json:"x"`
	Y MeasureData `json:"y"`
	Z MeasureData `json:"z"`
}

// ReportData is the JSON-serializable comparison report sent to the
// frontend. Volumes are divergence-theorem approximations: exact only
// for watertight, consistently wound meshes.
type ReportData struct {
	BaselineBox    metrics.BoxCorners `json:"baselineBox"`
	CandidateBox   metrics.BoxCorners `json:"candidateBox"`
	Volumes        MeasureData        `json:"volumes"`
	TriangleCounts CountData          `json:"triangleCounts"`
	Dimensions     DimensionsData     `json:"dimensions"`
}

// MeshData is the JSON-serializable mesh format sent to the frontend
// renderer: flat x,y,z triples, three consecutive vertices per triangle.
type MeshData struct {
	Vertices      []float32 `json:"vertices"`
	Name          string    `json:"name"`
	TriangleCount int       `json:"triangleCount"`
}

// CompareResult is the full result of any session-mutating binding:
// the fresh report (when both meshes are loaded), the mesh to display,
// and any errors.
type CompareResult struct {
	Report *ReportData `json:"report"`
	Mesh   *MeshData   `json:"mesh"`
	Errors []string    `json:"errors"`
}

// LoadBaseline decodes a mesh from a path or http(s) URL and installs
// it as the baseline (centered, never scaled).
func (a *App) LoadBaseline(path string) CompareResult {
	m, err := loader.Load(sourceFor(path))
	if err != nil {
		return a.failure("load baseline", err)
	}
	return a.installBaseline(m)
}

// LoadCandidate decodes a mesh from a path or http(s) URL and installs
// it as the candidate (centered and scale-matched to the baseline).
func (a *App) LoadCandidate(path string) CompareResult {
	m, err := loader.Load(sourceFor(path))
	if err != nil {
		return a.failure("load candidate", err)
	}
	return a.installCandidate(m)
}

// LoadBaselineScript evaluates a solid-description script and installs
// the tessellated result as the baseline.
func (a *App) LoadBaselineScript(source string) CompareResult {
	m, res := a.evalScript(source)
	if m == nil {
		return res
	}
	return a.installBaseline(m)
}

// LoadCandidateScript evaluates a solid-description script and
// installs the tessellated result as the candidate.
func (a *App) LoadCandidateScript(source string) CompareResult {
	m, res := a.evalScript(source)
	if m == nil {
		return res
	}
	return a.installCandidate(m)
}

// RotateCandidate applies a quarter turn to the candidate orientation.
// axis is "x" or "y"; dir >= 0 means +90°, negative means −90°.
// Unknown axes are ignored (the frontend only offers the two buttons).
func (a *App) RotateCandidate(axis string, dir int) CompareResult {
	switch strings.ToLower(axis) {
	case "x":
		a.session.RotateCandidate(orient.AxisX, dir)
	case "y":
		a.session.RotateCandidate(orient.AxisY, dir)
	default:
		log.Printf("ignoring rotation about unknown axis %q", axis)
	}
	return a.candidateResult()
}

// ResetOrientation restores the candidate's identity orientation.
func (a *App) ResetOrientation() CompareResult {
	a.session.ResetOrientation()
	return a.candidateResult()
}

// SimplifyCandidate replaces the candidate with a decimated copy
// holding roughly factor times the triangle count. This is a wholesale
// candidate reload: the result is re-normalized and its orientation
// reset, exactly as if the coarser mesh had been loaded from disk.
func (a *App) SimplifyCandidate(factor float64) CompareResult {
	cand := a.session.Candidate()
	if cand == nil {
		return a.failure("simplify", fmt.Errorf("no candidate loaded"))
	}
	dm, err := decimate.Decimate(cand, factor)
	if err != nil {
		return a.failure("simplify", err)
	}
	return a.installCandidate(dm)
}

// Report recomputes the comparison report for the current pair.
func (a *App) Report() CompareResult {
	return a.candidateResult()
}

// EffectiveCandidate returns the candidate with its orientation baked
// in, the exact mesh the metrics see. Nil if no candidate is loaded.
func (a *App) EffectiveCandidate() *MeshData {
	eff := a.session.EffectiveCandidate()
	if eff == nil {
		return nil
	}
	return meshData(eff)
}

// installBaseline normalizes and stores a freshly loaded baseline.
func (a *App) installBaseline(m *mesh.Mesh) CompareResult {
	if err := a.session.SetBaseline(m); err != nil {
		return a.failure("install baseline", err)
	}
	res := a.reportResult()
	res.Mesh = meshData(a.session.Baseline())
	return res
}

// installCandidate normalizes and stores a freshly loaded candidate.
func (a *App) installCandidate(m *mesh.Mesh) CompareResult {
	if err := a.session.SetCandidate(m); err != nil {
		return a.failure("install candidate", err)
	}
	res := a.reportResult()
	res.Mesh = meshData(a.session.EffectiveCandidate())
	return res
}

// candidateResult pairs a fresh report with the current effective
// candidate for display. Display and metrics always see the same
// effective mesh.
func (a *App) candidateResult() CompareResult {
	res := a.reportResult()
	if eff := a.session.EffectiveCandidate(); eff != nil {
		res.Mesh = meshData(eff)
	}
	return res
}

// reportResult computes a fresh report if both meshes are loaded. A
// half-loaded session is not an error; the report is simply absent.
func (a *App) reportResult() CompareResult {
	res := CompareResult{Errors: []string{}}
	if a.session.Baseline() == nil || a.session.Candidate() == nil {
		return res
	}
	report, err := a.session.Compare()
	if err != nil {
		log.Printf("compare failed: %v", err)
		res.Errors = append(res.Errors, err.Error())
		return res
	}
	res.Report = reportData(report)
	return res
}

// evalScript runs a script and converts its eval errors into a result.
func (a *App) evalScript(source string) (*mesh.Mesh, CompareResult) {
	m, evalErrs, err := a.script.Evaluate(source)
	if err != nil {
		return nil, a.failure("evaluate script", err)
	}
	if len(evalErrs) > 0 {
		res := CompareResult{Errors: []string{}}
		for _, e := range evalErrs {
			res.Errors = append(res.Errors, e.Error())
		}
		return nil, res
	}
	return m, CompareResult{Errors: []string{}}
}

// failure logs an error and wraps it in a result for the frontend.
func (a *App) failure(op string, err error) CompareResult {
	log.Printf("%s: %v", op, err)
	return CompareResult{Errors: []string{err.Error()}}
}

// sourceFor picks a loader source: http(s) locations fetch over the
// network, everything else is a local path.
func sourceFor(path string) loader.Source {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return loader.URLSource(path)
	}
	return loader.FileSource(path)
}

// percentData converts a core percent difference, mapping the +Inf
// sentinel onto the infinite flag.
func percentData(v float64) PercentData {
	if math.IsInf(v, 1) {
		return PercentData{Infinite: true}
	}
	return PercentData{Value: v}
}

func measureData(m metrics.Measure) MeasureData {
	return MeasureData{
		Baseline:          m.Baseline,
		Candidate:         m.Candidate,
		PercentDifference: percentData(m.PercentDifference),
	}
}

// reportData converts a core report into the frontend format.
func reportData(r *metrics.Report) *ReportData {
	return &ReportData{
		BaselineBox:  r.BaselineBox,
		CandidateBox: r.CandidateBox,
		Volumes:      measureData(r.Volumes),
		TriangleCounts: CountData{
			Baseline:          r.TriangleCounts.Baseline,
			Candidate:         r.TriangleCounts.Candidate,
			PercentDifference: percentData(r.TriangleCounts.PercentDifference),
		},
		Dimensions: DimensionsData{
			X: measureData(r.Dimensions.X),
			Y: measureData(r.Dimensions.Y),
			Z: measureData(r.Dimensions.Z),
		},
	}
}

// meshData flattens a mesh for the frontend renderer.
func meshData(m *mesh.Mesh) *MeshData {
	verts := make([]float32, 0, len(m.Vertices)*3)
	for i := range m.Vertices {
		verts = append(verts,
			float32(m.Vertices[i][0]),
			float32(m.Vertices[i][1]),
			float32(m.Vertices[i][2]))
	}
	return &MeshData{
		Vertices:      verts,
		Name:          m.Name,
		TriangleCount: m.TriangleCount(),
	}
}
