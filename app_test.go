package main

import (
	"bytes"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"
)

const tol = 1e-9

// cubeVerts returns the 12-triangle soup of an axis-aligned cube with
// the given edge length, centered at offset. Faces are wound outward.
func cubeVerts(size float64, offset [3]float64) [][3]float64 {
	h := size / 2
	p := func(x, y, z float64) [3]float64 {
		return [3]float64{offset[0] + x*h, offset[1] + y*h, offset[2] + z*h}
	}
	p000, p100 := p(-1, -1, -1), p(1, -1, -1)
	p010, p110 := p(-1, 1, -1), p(1, 1, -1)
	p001, p101 := p(-1, -1, 1), p(1, -1, 1)
	p011, p111 := p(-1, 1, 1), p(1, 1, 1)

	return [][3]float64{
		p000, p010, p110, p000, p110, p100, // -Z
		p001, p101, p111, p001, p111, p011, // +Z
		p000, p100, p101, p000, p101, p001, // -Y
		p010, p011, p111, p010, p111, p110, // +Y
		p000, p001, p011, p000, p011, p010, // -X
		p100, p110, p111, p100, p111, p101, // +X
	}
}

// subdivideTris splits every triangle in two at the midpoint of its
// first edge. Same surface, double the triangle count.
func subdivideTris(verts [][3]float64) [][3]float64 {
	out := make([][3]float64, 0, len(verts)*2)
	for i := 0; i+2 < len(verts); i += 3 {
		a, b, c := verts[i], verts[i+1], verts[i+2]
		mid := [3]float64{(a[0] + b[0]) / 2, (a[1] + b[1]) / 2, (a[2] + b[2]) / 2}
		out = append(out, a, mid, c, mid, b, c)
	}
	return out
}

// writeSTL writes a binary STL file holding the given triangle soup
// and returns its path.
func writeSTL(t *testing.T, dir, name string, verts [][3]float64) string {
	t.Helper()
	buf := &bytes.Buffer{}
	buf.Write(make([]byte, 80))
	binary.Write(buf, binary.LittleEndian, uint32(len(verts)/3))
	for i := 0; i+2 < len(verts); i += 3 {
		binary.Write(buf, binary.LittleEndian, [3]float32{0, 0, 0})
		for j := 0; j < 3; j++ {
			v := verts[i+j]
			binary.Write(buf, binary.LittleEndian, [3]float32{float32(v[0]), float32(v[1]), float32(v[2])})
		}
		binary.Write(buf, binary.LittleEndian, uint16(0))
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func requireNoErrors(t *testing.T, res CompareResult) {
	t.Helper()
	if len(res.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", res.Errors)
	}
}

func requireReport(t *testing.T, res CompareResult) *ReportData {
	t.Helper()
	requireNoErrors(t, res)
	if res.Report == nil {
		t.Fatal("expected a report")
	}
	return res.Report
}

// TestE2ESamePartDifferentPlacement loads the same cube twice: the
// candidate is double the size and far off the origin. Normalization
// has to erase both differences and report the parts as identical.
func TestE2ESamePartDifferentPlacement(t *testing.T) {
	dir := t.TempDir()
	base := writeSTL(t, dir, "base.stl", cubeVerts(1, [3]float64{0, 0, 0}))
	cand := writeSTL(t, dir, "cand.stl", cubeVerts(2, [3]float64{10, 5, -3}))

	app := NewApp()
	requireNoErrors(t, app.LoadBaseline(base))
	report := requireReport(t, app.LoadCandidate(cand))

	if d := report.Volumes.PercentDifference; d.Infinite || math.Abs(d.Value) > 1e-6 {
		t.Errorf("volume diff = %+v, want ~0", d)
	}
	for name, m := range map[string]MeasureData{
		"x": report.Dimensions.X, "y": report.Dimensions.Y, "z": report.Dimensions.Z,
	} {
		if d := m.PercentDifference; d.Infinite || math.Abs(d.Value) > 1e-6 {
			t.Errorf("dimension %s diff = %+v, want ~0", name, d)
		}
	}
	if d := report.TriangleCounts.PercentDifference; d.Infinite || d.Value != 0 {
		t.Errorf("triangle count diff = %+v, want 0", d)
	}
}

// TestE2EResolutionDifference compares a cube against a subdivided copy
// of itself: geometry identical, twice the triangles.
func TestE2EResolutionDifference(t *testing.T) {
	dir := t.TempDir()
	coarse := cubeVerts(1, [3]float64{0, 0, 0})
	base := writeSTL(t, dir, "base.stl", coarse)
	cand := writeSTL(t, dir, "cand.stl", subdivideTris(coarse))

	app := NewApp()
	requireNoErrors(t, app.LoadBaseline(base))
	report := requireReport(t, app.LoadCandidate(cand))

	if got := report.TriangleCounts; got.Baseline != 12 || got.Candidate != 24 {
		t.Fatalf("triangle counts = %d/%d, want 12/24", got.Baseline, got.Candidate)
	}
	if d := report.TriangleCounts.PercentDifference; d.Infinite || math.Abs(d.Value-100) > tol {
		t.Errorf("triangle count diff = %+v, want 100", d)
	}
	if d := report.Volumes.PercentDifference; d.Infinite || math.Abs(d.Value) > 1e-6 {
		t.Errorf("volume diff = %+v, want ~0", d)
	}
}

// TestE2ERotationRoundTrip applies four quarter turns about X. Both the
// displayed mesh and the report must return to their pre-rotation state.
func TestE2ERotationRoundTrip(t *testing.T) {
	dir := t.TempDir()
	base := writeSTL(t, dir, "base.stl", cubeVerts(1, [3]float64{0, 0, 0}))
	cand := writeSTL(t, dir, "cand.stl", cubeVerts(1, [3]float64{2, 2, 2}))

	app := NewApp()
	requireNoErrors(t, app.LoadBaseline(base))
	before := app.LoadCandidate(cand)
	requireReport(t, before)

	var after CompareResult
	for i := 0; i < 4; i++ {
		after = app.RotateCandidate("x", 1)
		requireReport(t, after)
	}

	if len(after.Mesh.Vertices) != len(before.Mesh.Vertices) {
		t.Fatalf("vertex count changed: %d -> %d", len(before.Mesh.Vertices), len(after.Mesh.Vertices))
	}
	for i := range after.Mesh.Vertices {
		if math.Abs(float64(after.Mesh.Vertices[i]-before.Mesh.Vertices[i])) > 1e-5 {
			t.Fatalf("vertex %d = %g, want %g", i, after.Mesh.Vertices[i], before.Mesh.Vertices[i])
		}
	}
	if d := after.Report.Volumes.PercentDifference; d.Infinite || math.Abs(d.Value) > 1e-6 {
		t.Errorf("volume diff after round trip = %+v, want ~0", d)
	}
}

// TestE2EScriptPair evaluates the same script for both slots. The
// tessellations are identical, so the report must show no differences.
func TestE2EScriptPair(t *testing.T) {
	app := NewApp()
	app.script.SetCells(64)

	requireNoErrors(t, app.LoadBaselineScript("(box 40 30 20)"))
	report := requireReport(t, app.LoadCandidateScript("(box 40 30 20)"))

	if d := report.Volumes.PercentDifference; d.Infinite || math.Abs(d.Value) > 1e-6 {
		t.Errorf("volume diff = %+v, want ~0", d)
	}
	if d := report.TriangleCounts.PercentDifference; d.Infinite || d.Value != 0 {
		t.Errorf("triangle count diff = %+v, want 0", d)
	}
}

func TestE2ESimplifyCandidate(t *testing.T) {
	app := NewApp()
	app.script.SetCells(64)

	requireNoErrors(t, app.LoadBaselineScript("(sphere 10)"))
	first := requireReport(t, app.LoadCandidateScript("(sphere 10)"))

	simplified := requireReport(t, app.SimplifyCandidate(0.3))
	if simplified.TriangleCounts.Candidate >= first.TriangleCounts.Candidate {
		t.Errorf("candidate triangles %d not reduced from %d",
			simplified.TriangleCounts.Candidate, first.TriangleCounts.Candidate)
	}
	if simplified.TriangleCounts.Baseline != first.TriangleCounts.Baseline {
		t.Errorf("baseline triangles changed: %d -> %d",
			first.TriangleCounts.Baseline, simplified.TriangleCounts.Baseline)
	}
}

func TestPercentDataInfinity(t *testing.T) {
	d := percentData(math.Inf(1))
	if !d.Infinite || d.Value != 0 {
		t.Errorf("percentData(+Inf) = %+v, want infinite flag", d)
	}
	d = percentData(42.5)
	if d.Infinite || d.Value != 42.5 {
		t.Errorf("percentData(42.5) = %+v", d)
	}
}
