// Package metrics computes derived measurements for a single mesh and
// comparison reports for a (baseline, candidate) pair. Every function
// is stateless and never mutates its inputs; callers recompute whenever
// geometry or orientation changes.
package metrics

import (
	"fmt"
	"math"

	vec3 "github.com/flywave/go3d/float64/vec3"

	"github.com/meshvet/meshvet/pkg/mesh"
)

// Extents returns the per-axis size and the min/max corners of the
// axis-aligned bounding box over all vertices.
func Extents(m *mesh.Mesh) (size, min, max vec3.T, err error) {
	box, err := m.BoundingBox()
	if err != nil {
		return vec3.T{}, vec3.T{}, vec3.T{}, err
	}
	return vec3.Sub(&box.Max, &box.Min), box.Min, box.Max, nil
}

// TriangleCount returns the number of whole triangles in the mesh. The
// mesh constructor already guarantees the multiple-of-3 invariant; this
// revalidates so meshes built by hand cannot silently truncate.
func TriangleCount(m *mesh.Mesh) (int, error) {
	if m.VertexCount()%3 != 0 {
		return 0, fmt.Errorf("mesh %q: %d vertices: %w", m.Name, m.VertexCount(), mesh.ErrMalformedMesh)
	}
	return m.TriangleCount(), nil
}

// ApproxVolume returns the approximate enclosed volume of the mesh: the
// absolute value of the summed signed tetrahedron volumes p1·(p2×p3)/6
// of every triangle against the origin. This is the divergence-theorem
// formula, exact only for a watertight, consistently wound mesh and an
// indication otherwise. Winding direction does not affect the result.
// Meshes with fewer than 3 vertices have volume 0.
func ApproxVolume(m *mesh.Mesh) float64 {
	if m.VertexCount() < 3 {
		return 0
	}
	var signed float64
	verts := m.Vertices
	for i := 0; i+2 < len(verts); i += 3 {
		p1, p2, p3 := &verts[i], &verts[i+1], &verts[i+2]
		cross := vec3.Cross(p2, p3)
		signed += vec3.Dot(p1, &cross) / 6
	}
	return math.Abs(signed)
}

// PercentDifference returns the baseline-relative signed percentage
// deviation of candidate from baseline. Both zero yields 0. A zero
// baseline with a nonzero candidate yields +Inf, a displayable
// sentinel rather than a failure.
func PercentDifference(baseline, candidate float64) float64 {
	if baseline == 0 {
		if candidate == 0 {
			return 0
		}
		return math.Inf(1)
	}
	return (candidate - baseline) / baseline * 100
}

// Measure pairs a baseline and candidate measurement with their
// percent difference.
type Measure struct {
	Baseline          float64 `json:"baseline"`
	Candidate         float64 `json:"candidate"`
	PercentDifference float64 `json:"percentDifference"`
}

// CountMeasure is Measure for integral quantities.
type CountMeasure struct {
	Baseline          int     `json:"baseline"`
	Candidate         int     `json:"candidate"`
	PercentDifference float64 `json:"percentDifference"`
}

// AxisMeasures holds one Measure per axis extent.
type AxisMeasures struct {
	X Measure `json:"x"`
	Y Measure `json:"y"`
	Z Measure `json:"z"`
}

// BoxCorners is a bounding box as explicit min/max corners.
type BoxCorners struct {
	Min [3]float64 `json:"min"`
	Max [3]float64 `json:"max"`
}

// Report is the full comparison between a baseline mesh and an
// effective candidate mesh. It is a value object recomputed fresh per
// request and never cached. Volumes carry the ApproxVolume caveat:
// they are exact only for watertight, consistently wound meshes.
type Report struct {
	BaselineBox    BoxCorners   `json:"baselineBox"`
	CandidateBox   BoxCorners   `json:"candidateBox"`
	Volumes        Measure      `json:"volumes"`
	TriangleCounts CountMeasure `json:"triangleCounts"`
	Dimensions     AxisMeasures `json:"dimensions"`
}

// Compare builds the full comparison report for a baseline mesh and an
// effective candidate mesh (candidate geometry with its orientation
// already baked in). Neither input is mutated.
func Compare(baseline, candidate *mesh.Mesh) (*Report, error) {
	bSize, bMin, bMax, err := Extents(baseline)
	if err != nil {
		return nil, fmt.Errorf("baseline: %w", err)
	}
	cSize, cMin, cMax, err := Extents(candidate)
	if err != nil {
		return nil, fmt.Errorf("candidate: %w", err)
	}

	bTris, err := TriangleCount(baseline)
	if err != nil {
		return nil, fmt.Errorf("baseline: %w", err)
	}
	cTris, err := TriangleCount(candidate)
	if err != nil {
		return nil, fmt.Errorf("candidate: %w", err)
	}

	bVol := ApproxVolume(baseline)
	cVol := ApproxVolume(candidate)

	return &Report{
		BaselineBox:  BoxCorners{Min: [3]float64(bMin), Max: [3]float64(bMax)},
		CandidateBox: BoxCorners{Min: [3]float64(cMin), Max: [3]float64(cMax)},
		Volumes: Measure{
			Baseline:          bVol,
			Candidate:         cVol,
			PercentDifference: PercentDifference(bVol, cVol),
		},
		TriangleCounts: CountMeasure{
			Baseline:          bTris,
			Candidate:         cTris,
			PercentDifference: PercentDifference(float64(bTris), float64(cTris)),
		},
		Dimensions: AxisMeasures{
			X: axisMeasure(bSize[0], cSize[0]),
			Y: axisMeasure(bSize[1], cSize[1]),
			Z: axisMeasure(bSize[2], cSize[2]),
		},
	}, nil
}

func axisMeasure(baseline, candidate float64) Measure {
	return Measure{
		Baseline:          baseline,
		Candidate:         candidate,
		PercentDifference: PercentDifference(baseline, candidate),
	}
}
