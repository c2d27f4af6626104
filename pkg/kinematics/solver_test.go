package kinematics

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"

	"armkin-go/pkg/errors"
)

const tol = 1e-9

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) <= tol
}

func TestKnownExample(t *testing.T) {
	// Worked example: target (10, 20, 0). The XZ projection is parallel
	// to the reference axis, so azimuth is zero; theta is the angle of
	// (10, 20) from the X axis; extension is the norm minus the offset.
	s := NewDefaultSolver()
	j := s.JointFromPosition(r3.Vector{X: 10, Y: 20, Z: 0})

	wantTheta := math.Acos(10 / math.Sqrt(500)) // ~1.1071
	if !almostEqual(j.Theta, wantTheta) {
		t.Errorf("theta = %v, want %v", j.Theta, wantTheta)
	}
	if j.Azimuth != 0 {
		t.Errorf("azimuth = %v, want 0", j.Azimuth)
	}
	wantExt := math.Sqrt(500) - 20 // ~2.3607
	if !almostEqual(j.Extension, wantExt) {
		t.Errorf("extension = %v, want %v", j.Extension, wantExt)
	}
}

func TestRotationSigns(t *testing.T) {
	s := NewDefaultSolver()
	tests := []struct {
		name        string
		target      r3.Vector
		thetaSign   float64
		azimuthSign float64
	}{
		{"posY", r3.Vector{X: 10, Y: 5, Z: 0}, 1, 0},
		{"negY", r3.Vector{X: 10, Y: -5, Z: 0}, -1, 0},
		{"posZ", r3.Vector{X: 10, Y: 0, Z: 5}, 0, 1},
		{"negZ", r3.Vector{X: 10, Y: 0, Z: -5}, 0, -1},
		{"posYposZ", r3.Vector{X: 10, Y: 5, Z: 5}, 1, 1},
		{"negYnegZ", r3.Vector{X: 10, Y: -5, Z: -5}, -1, -1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			j := s.JointFromPosition(tc.target)
			if sign(j.Theta) != tc.thetaSign {
				t.Errorf("theta = %v, want sign %v", j.Theta, tc.thetaSign)
			}
			if sign(j.Azimuth) != tc.azimuthSign {
				t.Errorf("azimuth = %v, want sign %v", j.Azimuth, tc.azimuthSign)
			}
		})
	}
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

func TestSingularityDefaults(t *testing.T) {
	s := NewDefaultSolver()

	// A target on the Y axis has a zero XZ projection: azimuth defaults
	// to zero.
	for _, y := range []float64{1, 15, -8} {
		j := s.JointFromPosition(r3.Vector{Y: y})
		if j.Azimuth != 0 {
			t.Errorf("target (0, %v, 0): azimuth = %v, want 0", y, j.Azimuth)
		}
	}

	// A target on the Z axis has a zero XY projection: theta defaults
	// to zero.
	for _, z := range []float64{1, 15, -8} {
		j := s.JointFromPosition(r3.Vector{Z: z})
		if j.Theta != 0 {
			t.Errorf("target (0, 0, %v): theta = %v, want 0", z, j.Theta)
		}
	}

	// The origin degenerates in every plane.
	j := s.JointFromPosition(r3.Vector{})
	if j.Theta != 0 || j.Azimuth != 0 {
		t.Errorf("origin: got theta=%v azimuth=%v, want 0, 0", j.Theta, j.Azimuth)
	}
}

func TestRoundTripWithinLimits(t *testing.T) {
	s := NewDefaultSolver()
	states := []JointState{
		{Theta: 0, Azimuth: 0, Extension: 0},
		{Theta: 0.5, Azimuth: -0.3, Extension: 2.5},
		{Theta: -1.2, Azimuth: 1.2, Extension: -7},
		{Theta: 1.4, Azimuth: -1.4, Extension: 9.5},
		{Theta: 0.001, Azimuth: 0.001, Extension: -0.001},
	}

	for _, want := range states {
		pos, err := s.PositionFromJoint(want)
		if err != nil {
			t.Fatalf("PositionFromJoint(%+v) failed: %v", want, err)
		}
		got := s.JointFromPosition(pos)
		if !almostEqual(got.Theta, want.Theta) ||
			!almostEqual(got.Azimuth, want.Azimuth) ||
			!almostEqual(got.Extension, want.Extension) {
			t.Errorf("round trip of %+v gave %+v", want, got)
		}
	}
}

func TestClampIdempotent(t *testing.T) {
	s := NewDefaultSolver()
	states := []JointState{
		{Theta: 3, Azimuth: -3, Extension: 50},
		{Theta: -0.1, Azimuth: 0.1, Extension: 0},
		{Theta: math.Pi / 2, Azimuth: -math.Pi / 2, Extension: 10},
	}
	for _, raw := range states {
		once := s.Clamp(raw)
		twice := s.Clamp(once)
		if once != twice {
			t.Errorf("clamp not idempotent: %+v -> %+v -> %+v", raw, once, twice)
		}
	}
}

func TestClampSaturates(t *testing.T) {
	s := NewDefaultSolver()
	j := s.Clamp(JointState{Theta: 3, Azimuth: -3, Extension: 50})
	want := JointState{Theta: math.Pi / 2, Azimuth: -math.Pi / 2, Extension: 10}
	if j != want {
		t.Errorf("got %+v, want %+v", j, want)
	}
}

func TestExtensionClampBoundary(t *testing.T) {
	// Norm 35 with offset 20 gives a raw extension of 15, which must
	// saturate at exactly 10.
	s := NewDefaultSolver()
	j := s.JointFromPosition(r3.Vector{X: 35})
	if j.Extension != 10 {
		t.Errorf("extension = %v, want exactly 10", j.Extension)
	}
}

func TestLimitBoundaryStable(t *testing.T) {
	// A state at the upper theta limit must survive a forward/inverse
	// round trip still exactly at the limit.
	s := NewDefaultSolver()
	limit := s.Limits().Theta[1]
	start := JointState{Theta: limit, Azimuth: 0, Extension: 2}

	pos, err := s.PositionFromJoint(start)
	if err != nil {
		t.Fatalf("PositionFromJoint failed: %v", err)
	}
	got := s.JointFromPosition(pos)
	if got.Theta != limit {
		t.Errorf("theta = %v, want exactly %v", got.Theta, limit)
	}
}

func TestBatchShapePreserved(t *testing.T) {
	s := NewDefaultSolver()
	targets := []r3.Vector{
		{X: 10, Y: 20, Z: 0},
		{X: 0, Y: 15, Z: 0},
		{X: 20, Y: -20, Z: 20},
		{X: 35, Y: 0, Z: 0},
	}

	joints := s.JointsFromPositions(targets)
	if len(joints) != len(targets) {
		t.Fatalf("got %d joints for %d targets", len(joints), len(targets))
	}
	for i, target := range targets {
		if joints[i] != s.JointFromPosition(target) {
			t.Errorf("batch element %d differs from single-input result", i)
		}
	}
}

func TestEmptyBatch(t *testing.T) {
	s := NewDefaultSolver()

	joints := s.JointsFromPositions(nil)
	if joints == nil || len(joints) != 0 {
		t.Errorf("JointsFromPositions(nil) = %v, want empty slice", joints)
	}

	positions, err := s.PositionsFromJoints([]JointState{})
	if err != nil {
		t.Fatalf("PositionsFromJoints failed: %v", err)
	}
	if positions == nil || len(positions) != 0 {
		t.Errorf("PositionsFromJoints([]) = %v, want empty slice", positions)
	}
}

func TestForwardBatchOrder(t *testing.T) {
	s := NewDefaultSolver()
	joints := []JointState{
		{Theta: 0.2, Azimuth: 0.1, Extension: 1},
		{Theta: -0.7, Azimuth: 0.9, Extension: -3},
	}
	positions, err := s.PositionsFromJoints(joints)
	if err != nil {
		t.Fatalf("PositionsFromJoints failed: %v", err)
	}
	for i, j := range joints {
		want, err := s.PositionFromJoint(j)
		if err != nil {
			t.Fatalf("PositionFromJoint failed: %v", err)
		}
		if positions[i] != want {
			t.Errorf("batch element %d differs from single-input result", i)
		}
	}
}

func TestForwardDomainError(t *testing.T) {
	s := NewDefaultSolver()
	_, err := s.PositionFromJoint(JointState{Theta: math.NaN()})
	if err == nil {
		t.Fatal("expected a domain error for NaN input")
	}
	if !errors.Is(err, errors.ErrKinematicsDomain) {
		t.Errorf("error code = %v, want %v", err, errors.ErrKinematicsDomain)
	}

	_, err = s.PositionsFromJoints([]JointState{
		{Theta: 0.1},
		{Azimuth: math.NaN()},
	})
	if err == nil {
		t.Fatal("expected a domain error for NaN batch element")
	}
}

func TestForwardClampsFirst(t *testing.T) {
	// Forward kinematics of an out-of-range state must match forward
	// kinematics of its clamped form.
	s := NewDefaultSolver()
	raw := JointState{Theta: 2.5, Azimuth: -4, Extension: 30}

	got, err := s.PositionFromJoint(raw)
	if err != nil {
		t.Fatalf("PositionFromJoint(raw) failed: %v", err)
	}
	want, err := s.PositionFromJoint(s.Clamp(raw))
	if err != nil {
		t.Fatalf("PositionFromJoint(clamped) failed: %v", err)
	}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestForwardTotalLength(t *testing.T) {
	// Inside the limits the pose norm equals extension plus offset.
	s := NewDefaultSolver()
	j := JointState{Theta: 0.8, Azimuth: -0.6, Extension: 4}
	pos, err := s.PositionFromJoint(j)
	if err != nil {
		t.Fatalf("PositionFromJoint failed: %v", err)
	}
	if !almostEqual(pos.Norm(), 24) {
		t.Errorf("norm = %v, want 24", pos.Norm())
	}
}

func TestWithinLimits(t *testing.T) {
	s := NewDefaultSolver()
	if !s.WithinLimits(JointState{Theta: 0.5, Azimuth: -0.5, Extension: 9}) {
		t.Error("in-range state reported out of limits")
	}
	if s.WithinLimits(JointState{Extension: 11}) {
		t.Error("out-of-range state reported within limits")
	}
}

func TestNewSolverValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Limits)
	}{
		{"theta inverted", func(l *Limits) { l.Theta = [2]float64{1, -1} }},
		{"azimuth inverted", func(l *Limits) { l.Azimuth = [2]float64{0.5, 0} }},
		{"extension inverted", func(l *Limits) { l.Extension = [2]float64{5, -5} }},
		{"theta NaN", func(l *Limits) { l.Theta[0] = math.NaN() }},
		{"offset zero", func(l *Limits) { l.LengthOffset = 0 }},
		{"offset negative", func(l *Limits) { l.LengthOffset = -3 }},
		{"offset infinite", func(l *Limits) { l.LengthOffset = math.Inf(1) }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			limits := DefaultLimits()
			tc.mutate(&limits)
			if _, err := NewSolver(limits); err == nil {
				t.Error("expected a validation error")
			}
		})
	}

	if _, err := NewSolver(DefaultLimits()); err != nil {
		t.Errorf("default limits rejected: %v", err)
	}
}

func TestCustomLimits(t *testing.T) {
	limits := Limits{
		Theta:        [2]float64{-0.5, 0.5},
		Azimuth:      [2]float64{-0.25, 0.25},
		Extension:    [2]float64{-1, 1},
		LengthOffset: 5,
	}
	s, err := NewSolver(limits)
	if err != nil {
		t.Fatalf("NewSolver failed: %v", err)
	}

	j := s.JointFromPosition(r3.Vector{X: 10, Y: 20, Z: 5})
	if j.Theta != 0.5 {
		t.Errorf("theta = %v, want clamped 0.5", j.Theta)
	}
	if j.Extension != 1 {
		t.Errorf("extension = %v, want clamped 1", j.Extension)
	}
}
