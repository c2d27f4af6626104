// Package kinematics implements closed-form forward and inverse kinematics
// for a simplified 3 degree-of-freedom arm: a rotation in the XY plane
// (theta), a rotation in the XZ plane (azimuth), and a signed linear
// extension along the arm axis. All angles are measured from the fixed
// reference axis (1, 0, 0).
package kinematics

import (
	"math"

	"github.com/golang/geo/r3"

	"armkin-go/pkg/errors"
)

// Default joint limits and nominal reach. Extension and length offset are
// in the same length units as cartesian coordinates.
const (
	DefaultThetaMin     = -math.Pi / 2
	DefaultThetaMax     = math.Pi / 2
	DefaultAzimuthMin   = -math.Pi / 2
	DefaultAzimuthMax   = math.Pi / 2
	DefaultExtensionMin = -10.0
	DefaultExtensionMax = 10.0
	DefaultLengthOffset = 20.0
)

// basePos is the reference axis all angles are measured from.
var basePos = r3.Vector{X: 1, Y: 0, Z: 0}

// JointState is one arm pose: two angles in radians plus the extension
// beyond (positive) or within (negative) the nominal reach. It is a plain
// value; solver operations return fresh states and never mutate inputs.
type JointState struct {
	Theta     float64
	Azimuth   float64
	Extension float64
}

// Limits holds the solver configuration: a [min, max] pair per joint and
// the nominal reach length at zero extension. Set once at construction.
type Limits struct {
	Theta        [2]float64
	Azimuth      [2]float64
	Extension    [2]float64
	LengthOffset float64
}

// DefaultLimits returns the stock arm geometry.
func DefaultLimits() Limits {
	return Limits{
		Theta:        [2]float64{DefaultThetaMin, DefaultThetaMax},
		Azimuth:      [2]float64{DefaultAzimuthMin, DefaultAzimuthMax},
		Extension:    [2]float64{DefaultExtensionMin, DefaultExtensionMax},
		LengthOffset: DefaultLengthOffset,
	}
}

// Solver computes joint states from cartesian targets and back. Its
// configuration is read-only after construction, so a single instance is
// safe for concurrent use.
type Solver struct {
	limits Limits
}

// NewSolver creates a solver with the given limits.
func NewSolver(limits Limits) (*Solver, error) {
	pairs := []struct {
		name   string
		bounds [2]float64
	}{
		{"theta", limits.Theta},
		{"azimuth", limits.Azimuth},
		{"extension", limits.Extension},
	}
	for _, p := range pairs {
		if math.IsNaN(p.bounds[0]) || math.IsNaN(p.bounds[1]) {
			return nil, errors.ConfigValidationError("arm", p.name, "limit is NaN")
		}
		if p.bounds[0] > p.bounds[1] {
			return nil, errors.ConfigValidationError("arm", p.name, "min limit exceeds max limit")
		}
	}
	if math.IsNaN(limits.LengthOffset) || math.IsInf(limits.LengthOffset, 0) {
		return nil, errors.ConfigValidationError("arm", "length_offset", "must be finite")
	}
	if limits.LengthOffset <= 0 {
		return nil, errors.ConfigValidationError("arm", "length_offset", "must be positive")
	}
	return &Solver{limits: limits}, nil
}

// NewDefaultSolver creates a solver with DefaultLimits.
func NewDefaultSolver() *Solver {
	return &Solver{limits: DefaultLimits()}
}

// Limits returns the solver configuration.
func (s *Solver) Limits() Limits {
	return s.limits
}

// Clamp saturates each joint component to its configured range. Out of
// range values are silently capped, never rejected: the solver always
// yields a physically realizable state. Clamping is idempotent.
func (s *Solver) Clamp(j JointState) JointState {
	return JointState{
		Theta:     clamp(j.Theta, s.limits.Theta),
		Azimuth:   clamp(j.Azimuth, s.limits.Azimuth),
		Extension: clamp(j.Extension, s.limits.Extension),
	}
}

// WithinLimits reports whether clamping the state would be a no-op.
func (s *Solver) WithinLimits(j JointState) bool {
	return j == s.Clamp(j)
}

func clamp(v float64, bounds [2]float64) float64 {
	return math.Min(math.Max(v, bounds[0]), bounds[1])
}
