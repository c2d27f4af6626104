// Closed-form inverse and forward kinematics for the 3-DOF arm model.
package kinematics

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"

	"armkin-go/pkg/errors"
)

// JointFromPosition solves inverse kinematics for a single cartesian
// target. Each angle is recovered from the target's projection onto the
// corresponding plane; a target projecting to the zero vector is the
// singular case and defaults that angle to zero. Unreachable targets
// saturate at the joint limits rather than failing.
func (s *Solver) JointFromPosition(target r3.Vector) JointState {
	raw := JointState{
		Theta:     planarAngle(r3.Vector{X: target.X, Y: target.Y}),
		Azimuth:   planarAngle(r3.Vector{X: target.X, Z: target.Z}),
		Extension: target.Norm() - s.limits.LengthOffset,
	}
	return s.Clamp(raw)
}

// JointsFromPositions solves inverse kinematics for an ordered batch of
// waypoints. The result has the same length and order as the input;
// element i equals JointFromPosition(targets[i]).
func (s *Solver) JointsFromPositions(targets []r3.Vector) []JointState {
	joints := make([]JointState, len(targets))
	for i, target := range targets {
		joints[i] = s.JointFromPosition(target)
	}
	return joints
}

// PositionFromJoint solves forward kinematics for a single joint state.
// The state is clamped first, so forward kinematics always evaluates a
// physically valid pose. The convention is Y/X = tan(theta) and
// Z/X = tan(azimuth). In float64 the tangent stays finite even at an
// angle of exactly ±π/2, but non-finite input produces a non-finite
// pose, which is reported as a domain error.
func (s *Solver) PositionFromJoint(joint JointState) (r3.Vector, error) {
	j := s.Clamp(joint)

	total := j.Extension + s.limits.LengthOffset
	tanTheta := math.Tan(j.Theta)
	tanAz := math.Tan(j.Azimuth)

	// X² + Y² + Z² = L² combined with the two tangent constraints gives
	// the squared projection lengths in each plane.
	ratio := total * total / (1 + tanTheta*tanTheta + tanAz*tanAz)
	projXY := math.Sqrt(ratio * (1 + tanTheta*tanTheta))
	projXZ := math.Sqrt(ratio * (1 + tanAz*tanAz))

	pos := r3.Vector{
		X: math.Cos(j.Theta) * projXY,
		Y: math.Sin(j.Theta) * projXY,
		Z: math.Sin(j.Azimuth) * projXZ,
	}
	if !finite(pos) {
		return r3.Vector{}, errors.KinematicsDomainError(
			fmt.Sprintf("forward kinematics produced a non-finite position for theta=%v azimuth=%v extension=%v",
				j.Theta, j.Azimuth, j.Extension))
	}
	return pos, nil
}

// PositionsFromJoints solves forward kinematics for an ordered batch.
// It fails on the first state whose pose is non-finite, naming its index.
func (s *Solver) PositionsFromJoints(joints []JointState) ([]r3.Vector, error) {
	positions := make([]r3.Vector, len(joints))
	for i, j := range joints {
		pos, err := s.PositionFromJoint(j)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrKinematicsDomain,
				fmt.Sprintf("waypoint %d", i))
		}
		positions[i] = pos
	}
	return positions, nil
}

// planarAngle returns the signed angle between the reference axis and a
// target's projection onto the XY or XZ plane. The zero projection is
// the singularity: the in-plane direction is undefined, so the angle
// defaults to zero.
func planarAngle(proj r3.Vector) float64 {
	n := proj.Norm()
	if n == 0 {
		return 0
	}
	unit := proj.Mul(1 / n)
	dot := math.Max(-1, math.Min(1, basePos.Dot(unit)))
	return rotationSign(basePos.Cross(unit)) * math.Acos(dot)
}

// rotationSign classifies the rotation sense from the cross product of
// the reference axis with a unit vector confined to the XY or XZ plane.
// Such a cross product is parallel to a single coordinate axis, so the
// sense is read off the sign of that one component: positive rotation
// points the cross toward +Z (XY plane) or -Y (XZ plane). A zero cross
// means the projection coincides with the reference axis.
func rotationSign(cross r3.Vector) float64 {
	switch {
	case cross.Z != 0:
		return math.Copysign(1, cross.Z)
	case cross.Y != 0:
		return -math.Copysign(1, cross.Y)
	default:
		return 1
	}
}

func finite(v r3.Vector) bool {
	for _, c := range []float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}
