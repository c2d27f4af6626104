// Wire-format conversion and solve plumbing. Waypoints travel as JSON
// arrays of exactly 3 numbers: [x, y, z] for positions and
// [theta, azimuth, extension] for joint states. Anything else is
// rejected whole as malformed input.
package api

import (
	"fmt"
	"math"

	"armkin-go/pkg/errors"
	"armkin-go/pkg/kinematics"
	"armkin-go/pkg/metrics"

	"github.com/golang/geo/r3"
)

// checkTuple validates one wire tuple: exactly 3 finite numbers.
func checkTuple(kind string, i int, t []float64) error {
	if len(t) != 3 {
		return errors.KinematicsInputError(
			fmt.Sprintf("%s %d has %d elements, want 3", kind, i, len(t)))
	}
	for _, v := range t {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.KinematicsInputError(
				fmt.Sprintf("%s %d contains a non-finite value", kind, i))
		}
	}
	return nil
}

func toVectors(tuples [][]float64) ([]r3.Vector, error) {
	out := make([]r3.Vector, len(tuples))
	for i, t := range tuples {
		if err := checkTuple("position", i, t); err != nil {
			return nil, err
		}
		out[i] = r3.Vector{X: t[0], Y: t[1], Z: t[2]}
	}
	return out, nil
}

func toJoints(tuples [][]float64) ([]kinematics.JointState, error) {
	out := make([]kinematics.JointState, len(tuples))
	for i, t := range tuples {
		if err := checkTuple("joint state", i, t); err != nil {
			return nil, err
		}
		out[i] = kinematics.JointState{Theta: t[0], Azimuth: t[1], Extension: t[2]}
	}
	return out, nil
}

func fromVectors(vectors []r3.Vector) [][]float64 {
	out := make([][]float64, len(vectors))
	for i, v := range vectors {
		out[i] = []float64{v.X, v.Y, v.Z}
	}
	return out
}

func fromJoints(joints []kinematics.JointState) [][]float64 {
	out := make([][]float64, len(joints))
	for i, j := range joints {
		out[i] = []float64{j.Theta, j.Azimuth, j.Extension}
	}
	return out
}

// solveIK runs inverse kinematics over a wire batch.
func (s *Server) solveIK(positions [][]float64) ([][]float64, error) {
	done := s.metrics.SolveDuration.Timer(metrics.Labels{"op": "ik"})
	defer done()

	targets, err := toVectors(positions)
	if err != nil {
		return nil, err
	}
	joints := s.solver.JointsFromPositions(targets)

	s.metrics.Solves.Inc(metrics.Labels{"op": "ik"})
	s.metrics.Waypoints.Add(metrics.Labels{"op": "ik"}, uint64(len(targets)))
	return fromJoints(joints), nil
}

// solveFK runs forward kinematics over a wire batch.
func (s *Server) solveFK(jointTuples [][]float64) ([][]float64, error) {
	done := s.metrics.SolveDuration.Timer(metrics.Labels{"op": "fk"})
	defer done()

	joints, err := toJoints(jointTuples)
	if err != nil {
		return nil, err
	}
	for _, j := range joints {
		if !s.solver.WithinLimits(j) {
			s.metrics.ClampedInputs.Inc(metrics.Labels{"op": "fk"})
		}
	}

	positions, err := s.solver.PositionsFromJoints(joints)
	if err != nil {
		return nil, err
	}

	s.metrics.Solves.Inc(metrics.Labels{"op": "fk"})
	s.metrics.Waypoints.Add(metrics.Labels{"op": "fk"}, uint64(len(joints)))
	return fromVectors(positions), nil
}
