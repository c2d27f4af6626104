// Solver-facing metric definitions for the solve service
//
// Copyright (C) 2026  Armkin Authors
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package metrics

// SolverMetrics bundles the metrics exported by the solve service.
// Counters are labeled with op=ik or op=fk.
type SolverMetrics struct {
	Registry *Registry

	// Solves counts solve requests per operation
	Solves *Counter

	// Waypoints counts individual waypoints processed per operation
	Waypoints *Counter

	// ClampedInputs counts forward-kinematics inputs that were outside
	// the joint limits and had to be saturated
	ClampedInputs *Counter

	// Errors counts failed requests per error code
	Errors *Counter

	// SolveDuration observes per-request solve time in seconds
	SolveDuration *Histogram

	// StreamClients tracks currently connected websocket clients
	StreamClients *Gauge
}

// NewSolverMetrics creates and registers the solve service metrics.
func NewSolverMetrics() *SolverMetrics {
	m := &SolverMetrics{
		Registry:      NewRegistry(),
		Solves:        NewCounter("armkin_solves_total", "Solve requests processed"),
		Waypoints:     NewCounter("armkin_waypoints_total", "Waypoints solved"),
		ClampedInputs: NewCounter("armkin_clamped_inputs_total", "Joint inputs saturated to limits"),
		Errors:        NewCounter("armkin_errors_total", "Failed solve requests"),
		SolveDuration: NewHistogram("armkin_solve_duration_seconds", "Solve request duration", DefaultBuckets()),
		StreamClients: NewGauge("armkin_stream_clients", "Connected websocket clients"),
	}
	m.Registry.MustRegister(m.Solves)
	m.Registry.MustRegister(m.Waypoints)
	m.Registry.MustRegister(m.ClampedInputs)
	m.Registry.MustRegister(m.Errors)
	m.Registry.MustRegister(m.SolveDuration)
	m.Registry.MustRegister(m.StreamClients)
	return m
}
