// armkin is the host tool for the 3-DOF arm kinematics solver.
// It can run a one-shot demonstration solve and serve the solver over
// HTTP/websocket for planner clients.
//
// Usage:
//
//	armkin [options]
//
// Options:
//
//	-config string  Arm configuration file (optional, defaults apply)
//	-listen string  Solve API listen address (overrides [api] listen)
//	-demo           Solve a few example waypoints and print the results
//	-logfile string Log file path (default: stderr)
//	-trace          Enable debug logging
//
// Examples:
//
//	# Inspect the stock geometry
//	armkin -demo
//
//	# Serve the solver for a planner
//	armkin -config arm.cfg -listen :8171
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang/geo/r3"

	"armkin-go/pkg/api"
	"armkin-go/pkg/config"
	"armkin-go/pkg/kinematics"
	"armkin-go/pkg/log"
)

func main() {
	configFile := flag.String("config", "", "Arm configuration file (optional)")
	listenAddr := flag.String("listen", "", "Solve API listen address (overrides config)")
	demo := flag.Bool("demo", false, "Solve example waypoints and print the results")
	logFile := flag.String("logfile", "", "Log file path (default: stderr)")
	trace := flag.Bool("trace", false, "Enable debug logging")

	flag.Parse()

	// Component loggers derive from the default logger, so writer and
	// level are set there before anything else is constructed.
	base := log.New("armkin")
	log.ConfigureFromEnv(base)
	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		base.SetWriter(f)
		base.SetColorize(false)
	}
	log.SetDefaultLogger(base)
	logger := log.GetLogger("main")

	cfg := config.DefaultArmConfig()
	if *configFile != "" {
		var err error
		cfg, err = config.ParseArmConfig(*configFile)
		if err != nil {
			logger.Error("Error parsing config: %v", err)
			os.Exit(1)
		}
		logger.Info("Config: %s", *configFile)
	}

	if *trace {
		base.SetLevel(log.DEBUG)
	} else {
		base.SetLevel(log.ParseLevel(cfg.LogLevel))
	}
	logger = log.GetLogger("main")
	if *listenAddr != "" {
		cfg.ListenAddr = *listenAddr
	}

	solver, err := kinematics.NewSolver(cfg.Limits)
	if err != nil {
		logger.Error("Invalid arm geometry: %v", err)
		os.Exit(1)
	}

	limits := solver.Limits()
	logger.Info("Arm geometry: theta=[%.4f, %.4f] azimuth=[%.4f, %.4f] extension=[%.1f, %.1f] offset=%.1f",
		limits.Theta[0], limits.Theta[1],
		limits.Azimuth[0], limits.Azimuth[1],
		limits.Extension[0], limits.Extension[1],
		limits.LengthOffset)

	if *demo {
		runDemo(solver)
	}

	if cfg.ListenAddr == "" {
		if !*demo {
			fmt.Fprintln(os.Stderr, "Nothing to do: pass -demo or configure a listen address")
			flag.Usage()
			os.Exit(1)
		}
		return
	}

	server := api.New(api.Config{Addr: cfg.ListenAddr, Solver: solver})

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("Received %v, shutting down", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("Shutdown error: %v", err)
		}
	case err := <-errCh:
		if err != nil {
			logger.Error("Server error: %v", err)
			os.Exit(1)
		}
	}
}

// runDemo solves a few example waypoints and prints both directions.
func runDemo(solver *kinematics.Solver) {
	targets := []r3.Vector{
		{X: 10, Y: 20, Z: 0},  // reachable, theta rotation only
		{X: 0, Y: 15, Z: 0},   // on the Y axis: azimuth singularity
		{X: 20, Y: 20, Z: 20}, // beyond full extension: clamps
	}

	joints := solver.JointsFromPositions(targets)
	for i, target := range targets {
		j := joints[i]
		fmt.Printf("target (%.3f, %.3f, %.3f) -> theta=%.4f azimuth=%.4f extension=%.4f\n",
			target.X, target.Y, target.Z, j.Theta, j.Azimuth, j.Extension)

		pos, err := solver.PositionFromJoint(j)
		if err != nil {
			fmt.Printf("  forward kinematics failed: %v\n", err)
			continue
		}
		fmt.Printf("  forward -> (%.3f, %.3f, %.3f)\n", pos.X, pos.Y, pos.Z)
	}
}
