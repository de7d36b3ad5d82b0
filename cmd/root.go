package cmd

import (
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/jdangerx/cyclus/sim"
	"github.com/jdangerx/cyclus/sim/scenario"
)

var (
	// CLI flags
	scenarioPath string // Path to the XML scenario file
	logLevel     string // Log verbosity level
	duration     int    // Override for control/duration (0 = use scenario)
	defaultsPath string // Optional YAML defaults file
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "cyclus",
	Short: "Agent-based fuel cycle simulator",
}

// runCmd executes a scenario using parameters from CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a simulation scenario",
	Run: func(cmd *cobra.Command, args []string) {
		if defaultsPath != "" {
			applyDefaults(loadDefaultsConfig(defaultsPath))
		}

		// Set up logging
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		if scenarioPath == "" {
			logrus.Fatalf("No scenario file provided. Exiting simulation.")
		}

		doc, err := scenario.Load(scenarioPath)
		if err != nil {
			logrus.Fatalf("Failed to load scenario: %v", err)
		}
		if duration > 0 {
			doc.Control.Duration = duration
		}

		s, err := sim.FromScenario(doc)
		if err != nil {
			logrus.Fatalf("Failed to build simulation: %v", err)
		}

		logrus.Infof("Starting simulation %q: duration=%d steps, %d prototypes",
			doc.Control.SimHandle, doc.Control.Duration, len(doc.Prototypes))
		startTime := time.Now()

		if err := s.Run(); err != nil {
			logrus.Fatalf("Simulation failed: %v", err)
		}
		s.Metrics.Print()

		logrus.Infof("Simulation complete in %v.", time.Since(startTime))
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	runCmd.Flags().StringVar(&scenarioPath, "scenario", "", "Path to the XML scenario file")
	runCmd.Flags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")
	runCmd.Flags().IntVar(&duration, "duration", 0, "Override the scenario's timestep count")
	runCmd.Flags().StringVar(&defaultsPath, "defaults", "", "Path to a YAML defaults file")

	// Attach `run` as a subcommand to `root`
	rootCmd.AddCommand(runCmd)
}
