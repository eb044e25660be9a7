// Command audiometry drives the psychoacoustic threshold tests from the
// command line: simulated staircase sessions against a model listener,
// and spectral verification of the synthesized stimuli.
//
// Examples:
//
//	audiometry simulate --test gap --sessions 5 --out-dir ./data
//	audiometry simulate --test both --seed 42
//	audiometry verify --test pitch --value 25
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jar-jar-binks-comits/bilingual-hearing-study/config"
)

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "audiometry",
	Short: "Adaptive psychoacoustic threshold measurement",
	Long: `Adaptive psychoacoustic threshold measurement.

Runs 3-down-1-up staircase sessions for gap detection and pitch
discrimination, synthesizing the two-interval stimuli exactly as in the
hearing study. Sessions are driven by a simulated listener; results are
written as flat CSV files.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			logrus.SetLevel(logrus.DebugLevel)
		} else {
			logrus.SetLevel(logrus.WarnLevel)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "experiment YAML file (defaults to study parameters)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(verifyCmd)
}

// loadExperiment returns the configured or default experiment parameters.
func loadExperiment() (config.Experiment, error) {
	if configPath == "" {
		return config.Default(), nil
	}
	return config.Load(configPath)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
