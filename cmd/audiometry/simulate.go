package main

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/jar-jar-binks-comits/bilingual-hearing-study/analysis"
	"github.com/jar-jar-binks-comits/bilingual-hearing-study/config"
	"github.com/jar-jar-binks-comits/bilingual-hearing-study/record"
	"github.com/jar-jar-binks-comits/bilingual-hearing-study/session"
	"github.com/jar-jar-binks-comits/bilingual-hearing-study/staircase"
	"github.com/jar-jar-binks-comits/bilingual-hearing-study/stimulus"
)

var (
	simTest        string
	simSessions    int
	simCondition   string
	simSeed        int64
	simSlope       float64
	simGapThresh   float64
	simPitchThresh float64
	simOutDir      string
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run staircase sessions against a simulated listener",
	Long: `Run complete staircase sessions against a simulated listener.

Each session drives the 3-down-1-up procedure with responses drawn from
a psychometric function centered on the listener's true threshold, so
the measured thresholds can be compared against known ground truth.
Trial logs and threshold summaries are written as CSV files.`,
	RunE: runSimulate,
}

func init() {
	simulateCmd.Flags().StringVarP(&simTest, "test", "t", "both", "test to run: gap, pitch or both")
	simulateCmd.Flags().IntVarP(&simSessions, "sessions", "n", 1, "sessions per test")
	simulateCmd.Flags().StringVar(&simCondition, "condition", "simulated", "condition label for summary grouping")
	simulateCmd.Flags().Int64Var(&simSeed, "seed", 0, "random seed (0 uses the current time)")
	simulateCmd.Flags().Float64Var(&simSlope, "slope", 2.0, "psychometric slope of the listener")
	simulateCmd.Flags().Float64Var(&simGapThresh, "gap-threshold", 0.005, "listener's true gap threshold in seconds")
	simulateCmd.Flags().Float64Var(&simPitchThresh, "pitch-threshold", 4.0, "listener's true pitch threshold in Hz")
	simulateCmd.Flags().StringVarP(&simOutDir, "out-dir", "o", "", "directory for CSV output (omit to skip writing)")
}

func runSimulate(cmd *cobra.Command, args []string) error {
	exp, err := loadExperiment()
	if err != nil {
		return err
	}

	tests, err := selectTests(simTest)
	if err != nil {
		return err
	}

	seed := simSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	var (
		trials       []session.Trial
		thresholds   []record.ThresholdRow
		measurements []analysis.Measurement
	)

	for _, testType := range tests {
		trueThreshold := simGapThresh
		if testType == stimulus.TestPitch {
			trueThreshold = simPitchThresh
		}

		for i := 0; i < simSessions; i++ {
			result, sessionTrials, err := runOneSession(exp, testType, trueThreshold, rng)
			if err != nil {
				return err
			}

			trials = append(trials, sessionTrials...)
			thresholds = append(thresholds, record.ThresholdRow{
				Session:   sessionTrials[0].Session,
				Result:    result,
				Timestamp: time.Now(),
			})
			measurements = append(measurements, analysis.Measurement{
				Condition: simCondition,
				TestType:  result.TestType,
				Threshold: result.Threshold,
			})

			degraded := ""
			if result.Degraded {
				degraded = " (degraded)"
			}
			fmt.Printf("%s session %d/%d: threshold %.5g %s after %d trials, %d reversals%s\n",
				result.TestType, i+1, simSessions, result.Threshold, result.Unit,
				result.TrialCount, result.ReversalCount, degraded)
		}

		fmt.Printf("true %s threshold: %.5g %s\n\n", testType.String(), trueThreshold, testType.Unit())
	}

	printSummaries(analysis.Summarize(measurements))

	if simOutDir != "" {
		if err := writeResults(simOutDir, trials, thresholds); err != nil {
			return err
		}
	}

	return nil
}

// runOneSession builds a fresh controller, synthesizer and listener and
// runs a single staircase to completion.
func runOneSession(exp config.Experiment, testType stimulus.TestType, trueThreshold float64, rng *rand.Rand) (staircase.Result, []session.Trial, error) {
	ctrl, err := staircase.New(exp.StaircaseConfig(testType))
	if err != nil {
		return staircase.Result{}, nil, err
	}

	synth, err := stimulus.New(exp.StimulusConfig(), stimulus.WithSeed(rng.Int63()))
	if err != nil {
		return staircase.Result{}, nil, err
	}

	listener, err := session.NewSimulatedListener(trueThreshold, simSlope, rng.Int63())
	if err != nil {
		return staircase.Result{}, nil, err
	}

	runner, err := session.NewRunner(testType, synth, ctrl, listener,
		session.WithRand(rand.New(rand.NewSource(rng.Int63()))))
	if err != nil {
		return staircase.Result{}, nil, err
	}

	result, err := runner.Run()
	if err != nil {
		return staircase.Result{}, nil, err
	}

	return result, runner.Trials(), nil
}

func selectTests(name string) ([]stimulus.TestType, error) {
	if name == "both" {
		return []stimulus.TestType{stimulus.TestGap, stimulus.TestPitch}, nil
	}

	t, err := stimulus.ParseTestType(name)
	if err != nil {
		return nil, err
	}
	return []stimulus.TestType{t}, nil
}

func printSummaries(summaries []analysis.Summary) {
	if len(summaries) == 0 {
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "condition\ttest\tn\tmean\tstd\tsem\tmin\tmax")
	for _, s := range summaries {
		fmt.Fprintf(w, "%s\t%s\t%d\t%.5g\t%.5g\t%.5g\t%.5g\t%.5g\n",
			s.Condition, s.TestType, s.N, s.Mean, s.Std, s.SEM, s.Min, s.Max)
	}
	w.Flush()
}

func writeResults(dir string, trials []session.Trial, thresholds []record.ThresholdRow) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	stamp := time.Now().Format("20060102_150405")

	trialPath := filepath.Join(dir, fmt.Sprintf("trials_%s.csv", stamp))
	f, err := os.Create(trialPath)
	if err != nil {
		return err
	}
	if err := record.WriteTrials(f, trials); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	threshPath := filepath.Join(dir, fmt.Sprintf("thresholds_%s.csv", stamp))
	f, err = os.Create(threshPath)
	if err != nil {
		return err
	}
	if err := record.WriteThresholds(f, thresholds); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	fmt.Printf("\nwrote %s and %s\n", trialPath, threshPath)
	return nil
}
