package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sunholo/gradualtype/internal/checker"
	"github.com/sunholo/gradualtype/internal/errors"
	"github.com/sunholo/gradualtype/internal/test"
)

func newScenariosCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "scenarios",
		Short: "Replay the six end-to-end checker scenarios and report pass/fail",
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := test.NewRunner()
			failed := false
			for _, sc := range Scenarios() {
				reports := runScenario(sc)
				err := verifyScenario(sc, reports)
				runner.RunTest("scenarios", sc.Name, func() error { return err })
				if err != nil {
					failed = true
				}
				if !asJSON {
					printScenarioResult(sc, reports, err)
				}
			}
			report := runner.GetReport()
			if asJSON {
				data, jsonErr := report.ToJSON()
				if jsonErr != nil {
					return jsonErr
				}
				fmt.Println(string(data))
			} else {
				fmt.Printf("\n%d/%d scenarios passed\n", report.Counts.Passed, report.Counts.Total)
			}
			if failed {
				os.Exit(1)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit a machine-readable test.Report instead of coloured text")
	return cmd
}

// runScenario runs sc.Check against a fresh Checker and returns every
// diagnostic it collected.
func runScenario(sc Scenario) []*errors.Report {
	sink := &errors.CollectingSink{}
	c := checker.New(sink, fileInfo)
	sc.Check(c)
	return sink.Reports
}

// verifyScenario checks reports against sc.Want: an empty Want means
// no diagnostic should have fired; a non-empty Want means at least one
// report of that rule must be present.
func verifyScenario(sc Scenario, reports []*errors.Report) error {
	if sc.Want == "" {
		if len(reports) != 0 {
			return fmt.Errorf("expected no diagnostics, got %d", len(reports))
		}
		return nil
	}
	for _, r := range reports {
		if r.Rule == sc.Want {
			return nil
		}
	}
	return fmt.Errorf("expected a %s diagnostic, got %d reports", sc.Want, len(reports))
}

func printScenarioResult(sc Scenario, reports []*errors.Report, err error) {
	status := green("PASS")
	if err != nil {
		status = red("FAIL")
	}
	fmt.Printf("[%s] %s — %s\n", status, bold(sc.Name), sc.Description)
	if err != nil {
		fmt.Printf("       %s\n", yellow(err.Error()))
	}
	for _, r := range reports {
		fmt.Printf("       %s: %s\n", cyan(string(r.Rule)), r.Message)
	}
}
