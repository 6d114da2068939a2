package main

import (
	"fmt"
	"sync"

	"github.com/spf13/cobra"

	"github.com/sunholo/gradualtype/internal/checker"
	"github.com/sunholo/gradualtype/internal/errors"
)

func findScenario(name string) (Scenario, bool) {
	for _, sc := range Scenarios() {
		if sc.Name == name {
			return sc, true
		}
	}
	return Scenario{}, false
}

// newCheckCmd builds `check <scenario> [--jobs N]`: runs one named
// fixture through N independent checker.Checker instances over a
// sync.WaitGroup, demonstrating that a Checker owns exactly one
// Evaluator/Sink and carries no state shared across files.
func newCheckCmd() *cobra.Command {
	var jobs int
	cmd := &cobra.Command{
		Use:   "check <scenario>",
		Short: "Run one named fixture through --jobs concurrent Checker instances",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, ok := findScenario(args[0])
			if !ok {
				return fmt.Errorf("unknown scenario %q (see `typecheck scenarios`)", args[0])
			}
			if jobs < 1 {
				jobs = 1
			}

			results := make([][]*errors.Report, jobs)
			var wg sync.WaitGroup
			for i := 0; i < jobs; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					sink := &errors.CollectingSink{}
					c := checker.New(sink, fileInfo)
					sc.Check(c)
					results[i] = sink.Reports
				}(i)
			}
			wg.Wait()

			fmt.Printf("%s — %s\n", bold(sc.Name), sc.Description)
			fmt.Printf("ran across %d independent checker.Checker instance(s)\n", jobs)
			for i, reports := range results {
				fmt.Printf(" job %d:\n", i)
				if len(reports) == 0 {
					fmt.Println("   " + green("(no diagnostics)"))
					continue
				}
				for _, r := range reports {
					fmt.Printf("   %s: %s\n", cyan(string(r.Rule)), r.Message)
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&jobs, "jobs", 1, "number of independent checker.Checker instances to run the fixture through concurrently")
	return cmd
}
