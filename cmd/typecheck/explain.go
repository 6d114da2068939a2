package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/sunholo/gradualtype/internal/checker"
	"github.com/sunholo/gradualtype/internal/errors"
)

func newExplainCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "explain",
		Short: "Interactively replay named fixtures and inspect their diagnostics",
		RunE: func(cmd *cobra.Command, args []string) error {
			runExplainRepl(os.Stdout)
			return nil
		},
	}
}

func runExplainRepl(out io.Writer) {
	line := liner.NewLiner()
	defer line.Close()

	historyFile := filepath.Join(os.TempDir(), ".gradualtype_explain_history")
	if f, err := os.Open(historyFile); err == nil {
		_, _ = line.ReadHistory(f)
		f.Close()
	}
	line.SetMultiLineMode(false)

	names := scenarioNames()
	line.SetCompleter(func(input string) (c []string) {
		if !strings.HasPrefix(input, ":run ") {
			for _, cmd := range []string{":list", ":run ", ":quit"} {
				if strings.HasPrefix(cmd, input) {
					c = append(c, cmd)
				}
			}
			return
		}
		prefix := strings.TrimPrefix(input, ":run ")
		for _, n := range names {
			if strings.HasPrefix(n, prefix) {
				c = append(c, ":run "+n)
			}
		}
		return
	})

	fmt.Fprintln(out, bold("gradualtype explain"))
	fmt.Fprintln(out, "Type :list to see fixtures, :run <name> to check one, :quit to exit.")

	for {
		input, err := line.Prompt("explain> ")
		if err == io.EOF {
			fmt.Fprintln(out, green("\nGoodbye!"))
			break
		}
		if err != nil {
			fmt.Fprintf(out, "%s: %v\n", red("Error"), err)
			continue
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		switch {
		case input == ":quit" || input == ":q":
			fmt.Fprintln(out, green("Goodbye!"))
			if f, err := os.Create(historyFile); err == nil {
				_, _ = line.WriteHistory(f)
				f.Close()
			}
			return
		case input == ":list":
			for _, n := range names {
				fmt.Fprintln(out, " "+cyan(n))
			}
		case strings.HasPrefix(input, ":run "):
			explainRun(out, strings.TrimSpace(strings.TrimPrefix(input, ":run ")))
		default:
			fmt.Fprintln(out, yellow("unrecognised command, try :list, :run <name>, or :quit"))
		}
	}

	if f, err := os.Create(historyFile); err == nil {
		_, _ = line.WriteHistory(f)
		f.Close()
	}
}

func scenarioNames() []string {
	scenarios := Scenarios()
	names := make([]string, len(scenarios))
	for i, sc := range scenarios {
		names[i] = sc.Name
	}
	return names
}

func explainRun(out io.Writer, name string) {
	sc, ok := findScenario(name)
	if !ok {
		fmt.Fprintf(out, "%s: unknown fixture %q\n", red("Error"), name)
		return
	}
	sink := &errors.CollectingSink{}
	c := checker.New(sink, fileInfo)
	sc.Check(c)
	fmt.Fprintf(out, "%s — %s\n", bold(sc.Name), sc.Description)
	if len(sink.Reports) == 0 {
		fmt.Fprintln(out, " "+green("(no diagnostics)"))
		return
	}
	for _, r := range sink.Reports {
		fmt.Fprintf(out, " %s: %s\n", cyan(string(r.Rule)), r.Message)
	}
}
