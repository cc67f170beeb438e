package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/guestmem/borrow"
)

func main() {
	var (
		scenarioPath = flag.String("scenario", "", "Path to scenario toml file")
		interactive  = flag.Bool("i", false, "Interactive mode with TUI")
		debug        = flag.Bool("debug", false, "Enable debug logging of ledger transitions")
	)
	flag.Parse()

	if *scenarioPath == "" {
		fmt.Fprintln(os.Stderr, "Usage: loanwatch -scenario <file.toml>")
		fmt.Fprintln(os.Stderr, "       loanwatch -scenario <file.toml> -i  (interactive mode)")
		os.Exit(1)
	}

	if *debug {
		logger, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer logger.Sync()
		borrow.SetLogger(logger)
	}

	if *interactive {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			fmt.Fprintln(os.Stderr, "Error: interactive mode needs a terminal")
			os.Exit(1)
		}
		if err := runInteractive(*scenarioPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(*scenarioPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(path string) error {
	sc, err := loadScenario(path)
	if err != nil {
		return err
	}
	runner, err := newRunner(sc)
	if err != nil {
		return err
	}

	fmt.Printf("Scenario: %s (%d steps)\n", path, len(sc.Steps))
	fmt.Printf("Targets:\n")
	for _, ts := range runner.TargetStates() {
		fmt.Printf("  %-12s %-6s %6d B\n", ts.Name, ts.Kind, ts.Size)
	}
	fmt.Println()

	failed := 0
	for {
		res, ok := runner.Step()
		if !ok {
			break
		}
		status := "PASS"
		if !res.Expected {
			status = "FAIL"
			failed++
		}
		fmt.Printf("%3d. %-52s %s\n", res.Index+1, describeStep(res), status)
	}

	if leak := runner.Finish(); leak != nil {
		fmt.Printf("\nOutstanding at end: %d loan(s) never settled\n", leak.Count)
	} else {
		fmt.Println("\nAll loans settled")
	}

	if failed > 0 {
		return fmt.Errorf("%d step(s) did not match expectations", failed)
	}
	return nil
}

func describeStep(res StepResult) string {
	s := res.Step
	var what string
	switch s.Op {
	case opShared, opExclusive:
		what = s.Op + " " + s.Target
		if s.As != "" {
			what += " as " + s.As
		}
	case opSettle:
		what = "settle " + s.Guard
	}
	outcome := "ok"
	if res.Err != nil {
		outcome = res.Err.Error()
	}
	return fmt.Sprintf("%-26s -> %s", what, outcome)
}
