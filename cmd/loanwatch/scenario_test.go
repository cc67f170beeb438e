package main

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
}

func TestLoadScenario_Testdata(t *testing.T) {
	sc, err := loadScenario(filepath.Join("testdata", "aliasing.toml"))
	if err != nil {
		t.Fatalf("loadScenario failed: %v", err)
	}
	if sc.Arena != 256 {
		t.Fatalf("Arena = %d, want 256", sc.Arena)
	}
	if len(sc.Regions) != 2 || len(sc.Buffers) != 1 {
		t.Fatalf("Targets = %d regions, %d buffers", len(sc.Regions), len(sc.Buffers))
	}
	if len(sc.Steps) != 13 {
		t.Fatalf("Steps = %d, want 13", len(sc.Steps))
	}
}

func TestLoadScenario_Validation(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"no targets", `[[steps]]
op = "shared"
target = "x"`},
		{"unknown target", `[[buffers]]
name = "a"
size = 8
[[steps]]
op = "shared"
target = "b"`},
		{"settle unknown guard", `[[buffers]]
name = "a"
size = 8
[[steps]]
op = "settle"
guard = "g"`},
		{"bad expectation", `[[buffers]]
name = "a"
size = 8
[[steps]]
op = "shared"
target = "a"
expect = "maybe"`},
		{"settle cannot fail", `[[buffers]]
name = "a"
size = 8
[[steps]]
op = "exclusive"
target = "a"
as = "g"
[[steps]]
op = "settle"
guard = "g"
expect = "frozen"`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.toml")
			writeFile(t, path, tc.body)
			if _, err := loadScenario(path); err == nil {
				t.Fatal("loadScenario should reject the scenario")
			}
		})
	}
}

func TestRunner_PlaysScenario(t *testing.T) {
	sc, err := loadScenario(filepath.Join("testdata", "aliasing.toml"))
	if err != nil {
		t.Fatalf("loadScenario failed: %v", err)
	}
	r, err := newRunner(sc)
	if err != nil {
		t.Fatalf("newRunner failed: %v", err)
	}

	played := 0
	for {
		res, ok := r.Step()
		if !ok {
			break
		}
		played++
		if !res.Expected {
			t.Fatalf("Step %d (%s %s) did not meet expectation %q: %v",
				res.Index+1, res.Step.Op, res.Step.Target, res.Step.Expect, res.Err)
		}
	}
	if played != len(sc.Steps) {
		t.Fatalf("Played %d steps, want %d", played, len(sc.Steps))
	}
	if leak := r.Finish(); leak != nil {
		t.Fatalf("Scenario leaked loans: %v", leak)
	}
}

func TestRunner_ReportsLeak(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leak.toml")
	writeFile(t, path, `[[buffers]]
name = "a"
size = 8
[[steps]]
op = "shared"
target = "a"`)

	sc, err := loadScenario(path)
	if err != nil {
		t.Fatalf("loadScenario failed: %v", err)
	}
	r, err := newRunner(sc)
	if err != nil {
		t.Fatalf("newRunner failed: %v", err)
	}
	for {
		if _, ok := r.Step(); !ok {
			break
		}
	}
	leak := r.Finish()
	if leak == nil {
		t.Fatal("Finish should report the unreleased guard")
	}
	if leak.Count != 1 {
		t.Fatalf("Leaked %d loans, want 1", leak.Count)
	}
}
