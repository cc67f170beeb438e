package main

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	opShared    = "shared"
	opExclusive = "exclusive"
	opSettle    = "settle"

	expectOK            = "ok"
	expectExclusiveHeld = "exclusive_held"
	expectFrozen        = "frozen"
)

const defaultArenaSize = 4096

// Scenario is a loan script: borrowable targets plus the steps to play
// against a single access scope.
type Scenario struct {
	Path    string
	Arena   uint32
	Buffers []BufferDef
	Regions []RegionDef
	Steps   []Step
}

// BufferDef describes a pinned host buffer target.
type BufferDef struct {
	Name string
	Size uint32
}

// RegionDef describes a window into the scenario's memory arena.
type RegionDef struct {
	Name   string
	Offset uint32
	Size   uint32
}

// Step is one scripted action. Borrow steps may carry a guard label (As)
// so a later settle step can release them; a borrow without a label can
// never be settled, which is how leak scenarios are written.
type Step struct {
	Op     string
	Target string
	As     string
	Guard  string
	Expect string
}

type scenarioFile struct {
	Arena   uint32 `toml:"arena"`
	Buffers []struct {
		Name string `toml:"name"`
		Size uint32 `toml:"size"`
	} `toml:"buffers"`
	Regions []struct {
		Name   string `toml:"name"`
		Offset uint32 `toml:"offset"`
		Size   uint32 `toml:"size"`
	} `toml:"regions"`
	Steps []struct {
		Op     string `toml:"op"`
		Target string `toml:"target"`
		As     string `toml:"as"`
		Guard  string `toml:"guard"`
		Expect string `toml:"expect"`
	} `toml:"steps"`
}

// loadScenario parses and validates a scenario file. Target sizes are not
// checked here; carving the targets at runner setup surfaces the library's
// own errors for bad definitions.
func loadScenario(path string) (*Scenario, error) {
	var raw scenarioFile
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return nil, fmt.Errorf("load scenario: %w", err)
	}

	sc := &Scenario{Path: path, Arena: defaultArenaSize}
	if meta.IsDefined("arena") {
		sc.Arena = raw.Arena
	}

	targets := make(map[string]bool)
	for i, b := range raw.Buffers {
		name := strings.TrimSpace(b.Name)
		if name == "" {
			return nil, fmt.Errorf("scenario: buffer %d has no name", i+1)
		}
		if targets[name] {
			return nil, fmt.Errorf("scenario: duplicate target %q", name)
		}
		targets[name] = true
		sc.Buffers = append(sc.Buffers, BufferDef{Name: name, Size: b.Size})
	}
	for i, r := range raw.Regions {
		name := strings.TrimSpace(r.Name)
		if name == "" {
			return nil, fmt.Errorf("scenario: region %d has no name", i+1)
		}
		if targets[name] {
			return nil, fmt.Errorf("scenario: duplicate target %q", name)
		}
		targets[name] = true
		sc.Regions = append(sc.Regions, RegionDef{Name: name, Offset: r.Offset, Size: r.Size})
	}
	if len(targets) == 0 {
		return nil, fmt.Errorf("scenario: no targets defined")
	}

	guards := make(map[string]bool)
	for i, s := range raw.Steps {
		step := Step{
			Op:     strings.TrimSpace(s.Op),
			Target: strings.TrimSpace(s.Target),
			As:     strings.TrimSpace(s.As),
			Guard:  strings.TrimSpace(s.Guard),
			Expect: strings.TrimSpace(s.Expect),
		}
		if step.Expect == "" {
			step.Expect = expectOK
		}

		switch step.Op {
		case opShared, opExclusive:
			if !targets[step.Target] {
				return nil, fmt.Errorf("scenario: step %d borrows unknown target %q", i+1, step.Target)
			}
			switch step.Expect {
			case expectOK, expectExclusiveHeld, expectFrozen:
			default:
				return nil, fmt.Errorf("scenario: step %d has unknown expectation %q", i+1, step.Expect)
			}
			if step.As != "" {
				if guards[step.As] {
					return nil, fmt.Errorf("scenario: step %d reuses guard label %q", i+1, step.As)
				}
				if step.Expect == expectOK {
					guards[step.As] = true
				}
			}
		case opSettle:
			if step.Guard == "" {
				return nil, fmt.Errorf("scenario: step %d settles without a guard label", i+1)
			}
			if !guards[step.Guard] {
				return nil, fmt.Errorf("scenario: step %d settles unknown guard %q", i+1, step.Guard)
			}
			delete(guards, step.Guard)
			if step.Expect != expectOK {
				return nil, fmt.Errorf("scenario: step %d expects %q, but settling cannot fail", i+1, step.Expect)
			}
		default:
			return nil, fmt.Errorf("scenario: step %d has unknown op %q", i+1, step.Op)
		}
		sc.Steps = append(sc.Steps, step)
	}
	if len(sc.Steps) == 0 {
		return nil, fmt.Errorf("scenario: no steps defined")
	}

	return sc, nil
}
