package runner

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
)

// ErrOnlyForbidden is returned when a focused scenario is found while
// forbidOnly is set
var ErrOnlyForbidden = errors.New("focused scenarios are not allowed")

// ScenarioFunc is the body of a scenario or a BeforeEach hook
type ScenarioFunc func(sc *Scenario) error

type entry struct {
	name string
	fn   ScenarioFunc
	only bool
}

// Plan holds every group of a test binary
type Plan struct {
	mu     sync.Mutex
	groups []*Group
}

// NewPlan creates an empty plan
func NewPlan() *Plan {
	return &Plan{}
}

// Describe declares a group of scenarios
func (p *Plan) Describe(name string) *Group {
	g := &Group{plan: p, name: name}
	p.mu.Lock()
	p.groups = append(p.groups, g)
	p.mu.Unlock()
	return g
}

// focused lists the titles of focused scenarios across all groups
func (p *Plan) focused() []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	var titles []string
	for _, g := range p.groups {
		for _, e := range g.entries {
			if e.only {
				titles = append(titles, g.name+" > "+e.name)
			}
		}
	}
	return titles
}

// Group is a named set of scenarios sharing BeforeEach hooks
type Group struct {
	plan    *Plan
	name    string
	hooks   []ScenarioFunc
	entries []entry
}

// BeforeEach registers a hook run at the start of every attempt
func (g *Group) BeforeEach(hook ScenarioFunc) *Group {
	g.hooks = append(g.hooks, hook)
	return g
}

// Test declares a scenario
func (g *Group) Test(name string, fn ScenarioFunc) *Group {
	g.entries = append(g.entries, entry{name: name, fn: fn})
	return g
}

// Only declares a focused scenario. While any scenario of the plan is
// focused, all others are skipped, in every group
func (g *Group) Only(name string, fn ScenarioFunc) *Group {
	g.entries = append(g.entries, entry{name: name, fn: fn, only: true})
	return g
}

// Run executes the group's scenarios on s as subtests of t
func (g *Group) Run(t *testing.T, s *Suite) {
	t.Helper()

	t.Run(g.name, func(t *testing.T) {
		selected, err := selectScenarios(g.entries, g.plan.focused(), s.cfg.Active.ForbidOnly)
		if err != nil {
			t.Fatalf("%s: %v", g.name, err)
		}
		if len(selected) == 0 {
			t.Skip("no focused scenarios in this group")
		}

		for _, e := range selected {
			e := e
			t.Run(e.name, func(t *testing.T) {
				if s.cfg.FullyParallel {
					t.Parallel()
				}

				ctx := context.Background()
				if err := s.workers.Acquire(ctx, 1); err != nil {
					t.Fatalf("failed to acquire worker: %v", err)
				}
				defer s.workers.Release(1)

				res := s.runScenario(g, e)
				s.report.Add(res)
				s.logResult(res)

				switch res.Status {
				case StatusFailed:
					t.Error(res.FailureMessage())
				case StatusFlaky:
					t.Logf("passed on attempt %d of %d", res.Attempts, s.cfg.Active.Retries+1)
				}
			})
		}
	})
}

// selectScenarios applies the plan-wide focus in focused to entries
func selectScenarios(entries []entry, focused []string, forbidOnly bool) ([]entry, error) {
	if len(focused) == 0 {
		return entries, nil
	}
	if forbidOnly {
		return nil, fmt.Errorf("%w: %s", ErrOnlyForbidden, strings.Join(focused, ", "))
	}

	var selected []entry
	for _, e := range entries {
		if e.only {
			selected = append(selected, e)
		}
	}
	return selected, nil
}
