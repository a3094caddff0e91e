package runner

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func names(entries []entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.name
	}
	return out
}

func TestSelectScenarios(t *testing.T) {
	tests := []struct {
		name       string
		entries    []entry
		focused    []string
		forbidOnly bool
		want       []string
		wantErr    error
	}{
		{
			name:    "no focus runs everything",
			entries: []entry{{name: "a"}, {name: "b"}},
			want:    []string{"a", "b"},
		},
		{
			name:    "focus narrows to focused scenarios",
			entries: []entry{{name: "a"}, {name: "b", only: true}, {name: "c", only: true}},
			focused: []string{"g > b", "g > c"},
			want:    []string{"b", "c"},
		},
		{
			name:    "focus in another group skips this one",
			entries: []entry{{name: "a"}, {name: "b"}},
			focused: []string{"other > x"},
			want:    []string{},
		},
		{
			name:       "forbidOnly without focus is fine",
			entries:    []entry{{name: "a"}},
			forbidOnly: true,
			want:       []string{"a"},
		},
		{
			name:       "forbidOnly rejects focus anywhere",
			entries:    []entry{{name: "a"}},
			focused:    []string{"other > x"},
			forbidOnly: true,
			wantErr:    ErrOnlyForbidden,
		},
		{
			name: "empty group",
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := selectScenarios(tt.entries, tt.focused, tt.forbidOnly)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("selectScenarios() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("selectScenarios() unexpected error = %v", err)
			}
			if diff := cmp.Diff(tt.want, names(got)); diff != "" {
				t.Errorf("selectScenarios() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPlan_FocusSpansGroups(t *testing.T) {
	plan := NewPlan()
	body := func(*Scenario) error { return nil }

	shop := plan.Describe("Shop").Test("login", body)
	plan.Describe("Transfer").Only("success", body).Test("error", body)

	if diff := cmp.Diff([]string{"Transfer > success"}, plan.focused()); diff != "" {
		t.Errorf("focused() mismatch (-want +got):\n%s", diff)
	}

	got, err := selectScenarios(shop.entries, plan.focused(), false)
	if err != nil {
		t.Fatalf("selectScenarios() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Expected unfocused group to run nothing, got %v", names(got))
	}
}

func TestGroup_Declarations(t *testing.T) {
	g := NewPlan().Describe("Transfer")
	hook := func(*Scenario) error { return nil }
	body := func(*Scenario) error { return nil }

	g.BeforeEach(hook).Test("one", body).Only("two", body)

	if g.name != "Transfer" {
		t.Errorf("Expected group name Transfer, got %s", g.name)
	}
	if len(g.hooks) != 1 {
		t.Errorf("Expected 1 hook, got %d", len(g.hooks))
	}
	if diff := cmp.Diff([]string{"one", "two"}, names(g.entries)); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}
	if g.entries[0].only || !g.entries[1].only {
		t.Error("Expected only the second scenario to be focused")
	}
}
