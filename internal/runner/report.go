package runner

import (
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/themizzi/e2eflows/internal/expect"
)

// Status is the outcome of a scenario across all of its attempts
type Status string

// Scenario outcomes
const (
	StatusPassed Status = "passed"
	StatusFlaky  Status = "flaky"
	StatusFailed Status = "failed"
)

// Result is the outcome of one scenario
type Result struct {
	Group     string
	Name      string
	Status    Status
	Attempts  int
	Duration  time.Duration
	Kind      expect.Kind
	Err       error
	Artifacts []string
}

// Title is the group and scenario name
func (r Result) Title() string {
	return r.Group + " > " + r.Name
}

// FailureMessage describes a failed result for the test log
func (r Result) FailureMessage() string {
	if r.Err == nil {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s failed after %d attempt(s) [%s]\n%v", r.Title(), r.Attempts, r.Kind, r.Err)
	for _, a := range r.Artifacts {
		fmt.Fprintf(&b, "\n  artifact: %s", a)
	}
	return b.String()
}

func statusOf(attempts int, err error) Status {
	switch {
	case err != nil:
		return StatusFailed
	case attempts > 1:
		return StatusFlaky
	default:
		return StatusPassed
	}
}

// Summary counts results by status
type Summary struct {
	Passed int
	Flaky  int
	Failed int
}

// Report collects results from concurrently running scenarios
type Report struct {
	RunID   string
	Started time.Time

	mu      sync.Mutex
	results []Result
}

// NewReport creates an empty report for run
func NewReport(runID string) *Report {
	return &Report{RunID: runID, Started: time.Now()}
}

// Add records a result
func (r *Report) Add(res Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = append(r.results, res)
}

// Results returns the recorded results ordered by title
func (r *Report) Results() []Result {
	r.mu.Lock()
	out := make([]Result, len(r.results))
	copy(out, r.results)
	r.mu.Unlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Title() < out[j].Title()
	})
	return out
}

// Summary counts the recorded results
func (r *Report) Summary() Summary {
	var s Summary
	for _, res := range r.Results() {
		switch res.Status {
		case StatusPassed:
			s.Passed++
		case StatusFlaky:
			s.Flaky++
		case StatusFailed:
			s.Failed++
		}
	}
	return s
}

var reportTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"base": filepath.Base,
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>e2e report {{.RunID}}</title>
<style>
body { font-family: sans-serif; margin: 2rem; }
table { border-collapse: collapse; width: 100%; }
td, th { border-bottom: 1px solid #ddd; padding: .4rem; text-align: left; vertical-align: top; }
.passed { color: #2e7d32; } .flaky { color: #ef6c00; } .failed { color: #c62828; }
pre { margin: 0; white-space: pre-wrap; }
</style>
</head>
<body>
<h1>Run {{.RunID}}</h1>
<p>Started {{.Started.Format "2006-01-02 15:04:05"}}: {{.Summary.Passed}} passed, {{.Summary.Flaky}} flaky, {{.Summary.Failed}} failed</p>
<table>
<tr><th>Scenario</th><th>Status</th><th>Attempts</th><th>Duration</th><th>Details</th></tr>
{{range .Results}}<tr>
<td>{{.Title}}</td>
<td class="{{.Status}}">{{.Status}}</td>
<td>{{.Attempts}}</td>
<td>{{.Duration}}</td>
<td>{{if .Err}}<pre>[{{.Kind}}] {{.Err}}</pre>{{end}}{{range .Artifacts}}<div><a href="{{.}}">{{base .}}</a></div>{{end}}</td>
</tr>
{{end}}</table>
</body>
</html>
`))

// WriteHTML renders the report to dir/index.html and returns its path
func (r *Report) WriteHTML(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create report folder: %w", err)
	}

	path := filepath.Join(dir, "index.html")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create report: %w", err)
	}
	defer f.Close()

	data := struct {
		RunID   string
		Started time.Time
		Summary Summary
		Results []Result
	}{
		RunID:   r.RunID,
		Started: r.Started,
		Summary: r.Summary(),
		Results: r.Results(),
	}
	if err := reportTemplate.Execute(f, data); err != nil {
		return "", fmt.Errorf("failed to render report: %w", err)
	}
	return path, nil
}

// logResult prints one line per scenario, like a list reporter
func (s *Suite) logResult(res Result) {
	d := res.Duration.Round(time.Millisecond)
	switch res.Status {
	case StatusPassed:
		s.logger.Info("passed", "scenario", res.Title(), "duration", d)
	case StatusFlaky:
		s.logger.Warn("flaky", "scenario", res.Title(), "attempts", res.Attempts, "duration", d)
	default:
		s.logger.Error("failed", "scenario", res.Title(), "attempts", res.Attempts, "kind", res.Kind, "duration", d, "err", res.Err)
	}
}
