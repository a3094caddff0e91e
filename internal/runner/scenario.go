package runner

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/playwright-community/playwright-go"

	"github.com/themizzi/e2eflows/internal/config"
	"github.com/themizzi/e2eflows/internal/expect"
	"github.com/themizzi/e2eflows/internal/pages"
	"github.com/themizzi/e2eflows/internal/routemock"
)

// timeoutGrace bounds how long a timed out scenario body may take to notice
// that its context was closed
const timeoutGrace = 5 * time.Second

// Scenario is one attempt of a scenario, bound to its own browser context
type Scenario struct {
	Name    string
	Attempt int // 0 for the first run, n for the nth retry

	Page    playwright.Page
	Context playwright.BrowserContext
	Config  *config.RunnerConfig
	Expect  *expect.Expect
	Logger  *log.Logger
}

// Mock installs route mocks on the scenario's page
func (sc *Scenario) Mock(mocks ...routemock.Mock) error {
	return routemock.Install(sc.Page, sc.Logger, mocks...)
}

// LoginPage returns the shop login page object
func (sc *Scenario) LoginPage() *pages.LoginPage {
	return pages.NewLoginPage(sc.Page, sc.Expect, sc.Config.Use.SauceDemoURL)
}

// InventoryPage returns the shop inventory page object
func (sc *Scenario) InventoryPage() *pages.InventoryPage {
	return pages.NewInventoryPage(sc.Page, sc.Expect)
}

// CartPage returns the shop cart page object
func (sc *Scenario) CartPage() *pages.CartPage {
	return pages.NewCartPage(sc.Page, sc.Expect)
}

// TransferPage returns the transfer form page object
func (sc *Scenario) TransferPage() *pages.TransferPage {
	return pages.NewTransferPage(sc.Page, sc.Expect, sc.Config.TransferURL())
}

func (s *Suite) runScenario(g *Group, e entry) Result {
	res := Result{Group: g.name, Name: e.name}
	start := time.Now()

	res.Attempts, res.Err = runWithRetries(s.cfg.Active.Retries, func(attempt int) error {
		artifacts, err := s.attempt(g, e, attempt)
		res.Artifacts = append(res.Artifacts, artifacts...)
		if err != nil {
			s.logger.Debug("attempt failed", "scenario", res.Title(), "attempt", attempt, "err", err)
		}
		return err
	})

	res.Duration = time.Since(start)
	res.Status = statusOf(res.Attempts, res.Err)
	if res.Err != nil {
		res.Kind = expect.KindOf(res.Err)
	}
	return res
}

// attempt runs hooks and body once in a fresh browser context
func (s *Suite) attempt(g *Group, e entry, attempt int) ([]string, error) {
	dir := artifactDir(s.cfg.OutputDir, g.name, e.name, attempt)
	logger := s.logger.With("scenario", g.name+" > "+e.name, "attempt", attempt)

	bctx, err := s.browser.NewContext(contextOptions(s.cfg, s.device))
	if err != nil {
		return nil, expect.Action("create browser context", err)
	}
	defer bctx.Close()
	bctx.SetDefaultTimeout(float64(s.cfg.ActionTimeout.Milliseconds()))

	tracing := wantTrace(s.cfg.Use.Trace, attempt)
	if tracing {
		if err := bctx.Tracing().Start(playwright.TracingStartOptions{
			Screenshots: playwright.Bool(true),
			Snapshots:   playwright.Bool(true),
		}); err != nil {
			logger.Warn("failed to start tracing", "err", err)
			tracing = false
		}
	}

	page, err := bctx.NewPage()
	if err != nil {
		return nil, expect.Action("open page", err)
	}

	sc := &Scenario{
		Name:    e.name,
		Attempt: attempt,
		Page:    page,
		Context: bctx,
		Config:  s.cfg,
		Expect:  expect.New(s.cfg.ExpectTimeout),
		Logger:  logger,
	}

	var artifacts []string
	captured := false
	capture := func(failed bool) {
		captured = true
		artifacts = s.captureArtifacts(page, bctx, dir, tracing, failed, logger)
	}

	runErr := runBounded(s.cfg.Timeout, func() error {
		for _, hook := range g.hooks {
			if err := hook(sc); err != nil {
				return fmt.Errorf("beforeEach: %w", err)
			}
		}
		return e.fn(sc)
	}, func() {
		capture(true)
	}, func() {
		bctx.Close()
	})

	if !captured {
		capture(runErr != nil)
	}

	return artifacts, runErr
}

// captureArtifacts takes the screenshot and writes the trace of an attempt.
// The context must still be open
func (s *Suite) captureArtifacts(page playwright.Page, bctx playwright.BrowserContext, dir string, tracing, failed bool, logger *log.Logger) []string {
	var artifacts []string
	if wantScreenshot(s.cfg.Use.Screenshot, failed) {
		path := filepath.Join(dir, "screenshot.png")
		if _, err := page.Screenshot(playwright.PageScreenshotOptions{
			Path:     playwright.String(path),
			FullPage: playwright.Bool(true),
		}); err != nil {
			logger.Warn("failed to take screenshot", "err", err)
		} else {
			artifacts = append(artifacts, path)
		}
	}

	if tracing {
		var err error
		if keepTrace(s.cfg.Use.Trace, failed) {
			path := filepath.Join(dir, "trace.zip")
			if err = bctx.Tracing().Stop(path); err == nil {
				artifacts = append(artifacts, path)
			}
		} else {
			err = bctx.Tracing().Stop()
		}
		if err != nil {
			logger.Warn("failed to stop tracing", "err", err)
		}
	}
	return artifacts
}

// runWithRetries calls attempt until it succeeds or retries are exhausted.
// It returns the number of attempts made and the last error
func runWithRetries(retries int, attempt func(n int) error) (int, error) {
	var err error
	for n := 0; n <= retries; n++ {
		if err = attempt(n); err == nil {
			return n + 1, nil
		}
	}
	return retries + 1, err
}

// runBounded runs fn, giving up after limit. On timeout capture runs while
// the browser is still usable, then abort makes fn's pending browser calls
// fail and fn gets timeoutGrace to return
func runBounded(limit time.Duration, fn func() error, capture, abort func()) error {
	done := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- fmt.Errorf("scenario panicked: %v", r)
			}
		}()
		done <- fn()
	}()

	timer := time.NewTimer(limit)
	defer timer.Stop()

	select {
	case err := <-done:
		return err
	case <-timer.C:
		capture()
		abort()
		select {
		case <-done:
		case <-time.After(timeoutGrace):
		}
		return expect.Timeout("scenario", limit)
	}
}
