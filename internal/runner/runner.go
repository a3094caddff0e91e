// Package runner orchestrates browser scenarios on top of go test.
//
// Scenarios are declared up front on a Plan, usually from package level
// variables, so focus with Only applies to the whole run. A Suite is started
// once per test binary and owns the backing web server, the Playwright driver
// and the browser. Group.Run executes a group's scenarios on a Suite as
// subtests, each attempt in a fresh browser context, with retries, a worker
// cap, a per-attempt timeout and failure artifacts taken from the runner
// configuration
package runner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/playwright-community/playwright-go"
	"golang.org/x/sync/semaphore"

	"github.com/themizzi/e2eflows/internal/config"
)

// Suite is a started e2e run
type Suite struct {
	RunID string

	cfg     *config.RunnerConfig
	logger  *log.Logger
	server  *webServer
	pw      *playwright.Playwright
	browser playwright.Browser
	device  *playwright.DeviceDescriptor
	workers *semaphore.Weighted
	report  *Report
}

// Start brings up the web server and the browser described by cfg
func Start(cfg *config.RunnerConfig, logger *log.Logger) (*Suite, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid runner configuration: %w", err)
	}

	workers := cfg.Active.Workers
	if workers < 1 {
		workers = 1
	}

	s := &Suite{
		RunID:   uuid.New().String(),
		cfg:     cfg,
		logger:  logger,
		workers: semaphore.NewWeighted(int64(workers)),
	}
	s.report = NewReport(s.RunID)

	logger.Info("starting run",
		"run", s.RunID,
		"ci", cfg.InCI,
		"workers", cfg.Active.Workers,
		"retries", cfg.Active.Retries,
		"baseURL", cfg.Use.BaseURL,
	)

	server, err := startWebServer(context.Background(), cfg, logger.WithPrefix("webserver"))
	if err != nil {
		return nil, err
	}
	s.server = server

	if s.pw, err = playwright.Run(); err != nil {
		s.server.Stop()
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	s.browser, err = s.pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(cfg.Use.Headless),
	})
	if err != nil {
		s.shutdown()
		return nil, fmt.Errorf("failed to launch %s: %w", cfg.Use.Browser, err)
	}

	if cfg.Use.Device != "" {
		device, ok := s.pw.Devices[cfg.Use.Device]
		if !ok {
			s.shutdown()
			return nil, fmt.Errorf("unknown device %q", cfg.Use.Device)
		}
		s.device = device
	}

	return s, nil
}

// Config returns the configuration the suite runs with
func (s *Suite) Config() *config.RunnerConfig {
	return s.cfg
}

// Report returns the results collected so far
func (s *Suite) Report() *Report {
	return s.report
}

// Close tears everything down and writes the HTML report
func (s *Suite) Close() error {
	var errs []error

	path, err := s.report.WriteHTML(s.cfg.Reporter.OutputFolder)
	if err != nil {
		errs = append(errs, err)
	} else {
		s.logger.Info("report written", "path", path)
	}

	sum := s.report.Summary()
	s.logger.Info("run finished",
		"run", s.RunID,
		"passed", sum.Passed,
		"flaky", sum.Flaky,
		"failed", sum.Failed,
		"duration", time.Since(s.report.Started).Round(time.Millisecond),
	)

	if err := s.shutdown(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (s *Suite) shutdown() error {
	var errs []error
	if s.browser != nil {
		if err := s.browser.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close browser: %w", err))
		}
	}
	if s.pw != nil {
		if err := s.pw.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("failed to stop playwright: %w", err))
		}
	}
	if s.server != nil {
		if err := s.server.Stop(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// contextOptions builds the options of every scenario's browser context
func contextOptions(cfg *config.RunnerConfig, device *playwright.DeviceDescriptor) playwright.BrowserNewContextOptions {
	opts := playwright.BrowserNewContextOptions{
		BaseURL: playwright.String(cfg.Use.BaseURL),
	}
	if device != nil {
		opts.UserAgent = playwright.String(device.UserAgent)
		opts.Viewport = device.Viewport
		opts.Screen = device.Screen
		opts.DeviceScaleFactor = playwright.Float(device.DeviceScaleFactor)
		opts.IsMobile = playwright.Bool(device.IsMobile)
		opts.HasTouch = playwright.Bool(device.HasTouch)
	}
	return opts
}
