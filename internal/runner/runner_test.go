package runner

import (
	"testing"

	"github.com/playwright-community/playwright-go"

	"github.com/themizzi/e2eflows/internal/config"
	"github.com/themizzi/e2eflows/internal/logging"
)

func TestContextOptions(t *testing.T) {
	cfg := config.DefaultRunnerConfig()
	device := &playwright.DeviceDescriptor{
		UserAgent:         "Mozilla/5.0 Chrome",
		Viewport:          &playwright.Size{Width: 1280, Height: 720},
		DeviceScaleFactor: 1,
	}

	opts := contextOptions(cfg, device)

	if opts.BaseURL == nil || *opts.BaseURL != "http://localhost:3000" {
		t.Errorf("Expected base URL http://localhost:3000, got %v", opts.BaseURL)
	}
	if opts.UserAgent == nil || *opts.UserAgent != device.UserAgent {
		t.Errorf("Expected device user agent, got %v", opts.UserAgent)
	}
	if opts.Viewport == nil || opts.Viewport.Width != 1280 {
		t.Errorf("Expected device viewport, got %v", opts.Viewport)
	}

	bare := contextOptions(cfg, nil)
	if bare.UserAgent != nil || bare.Viewport != nil {
		t.Error("Expected no device options without a device")
	}
}

func TestStart_RejectsInvalidConfig(t *testing.T) {
	cfg := config.DefaultRunnerConfig()
	cfg.Use.Trace = "sometimes"

	if _, err := Start(cfg, logging.Discard()); err == nil {
		t.Error("Expected invalid configuration to be rejected before anything starts")
	}
}
