package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Trace and screenshot modes
const (
	TraceOff             = "off"
	TraceOn              = "on"
	TraceOnFirstRetry    = "on-first-retry"
	TraceRetainOnFailure = "retain-on-failure"

	ScreenshotOff           = "off"
	ScreenshotOn            = "on"
	ScreenshotOnlyOnFailure = "only-on-failure"
)

// Profile holds the settings that differ between local and CI runs
type Profile struct {
	Retries             int  `yaml:"retries"`
	Workers             int  `yaml:"workers"`
	ForbidOnly          bool `yaml:"forbidOnly"`
	ReuseExistingServer bool `yaml:"reuseExistingServer"`
}

// UseConfig holds the options applied to every browser context
type UseConfig struct {
	BaseURL      string `yaml:"baseURL"`
	SauceDemoURL string `yaml:"saucedemoURL"`
	Browser      string `yaml:"browser"`
	Device       string `yaml:"device"`
	Headless     bool   `yaml:"headless"`
	Trace        string `yaml:"trace"`
	Screenshot   string `yaml:"screenshot"`
}

// ReporterConfig configures the HTML report
type ReporterConfig struct {
	OutputFolder string `yaml:"outputFolder"`
}

// WebServerConfig configures the server hosting the system under test
type WebServerConfig struct {
	// Command starts an external server; empty serves StaticDir in-process
	Command   string        `yaml:"command"`
	StaticDir string        `yaml:"staticDir"`
	Port      int           `yaml:"port"`
	Timeout   time.Duration `yaml:"timeout"`
}

// RunnerConfig holds the resolved configuration of an e2e run
type RunnerConfig struct {
	FullyParallel bool            `yaml:"fullyParallel"`
	Timeout       time.Duration   `yaml:"timeout"`
	ExpectTimeout time.Duration   `yaml:"expectTimeout"`
	ActionTimeout time.Duration   `yaml:"actionTimeout"`
	OutputDir     string          `yaml:"outputDir"`
	LogLevel      string          `yaml:"logLevel"`
	Reporter      ReporterConfig  `yaml:"reporter"`
	Use           UseConfig       `yaml:"use"`
	WebServer     WebServerConfig `yaml:"webServer"`
	Local         Profile         `yaml:"local"`
	CI            Profile         `yaml:"ci"`

	// InCI and Active are derived from the CI environment variable
	InCI   bool    `yaml:"inCI"`
	Active Profile `yaml:"active"`
}

// DefaultRunnerConfig returns the configuration used when no file overrides it
func DefaultRunnerConfig() *RunnerConfig {
	return &RunnerConfig{
		FullyParallel: true,
		Timeout:       30 * time.Second,
		ExpectTimeout: 5 * time.Second,
		ActionTimeout: 15 * time.Second,
		OutputDir:     "test-results",
		LogLevel:      "info",
		Reporter: ReporterConfig{
			OutputFolder: "playwright-report",
		},
		Use: UseConfig{
			BaseURL:      "http://localhost:3000",
			SauceDemoURL: "https://www.saucedemo.com/",
			Browser:      "chromium",
			Device:       "Desktop Chrome",
			Headless:     true,
			Trace:        TraceOnFirstRetry,
			Screenshot:   ScreenshotOnlyOnFailure,
		},
		WebServer: WebServerConfig{
			StaticDir: "public",
			Port:      3000,
			Timeout:   120 * time.Second,
		},
		Local: Profile{
			Retries:             0,
			Workers:             0,
			ReuseExistingServer: true,
		},
		CI: Profile{
			Retries:    2,
			Workers:    1,
			ForbidOnly: true,
		},
	}
}

// LoadRunnerConfig reads path (if non-empty) over the defaults, applies
// environment overrides and resolves the active profile
func LoadRunnerConfig(path string, getenv func(string) string) (*RunnerConfig, error) {
	cfg := DefaultRunnerConfig()

	baseDir := "."
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read runner config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse runner config %s: %w", path, err)
		}
		baseDir = filepath.Dir(path)
	}

	if err := cfg.applyEnv(getenv); err != nil {
		return nil, err
	}
	cfg.resolvePaths(baseDir)
	cfg.resolveProfile(getenv("CI") != "")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *RunnerConfig) applyEnv(getenv func(string) string) error {
	if v := getenv("BASE_URL"); v != "" {
		c.Use.BaseURL = v
	}
	if v := getenv("SAUCEDEMO_URL"); v != "" {
		c.Use.SauceDemoURL = v
	}
	if v := getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := getenv("HEADLESS"); v != "" {
		headless, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("HEADLESS must be a boolean: %w", err)
		}
		c.Use.Headless = headless
	}
	return nil
}

func (c *RunnerConfig) resolvePaths(baseDir string) {
	c.OutputDir = resolvePath(baseDir, c.OutputDir)
	c.Reporter.OutputFolder = resolvePath(baseDir, c.Reporter.OutputFolder)
	if c.WebServer.Command == "" {
		c.WebServer.StaticDir = resolvePath(baseDir, c.WebServer.StaticDir)
	}
}

func resolvePath(baseDir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(baseDir, p)
}

func (c *RunnerConfig) resolveProfile(inCI bool) {
	c.InCI = inCI
	c.Active = c.Local
	if inCI {
		c.Active = c.CI
	}
	if c.Active.Workers <= 0 {
		c.Active.Workers = DefaultWorkers()
	}
}

// DefaultWorkers is half the logical CPUs, at least one
func DefaultWorkers() int {
	if n := runtime.NumCPU() / 2; n > 0 {
		return n
	}
	return 1
}

// Validate checks the resolved configuration
func (c *RunnerConfig) Validate() error {
	if _, err := url.ParseRequestURI(c.Use.BaseURL); err != nil {
		return fmt.Errorf("use.baseURL is invalid: %w", err)
	}
	if _, err := url.ParseRequestURI(c.Use.SauceDemoURL); err != nil {
		return fmt.Errorf("use.saucedemoURL is invalid: %w", err)
	}
	if c.Use.Browser != "chromium" {
		return fmt.Errorf("use.browser %q is not supported, only chromium", c.Use.Browser)
	}
	switch c.Use.Trace {
	case TraceOff, TraceOn, TraceOnFirstRetry, TraceRetainOnFailure:
	default:
		return fmt.Errorf("use.trace %q is not a known trace mode", c.Use.Trace)
	}
	switch c.Use.Screenshot {
	case ScreenshotOff, ScreenshotOn, ScreenshotOnlyOnFailure:
	default:
		return fmt.Errorf("use.screenshot %q is not a known screenshot mode", c.Use.Screenshot)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.ExpectTimeout <= 0 {
		return fmt.Errorf("expectTimeout must be positive")
	}
	if c.ActionTimeout <= 0 || c.ActionTimeout > c.Timeout {
		return fmt.Errorf("actionTimeout must be positive and no longer than timeout")
	}
	if c.Active.Retries < 0 {
		return fmt.Errorf("retries cannot be negative")
	}
	if c.WebServer.Port <= 0 || c.WebServer.Port > 65535 {
		return fmt.Errorf("webServer.port %d is out of range", c.WebServer.Port)
	}
	if c.WebServer.Timeout <= 0 {
		return fmt.Errorf("webServer.timeout must be positive")
	}
	if c.WebServer.Command == "" && c.WebServer.StaticDir == "" {
		return fmt.Errorf("webServer.staticDir is required when no command is set")
	}
	return nil
}

// TransferURL returns the address of the transfer form
func (c *RunnerConfig) TransferURL() string {
	return c.PageURL("transfer.html")
}

// PageURL returns the address of a page served under the base URL
func (c *RunnerConfig) PageURL(path string) string {
	u, err := url.JoinPath(c.Use.BaseURL, path)
	if err != nil {
		return strings.TrimSuffix(c.Use.BaseURL, "/") + "/" + strings.TrimPrefix(path, "/")
	}
	return u
}

// WebServerURL returns the address polled for web server readiness
func (c *RunnerConfig) WebServerURL() string {
	return fmt.Sprintf("http://localhost:%d/", c.WebServer.Port)
}

// Marshal renders the resolved configuration as YAML
func (c *RunnerConfig) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
