package runner

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/themizzi/e2eflows/internal/config"
)

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// slug turns a title into a file name fragment
func slug(s string) string {
	return strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(s), "-"), "-")
}

// artifactDir is where one attempt's screenshot and trace are written
func artifactDir(outputDir, group, name string, attempt int) string {
	return filepath.Join(outputDir, fmt.Sprintf("%s-%s-%d", slug(group), slug(name), attempt))
}

// wantTrace reports whether attempt should be traced
func wantTrace(mode string, attempt int) bool {
	switch mode {
	case config.TraceOn, config.TraceRetainOnFailure:
		return true
	case config.TraceOnFirstRetry:
		return attempt == 1
	default:
		return false
	}
}

// keepTrace reports whether a recorded trace is written to disk
func keepTrace(mode string, failed bool) bool {
	if mode == config.TraceRetainOnFailure {
		return failed
	}
	return true
}

// wantScreenshot reports whether the final page is captured
func wantScreenshot(mode string, failed bool) bool {
	switch mode {
	case config.ScreenshotOn:
		return true
	case config.ScreenshotOnlyOnFailure:
		return failed
	default:
		return false
	}
}
