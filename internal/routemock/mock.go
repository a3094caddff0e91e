// Package routemock describes stubbed network responses (a route pattern
// mapped to a response or a simulated failure) and installs them on a page
// before navigation
package routemock

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/playwright-community/playwright-go"
)

// Abort error codes understood by route.Abort
const (
	FailureFailed           = "failed"
	FailureConnectionReset  = "connectionreset"
	FailureConnectionFailed = "connectionfailed"
	FailureTimedOut         = "timedout"
)

// Validation errors
var (
	ErrMissingPattern = errors.New("mock needs a route pattern")
	ErrNoOutcome      = errors.New("mock needs either a response or a failure")
	ErrBothOutcomes   = errors.New("mock cannot have both a response and a failure")
)

// Response is a substituted HTTP response
type Response struct {
	Status      int
	ContentType string
	Body        []byte
}

// Mock maps a request pattern onto a response or a simulated failure
type Mock struct {
	// Pattern is a Playwright URL glob such as "**/api/transfer"
	Pattern string
	// Response is sent when the request is fulfilled
	Response *Response
	// Failure is the abort error code when the request is failed instead
	Failure string
	// Delay holds the request before it is resolved
	Delay time.Duration
}

// Fulfill answers requests matching pattern with resp
func Fulfill(pattern string, resp Response) Mock {
	return Mock{Pattern: pattern, Response: &resp}
}

// FulfillJSON answers requests matching pattern with status and body encoded as JSON
func FulfillJSON(pattern string, status int, body interface{}) (Mock, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return Mock{}, fmt.Errorf("failed to encode mock body: %w", err)
	}
	return Fulfill(pattern, Response{
		Status:      status,
		ContentType: "application/json",
		Body:        data,
	}), nil
}

// Abort fails requests matching pattern with the given error code
func Abort(pattern, code string) Mock {
	if code == "" {
		code = FailureFailed
	}
	return Mock{Pattern: pattern, Failure: code}
}

// WithDelay returns a copy of m that waits d before resolving
func (m Mock) WithDelay(d time.Duration) Mock {
	m.Delay = d
	return m
}

// Validate checks that the mock has a pattern and exactly one outcome
func (m Mock) Validate() error {
	if m.Pattern == "" {
		return ErrMissingPattern
	}
	if m.Response == nil && m.Failure == "" {
		return ErrNoOutcome
	}
	if m.Response != nil && m.Failure != "" {
		return ErrBothOutcomes
	}
	return nil
}

// Install registers every mock on page. It must run before navigation.
// Errors answering an intercepted request are logged to logger, which may be nil
func Install(page playwright.Page, logger *log.Logger, mocks ...Mock) error {
	if logger == nil {
		logger = log.Default()
	}
	for _, m := range mocks {
		if err := m.Validate(); err != nil {
			return fmt.Errorf("invalid mock for %q: %w", m.Pattern, err)
		}
		if err := page.Route(m.Pattern, m.handler(logger)); err != nil {
			return fmt.Errorf("failed to install mock for %q: %w", m.Pattern, err)
		}
	}
	return nil
}

func (m Mock) handler(logger *log.Logger) func(playwright.Route) {
	return func(route playwright.Route) {
		if err := m.answer(route); err != nil {
			logger.Error("route mock failed to answer", "pattern", m.Pattern, "err", err)
		}
	}
}

// answer waits out the delay, then aborts or fulfills route
func (m Mock) answer(route playwright.Route) error {
	if m.Delay > 0 {
		time.Sleep(m.Delay)
	}

	if m.Failure != "" {
		if err := route.Abort(m.Failure); err != nil {
			return fmt.Errorf("failed to abort request: %w", err)
		}
		return nil
	}

	opts := playwright.RouteFulfillOptions{
		Status: playwright.Int(m.status()),
		Body:   m.Response.Body,
	}
	if m.Response.ContentType != "" {
		opts.ContentType = playwright.String(m.Response.ContentType)
	}
	if err := route.Fulfill(opts); err != nil {
		return fmt.Errorf("failed to fulfill request: %w", err)
	}
	return nil
}

func (m Mock) status() int {
	if m.Response == nil || m.Response.Status == 0 {
		return http.StatusOK
	}
	return m.Response.Status
}

// ServeHTTP renders the mock over real HTTP. A failure drops the connection
func (m Mock) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if m.Delay > 0 {
		select {
		case <-time.After(m.Delay):
		case <-r.Context().Done():
			return
		}
	}

	if m.Failure != "" || m.Response == nil {
		panic(http.ErrAbortHandler)
	}

	if m.Response.ContentType != "" {
		w.Header().Set("Content-Type", m.Response.ContentType)
	}
	w.WriteHeader(m.status())
	w.Write(m.Response.Body)
}
