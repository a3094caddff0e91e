// Package expect wraps playwright-go's web-first assertions and value checks
// so every failure carries a kind (assertion, timeout, action), a subject and
// the expected/actual values
package expect

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/playwright-community/playwright-go"
)

// Kind classifies a scenario failure
type Kind string

// Failure kinds
const (
	KindAssertion Kind = "assertion"
	KindTimeout   Kind = "timeout"
	KindAction    Kind = "action"
)

// Sentinel errors matched by errors.Is against a *Failure
var (
	ErrAssertion = errors.New("assertion failed")
	ErrTimeout   = errors.New("timed out")
	ErrAction    = errors.New("browser action failed")
)

// Failure describes why a check or action did not succeed
type Failure struct {
	Kind     Kind
	Subject  string
	Expected string
	Actual   string
	Err      error
}

func (f *Failure) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", f.Subject, f.sentinel())
	if f.Expected != "" {
		fmt.Fprintf(&b, "\n  expected: %s", f.Expected)
	}
	if f.Actual != "" {
		fmt.Fprintf(&b, "\n  actual:   %s", f.Actual)
	}
	if f.Err != nil {
		fmt.Fprintf(&b, "\n  cause: %v", f.Err)
	}
	return b.String()
}

func (f *Failure) sentinel() error {
	switch f.Kind {
	case KindTimeout:
		return ErrTimeout
	case KindAction:
		return ErrAction
	default:
		return ErrAssertion
	}
}

// Is matches the sentinel for the failure kind
func (f *Failure) Is(target error) bool {
	return target == f.sentinel()
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// KindOf reports the kind of err. Errors that are not failures but wrap a
// Playwright timeout are timeouts; anything else is an action failure
func KindOf(err error) Kind {
	var f *Failure
	if errors.As(err, &f) {
		return f.Kind
	}
	if errors.Is(err, playwright.ErrTimeout) {
		return KindTimeout
	}
	return KindAction
}

// Action wraps the error of a browser action such as a click or navigation
func Action(subject string, err error) error {
	if err == nil {
		return nil
	}
	var f *Failure
	if errors.As(err, &f) {
		return err
	}
	kind := KindAction
	if errors.Is(err, playwright.ErrTimeout) {
		kind = KindTimeout
	}
	return &Failure{Kind: kind, Subject: subject, Err: err}
}

// Timeout creates a timeout failure for a bounded wait that ran out
func Timeout(subject string, limit time.Duration) error {
	return &Failure{Kind: KindTimeout, Subject: subject, Expected: "completion within " + limit.String()}
}

// Equal checks that got equals want
func Equal(subject string, want, got interface{}) error {
	if diff := cmp.Diff(want, got); diff != "" {
		return &Failure{
			Kind:     KindAssertion,
			Subject:  subject,
			Expected: fmt.Sprintf("%#v", want),
			Actual:   fmt.Sprintf("%#v\n  diff (-want +got):\n%s", got, diff),
		}
	}
	return nil
}

// Match checks that got matches re
func Match(subject string, re *regexp.Regexp, got string) error {
	if !re.MatchString(got) {
		return &Failure{
			Kind:     KindAssertion,
			Subject:  subject,
			Expected: "match " + re.String(),
			Actual:   fmt.Sprintf("%q", got),
		}
	}
	return nil
}

// Contains checks that got contains want
func Contains(subject, want, got string) error {
	if !strings.Contains(got, want) {
		return &Failure{
			Kind:     KindAssertion,
			Subject:  subject,
			Expected: fmt.Sprintf("contain %q", want),
			Actual:   fmt.Sprintf("%q", got),
		}
	}
	return nil
}

// True checks a condition described by expected
func True(subject string, cond bool, expected string, actual interface{}) error {
	if !cond {
		return &Failure{
			Kind:     KindAssertion,
			Subject:  subject,
			Expected: expected,
			Actual:   fmt.Sprintf("%v", actual),
		}
	}
	return nil
}

// Expect runs web-first assertions that retry until their timeout
type Expect struct {
	assertions playwright.PlaywrightAssertions
	timeout    time.Duration
}

// New creates an Expect whose assertions wait up to timeout
func New(timeout time.Duration) *Expect {
	return &Expect{
		assertions: playwright.NewPlaywrightAssertions(float64(timeout.Milliseconds())),
		timeout:    timeout,
	}
}

// Timeout returns the assertion timeout
func (e *Expect) Timeout() time.Duration {
	return e.timeout
}

func (e *Expect) wrap(subject, expected string, err error) error {
	if err == nil {
		return nil
	}
	kind := KindAssertion
	if errors.Is(err, playwright.ErrTimeout) {
		kind = KindTimeout
	}
	return &Failure{Kind: kind, Subject: subject, Expected: expected, Err: err}
}

// Visible asserts l resolves to a visible element
func (e *Expect) Visible(subject string, l playwright.Locator) error {
	return e.wrap(subject, "visible", e.assertions.Locator(l).ToBeVisible())
}

// Enabled asserts l is enabled
func (e *Expect) Enabled(subject string, l playwright.Locator) error {
	return e.wrap(subject, "enabled", e.assertions.Locator(l).ToBeEnabled())
}

// Disabled asserts l is disabled
func (e *Expect) Disabled(subject string, l playwright.Locator) error {
	return e.wrap(subject, "disabled", e.assertions.Locator(l).ToBeDisabled())
}

// Text asserts the full text of l equals want
func (e *Expect) Text(subject string, l playwright.Locator, want string) error {
	return e.wrap(subject, fmt.Sprintf("text %q", want), e.assertions.Locator(l).ToHaveText(want))
}

// ContainsText asserts the text of l contains want
func (e *Expect) ContainsText(subject string, l playwright.Locator, want string) error {
	return e.wrap(subject, fmt.Sprintf("text containing %q", want), e.assertions.Locator(l).ToContainText(want))
}

// Class asserts the class attribute of l matches re
func (e *Expect) Class(subject string, l playwright.Locator, re *regexp.Regexp) error {
	return e.wrap(subject, "class matching "+re.String(), e.assertions.Locator(l).ToHaveClass(re))
}

// Count asserts l resolves to exactly n elements
func (e *Expect) Count(subject string, l playwright.Locator, n int) error {
	return e.wrap(subject, fmt.Sprintf("%d elements", n), e.assertions.Locator(l).ToHaveCount(n))
}

// URL asserts the page URL matches re
func (e *Expect) URL(subject string, page playwright.Page, re *regexp.Regexp) error {
	return e.wrap(subject, "URL matching "+re.String(), e.assertions.Page(page).ToHaveURL(re))
}
