// Package pages holds the page objects for the shop and the transfer form.
//
// A page object bundles the locators of one screen with the operations a
// scenario performs on it. It is bound to a single playwright.Page and keeps
// no state of its own, so a fresh set is created for every scenario attempt
package pages

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/playwright-community/playwright-go"
)

// Lookup errors returned when a product name does not identify one element
var (
	ErrItemNotFound  = errors.New("no item with that name")
	ErrAmbiguousItem = errors.New("more than one item with that name")
)

// ProductKey derives the stable identifier the shop uses in its data-test
// attributes, e.g. "Sauce Labs Backpack" becomes "sauce-labs-backpack"
func ProductKey(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "-")
}

// exactText matches an element whose whole text is s, ignoring surrounding
// whitespace
func exactText(s string) *regexp.Regexp {
	return regexp.MustCompile(`^\s*` + regexp.QuoteMeta(s) + `\s*$`)
}

// withName narrows items to those containing a nameSelector element whose
// text equals name
func withName(page playwright.Page, items playwright.Locator, nameSelector, name string) playwright.Locator {
	return items.Filter(playwright.LocatorFilterOptions{
		Has: page.Locator(nameSelector, playwright.PageLocatorOptions{HasText: exactText(name)}),
	})
}

// unique resolves l to exactly one element
func unique(l playwright.Locator, name string) (playwright.Locator, error) {
	n, err := l.Count()
	if err != nil {
		return nil, fmt.Errorf("failed to count items named %q: %w", name, err)
	}
	switch {
	case n == 0:
		return nil, fmt.Errorf("%w: %q", ErrItemNotFound, name)
	case n > 1:
		return nil, fmt.Errorf("%w: %q matches %d items", ErrAmbiguousItem, name, n)
	}
	return l, nil
}
