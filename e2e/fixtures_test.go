package e2e

import (
	"errors"
	"testing"

	"github.com/themizzi/e2eflows/internal/expect"
	"github.com/themizzi/e2eflows/internal/pages"
	"github.com/themizzi/e2eflows/internal/runner"
)

// fixturePage is served by the backing web server from public/fixtures
const fixturePage = "fixtures/inventory.html"

var lookups = plan.Describe("Page objects - name lookups")

func init() {
	g := lookups

	g.BeforeEach(func(sc *runner.Scenario) error {
		url := sc.Config.PageURL(fixturePage)
		if _, err := sc.Page.Goto(url); err != nil {
			return expect.Action("navigate to "+url, err)
		}
		return nil
	})

	g.Test("should refuse to guess between products with the same name", func(sc *runner.Scenario) error {
		inventory := sc.InventoryPage()

		err := inventory.AddItemToCartByName("Sauce Labs Backpack")
		if err := expect.True("adding a duplicated product", errors.Is(err, pages.ErrAmbiguousItem),
			"ErrAmbiguousItem", err); err != nil {
			return err
		}

		err = inventory.AddItemToCartByKey(pages.ProductKey("Sauce Labs Backpack"))
		return expect.True("adding a duplicated key", errors.Is(err, pages.ErrAmbiguousItem),
			"ErrAmbiguousItem", err)
	})

	g.Test("should match product names exactly", func(sc *runner.Scenario) error {
		inventory := sc.InventoryPage()

		if err := inventory.AddItemToCartByName("Sauce Labs Onesie"); err != nil {
			return err
		}
		if err := inventory.VerifyCartBadgeCount("1"); err != nil {
			return err
		}

		err := inventory.AddItemToCartByName("Sauce Labs")
		return expect.True("adding by a partial name", errors.Is(err, pages.ErrItemNotFound),
			"ErrItemNotFound", err)
	})

	g.Test("should refuse to guess between cart rows with the same name", func(sc *runner.Scenario) error {
		cart := sc.CartPage()

		_, err := cart.GetItemPrice("Sauce Labs Backpack")
		if err := expect.True("price of a duplicated row", errors.Is(err, pages.ErrAmbiguousItem),
			"ErrAmbiguousItem", err); err != nil {
			return err
		}

		price, err := cart.GetItemPrice("Sauce Labs Bike Light")
		if err != nil {
			return err
		}
		if err := expect.Equal("price of Sauce Labs Bike Light", "$9.99", price); err != nil {
			return err
		}

		price, err = cart.GetItemPrice("Sauce Labs")
		if err != nil {
			return err
		}
		return expect.Equal("price of a partial name", "", price)
	})
}

func TestPageObjectLookups(t *testing.T) {
	lookups.Run(t, requireSuite(t))
}
