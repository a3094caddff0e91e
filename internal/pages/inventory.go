package pages

import (
	"fmt"

	"github.com/playwright-community/playwright-go"
	"github.com/themizzi/e2eflows/internal/expect"
)

const (
	addToCartSelector = `[data-test^="add-to-cart"]`
	itemNameSelector  = ".inventory_item_name"
	itemPriceSelector = ".inventory_item_price"
)

// InventoryPage is the shop's product listing
type InventoryPage struct {
	page   playwright.Page
	expect *expect.Expect

	InventoryItems    playwright.Locator
	ShoppingCartBadge playwright.Locator
	ShoppingCartLink  playwright.Locator
}

// NewInventoryPage binds the product listing to page
func NewInventoryPage(page playwright.Page, exp *expect.Expect) *InventoryPage {
	return &InventoryPage{
		page:              page,
		expect:            exp,
		InventoryItems:    page.Locator(".inventory_item"),
		ShoppingCartBadge: page.Locator(".shopping_cart_badge"),
		ShoppingCartLink:  page.Locator(".shopping_cart_link"),
	}
}

// waitForItems blocks until the listing has rendered at least one card
func (p *InventoryPage) waitForItems() error {
	return expect.Action("wait for inventory", p.InventoryItems.First().WaitFor())
}

// AddFirstItemToCart clicks add-to-cart on the first product card
func (p *InventoryPage) AddFirstItemToCart() error {
	button := p.InventoryItems.First().Locator(addToCartSelector)
	return expect.Action("add first item to cart", button.Click())
}

// AddItemToCartByName clicks add-to-cart on the card named exactly name.
// It fails with ErrItemNotFound or ErrAmbiguousItem instead of guessing
func (p *InventoryPage) AddItemToCartByName(name string) error {
	if err := p.waitForItems(); err != nil {
		return err
	}

	item, err := unique(withName(p.page, p.InventoryItems, itemNameSelector, name), name)
	if err != nil {
		return err
	}

	return expect.Action(fmt.Sprintf("add %q to cart", name), item.Locator(addToCartSelector).Click())
}

// AddItemToCartByKey clicks the add-to-cart control identified by key, see ProductKey
func (p *InventoryPage) AddItemToCartByKey(key string) error {
	if err := p.waitForItems(); err != nil {
		return err
	}

	button, err := unique(p.page.Locator(fmt.Sprintf(`[data-test="add-to-cart-%s"]`, key)), key)
	if err != nil {
		return err
	}

	return expect.Action(fmt.Sprintf("add %s to cart", key), button.Click())
}

// GetFirstProductName returns the name of the first product card
func (p *InventoryPage) GetFirstProductName() (string, error) {
	text, err := p.InventoryItems.First().Locator(itemNameSelector).TextContent()
	if err != nil {
		return "", expect.Action("read first product name", err)
	}
	return text, nil
}

// GetFirstProductPrice returns the price of the first product card
func (p *InventoryPage) GetFirstProductPrice() (string, error) {
	text, err := p.InventoryItems.First().Locator(itemPriceSelector).TextContent()
	if err != nil {
		return "", expect.Action("read first product price", err)
	}
	return text, nil
}

// ProductNames lists every product name in page order
func (p *InventoryPage) ProductNames() ([]string, error) {
	if err := p.waitForItems(); err != nil {
		return nil, err
	}
	names, err := p.InventoryItems.Locator(itemNameSelector).AllTextContents()
	if err != nil {
		return nil, expect.Action("read product names", err)
	}
	return names, nil
}

// VerifyCartBadgeCount asserts the cart badge reads exactly expected
func (p *InventoryPage) VerifyCartBadgeCount(expected string) error {
	return p.expect.Text("cart badge", p.ShoppingCartBadge, expected)
}

// GoToCart opens the cart
func (p *InventoryPage) GoToCart() error {
	return expect.Action("open cart", p.ShoppingCartLink.Click())
}
