package pages

import (
	"errors"
	"fmt"

	"github.com/playwright-community/playwright-go"
	"github.com/themizzi/e2eflows/internal/expect"
	"github.com/themizzi/e2eflows/internal/models"
)

// CartPage is the shop's cart screen
type CartPage struct {
	page   playwright.Page
	expect *expect.Expect

	CartList               playwright.Locator
	CartItems              playwright.Locator
	CartItemNames          playwright.Locator
	CartItemPrices         playwright.Locator
	CheckoutButton         playwright.Locator
	ContinueShoppingButton playwright.Locator
}

// NewCartPage binds the cart screen to page
func NewCartPage(page playwright.Page, exp *expect.Expect) *CartPage {
	return &CartPage{
		page:                   page,
		expect:                 exp,
		CartList:               page.Locator(".cart_list"),
		CartItems:              page.Locator(".cart_item"),
		CartItemNames:          page.Locator(itemNameSelector),
		CartItemPrices:         page.Locator(itemPriceSelector),
		CheckoutButton:         page.Locator(`[data-test="checkout"]`),
		ContinueShoppingButton: page.Locator(`[data-test="continue-shopping"]`),
	}
}

// waitForCart blocks until the cart list has rendered, even when empty
func (p *CartPage) waitForCart() error {
	return expect.Action("wait for cart", p.CartList.WaitFor(playwright.LocatorWaitForOptions{
		State: playwright.WaitForSelectorStateAttached,
	}))
}

// VerifyItemInCart asserts an item whose name contains name is visible
func (p *CartPage) VerifyItemInCart(name string) error {
	item := p.CartItemNames.Filter(playwright.LocatorFilterOptions{HasText: name})
	return p.expect.Visible(fmt.Sprintf("cart item %q", name), item)
}

// GetItemPrice returns the price of the cart row named name, or "" when no
// row has that name
func (p *CartPage) GetItemPrice(name string) (string, error) {
	if err := p.waitForCart(); err != nil {
		return "", err
	}

	row, err := unique(withName(p.page, p.CartItems, itemNameSelector, name), name)
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return "", nil
		}
		return "", err
	}

	text, err := row.Locator(itemPriceSelector).TextContent()
	if err != nil {
		return "", expect.Action(fmt.Sprintf("read price of %q", name), err)
	}
	return text, nil
}

// VerifyPriceFormat asserts price looks like $0.00
func (p *CartPage) VerifyPriceFormat(price string) error {
	return expect.Match("price format", models.PricePattern(), price)
}

// VerifyCartItemCount asserts the cart holds exactly n rows
func (p *CartPage) VerifyCartItemCount(n int) error {
	return p.expect.Count("cart rows", p.CartItems, n)
}

// GetAllPrices returns the price of every cart row in page order
func (p *CartPage) GetAllPrices() ([]string, error) {
	if err := p.waitForCart(); err != nil {
		return nil, err
	}

	prices, err := p.CartItemPrices.AllTextContents()
	if err != nil {
		return nil, expect.Action("read cart prices", err)
	}
	if prices == nil {
		prices = []string{}
	}
	return prices, nil
}

// Checkout starts the checkout flow
func (p *CartPage) Checkout() error {
	return expect.Action("click checkout", p.CheckoutButton.Click())
}

// ContinueShopping returns to the product listing
func (p *CartPage) ContinueShopping() error {
	return expect.Action("click continue shopping", p.ContinueShoppingButton.Click())
}
