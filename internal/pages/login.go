package pages

import (
	"fmt"
	"regexp"

	"github.com/playwright-community/playwright-go"
	"github.com/themizzi/e2eflows/internal/expect"
)

var inventoryURL = regexp.MustCompile(`/inventory\.html`)

// LoginPage is the shop's login screen
type LoginPage struct {
	page   playwright.Page
	expect *expect.Expect
	url    string

	UsernameInput playwright.Locator
	PasswordInput playwright.Locator
	LoginButton   playwright.Locator
	ErrorMessage  playwright.Locator
	InventoryList playwright.Locator
}

// NewLoginPage binds the login screen at url to page
func NewLoginPage(page playwright.Page, exp *expect.Expect, url string) *LoginPage {
	return &LoginPage{
		page:          page,
		expect:        exp,
		url:           url,
		UsernameInput: page.Locator(`[data-test="username"]`),
		PasswordInput: page.Locator(`[data-test="password"]`),
		LoginButton:   page.Locator(`[data-test="login-button"]`),
		ErrorMessage:  page.Locator(`[data-test="error"]`),
		InventoryList: page.Locator(".inventory_list"),
	}
}

// Goto navigates to the login screen
func (p *LoginPage) Goto() error {
	if _, err := p.page.Goto(p.url); err != nil {
		return expect.Action(fmt.Sprintf("navigate to %s", p.url), err)
	}
	return nil
}

// Login fills the credentials and submits them
func (p *LoginPage) Login(username, password string) error {
	if err := p.UsernameInput.Fill(username); err != nil {
		return expect.Action("fill username", err)
	}
	if err := p.PasswordInput.Fill(password); err != nil {
		return expect.Action("fill password", err)
	}
	if err := p.LoginButton.Click(); err != nil {
		return expect.Action("click login", err)
	}
	return nil
}

// VerifyLoginSuccess asserts the browser landed on the inventory screen
func (p *LoginPage) VerifyLoginSuccess() error {
	if err := p.expect.URL("login redirect", p.page, inventoryURL); err != nil {
		return err
	}
	return p.expect.Visible("inventory list", p.InventoryList)
}

// LoginError returns the text of the login error banner
func (p *LoginPage) LoginError() (string, error) {
	if err := p.expect.Visible("login error", p.ErrorMessage); err != nil {
		return "", err
	}
	text, err := p.ErrorMessage.TextContent()
	if err != nil {
		return "", expect.Action("read login error", err)
	}
	return text, nil
}
