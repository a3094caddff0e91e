package pages

import (
	"fmt"
	"regexp"

	"github.com/playwright-community/playwright-go"
	"github.com/themizzi/e2eflows/internal/expect"
	"github.com/themizzi/e2eflows/internal/models"
)

// Submit button captions
const (
	SubmitIdleText       = "Transfer Money"
	SubmitProcessingText = "Processing"
)

var (
	successClass = regexp.MustCompile(`\bsuccess\b`)
	errorClass   = regexp.MustCompile(`\berror\b`)
)

// TransferPage is the money transfer form
type TransferPage struct {
	page   playwright.Page
	expect *expect.Expect
	url    string

	RecipientInput   playwright.Locator
	AmountInput      playwright.Locator
	SubmitButton     playwright.Locator
	MessageContainer playwright.Locator
	TransactionID    playwright.Locator
}

// NewTransferPage binds the transfer form at url to page
func NewTransferPage(page playwright.Page, exp *expect.Expect, url string) *TransferPage {
	return &TransferPage{
		page:             page,
		expect:           exp,
		url:              url,
		RecipientInput:   page.GetByTestId("recipient-input"),
		AmountInput:      page.GetByTestId("amount-input"),
		SubmitButton:     page.GetByTestId("submit-button"),
		MessageContainer: page.GetByTestId("message"),
		TransactionID:    page.GetByTestId("transaction-id"),
	}
}

// Goto navigates to the transfer form
func (p *TransferPage) Goto() error {
	if _, err := p.page.Goto(p.url); err != nil {
		return expect.Action(fmt.Sprintf("navigate to %s", p.url), err)
	}
	return nil
}

// FillTransferForm types recipient and amount without validating them
func (p *TransferPage) FillTransferForm(recipient, amount string) error {
	if err := p.RecipientInput.Fill(recipient); err != nil {
		return expect.Action("fill recipient", err)
	}
	if err := p.AmountInput.Fill(amount); err != nil {
		return expect.Action("fill amount", err)
	}
	return nil
}

// SubmitTransfer clicks submit and returns once the click has been dispatched
func (p *TransferPage) SubmitTransfer() error {
	return expect.Action("click submit", p.SubmitButton.Click())
}

// WaitForMessage blocks until the result message is visible
func (p *TransferPage) WaitForMessage() error {
	return p.expect.Visible("transfer message", p.MessageContainer)
}

// VerifySuccessMessage asserts the success banner shows txnID
func (p *TransferPage) VerifySuccessMessage(txnID string) error {
	if err := p.expect.Class("transfer message", p.MessageContainer, successClass); err != nil {
		return err
	}
	if err := p.expect.ContainsText("transfer message", p.MessageContainer, "Transfer Successful"); err != nil {
		return err
	}
	return p.expect.Text("transaction id", p.TransactionID, txnID)
}

// VerifyErrorMessage asserts the error banner mentions expected
func (p *TransferPage) VerifyErrorMessage(expected string) error {
	if err := p.expect.Class("transfer message", p.MessageContainer, errorClass); err != nil {
		return err
	}
	if err := p.expect.ContainsText("transfer message", p.MessageContainer, "Transfer Failed"); err != nil {
		return err
	}
	return p.expect.ContainsText("transfer message", p.MessageContainer, expected)
}

// VerifySubmitIdle asserts the submit button is ready for another transfer
func (p *TransferPage) VerifySubmitIdle() error {
	if err := p.expect.Enabled("submit button", p.SubmitButton); err != nil {
		return err
	}
	return p.expect.Text("submit button", p.SubmitButton, SubmitIdleText)
}

// VerifySubmitEnabled asserts only that the submit button accepts clicks
func (p *TransferPage) VerifySubmitEnabled() error {
	return p.expect.Enabled("submit button", p.SubmitButton)
}

// VerifySubmitProcessing asserts the submit button shows an in-flight request
func (p *TransferPage) VerifySubmitProcessing() error {
	if err := p.expect.Disabled("submit button", p.SubmitButton); err != nil {
		return err
	}
	return p.expect.ContainsText("submit button", p.SubmitButton, SubmitProcessingText)
}

// State reads the form without waiting and reports the submission state
func (p *TransferPage) State() (models.TransferState, error) {
	visible, err := p.MessageContainer.IsVisible()
	if err != nil {
		return "", expect.Action("read message visibility", err)
	}

	var class string
	if visible {
		if class, err = p.MessageContainer.GetAttribute("class"); err != nil {
			return "", expect.Action("read message class", err)
		}
	}

	disabled, err := p.SubmitButton.IsDisabled()
	if err != nil {
		return "", expect.Action("read submit state", err)
	}

	return stateOf(visible, class, disabled), nil
}

// stateOf maps what the form shows onto the submission state machine.
// A disabled button wins over a stale message from an earlier submission
func stateOf(messageVisible bool, messageClass string, submitDisabled bool) models.TransferState {
	switch {
	case submitDisabled:
		return models.TransferStateSubmitting
	case messageVisible && successClass.MatchString(messageClass):
		return models.TransferStateSucceeded
	case messageVisible && errorClass.MatchString(messageClass):
		return models.TransferStateFailed
	default:
		return models.TransferStateIdle
	}
}
