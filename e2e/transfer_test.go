package e2e

import (
	"testing"
	"time"

	"github.com/themizzi/e2eflows/internal/expect"
	"github.com/themizzi/e2eflows/internal/models"
	"github.com/themizzi/e2eflows/internal/pages"
	"github.com/themizzi/e2eflows/internal/routemock"
	"github.com/themizzi/e2eflows/internal/runner"
)

// openTransferForm mocks the transfer API, opens the form and fills it
func openTransferForm(sc *runner.Scenario, mock routemock.Mock, recipient, amount string) (*pages.TransferPage, error) {
	if err := sc.Mock(mock); err != nil {
		return nil, err
	}

	tp := sc.TransferPage()
	if err := tp.Goto(); err != nil {
		return nil, err
	}
	if err := tp.FillTransferForm(recipient, amount); err != nil {
		return nil, err
	}
	return tp, nil
}

// submitAndWait submits the form and waits for the result message
func submitAndWait(tp *pages.TransferPage) error {
	if err := tp.SubmitTransfer(); err != nil {
		return err
	}
	return tp.WaitForMessage()
}

func verifyState(tp *pages.TransferPage, want models.TransferState) error {
	got, err := tp.State()
	if err != nil {
		return err
	}
	return expect.Equal("transfer state", want, got)
}

// Feature: Money transfer
//
//	As an account holder
//	I want clear feedback on every transfer outcome
//	So that I know whether my money moved
var transfers = plan.Describe("Money Transfer - API Mocking")

func init() {
	g := transfers

	g.Test("should handle successful money transfer (200 OK)", func(sc *runner.Scenario) error {
		tp, err := openTransferForm(sc, routemock.TransferSucceeded("12345"), "ACC123456", "100.50")
		if err != nil {
			return err
		}
		if err := verifyState(tp, models.TransferStateIdle); err != nil {
			return err
		}
		if err := submitAndWait(tp); err != nil {
			return err
		}

		if err := tp.VerifySuccessMessage("12345"); err != nil {
			return err
		}
		if err := sc.Expect.ContainsText("transfer message", tp.MessageContainer, "success"); err != nil {
			return err
		}
		if err := tp.VerifySubmitIdle(); err != nil {
			return err
		}
		return verifyState(tp, models.TransferStateSucceeded)
	})

	g.Test("should handle insufficient funds error (400 Bad Request)", func(sc *runner.Scenario) error {
		tp, err := openTransferForm(sc, routemock.TransferRejected("Insufficient funds"), "ACC789012", "5000.00")
		if err != nil {
			return err
		}
		if err := submitAndWait(tp); err != nil {
			return err
		}

		if err := tp.VerifyErrorMessage("Insufficient funds"); err != nil {
			return err
		}
		if err := tp.VerifySubmitIdle(); err != nil {
			return err
		}
		return verifyState(tp, models.TransferStateFailed)
	})

	g.Test("should handle network error gracefully", func(sc *runner.Scenario) error {
		tp, err := openTransferForm(sc, routemock.TransferNetworkFailure(), "ACC999999", "250.00")
		if err != nil {
			return err
		}
		if err := submitAndWait(tp); err != nil {
			return err
		}

		return tp.VerifyErrorMessage("Network Error")
	})

	g.Test("should disable submit button during processing", func(sc *runner.Scenario) error {
		mock := routemock.TransferSucceeded("67890").WithDelay(2 * time.Second)
		tp, err := openTransferForm(sc, mock, "ACC111111", "75.25")
		if err != nil {
			return err
		}

		submitted := make(chan error, 1)
		go func() {
			submitted <- tp.SubmitTransfer()
		}()

		if err := tp.VerifySubmitProcessing(); err != nil {
			<-submitted
			return err
		}
		if err := verifyState(tp, models.TransferStateSubmitting); err != nil {
			<-submitted
			return err
		}

		if err := <-submitted; err != nil {
			return err
		}
		if err := tp.WaitForMessage(); err != nil {
			return err
		}
		return tp.VerifySubmitEnabled()
	})

}

func TestMoneyTransfer(t *testing.T) {
	transfers.Run(t, requireSuite(t))
}
