package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TransferState represents the observable states of a transfer submission
type TransferState string

// Transfer states
const (
	TransferStateIdle       TransferState = "idle"
	TransferStateSubmitting TransferState = "submitting"
	TransferStateSucceeded  TransferState = "success"
	TransferStateFailed     TransferState = "error"
)

// Transfer represents one money transfer submission
type Transfer struct {
	ID            string
	Recipient     string
	Amount        int64
	State         TransferState
	TransactionID string
	Failure       string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Domain errors
var (
	ErrInvalidRecipient          = errors.New("recipient cannot be empty")
	ErrInvalidTransferTransition = errors.New("invalid transfer state transition")
	ErrEmptyTransactionID        = errors.New("transaction ID cannot be empty")
	ErrTransferAlreadyTerminated = errors.New("transfer already reached a terminal state")
)

// NewTransfer creates an idle transfer from raw form input
func NewTransfer(recipient, amount string) (*Transfer, error) {
	recipient = strings.TrimSpace(recipient)
	if recipient == "" {
		return nil, ErrInvalidRecipient
	}

	cents, err := ParseAmount(strings.TrimSpace(amount))
	if err != nil {
		return nil, err
	}

	now := time.Now()
	return &Transfer{
		ID:        uuid.New().String(),
		Recipient: recipient,
		Amount:    cents,
		State:     TransferStateIdle,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Submit moves an idle transfer into flight
func (t *Transfer) Submit() error {
	if t.IsTerminal() {
		return ErrTransferAlreadyTerminated
	}
	if t.State != TransferStateIdle {
		return fmt.Errorf("%w: cannot submit transfer in state %s", ErrInvalidTransferTransition, t.State)
	}

	t.State = TransferStateSubmitting
	t.UpdatedAt = time.Now()
	return nil
}

// Succeed completes an in-flight transfer with the issued transaction ID
func (t *Transfer) Succeed(transactionID string) error {
	if t.State != TransferStateSubmitting {
		return fmt.Errorf("%w: cannot complete transfer in state %s", ErrInvalidTransferTransition, t.State)
	}
	if transactionID == "" {
		return ErrEmptyTransactionID
	}

	t.State = TransferStateSucceeded
	t.TransactionID = transactionID
	t.UpdatedAt = time.Now()
	return nil
}

// Fail terminates an in-flight transfer with a failure reason
func (t *Transfer) Fail(reason string) error {
	if t.State != TransferStateSubmitting {
		return fmt.Errorf("%w: cannot fail transfer in state %s", ErrInvalidTransferTransition, t.State)
	}

	t.State = TransferStateFailed
	t.Failure = reason
	t.UpdatedAt = time.Now()
	return nil
}

// IsTerminal returns true once the transfer succeeded or failed
func (t *Transfer) IsTerminal() bool {
	return t.State == TransferStateSucceeded || t.State == TransferStateFailed
}

// GetFormattedAmount returns the amount formatted as a price
func (t *Transfer) GetFormattedAmount() string {
	return FormatPrice(t.Amount)
}
