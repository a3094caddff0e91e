package services

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/themizzi/e2eflows/internal/models"
)

// ErrInsufficientFunds is returned when a transfer exceeds the available balance
var ErrInsufficientFunds = errors.New("insufficient funds")

// TransferService handles money transfer business logic
type TransferService interface {
	Transfer(recipient, amount string) (*models.Transfer, error)
	Balance() int64
}

// TransferServiceImpl implements TransferService against an in-memory balance
type TransferServiceImpl struct {
	mu            sync.Mutex
	balance       int64
	transactionID func() string
}

// NewTransferService creates a transfer service holding the given balance in cents
func NewTransferService(balance int64) *TransferServiceImpl {
	return &TransferServiceImpl{
		balance:       balance,
		transactionID: newTransactionID,
	}
}

// Transfer validates and books a transfer. A transfer that was submitted but
// rejected is returned alongside the error in its failed state
func (s *TransferServiceImpl) Transfer(recipient, amount string) (*models.Transfer, error) {
	transfer, err := models.NewTransfer(recipient, amount)
	if err != nil {
		return nil, fmt.Errorf("invalid transfer: %w", err)
	}

	if err := transfer.Submit(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if transfer.Amount > s.balance {
		if err := transfer.Fail("Insufficient funds"); err != nil {
			return nil, err
		}
		return transfer, ErrInsufficientFunds
	}

	if err := transfer.Succeed(s.transactionID()); err != nil {
		return nil, err
	}
	s.balance -= transfer.Amount

	return transfer, nil
}

// Balance returns the remaining balance in cents
func (s *TransferServiceImpl) Balance() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.balance
}

func newTransactionID() string {
	id := strings.ReplaceAll(uuid.New().String(), "-", "")
	return "TXN-" + strings.ToUpper(id[:10])
}
