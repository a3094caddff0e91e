package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/themizzi/e2eflows/internal/services"
)

// TransferHandler serves the stub transfer API used when exploring the
// transfer form without route mocks
type TransferHandler struct {
	service services.TransferService
	logger  *log.Logger
}

// NewTransferHandler creates a new transfer handler
func NewTransferHandler(service services.TransferService, logger *log.Logger) *TransferHandler {
	return &TransferHandler{
		service: service,
		logger:  logger,
	}
}

// TransferRequest is the body posted by the transfer form
type TransferRequest struct {
	Recipient string `json:"recipient"`
	Amount    string `json:"amount"`
}

// TransferResponse is returned for an accepted transfer
type TransferResponse struct {
	Status        string `json:"status"`
	TransactionID string `json:"transactionId"`
}

// ErrorResponse is returned for a rejected transfer
type ErrorResponse struct {
	Error string `json:"error"`
}

// ServeHTTP handles POST /api/transfer
func (h *TransferHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Rejected malformed transfer request", "err", err)
		sendErrorResponse(w, "Malformed request", http.StatusBadRequest)
		return
	}

	transfer, err := h.service.Transfer(req.Recipient, req.Amount)
	if err != nil {
		h.logger.Info("Transfer rejected", "recipient", req.Recipient, "amount", req.Amount, "err", err)
		sendErrorResponse(w, userMessage(err), http.StatusBadRequest)
		return
	}

	h.logger.Info("Transfer accepted", "recipient", transfer.Recipient,
		"amount", transfer.GetFormattedAmount(), "transactionId", transfer.TransactionID)

	sendJSON(w, http.StatusOK, TransferResponse{
		Status:        string(transfer.State),
		TransactionID: transfer.TransactionID,
	})
}

// userMessage maps service errors onto the text the transfer form displays
func userMessage(err error) string {
	if errors.Is(err, services.ErrInsufficientFunds) {
		return "Insufficient funds"
	}
	if inner := errors.Unwrap(err); inner != nil {
		return inner.Error()
	}
	return err.Error()
}

// sendErrorResponse sends a JSON error response
func sendErrorResponse(w http.ResponseWriter, message string, statusCode int) {
	sendJSON(w, statusCode, ErrorResponse{Error: message})
}

func sendJSON(w http.ResponseWriter, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(body)
}
