package routemock

import (
	"net/http"

	"github.com/themizzi/e2eflows/internal/handlers"
)

// TransferPattern matches the transfer form's API call
const TransferPattern = "**/api/transfer"

// TransferSucceeded answers the transfer API with 200 and txnID
func TransferSucceeded(txnID string) Mock {
	m, _ := FulfillJSON(TransferPattern, http.StatusOK, handlers.TransferResponse{
		Status:        "success",
		TransactionID: txnID,
	})
	return m
}

// TransferRejected answers the transfer API with 400 and message
func TransferRejected(message string) Mock {
	m, _ := FulfillJSON(TransferPattern, http.StatusBadRequest, handlers.ErrorResponse{
		Error: message,
	})
	return m
}

// TransferNetworkFailure aborts the transfer API call
func TransferNetworkFailure() Mock {
	return Abort(TransferPattern, FailureFailed)
}
