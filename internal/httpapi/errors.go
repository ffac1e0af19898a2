package httpapi

import (
	"errors"
	"net/http"

	"github.com/pocketfin/pocketfin/internal/errs"
)

// errorResponse is the standard error payload for the API. The client shows
// Error verbatim to the user.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// mapServiceError normalizes service errors into an HTTP status and code.
// Unknown errors become opaque 500s so store-level details never leak.
func mapServiceError(err error) (status int, code string) {
	switch {
	case errors.Is(err, errs.ErrInvalidTransaction):
		return http.StatusBadRequest, "invalid_transaction"
	case errors.Is(err, errs.ErrInvalid):
		return http.StatusBadRequest, "invalid_request"
	case errors.Is(err, errs.ErrWalletNotFound):
		return http.StatusNotFound, "wallet_not_found"
	case errors.Is(err, errs.ErrTransactionNotFound):
		return http.StatusNotFound, "transaction_not_found"
	case errors.Is(err, errs.ErrUserNotFound), errors.Is(err, errs.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, errs.ErrInsufficientBalance):
		return http.StatusUnprocessableEntity, "insufficient_balance"
	case errors.Is(err, errs.ErrDeleteWouldOverdraw):
		return http.StatusUnprocessableEntity, "delete_would_overdraw"
	case errors.Is(err, errs.ErrUploadFailed):
		return http.StatusUnprocessableEntity, "upload_failed"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func serviceError(w http.ResponseWriter, err error) {
	status, code := mapServiceError(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal error"
	}
	toJSON(w, status, errorResponse{Error: msg, Code: code})
}

func badRequest(w http.ResponseWriter, msg string) {
	toJSON(w, http.StatusBadRequest, errorResponse{Error: msg})
}
