package httpapi

import (
	"context"
	"encoding/json"
	"net/http"

	chi "github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type ctxKey string

const ctxKeyPostTransaction ctxKey = "validatedPostTransaction"

// validatePostTransaction parses POST /transactions and stores the request in
// the context for the handler. Business invariants (amount, type, wallet
// resolution) are the service's job; this layer only rejects malformed JSON.
func (s *Server) validatePostTransaction() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var req postTransactionRequest
			dec := json.NewDecoder(r.Body)
			dec.DisallowUnknownFields()
			if err := dec.Decode(&req); err != nil {
				badRequest(w, "invalid JSON: "+err.Error())
				return
			}
			ctx := context.WithValue(r.Context(), ctxKeyPostTransaction, req)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// postTransaction handles both create (no id) and update (id present).
func (s *Server) postTransaction(w http.ResponseWriter, r *http.Request) {
	v := r.Context().Value(ctxKeyPostTransaction)
	req, ok := v.(postTransactionRequest)
	if !ok {
		toJSON(w, http.StatusInternalServerError, errorResponse{Error: "validated request missing"})
		return
	}
	saved, err := s.txSvc.Save(r.Context(), toTransactionDomain(req), req.ImagePath)
	if err != nil {
		serviceError(w, err)
		return
	}
	status := http.StatusCreated
	if req.ID != uuid.Nil {
		status = http.StatusOK
	}
	toJSON(w, status, toTransactionResponse(saved))
}

func (s *Server) listTransactions(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseUserID(w, r)
	if !ok {
		return
	}
	var walletID *uuid.UUID
	if raw := r.URL.Query().Get("wallet_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			badRequest(w, "invalid wallet_id")
			return
		}
		walletID = &id
	}
	txs, err := s.txSvc.List(r.Context(), userID, walletID)
	if err != nil {
		serviceError(w, err)
		return
	}
	out := make([]transactionResponse, 0, len(txs))
	for _, tx := range txs {
		out = append(out, toTransactionResponse(tx))
	}
	toJSON(w, http.StatusOK, out)
}

func (s *Server) deleteTransaction(w http.ResponseWriter, r *http.Request) {
	txID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, "invalid transaction id")
		return
	}
	userID, ok := parseUserID(w, r)
	if !ok {
		return
	}
	if err := s.txSvc.Delete(r.Context(), userID, txID); err != nil {
		serviceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
