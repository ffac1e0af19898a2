// Wallet handlers: CRUD plus the cascading delete.
package httpapi

import (
	"encoding/json"
	"net/http"

	chi "github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pocketfin/pocketfin/internal/finance"
)

func (s *Server) postWallet(w http.ResponseWriter, r *http.Request) {
	var req postWalletRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		badRequest(w, "invalid JSON: "+err.Error())
		return
	}
	if req.UserID == uuid.Nil || req.Name == "" {
		badRequest(w, "user_id and name are required")
		return
	}
	created, err := s.walletSvc.Create(r.Context(), finance.Wallet{UserID: req.UserID, Name: req.Name}, req.ImagePath)
	if err != nil {
		serviceError(w, err)
		return
	}
	toJSON(w, http.StatusCreated, toWalletResponse(created))
}

func (s *Server) listWallets(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseUserID(w, r)
	if !ok {
		return
	}
	wallets, err := s.walletSvc.List(r.Context(), userID)
	if err != nil {
		serviceError(w, err)
		return
	}
	out := make([]walletResponse, 0, len(wallets))
	for _, wl := range wallets {
		out = append(out, toWalletResponse(wl))
	}
	toJSON(w, http.StatusOK, out)
}

func (s *Server) getWallet(w http.ResponseWriter, r *http.Request) {
	walletID, userID, ok := parseWalletScope(w, r)
	if !ok {
		return
	}
	wl, err := s.walletSvc.Get(r.Context(), userID, walletID)
	if err != nil {
		serviceError(w, err)
		return
	}
	toJSON(w, http.StatusOK, toWalletResponse(wl))
}

func (s *Server) patchWallet(w http.ResponseWriter, r *http.Request) {
	walletID, userID, ok := parseWalletScope(w, r)
	if !ok {
		return
	}
	var req patchWalletRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		badRequest(w, "invalid JSON: "+err.Error())
		return
	}
	wl, err := s.walletSvc.Update(r.Context(), userID, walletID, req.Name, req.ImagePath)
	if err != nil {
		serviceError(w, err)
		return
	}
	toJSON(w, http.StatusOK, toWalletResponse(wl))
}

// deleteWallet removes the wallet and every transaction referencing it.
func (s *Server) deleteWallet(w http.ResponseWriter, r *http.Request) {
	walletID, userID, ok := parseWalletScope(w, r)
	if !ok {
		return
	}
	if err := s.walletSvc.Delete(r.Context(), userID, walletID); err != nil {
		serviceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// parseUserID reads the required user_id query param.
func parseUserID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := r.URL.Query().Get("user_id")
	if raw == "" {
		badRequest(w, "user_id is required")
		return uuid.Nil, false
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		badRequest(w, "invalid user_id")
		return uuid.Nil, false
	}
	return userID, true
}

// parseWalletScope reads the {id} path param plus the user_id query param.
func parseWalletScope(w http.ResponseWriter, r *http.Request) (walletID, userID uuid.UUID, ok bool) {
	walletID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, "invalid wallet id")
		return uuid.Nil, uuid.Nil, false
	}
	userID, ok = parseUserID(w, r)
	return walletID, userID, ok
}
