package http

import (
	"net/http"

	"github.com/google/uuid"

	"finpulse/internal/core"
)

func (s *Server) handleListAccounts(w http.ResponseWriter, _ *http.Request) {
	snap := s.svc.Snapshot()
	accounts := snap.Accounts
	if accounts == nil {
		accounts = []core.Account{}
	}
	WriteJSON(w, http.StatusOK, accounts)
}

func (s *Server) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	var account core.Account
	if err := decodeJSON(r, &account); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if account.ID == "" {
		account.ID = uuid.NewString()
	}

	if err := s.svc.CreateAccount(r.Context(), account); err != nil {
		writeDomainError(w, err)
		return
	}
	s.afterWrite()
	WriteJSON(w, http.StatusCreated, account)
}

func (s *Server) handleUpdateAccount(w http.ResponseWriter, r *http.Request) {
	var account core.Account
	if err := decodeJSON(r, &account); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	account.ID = r.PathValue("id")

	if err := s.svc.UpdateAccount(r.Context(), account); err != nil {
		writeDomainError(w, err)
		return
	}
	s.afterWrite()
	WriteJSON(w, http.StatusOK, account)
}

func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.DeleteAccount(r.Context(), r.PathValue("id")); err != nil {
		writeDomainError(w, err)
		return
	}
	s.afterWrite()
	WriteJSON(w, http.StatusNoContent, nil)
}
