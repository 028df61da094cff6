package http

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"finpulse/internal/core"
)

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			WriteError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	txns := s.svc.RecentTransactions(limit)
	if txns == nil {
		txns = []core.Transaction{}
	}
	WriteJSON(w, http.StatusOK, txns)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var txn core.Transaction
	if err := decodeJSON(r, &txn); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if txn.ID == "" {
		txn.ID = uuid.NewString()
	}

	if err := s.svc.CreateTransaction(r.Context(), txn); err != nil {
		writeDomainError(w, err)
		return
	}
	s.afterWrite()
	WriteJSON(w, http.StatusCreated, txn)
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	var txn core.Transaction
	if err := decodeJSON(r, &txn); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	txn.ID = r.PathValue("id")

	if err := s.svc.UpdateTransaction(r.Context(), txn); err != nil {
		writeDomainError(w, err)
		return
	}
	s.afterWrite()
	WriteJSON(w, http.StatusOK, txn)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.DeleteTransaction(r.Context(), r.PathValue("id")); err != nil {
		writeDomainError(w, err)
		return
	}
	s.afterWrite()
	WriteJSON(w, http.StatusNoContent, nil)
}
