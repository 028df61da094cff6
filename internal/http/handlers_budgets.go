package http

import (
	"net/http"

	"github.com/google/uuid"

	"finpulse/internal/core"
)

func (s *Server) handleListBudgets(w http.ResponseWriter, _ *http.Request) {
	budgets := s.svc.Snapshot().Budgets
	if budgets == nil {
		budgets = []core.Budget{}
	}
	WriteJSON(w, http.StatusOK, budgets)
}

func (s *Server) handleCreateBudget(w http.ResponseWriter, r *http.Request) {
	var budget core.Budget
	if err := decodeJSON(r, &budget); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if budget.ID == "" {
		budget.ID = uuid.NewString()
	}

	if err := s.svc.CreateBudget(r.Context(), budget); err != nil {
		writeDomainError(w, err)
		return
	}
	s.afterWrite()
	WriteJSON(w, http.StatusCreated, budget)
}

func (s *Server) handleUpdateBudget(w http.ResponseWriter, r *http.Request) {
	var budget core.Budget
	if err := decodeJSON(r, &budget); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	budget.ID = r.PathValue("id")

	if err := s.svc.UpdateBudget(r.Context(), budget); err != nil {
		writeDomainError(w, err)
		return
	}
	s.afterWrite()
	WriteJSON(w, http.StatusOK, budget)
}

func (s *Server) handleDeleteBudget(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.DeleteBudget(r.Context(), r.PathValue("id")); err != nil {
		writeDomainError(w, err)
		return
	}
	s.afterWrite()
	WriteJSON(w, http.StatusNoContent, nil)
}
