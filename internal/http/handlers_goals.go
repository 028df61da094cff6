package http

import (
	"net/http"

	"github.com/google/uuid"

	"finpulse/internal/core"
)

func (s *Server) handleListGoals(w http.ResponseWriter, _ *http.Request) {
	goals := s.svc.Goals()
	if goals == nil {
		goals = []core.Goal{}
	}
	WriteJSON(w, http.StatusOK, goals)
}

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	var goal core.Goal
	if err := decodeJSON(r, &goal); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if goal.ID == "" {
		goal.ID = uuid.NewString()
	}

	if err := s.svc.CreateGoal(r.Context(), goal); err != nil {
		writeDomainError(w, err)
		return
	}
	s.afterWrite()
	WriteJSON(w, http.StatusCreated, goal)
}

func (s *Server) handleUpdateGoal(w http.ResponseWriter, r *http.Request) {
	var goal core.Goal
	if err := decodeJSON(r, &goal); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	goal.ID = r.PathValue("id")

	if err := s.svc.UpdateGoal(r.Context(), goal); err != nil {
		writeDomainError(w, err)
		return
	}
	s.afterWrite()
	WriteJSON(w, http.StatusOK, goal)
}

func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.DeleteGoal(r.Context(), r.PathValue("id")); err != nil {
		writeDomainError(w, err)
		return
	}
	s.afterWrite()
	WriteJSON(w, http.StatusNoContent, nil)
}
