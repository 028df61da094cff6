package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"finpulse/internal/core"
	"finpulse/internal/store"
)

// decodeJSON decodes the request body into dst, rejecting unknown fields.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// writeDomainError maps store and validation errors onto status codes:
// unknown ids are 404, duplicate ids 409, everything a Validate method
// rejects 422.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrAccountNotFound),
		errors.Is(err, store.ErrTransactionNotFound),
		errors.Is(err, store.ErrGoalNotFound),
		errors.Is(err, store.ErrBudgetNotFound):
		WriteError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, store.ErrDuplicateID):
		WriteError(w, http.StatusConflict, err.Error())
	default:
		WriteError(w, http.StatusUnprocessableEntity, err.Error())
	}
}

// afterWrite invalidates derived views after any successful mutation.
func (s *Server) afterWrite() {
	s.dashCache.Purge()
}

func (s *Server) handleCategories(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, core.AllCategories())
}

func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	snap := s.svc.Snapshot()
	observations := s.insights.Observations(r.Context(),
		s.svc.RecentTransactions(s.insightTxnLimit), snap.Goals)
	WriteJSON(w, http.StatusOK, map[string][]string{"insights": observations})
}

func (s *Server) handleGetSettings(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, s.svc.Snapshot().Preferences)
}

func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var patch struct {
		UserName *string `json:"userName"`
		Currency *string `json:"currency"`
		Language *string `json:"language"`
		DarkMode *bool   `json:"isDarkMode"`
	}
	if err := decodeJSON(r, &patch); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := s.svc.UpdateSettings(r.Context(), store.UpdateSettings{
		UserName: patch.UserName,
		Currency: patch.Currency,
		Language: patch.Language,
		DarkMode: patch.DarkMode,
	})
	if err != nil {
		slog.ErrorContext(r.Context(), "Settings update failed", "error", err)
		WriteError(w, http.StatusInternalServerError, "failed to update settings")
		return
	}
	s.afterWrite()
	WriteJSON(w, http.StatusOK, s.svc.Snapshot().Preferences)
}
