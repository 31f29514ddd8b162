package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"budgetwise/internal/core"
	"budgetwise/internal/events"
	applog "budgetwise/internal/log"
	"budgetwise/internal/storage"
)

// transactionRequest is the mutable subset of a transaction. Owner and id
// come from the token and the URL, never from the body.
type transactionRequest struct {
	Type        core.TransactionType `json:"type"`
	Description string               `json:"description"`
	Amount      core.Money           `json:"amount"`
	Category    string               `json:"category"`
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r.Context())
	if !ok {
		s.respondError(w, r, http.StatusUnauthorized, "Token invalid or expired", nil)
		return
	}

	txs, err := s.transactions.ListTransactions(r.Context(), userID)
	if err != nil {
		s.respondError(w, r, http.StatusInternalServerError, "Server error", err)
		return
	}

	s.respondJSON(w, http.StatusOK, txs)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r.Context())
	if !ok {
		s.respondError(w, r, http.StatusUnauthorized, "Token invalid or expired", nil)
		return
	}

	var req transactionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	t := core.Transaction{
		UserID:      userID,
		Type:        req.Type,
		Category:    req.Category,
		Description: req.Description,
		Amount:      req.Amount,
	}
	if err := t.Validate(); err != nil {
		s.respondError(w, r, http.StatusBadRequest, err.Error(), nil)
		return
	}

	if err := s.transactions.CreateTransaction(r.Context(), &t); err != nil {
		s.respondError(w, r, http.StatusInternalServerError, "Server error", err)
		return
	}

	s.publishEvent(r, events.ActionCreated, t.ID, userID)
	s.respondJSON(w, http.StatusCreated, t)
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r.Context())
	if !ok {
		s.respondError(w, r, http.StatusUnauthorized, "Token invalid or expired", nil)
		return
	}

	id, err := parseID(r)
	if err != nil {
		s.respondError(w, r, http.StatusBadRequest, "Invalid transaction id", nil)
		return
	}

	var req transactionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	t := core.Transaction{
		ID:          id,
		UserID:      userID,
		Type:        req.Type,
		Category:    req.Category,
		Description: req.Description,
		Amount:      req.Amount,
	}
	if err := t.Validate(); err != nil {
		s.respondError(w, r, http.StatusBadRequest, err.Error(), nil)
		return
	}

	updated, err := s.transactions.UpdateTransaction(r.Context(), &t)
	if err != nil {
		// Missing and not-owned are the same outcome on purpose.
		if errors.Is(err, storage.ErrNotFound) {
			s.respondError(w, r, http.StatusNotFound, "Transaction not found", nil)
			return
		}
		s.respondError(w, r, http.StatusInternalServerError, "Server error", err)
		return
	}

	s.publishEvent(r, events.ActionUpdated, updated.ID, userID)
	s.respondJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r.Context())
	if !ok {
		s.respondError(w, r, http.StatusUnauthorized, "Token invalid or expired", nil)
		return
	}

	id, err := parseID(r)
	if err != nil {
		s.respondError(w, r, http.StatusBadRequest, "Invalid transaction id", nil)
		return
	}

	if err := s.transactions.DeleteTransaction(r.Context(), userID, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.respondError(w, r, http.StatusNotFound, "Transaction not found", nil)
			return
		}
		s.respondError(w, r, http.StatusInternalServerError, "Server error", err)
		return
	}

	s.publishEvent(r, events.ActionDeleted, id, userID)
	s.respondJSON(w, http.StatusOK, map[string]string{"message": "Transaction deleted"})
}

// publishEvent records the mutation on the audit stream. Publish failures
// are logged, never surfaced: the mutation already committed.
func (s *Server) publishEvent(r *http.Request, action string, txID, userID int64) {
	if s.events == nil {
		return
	}
	evt := events.NewTransactionEvent(action, txID, userID)
	if err := s.events.Publish(r.Context(), evt); err != nil {
		slog.WarnContext(r.Context(), "Audit event publish failed",
			"action", action,
			applog.FieldTxID, txID,
			applog.FieldUserID, userID,
			applog.FieldError, err)
	}
}

func parseID(r *http.Request) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
}
