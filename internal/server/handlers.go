package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Veraticus/spendwise/internal/model"
	"github.com/Veraticus/spendwise/internal/service"
)

type addExpenseRequest struct {
	Amount      json.Number `json:"amount"`
	Description string      `json:"description"`
	Date        string      `json:"date"`
}

type addExpenseResponse struct {
	Message  string         `json:"message"`
	Category model.Category `json:"category"`
	ID       int64          `json:"id"`
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Reply string `json:"reply"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := s.api.ListExpenses(r.Context())
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to list expenses",
			"request_id", RequestID(r.Context()), "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to load expenses")
		return
	}
	writeJSON(w, http.StatusOK, expenses)
}

func (s *Server) handleAddExpense(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req addExpenseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Description) == "" {
		writeError(w, http.StatusBadRequest, model.ErrEmptyDescription.Error())
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	expense, err := s.api.AddExpense(ctx, service.NewExpense{
		Date:        date,
		Description: req.Description,
		Amount:      amount,
	})
	switch {
	case errors.Is(err, model.ErrEmptyDescription),
		errors.Is(err, model.ErrNonPositiveAmount),
		errors.Is(err, model.ErrAmountPrecision),
		errors.Is(err, model.ErrAmountTooLarge):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		s.logger.ErrorContext(ctx, "Failed to add expense",
			"request_id", RequestID(ctx), "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, addExpenseResponse{
		Message:  "Expense Added!",
		Category: expense.Category,
		ID:       expense.ID,
	})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	reply := s.api.Chat(r.Context(), req.Message)
	writeJSON(w, http.StatusOK, chatResponse{Reply: reply})
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "id must be an integer")
		return
	}

	if err := s.api.DeleteExpense(ctx, id); err != nil {
		s.logger.ErrorContext(ctx, "Failed to delete expense",
			"request_id", RequestID(ctx), "expense_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to delete")
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Deleted successfully"})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	totals, err := s.api.Summary(r.Context())
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to summarize expenses",
			"request_id", RequestID(r.Context()), "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to summarize expenses")
		return
	}
	writeJSON(w, http.StatusOK, totals)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"uptime": time.Since(s.started).Round(time.Second).String(),
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if err := s.api.Ready(r.Context()); err != nil {
		s.logger.WarnContext(r.Context(), "Readiness check failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "unavailable",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
