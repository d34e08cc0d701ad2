package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/kintaihub/kintai-backend-go/internal/domain/timecard"
	"github.com/kintaihub/kintai-backend-go/internal/handler/http/middleware"
	"github.com/kintaihub/kintai-backend-go/internal/handler/http/response"
	approvalService "github.com/kintaihub/kintai-backend-go/internal/service/approval"
)

type ApprovalHandler interface {
	Submit(w http.ResponseWriter, r *http.Request)
	LeaderApprove(w http.ResponseWriter, r *http.Request)
	LeaderReject(w http.ResponseWriter, r *http.Request)
	AdminApprove(w http.ResponseWriter, r *http.Request)
	Reopen(w http.ResponseWriter, r *http.Request)
	History(w http.ResponseWriter, r *http.Request)
	ListForReview(w http.ResponseWriter, r *http.Request)
}

type approvalHandlerImpl struct {
	approvalService approvalService.ApprovalService
}

func NewApprovalHandler(approvalService approvalService.ApprovalService) ApprovalHandler {
	return &approvalHandlerImpl{
		approvalService: approvalService,
	}
}

type transitionRequest struct {
	Version int64  `json:"version"`
	Comment string `json:"comment"`
}

func (h *approvalHandlerImpl) decode(w http.ResponseWriter, r *http.Request) (string, transitionRequest, bool) {
	ledgerID := chi.URLParam(r, "ledgerID")
	if ledgerID == "" {
		response.BadRequest(w, "Ledger id is required", nil)
		return "", transitionRequest{}, false
	}

	var req transitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Failed to decode transition request", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return "", transitionRequest{}, false
	}

	return ledgerID, req, true
}

// Submit implements ApprovalHandler.
func (h *approvalHandlerImpl) Submit(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	ledgerID, req, ok := h.decode(w, r)
	if !ok {
		return
	}

	if err := h.approvalService.Submit(r.Context(), actor.EmployeeID, ledgerID, req.Version); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Ledger submitted", nil)
}

// LeaderApprove implements ApprovalHandler.
func (h *approvalHandlerImpl) LeaderApprove(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	ledgerID, req, ok := h.decode(w, r)
	if !ok {
		return
	}

	entry, err := h.approvalService.LeaderApprove(r.Context(), actor.EmployeeID, ledgerID, req.Version)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Ledger approved by leader", entry)
}

// LeaderReject implements ApprovalHandler.
func (h *approvalHandlerImpl) LeaderReject(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	ledgerID, req, ok := h.decode(w, r)
	if !ok {
		return
	}

	entry, err := h.approvalService.LeaderReject(r.Context(), actor.EmployeeID, ledgerID, req.Version, req.Comment)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Ledger returned to owner", entry)
}

// AdminApprove implements ApprovalHandler.
func (h *approvalHandlerImpl) AdminApprove(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	ledgerID, req, ok := h.decode(w, r)
	if !ok {
		return
	}

	entry, err := h.approvalService.AdminApprove(r.Context(), actor.EmployeeID, ledgerID, req.Version)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Ledger approved by admin", entry)
}

// Reopen implements ApprovalHandler.
func (h *approvalHandlerImpl) Reopen(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	ledgerID, req, ok := h.decode(w, r)
	if !ok {
		return
	}

	if err := h.approvalService.Reopen(r.Context(), actor.EmployeeID, ledgerID, req.Version); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Ledger reopened for edits", nil)
}

// History implements ApprovalHandler.
func (h *approvalHandlerImpl) History(w http.ResponseWriter, r *http.Request) {
	ledgerID := chi.URLParam(r, "ledgerID")
	if ledgerID == "" {
		response.BadRequest(w, "Ledger id is required", nil)
		return
	}

	entries, err := h.approvalService.History(r.Context(), ledgerID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, entries)
}

// ListForReview implements ApprovalHandler.
func (h *approvalHandlerImpl) ListForReview(w http.ResponseWriter, r *http.Request) {
	year, month, ok := yearMonthQuery(w, r)
	if !ok {
		return
	}

	status := timecard.LedgerStatus(r.URL.Query().Get("status"))
	if status == "" {
		status = timecard.StatusSubmitted
	}

	entries, err := h.approvalService.ListForReview(r.Context(), year, month, status)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result := make([]map[string]interface{}, 0, len(entries))
	for _, e := range entries {
		result = append(result, map[string]interface{}{
			"ledger_id":     e.Ledger.ID,
			"employee_id":   e.Ledger.EmployeeID,
			"employee_name": e.EmployeeName,
			"branch_id":     e.BranchID,
			"year":          e.Ledger.Year,
			"month":         e.Ledger.Month,
			"status":        string(e.Ledger.Status),
			"status_label":  e.Ledger.Status.Label(),
			"version":       e.Ledger.Version,
			"updated_at":    e.Ledger.UpdatedAt,
		})
	}

	response.Success(w, result)
}
