package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/kintaihub/kintai-backend-go/internal/domain/expense"
	"github.com/kintaihub/kintai-backend-go/internal/handler/http/middleware"
	"github.com/kintaihub/kintai-backend-go/internal/handler/http/response"
	expenseService "github.com/kintaihub/kintai-backend-go/internal/service/expense"
)

type ExpenseHandler interface {
	GetMyMonth(w http.ResponseWriter, r *http.Request)
	SaveItems(w http.ResponseWriter, r *http.Request)
	AddReceipt(w http.ResponseWriter, r *http.Request)
	DeleteReceipt(w http.ResponseWriter, r *http.Request)
}

type expenseHandlerImpl struct {
	expenseService expenseService.ExpenseService
}

func NewExpenseHandler(expenseService expenseService.ExpenseService) ExpenseHandler {
	return &expenseHandlerImpl{
		expenseService: expenseService,
	}
}

// GetMyMonth implements ExpenseHandler.
func (h *expenseHandlerImpl) GetMyMonth(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	year, month, ok := yearMonthQuery(w, r)
	if !ok {
		return
	}

	result, err := h.expenseService.GetMonth(r.Context(), actor.EmployeeID, year, month)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// SaveItems implements ExpenseHandler.
func (h *expenseHandlerImpl) SaveItems(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req expense.SaveItemsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Failed to decode save items request", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.EmployeeID = actor.EmployeeID

	result, err := h.expenseService.SaveItems(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Expense items saved", result)
}

// AddReceipt implements ExpenseHandler.
func (h *expenseHandlerImpl) AddReceipt(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	year, month, ok := yearMonthQuery(w, r)
	if !ok {
		return
	}

	// Parse multipart form (max 10MB)
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		slog.Error("Failed to parse multipart form", "error", err)
		response.BadRequest(w, "Failed to parse form data", nil)
		return
	}

	file, fileHeader, err := r.FormFile("receipt")
	if err != nil {
		if err == http.ErrMissingFile {
			response.BadRequest(w, "Receipt file is required", nil)
			return
		}
		slog.Error("Failed to get file from form", "error", err)
		response.BadRequest(w, "Invalid file upload", nil)
		return
	}
	defer file.Close()

	remarks := r.FormValue("remarks")

	result, err := h.expenseService.AddReceipt(r.Context(), actor.EmployeeID, year, month, file, fileHeader.Filename, remarks)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Receipt uploaded", result)
}

// DeleteReceipt implements ExpenseHandler.
func (h *expenseHandlerImpl) DeleteReceipt(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	receiptID := chi.URLParam(r, "receiptID")
	if receiptID == "" {
		response.BadRequest(w, "Receipt id is required", nil)
		return
	}

	if err := h.expenseService.DeleteReceipt(r.Context(), actor.EmployeeID, receiptID); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Receipt deleted", nil)
}
