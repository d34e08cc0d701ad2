package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/kintaihub/kintai-backend-go/internal/domain/timecard"
	"github.com/kintaihub/kintai-backend-go/internal/handler/http/middleware"
	"github.com/kintaihub/kintai-backend-go/internal/handler/http/response"
	"github.com/kintaihub/kintai-backend-go/internal/pkg/validator"
	timecardService "github.com/kintaihub/kintai-backend-go/internal/service/timecard"
)

type TimecardHandler interface {
	GetMyMonth(w http.ResponseWriter, r *http.Request)
	SaveRecords(w http.ResponseWriter, r *http.Request)
	Validate(w http.ResponseWriter, r *http.Request)
}

type timecardHandlerImpl struct {
	timecardService timecardService.TimecardService
}

func NewTimecardHandler(timecardService timecardService.TimecardService) TimecardHandler {
	return &timecardHandlerImpl{
		timecardService: timecardService,
	}
}

// GetMyMonth implements TimecardHandler.
func (h *timecardHandlerImpl) GetMyMonth(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	year, month, ok := yearMonthQuery(w, r)
	if !ok {
		return
	}

	result, err := h.timecardService.GetMonth(r.Context(), actor.EmployeeID, year, month)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// SaveRecords implements TimecardHandler.
func (h *timecardHandlerImpl) SaveRecords(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req timecard.SaveRecordsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Failed to decode save records request", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.EmployeeID = actor.EmployeeID

	result, err := h.timecardService.SaveRecords(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance records saved", result)
}

// Validate implements TimecardHandler.
func (h *timecardHandlerImpl) Validate(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	year, month, ok := yearMonthQuery(w, r)
	if !ok {
		return
	}

	violations, err := h.timecardService.Validate(r.Context(), actor.EmployeeID, year, month)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, map[string]interface{}{
		"valid":      len(violations) == 0,
		"violations": violations,
	})
}

func yearMonthQuery(w http.ResponseWriter, r *http.Request) (int, int, bool) {
	rawYear := r.URL.Query().Get("year")
	rawMonth := r.URL.Query().Get("month")
	if !validator.IsNumeric(rawYear) || !validator.IsNumeric(rawMonth) {
		response.BadRequest(w, "Query parameters 'year' and 'month' are required", nil)
		return 0, 0, false
	}

	year, _ := strconv.Atoi(rawYear)
	month, _ := strconv.Atoi(rawMonth)
	if !validator.IsValidYearMonth(year, month) {
		response.BadRequest(w, "Query parameters 'year' and 'month' are out of range", nil)
		return 0, 0, false
	}

	return year, month, true
}
