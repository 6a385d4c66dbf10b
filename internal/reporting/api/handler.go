package reporting_api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"ms-marketplace/internal/auth"
	"ms-marketplace/internal/logger"
	"ms-marketplace/internal/reporting"
	"ms-marketplace/internal/roles"
	"ms-marketplace/internal/utils"

	"github.com/go-chi/chi/v5"
)

// Handler serves the admin sales report endpoint.
type Handler struct {
	Service *reporting.Service
	Roles   *roles.DB
	Cache   *reporting.Cache
	Logger  *logger.Logger
}

func NewHandler(service *reporting.Service, rolesDB *roles.DB, cache *reporting.Cache, logger *logger.Logger) *Handler {
	return &Handler{Service: service, Roles: rolesDB, Cache: cache, Logger: logger}
}

// RegisterRoutes registers the admin reporting routes on a chi router. The
// router passed in is expected to already carry the auth middleware.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/admin/analytics/sales", h.SalesReport)
}

type reportRequest struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Category  string `json:"category"`
	EventID   string `json:"eventId"`
	Period    int    `json:"period"`
}

func sendJSONResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// SalesReport computes the full sales report for an admin-class caller.
// Date bounds arrive as calendar dates; the end bound is widened to the
// end of its day so single-day ranges behave as expected.
func (h *Handler) SalesReport(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	if userID == "" {
		sendJSONResponse(w, http.StatusUnauthorized, utils.ErrorResponse("Authentication required", "missing user identity"))
		return
	}

	requester, err := h.Roles.Requester(r.Context(), userID)
	if err != nil {
		h.Logger.Error("REPORTS", "Error resolving requester role: "+err.Error())
		sendJSONResponse(w, http.StatusInternalServerError, utils.ErrorResponse("Failed to resolve requester", "data access failure"))
		return
	}
	if !requester.IsAdminClass() {
		h.Logger.LogSecurity("access_denied", "Sales report denied for user "+userID)
		sendJSONResponse(w, http.StatusForbidden, utils.ErrorResponse("Admin access required", "insufficient role"))
		return
	}

	// An empty body means "default report", so io.EOF is not an error.
	var req reportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		sendJSONResponse(w, http.StatusBadRequest, utils.ErrorResponse("Invalid request body", err.Error()))
		return
	}

	filter, err := buildFilter(req)
	if err != nil {
		sendJSONResponse(w, http.StatusBadRequest, utils.ErrorResponse("Invalid report filter", err.Error()))
		return
	}

	if cached, err := h.Cache.Get(r.Context(), filter); err != nil {
		h.Logger.Warn("REPORTS", "Report cache read failed: "+err.Error())
	} else if cached != nil {
		h.Logger.LogReport(userID, "sales report served from cache")
		sendJSONResponse(w, http.StatusOK, utils.SuccessResponse("Sales report generated", cached))
		return
	}

	env, err := h.Service.ComputeReport(r.Context(), requester, filter)
	if err != nil {
		h.writeReportError(w, userID, err)
		return
	}

	if err := h.Cache.Set(r.Context(), filter, env); err != nil {
		h.Logger.Warn("REPORTS", "Report cache write failed: "+err.Error())
	}

	h.Logger.LogReport(userID, "sales report computed")
	sendJSONResponse(w, http.StatusOK, utils.SuccessResponse("Sales report generated", env))
}

// writeReportError maps the reporting error taxonomy onto HTTP statuses.
// Internal failures are logged in full but never leak query details to
// the caller.
func (h *Handler) writeReportError(w http.ResponseWriter, userID string, err error) {
	var validationErr *reporting.ValidationError
	if errors.As(err, &validationErr) {
		sendJSONResponse(w, http.StatusBadRequest, utils.ErrorResponse("Invalid report filter", validationErr.Error()))
		return
	}

	var notFoundErr *reporting.NotFoundError
	if errors.As(err, &notFoundErr) {
		sendJSONResponse(w, http.StatusNotFound, utils.ErrorResponse("Report target not found", notFoundErr.Error()))
		return
	}

	h.Logger.Error("REPORTS", "Sales report failed for user "+userID+": "+err.Error())
	sendJSONResponse(w, http.StatusInternalServerError, utils.ErrorResponse("Failed to generate sales report", "data access failure"))
}

func buildFilter(req reportRequest) (reporting.Filter, error) {
	var filter reporting.Filter
	filter.Category = req.Category
	filter.EventID = req.EventID
	filter.PeriodDays = req.Period

	if req.StartDate != "" {
		start, err := utils.ParseDate(req.StartDate)
		if err != nil {
			return filter, err
		}
		filter.StartDate = &start
	}
	if req.EndDate != "" {
		end, err := utils.ParseDate(req.EndDate)
		if err != nil {
			return filter, err
		}
		end = utils.EndOfDay(end)
		filter.EndDate = &end
	}
	return filter, nil
}
