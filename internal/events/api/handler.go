package events_api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"ms-marketplace/internal/events"
	"ms-marketplace/internal/logger"
	"ms-marketplace/internal/utils"

	"github.com/go-chi/chi/v5"
)

// Handler serves the public event catalog endpoints.
type Handler struct {
	DB     *events.DB
	Logger *logger.Logger
}

func NewHandler(db *events.DB, logger *logger.Logger) *Handler {
	return &Handler{DB: db, Logger: logger}
}

// RegisterRoutes registers the catalog routes on a chi router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/events", func(r chi.Router) {
		r.Get("/", h.ListEvents)
		r.Get("/categories", h.ListCategories)
		r.Get("/{eventId}", h.GetEvent)
	})
}

func sendJSONResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// ListEvents handles the public catalog listing with optional category and
// status filters plus limit/offset pagination.
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	opts := events.ListOptions{
		Category: r.URL.Query().Get("category"),
		Status:   r.URL.Query().Get("status"),
	}

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 {
			opts.Limit = limit
		}
	}
	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if offset, err := strconv.Atoi(offsetStr); err == nil && offset >= 0 {
			opts.Offset = offset
		}
	}

	list, err := h.DB.ListEvents(r.Context(), opts)
	if err != nil {
		h.Logger.Error("EVENTS", "Error listing events: "+err.Error())
		sendJSONResponse(w, http.StatusInternalServerError, utils.ErrorResponse("Failed to fetch events", "data access failure"))
		return
	}

	sendJSONResponse(w, http.StatusOK, utils.SuccessResponse("Events fetched", map[string]interface{}{
		"events": list,
		"count":  len(list),
	}))
}

// GetEvent handles a single catalog lookup.
func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventId")
	if eventID == "" {
		sendJSONResponse(w, http.StatusBadRequest, utils.ErrorResponse("event_id is required", "missing parameter"))
		return
	}

	event, err := h.DB.GetEvent(r.Context(), eventID)
	if err != nil {
		h.Logger.Error("EVENTS", "Error fetching event: "+err.Error())
		sendJSONResponse(w, http.StatusInternalServerError, utils.ErrorResponse("Failed to fetch event", "data access failure"))
		return
	}
	if event == nil {
		sendJSONResponse(w, http.StatusNotFound, utils.ErrorResponse("Event not found", "unknown event id"))
		return
	}

	sendJSONResponse(w, http.StatusOK, utils.SuccessResponse("Event fetched", event))
}

// ListCategories handles the curated category listing.
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.DB.ListCategories(r.Context())
	if err != nil {
		h.Logger.Error("EVENTS", "Error listing categories: "+err.Error())
		sendJSONResponse(w, http.StatusInternalServerError, utils.ErrorResponse("Failed to fetch categories", "data access failure"))
		return
	}

	sendJSONResponse(w, http.StatusOK, utils.SuccessResponse("Categories fetched", categories))
}
