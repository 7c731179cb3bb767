package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"townboard/backend/internal/http/middleware"
	"townboard/backend/internal/ingest"
	"townboard/backend/internal/models"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
)

const (
	maxTitleLen       = 200
	maxDescriptionLen = 10000
	maxListLimit      = 100
	defaultListLimit  = 20
)

type createEventRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Address     string `json:"address"`
	Website     string `json:"website"`
	Date        string `json:"date"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	EndDate     string `json:"endDate"`
	FeeRequired string `json:"feeRequired"`
}

func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	logger := h.loggerForRequest(r)
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		logger.Warn("action", "action", "create_event", "status", "unauthorized")
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req createEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("action", "action", "create_event", "status", "invalid_json")
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	if len(req.Title) == 0 || len(req.Title) > maxTitleLen {
		logger.Warn("action", "action", "create_event", "status", "invalid_title")
		writeError(w, http.StatusBadRequest, "title length invalid")
		return
	}
	if len(req.Description) > maxDescriptionLen {
		logger.Warn("action", "action", "create_event", "status", "invalid_description")
		writeError(w, http.StatusBadRequest, "description too long")
		return
	}

	limiterKey := strconv.FormatInt(userID, 10)
	if !h.createLimiter.Allow(limiterKey) {
		logger.Warn("action", "action", "create_event", "status", "rate_limited")
		writeRateLimited(w, h.createLimiter.RetryAfter(limiterKey), "event create limit reached")
		return
	}

	event := models.Event{
		CreatorUserID: userID,
		Title:         req.Title,
		Description:   ingest.SanitizeDescription(req.Description),
		Address:       strings.TrimSpace(req.Address),
		Website:       strings.TrimSpace(req.Website),
		Date:          strings.TrimSpace(req.Date),
		StartTime:     strings.TrimSpace(req.StartTime),
		EndTime:       strings.TrimSpace(req.EndTime),
		EndDate:       strings.TrimSpace(req.EndDate),
		FeeRequired:   strings.TrimSpace(req.FeeRequired),
	}
	if event.Website != "" {
		event.SourceHost = ingest.SourceHost(event.Website)
	}

	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	enriched, missing := h.enricher.Enrich(ctx, event)

	eventID, err := h.repo.CreateEvent(ctx, enriched)
	if err != nil {
		logger.Error("action", "action", "create_event", "status", "db_error", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create event")
		return
	}

	logger.Info(
		"action",
		"action", "create_event",
		"status", "success",
		"event_id", eventID,
		"slug", enriched.Slug,
		"missing_fields", missing,
	)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"eventId":       eventID,
		"slug":          enriched.Slug,
		"missingFields": missing,
	})
}

func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	logger := h.loggerForRequest(r)
	eventID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid event id")
		return
	}

	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	viewerID, _ := middleware.UserIDFromContext(r.Context())
	event, err := h.repo.GetEventByID(ctx, eventID, viewerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "event not found")
			return
		}
		logger.Error("action", "action", "get_event", "status", "db_error", "error", err)
		writeError(w, http.StatusInternalServerError, "db error")
		return
	}
	if event.IsHidden && viewerID != event.CreatorUserID {
		writeError(w, http.StatusNotFound, "event not found")
		return
	}
	writeJSON(w, http.StatusOK, event)
}

func (h *Handler) GetEventBySlug(w http.ResponseWriter, r *http.Request) {
	logger := h.loggerForRequest(r)
	slug := chi.URLParam(r, "slug")
	if slug == "" {
		writeError(w, http.StatusBadRequest, "invalid slug")
		return
	}

	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	viewerID, _ := middleware.UserIDFromContext(r.Context())
	event, err := h.repo.GetEventBySlug(ctx, slug, viewerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "event not found")
			return
		}
		logger.Error("action", "action", "get_event_by_slug", "status", "db_error", "error", err)
		writeError(w, http.StatusInternalServerError, "db error")
		return
	}
	if event.IsHidden && viewerID != event.CreatorUserID {
		writeError(w, http.StatusNotFound, "event not found")
		return
	}
	writeJSON(w, http.StatusOK, event)
}

func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	logger := h.loggerForRequest(r)

	limit := defaultListLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	offset := 0
	if v := r.URL.Query().Get("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			offset = parsed
		}
	}
	city := strings.TrimSpace(r.URL.Query().Get("city"))

	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	viewerID, _ := middleware.UserIDFromContext(r.Context())
	items, total, err := h.repo.ListEvents(ctx, viewerID, city, limit, offset)
	if err != nil {
		logger.Error("action", "action", "list_events", "status", "db_error", "error", err)
		writeError(w, http.StatusInternalServerError, "db error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"items":  items,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

type updateEventRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Address     *string `json:"address"`
	Website     *string `json:"website"`
	Date        *string `json:"date"`
	StartTime   *string `json:"startTime"`
	EndTime     *string `json:"endTime"`
	EndDate     *string `json:"endDate"`
	FeeRequired *string `json:"feeRequired"`
}

func (h *Handler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	logger := h.loggerForRequest(r)
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	eventID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid event id")
		return
	}

	var req updateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("action", "action", "update_event", "status", "invalid_json")
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	event, err := h.repo.GetEventByID(ctx, eventID, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "event not found")
			return
		}
		logger.Error("action", "action", "update_event", "status", "db_error", "error", err)
		writeError(w, http.StatusInternalServerError, "db error")
		return
	}
	if event.CreatorUserID != userID && !middleware.IsAdminFromContext(r.Context()) {
		logger.Warn("action", "action", "update_event", "status", "not_owner", "event_id", eventID)
		writeError(w, http.StatusForbidden, "not event owner")
		return
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if len(title) == 0 || len(title) > maxTitleLen {
			writeError(w, http.StatusBadRequest, "title length invalid")
			return
		}
		event.Title = title
	}
	if req.Description != nil {
		if len(*req.Description) > maxDescriptionLen {
			writeError(w, http.StatusBadRequest, "description too long")
			return
		}
		event.Description = ingest.SanitizeDescription(*req.Description)
	}
	if req.Address != nil {
		event.Address = strings.TrimSpace(*req.Address)
	}
	if req.Website != nil {
		event.Website = strings.TrimSpace(*req.Website)
		event.SourceHost = ingest.SourceHost(event.Website)
	}
	if req.Date != nil {
		event.Date = strings.TrimSpace(*req.Date)
	}
	if req.StartTime != nil {
		event.StartTime = strings.TrimSpace(*req.StartTime)
	}
	if req.EndTime != nil {
		event.EndTime = strings.TrimSpace(*req.EndTime)
	}
	if req.EndDate != nil {
		event.EndDate = strings.TrimSpace(*req.EndDate)
	}
	if req.FeeRequired != nil {
		event.FeeRequired = strings.TrimSpace(*req.FeeRequired)
	}

	// Derived fields stay as first computed; enrichment only fills ones
	// that are still empty.
	enriched, missing := h.enricher.Enrich(ctx, event)

	if err := h.repo.UpdateEvent(ctx, enriched); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "event not found")
			return
		}
		logger.Error("action", "action", "update_event", "status", "db_error", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update event")
		return
	}

	logger.Info("action", "action", "update_event", "status", "success", "event_id", eventID, "missing_fields", missing)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"eventId":       eventID,
		"slug":          enriched.Slug,
		"missingFields": missing,
	})
}

func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	logger := h.loggerForRequest(r)
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	eventID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid event id")
		return
	}

	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	event, err := h.repo.GetEventByID(ctx, eventID, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "event not found")
			return
		}
		logger.Error("action", "action", "delete_event", "status", "db_error", "error", err)
		writeError(w, http.StatusInternalServerError, "db error")
		return
	}
	if event.CreatorUserID != userID && !middleware.IsAdminFromContext(r.Context()) {
		logger.Warn("action", "action", "delete_event", "status", "not_owner", "event_id", eventID)
		writeError(w, http.StatusForbidden, "not event owner")
		return
	}

	if err := h.repo.DeleteEvent(ctx, eventID); err != nil {
		logger.Error("action", "action", "delete_event", "status", "db_error", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete event")
		return
	}

	logger.Info("action", "action", "delete_event", "status", "success", "event_id", eventID)
	writeJSON(w, http.StatusOK, map[string]interface{}{"deleted": true})
}
