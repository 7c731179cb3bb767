package handlers

import (
	"errors"
	"net"
	"net/http"
	"strconv"

	"townboard/backend/internal/http/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
)

func (h *Handler) MarkInterest(w http.ResponseWriter, r *http.Request) {
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

	limiterKey := strconv.FormatInt(userID, 10)
	if !h.interestLimiter.Allow(limiterKey) {
		logger.Warn("action", "action", "mark_interest", "status", "rate_limited")
		writeRateLimited(w, h.interestLimiter.RetryAfter(limiterKey), "too many interest changes")
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
		logger.Error("action", "action", "mark_interest", "status", "db_error", "error", err)
		writeError(w, http.StatusInternalServerError, "db error")
		return
	}
	if event.IsHidden && event.CreatorUserID != userID {
		writeError(w, http.StatusNotFound, "event not found")
		return
	}

	if err := h.repo.MarkInterest(ctx, eventID, userID); err != nil {
		logger.Error("action", "action", "mark_interest", "status", "db_error", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to mark interest")
		return
	}
	count, err := h.repo.CountInterested(ctx, eventID)
	if err != nil {
		logger.Error("action", "action", "mark_interest", "status", "count_failed", "error", err)
		writeError(w, http.StatusInternalServerError, "db error")
		return
	}

	logger.Info("action", "action", "mark_interest", "status", "success", "event_id", eventID)
	writeJSON(w, http.StatusOK, map[string]interface{}{"interested": true, "interestedCount": count})
}

func (h *Handler) ClearInterest(w http.ResponseWriter, r *http.Request) {
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

	limiterKey := strconv.FormatInt(userID, 10)
	if !h.interestLimiter.Allow(limiterKey) {
		logger.Warn("action", "action", "clear_interest", "status", "rate_limited")
		writeRateLimited(w, h.interestLimiter.RetryAfter(limiterKey), "too many interest changes")
		return
	}

	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	if err := h.repo.ClearInterest(ctx, eventID, userID); err != nil {
		logger.Error("action", "action", "clear_interest", "status", "db_error", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to clear interest")
		return
	}
	count, err := h.repo.CountInterested(ctx, eventID)
	if err != nil {
		logger.Error("action", "action", "clear_interest", "status", "count_failed", "error", err)
		writeError(w, http.StatusInternalServerError, "db error")
		return
	}

	logger.Info("action", "action", "clear_interest", "status", "success", "event_id", eventID)
	writeJSON(w, http.StatusOK, map[string]interface{}{"interested": false, "interestedCount": count})
}

// ViewEvent bumps the public view counter. It is unauthenticated, so the
// rate limit keys on the caller address instead of a user id.
func (h *Handler) ViewEvent(w http.ResponseWriter, r *http.Request) {
	logger := h.loggerForRequest(r)
	eventID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid event id")
		return
	}

	viewerKey := clientIP(r)
	if !h.viewLimiter.Allow(viewerKey) {
		writeRateLimited(w, h.viewLimiter.RetryAfter(viewerKey), "too many views")
		return
	}

	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	count, err := h.repo.IncrementViewCount(ctx, eventID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "event not found")
			return
		}
		logger.Error("action", "action", "view_event", "status", "db_error", "error", err)
		writeError(w, http.StatusInternalServerError, "db error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"viewCount": count})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
