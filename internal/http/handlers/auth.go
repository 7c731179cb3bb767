package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"townboard/backend/internal/auth"
	"townboard/backend/internal/http/middleware"
	"townboard/backend/internal/models"

	"github.com/jackc/pgx/v5"
)

type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required,max=120"`
	Password string `json:"password" validate:"required,min=8"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	logger := h.loggerForRequest(r)

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("action", "action", "register", "status", "invalid_json")
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Name = strings.TrimSpace(req.Name)
	if err := h.validator.Struct(req); err != nil {
		logger.Warn("action", "action", "register", "status", "invalid_fields")
		writeError(w, http.StatusBadRequest, "email, name and password (8+ chars) required")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		logger.Warn("action", "action", "register", "status", "weak_password")
		writeError(w, http.StatusBadRequest, "password too short")
		return
	}

	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	if _, err := h.repo.GetUserByEmail(ctx, req.Email); err == nil {
		logger.Warn("action", "action", "register", "status", "email_taken", "email", req.Email)
		writeError(w, http.StatusConflict, "email already registered")
		return
	} else if !errors.Is(err, pgx.ErrNoRows) {
		logger.Error("action", "action", "register", "status", "db_error", "error", err)
		writeError(w, http.StatusInternalServerError, "db error")
		return
	}

	stored, err := h.repo.CreateUser(ctx, models.User{
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: hash,
		IsAdmin:      h.cfg.IsAdminEmail(req.Email),
	})
	if err != nil {
		logger.Error("action", "action", "register", "status", "db_error", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create user")
		return
	}

	token, err := auth.SignAccessToken(h.cfg.JWTSecret, stored.ID, stored.Email, stored.IsAdmin)
	if err != nil {
		logger.Error("action", "action", "register", "status", "token_error", "error", err)
		writeError(w, http.StatusInternalServerError, "token error")
		return
	}

	logger.Info("action", "action", "register", "status", "success", "new_user_id", stored.ID)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"accessToken": token,
		"user":        stored,
	})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	logger := h.loggerForRequest(r)

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("action", "action", "login", "status", "invalid_json")
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := h.validator.Struct(req); err != nil {
		logger.Warn("action", "action", "login", "status", "invalid_fields")
		writeError(w, http.StatusBadRequest, "email and password required")
		return
	}

	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	stored, err := h.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			logger.Warn("action", "action", "login", "status", "unknown_email")
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		logger.Error("action", "action", "login", "status", "db_error", "error", err)
		writeError(w, http.StatusInternalServerError, "db error")
		return
	}
	if !auth.CheckPassword(stored.PasswordHash, req.Password) {
		logger.Warn("action", "action", "login", "status", "bad_password")
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	isAdmin := stored.IsAdmin || h.cfg.IsAdminEmail(stored.Email)
	token, err := auth.SignAccessToken(h.cfg.JWTSecret, stored.ID, stored.Email, isAdmin)
	if err != nil {
		logger.Error("action", "action", "login", "status", "token_error", "error", err)
		writeError(w, http.StatusInternalServerError, "token error")
		return
	}

	logger.Info("action", "action", "login", "status", "success")
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"accessToken": token,
		"user":        stored,
	})
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	logger := h.loggerForRequest(r)
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	stored, err := h.repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		logger.Error("action", "action", "me", "status", "db_error", "error", err)
		writeError(w, http.StatusInternalServerError, "db error")
		return
	}
	writeJSON(w, http.StatusOK, stored)
}
