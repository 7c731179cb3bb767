package handlers

import (
	"context"
	"net/http"

	"townboard/backend/internal/sitemap"
)

func (h *Handler) buildSitemap(ctx context.Context) ([]byte, int, error) {
	entries, err := h.repo.ListSitemapEntries(ctx)
	if err != nil {
		return nil, 0, err
	}
	data, err := sitemap.Build(h.cfg.BaseURL, entries)
	if err != nil {
		return nil, 0, err
	}
	return data, len(entries), nil
}

func (h *Handler) GetSitemap(w http.ResponseWriter, r *http.Request) {
	logger := h.loggerForRequest(r)

	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	data, _, err := h.buildSitemap(ctx)
	if err != nil {
		logger.Error("action", "action", "get_sitemap", "status", "build_failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to build sitemap")
		return
	}

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
