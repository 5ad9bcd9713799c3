package http

import (
	"net/http"

	"github.com/Notifuse/emailbuilder/internal/domain"
	"github.com/Notifuse/emailbuilder/internal/http/middleware"
	"github.com/Notifuse/emailbuilder/pkg/logger"
	"github.com/Notifuse/emailbuilder/pkg/ratelimiter"
)

// MediaHandler serves the file picker of image blocks.
type MediaHandler struct {
	service   domain.MediaService
	logger    logger.Logger
	jwtSecret []byte
	limiter   *ratelimiter.RateLimiter
}

func NewMediaHandler(service domain.MediaService, jwtSecret []byte, limiter *ratelimiter.RateLimiter, logger logger.Logger) *MediaHandler {
	return &MediaHandler{
		service:   service,
		logger:    logger,
		jwtSecret: jwtSecret,
		limiter:   limiter,
	}
}

func (h *MediaHandler) RegisterRoutes(mux *http.ServeMux) {
	requireAuth := middleware.NewAuthMiddleware(h.jwtSecret).RequireAuth()
	mux.Handle("/api/media.list", requireAuth(middleware.RateLimit(h.limiter)(http.HandlerFunc(h.handleList))))
}

func (h *MediaHandler) handleList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	assets, err := h.service.ListImages(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to list media")
		return
	}
	if assets == nil {
		assets = []domain.MediaAsset{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"assets": assets,
	})
}
