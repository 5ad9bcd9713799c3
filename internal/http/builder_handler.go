package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/Notifuse/emailbuilder/internal/domain"
	"github.com/Notifuse/emailbuilder/internal/http/middleware"
	"github.com/Notifuse/emailbuilder/pkg/emailbuilder"
	"github.com/Notifuse/emailbuilder/pkg/logger"
	"github.com/Notifuse/emailbuilder/pkg/ratelimiter"
)

type BuilderHandler struct {
	service   domain.BuilderService
	logger    logger.Logger
	jwtSecret []byte
	// mediaLimiter throttles builder.embedImage, which fetches from storage
	mediaLimiter *ratelimiter.RateLimiter
}

func NewBuilderHandler(service domain.BuilderService, jwtSecret []byte, mediaLimiter *ratelimiter.RateLimiter, logger logger.Logger) *BuilderHandler {
	return &BuilderHandler{
		service:      service,
		logger:       logger,
		jwtSecret:    jwtSecret,
		mediaLimiter: mediaLimiter,
	}
}

func (h *BuilderHandler) RegisterRoutes(mux *http.ServeMux) {
	requireAuth := middleware.NewAuthMiddleware(h.jwtSecret).RequireAuth()

	mux.Handle("/api/builder.open", requireAuth(http.HandlerFunc(h.handleOpen)))
	mux.Handle("/api/builder.get", requireAuth(http.HandlerFunc(h.handleGet)))
	mux.Handle("/api/builder.close", requireAuth(http.HandlerFunc(h.handleClose)))
	mux.Handle("/api/builder.catalog", requireAuth(http.HandlerFunc(h.handleCatalog)))
	mux.Handle("/api/builder.canvas", requireAuth(http.HandlerFunc(h.handleCanvas)))
	mux.Handle("/api/builder.settings", requireAuth(http.HandlerFunc(h.handleSettings)))
	mux.Handle("/api/builder.apply", requireAuth(http.HandlerFunc(h.handleApply)))
	mux.Handle("/api/builder.drag", requireAuth(http.HandlerFunc(h.handleDrag)))
	mux.Handle("/api/builder.generate", requireAuth(http.HandlerFunc(h.handleGenerate)))
	mux.Handle("/api/builder.preview", requireAuth(http.HandlerFunc(h.handlePreview)))
	mux.Handle("/api/builder.exportHTML", requireAuth(h.exportHandler(h.service.ExportHTML)))
	mux.Handle("/api/builder.exportJSON", requireAuth(h.exportHandler(h.service.ExportJSON)))
	mux.Handle("/api/builder.exportMJML", requireAuth(h.exportHandler(h.service.ExportMJML)))
	mux.Handle("/api/builder.import", requireAuth(http.HandlerFunc(h.handleImport)))
	mux.Handle("/api/builder.save", requireAuth(http.HandlerFunc(h.handleSave)))
	mux.Handle("/api/builder.embedImage", requireAuth(middleware.RateLimit(h.mediaLimiter)(http.HandlerFunc(h.handleEmbedImage))))
}

type sessionRequest struct {
	SessionID string `json:"session_id"`
}

type canvasRequest struct {
	SessionID string               `json:"session_id"`
	Labels    *emailbuilder.Labels `json:"labels,omitempty"`
}

type previewRequest struct {
	SessionID string                 `json:"session_id"`
	TestData  map[string]interface{} `json:"test_data,omitempty"`
}

type importRequest struct {
	SessionID string          `json:"session_id"`
	Document  json.RawMessage `json:"document"`
}

type saveRequest struct {
	SessionID string `json:"session_id"`
	Name      string `json:"name"`
}

type embedImageRequest struct {
	SessionID   string `json:"session_id"`
	BlockID     string `json:"block_id"`
	DownloadRef string `json:"download_ref"`
}

// sessionIDFromQuery reads the session_id query parameter of GET endpoints.
func sessionIDFromQuery(w http.ResponseWriter, r *http.Request) (string, bool) {
	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		WriteJSONError(w, "session_id is required", http.StatusBadRequest)
		return "", false
	}
	return sessionID, true
}

func (h *BuilderHandler) handleOpen(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req domain.OpenBuilderRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := req.Validate(); err != nil {
		WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	session, err := h.service.OpenSession(r.Context(), req)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to open builder session")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"session": session,
	})
}

func (h *BuilderHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	sessionID, ok := sessionIDFromQuery(w, r)
	if !ok {
		return
	}

	session, err := h.service.GetSession(r.Context(), sessionID)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to get builder session")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"session": session,
	})
}

func (h *BuilderHandler) handleClose(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req sessionRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.SessionID == "" {
		WriteJSONError(w, "session_id is required", http.StatusBadRequest)
		return
	}

	if err := h.service.CloseSession(r.Context(), req.SessionID); err != nil {
		writeServiceError(w, h.logger, err, "Failed to close builder session")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{
		"success": true,
	})
}

func (h *BuilderHandler) handleCatalog(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"entries": h.service.Catalog(r.Context()),
	})
}

func (h *BuilderHandler) handleCanvas(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req canvasRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.SessionID == "" {
		WriteJSONError(w, "session_id is required", http.StatusBadRequest)
		return
	}
	labels := emailbuilder.DefaultLabels()
	if req.Labels != nil {
		labels = *req.Labels
	}

	html, err := h.service.RenderCanvas(r.Context(), req.SessionID, labels)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to render canvas")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"html": html,
	})
}

func (h *BuilderHandler) handleSettings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	sessionID, ok := sessionIDFromQuery(w, r)
	if !ok {
		return
	}

	panel, err := h.service.Settings(r.Context(), sessionID)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to build settings panel")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"panel": panel,
	})
}

func (h *BuilderHandler) handleApply(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := readBody(r)
	if err != nil {
		WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	op, err := domain.ParseBuilderOperation(body)
	if err != nil {
		WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.service.Apply(r.Context(), *op)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to apply builder operation")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *BuilderHandler) handleDrag(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := readBody(r)
	if err != nil {
		WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	ev, err := domain.ParseDragEvent(body)
	if err != nil {
		WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.service.Drag(r.Context(), *ev)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to handle drag event")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *BuilderHandler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	sessionID, ok := sessionIDFromQuery(w, r)
	if !ok {
		return
	}

	html, err := h.service.Generate(r.Context(), sessionID)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to generate email")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"html": html,
	})
}

func (h *BuilderHandler) handlePreview(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req previewRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.SessionID == "" {
		WriteJSONError(w, "session_id is required", http.StatusBadRequest)
		return
	}

	preview, err := h.service.Preview(r.Context(), req.SessionID, req.TestData)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to preview email")
		return
	}

	writeJSON(w, http.StatusOK, preview)
}

func (h *BuilderHandler) exportHandler(export func(ctx context.Context, sessionID string) (*emailbuilder.ExportFile, error)) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		sessionID, ok := sessionIDFromQuery(w, r)
		if !ok {
			return
		}

		file, err := export(r.Context(), sessionID)
		if err != nil {
			writeServiceError(w, h.logger, err, "Failed to export email")
			return
		}

		writeFile(w, file)
	})
}

func (h *BuilderHandler) handleImport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req importRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.SessionID == "" || len(req.Document) == 0 {
		WriteJSONError(w, "session_id and document are required", http.StatusBadRequest)
		return
	}

	session, err := h.service.Import(r.Context(), req.SessionID, req.Document)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to import document")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"session": session,
	})
}

func (h *BuilderHandler) handleSave(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req saveRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.SessionID == "" {
		WriteJSONError(w, "session_id is required", http.StatusBadRequest)
		return
	}

	template, err := h.service.Save(r.Context(), req.SessionID, req.Name)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to save template")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"template": template,
	})
}

func (h *BuilderHandler) handleEmbedImage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req embedImageRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.SessionID == "" || req.BlockID == "" || req.DownloadRef == "" {
		WriteJSONError(w, "session_id, block_id and download_ref are required", http.StatusBadRequest)
		return
	}

	result, err := h.service.EmbedImage(r.Context(), req.SessionID, req.BlockID, req.DownloadRef)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to embed image")
		return
	}

	writeJSON(w, http.StatusOK, result)
}
