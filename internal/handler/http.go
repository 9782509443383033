package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/brieflab/brief-analyzer/internal/extract"
	"github.com/brieflab/brief-analyzer/internal/logger"
	"github.com/brieflab/brief-analyzer/internal/middleware"
	"github.com/brieflab/brief-analyzer/internal/model"
	"github.com/brieflab/brief-analyzer/internal/service"
	"github.com/brieflab/brief-analyzer/internal/storage"
	"github.com/brieflab/brief-analyzer/internal/worker"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// BriefService is the workflow surface the HTTP layer depends on.
type BriefService interface {
	AnalyzeUpload(ctx context.Context, in model.UploadInput) (*model.UploadResult, error)
	SubmitContent(ctx context.Context, in model.SubmitInput) (*model.SubmitResult, error)
	GetBrief(ctx context.Context, id string) (*model.Brief, error)
	ListProjects(ctx context.Context) ([]model.Project, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	Stats(ctx context.Context) (int, int, error)
}

// DBPinger checks database connectivity for the health endpoint.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// QueueStats exposes delivery retry queue occupancy.
type QueueStats interface {
	Stats() worker.PoolStats
}

type Handler struct {
	briefService   BriefService
	dbPinger       DBPinger
	queue          QueueStats
	authMiddleware *middleware.AuthMiddleware
	maxUploadBytes int64
}

func NewHandler(briefService BriefService, dbPinger DBPinger, queue QueueStats, authMiddleware *middleware.AuthMiddleware, maxUploadBytes int64) *Handler {
	return &Handler{
		briefService:   briefService,
		dbPinger:       dbPinger,
		queue:          queue,
		authMiddleware: authMiddleware,
		maxUploadBytes: maxUploadBytes,
	}
}

func (h *Handler) RegisterRoutes() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)

	r.Use(logger.RequestLogger)

	r.Use(middleware.GzipReader)
	r.Use(middleware.GzipMiddleware)

	r.Use(h.authMiddleware.AuthenticateUser)

	r.Get("/ping", h.handlePing)
	r.Get("/projects", h.handleProjects)
	r.Get("/users", h.handleUsers)
	r.Post("/upload", h.handleUpload)
	r.Post("/submit-content", h.handleSubmitContent)

	r.Route("/api", func(r chi.Router) {
		r.Use(h.authMiddleware.RequireAuth)
		r.Get("/briefs/{id}", h.handleGetBrief)
		r.Get("/stats", h.handleStats)
	})

	return r
}

func (h *Handler) handlePing(w http.ResponseWriter, r *http.Request) {
	if h.dbPinger != nil {
		if err := h.dbPinger.Ping(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
	}

	writeJSON(w, http.StatusOK, PingResponse{Success: true, Message: "pong"})
}

func (h *Handler) handleProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.briefService.ListProjects(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list projects")
		return
	}

	writeJSON(w, http.StatusOK, ProjectsResponse{Success: true, Projects: projects})
}

func (h *Handler) handleUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.briefService.ListUsers(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list users")
		return
	}

	writeJSON(w, http.StatusOK, UsersResponse{Success: true, Users: users})
}

func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read uploaded file")
		return
	}

	contentWriterID := strings.TrimSpace(r.FormValue("content_writer_id"))
	if contentWriterID == "" {
		writeError(w, http.StatusBadRequest, "content_writer_id is required")
		return
	}

	includeSuggestions, _ := strconv.ParseBool(r.FormValue("include_suggestions"))

	result, err := h.briefService.AnalyzeUpload(r.Context(), model.UploadInput{
		FileName:           header.Filename,
		Data:               data,
		ContentWriterID:    contentWriterID,
		AnalysisType:       strings.ToLower(strings.TrimSpace(r.FormValue("analysis_type"))),
		IncludeSuggestions: includeSuggestions,
		ProjectID:          formValueOrEmpty(r, "project_id"),
		ProjectName:        formValueOrEmpty(r, "project_name"),
	})
	if err != nil {
		h.writeUploadError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, newUploadResponse(result))
}

func (h *Handler) writeUploadError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, storage.ErrBriefExists):
		writeError(w, http.StatusConflict, "this document has already been analyzed")
	case errors.Is(err, extract.ErrUnsupportedFormat):
		writeError(w, http.StatusUnsupportedMediaType, "unsupported document format, use pdf, docx or txt")
	case errors.Is(err, extract.ErrEmptyDocument):
		writeError(w, http.StatusBadRequest, "the document contains no extractable text")
	default:
		writeError(w, http.StatusInternalServerError, "analysis failed")
	}
}

func (h *Handler) handleSubmitContent(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	in, ok := h.parseSubmitInput(w, r)
	if !ok {
		return
	}

	result, err := h.briefService.SubmitContent(r.Context(), in)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrBriefNotFound):
			writeError(w, http.StatusNotFound, "project brief not found")
		case errors.Is(err, service.ErrNoContent):
			writeError(w, http.StatusBadRequest, "provide content text or a content file")
		case errors.Is(err, extract.ErrUnsupportedFormat):
			writeError(w, http.StatusUnsupportedMediaType, "unsupported document format, use pdf, docx or txt")
		case errors.Is(err, extract.ErrEmptyDocument):
			writeError(w, http.StatusBadRequest, "the content file contains no extractable text")
		default:
			writeError(w, http.StatusInternalServerError, "designer report generation failed")
		}
		return
	}

	writeJSON(w, http.StatusOK, newSubmitResponse(result))
}

// parseSubmitInput accepts both multipart (with a content file) and plain
// form submissions.
func (h *Handler) parseSubmitInput(w http.ResponseWriter, r *http.Request) (model.SubmitInput, bool) {
	var in model.SubmitInput

	contentType := r.Header.Get("Content-Type")
	if strings.Contains(contentType, "multipart/form-data") {
		if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
			writeError(w, http.StatusBadRequest, "invalid multipart form")
			return in, false
		}

		file, header, err := r.FormFile("content_file")
		if err == nil {
			defer file.Close()

			data, err := io.ReadAll(file)
			if err != nil {
				writeError(w, http.StatusBadRequest, "failed to read content file")
				return in, false
			}
			in.ContentFile = data
			in.FileName = header.Filename
		}
	} else if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form")
		return in, false
	}

	in.ProjectBriefID = strings.TrimSpace(r.FormValue("project_brief_id"))
	in.DesignerID = strings.TrimSpace(r.FormValue("designer_id"))
	in.ContentText = r.FormValue("content_text")

	if in.ProjectBriefID == "" {
		writeError(w, http.StatusBadRequest, "project_brief_id is required")
		return in, false
	}
	if in.DesignerID == "" {
		writeError(w, http.StatusBadRequest, "designer_id is required")
		return in, false
	}

	return in, true
}

func (h *Handler) handleGetBrief(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "brief id is required")
		return
	}

	brief, err := h.briefService.GetBrief(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrBriefNotFound) {
			writeError(w, http.StatusNotFound, "brief not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load brief")
		return
	}

	writeJSON(w, http.StatusOK, BriefResponse{Success: true, Brief: brief})
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	briefs, reports, err := h.briefService.Stats(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load stats")
		return
	}

	resp := StatsResponse{
		Success: true,
		Briefs:  briefs,
		Reports: reports,
	}

	if h.queue != nil {
		stats := h.queue.Stats()
		resp.RetryQueue = stats.QueueSize
		resp.RetryQueueCap = stats.QueueCap
		resp.RetryWorkers = stats.WorkerCount
	}

	writeJSON(w, http.StatusOK, resp)
}

// formValueOrEmpty filters the literal "None" the frontend sends for unset
// optional fields.
func formValueOrEmpty(r *http.Request, key string) string {
	v := strings.TrimSpace(r.FormValue(key))
	if v == "None" {
		return ""
	}
	return v
}
