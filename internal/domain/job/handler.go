package job

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/hirelane/hirelane-api/internal/middleware"
	"github.com/hirelane/hirelane-api/internal/pkg/response"
	"github.com/hirelane/hirelane-api/internal/pkg/validator"
)

// Handler handles job HTTP requests
type Handler struct {
	repo *Repository
}

// NewHandler creates job handler
func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

// Create handles POST /jobs
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	status := Status(req.Status)
	if status == "" {
		status = StatusOpen
	}

	now := time.Now()
	j := &Job{
		ID:          uuid.New(),
		EmployerID:  middleware.GetUserID(r.Context()),
		Title:       req.Title,
		Description: sql.NullString{String: req.Description, Valid: req.Description != ""},
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := h.repo.Create(r.Context(), j); err != nil {
		log.Error().Err(err).Msg("Failed to create job")
		response.InternalError(w)
		return
	}

	response.Created(w, JobResponseFromEntity(j))
}

// GetByID handles GET /jobs/{id}
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid job ID")
		return
	}

	j, err := h.repo.GetByID(r.Context(), id)
	if errors.Is(err, ErrJobNotFound) {
		response.NotFound(w, "Job not found")
		return
	}
	if err != nil {
		response.InternalError(w)
		return
	}

	response.OK(w, JobResponseFromEntity(j))
}

// ListFeatured handles GET /jobs/featured
func (h *Handler) ListFeatured(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.repo.ListFeatured(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list featured jobs")
		response.InternalError(w)
		return
	}

	items := make([]*JobResponse, len(jobs))
	for i := range jobs {
		items[i] = JobResponseFromEntity(&jobs[i])
	}

	response.OK(w, items)
}

// ListMine handles GET /jobs
func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.repo.ListByEmployer(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		response.InternalError(w)
		return
	}

	items := make([]*JobResponse, len(jobs))
	for i := range jobs {
		items[i] = JobResponseFromEntity(&jobs[i])
	}

	response.OK(w, items)
}
