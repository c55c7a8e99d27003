package featured

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/hirelane/hirelane-api/internal/middleware"
	"github.com/hirelane/hirelane-api/internal/pkg/response"
	"github.com/hirelane/hirelane-api/internal/pkg/validator"
)

// Handler handles featured credit HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates featured handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// GetPricing handles GET /featured/pricing?quantity=N
func (h *Handler) GetPricing(w http.ResponseWriter, r *http.Request) {
	quantity, err := strconv.Atoi(r.URL.Query().Get("quantity"))
	if err != nil {
		response.BadRequest(w, "Invalid quantity parameter")
		return
	}

	quote, err := h.service.CalculatePrice(quantity)
	if errors.Is(err, ErrInvalidQuantity) {
		response.Error(w, http.StatusBadRequest, "INVALID_QUANTITY", "Quantity must be greater than 0")
		return
	}
	if err != nil {
		response.InternalError(w)
		return
	}

	response.OK(w, quote)
}

// CreatePackage handles POST /featured/packages
func (h *Handler) CreatePackage(w http.ResponseWriter, r *http.Request) {
	var req CreatePackageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	var companyID uuid.NullUUID
	if req.CompanyID != "" {
		id, err := uuid.Parse(req.CompanyID)
		if err != nil {
			response.BadRequest(w, "Invalid company ID")
			return
		}
		companyID = uuid.NullUUID{UUID: id, Valid: true}
	}

	pkg, err := h.service.CreatePackage(r.Context(), middleware.GetUserID(r.Context()), companyID, req.Quantity, req.ValidityDays)
	if errors.Is(err, ErrInvalidQuantity) {
		response.Error(w, http.StatusBadRequest, "INVALID_QUANTITY", "Quantity must be greater than 0")
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("Failed to create featured package")
		response.InternalError(w)
		return
	}

	response.Created(w, PackageResponseFromEntity(pkg))
}

// ListPackages handles GET /featured/packages.
// ?active=true narrows to packages a credit can still be drawn from.
func (h *Handler) ListPackages(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var (
		packages []Package
		err      error
	)
	if r.URL.Query().Get("active") == "true" {
		packages, err = h.service.ListActivePackages(r.Context(), userID)
	} else {
		packages, err = h.service.ListPackages(r.Context(), userID)
	}
	if err != nil {
		log.Error().Err(err).Msg("Failed to list featured packages")
		response.InternalError(w)
		return
	}

	items := make([]*PackageResponse, len(packages))
	for i := range packages {
		items[i] = PackageResponseFromEntity(&packages[i])
	}

	response.OK(w, items)
}

// GetPackage handles GET /featured/packages/{id}
func (h *Handler) GetPackage(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid package ID")
		return
	}

	pkg, err := h.service.GetPackage(r.Context(), id)
	if errors.Is(err, ErrPackageNotFound) {
		response.NotFound(w, "Package not found")
		return
	}
	if err != nil {
		response.InternalError(w)
		return
	}

	// Packages are private to their owner
	if pkg.UserID != middleware.GetUserID(r.Context()) {
		response.NotFound(w, "Package not found")
		return
	}

	response.OK(w, PackageResponseFromEntity(pkg))
}

// GetStats handles GET /featured/stats
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.GetStats(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		log.Error().Err(err).Msg("Failed to get featured stats")
		response.InternalError(w)
		return
	}

	response.OK(w, stats)
}

// Feature handles POST /featured/jobs/{id}/feature
func (h *Handler) Feature(w http.ResponseWriter, r *http.Request) {
	jobID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid job ID")
		return
	}

	result, err := h.service.UseCredit(r.Context(), middleware.GetUserID(r.Context()), jobID)
	switch {
	case errors.Is(err, ErrResourceNotFound):
		response.NotFound(w, "Job not found")
		return
	case errors.Is(err, ErrAlreadyFeatured):
		response.Conflict(w, "Job is already featured")
		return
	case errors.Is(err, ErrNoAvailableCredits):
		response.PaymentRequired(w, "NO_CREDITS", "No featured job credits available. Purchase a credit package to continue.")
		return
	case errors.Is(err, ErrConcurrentModification):
		response.Conflict(w, "Credits are being claimed concurrently, please retry")
		return
	case err != nil:
		log.Error().Err(err).Str("job_id", jobID.String()).Msg("Failed to feature job")
		response.InternalError(w)
		return
	}

	response.OK(w, &UseCreditResponse{
		JobID:         result.JobID,
		FeaturedUntil: result.FeaturedUntil,
		Package:       PackageResponseFromEntity(result.Package),
	})
}

// Unfeature handles DELETE /featured/jobs/{id}/feature
func (h *Handler) Unfeature(w http.ResponseWriter, r *http.Request) {
	jobID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid job ID")
		return
	}

	err = h.service.Deactivate(r.Context(), jobID)
	switch {
	case errors.Is(err, ErrResourceNotFound):
		response.NotFound(w, "Job not found")
		return
	case errors.Is(err, ErrNotFeatured):
		response.OK(w, &DeactivateResponse{JobID: jobID, Released: false, Message: "Job is not featured"})
		return
	case err != nil:
		log.Error().Err(err).Str("job_id", jobID.String()).Msg("Failed to unfeature job")
		response.InternalError(w)
		return
	}

	response.OK(w, &DeactivateResponse{JobID: jobID, Released: true})
}
