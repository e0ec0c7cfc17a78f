package brand

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/giftbridge/settlement-service/internal/domain/models"
	brandsvc "github.com/giftbridge/settlement-service/internal/services/brand"
	"github.com/giftbridge/settlement-service/pkg/response"
)

// Handler handles HTTP requests for brand operations
type Handler struct {
	service *brandsvc.Service
}

// NewHandler creates a new brand handler
func NewHandler(service *brandsvc.Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for brand endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Get("/{id}", h.GetByID)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Archive)
	r.Get("/{id}/terms", h.GetTerms)
	r.Put("/{id}/terms", h.SetTerms)

	return r
}

// Create handles POST /brands
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateBrandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	brand, err := h.service.Create(r.Context(), req.toCreateInput())
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, toBrandResponse(brand))
}

// List handles GET /brands
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	status := models.BrandStatus(r.URL.Query().Get("status"))
	limit := queryInt32(r, "limit", 50)
	offset := queryInt32(r, "offset", 0)

	brands, err := h.service.List(r.Context(), status, limit, offset)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, toBrandResponses(brands))
}

// GetByID handles GET /brands/{id}
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	brand, err := h.service.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, toBrandResponse(brand))
}

// Update handles PUT /brands/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateBrandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	brand, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), req.toUpdateInput())
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, toBrandResponse(brand))
}

// Archive handles DELETE /brands/{id}
func (h *Handler) Archive(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Archive(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"status": string(models.BrandArchived)})
}

// GetTerms handles GET /brands/{id}/terms
func (h *Handler) GetTerms(w http.ResponseWriter, r *http.Request) {
	terms, err := h.service.GetTerms(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, toTermsResponse(terms))
}

// SetTerms handles PUT /brands/{id}/terms
func (h *Handler) SetTerms(w http.ResponseWriter, r *http.Request) {
	var req TermsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	terms, err := req.ToModel(chi.URLParam(r, "id"))
	if err != nil {
		response.FromError(w, err)
		return
	}

	saved, err := h.service.SetTerms(r.Context(), terms)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, toTermsResponse(saved))
}

func queryInt32(r *http.Request, key string, fallback int32) int32 {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || v < 0 {
		return fallback
	}
	return int32(v)
}
