package settlement

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/giftbridge/settlement-service/internal/domain/models"
	settlementsvc "github.com/giftbridge/settlement-service/internal/services/settlement"
	"github.com/giftbridge/settlement-service/pkg/response"
	"github.com/giftbridge/settlement-service/pkg/timeutil"
)

// Handler handles HTTP requests for settlement operations
type Handler struct {
	service *settlementsvc.Service
}

// NewHandler creates a new settlement handler
func NewHandler(service *settlementsvc.Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for settlement endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/generate", h.Generate)
	r.Get("/", h.List)
	r.Get("/{id}", h.GetByID)
	r.Post("/{id}/payments", h.ProcessPayment)
	r.Post("/{id}/status", h.MarkStatus)

	return r
}

// ActivityRoute handles GET /brands/{id}/activity, mounted on the brand subtree
func (h *Handler) ActivityRoute(w http.ResponseWriter, r *http.Request) {
	brandID := chi.URLParam(r, "id")

	from, err := timeutil.ParseDate("2006-01-02", r.URL.Query().Get("from"))
	if err != nil {
		response.BadRequest(w, "from must be YYYY-MM-DD")
		return
	}
	to, err := timeutil.ParseDate("2006-01-02", r.URL.Query().Get("to"))
	if err != nil {
		response.BadRequest(w, "to must be YYYY-MM-DD")
		return
	}

	activity, err := h.service.SummarizeActivity(r.Context(), brandID, from, to)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, toActivityResponse(activity))
}

// Generate handles POST /settlements/generate
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	start, end, err := req.Period()
	if err != nil {
		response.FromError(w, err)
		return
	}

	settlement, err := h.service.Generate(r.Context(), req.BrandID, start, end)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, toSettlementResponse(settlement))
}

// List handles GET /settlements
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	filter := settlementsvc.ListFilter{
		BrandID: r.URL.Query().Get("brand_id"),
		Status:  models.SettlementStatus(r.URL.Query().Get("status")),
		Limit:   queryInt32(r, "limit", 50),
		Offset:  queryInt32(r, "offset", 0),
	}

	settlements, err := h.service.List(r.Context(), filter)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, toSettlementResponses(settlements))
}

// GetByID handles GET /settlements/{id}
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	settlement, err := h.service.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, toSettlementResponse(settlement))
}

// ProcessPayment handles POST /settlements/{id}/payments.
// Business rejections come back in the envelope, not as transport errors.
func (h *Handler) ProcessPayment(w http.ResponseWriter, r *http.Request) {
	var req PaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	outcome, err := h.service.ProcessPayment(r.Context(), chi.URLParam(r, "id"), req.Amount, req.Notes)
	if err != nil {
		response.FromError(w, err)
		return
	}

	if !outcome.Success {
		response.Result(w, rejectionStatus(outcome.Message), false, outcome.Message, nil)
		return
	}

	response.Result(w, http.StatusOK, true, outcome.Message, toSettlementResponse(outcome.Settlement))
}

// MarkStatus handles POST /settlements/{id}/status
func (h *Handler) MarkStatus(w http.ResponseWriter, r *http.Request) {
	var req StatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	settlement, err := h.service.MarkStatus(r.Context(), chi.URLParam(r, "id"), models.SettlementStatus(req.Status))
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, toSettlementResponse(settlement))
}

func rejectionStatus(message string) int {
	switch {
	case strings.Contains(message, "not found"):
		return http.StatusNotFound
	case strings.Contains(message, "already fully paid"),
		strings.Contains(message, "not accepting payments"):
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
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
