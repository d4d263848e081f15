package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/growplan/Commission-Engine-Backend/internal/api/request"
	"github.com/growplan/Commission-Engine-Backend/internal/api/response"
	"github.com/growplan/Commission-Engine-Backend/internal/apperrors"
	"github.com/growplan/Commission-Engine-Backend/internal/service"
)

// PurchaseHandler handles HTTP requests for the checkout boundary: recording
// purchases and reporting their propagation state.
type PurchaseHandler struct {
	purchaseService *service.PurchaseService
}

// NewPurchaseHandler creates a new PurchaseHandler with the provided service dependency.
func NewPurchaseHandler(purchaseService *service.PurchaseService) *PurchaseHandler {
	return &PurchaseHandler{
		purchaseService: purchaseService,
	}
}

// CreatePurchase handles POST requests from the checkout subsystem.
// Records the purchase and propagates its BV synchronously; when propagation
// cannot complete, the purchase is returned in pending state and retried in
// the background ("purchase recorded, compensation pending").
//
// Endpoint: POST /api/purchase
// Request Body: CreatePurchaseRequest (purchaseId?, buyerId, bvAmount, monthId?, date?)
// Response: 201 Created with Purchase (status completed or pending)
// Error: 400 Bad Request if validation fails or the buyer has no tree placement
// Error: 500 Internal Server Error if the purchase cannot be recorded
func (h *PurchaseHandler) CreatePurchase(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreatePurchaseRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := req.Validate(); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	var createdAt time.Time
	if req.Date != "" {
		createdAt, _ = time.Parse("2006-01-02", req.Date)
	}

	purchase, err := h.purchaseService.CreatePurchase(r.Context(), req.PurchaseID, req.BuyerID, req.BVAmount, req.MonthID, createdAt)
	if err != nil {
		if errors.Is(err, apperrors.ErrUnknownBuyer) || errors.Is(err, apperrors.ErrInvalidBVAmount) || errors.Is(err, apperrors.ErrInvalidMonthID) {
			response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToCreatePurchase.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusCreated, purchase)
}

// GetPurchase handles GET requests to retrieve a single purchase by ID,
// including its propagation status and cursor.
//
// Endpoint: GET /api/purchase/{uuid}
// Response: 200 OK with Purchase
// Error: 400 Bad Request if purchase ID is invalid (validated by middleware)
// Error: 404 Not Found if purchase not found
func (h *PurchaseHandler) GetPurchase(w http.ResponseWriter, r *http.Request) {
	purchaseID := chi.URLParam(r, "uuid")

	purchase, err := h.purchaseService.GetPurchase(r.Context(), purchaseID)
	if err != nil {
		if errors.Is(err, apperrors.ErrPurchaseNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrPurchaseNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, "failed to retrieve purchase", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, purchase)
}
