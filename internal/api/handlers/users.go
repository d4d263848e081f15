package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/growplan/Commission-Engine-Backend/internal/api/response"
	"github.com/growplan/Commission-Engine-Backend/internal/apperrors"
	"github.com/growplan/Commission-Engine-Backend/internal/service"
)

// UserHandler handles HTTP requests for per-user reporting projections:
// BV snapshots, monthly ledgers, wallet statements and rank achievements.
type UserHandler struct {
	snapshotService *service.SnapshotService
	walletService   *service.WalletService
	rankService     *service.RankService
}

// NewUserHandler creates a new UserHandler with the provided service dependencies.
func NewUserHandler(
	snapshotService *service.SnapshotService,
	walletService *service.WalletService,
	rankService *service.RankService,
) *UserHandler {
	return &UserHandler{
		snapshotService: snapshotService,
		walletService:   walletService,
		rankService:     rankService,
	}
}

// BVSnapshot handles GET requests for a user's full BV view.
//
// Endpoint: GET /api/user/{uuid}/bv
// Response: 200 OK with BVSnapshot
// Error: 400 Bad Request if user ID is invalid (validated by middleware)
// Error: 404 Not Found if the user has no tree placement
// Error: 500 Internal Server Error if retrieval fails
func (h *UserHandler) BVSnapshot(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "uuid")

	snapshot, err := h.snapshotService.GetUserBVSnapshot(r.Context(), userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNodeNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrNodeNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveSnapshot.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, snapshot)
}

// MonthlyLedgers handles GET requests for a user's monthly accumulator rows.
//
// Endpoint: GET /api/user/{uuid}/monthly
// Response: 200 OK with array of MonthlyLedger
// Error: 500 Internal Server Error if retrieval fails
func (h *UserHandler) MonthlyLedgers(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "uuid")

	ledgers, err := h.snapshotService.ListMonthlyLedgers(r.Context(), userID)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveMonthly.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, ledgers)
}

// WalletStatement handles GET requests for a user's wallet and entry history.
//
// Endpoint: GET /api/user/{uuid}/wallet
// Response: 200 OK with WalletStatement
// Error: 404 Not Found if the user has never been credited
// Error: 500 Internal Server Error if retrieval fails
func (h *UserHandler) WalletStatement(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "uuid")

	statement, err := h.walletService.GetStatement(r.Context(), userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrWalletNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrWalletNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveWallet.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, statement)
}

// Achievements handles GET requests for a user's rank promotion history.
//
// Endpoint: GET /api/user/{uuid}/achievements
// Response: 200 OK with array of RankAchievement
// Error: 500 Internal Server Error if retrieval fails
func (h *UserHandler) Achievements(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "uuid")

	achievements, err := h.rankService.ListAchievements(r.Context(), userID)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveAchievements.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, achievements)
}
