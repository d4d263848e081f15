package handlers

import (
	"net/http"

	"github.com/growplan/Commission-Engine-Backend/internal/api/response"
	"github.com/growplan/Commission-Engine-Backend/internal/apperrors"
	"github.com/growplan/Commission-Engine-Backend/internal/service"
)

// RankHandler handles HTTP requests for the configured rank table.
type RankHandler struct {
	rankService *service.RankService
}

// NewRankHandler creates a new RankHandler with the provided service dependency.
func NewRankHandler(rankService *service.RankService) *RankHandler {
	return &RankHandler{
		rankService: rankService,
	}
}

// ListRanks handles GET requests for the ordered rank table.
//
// Endpoint: GET /api/rank
// Response: 200 OK with array of Rank
// Error: 500 Internal Server Error if retrieval fails
func (h *RankHandler) ListRanks(w http.ResponseWriter, r *http.Request) {
	ranks, err := h.rankService.ListRanks(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveRanks.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, ranks)
}
