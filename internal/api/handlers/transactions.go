package handlers

import (
	"net/http"

	"github.com/growplan/Commission-Engine-Backend/internal/api/request"
	"github.com/growplan/Commission-Engine-Backend/internal/api/response"
	"github.com/growplan/Commission-Engine-Backend/internal/apperrors"
	"github.com/growplan/Commission-Engine-Backend/internal/service"
)

// TransactionHandler handles HTTP requests for the BV transaction audit log.
// Pure projections over the ledger store; no business logic lives here.
type TransactionHandler struct {
	snapshotService *service.SnapshotService
}

// NewTransactionHandler creates a new TransactionHandler with the provided service dependency.
func NewTransactionHandler(snapshotService *service.SnapshotService) *TransactionHandler {
	return &TransactionHandler{
		snapshotService: snapshotService,
	}
}

// ListTransactions handles GET requests for filtered audit rows.
//
// Endpoint: GET /api/transaction?userId=&purchaseId=&type=&from=&to=
// Response: 200 OK with array of BVTransaction
// Error: 400 Bad Request if a filter fails validation
// Error: 500 Internal Server Error if retrieval fails
func (h *TransactionHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	filter, err := request.ParseBVTransactionFilters(
		r.URL.Query().Get("userId"),
		r.URL.Query().Get("purchaseId"),
		r.URL.Query().Get("type"),
		r.URL.Query().Get("from"),
		r.URL.Query().Get("to"),
	)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid filters", err.Error())
		return
	}

	transactions, err := h.snapshotService.ListTransactions(r.Context(), filter)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveTransactions.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, transactions)
}

// ExportTransactions handles GET requests exporting filtered audit rows as CSV.
//
// Endpoint: GET /api/transaction/export?userId=&purchaseId=&type=&from=&to=
// Response: 200 OK, text/csv attachment
// Error: 400 Bad Request if a filter fails validation
// Error: 500 Internal Server Error if the export fails
func (h *TransactionHandler) ExportTransactions(w http.ResponseWriter, r *http.Request) {
	filter, err := request.ParseBVTransactionFilters(
		r.URL.Query().Get("userId"),
		r.URL.Query().Get("purchaseId"),
		r.URL.Query().Get("type"),
		r.URL.Query().Get("from"),
		r.URL.Query().Get("to"),
	)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid filters", err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="bv_transactions.csv"`)

	if err := h.snapshotService.ExportTransactionsCSV(r.Context(), w, filter); err != nil {
		// Headers may already be written; log-and-abort is all that is left.
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToExportTransactions.Error(), err.Error())
	}
}
