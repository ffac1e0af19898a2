package httpapi

import (
	"net/http"

	"github.com/pocketfin/pocketfin/internal/finance"
	"github.com/pocketfin/pocketfin/internal/service/stats"
)

type statsResponse struct {
	Stats        []stats.Point         `json:"stats"`
	Transactions []transactionResponse `json:"transactions"`
	Summary      stats.SummaryMetrics  `json:"summary"`
}

// getStats handles GET /v1/stats?user_id=...&period=weekly|monthly|yearly
func (s *Server) getStats(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseUserID(w, r)
	if !ok {
		return
	}
	period, err := stats.ParsePeriod(r.URL.Query().Get("period"))
	if err != nil {
		badRequest(w, "period must be one of weekly, monthly, yearly")
		return
	}
	result, err := s.statsSvc.FetchPeriodStats(r.Context(), userID, period)
	if err != nil {
		serviceError(w, err)
		return
	}
	txs := make([]transactionResponse, 0, len(result.Transactions))
	for _, tx := range result.Transactions {
		txs = append(txs, toTransactionResponse(tx))
	}
	toJSON(w, http.StatusOK, statsResponse{
		Stats:        result.Stats,
		Transactions: txs,
		Summary:      stats.Summary(result.Transactions),
	})
}

// getCategoryBreakdown handles GET /v1/stats/categories, summing the period's
// transactions per category for one type.
func (s *Server) getCategoryBreakdown(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseUserID(w, r)
	if !ok {
		return
	}
	period, err := stats.ParsePeriod(r.URL.Query().Get("period"))
	if err != nil {
		badRequest(w, "period must be one of weekly, monthly, yearly")
		return
	}
	typ := finance.TransactionType(r.URL.Query().Get("type"))
	if !typ.Valid() {
		badRequest(w, "type must be income or expense")
		return
	}
	result, err := s.statsSvc.FetchPeriodStats(r.Context(), userID, period)
	if err != nil {
		serviceError(w, err)
		return
	}
	toJSON(w, http.StatusOK, stats.GroupByCategory(result.Transactions, typ))
}
