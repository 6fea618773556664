package admin

import (
	"context"
	"net/http"
	"time"

	"github.com/pocketpro-tw/lead-services/api/internal/interfaces/http/common"
)

// statsHandler serves the dashboard buckets. Read-only and cheap enough for
// the dashboard to poll; a failing store degrades to a 500 the dashboard
// renders as an error state.
func (h *Handler) statsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		stats, err := h.stats.Compute(ctx)
		if err != nil {
			h.logger.Printf("統計計算失敗: %v", err)
			common.WriteJSON(h.logger, w, http.StatusInternalServerError, map[string]string{
				"error": "無法計算統計資料",
			})
			return
		}

		common.WriteJSON(h.logger, w, http.StatusOK, stats)
	}
}
