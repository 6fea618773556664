package admin

import (
	"net/http"

	"github.com/pocketpro-tw/lead-services/api/internal/interfaces/http/common"
)

// meHandler echoes the principal the auth middleware resolved, so the
// dashboard can show who is signed in and verify a token without touching
// data routes.
func (h *Handler) meHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := common.UserFromContext(r.Context())
		if !ok {
			common.WriteJSON(h.logger, w, http.StatusInternalServerError, map[string]string{"error": "無法取得登入資訊"})
			return
		}

		common.WriteJSON(h.logger, w, http.StatusOK, map[string]any{
			"status": "ok",
			"user":   user,
		})
	}
}
