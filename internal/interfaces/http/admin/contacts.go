package admin

import (
	"context"
	"net/http"
	"time"

	"github.com/pocketpro-tw/lead-services/api/internal/interfaces/http/common"
	"github.com/pocketpro-tw/lead-services/api/internal/public/domain"
)

type submissionResponse struct {
	ID            string    `json:"id"`
	Kind          string    `json:"kind"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	Company       string    `json:"company"`
	Message       string    `json:"message"`
	Industry      string    `json:"industry"`
	IndustryOther string    `json:"industryOther,omitempty"`
	Budget        string    `json:"budget"`
	CreatedAt     time.Time `json:"createdAt"`
}

type contactListResponse struct {
	Items []submissionResponse `json:"items"`
	Total int                  `json:"total"`
}

// contactListHandler returns the full submission list, ordered oldest first.
// Access control lives in the server's auth middleware, not here.
func (h *Handler) contactListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		submissions, err := h.submissions.List(ctx)
		if err != nil {
			h.logger.Printf("提交清單讀取失敗: %v", err)
			common.WriteJSON(h.logger, w, http.StatusInternalServerError, map[string]string{
				"error": "無法讀取客戶資料",
			})
			return
		}

		items := make([]submissionResponse, 0, len(submissions))
		for _, submission := range submissions {
			items = append(items, buildSubmissionResponse(submission, h.location))
		}

		common.WriteJSON(h.logger, w, http.StatusOK, contactListResponse{
			Items: items,
			Total: len(items),
		})
	}
}

func buildSubmissionResponse(submission domain.Submission, location *time.Location) submissionResponse {
	return submissionResponse{
		ID:            submission.ID,
		Kind:          string(submission.Kind),
		Name:          submission.Name,
		Email:         submission.Email,
		Phone:         submission.Phone,
		Company:       submission.Company,
		Message:       submission.Message,
		Industry:      submission.Industry,
		IndustryOther: submission.IndustryOther,
		Budget:        submission.Budget,
		CreatedAt:     submission.CreatedAt.In(location),
	}
}
