package public

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/pocketpro-tw/lead-services/api/internal/interfaces/http/common"
	publicapp "github.com/pocketpro-tw/lead-services/api/internal/public/application"
	"github.com/pocketpro-tw/lead-services/api/internal/public/domain"
)

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Company string `json:"company"`
	Message string `json:"message,omitempty"`
}

type leadRequest struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Company       string `json:"company"`
	Industry      string `json:"industry,omitempty"`
	IndustryOther string `json:"industryOther,omitempty"`
	Budget        string `json:"budget,omitempty"`
	PainPoint     string `json:"painPoint,omitempty"`
}

type submitResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
}

func (h *Handler) contactCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req contactRequest
		if !h.decodeSubmitRequest(w, r, &req) {
			return
		}

		input := publicapp.SubmitInput{
			Kind:    domain.KindContact,
			Name:    req.Name,
			Email:   req.Email,
			Phone:   req.Phone,
			Company: req.Company,
			Message: req.Message,
		}

		h.submitAndRespond(w, r, input)
	}
}

func (h *Handler) leadCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req leadRequest
		if !h.decodeSubmitRequest(w, r, &req) {
			return
		}

		input := publicapp.SubmitInput{
			Kind:          domain.KindLead,
			Name:          req.Name,
			Email:         req.Email,
			Phone:         req.Phone,
			Company:       req.Company,
			Message:       req.PainPoint,
			Industry:      common.CanonicalIndustry(req.Industry),
			IndustryOther: req.IndustryOther,
			Budget:        req.Budget,
		}

		h.submitAndRespond(w, r, input)
	}
}

// decodeSubmitRequest reads one bounded JSON body into dst and reports the
// usual 400 on malformed input.
func (h *Handler) decodeSubmitRequest(w http.ResponseWriter, r *http.Request, dst any) bool {
	defer r.Body.Close()

	decoder := json.NewDecoder(io.LimitReader(r.Body, common.MaxSubmitRequestBody))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{
			"error": fmt.Sprintf("請求格式不正確: %v", err),
		})
		return false
	}
	return true
}

// submitAndRespond runs the dispatcher and maps its error taxonomy onto HTTP
// statuses: validation problems are the client's to fix, storage problems are
// ours, and sink outcomes never surface here.
func (h *Handler) submitAndRespond(w http.ResponseWriter, r *http.Request, input publicapp.SubmitInput) {
	id, err := h.submissions.Submit(r.Context(), input)
	if err != nil {
		var validationErr *publicapp.ValidationError
		if errors.As(err, &validationErr) {
			common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{
				"error": validationErr.Reason,
				"field": validationErr.Field,
			})
			return
		}
		if h.logger != nil {
			h.logger.Printf("提交儲存失敗: kind=%s err=%v", input.Kind, err)
		}
		common.WriteJSON(h.logger, w, http.StatusInternalServerError, map[string]string{
			"error": "資料儲存失敗，請稍後再試",
		})
		return
	}

	common.WriteJSON(h.logger, w, http.StatusOK, submitResponse{Success: true, ID: id})
}
