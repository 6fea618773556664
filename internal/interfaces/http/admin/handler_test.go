package admin

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pocketpro-tw/lead-services/api/internal/interfaces/http/common"
	publicapp "github.com/pocketpro-tw/lead-services/api/internal/public/application"
	"github.com/pocketpro-tw/lead-services/api/internal/public/domain"
)

type fakeSubmissionService struct {
	submissions []domain.Submission
	listErr     error
}

func (s *fakeSubmissionService) Submit(context.Context, publicapp.SubmitInput) (string, error) {
	return "", errors.New("not used")
}

func (s *fakeSubmissionService) List(context.Context) ([]domain.Submission, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.submissions, nil
}

func (s *fakeSubmissionService) Wait() {}

type fakeStatsService struct {
	stats publicapp.Stats
	err   error
}

func (s *fakeStatsService) Compute(context.Context) (publicapp.Stats, error) {
	if s.err != nil {
		return publicapp.Stats{}, s.err
	}
	return s.stats, nil
}

func newTestRouter(submissions publicapp.SubmissionService, stats publicapp.StatsService, location *time.Location) chi.Router {
	handler := NewHandler(Config{
		Logger:      log.New(&strings.Builder{}, "", 0),
		Submissions: submissions,
		Stats:       stats,
		Location:    location,
	})
	router := chi.NewRouter()
	handler.Register(router)
	return router
}

func get(router chi.Router, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestContactListReturnsSubmissions(t *testing.T) {
	taipei := time.FixedZone("CST", 8*60*60)
	stored := []domain.Submission{
		{
			ID:        "sub-1",
			Kind:      domain.KindContact,
			Name:      "陳美玲",
			Email:     "mei@example.com",
			Phone:     "0987654321",
			Company:   "大樹公關",
			Message:   domain.Unspecified,
			Industry:  domain.Unspecified,
			Budget:    domain.Unspecified,
			CreatedAt: time.Date(2026, 1, 26, 23, 30, 0, 0, time.UTC),
		},
		{
			ID:            "sub-2",
			Kind:          domain.KindLead,
			Name:          "王小明",
			Email:         "ming@example.com",
			Phone:         "0912345678",
			Company:       "晨光行銷",
			Message:       "合約處理太花時間",
			Industry:      domain.IndustryOther,
			IndustryOther: "出版業",
			Budget:        "1萬-3萬",
			CreatedAt:     time.Date(2026, 1, 27, 2, 0, 0, 0, time.UTC),
		},
	}
	router := newTestRouter(&fakeSubmissionService{submissions: stored}, &fakeStatsService{}, taipei)

	res := get(router, "/contacts")
	if res.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", res.Code, res.Body.String())
	}

	var body struct {
		Items []struct {
			ID            string    `json:"id"`
			Kind          string    `json:"kind"`
			Name          string    `json:"name"`
			IndustryOther string    `json:"industryOther"`
			CreatedAt     time.Time `json:"createdAt"`
		} `json:"items"`
		Total int `json:"total"`
	}
	if err := json.Unmarshal(res.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if body.Total != 2 || len(body.Items) != 2 {
		t.Fatalf("total=%d items=%d, want 2/2", body.Total, len(body.Items))
	}
	if body.Items[0].ID != "sub-1" || body.Items[1].Kind != "lead" {
		t.Errorf("unexpected items: %+v", body.Items)
	}
	if body.Items[1].IndustryOther != "出版業" {
		t.Errorf("industryOther = %q", body.Items[1].IndustryOther)
	}

	// 時間以儀表板的時區輸出：UTC 23:30 在台北已是隔天早上。
	_, offset := body.Items[0].CreatedAt.Zone()
	if offset != 8*60*60 {
		t.Errorf("createdAt offset = %d, want +08:00", offset)
	}
	if day := body.Items[0].CreatedAt.Day(); day != 27 {
		t.Errorf("createdAt day = %d, want 27", day)
	}
}

func TestContactListEmptyStore(t *testing.T) {
	router := newTestRouter(&fakeSubmissionService{}, &fakeStatsService{}, time.UTC)

	res := get(router, "/contacts")
	if res.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", res.Code)
	}
	if !strings.Contains(res.Body.String(), `"items":[]`) {
		t.Errorf("empty list must marshal as [], got %s", res.Body.String())
	}
}

func TestContactListStorageFailure(t *testing.T) {
	service := &fakeSubmissionService{listErr: publicapp.ErrStorageUnavailable}
	router := newTestRouter(service, &fakeStatsService{}, time.UTC)

	res := get(router, "/contacts")
	if res.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", res.Code)
	}
}

func TestStatsEndpoint(t *testing.T) {
	stats := publicapp.Stats{
		Daily:   []publicapp.DailyCount{{Date: "2026-01-27", Count: 3}},
		Monthly: []publicapp.MonthlyCount{{Month: "2026-01", Count: 8}},
		Total:   8,
	}
	router := newTestRouter(&fakeSubmissionService{}, &fakeStatsService{stats: stats}, time.UTC)

	res := get(router, "/stats")
	if res.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", res.Code, res.Body.String())
	}

	var body publicapp.Stats
	if err := json.Unmarshal(res.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Total != 8 || len(body.Daily) != 1 || body.Monthly[0].Month != "2026-01" {
		t.Errorf("body = %+v", body)
	}
}

func TestMeReturnsAuthenticatedUser(t *testing.T) {
	router := newTestRouter(&fakeSubmissionService{}, &fakeStatsService{}, time.UTC)

	user := common.AuthenticatedUser{ID: "admin-1", Name: "站長", Username: "jump"}
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req = req.WithContext(common.ContextWithUser(req.Context(), user))
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", recorder.Code, recorder.Body.String())
	}

	var body struct {
		Status string                   `json:"status"`
		User   common.AuthenticatedUser `json:"user"`
	}
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Status != "ok" || body.User != user {
		t.Errorf("body = %+v", body)
	}
}

func TestMeWithoutPrincipal(t *testing.T) {
	// 正常部署下 middleware 一定會先放入使用者；沒有就是伺服器組態錯誤。
	router := newTestRouter(&fakeSubmissionService{}, &fakeStatsService{}, time.UTC)

	res := get(router, "/me")
	if res.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", res.Code)
	}
}

func TestStatsFailure(t *testing.T) {
	router := newTestRouter(&fakeSubmissionService{}, &fakeStatsService{err: publicapp.ErrStorageUnavailable}, time.UTC)

	res := get(router, "/stats")
	if res.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", res.Code)
	}
	if !strings.Contains(res.Body.String(), "無法計算統計資料") {
		t.Errorf("body = %s", res.Body.String())
	}
}
