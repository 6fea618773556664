package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/pocketpro-tw/lead-services/api/internal/public/domain"
)

const (
	defaultNotionEndpoint = "https://api.notion.com"
	notionVersion         = "2022-06-28"
)

// NotionSink creates one page per submission in the CRM database so leads
// show up on the team's pipeline board.
type NotionSink struct {
	httpClient *http.Client
	endpoint   string
	apiKey     string
	databaseID string
}

// NotionConfig provides dependencies for NotionSink.
type NotionConfig struct {
	HTTPClient *http.Client
	Endpoint   string
	APIKey     string
	DatabaseID string
}

// NewNotionSink constructs the Notion CRM sink. Absent credentials make
// Deliver report ErrNotConfigured.
func NewNotionSink(cfg NotionConfig) *NotionSink {
	endpoint := strings.TrimRight(strings.TrimSpace(cfg.Endpoint), "/")
	if endpoint == "" {
		endpoint = defaultNotionEndpoint
	}
	client := cfg.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	return &NotionSink{
		httpClient: client,
		endpoint:   endpoint,
		apiKey:     strings.TrimSpace(cfg.APIKey),
		databaseID: strings.TrimSpace(cfg.DatabaseID),
	}
}

func (s *NotionSink) Name() string { return "notion" }

// Deliver maps the submission onto the CRM database schema and creates one
// page. Property names match the shared Notion database.
func (s *NotionSink) Deliver(ctx context.Context, submission domain.Submission) error {
	if s.apiKey == "" || s.databaseID == "" {
		return ErrNotConfigured
	}

	payload := map[string]any{
		"parent": map[string]any{"database_id": s.databaseID},
		"properties": map[string]any{
			"Name":  notionTitle(submission.Name),
			"電話":    notionRichText(submission.Phone),
			"Email": map[string]any{"email": submission.Email},
			"公司":    notionRichText(submission.Company),
			"產業":    notionSelect(submission.IndustryDisplay()),
			"預算":    notionSelect(submission.Budget),
			"痛點":    notionRichText(submission.Message),
			"狀態":    notionSelect(statusNewCustomer),
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("建立 Notion 通知內容失敗: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint+"/v1/pages", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("建立 Notion 請求失敗: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Notion-Version", notionVersion)

	res, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("Notion 請求失敗: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		message, _ := io.ReadAll(io.LimitReader(res.Body, 1<<16))
		return fmt.Errorf("Notion 建立紀錄錯誤: status=%d body=%s", res.StatusCode, strings.TrimSpace(string(message)))
	}

	return nil
}

func notionTitle(content string) map[string]any {
	return map[string]any{
		"title": []map[string]any{
			{"text": map[string]any{"content": content}},
		},
	}
}

func notionRichText(content string) map[string]any {
	return map[string]any{
		"rich_text": []map[string]any{
			{"text": map[string]any{"content": content}},
		},
	}
}

func notionSelect(name string) map[string]any {
	return map[string]any{
		"select": map[string]any{"name": name},
	}
}
