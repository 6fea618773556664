package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/http"
	"strings"

	"github.com/pocketpro-tw/lead-services/api/internal/public/domain"
)

const defaultResendEndpoint = "https://api.resend.com"

// EmailSink sends a human-readable summary of each submission to the fixed
// operator address through the Resend transactional email API.
type EmailSink struct {
	httpClient *http.Client
	endpoint   string
	apiKey     string
	from       string
	to         string
}

// EmailConfig provides dependencies for EmailSink.
type EmailConfig struct {
	HTTPClient *http.Client
	Endpoint   string
	APIKey     string
	From       string
	To         string
}

// NewEmailSink constructs the Resend-backed email sink. An empty API key is
// allowed; Deliver then reports ErrNotConfigured instead of failing.
func NewEmailSink(cfg EmailConfig) *EmailSink {
	endpoint := strings.TrimRight(strings.TrimSpace(cfg.Endpoint), "/")
	if endpoint == "" {
		endpoint = defaultResendEndpoint
	}
	client := cfg.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	return &EmailSink{
		httpClient: client,
		endpoint:   endpoint,
		apiKey:     strings.TrimSpace(cfg.APIKey),
		from:       strings.TrimSpace(cfg.From),
		to:         strings.TrimSpace(cfg.To),
	}
}

func (s *EmailSink) Name() string { return "email" }

// Deliver renders the submission as an HTML table and posts it to Resend.
func (s *EmailSink) Deliver(ctx context.Context, submission domain.Submission) error {
	if s.apiKey == "" || s.to == "" {
		return ErrNotConfigured
	}

	payload := map[string]any{
		"from":    s.from,
		"to":      []string{s.to},
		"subject": fmt.Sprintf("🔔 新客戶！%s - %s", submission.Company, submission.Name),
		"html":    buildSubmissionHTML(submission),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("建立郵件通知內容失敗: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint+"/emails", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("建立郵件通知請求失敗: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	res, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("郵件通知請求失敗: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		message, _ := io.ReadAll(io.LimitReader(res.Body, 1<<16))
		return fmt.Errorf("郵件通知發送錯誤: status=%d body=%s", res.StatusCode, strings.TrimSpace(string(message)))
	}

	return nil
}

// buildSubmissionHTML lays out the notification table the operators read in
// their inbox. Field order mirrors the lead form.
func buildSubmissionHTML(submission domain.Submission) string {
	rows := [][2]string{
		{"姓名", submission.Name},
		{"電話", submission.Phone},
		{"Email", submission.Email},
		{"公司", submission.Company},
		{"產業", submission.IndustryDisplay()},
		{"預算", submission.Budget},
		{"痛點", submission.Message},
	}

	var builder strings.Builder
	builder.WriteString("<h2>新客戶資料</h2>\n")
	builder.WriteString(`<table style="border-collapse: collapse; width: 100%;">` + "\n")
	for _, row := range rows {
		builder.WriteString("<tr>")
		builder.WriteString(`<td style="padding: 8px; border: 1px solid #ddd; font-weight: bold;">`)
		builder.WriteString(html.EscapeString(row[0]))
		builder.WriteString("</td>")
		builder.WriteString(`<td style="padding: 8px; border: 1px solid #ddd;">`)
		builder.WriteString(html.EscapeString(row[1]))
		builder.WriteString("</td>")
		builder.WriteString("</tr>\n")
	}
	builder.WriteString("</table>\n")
	builder.WriteString(`<p style="margin-top: 16px; color: #666;">此信件由 PocketPro 官網自動發送</p>`)
	return builder.String()
}
