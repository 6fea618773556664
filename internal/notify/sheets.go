package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/oauth2/google"
	oauthjwt "golang.org/x/oauth2/jwt"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/pocketpro-tw/lead-services/api/internal/public/domain"
)

const sheetsScope = "https://www.googleapis.com/auth/spreadsheets"

// sheetsAppendRange covers the fixed column layout: timestamp, name, phone,
// email, company, industry, budget, pain point, status.
const sheetsAppendRange = "A:I"

// statusNewCustomer is the fixed label written into the status column and
// the Notion 狀態 property for every fresh submission.
const statusNewCustomer = "新客戶"

// SheetsSink appends one spreadsheet row per submission so the sales team
// can triage leads without touching the database.
type SheetsSink struct {
	service       *sheets.Service
	spreadsheetID string
}

// SheetsConfig provides service-account credentials for SheetsSink.
type SheetsConfig struct {
	ClientEmail   string
	PrivateKey    string
	SpreadsheetID string
}

// NewSheetsSink builds the Google Sheets sink from service-account
// credentials. Missing credentials yield an unconfigured sink whose Deliver
// reports ErrNotConfigured; malformed credentials are a hard error.
func NewSheetsSink(ctx context.Context, cfg SheetsConfig) (*SheetsSink, error) {
	clientEmail := strings.TrimSpace(cfg.ClientEmail)
	privateKey := strings.TrimSpace(cfg.PrivateKey)
	spreadsheetID := strings.TrimSpace(cfg.SpreadsheetID)
	if clientEmail == "" || privateKey == "" || spreadsheetID == "" {
		return &SheetsSink{}, nil
	}

	// Deployment tooling stores the key with escaped newlines.
	privateKey = strings.ReplaceAll(privateKey, `\n`, "\n")

	jwtConfig := &oauthjwt.Config{
		Email:      clientEmail,
		PrivateKey: []byte(privateKey),
		Scopes:     []string{sheetsScope},
		TokenURL:   google.JWTTokenURL,
	}

	service, err := sheets.NewService(ctx, option.WithHTTPClient(jwtConfig.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("建立 Google Sheets 服務失敗: %w", err)
	}

	return &SheetsSink{service: service, spreadsheetID: spreadsheetID}, nil
}

func (s *SheetsSink) Name() string { return "sheets" }

// Deliver appends the submission as one row with the fixed column order.
func (s *SheetsSink) Deliver(ctx context.Context, submission domain.Submission) error {
	if s.service == nil || s.spreadsheetID == "" {
		return ErrNotConfigured
	}

	row := []interface{}{
		submission.CreatedAt.UTC().Format(time.RFC3339),
		submission.Name,
		submission.Phone,
		submission.Email,
		submission.Company,
		submission.IndustryDisplay(),
		submission.Budget,
		submission.Message,
		statusNewCustomer,
	}

	valueRange := &sheets.ValueRange{Values: [][]interface{}{row}}
	_, err := s.service.Spreadsheets.Values.
		Append(s.spreadsheetID, sheetsAppendRange, valueRange).
		ValueInputOption("USER_ENTERED").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("寫入 Google Sheets 失敗: %w", err)
	}
	return nil
}
