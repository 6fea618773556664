package application

import (
	"context"

	"github.com/pocketpro-tw/lead-services/api/internal/public/domain"
)

// SubmissionRepository abstracts the durable submission store.
// Append 成功即代表紀錄已落地，之後的 ListAll 一定看得到這筆資料。
type SubmissionRepository interface {
	// Append persists a validated submission and assigns ID/CreatedAt on it.
	Append(ctx context.Context, submission *domain.Submission) error
	// ListAll returns every stored submission ordered by createdAt ascending.
	ListAll(ctx context.Context) ([]domain.Submission, error)
}

// SubmissionService handles the write path: validate, persist, fan out.
type SubmissionService interface {
	Submit(ctx context.Context, input SubmitInput) (string, error)
	List(ctx context.Context) ([]domain.Submission, error)
	// Wait blocks until in-flight sink deliveries finish. Used by graceful
	// shutdown so fire-and-forget notifications are not silently abandoned.
	Wait()
}

// StatsService computes dashboard aggregates over the submission store.
type StatsService interface {
	Compute(ctx context.Context) (Stats, error)
}

// SubmitInput captures an unvalidated form payload from either public form.
type SubmitInput struct {
	Kind          domain.SubmissionKind
	Name          string
	Email         string
	Phone         string
	Company       string
	Message       string
	Industry      string
	IndustryOther string
	Budget        string
}
