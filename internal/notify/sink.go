package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/pocketpro-tw/lead-services/api/internal/public/domain"
)

// Sink is one external notification destination. Implementations are
// stateless and safe to invoke concurrently for different submissions.
// Deliver 只會被呼叫一次，失敗不重送；錯誤只拿來記錄，不影響提交結果。
type Sink interface {
	Name() string
	Deliver(ctx context.Context, submission domain.Submission) error
}

// ErrNotConfigured is returned by a sink whose credentials are absent. It is
// a skip, not a failure: an optional sink that was never set up must not be
// treated as a broken one.
var ErrNotConfigured = errors.New("not configured")

// SinkError carries the sink identity together with the provider error so the
// dispatcher can log which destination degraded.
type SinkError struct {
	Sink string
	Err  error
}

func (e *SinkError) Error() string {
	return fmt.Sprintf("sink %s: %v", e.Sink, e.Err)
}

func (e *SinkError) Unwrap() error {
	return e.Err
}
