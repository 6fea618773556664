package application

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/pocketpro-tw/lead-services/api/internal/notify"
	"github.com/pocketpro-tw/lead-services/api/internal/public/domain"
)

// defaultNotifyTimeout bounds one fan-out round across all sinks.
const defaultNotifyTimeout = 10 * time.Second

// NotificationResult is the per-sink outcome of one dispatch attempt. It is
// never persisted; the dispatcher only logs it so a dropped notification
// leaves a trace.
type NotificationResult struct {
	Sink    string
	OK      bool
	Skipped bool
	Err     error
}

type submissionService struct {
	repo          SubmissionRepository
	sinks         []notify.Sink
	logger        *log.Logger
	notifyTimeout time.Duration
	inflight      sync.WaitGroup
}

// NewSubmissionService wires the write path: validation, the durable store
// and the notification sinks.
func NewSubmissionService(repo SubmissionRepository, sinks []notify.Sink, logger *log.Logger) SubmissionService {
	return &submissionService{
		repo:          repo,
		sinks:         sinks,
		logger:        logger,
		notifyTimeout: defaultNotifyTimeout,
	}
}

// Submit validates the payload, appends it to the store and then fans the
// notification out to every sink. The append is the durability boundary:
// the caller sees success as soon as it completes, and sink deliveries run
// in the background without affecting the response.
// 通知採 fire-and-forget：任何一個 sink 失敗都不會影響已寫入的提交。
func (s *submissionService) Submit(ctx context.Context, input SubmitInput) (string, error) {
	submission, err := ValidateSubmission(input)
	if err != nil {
		return "", err
	}

	if err := s.repo.Append(ctx, &submission); err != nil {
		return "", wrapStorageError(err)
	}

	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		// Detached from the request context: the HTTP response must not
		// cancel deliveries that are already owed to the operators.
		notifyCtx, cancel := context.WithTimeout(context.Background(), s.notifyTimeout)
		defer cancel()
		s.logResults(submission, s.fanOut(notifyCtx, submission))
	}()

	return submission.ID, nil
}

func (s *submissionService) List(ctx context.Context) ([]domain.Submission, error) {
	submissions, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, wrapStorageError(err)
	}
	return submissions, nil
}

// Wait blocks until all in-flight fan-outs have finished.
func (s *submissionService) Wait() {
	s.inflight.Wait()
}

// fanOut delivers the submission to every sink in parallel and collects one
// result per sink. Sinks are independent: a failure or skip in one never
// prevents or delays another.
func (s *submissionService) fanOut(ctx context.Context, submission domain.Submission) []NotificationResult {
	results := make([]NotificationResult, len(s.sinks))

	var wg sync.WaitGroup
	for i, sink := range s.sinks {
		wg.Add(1)
		go func(i int, sink notify.Sink) {
			defer wg.Done()
			err := sink.Deliver(ctx, submission)
			switch {
			case err == nil:
				results[i] = NotificationResult{Sink: sink.Name(), OK: true}
			case errors.Is(err, notify.ErrNotConfigured):
				results[i] = NotificationResult{Sink: sink.Name(), Skipped: true}
			default:
				results[i] = NotificationResult{
					Sink: sink.Name(),
					Err:  &notify.SinkError{Sink: sink.Name(), Err: err},
				}
			}
		}(i, sink)
	}
	wg.Wait()

	return results
}

// logResults records every sink outcome, including skips, so operations can
// tell a degraded sink from one that was never configured.
func (s *submissionService) logResults(submission domain.Submission, results []NotificationResult) {
	if s.logger == nil {
		return
	}
	for _, result := range results {
		switch {
		case result.Skipped:
			s.logger.Printf("通知未設定，跳過: sink=%s id=%s", result.Sink, submission.ID)
		case result.OK:
			s.logger.Printf("通知已送出: sink=%s id=%s", result.Sink, submission.ID)
		default:
			s.logger.Printf("通知送出失敗: id=%s err=%v", submission.ID, result.Err)
		}
	}
}
