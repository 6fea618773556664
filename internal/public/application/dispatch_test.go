package application

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/pocketpro-tw/lead-services/api/internal/notify"
	"github.com/pocketpro-tw/lead-services/api/internal/public/domain"
)

type stubRepo struct {
	mu        sync.Mutex
	appendErr error
	listErr   error
	stored    []domain.Submission
	nextID    int
}

func (r *stubRepo) Append(_ context.Context, submission *domain.Submission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.appendErr != nil {
		return r.appendErr
	}
	r.nextID++
	submission.ID = fmt.Sprintf("sub-%d", r.nextID)
	submission.CreatedAt = time.Date(2026, 1, 27, 10, 0, 0, 0, time.UTC)
	r.stored = append(r.stored, *submission)
	return nil
}

func (r *stubRepo) ListAll(_ context.Context) ([]domain.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	return append([]domain.Submission(nil), r.stored...), nil
}

func (r *stubRepo) storedCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.stored)
}

type stubSink struct {
	name string
	err  error

	mu        sync.Mutex
	delivered []domain.Submission
}

func (s *stubSink) Name() string { return s.name }

func (s *stubSink) Deliver(_ context.Context, submission domain.Submission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.delivered = append(s.delivered, submission)
	return nil
}

func (s *stubSink) deliveredCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.delivered)
}

func discardLogger() *log.Logger {
	return log.New(&strings.Builder{}, "", 0)
}

func TestSubmitRejectsInvalidPayloadBeforeStorage(t *testing.T) {
	repo := &stubRepo{}
	sink := &stubSink{name: "email"}
	service := NewSubmissionService(repo, []notify.Sink{sink}, discardLogger())

	input := validLeadInput()
	input.Email = "not-an-email"

	_, err := service.Submit(context.Background(), input)
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("err = %v, want *ValidationError", err)
	}

	service.Wait()
	if repo.storedCount() != 0 {
		t.Errorf("storage received %d writes, want 0", repo.storedCount())
	}
	if sink.deliveredCount() != 0 {
		t.Errorf("sink received %d deliveries, want 0", sink.deliveredCount())
	}
}

func TestSubmitFailsWhenStorageDown(t *testing.T) {
	repo := &stubRepo{appendErr: errors.New("connection refused")}
	sinks := []notify.Sink{
		&stubSink{name: "email"},
		&stubSink{name: "sheets"},
	}
	service := NewSubmissionService(repo, sinks, discardLogger())

	_, err := service.Submit(context.Background(), validLeadInput())
	if !errors.Is(err, ErrStorageUnavailable) {
		t.Fatalf("err = %v, want ErrStorageUnavailable", err)
	}

	// 沒有落地就不能有任何通知。
	service.Wait()
	for _, sink := range sinks {
		if sink.(*stubSink).deliveredCount() != 0 {
			t.Errorf("sink %s delivered without a durable record", sink.Name())
		}
	}
}

func TestSubmitSurvivesFailingSink(t *testing.T) {
	repo := &stubRepo{}
	healthy1 := &stubSink{name: "email"}
	failing := &stubSink{name: "sheets", err: errors.New("quota exceeded")}
	healthy2 := &stubSink{name: "notion"}
	service := NewSubmissionService(repo, []notify.Sink{healthy1, failing, healthy2}, discardLogger())

	id, err := service.Submit(context.Background(), validLeadInput())
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if id == "" {
		t.Fatal("Submit returned empty id")
	}

	service.Wait()
	if repo.storedCount() != 1 {
		t.Fatalf("stored %d submissions, want 1", repo.storedCount())
	}
	if healthy1.deliveredCount() != 1 || healthy2.deliveredCount() != 1 {
		t.Errorf("healthy sinks delivered %d/%d, want 1/1", healthy1.deliveredCount(), healthy2.deliveredCount())
	}
}

func TestFanOutCollectsPerSinkResults(t *testing.T) {
	repo := &stubRepo{}
	providerErr := errors.New("bad gateway")
	sinks := []notify.Sink{
		&stubSink{name: "email"},
		&stubSink{name: "sheets", err: providerErr},
		&stubSink{name: "notion", err: notify.ErrNotConfigured},
	}
	service := NewSubmissionService(repo, sinks, discardLogger()).(*submissionService)

	submission, err := ValidateSubmission(validLeadInput())
	if err != nil {
		t.Fatalf("ValidateSubmission returned error: %v", err)
	}

	results := service.fanOut(context.Background(), submission)
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}

	if !results[0].OK || results[0].Err != nil {
		t.Errorf("email result = %+v, want ok", results[0])
	}

	if results[1].OK || results[1].Skipped {
		t.Errorf("sheets result = %+v, want failure", results[1])
	}
	var sinkErr *notify.SinkError
	if !errors.As(results[1].Err, &sinkErr) || sinkErr.Sink != "sheets" || !errors.Is(sinkErr, providerErr) {
		t.Errorf("sheets err = %v, want SinkError wrapping provider error", results[1].Err)
	}

	if !results[2].Skipped || results[2].OK || results[2].Err != nil {
		t.Errorf("notion result = %+v, want skip", results[2])
	}
}

func TestSubmitWithoutSinks(t *testing.T) {
	repo := &stubRepo{}
	service := NewSubmissionService(repo, nil, discardLogger())

	id, err := service.Submit(context.Background(), validLeadInput())
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	service.Wait()
	if id == "" || repo.storedCount() != 1 {
		t.Errorf("id=%q stored=%d, want accepted submission", id, repo.storedCount())
	}
}

func TestListWrapsStorageErrors(t *testing.T) {
	repo := &stubRepo{listErr: errors.New("no reachable servers")}
	service := NewSubmissionService(repo, nil, discardLogger())

	if _, err := service.List(context.Background()); !errors.Is(err, ErrStorageUnavailable) {
		t.Fatalf("err = %v, want ErrStorageUnavailable", err)
	}
}
