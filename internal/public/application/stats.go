package application

import (
	"context"
	"time"
)

const (
	dailyWindowDays   = 30
	monthlyWindowSize = 12

	dayKeyLayout   = "2006-01-02"
	monthKeyLayout = "2006-01"
)

// Stats is the dashboard aggregate: fixed calendar buckets plus the running
// total. Both bucket slices are always fully populated and ordered ascending.
type Stats struct {
	Daily   []DailyCount   `json:"daily"`
	Monthly []MonthlyCount `json:"monthly"`
	Total   int            `json:"total"`
}

// DailyCount is the submission count for one calendar day.
type DailyCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// MonthlyCount is the submission count for one calendar month.
type MonthlyCount struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

type statsService struct {
	repo     SubmissionRepository
	location *time.Location
	now      func() time.Time
}

// NewStatsService builds the aggregator. Bucket boundaries are evaluated in
// the given location so "today" matches the operators' calendar.
func NewStatsService(repo SubmissionRepository, location *time.Location) StatsService {
	return newStatsService(repo, location, time.Now)
}

func newStatsService(repo SubmissionRepository, location *time.Location, now func() time.Time) *statsService {
	if location == nil {
		location = time.UTC
	}
	return &statsService{repo: repo, location: location, now: now}
}

// Compute scans the whole store and buckets submissions into the last 30
// days and the last 12 months, both ending now. For a fixed clock and store
// the output is fully deterministic; an empty store yields all-zero buckets.
func (s *statsService) Compute(ctx context.Context) (Stats, error) {
	submissions, err := s.repo.ListAll(ctx)
	if err != nil {
		return Stats{}, wrapStorageError(err)
	}

	now := s.now().In(s.location)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.location)

	daily := make([]DailyCount, 0, dailyWindowDays)
	dailyIndex := make(map[string]int, dailyWindowDays)
	for i := dailyWindowDays - 1; i >= 0; i-- {
		key := today.AddDate(0, 0, -i).Format(dayKeyLayout)
		dailyIndex[key] = len(daily)
		daily = append(daily, DailyCount{Date: key})
	}

	monthly := make([]MonthlyCount, 0, monthlyWindowSize)
	monthlyIndex := make(map[string]int, monthlyWindowSize)
	for i := monthlyWindowSize - 1; i >= 0; i-- {
		// Anchored to the first of the month so month arithmetic never
		// spills over on short months.
		key := time.Date(now.Year(), now.Month()-time.Month(i), 1, 0, 0, 0, 0, s.location).Format(monthKeyLayout)
		monthlyIndex[key] = len(monthly)
		monthly = append(monthly, MonthlyCount{Month: key})
	}

	for _, submission := range submissions {
		createdAt := submission.CreatedAt.In(s.location)
		if idx, ok := dailyIndex[createdAt.Format(dayKeyLayout)]; ok {
			daily[idx].Count++
		}
		if idx, ok := monthlyIndex[createdAt.Format(monthKeyLayout)]; ok {
			monthly[idx].Count++
		}
	}

	return Stats{Daily: daily, Monthly: monthly, Total: len(submissions)}, nil
}
