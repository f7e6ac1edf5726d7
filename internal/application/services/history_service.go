package services

import (
	"context"
	"fmt"
	"time"

	"github.com/Laisfaustt/ProjetoCamali/internal/domain/journal"
	"github.com/Laisfaustt/ProjetoCamali/internal/domain/mood"
	"github.com/Laisfaustt/ProjetoCamali/internal/infrastructure/observability/logging"
	"github.com/Laisfaustt/ProjetoCamali/internal/infrastructure/persistence/docstore"
)

// HistoryService serves the calendar views: a year of mood events bucketed by
// month, the marked days of a month, and the entries of a single day.
type HistoryService struct {
	store      docstore.Store
	normalizer *mood.Normalizer
	logger     *logging.ChanneledLogger
}

// NewHistoryService creates the history service. It shares the journal
// engine's normalizer so both sides bucket events in the same timezone.
func NewHistoryService(store docstore.Store, normalizer *mood.Normalizer, logger *logging.ChanneledLogger) *HistoryService {
	return &HistoryService{
		store:      store,
		normalizer: normalizer,
		logger:     logger,
	}
}

// MonthView is one month of the calendar: marked days plus the raw bucket.
type MonthView struct {
	Year       int                 `json:"year"`
	Month      int                 `json:"month"`
	MarkedDays []string            `json:"markedDays"`
	KindCounts map[mood.Kind]int   `json:"kindCounts"`
	Moods      []mood.Descriptor   `json:"moods"`
	bucket     journal.MonthBucket
}

// Year loads a user's full year aggregate.
func (h *HistoryService) Year(ctx context.Context, userID string, year int) (*journal.YearAggregate, error) {
	events, err := h.yearEvents(ctx, userID, year)
	if err != nil {
		return nil, err
	}
	aggregate := journal.BuildYear(year, events)
	return &aggregate, nil
}

// Month loads one calendar month with its marked days.
func (h *HistoryService) Month(ctx context.Context, userID string, year, month int) (*MonthView, error) {
	if month < 0 || month > 11 {
		return nil, fmt.Errorf("month %d out of range", month)
	}

	events, err := h.yearEvents(ctx, userID, year)
	if err != nil {
		return nil, err
	}

	aggregate := journal.BuildYear(year, events)
	bucket := aggregate.Months[month]

	return &MonthView{
		Year:       year,
		Month:      month,
		MarkedDays: journal.MarkedDays(bucket),
		KindCounts: bucket.KindCounts(),
		Moods:      mood.Kinds(),
		bucket:     bucket,
	}, nil
}

// Day loads the chronological entries of one local day. day is "YYYY-MM-DD".
func (h *HistoryService) Day(ctx context.Context, userID string, year, month int, day string) ([]journal.Entry, error) {
	view, err := h.Month(ctx, userID, year, month)
	if err != nil {
		return nil, err
	}
	return journal.DayEntries(view.bucket, day), nil
}

// yearEvents queries the year's span in the engine's timezone and normalizes
// the raw documents, dropping anything malformed.
func (h *HistoryService) yearEvents(ctx context.Context, userID string, year int) ([]mood.Event, error) {
	loc := h.normalizer.Location()
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, loc)
	end := time.Date(year+1, time.January, 1, 0, 0, 0, 0, loc).Add(-time.Nanosecond)

	docs, err := h.store.Query(ctx, docstore.Query{
		Collection: moodCollection,
		Equals:     []docstore.Filter{{Field: "userId", Value: userID}},
		TimeField:  "timestamp",
		After:      &start,
		Before:     &end,
		Order:      docstore.OrderAsc,
	})
	if err != nil {
		h.logger.History().Error("History fetch failed", "error", err, "userId", userID, "year", year)
		return nil, err
	}

	return h.normalizer.NormalizeAll(rawRecords(docs)), nil
}
