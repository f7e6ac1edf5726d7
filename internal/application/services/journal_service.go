// Package services provides application-level orchestration services
package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Laisfaustt/ProjetoCamali/internal/domain/journal"
	"github.com/Laisfaustt/ProjetoCamali/internal/domain/mood"
	"github.com/Laisfaustt/ProjetoCamali/internal/infrastructure/messaging"
	"github.com/Laisfaustt/ProjetoCamali/internal/infrastructure/observability/logging"
	"github.com/Laisfaustt/ProjetoCamali/internal/infrastructure/persistence/docstore"
	"github.com/Laisfaustt/ProjetoCamali/pkg/config"
)

const moodCollection = "emocoes"

// JournalService is the mood journal engine. It records mood events, derives
// the daily timeline and jar views, and pushes fresh snapshots to live
// streams whenever the underlying collection changes.
type JournalService struct {
	store       docstore.Store
	normalizer  *mood.Normalizer
	placements  *journal.PlacementStore
	broadcaster *messaging.SSEBroadcaster
	logger      *logging.ChanneledLogger
	capacity    int

	feedsMu sync.Mutex
	feeds   map[string]*journalFeed
}

// journalFeed is the shared per-user docstore subscription, refcounted by the
// streams attached to it.
type journalFeed struct {
	disposer docstore.Disposer
	refs     int
}

// NewJournalService creates the journal engine with its placement store and
// local-time normalizer.
func NewJournalService(store docstore.Store, broadcaster *messaging.SSEBroadcaster, logger *logging.ChanneledLogger) *JournalService {
	loc, err := time.LoadLocation(config.JournalTimezone)
	if err != nil {
		logger.Journal().Warn("Unknown journal timezone, falling back to local", "timezone", config.JournalTimezone, "error", err)
		loc = time.Local
	}

	rect := journal.JarRect(
		config.JarWidth,
		config.JarHeight,
		config.JarPadHorizontalRatio,
		config.JarPadTopRatio,
		config.JarPadBottomRatio,
		config.JarDropletSize,
	)

	return &JournalService{
		store:       store,
		normalizer:  mood.NewNormalizer(loc),
		placements:  journal.NewPlacementStore(rect, nil),
		broadcaster: broadcaster,
		logger:      logger,
		capacity:    config.JarCapacity,
		feeds:       make(map[string]*journalFeed),
	}
}

// Normalizer exposes the engine's shared normalizer so history queries bucket
// in the same timezone.
func (s *JournalService) Normalizer() *mood.Normalizer {
	return s.normalizer
}

// Snapshot is the derived journal view sent to clients.
type Snapshot struct {
	Date     string            `json:"date"`
	Timeline []journal.Entry   `json:"timeline"`
	Jar      []journal.Droplet `json:"jar"`
	Moods    []mood.Descriptor `json:"moods"`
}

// RecordMood validates and persists one mood event for a user. The stored
// timestamp is the moment of the call.
func (s *JournalService) RecordMood(ctx context.Context, userID, rawKind string) (string, error) {
	kind, ok := mood.ParseKind(rawKind)
	if !ok {
		return "", fmt.Errorf("unknown mood %q", rawKind)
	}

	id, err := s.store.Create(ctx, moodCollection, map[string]any{
		"userId":    userID,
		"emocaoId":  string(kind),
		"timestamp": time.Now().UTC(),
	})
	if err != nil {
		s.logger.Journal().Error("Failed to record mood", "error", err, "userId", userID, "mood", kind)
		return "", err
	}

	s.logger.Journal().Info("Mood recorded", "userId", userID, "mood", kind, "eventId", id)
	return id, nil
}

// TodaySnapshot runs a one-shot read and derives the current journal view.
func (s *JournalService) TodaySnapshot(ctx context.Context, userID string) (*Snapshot, error) {
	docs, err := s.store.Query(ctx, s.userQuery(userID))
	if err != nil {
		s.logger.Journal().Error("Journal fetch failed", "error", err, "userId", userID)
		return nil, err
	}
	return s.buildSnapshot(docs), nil
}

// Subscribe attaches a live journal feed for a user. All of a user's streams
// share one docstore subscription, so each write produces a single snapshot
// broadcast regardless of how many streams are open. A failed requery is
// surfaced as a stream error and the previously delivered snapshot stays
// valid on the client.
func (s *JournalService) Subscribe(userID string) (docstore.Disposer, error) {
	s.feedsMu.Lock()
	defer s.feedsMu.Unlock()

	if feed, ok := s.feeds[userID]; ok {
		feed.refs++

		// The underlying subscription only pushed its snapshot when it was
		// first registered, so refresh once for the newly attached stream.
		if docs, err := s.store.Query(context.Background(), s.userQuery(userID)); err == nil {
			s.broadcaster.BroadcastJournalUpdate(userID, s.buildSnapshot(docs))
		}
		return &feedRef{service: s, userID: userID}, nil
	}

	disposer, err := s.store.Subscribe(s.userQuery(userID), func(docs []docstore.Document, err error) {
		if err != nil {
			s.logger.Journal().Warn("Journal requery failed, keeping last snapshot", "error", err, "userId", userID)
			s.broadcaster.BroadcastError(userID, "journal refresh failed")
			return
		}
		s.broadcaster.BroadcastJournalUpdate(userID, s.buildSnapshot(docs))
	})
	if err != nil {
		return nil, err
	}

	s.feeds[userID] = &journalFeed{disposer: disposer, refs: 1}
	return &feedRef{service: s, userID: userID}, nil
}

// feedRef is one stream's handle on the shared per-user feed.
type feedRef struct {
	service *JournalService
	userID  string
	once    sync.Once
}

func (r *feedRef) Dispose() {
	r.once.Do(func() {
		r.service.releaseFeed(r.userID)
	})
}

func (s *JournalService) releaseFeed(userID string) {
	s.feedsMu.Lock()
	feed, ok := s.feeds[userID]
	if !ok {
		s.feedsMu.Unlock()
		return
	}
	feed.refs--
	if feed.refs > 0 {
		s.feedsMu.Unlock()
		return
	}
	delete(s.feeds, userID)
	s.feedsMu.Unlock()

	feed.disposer.Dispose()
}

// SetJarRect updates droplet bounds for future events. Existing placements
// are kept as assigned.
func (s *JournalService) SetJarRect(width, height float64) {
	rect := journal.JarRect(
		width,
		height,
		config.JarPadHorizontalRatio,
		config.JarPadTopRatio,
		config.JarPadBottomRatio,
		config.JarDropletSize,
	)
	s.placements.SetRect(rect)
	s.logger.Journal().Debug("Jar bounds updated", "width", width, "height", height)
}

func (s *JournalService) userQuery(userID string) docstore.Query {
	return docstore.Query{
		Collection: moodCollection,
		Equals:     []docstore.Filter{{Field: "userId", Value: userID}},
		TimeField:  "timestamp",
		Order:      docstore.OrderDesc,
	}
}

func (s *JournalService) buildSnapshot(docs []docstore.Document) *Snapshot {
	events := s.normalizer.NormalizeAll(rawRecords(docs))

	now := time.Now().In(s.normalizer.Location())
	today := now.Format("2006-01-02")

	todays := make([]mood.Event, 0, len(events))
	for _, ev := range events {
		if ev.Day == today {
			todays = append(todays, ev)
		}
	}

	return &Snapshot{
		Date:     today,
		Timeline: journal.Timeline(todays),
		Jar:      journal.JarSample(todays, s.placements, s.capacity),
		Moods:    mood.Kinds(),
	}
}

func rawRecords(docs []docstore.Document) []mood.RawRecord {
	records := make([]mood.RawRecord, 0, len(docs))
	for _, d := range docs {
		records = append(records, mood.RawRecord{ID: d.ID, Fields: d.Fields})
	}
	return records
}
