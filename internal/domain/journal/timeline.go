package journal

import (
	"sort"

	"github.com/Laisfaustt/ProjetoCamali/internal/domain/mood"
)

// Entry is one row of a chronological feed: the event plus its pre-formatted
// local time of day.
type Entry struct {
	Event mood.Event `json:"event"`
	Time  string     `json:"time"` // HH:MM in the engine's timezone
}

// Timeline builds the chronological feed for one calendar day. Events are
// sorted ascending by creation time; equal timestamps keep their delivery
// order (stable sort). The input slice is not mutated.
func Timeline(events []mood.Event) []Entry {
	sorted := make([]mood.Event, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})

	entries := make([]Entry, 0, len(sorted))
	for _, ev := range sorted {
		entries = append(entries, Entry{
			Event: ev,
			Time:  ev.CreatedAt.Format("15:04"),
		})
	}
	return entries
}
