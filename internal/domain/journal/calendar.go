package journal

import (
	"sort"

	"github.com/Laisfaustt/ProjetoCamali/internal/domain/mood"
)

// MonthBucket groups one month's events for the history view. Events are
// sorted ascending by creation time. An empty bucket renders as an empty,
// non-interactive jar.
type MonthBucket struct {
	Month  int          `json:"month"` // zero-based, January = 0
	Events []mood.Event `json:"events"`
}

// Empty reports whether the month has no events.
func (b MonthBucket) Empty() bool {
	return len(b.Events) == 0
}

// KindCounts tallies the bucket's events per mood kind.
func (b MonthBucket) KindCounts() map[mood.Kind]int {
	counts := make(map[mood.Kind]int)
	for _, ev := range b.Events {
		counts[ev.Kind]++
	}
	return counts
}

// YearAggregate is the full drill-down structure for one year: twelve month
// buckets, January through December, each possibly empty.
type YearAggregate struct {
	Year   int             `json:"year"`
	Months [12]MonthBucket `json:"months"`
}

// BuildYear partitions a year's events into month buckets. Bucketing relies
// exclusively on the events' normalized local-calendar fields, so an event at
// 23:59:59 local time lands in the day and month a user in that timezone
// would expect. Events outside the year are ignored.
func BuildYear(year int, events []mood.Event) YearAggregate {
	agg := YearAggregate{Year: year}
	for i := range agg.Months {
		agg.Months[i].Month = i
	}

	for _, ev := range events {
		if ev.Year != year || ev.Month < 0 || ev.Month > 11 {
			continue
		}
		agg.Months[ev.Month].Events = append(agg.Months[ev.Month].Events, ev)
	}

	for i := range agg.Months {
		evs := agg.Months[i].Events
		sort.SliceStable(evs, func(a, b int) bool {
			return evs[a].CreatedAt.Before(evs[b].CreatedAt)
		})
	}

	return agg
}

// MarkedDays returns the distinct YYYY-MM-DD strings within a month bucket
// that have at least one event, sorted ascending, for calendar highlighting.
func MarkedDays(bucket MonthBucket) []string {
	seen := make(map[string]bool)
	days := make([]string, 0)
	for _, ev := range bucket.Events {
		if !seen[ev.Day] {
			seen[ev.Day] = true
			days = append(days, ev.Day)
		}
	}
	sort.Strings(days)
	return days
}

// DayEntries filters a month bucket down to one calendar day and formats it
// with the same ordering and time contract as the daily timeline.
func DayEntries(bucket MonthBucket, day string) []Entry {
	dayEvents := make([]mood.Event, 0)
	for _, ev := range bucket.Events {
		if ev.Day == day {
			dayEvents = append(dayEvents, ev)
		}
	}
	return Timeline(dayEvents)
}
