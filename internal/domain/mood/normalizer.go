package mood

import "time"

// Normalizer converts schemaless store records into Events. A record that
// cannot be normalized (missing or uncoercible timestamp, unknown mood id) is
// dropped; a single bad record must never blank the whole view.
type Normalizer struct {
	loc *time.Location
}

// NewNormalizer creates a normalizer anchored to the given timezone. All
// calendar bucketing downstream happens in this zone.
func NewNormalizer(loc *time.Location) *Normalizer {
	if loc == nil {
		loc = time.Local
	}
	return &Normalizer{loc: loc}
}

// Location reports the timezone the normalizer buckets into.
func (n *Normalizer) Location() *time.Location {
	return n.loc
}

// Normalize converts one raw record. The boolean is false when the record is
// malformed and should be skipped.
func (n *Normalizer) Normalize(id string, fields map[string]any) (Event, bool) {
	rawKind, _ := fields["emocaoId"].(string)
	kind, ok := ParseKind(rawKind)
	if !ok {
		return Event{}, false
	}

	ts, ok := coerceTime(fields["timestamp"])
	if !ok {
		// Treated as not-yet-committed server timestamp.
		return Event{}, false
	}

	userID, _ := fields["userId"].(string)

	local := ts.In(n.loc)
	return Event{
		ID:        id,
		UserID:    userID,
		Kind:      kind,
		CreatedAt: local,
		Year:      local.Year(),
		Month:     int(local.Month()) - 1,
		Day:       local.Format("2006-01-02"),
	}, true
}

// NormalizeAll converts a snapshot of raw records, silently skipping malformed
// ones. Delivery order is preserved for events with equal timestamps.
func (n *Normalizer) NormalizeAll(records []RawRecord) []Event {
	events := make([]Event, 0, len(records))
	for _, rec := range records {
		if ev, ok := n.Normalize(rec.ID, rec.Fields); ok {
			events = append(events, ev)
		}
	}
	return events
}

// RawRecord is a store document before normalization.
type RawRecord struct {
	ID     string
	Fields map[string]any
}

// coerceTime accepts the timestamp representations the store may deliver:
// native time values, RFC3339 strings, and unix epochs.
func coerceTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case string:
		for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05"} {
			if parsed, err := time.Parse(layout, t); err == nil {
				return parsed, true
			}
		}
		return time.Time{}, false
	case float64:
		if t <= 0 {
			return time.Time{}, false
		}
		return time.Unix(int64(t), 0), true
	case int64:
		if t <= 0 {
			return time.Time{}, false
		}
		return time.Unix(t, 0), true
	default:
		return time.Time{}, false
	}
}
