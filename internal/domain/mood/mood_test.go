package mood

import (
	"testing"
	"time"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		raw  string
		want Kind
		ok   bool
	}{
		{"desanimado", KindDesanimado, true},
		{"triste", KindTriste, true},
		{"neutro", KindNeutro, true},
		{"otimo", KindOtimo, true},
		{"feliz", KindFeliz, true},
		{"", "", false},
		{"Feliz", "", false},
		{"raiva", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := ParseKind(tt.raw)
			if ok != tt.ok || got != tt.want {
				t.Errorf("ParseKind(%q) = (%q, %v), want (%q, %v)", tt.raw, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestKindsOrder(t *testing.T) {
	kinds := Kinds()
	want := []Kind{KindDesanimado, KindTriste, KindNeutro, KindOtimo, KindFeliz}

	if len(kinds) != len(want) {
		t.Fatalf("len = %d, want %d", len(kinds), len(want))
	}
	for i, d := range kinds {
		if d.Kind != want[i] {
			t.Errorf("kinds[%d] = %s, want %s", i, d.Kind, want[i])
		}
		if d.Color == "" || d.Label == "" {
			t.Errorf("descriptor %s missing display attributes", d.Kind)
		}
	}
}

func TestNormalizeDerivesLocalCalendarFields(t *testing.T) {
	loc, err := time.LoadLocation("America/Sao_Paulo")
	if err != nil {
		t.Fatal(err)
	}
	n := NewNormalizer(loc)

	ev, ok := n.Normalize("doc-1", map[string]any{
		"emocaoId":  "triste",
		"timestamp": time.Date(2025, time.June, 10, 2, 0, 0, 0, time.UTC),
		"userId":    "u1",
	})
	if !ok {
		t.Fatal("normalize failed")
	}

	// 02:00 UTC is 23:00 the previous day in São Paulo.
	if ev.Day != "2025-06-09" {
		t.Errorf("Day = %s, want 2025-06-09", ev.Day)
	}
	if ev.Month != 5 {
		t.Errorf("Month = %d, want 5", ev.Month)
	}
	if ev.CreatedAt.Location() != loc {
		t.Error("CreatedAt not converted to the engine timezone")
	}
	if ev.Kind != KindTriste || ev.UserID != "u1" || ev.ID != "doc-1" {
		t.Errorf("identity fields wrong: %+v", ev)
	}
}

func TestNormalizeBucketsDaylightSavingTransitionDays(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatal(err)
	}
	n := NewNormalizer(loc)

	tests := []struct {
		name      string
		utc       time.Time
		wantDay   string
		wantMonth int
	}{
		// DST ended 2024-11-03 02:00 EDT; the local day ran 25 hours.
		{"fall back last second", time.Date(2024, time.November, 4, 4, 59, 59, 0, time.UTC), "2024-11-03", 10},
		{"fall back repeated hour", time.Date(2024, time.November, 3, 6, 30, 0, 0, time.UTC), "2024-11-03", 10},
		{"day after fall back", time.Date(2024, time.November, 4, 5, 0, 0, 0, time.UTC), "2024-11-04", 10},
		// DST started 2025-03-09 02:00 EST; the local day ran 23 hours.
		{"spring forward last second", time.Date(2025, time.March, 10, 3, 59, 59, 0, time.UTC), "2025-03-09", 2},
		{"day after spring forward", time.Date(2025, time.March, 10, 4, 0, 0, 0, time.UTC), "2025-03-10", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, ok := n.Normalize("doc-1", map[string]any{
				"emocaoId":  "feliz",
				"timestamp": tt.utc,
				"userId":    "u1",
			})
			if !ok {
				t.Fatal("normalize failed")
			}
			if ev.Day != tt.wantDay {
				t.Errorf("Day = %s, want %s", ev.Day, tt.wantDay)
			}
			if ev.Month != tt.wantMonth {
				t.Errorf("Month = %d, want %d", ev.Month, tt.wantMonth)
			}
		})
	}
}

func TestNormalizeDropsMalformedRecords(t *testing.T) {
	n := NewNormalizer(time.UTC)

	tests := []struct {
		name   string
		fields map[string]any
	}{
		{"unknown mood", map[string]any{"emocaoId": "raiva", "timestamp": time.Now()}},
		{"missing mood", map[string]any{"timestamp": time.Now()}},
		{"missing timestamp", map[string]any{"emocaoId": "feliz"}},
		{"garbage timestamp", map[string]any{"emocaoId": "feliz", "timestamp": "ontem"}},
		{"zero epoch", map[string]any{"emocaoId": "feliz", "timestamp": float64(0)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := n.Normalize("bad", tt.fields); ok {
				t.Error("malformed record was not dropped")
			}
		})
	}
}

func TestNormalizeAllSkipsWithoutBlanking(t *testing.T) {
	n := NewNormalizer(time.UTC)

	records := []RawRecord{
		{ID: "good-1", Fields: map[string]any{"emocaoId": "feliz", "timestamp": "2025-03-10T09:00:00Z"}},
		{ID: "bad", Fields: map[string]any{"emocaoId": "nope", "timestamp": "2025-03-10T10:00:00Z"}},
		{ID: "good-2", Fields: map[string]any{"emocaoId": "neutro", "timestamp": float64(1741600800)}},
	}

	events := n.NormalizeAll(records)
	if len(events) != 2 {
		t.Fatalf("len = %d, want 2", len(events))
	}
	if events[0].ID != "good-1" || events[1].ID != "good-2" {
		t.Errorf("survivors = %s, %s", events[0].ID, events[1].ID)
	}
}

func TestNormalizeTimestampRepresentations(t *testing.T) {
	n := NewNormalizer(time.UTC)
	want := time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		ts   any
	}{
		{"native", want},
		{"rfc3339", "2025-03-10T09:00:00Z"},
		{"rfc3339 nano", "2025-03-10T09:00:00.000000000Z"},
		{"unix float", float64(want.Unix())},
		{"unix int", want.Unix()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, ok := n.Normalize("x", map[string]any{"emocaoId": "feliz", "timestamp": tt.ts})
			if !ok {
				t.Fatal("normalize failed")
			}
			if !ev.CreatedAt.Equal(want) {
				t.Errorf("CreatedAt = %v, want %v", ev.CreatedAt, want)
			}
		})
	}
}
