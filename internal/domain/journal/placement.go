// Package journal implements the mood-journal aggregation engine: stable jar
// placement, the daily timeline, and the year/month/day calendar views.
package journal

import (
	"math/rand"
	"sync"
	"time"
)

// Position is a 2D coordinate inside the jar artwork.
type Position struct {
	Left float64 `json:"left"`
	Top  float64 `json:"top"`
}

// Rect describes the fillable region of the jar container. The paddings carve
// out the non-fillable artwork (neck and walls); Droplet is the rendered size
// of one mood droplet and keeps placements from poking past the far edges.
type Rect struct {
	Width     float64
	Height    float64
	PadLeft   float64
	PadRight  float64
	PadTop    float64
	PadBottom float64
	Droplet   float64
}

// JarRect builds the fillable rectangle from the container size and the
// artwork's padding ratios, matching the client's jar asset proportions.
func JarRect(width, height, padHorizontalRatio, padTopRatio, padBottomRatio, droplet float64) Rect {
	return Rect{
		Width:     width,
		Height:    height,
		PadLeft:   width * padHorizontalRatio,
		PadRight:  width * padHorizontalRatio,
		PadTop:    height * padTopRatio,
		PadBottom: height * padBottomRatio,
		Droplet:   droplet,
	}
}

// PlacementStore assigns each event id a random position inside the jar and
// pins it there for the lifetime of the store. Re-fetches and re-orderings of
// the underlying event set must never move a droplet that is already placed.
type PlacementStore struct {
	mu        sync.Mutex
	rect      Rect
	rng       *rand.Rand
	positions map[string]Position
}

// NewPlacementStore creates a placement store for the given rectangle. A nil
// rng falls back to a time-seeded source; tests inject a fixed seed.
func NewPlacementStore(rect Rect, rng *rand.Rand) *PlacementStore {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &PlacementStore{
		rect:      rect,
		rng:       rng,
		positions: make(map[string]Position),
	}
}

// GetOrCreate returns the pinned position for an event id, generating and
// caching one on first sight. Idempotent: every later call with the same id
// returns the identical position.
func (s *PlacementStore) GetOrCreate(id string) Position {
	s.mu.Lock()
	defer s.mu.Unlock()

	if pos, ok := s.positions[id]; ok {
		return pos
	}

	pos := s.randomPosition()
	s.positions[id] = pos
	return pos
}

// randomPosition draws uniformly inside the fillable rectangle. Collisions are
// fine; this is cosmetic scatter, not packing.
func (s *PlacementStore) randomPosition() Position {
	r := s.rect
	maxLeft := r.Width - r.PadRight - r.Droplet
	maxTop := r.Height - r.PadBottom - r.Droplet
	if maxLeft < r.PadLeft {
		maxLeft = r.PadLeft
	}
	if maxTop < r.PadTop {
		maxTop = r.PadTop
	}

	return Position{
		Left: r.PadLeft + s.rng.Float64()*(maxLeft-r.PadLeft),
		Top:  r.PadTop + s.rng.Float64()*(maxTop-r.PadTop),
	}
}

// SetRect swaps the rectangle used for future placements. Positions already
// assigned are untouched; only ids first seen after the swap use the new
// bounds.
func (s *PlacementStore) SetRect(rect Rect) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rect = rect
}

// Len reports how many ids have pinned positions.
func (s *PlacementStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.positions)
}
