package journal

import (
	"sort"

	"github.com/Laisfaustt/ProjetoCamali/internal/domain/mood"
)

// Droplet is one positioned mood event inside the jar visualization.
type Droplet struct {
	Event    mood.Event `json:"event"`
	Position Position   `json:"position"`
}

// JarSample selects the events rendered in the jar and pins a position to each
// through the placement store. When the set exceeds capacity the most recent
// events win; ties keep delivery order. Capacity <= 0 means no cap.
func JarSample(events []mood.Event, placements *PlacementStore, capacity int) []Droplet {
	sorted := make([]mood.Event, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})

	if capacity > 0 && len(sorted) > capacity {
		sorted = sorted[:capacity]
	}

	droplets := make([]Droplet, 0, len(sorted))
	for _, ev := range sorted {
		droplets = append(droplets, Droplet{
			Event:    ev,
			Position: placements.GetOrCreate(ev.ID),
		})
	}
	return droplets
}
