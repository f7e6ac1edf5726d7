// Package mood defines the closed set of mood kinds students can record and
// the normalized mood event consumed by the journal engine.
package mood

import "time"

// Kind identifies one of the five mood categories. The set is closed: records
// carrying any other value are dropped during normalization.
type Kind string

const (
	KindDesanimado Kind = "desanimado"
	KindTriste     Kind = "triste"
	KindNeutro     Kind = "neutro"
	KindOtimo      Kind = "otimo"
	KindFeliz      Kind = "feliz"
)

// Descriptor carries the display attributes tied to a mood kind.
type Descriptor struct {
	Kind  Kind   `json:"id"`
	Label string `json:"label"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

// palette mirrors the client's mood selector assets.
var palette = map[Kind]Descriptor{
	KindDesanimado: {Kind: KindDesanimado, Label: "Desanimado", Color: "#9932CC", Icon: "desanimado.png"},
	KindTriste:     {Kind: KindTriste, Label: "Triste", Color: "#5BA7F4", Icon: "triste.png"},
	KindNeutro:     {Kind: KindNeutro, Label: "Neutro", Color: "#6DE0F2", Icon: "neutro.png"},
	KindOtimo:      {Kind: KindOtimo, Label: "Ótimo", Color: "#3CB371", Icon: "otimo.png"},
	KindFeliz:      {Kind: KindFeliz, Label: "Feliz", Color: "#FFA500", Icon: "feliz.png"},
}

// kindOrder is the selector's left-to-right display order.
var kindOrder = []Kind{KindDesanimado, KindTriste, KindNeutro, KindOtimo, KindFeliz}

// ParseKind maps a raw mood id to a Kind. Unknown values report false; callers
// discard those records rather than falling back to a default.
func ParseKind(raw string) (Kind, bool) {
	k := Kind(raw)
	if _, ok := palette[k]; !ok {
		return "", false
	}
	return k, true
}

// Describe returns the display attributes for a known kind.
func Describe(k Kind) Descriptor {
	return palette[k]
}

// Kinds returns all descriptors in selector display order.
func Kinds() []Descriptor {
	out := make([]Descriptor, 0, len(kindOrder))
	for _, k := range kindOrder {
		out = append(out, palette[k])
	}
	return out
}

// Event is a single normalized mood record. CreatedAt is already converted to
// the engine's timezone; Year, Month and Day are derived from it exactly once
// at normalization and every downstream view consumes these fields instead of
// re-deriving calendar values from the raw instant.
type Event struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Kind      Kind      `json:"emocaoId"`
	CreatedAt time.Time `json:"createdAt"`

	// Normalized local-calendar fields.
	Year  int    `json:"year"`
	Month int    `json:"month"` // zero-based, January = 0
	Day   string `json:"day"`   // YYYY-MM-DD
}
