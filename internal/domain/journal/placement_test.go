package journal

import (
	"fmt"
	"math/rand"
	"testing"
)

func testRect() Rect {
	return JarRect(280, 280, 0.28, 0.40, 0.25, 25)
}

func TestJarRect(t *testing.T) {
	rect := testRect()

	if rect.PadLeft != 280*0.28 || rect.PadRight != 280*0.28 {
		t.Errorf("horizontal padding = %v/%v, want %v", rect.PadLeft, rect.PadRight, 280*0.28)
	}
	if rect.PadTop != 280*0.40 {
		t.Errorf("top padding = %v, want %v", rect.PadTop, 280*0.40)
	}
	if rect.PadBottom != 280*0.25 {
		t.Errorf("bottom padding = %v, want %v", rect.PadBottom, 280*0.25)
	}
}

func TestGetOrCreateIsStable(t *testing.T) {
	store := NewPlacementStore(testRect(), nil)

	first := store.GetOrCreate("ev-1")
	for i := 0; i < 20; i++ {
		if got := store.GetOrCreate("ev-1"); got != first {
			t.Fatalf("call %d moved the droplet: got %+v, want %+v", i, got, first)
		}
	}
	if store.Len() != 1 {
		t.Errorf("Len() = %d, want 1", store.Len())
	}
}

func TestGetOrCreateStaysInBounds(t *testing.T) {
	rect := testRect()
	store := NewPlacementStore(rect, rand.New(rand.NewSource(42)))

	for i := 0; i < 500; i++ {
		pos := store.GetOrCreate(fmt.Sprintf("ev-%d", i))
		if pos.Left < rect.PadLeft || pos.Left > rect.Width-rect.PadRight-rect.Droplet {
			t.Fatalf("Left = %v outside [%v, %v]", pos.Left, rect.PadLeft, rect.Width-rect.PadRight-rect.Droplet)
		}
		if pos.Top < rect.PadTop || pos.Top > rect.Height-rect.PadBottom-rect.Droplet {
			t.Fatalf("Top = %v outside [%v, %v]", pos.Top, rect.PadTop, rect.Height-rect.PadBottom-rect.Droplet)
		}
	}
}

func TestSeededStoreIsDeterministic(t *testing.T) {
	a := NewPlacementStore(testRect(), rand.New(rand.NewSource(7)))
	b := NewPlacementStore(testRect(), rand.New(rand.NewSource(7)))

	for _, id := range []string{"x", "y", "z"} {
		if a.GetOrCreate(id) != b.GetOrCreate(id) {
			t.Fatalf("stores with equal seeds diverged on id %q", id)
		}
	}
}

func TestSetRectOnlyAffectsFutureIDs(t *testing.T) {
	store := NewPlacementStore(testRect(), rand.New(rand.NewSource(1)))

	before := store.GetOrCreate("old")

	bigger := JarRect(560, 560, 0.28, 0.40, 0.25, 25)
	store.SetRect(bigger)

	if got := store.GetOrCreate("old"); got != before {
		t.Errorf("rect swap moved an existing droplet: got %+v, want %+v", got, before)
	}

	fresh := store.GetOrCreate("new")
	if fresh.Left < bigger.PadLeft || fresh.Left > bigger.Width-bigger.PadRight-bigger.Droplet {
		t.Errorf("new droplet Left = %v outside the swapped bounds", fresh.Left)
	}
	if fresh.Top < bigger.PadTop || fresh.Top > bigger.Height-bigger.PadBottom-bigger.Droplet {
		t.Errorf("new droplet Top = %v outside the swapped bounds", fresh.Top)
	}
}

func TestDegenerateRectClamps(t *testing.T) {
	// A droplet bigger than the fillable area must still land at the pad edge.
	tiny := JarRect(30, 30, 0.28, 0.40, 0.25, 25)
	store := NewPlacementStore(tiny, rand.New(rand.NewSource(3)))

	pos := store.GetOrCreate("only")
	if pos.Left != tiny.PadLeft {
		t.Errorf("Left = %v, want clamp to %v", pos.Left, tiny.PadLeft)
	}
	if pos.Top != tiny.PadTop {
		t.Errorf("Top = %v, want clamp to %v", pos.Top, tiny.PadTop)
	}
}
