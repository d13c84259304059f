package arcade

import (
	"sort"

	"github.com/wansatya/x.com/internal/host"
)

// PlayerView is the drawable state of the player
type PlayerView struct {
	Bounds    Rect
	Anim      host.AnimKey
	Animating bool
	Tinted    bool
}

// ItemView is the drawable state of an active collectible
type ItemView struct {
	ID      host.EntityID
	Bounds  Rect
	Variant string
}

// TextView is a visible text element
type TextView struct {
	ID        host.TextID
	Text      string
	Placement Placement
	Bounds    Rect
	Control   bool
}

// Snapshot is everything a renderer needs to draw one frame
type Snapshot struct {
	Width   float64
	Height  float64
	GroundY float64
	Paused  bool
	Player  PlayerView
	Items   []ItemView
	Texts   []TextView
}

// Snapshot captures the drawable state. Texts are sorted by id so renderers
// draw them in a stable order.
func (w *World) Snapshot() Snapshot {
	s := Snapshot{
		Width:   w.cfg.Width,
		Height:  w.cfg.Height,
		GroundY: w.cfg.GroundY,
		Paused:  w.paused,
		Player: PlayerView{
			Bounds:    centered(w.player.pos, w.cfg.PlayerSize),
			Anim:      w.player.anim,
			Animating: w.player.animating,
			Tinted:    w.player.tinted,
		},
	}

	for _, id := range w.itemIDs() {
		it := w.items[id]
		if !it.active {
			continue
		}
		s.Items = append(s.Items, ItemView{
			ID:      id,
			Bounds:  centered(it.pos, w.cfg.ItemSize),
			Variant: it.variant,
		})
	}

	for id, visible := range w.visible {
		if !visible {
			continue
		}
		p := w.cfg.Layout[id]
		_, isControl := controls[id]
		s.Texts = append(s.Texts, TextView{
			ID:        id,
			Text:      w.texts[id],
			Placement: p,
			Bounds:    p.Bounds(w.texts[id]),
			Control:   isControl,
		})
	}
	sort.Slice(s.Texts, func(i, j int) bool { return s.Texts[i].ID < s.Texts[j].ID })

	return s
}
