package arcade

import (
	"unicode/utf8"

	"github.com/wansatya/x.com/internal/host"
)

// Placement anchors a text element in world coordinates
type Placement struct {
	Pos      host.Vec
	Centered bool    // Pos is the centre rather than the top-left corner
	Size     float64 // glyph height; glyphs are square
}

// Layout places every text element
type Layout map[host.TextID]Placement

// DefaultLayout returns the HUD and overlay positions for a w x h world
func DefaultLayout(w, h float64) Layout {
	cx, cy := w/2, h/2
	return Layout{
		host.TextGreeting:     {Pos: host.Vec{X: 16, Y: 10}, Size: 10},
		host.TextEnergy:       {Pos: host.Vec{X: 16, Y: 26}, Size: 24},
		host.TextScore:        {Pos: host.Vec{X: 16, Y: 60}, Size: 24},
		host.TextInstructions: {Pos: host.Vec{X: cx, Y: cy - 80}, Centered: true, Size: 14},
		host.TextGameOver:     {Pos: host.Vec{X: cx, Y: cy - 100}, Centered: true, Size: 32},
		host.TextRestart:      {Pos: host.Vec{X: cx, Y: cy - 50}, Centered: true, Size: 20},
		host.TextAccount:      {Pos: host.Vec{X: cx, Y: cy - 5}, Centered: true, Size: 16},
		host.TextHighScore:    {Pos: host.Vec{X: cx, Y: cy}, Centered: true, Size: 16},
		host.TextGoals:        {Pos: host.Vec{X: cx, Y: h - 70}, Centered: true, Size: 12},
	}
}

// controls maps pressable text elements to the control they trigger
var controls = map[host.TextID]host.Control{
	host.TextRestart: host.ControlRestart,
	host.TextAccount: host.ControlAccount,
}

// Rect is an axis-aligned box given by its top-left corner and size
type Rect struct {
	Min  host.Vec
	Size host.Vec
}

// Contains reports whether p lies inside r
func (r Rect) Contains(p host.Vec) bool {
	return p.X >= r.Min.X && p.X <= r.Min.X+r.Size.X &&
		p.Y >= r.Min.Y && p.Y <= r.Min.Y+r.Size.Y
}

func (r Rect) overlaps(o Rect) bool {
	return r.Min.X < o.Min.X+o.Size.X && o.Min.X < r.Min.X+r.Size.X &&
		r.Min.Y < o.Min.Y+o.Size.Y && o.Min.Y < r.Min.Y+r.Size.Y
}

// Bounds returns the box covered by text drawn with this placement. Multi-line
// text uses its longest line.
func (p Placement) Bounds(text string) Rect {
	lines, longest, cur := 1, 0, 0
	for _, r := range text {
		if r == '\n' {
			lines++
			cur = 0
			continue
		}
		cur++
		if cur > longest {
			longest = cur
		}
	}
	if longest == 0 {
		longest = utf8.RuneCountInString(text)
	}

	size := host.Vec{X: float64(longest) * p.Size, Y: float64(lines) * p.Size}
	min := p.Pos
	if p.Centered {
		min = host.Vec{X: p.Pos.X - size.X/2, Y: p.Pos.Y - size.Y/2}
	}
	return Rect{Min: min, Size: size}
}

func centered(pos, size host.Vec) Rect {
	return Rect{Min: host.Vec{X: pos.X - size.X/2, Y: pos.Y - size.Y/2}, Size: size}
}
