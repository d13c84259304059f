package termhost

import (
	"strings"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"

	"github.com/wansatya/x.com/internal/host"
	"github.com/wansatya/x.com/internal/host/arcade"
	"github.com/wansatya/x.com/internal/model"
)

// Canvas is the part of tcell.Screen the renderer draws on
type Canvas interface {
	SetContent(x, y int, primary rune, combining []rune, style tcell.Style)
	Size() (width, height int)
}

var (
	styleSky      = tcell.StyleDefault.Background(tcell.ColorNavy)
	styleGround   = tcell.StyleDefault.Foreground(tcell.ColorDarkGreen).Background(tcell.ColorNavy)
	stylePlayer   = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorNavy).Bold(true)
	styleTinted   = tcell.StyleDefault.Foreground(tcell.ColorRed).Background(tcell.ColorNavy).Bold(true)
	styleText     = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorNavy)
	styleControl  = tcell.StyleDefault.Foreground(tcell.ColorYellow).Background(tcell.ColorNavy).Reverse(true)
	styleGameOver = tcell.StyleDefault.Foreground(tcell.ColorRed).Background(tcell.ColorNavy).Bold(true)
)

var itemGlyphs = map[string]struct {
	r     rune
	style tcell.Style
}{
	string(model.VariantSodaCan):       {'u', tcell.StyleDefault.Foreground(tcell.ColorSilver).Background(tcell.ColorNavy)},
	string(model.VariantPlasticBottle): {'b', tcell.StyleDefault.Foreground(tcell.ColorAqua).Background(tcell.ColorNavy)},
	string(model.VariantFoodWaste):     {'%', tcell.StyleDefault.Foreground(tcell.ColorOlive).Background(tcell.ColorNavy)},
}

var playerGlyphs = map[host.AnimKey]rune{
	host.AnimLeft:  '<',
	host.AnimRight: '>',
	host.AnimTurn:  '@',
	host.AnimDead:  'x',
}

// Render draws snap onto c and returns the viewport it used
func Render(c Canvas, snap arcade.Snapshot) Viewport {
	cols, rows := c.Size()
	vp := Viewport{Cols: cols, Rows: rows, Width: snap.Width, Height: snap.Height}
	if !vp.valid() {
		return vp
	}

	_, groundRow := vp.ToCell(host.Vec{Y: snap.GroundY})
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			switch {
			case y == groundRow:
				c.SetContent(x, y, '▀', nil, styleGround)
			case y > groundRow:
				c.SetContent(x, y, '█', nil, styleGround)
			default:
				c.SetContent(x, y, ' ', nil, styleSky)
			}
		}
	}

	for _, it := range snap.Items {
		g, ok := itemGlyphs[it.Variant]
		if !ok {
			g.r, g.style = '?', styleText
		}
		x, y := vp.ToCell(center(it.Bounds))
		put(c, vp, x, y, g.r, g.style)
	}

	drawPlayer(c, vp, snap.Player)

	for _, t := range snap.Texts {
		drawText(c, vp, t)
	}
	return vp
}

func drawPlayer(c Canvas, vp Viewport, p arcade.PlayerView) {
	style := stylePlayer
	if p.Tinted {
		style = styleTinted
	}
	glyph, ok := playerGlyphs[p.Anim]
	if !ok || !p.Animating {
		glyph = '@'
	}
	if p.Anim == host.AnimDead {
		glyph = playerGlyphs[host.AnimDead]
	}

	x0, y0 := vp.ToCell(p.Bounds.Min)
	x1, y1 := vp.ToCell(host.Vec{X: p.Bounds.Min.X + p.Bounds.Size.X, Y: p.Bounds.Min.Y + p.Bounds.Size.Y})
	cx, _ := vp.ToCell(center(p.Bounds))
	// The body is at least one cell even when the terminal is tiny
	if y1 <= y0 {
		y1 = y0 + 1
	}
	if x1 <= x0 {
		x1 = x0 + 1
	}
	for y := y0; y < y1; y++ {
		r := '|'
		if y == y0 {
			r = glyph
		}
		put(c, vp, cx, y, r, style)
	}
}

func drawText(c Canvas, vp Viewport, t arcade.TextView) {
	style := styleText
	switch {
	case t.Control:
		style = styleControl
	case t.ID == host.TextGameOver:
		style = styleGameOver
	}

	lines := strings.Split(t.Text, "\n")
	_, y := vp.ToCell(t.Placement.Pos)
	if t.Placement.Centered {
		y -= len(lines) / 2
	}
	for i, line := range lines {
		x, _ := vp.ToCell(t.Placement.Pos)
		if t.Placement.Centered {
			x -= utf8.RuneCountInString(line) / 2
		}
		for _, r := range line {
			put(c, vp, x, y+i, r, style)
			x++
		}
	}
}

func put(c Canvas, vp Viewport, x, y int, r rune, style tcell.Style) {
	if vp.Contains(x, y) {
		c.SetContent(x, y, r, nil, style)
	}
}

func center(r arcade.Rect) host.Vec {
	return host.Vec{X: r.Min.X + r.Size.X/2, Y: r.Min.Y + r.Size.Y/2}
}
