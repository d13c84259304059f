// Package ebitenhost runs an arcade world in an ebiten window. Mouse clicks
// and touches steer the player the same way pointer input does in a browser.
package ebitenhost

import (
	"errors"
	"image/color"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/wansatya/x.com/internal/host"
	"github.com/wansatya/x.com/internal/host/arcade"
	"github.com/wansatya/x.com/internal/model"
)

// Approximate size of a debug font glyph
const (
	glyphWidth  = 6
	glyphHeight = 16
)

var (
	colorSky     = color.RGBA{0x1b, 0x3a, 0x5c, 0xff}
	colorGround  = color.RGBA{0x3c, 0x8d, 0x2f, 0xff}
	colorPlayer  = color.RGBA{0xf0, 0xe6, 0xd2, 0xff}
	colorTinted  = color.RGBA{0xff, 0x00, 0x00, 0xff}
	colorControl = color.RGBA{0x00, 0x00, 0x00, 0x99}

	itemColors = map[string]color.RGBA{
		string(model.VariantSodaCan):       {0xc0, 0xc0, 0xc8, 0xff},
		string(model.VariantPlasticBottle): {0x6e, 0xc6, 0xe8, 0xff},
		string(model.VariantFoodWaste):     {0x8b, 0x5a, 0x2b, 0xff},
	}
)

// Game adapts an arcade world to ebiten.Game
type Game struct {
	world  *arcade.World
	logger *slog.Logger

	touches []ebiten.TouchID
	closed  atomic.Bool
}

var _ ebiten.Game = (*Game)(nil)

// New creates a Game for world
func New(world *arcade.World, logger *slog.Logger) *Game {
	return &Game{world: world, logger: logger}
}

// Run opens the window and blocks until it is closed
func (g *Game) Run(title string, scale float64) error {
	cfg := g.world.Config()
	ebiten.SetWindowSize(int(cfg.Width*scale), int(cfg.Height*scale))
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	g.logger.Info("window host started", slog.Float64("scale", scale))
	err := ebiten.RunGame(g)
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

// Update handles input and advances the world one tick
func (g *Game) Update() error {
	if g.closed.Load() || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	g.handleKeys()
	g.handlePointer()

	g.world.Step(time.Second / time.Duration(ebiten.TPS()))
	return nil
}

func (g *Game) handleKeys() {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft):
		g.world.Steer(arcade.Left)
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowRight):
		g.world.Steer(arcade.Right)
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowUp), inpututil.IsKeyJustPressed(ebiten.KeySpace):
		g.world.Steer(arcade.Jump)
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowDown):
		g.world.Steer(arcade.Stop)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.world.Press(host.ControlRestart)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyL) {
		g.world.Press(host.ControlAccount)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyO) {
		g.world.Press(host.ControlSignOut)
	}
}

// handlePointer forwards new clicks and touches. Layout keeps the screen in
// world units so positions need no scaling.
func (g *Game) handlePointer() {
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		g.world.PointerDown(host.Vec{X: float64(x), Y: float64(y)})
	}

	g.touches = inpututil.AppendJustPressedTouchIDs(g.touches[:0])
	for _, id := range g.touches {
		x, y := ebiten.TouchPosition(id)
		g.world.PointerDown(host.Vec{X: float64(x), Y: float64(y)})
	}
}

// Draw renders the current snapshot
func (g *Game) Draw(screen *ebiten.Image) {
	snap := g.world.Snapshot()
	screen.Fill(colorSky)

	vector.DrawFilledRect(screen, 0, float32(snap.GroundY), float32(snap.Width), float32(snap.Height-snap.GroundY), colorGround, false)

	for _, it := range snap.Items {
		c, ok := itemColors[it.Variant]
		if !ok {
			c = colorPlayer
		}
		fillRect(screen, it.Bounds, c)
	}

	pc := colorPlayer
	if snap.Player.Tinted {
		pc = colorTinted
	}
	fillRect(screen, snap.Player.Bounds, pc)

	for _, t := range snap.Texts {
		g.drawText(screen, t)
	}
}

func (g *Game) drawText(screen *ebiten.Image, t arcade.TextView) {
	lines := strings.Split(t.Text, "\n")
	longest := 0
	for _, l := range lines {
		if n := len([]rune(l)); n > longest {
			longest = n
		}
	}

	x, y := t.Placement.Pos.X, t.Placement.Pos.Y
	if t.Placement.Centered {
		x -= float64(longest*glyphWidth) / 2
		y -= float64(len(lines)*glyphHeight) / 2
	}
	if t.Control {
		fillRect(screen, t.Bounds, colorControl)
	}
	for i, l := range lines {
		ebitenutil.DebugPrintAt(screen, l, int(x), int(y)+i*glyphHeight)
	}
}

// Layout keeps the logical screen at the world size; ebiten scales it
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	cfg := g.world.Config()
	return int(cfg.Width), int(cfg.Height)
}

// Close ends the game loop on the next update. Safe from any goroutine.
func (g *Game) Close() {
	g.closed.Store(true)
}

func fillRect(dst *ebiten.Image, r arcade.Rect, c color.Color) {
	vector.DrawFilledRect(dst, float32(r.Min.X), float32(r.Min.Y), float32(r.Size.X), float32(r.Size.Y), c, false)
}
