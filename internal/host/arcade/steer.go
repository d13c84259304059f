package arcade

// Keyboard steering aims this far from the player
const (
	WalkReach = 120.0
	JumpReach = 240.0
)

// Direction is a keyboard steering input
type Direction int

const (
	Stop Direction = iota
	Left
	Right
	Jump
)

// Steer points the player as if the pointer were pressed near it in the
// given direction
func (w *World) Steer(d Direction) {
	p := w.player.pos
	target := p
	switch d {
	case Left:
		target.X -= WalkReach
	case Right:
		target.X += WalkReach
	case Jump:
		target.Y -= JumpReach
	}
	if w.handler != nil {
		w.handler.OnPointerDown(target)
	}
}
