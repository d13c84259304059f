package game

import (
	"math"

	"github.com/wansatya/x.com/internal/host"
)

// ResolveMove turns a pointer target into a player velocity. Targets more
// than JumpThreshold above the player are jumps and use JumpSpeed; everything
// else walks. The direction is normalised, so the speed is the same whatever
// the distance. A target on the player yields a zero velocity.
func ResolveMove(from, to host.Vec, t Tuning) (velocity host.Vec, jump bool) {
	dx := to.X - from.X
	dy := to.Y - from.Y

	jump = dy < -t.JumpThreshold

	distance := math.Hypot(dx, dy)
	if distance == 0 {
		return host.Vec{}, false
	}

	speed := t.WalkSpeed
	if jump {
		speed = t.JumpSpeed
	}

	return host.Vec{X: dx / distance * speed, Y: dy / distance * speed}, jump
}
