package arcade

import (
	"time"

	"github.com/wansatya/x.com/internal/host"
)

// Config holds the world geometry and physics constants. Units are world
// pixels and pixels per second; y grows downward.
type Config struct {
	Width  float64
	Height float64

	// GroundY is the top edge of the ground platform
	GroundY float64

	Gravity       float64
	PlayerGravity float64 // added to Gravity for the player only
	PlayerBounce  float64

	PlayerStart host.Vec
	PlayerSize  host.Vec
	ItemSize    host.Vec

	// RestSpeed is the vertical speed under which a bounce comes to rest
	RestSpeed float64

	// MaxSubstep bounds a single physics integration step
	MaxSubstep time.Duration

	Layout Layout
}

// DefaultConfig returns the standard 600x900 portrait world
func DefaultConfig() Config {
	return Config{
		Width:         600,
		Height:        900,
		GroundY:       740,
		Gravity:       500,
		PlayerGravity: 150,
		PlayerBounce:  0.25,
		PlayerStart:   host.Vec{X: 300, Y: 580},
		PlayerSize:    host.Vec{X: 38, Y: 58},
		ItemSize:      host.Vec{X: 24, Y: 24},
		RestSpeed:     20,
		MaxSubstep:    time.Second / 60,
		Layout:        DefaultLayout(600, 900),
	}
}
