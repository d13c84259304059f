package game

import (
	"time"

	"github.com/wansatya/x.com/internal/host"
)

// Tuning holds the gameplay constants. Durations are on the host's frame clock.
type Tuning struct {
	InitialEnergy int
	EnergyDrain   int // per energy tick
	EnergyPerItem int

	EnergyInterval time.Duration
	ScoreInterval  time.Duration
	SpawnMin       time.Duration
	SpawnMax       time.Duration
	ItemLifetime   time.Duration // after first ground contact

	SpawnCountMin int
	SpawnCountMax int
	SpawnMinX     int
	SpawnMaxX     int
	SpawnY        float64
	BounceMin     float64
	BounceMax     float64

	// JumpThreshold is how far above the player (in world units) a target
	// must be for a move to count as a jump
	JumpThreshold float64
	WalkSpeed     float64
	JumpSpeed     float64

	// HoldUntilFirstInput keeps the timers disarmed while the instructions
	// overlay is up, arming them on the first pointer input
	HoldUntilFirstInput bool
}

// DefaultTuning returns the standard game constants
func DefaultTuning() Tuning {
	return Tuning{
		InitialEnergy:  5,
		EnergyDrain:    1,
		EnergyPerItem:  5,
		EnergyInterval: time.Second,
		ScoreInterval:  30 * time.Second,
		SpawnMin:       18 * time.Second,
		SpawnMax:       35 * time.Second,
		ItemLifetime:   3 * time.Second,
		SpawnCountMin:  5,
		SpawnCountMax:  12,
		SpawnMinX:      0,
		SpawnMaxX:      360,
		SpawnY:         -20,
		BounceMin:      0.4,
		BounceMax:      0.9,
		JumpThreshold:  10,
		WalkSpeed:      120,
		JumpSpeed:      250,
	}
}

var soundVolumes = map[host.SoundKey]float64{
	host.SoundCollect:  1.25,
	host.SoundCount:    1.25,
	host.SoundScore:    0.25,
	host.SoundGameOver: 1.0,
	host.SoundJump:     0.35,
	host.SoundRun:      1.0,
	host.SoundHit:      1.8,
}

const (
	instructionsText = `how to play:

1. get energy by collecting dropped item.

2. 5 energy earned per 1 collected item.

3. items only last for 3 secs, so hurry!

4. score added every 30 secs. good luck!`

	goalsText = "SDG 7 clean energy | SDG 11 sustainable cities | SDG 12 responsible consumption | SDG 13 climate action | SDG 15 life on land"

	guestGreeting     = "login to save your high score.."
	loginLabel        = "login"
	saveScoreLabel    = "save high score?"
	gameOverLabel     = "game over"
	restartLabel      = "try again?"
	highScoreSavedMsg = "high score updated!"
)
