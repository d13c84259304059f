// Package host defines the capability surface the game core needs from a
// rendering/physics engine. The core issues commands through Host and receives
// engine callbacks through Handler; all of them run on the engine's frame loop.
package host

import "time"

// Vec is a point or vector in world coordinates. Y grows downward.
type Vec struct {
	X, Y float64
}

// EntityID identifies a body owned by the host
type EntityID uint64

// AnimKey selects a player animation
type AnimKey string

const (
	AnimLeft  AnimKey = "left"
	AnimRight AnimKey = "right"
	AnimTurn  AnimKey = "turn"
	AnimDead  AnimKey = "dead"
)

// SoundKey selects a sound cue
type SoundKey string

const (
	SoundCollect  SoundKey = "collect"
	SoundCount    SoundKey = "count"
	SoundScore    SoundKey = "score"
	SoundGameOver SoundKey = "gameover"
	SoundJump     SoundKey = "jump"
	SoundRun      SoundKey = "run"
	SoundHit      SoundKey = "hit"
)

// TextID names an on-screen text or overlay element
type TextID string

const (
	TextScore        TextID = "score"
	TextEnergy       TextID = "energy"
	TextGreeting     TextID = "greeting"
	TextInstructions TextID = "instructions"
	TextGameOver     TextID = "game_over"
	TextGoals        TextID = "goals" // educational end panel
	TextRestart      TextID = "restart"
	TextAccount      TextID = "account" // login / save high score control
	TextHighScore    TextID = "high_score_saved"
)

// Control is an interactive overlay element the player can press
type Control string

const (
	ControlRestart Control = "restart"
	ControlAccount Control = "account"
	// ControlSignOut has no overlay element; shells bind it to a key
	ControlSignOut Control = "sign_out"
)

// CollectibleSpec describes a collectible body to create
type CollectibleSpec struct {
	Variant string
	X       float64
	Y       float64
	BounceY float64
}

// Frame is the per-frame player snapshot passed to Handler.OnFrame
type Frame struct {
	Delta    time.Duration
	OnGround bool
	Velocity Vec
	Position Vec
}

// Timer is a scheduled callback. Cancel is cooperative: a callback that is
// already due in the current step may still run once after Cancel.
type Timer interface {
	Cancel()
}

// Entities creates and removes bodies
type Entities interface {
	SpawnCollectible(spec CollectibleSpec) EntityID
	// DisableEntity deactivates and hides a body without destroying it
	DisableEntity(id EntityID)
	DestroyEntity(id EntityID)
}

// Player commands the player sprite
type Player interface {
	PlayerPosition() Vec
	SetPlayerVelocity(v Vec)
	PlayAnimation(key AnimKey)
	StopAnimation()
	SetPlayerTint(tinted bool)
}

// Physics pauses and resumes the simulation. Timers keep running while paused.
type Physics interface {
	PausePhysics()
	ResumePhysics()
}

// Timers schedules callbacks on the host's frame clock
type Timers interface {
	After(d time.Duration, fn func()) Timer
	Every(d time.Duration, fn func()) Timer
}

// Audio plays sound cues
type Audio interface {
	PlaySound(key SoundKey, volume float64)
	StopSound(key SoundKey)
}

// Display creates, updates and toggles text elements
type Display interface {
	SetText(id TextID, text string)
	SetVisible(id TextID, visible bool)
}

// Dispatcher runs fn on the frame loop. Safe to call from any goroutine.
type Dispatcher interface {
	Post(fn func())
}

// Host is the full capability surface consumed by the game core
type Host interface {
	Entities
	Player
	Physics
	Timers
	Audio
	Display
	Dispatcher
}

// Handler receives engine callbacks
type Handler interface {
	// OnGroundContact fires when a collectible starts touching the ground
	OnGroundContact(id EntityID)
	// OnPlayerOverlap fires while the player overlaps an active collectible
	OnPlayerOverlap(id EntityID)
	// OnPointerDown fires on a click or tap in world coordinates
	OnPointerDown(target Vec)
	// OnControl fires when a visible overlay control is pressed
	OnControl(c Control)
	// OnFrame fires once per simulation step after physics
	OnFrame(f Frame)
}
