package model

// SessionState represents the current phase of a play-through
type SessionState string

const (
	SessionStatePlaying  SessionState = "playing"
	SessionStateGameOver SessionState = "game_over" // terminal until restart
)

// Facing is the direction the player last moved in
type Facing string

const (
	FacingLeft  Facing = "left"
	FacingRight Facing = "right"
)

// PlayerState holds the core-owned parts of the player. Position and
// velocity live in the host's physics body.
type PlayerState struct {
	Energy   int
	Facing   Facing
	Airborne bool
}

// Session is one play-through, from the first spawn to game over
type Session struct {
	State  SessionState
	Player PlayerState
	Score  int

	// Items currently registered with the session, keyed by host entity
	Items map[CollectibleID]*Collectible

	// Authenticated reports whether the observing client is signed in
	Authenticated bool
	DisplayName   string

	// Generation increments on every restart so stale timer callbacks can
	// recognise they belong to a previous run.
	Generation int

	// Started is false while the instructions overlay holds the timers
	Started bool

	GameOvers int
}

// NewSession creates a session in the playing state
func NewSession(initialEnergy int) *Session {
	return &Session{
		State:  SessionStatePlaying,
		Player: PlayerState{Energy: initialEnergy, Facing: FacingRight},
		Items:  make(map[CollectibleID]*Collectible),
	}
}

// IsOver returns true once the session has entered game over
func (s *Session) IsOver() bool {
	return s.State == SessionStateGameOver
}

// ActiveItems returns the number of registered items that can still be collected
func (s *Session) ActiveItems() int {
	n := 0
	for _, item := range s.Items {
		if item.Active {
			n++
		}
	}
	return n
}
