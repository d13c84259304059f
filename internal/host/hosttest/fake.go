// Package hosttest provides a recording host for driving the game core in
// tests without a rendering engine.
package hosttest

import (
	"sync"
	"time"

	"github.com/wansatya/x.com/internal/host"
	"github.com/wansatya/x.com/internal/host/timer"
)

// Timer wraps a scheduler event and counts Cancel calls
type Timer struct {
	*timer.Event
	Period  time.Duration
	Cancels int
}

// Cancel records the call and cancels the underlying event
func (t *Timer) Cancel() {
	t.Cancels++
	t.Event.Cancel()
}

// FakeHost records every command issued by the core
type FakeHost struct {
	Scheduler *timer.Scheduler

	nextID    host.EntityID
	Spawned   map[host.EntityID]host.CollectibleSpec
	Disabled  map[host.EntityID]int
	Destroyed map[host.EntityID]int

	PlayerPos  host.Vec
	Velocities []host.Vec
	Animations []host.AnimKey
	AnimStops  int
	Tinted     bool

	PhysicsPaused bool
	PauseCalls    int
	ResumeCalls   int

	Sounds     []host.SoundKey
	StopSounds []host.SoundKey

	Texts   map[host.TextID]string
	Visible map[host.TextID]bool

	Timers []*Timer

	mu     sync.Mutex
	posted []func()
}

var _ host.Host = (*FakeHost)(nil)

// New creates a FakeHost with the player at pos
func New(pos host.Vec) *FakeHost {
	return &FakeHost{
		Scheduler: timer.New(),
		Spawned:   make(map[host.EntityID]host.CollectibleSpec),
		Disabled:  make(map[host.EntityID]int),
		Destroyed: make(map[host.EntityID]int),
		PlayerPos: pos,
		Texts:     make(map[host.TextID]string),
		Visible:   make(map[host.TextID]bool),
	}
}

// Entities

func (h *FakeHost) SpawnCollectible(spec host.CollectibleSpec) host.EntityID {
	h.nextID++
	h.Spawned[h.nextID] = spec
	return h.nextID
}

func (h *FakeHost) DisableEntity(id host.EntityID) {
	h.Disabled[id]++
}

func (h *FakeHost) DestroyEntity(id host.EntityID) {
	h.Destroyed[id]++
}

// Live returns the ids that were spawned and neither disabled nor destroyed
func (h *FakeHost) Live() []host.EntityID {
	var ids []host.EntityID
	for id := range h.Spawned {
		if h.Disabled[id] == 0 && h.Destroyed[id] == 0 {
			ids = append(ids, id)
		}
	}
	return ids
}

// Player

func (h *FakeHost) PlayerPosition() host.Vec {
	return h.PlayerPos
}

func (h *FakeHost) SetPlayerVelocity(v host.Vec) {
	h.Velocities = append(h.Velocities, v)
}

func (h *FakeHost) PlayAnimation(key host.AnimKey) {
	h.Animations = append(h.Animations, key)
}

func (h *FakeHost) StopAnimation() {
	h.AnimStops++
}

func (h *FakeHost) SetPlayerTint(tinted bool) {
	h.Tinted = tinted
}

// LastAnimation returns the most recent animation key, or "" if none
func (h *FakeHost) LastAnimation() host.AnimKey {
	if len(h.Animations) == 0 {
		return ""
	}
	return h.Animations[len(h.Animations)-1]
}

// LastVelocity returns the most recent velocity command
func (h *FakeHost) LastVelocity() host.Vec {
	if len(h.Velocities) == 0 {
		return host.Vec{}
	}
	return h.Velocities[len(h.Velocities)-1]
}

// Physics

func (h *FakeHost) PausePhysics() {
	h.PauseCalls++
	h.PhysicsPaused = true
}

func (h *FakeHost) ResumePhysics() {
	h.ResumeCalls++
	h.PhysicsPaused = false
}

// Timers

func (h *FakeHost) After(d time.Duration, fn func()) host.Timer {
	t := &Timer{Event: h.Scheduler.After(d, fn).(*timer.Event)}
	h.Timers = append(h.Timers, t)
	return t
}

func (h *FakeHost) Every(d time.Duration, fn func()) host.Timer {
	t := &Timer{Event: h.Scheduler.Every(d, fn).(*timer.Event), Period: d}
	h.Timers = append(h.Timers, t)
	return t
}

// Audio

func (h *FakeHost) PlaySound(key host.SoundKey, volume float64) {
	h.Sounds = append(h.Sounds, key)
}

func (h *FakeHost) StopSound(key host.SoundKey) {
	h.StopSounds = append(h.StopSounds, key)
}

// CountSounds returns how many times key was played
func (h *FakeHost) CountSounds(key host.SoundKey) int {
	n := 0
	for _, k := range h.Sounds {
		if k == key {
			n++
		}
	}
	return n
}

// Display

func (h *FakeHost) SetText(id host.TextID, text string) {
	h.Texts[id] = text
}

func (h *FakeHost) SetVisible(id host.TextID, visible bool) {
	h.Visible[id] = visible
}

// Dispatcher

func (h *FakeHost) Post(fn func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.posted = append(h.posted, fn)
}

// Queued returns how many dispatcher callbacks are waiting
func (h *FakeHost) Queued() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.posted)
}

// RunPosted runs queued dispatcher callbacks, including ones they enqueue
func (h *FakeHost) RunPosted() {
	for {
		h.mu.Lock()
		queue := h.posted
		h.posted = nil
		h.mu.Unlock()
		if len(queue) == 0 {
			return
		}
		for _, fn := range queue {
			fn()
		}
	}
}

// Advance runs posted callbacks then moves the frame clock forward by d
func (h *FakeHost) Advance(d time.Duration) {
	h.RunPosted()
	h.Scheduler.Advance(d)
	h.RunPosted()
}
