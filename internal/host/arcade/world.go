// Package arcade is a small gravity and overlap simulation implementing
// host.Host. The terminal and ebiten shells render it and feed it input.
package arcade

import (
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/wansatya/x.com/internal/host"
	"github.com/wansatya/x.com/internal/host/timer"
)

type item struct {
	id       host.EntityID
	variant  string
	pos      host.Vec
	vel      host.Vec
	bounce   float64
	active   bool
	resting  bool
	touching bool
}

type player struct {
	pos       host.Vec
	vel       host.Vec
	onGround  bool
	anim      host.AnimKey
	animating bool
	tinted    bool
}

// World owns the simulation state. All methods except Post must be called
// from the goroutine that calls Step.
type World struct {
	cfg     Config
	sched   *timer.Scheduler
	audio   host.Audio
	logger  *slog.Logger
	handler host.Handler

	nextID host.EntityID
	items  map[host.EntityID]*item
	player player
	paused bool

	texts   map[host.TextID]string
	visible map[host.TextID]bool

	mu     sync.Mutex
	posted []func()
}

var _ host.Host = (*World)(nil)

// New creates a world. audio may be nil for a silent world.
func New(cfg Config, audio host.Audio, logger *slog.Logger) *World {
	return &World{
		cfg:     cfg,
		sched:   timer.New(),
		audio:   audio,
		logger:  logger,
		items:   make(map[host.EntityID]*item),
		player:  player{pos: cfg.PlayerStart},
		texts:   make(map[host.TextID]string),
		visible: make(map[host.TextID]bool),
	}
}

// Attach sets the handler receiving engine callbacks
func (w *World) Attach(h host.Handler) {
	w.handler = h
}

// Config returns the world configuration
func (w *World) Config() Config {
	return w.cfg
}

// Now returns the frame clock
func (w *World) Now() time.Duration {
	return w.sched.Now()
}

// Step advances the world by dt: posted callbacks, physics, contact and
// overlap callbacks, the frame callback, then timers.
func (w *World) Step(dt time.Duration) {
	w.runPosted()

	if !w.paused {
		remaining := dt
		for remaining > 0 {
			sub := min(remaining, w.cfg.MaxSubstep)
			w.integrate(sub.Seconds())
			remaining -= sub
		}
		w.overlaps()
	}

	if w.handler != nil {
		w.handler.OnFrame(host.Frame{
			Delta:    dt,
			OnGround: w.player.onGround,
			Velocity: w.player.vel,
			Position: w.player.pos,
		})
	}

	w.sched.Advance(dt)
	w.runPosted()
	w.prune()
}

// prune drops disabled bodies. Nothing refers to them once the handler has
// seen the overlap that disabled them.
func (w *World) prune() {
	for id, it := range w.items {
		if !it.active {
			delete(w.items, id)
		}
	}
}

// BodyCount returns how many collectible bodies the world holds
func (w *World) BodyCount() int {
	return len(w.items)
}

// PointerDown forwards a click or tap. Presses on a visible control are
// routed to OnControl instead of OnPointerDown.
func (w *World) PointerDown(p host.Vec) {
	if w.handler == nil {
		return
	}
	if c, ok := w.ControlAt(p); ok {
		w.handler.OnControl(c)
		return
	}
	w.handler.OnPointerDown(p)
}

// Press triggers a control directly, as a keyboard shortcut would
func (w *World) Press(c host.Control) {
	if w.handler != nil {
		w.handler.OnControl(c)
	}
}

// ControlAt returns the visible control under p
func (w *World) ControlAt(p host.Vec) (host.Control, bool) {
	for id, c := range controls {
		if !w.visible[id] {
			continue
		}
		if w.cfg.Layout[id].Bounds(w.texts[id]).Contains(p) {
			return c, true
		}
	}
	return "", false
}

func (w *World) integrate(dt float64) {
	w.integratePlayer(dt)
	for _, id := range w.itemIDs() {
		it := w.items[id]
		if it == nil || !it.active {
			continue
		}
		w.integrateItem(it, dt)
	}
}

func (w *World) integratePlayer(dt float64) {
	p := &w.player
	half := host.Vec{X: w.cfg.PlayerSize.X / 2, Y: w.cfg.PlayerSize.Y / 2}

	p.vel.Y += (w.cfg.Gravity + w.cfg.PlayerGravity) * dt
	p.pos.X += p.vel.X * dt
	p.pos.Y += p.vel.Y * dt

	if p.pos.X < half.X {
		p.pos.X = half.X
		p.vel.X = 0
	}
	if p.pos.X > w.cfg.Width-half.X {
		p.pos.X = w.cfg.Width - half.X
		p.vel.X = 0
	}
	if p.pos.Y < half.Y {
		p.pos.Y = half.Y
		p.vel.Y = 0
	}

	p.onGround = false
	if p.pos.Y+half.Y >= w.cfg.GroundY {
		p.pos.Y = w.cfg.GroundY - half.Y
		if p.vel.Y > 0 {
			p.vel.Y = -p.vel.Y * w.cfg.PlayerBounce
			if -p.vel.Y < w.cfg.RestSpeed {
				p.vel.Y = 0
			}
		}
		p.onGround = p.vel.Y == 0
	}
}

func (w *World) integrateItem(it *item, dt float64) {
	if it.resting {
		return
	}
	half := w.cfg.ItemSize.Y / 2

	it.vel.Y += w.cfg.Gravity * dt
	it.pos.X += it.vel.X * dt
	it.pos.Y += it.vel.Y * dt

	touching := it.pos.Y+half >= w.cfg.GroundY
	if touching {
		it.pos.Y = w.cfg.GroundY - half
		if it.vel.Y > 0 {
			it.vel.Y = -it.vel.Y * it.bounce
		}
		if -it.vel.Y < w.cfg.RestSpeed {
			it.vel.Y = 0
			it.resting = true
		}
	}

	entered := touching && !it.touching
	it.touching = touching
	if entered && w.handler != nil {
		w.handler.OnGroundContact(it.id)
	}
}

func (w *World) overlaps() {
	if w.handler == nil {
		return
	}
	pr := centered(w.player.pos, w.cfg.PlayerSize)
	for _, id := range w.itemIDs() {
		it := w.items[id]
		if it == nil || !it.active {
			continue
		}
		if pr.overlaps(centered(it.pos, w.cfg.ItemSize)) {
			w.handler.OnPlayerOverlap(id)
		}
	}
}

// itemIDs returns the live ids in creation order
func (w *World) itemIDs() []host.EntityID {
	ids := make([]host.EntityID, 0, len(w.items))
	for id := range w.items {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (w *World) runPosted() {
	for {
		w.mu.Lock()
		queue := w.posted
		w.posted = nil
		w.mu.Unlock()
		if len(queue) == 0 {
			return
		}
		for _, fn := range queue {
			fn()
		}
	}
}

// Entities

func (w *World) SpawnCollectible(spec host.CollectibleSpec) host.EntityID {
	w.nextID++
	w.items[w.nextID] = &item{
		id:      w.nextID,
		variant: spec.Variant,
		pos:     host.Vec{X: spec.X, Y: spec.Y},
		bounce:  spec.BounceY,
		active:  true,
	}
	return w.nextID
}

func (w *World) DisableEntity(id host.EntityID) {
	if it, ok := w.items[id]; ok {
		it.active = false
	}
}

func (w *World) DestroyEntity(id host.EntityID) {
	delete(w.items, id)
}

// Player

func (w *World) PlayerPosition() host.Vec {
	return w.player.pos
}

func (w *World) SetPlayerVelocity(v host.Vec) {
	w.player.vel = v
	if v.Y < 0 {
		w.player.onGround = false
	}
}

func (w *World) PlayAnimation(key host.AnimKey) {
	w.player.anim = key
	w.player.animating = true
}

func (w *World) StopAnimation() {
	w.player.animating = false
}

func (w *World) SetPlayerTint(tinted bool) {
	w.player.tinted = tinted
}

// Physics

func (w *World) PausePhysics() {
	w.paused = true
	w.logger.Debug("physics paused", slog.Duration("at", w.sched.Now()))
}

func (w *World) ResumePhysics() {
	w.paused = false
	w.logger.Debug("physics resumed", slog.Duration("at", w.sched.Now()))
}

// Timers

func (w *World) After(d time.Duration, fn func()) host.Timer {
	return w.sched.After(d, fn)
}

func (w *World) Every(d time.Duration, fn func()) host.Timer {
	return w.sched.Every(d, fn)
}

// Audio

func (w *World) PlaySound(key host.SoundKey, volume float64) {
	if w.audio != nil {
		w.audio.PlaySound(key, volume)
	}
}

func (w *World) StopSound(key host.SoundKey) {
	if w.audio != nil {
		w.audio.StopSound(key)
	}
}

// Display

func (w *World) SetText(id host.TextID, text string) {
	w.texts[id] = text
}

func (w *World) SetVisible(id host.TextID, visible bool) {
	w.visible[id] = visible
}

// Dispatcher

func (w *World) Post(fn func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.posted = append(w.posted, fn)
}
