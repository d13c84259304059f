package game

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/wansatya/x.com/internal/dependencies/clock"
	"github.com/wansatya/x.com/internal/dependencies/random"
	"github.com/wansatya/x.com/internal/host"
	"github.com/wansatya/x.com/internal/model"
)

// Accounts is the sign-in and high score surface the end overlay drives
type Accounts interface {
	RequestSignIn()
	RequestSignOut()
	RequestSaveScore(score int)
}

// Observer receives session events after each state change
type Observer func(model.Event)

// sessionTimers are the three timers a running session owns
type sessionTimers struct {
	energy  host.Timer
	score   host.Timer
	spawn   host.Timer
	stopped bool
}

// Controller runs the session state machine. Every method must be called
// from the host's frame loop.
type Controller struct {
	host     host.Host
	clock    clock.Clock
	random   random.Random
	tuning   Tuning
	logger   *slog.Logger
	accounts Accounts

	session   *model.Session
	timers    sessionTimers
	lifetimes map[model.CollectibleID]host.Timer
	anim      host.AnimKey
	observers []Observer
}

var _ host.Handler = (*Controller)(nil)

// NewController creates a Controller. Call Start to begin the first session.
func NewController(
	h host.Host,
	clock clock.Clock,
	random random.Random,
	tuning Tuning,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		host:      h,
		clock:     clock,
		random:    random,
		tuning:    tuning,
		logger:    logger,
		session:   model.NewSession(tuning.InitialEnergy),
		timers:    sessionTimers{stopped: true},
		lifetimes: make(map[model.CollectibleID]host.Timer),
	}
}

// SetAccounts attaches the sign-in/high score bridge. Without one the account
// control stays hidden.
func (c *Controller) SetAccounts(a Accounts) {
	c.accounts = a
}

// Subscribe registers an observer for session events
func (c *Controller) Subscribe(o Observer) {
	c.observers = append(c.observers, o)
}

// Session returns the live session state
func (c *Controller) Session() *model.Session {
	return c.session
}

// Tuning returns the constants the controller was built with
func (c *Controller) Tuning() Tuning {
	return c.tuning
}

// Start sets up the scene for the first session
func (c *Controller) Start() {
	c.resetDisplay()
	c.playAnim(host.AnimTurn)
	c.spawnItems()

	if !c.tuning.HoldUntilFirstInput {
		c.armTimers()
	}

	c.logger.Info("session started",
		slog.Int("generation", c.session.Generation),
		slog.Int("energy", c.session.Player.Energy),
		slog.Bool("held", !c.session.Started),
	)
	c.emit(model.EventSessionStarted, nil)
}

// Restart begins a new session after game over
func (c *Controller) Restart() error {
	if !c.session.IsOver() {
		return model.ErrSessionActive
	}

	c.session.Generation++
	for id, t := range c.lifetimes {
		t.Cancel()
		delete(c.lifetimes, id)
	}
	for id := range c.session.Items {
		c.host.DestroyEntity(host.EntityID(id))
		delete(c.session.Items, id)
	}

	c.session.State = model.SessionStatePlaying
	c.session.Player.Energy = c.tuning.InitialEnergy
	c.session.Player.Airborne = false
	c.session.Score = 0
	c.session.Started = false

	c.host.SetPlayerTint(false)
	c.host.ResumePhysics()
	c.anim = ""
	c.playAnim(host.AnimTurn)
	c.resetDisplay()
	c.spawnItems()

	if !c.tuning.HoldUntilFirstInput {
		c.armTimers()
	}

	c.logger.Info("session restarted", slog.Int("generation", c.session.Generation))
	c.emit(model.EventSessionRestart, nil)
	return nil
}

// SetAccount records the signed-in identity for the session, or clears it
// when authenticated is false
func (c *Controller) SetAccount(displayName string, authenticated bool) {
	c.session.Authenticated = authenticated
	c.session.DisplayName = displayName
	if !authenticated {
		c.session.DisplayName = ""
	}
	c.host.SetText(host.TextGreeting, c.greeting())
	c.host.SetText(host.TextAccount, c.accountLabel())
	c.emit(model.EventAccountChanged, model.AccountChangedPayload{
		Authenticated: authenticated,
		DisplayName:   c.session.DisplayName,
	})
}

// HighScoreSaved records a confirmed high score write
func (c *Controller) HighScoreSaved(score int) {
	c.logger.Info("high score saved",
		slog.Int("score", score),
		slog.String("display_name", c.session.DisplayName),
	)
	c.emit(model.EventHighScoreSaved, nil)
}

// Host callbacks

// OnGroundContact plays the impact cue and starts the item's lifetime on its
// first contact
func (c *Controller) OnGroundContact(id host.EntityID) {
	item := c.session.Items[model.CollectibleID(id)]
	if item == nil || !item.Active {
		return
	}

	c.playSound(host.SoundHit)

	if item.Grounded {
		return
	}
	item.Grounded = true

	gen := c.session.Generation
	c.lifetimes[item.ID] = c.host.After(c.tuning.ItemLifetime, func() {
		c.expireItem(gen, item.ID)
	})
}

// OnPlayerOverlap collects an active item. Repeated overlaps with the same
// item after it was collected are ignored.
func (c *Controller) OnPlayerOverlap(id host.EntityID) {
	if c.session.IsOver() {
		return
	}
	item := c.session.Items[model.CollectibleID(id)]
	if item == nil || !item.Active {
		return
	}

	item.Active = false
	c.host.DisableEntity(id)
	if t, ok := c.lifetimes[item.ID]; ok {
		t.Cancel()
		delete(c.lifetimes, item.ID)
	}
	delete(c.session.Items, item.ID)

	c.session.Player.Energy += c.tuning.EnergyPerItem
	c.host.SetText(host.TextEnergy, energyText(c.session.Player.Energy))
	c.playSound(host.SoundCollect)

	c.emit(model.EventItemCollected, model.ItemPayload{ItemID: item.ID, Variant: item.Variant})
	c.emit(model.EventEnergyChanged, nil)
}

// OnPointerDown steers the player toward the target
func (c *Controller) OnPointerDown(target host.Vec) {
	if c.session.IsOver() {
		return
	}

	if !c.session.Started {
		c.host.SetVisible(host.TextInstructions, false)
		c.armTimers()
		c.logger.Info("timers armed on first input", slog.Int("generation", c.session.Generation))
	}

	velocity, jump := ResolveMove(c.host.PlayerPosition(), target, c.tuning)
	c.host.SetPlayerVelocity(velocity)
	if jump {
		c.playSound(host.SoundJump)
	}
}

// OnControl handles the end overlay buttons. Sign-out is accepted in any
// state.
func (c *Controller) OnControl(ctrl host.Control) {
	if ctrl == host.ControlSignOut {
		if c.accounts != nil && c.session.Authenticated {
			c.accounts.RequestSignOut()
		}
		return
	}
	if !c.session.IsOver() {
		return
	}

	switch ctrl {
	case host.ControlRestart:
		if err := c.Restart(); err != nil {
			c.logger.Warn("restart rejected", slog.String("error", err.Error()))
		}
	case host.ControlAccount:
		if c.accounts == nil {
			return
		}
		if c.session.Authenticated {
			c.accounts.RequestSaveScore(c.session.Score)
		} else {
			c.accounts.RequestSignIn()
		}
	}
}

// OnFrame picks the player animation from the physics state
func (c *Controller) OnFrame(f host.Frame) {
	if c.session.IsOver() {
		c.playAnim(host.AnimDead)
		return
	}

	p := &c.session.Player
	if !f.OnGround {
		c.playAnim(host.AnimTurn)
		p.Airborne = true
		return
	}

	switch {
	case p.Airborne:
		// Landing ends the jump
		c.host.SetPlayerVelocity(host.Vec{})
		c.playAnim(host.AnimTurn)
		p.Airborne = false
	case f.Velocity.X > 0:
		c.playAnim(host.AnimRight)
		p.Facing = model.FacingRight
	case f.Velocity.X < 0:
		c.playAnim(host.AnimLeft)
		p.Facing = model.FacingLeft
	default:
		c.playAnim(host.AnimTurn)
	}
}

// Timers

func (c *Controller) armTimers() {
	gen := c.session.Generation
	c.timers = sessionTimers{
		energy: c.host.Every(c.tuning.EnergyInterval, func() { c.decreaseEnergy(gen) }),
		score:  c.host.Every(c.tuning.ScoreInterval, func() { c.increaseScore(gen) }),
	}
	c.scheduleSpawn(gen)
	c.session.Started = true
}

// stopTimers cancels the session timers. Only the first call has an effect.
func (c *Controller) stopTimers() {
	if c.timers.stopped {
		return
	}
	c.timers.stopped = true
	for _, t := range []host.Timer{c.timers.energy, c.timers.score, c.timers.spawn} {
		if t != nil {
			t.Cancel()
		}
	}
}

func (c *Controller) scheduleSpawn(gen int) {
	minMs := int(c.tuning.SpawnMin / time.Millisecond)
	maxMs := int(c.tuning.SpawnMax / time.Millisecond)
	delay := time.Duration(random.IntBetween(c.random, minMs, maxMs)) * time.Millisecond

	c.timers.spawn = c.host.After(delay, func() {
		if gen != c.session.Generation || c.timers.stopped {
			return
		}
		c.spawnItems()
		c.scheduleSpawn(gen)
	})
}

func (c *Controller) decreaseEnergy(gen int) {
	if gen != c.session.Generation {
		return
	}
	if c.session.IsOver() {
		c.stopTimers()
		return
	}

	p := &c.session.Player
	p.Energy -= c.tuning.EnergyDrain
	if p.Energy < 0 {
		p.Energy = 0
	}
	c.host.SetText(host.TextEnergy, energyText(p.Energy))
	c.playSound(host.SoundCount)
	c.emit(model.EventEnergyChanged, nil)

	if p.Energy == 0 {
		c.host.PausePhysics()
		c.host.StopAnimation()
		c.enterGameOver()
	}
}

func (c *Controller) increaseScore(gen int) {
	if gen != c.session.Generation {
		return
	}
	if c.session.IsOver() {
		c.stopTimers()
		return
	}

	c.session.Score++
	c.host.SetText(host.TextScore, scoreText(c.session.Score))
	c.playSound(host.SoundScore)
	c.emit(model.EventScoreChanged, nil)
}

func (c *Controller) enterGameOver() {
	if c.session.IsOver() {
		return
	}
	c.session.State = model.SessionStateGameOver
	c.session.GameOvers++
	c.stopTimers()

	c.host.SetPlayerTint(true)
	c.anim = ""
	c.playAnim(host.AnimDead)
	c.host.StopSound(host.SoundJump)

	c.host.SetVisible(host.TextInstructions, false)
	c.host.SetVisible(host.TextGoals, true)
	c.host.SetVisible(host.TextGameOver, true)
	c.host.SetVisible(host.TextRestart, true)
	c.host.SetText(host.TextAccount, c.accountLabel())
	c.host.SetVisible(host.TextAccount, c.accounts != nil)
	c.playSound(host.SoundGameOver)

	c.logger.Info("game over",
		slog.Int("generation", c.session.Generation),
		slog.Int("score", c.session.Score),
		slog.Bool("authenticated", c.session.Authenticated),
	)
	c.emit(model.EventGameOver, nil)
}

// Items

func (c *Controller) spawnItems() {
	t := c.tuning
	n := random.IntBetween(c.random, t.SpawnCountMin, t.SpawnCountMax)
	for i := 0; i < n; i++ {
		x := float64(random.IntBetween(c.random, t.SpawnMinX, t.SpawnMaxX))
		variant := model.Variants[c.random.Intn(len(model.Variants))]
		bounce := random.FloatBetween(c.random, t.BounceMin, t.BounceMax)

		id := c.host.SpawnCollectible(host.CollectibleSpec{
			Variant: string(variant),
			X:       x,
			Y:       t.SpawnY,
			BounceY: bounce,
		})
		cid := model.CollectibleID(id)
		c.session.Items[cid] = &model.Collectible{
			ID:      cid,
			Variant: variant,
			X:       x,
			Bounce:  bounce,
			Active:  true,
		}
	}

	c.logger.Debug("items spawned", slog.Int("count", n), slog.Int("registered", len(c.session.Items)))
	c.emit(model.EventItemsSpawned, model.ItemsSpawnedPayload{Count: n})
}

func (c *Controller) expireItem(gen int, id model.CollectibleID) {
	if gen != c.session.Generation {
		return
	}
	delete(c.lifetimes, id)

	item := c.session.Items[id]
	if item == nil || !item.Active {
		return
	}
	delete(c.session.Items, id)
	c.host.DestroyEntity(host.EntityID(id))
	c.emit(model.EventItemExpired, model.ItemPayload{ItemID: id, Variant: item.Variant})
}

// Presentation helpers

func (c *Controller) resetDisplay() {
	c.host.SetText(host.TextScore, scoreText(c.session.Score))
	c.host.SetText(host.TextEnergy, energyText(c.session.Player.Energy))
	c.host.SetText(host.TextGreeting, c.greeting())
	c.host.SetText(host.TextInstructions, instructionsText)
	c.host.SetText(host.TextGoals, goalsText)
	c.host.SetText(host.TextGameOver, gameOverLabel)
	c.host.SetText(host.TextRestart, restartLabel)
	c.host.SetText(host.TextAccount, c.accountLabel())
	c.host.SetText(host.TextHighScore, highScoreSavedMsg)

	c.host.SetVisible(host.TextScore, true)
	c.host.SetVisible(host.TextEnergy, true)
	c.host.SetVisible(host.TextGreeting, true)
	c.host.SetVisible(host.TextInstructions, true)
	c.host.SetVisible(host.TextGoals, false)
	c.host.SetVisible(host.TextGameOver, false)
	c.host.SetVisible(host.TextRestart, false)
	c.host.SetVisible(host.TextAccount, false)
	c.host.SetVisible(host.TextHighScore, false)
}

func (c *Controller) greeting() string {
	if c.session.Authenticated && c.session.DisplayName != "" {
		return "hi, " + strings.ToLower(c.session.DisplayName)
	}
	return guestGreeting
}

func (c *Controller) accountLabel() string {
	if c.session.Authenticated {
		return saveScoreLabel
	}
	return loginLabel
}

func (c *Controller) playAnim(key host.AnimKey) {
	if c.anim == key {
		return
	}
	c.anim = key
	c.host.PlayAnimation(key)
}

func (c *Controller) playSound(key host.SoundKey) {
	c.host.PlaySound(key, soundVolumes[key])
}

func (c *Controller) emit(t model.EventType, payload any) {
	if len(c.observers) == 0 {
		return
	}
	ev := model.Event{
		Type:       t,
		Timestamp:  c.clock.Now(),
		Generation: c.session.Generation,
		Energy:     c.session.Player.Energy,
		Score:      c.session.Score,
		Payload:    payload,
	}
	for _, o := range c.observers {
		o(ev)
	}
}

func scoreText(score int) string {
	return fmt.Sprintf("score : %d", score)
}

func energyText(energy int) string {
	return fmt.Sprintf("energy: %d", energy)
}
