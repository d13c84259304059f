package arcade_test

import (
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/wansatya/x.com/internal/dependencies/mocks"
	"github.com/wansatya/x.com/internal/host"
	"github.com/wansatya/x.com/internal/host/arcade"
	"github.com/wansatya/x.com/internal/model"
	"github.com/wansatya/x.com/internal/services/game"
)

const frame = 16 * time.Millisecond

type recordingHandler struct {
	world    *arcade.World
	collect  bool
	contacts map[host.EntityID]int
	overlaps map[host.EntityID]int
	pointers []host.Vec
	controls []host.Control
	frames   []host.Frame
}

func newRecordingHandler(w *arcade.World) *recordingHandler {
	return &recordingHandler{
		world:    w,
		contacts: make(map[host.EntityID]int),
		overlaps: make(map[host.EntityID]int),
	}
}

func (h *recordingHandler) OnGroundContact(id host.EntityID) { h.contacts[id]++ }

func (h *recordingHandler) OnPlayerOverlap(id host.EntityID) {
	h.overlaps[id]++
	if h.collect {
		h.world.DisableEntity(id)
	}
}

func (h *recordingHandler) OnPointerDown(target host.Vec) { h.pointers = append(h.pointers, target) }
func (h *recordingHandler) OnControl(c host.Control)      { h.controls = append(h.controls, c) }
func (h *recordingHandler) OnFrame(f host.Frame)          { h.frames = append(h.frames, f) }

type recordingAudio struct {
	played []host.SoundKey
}

func (a *recordingAudio) PlaySound(key host.SoundKey, volume float64) {
	a.played = append(a.played, key)
}

func (a *recordingAudio) StopSound(key host.SoundKey) {}

type WorldSuite struct {
	suite.Suite
	world   *arcade.World
	handler *recordingHandler
	audio   *recordingAudio
	logger  *slog.Logger
}

func TestWorldSuite(t *testing.T) {
	suite.Run(t, new(WorldSuite))
}

func (s *WorldSuite) SetupTest() {
	s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	s.audio = &recordingAudio{}
	s.world = arcade.New(arcade.DefaultConfig(), s.audio, s.logger)
	s.handler = newRecordingHandler(s.world)
	s.world.Attach(s.handler)
}

func (s *WorldSuite) run(d time.Duration) {
	for elapsed := time.Duration(0); elapsed < d; elapsed += frame {
		s.world.Step(frame)
	}
}

func (s *WorldSuite) TestPlayerSettlesOnGround() {
	cfg := s.world.Config()

	s.run(2 * time.Second)

	s.InDelta(cfg.GroundY-cfg.PlayerSize.Y/2, s.world.PlayerPosition().Y, 0.001)
	s.Require().NotEmpty(s.handler.frames)
	s.True(s.handler.frames[len(s.handler.frames)-1].OnGround)
}

func (s *WorldSuite) TestJumpLeavesAndReturnsToGround() {
	s.run(2 * time.Second)

	s.world.SetPlayerVelocity(host.Vec{X: 0, Y: -250})
	s.world.Step(frame)
	s.False(s.handler.frames[len(s.handler.frames)-1].OnGround)

	s.run(2 * time.Second)
	s.True(s.handler.frames[len(s.handler.frames)-1].OnGround)
}

func (s *WorldSuite) TestPlayerStaysInsideWorld() {
	cfg := s.world.Config()
	s.run(time.Second)

	s.world.SetPlayerVelocity(host.Vec{X: -1000})
	s.run(2 * time.Second)

	s.InDelta(cfg.PlayerSize.X/2, s.world.PlayerPosition().X, 0.001)
}

func (s *WorldSuite) TestItemReportsGroundContact() {
	id := s.world.SpawnCollectible(host.CollectibleSpec{Variant: "soda_can", X: 40, Y: -20, BounceY: 0.4})

	s.run(time.Second)
	s.Zero(s.handler.contacts[id])

	s.run(2 * time.Second)
	s.GreaterOrEqual(s.handler.contacts[id], 1)
}

func (s *WorldSuite) TestRestingItemStopsReportingContact() {
	id := s.world.SpawnCollectible(host.CollectibleSpec{Variant: "soda_can", X: 40, Y: -20, BounceY: 0.4})

	s.run(10 * time.Second)
	settled := s.handler.contacts[id]
	s.run(5 * time.Second)

	s.Equal(settled, s.handler.contacts[id])
	s.Greater(settled, 1)
}

func (s *WorldSuite) TestOverlapReportedUntilDisabled() {
	s.handler.collect = true
	id := s.world.SpawnCollectible(host.CollectibleSpec{Variant: "food_waste", X: 300, Y: -20, BounceY: 0.4})

	s.run(4 * time.Second)

	s.Equal(1, s.handler.overlaps[id])
	s.Empty(s.world.Snapshot().Items)
}

func (s *WorldSuite) TestDestroyedItemLeavesSnapshot() {
	id := s.world.SpawnCollectible(host.CollectibleSpec{Variant: "soda_can", X: 40, Y: -20, BounceY: 0.4})
	s.Len(s.world.Snapshot().Items, 1)

	s.world.DestroyEntity(id)
	s.run(3 * time.Second)

	s.Empty(s.world.Snapshot().Items)
	s.Zero(s.handler.contacts[id])
}

func (s *WorldSuite) TestPausedPhysicsKeepsTimersRunning() {
	id := s.world.SpawnCollectible(host.CollectibleSpec{Variant: "soda_can", X: 40, Y: -20, BounceY: 0.4})
	fired := 0
	s.world.Every(time.Second, func() { fired++ })

	s.world.PausePhysics()
	before := s.world.Snapshot().Items[0].Bounds
	s.run(3 * time.Second)

	s.Equal(before, s.world.Snapshot().Items[0].Bounds)
	s.Equal(3, fired)
	s.Zero(s.handler.contacts[id])
	s.True(s.world.Snapshot().Paused)

	s.world.ResumePhysics()
	s.run(3 * time.Second)
	s.GreaterOrEqual(s.handler.contacts[id], 1)
}

func (s *WorldSuite) TestPointerOnVisibleControlRoutesToControl() {
	s.world.SetText(host.TextRestart, "try again?")
	s.world.SetVisible(host.TextRestart, true)
	p := arcade.DefaultLayout(600, 900)[host.TextRestart].Pos

	s.world.PointerDown(p)

	s.Equal([]host.Control{host.ControlRestart}, s.handler.controls)
	s.Empty(s.handler.pointers)
}

func (s *WorldSuite) TestPointerOnHiddenControlRoutesToMove() {
	s.world.SetText(host.TextRestart, "try again?")
	s.world.SetVisible(host.TextRestart, false)
	p := arcade.DefaultLayout(600, 900)[host.TextRestart].Pos

	s.world.PointerDown(p)

	s.Empty(s.handler.controls)
	s.Equal([]host.Vec{p}, s.handler.pointers)
}

func (s *WorldSuite) TestPostedCallbacksRunOnStep() {
	var wg sync.WaitGroup
	ran := 0
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.world.Post(func() { ran++ })
		}()
	}
	wg.Wait()
	s.Zero(ran)

	s.world.Step(frame)

	s.Equal(10, ran)
}

func (s *WorldSuite) TestSoundsDelegateToAudio() {
	s.world.PlaySound(host.SoundJump, 0.35)

	s.Equal([]host.SoundKey{host.SoundJump}, s.audio.played)
}

func (s *WorldSuite) TestSnapshotListsVisibleTexts() {
	s.world.SetText(host.TextScore, "score : 0")
	s.world.SetVisible(host.TextScore, true)
	s.world.SetText(host.TextGameOver, "game over")
	s.world.SetVisible(host.TextGameOver, false)
	s.world.SetText(host.TextAccount, "login")
	s.world.SetVisible(host.TextAccount, true)

	texts := s.world.Snapshot().Texts

	s.Require().Len(texts, 2)
	s.Equal(host.TextAccount, texts[0].ID)
	s.True(texts[0].Control)
	s.Equal(host.TextScore, texts[1].ID)
	s.False(texts[1].Control)
}

func (s *WorldSuite) TestControllerReachesGameOverWithoutInput() {
	world := arcade.New(arcade.DefaultConfig(), nil, s.logger)
	controller := game.NewController(world, mocks.NewMockClock(time.Now()), mocks.NewMockRandom(), game.DefaultTuning(), s.logger)
	world.Attach(controller)
	controller.Start()

	for elapsed := time.Duration(0); elapsed <= 5*time.Second; elapsed += frame {
		world.Step(frame)
	}

	s.Equal(model.SessionStateGameOver, controller.Session().State)
	snap := world.Snapshot()
	s.True(snap.Paused)
	s.True(snap.Player.Tinted)
	s.Equal(host.AnimDead, snap.Player.Anim)
}

func (s *WorldSuite) TestSteerAimsFromPlayer() {
	p := s.world.PlayerPosition()

	s.world.Steer(arcade.Left)
	s.world.Steer(arcade.Jump)
	s.world.Steer(arcade.Stop)

	s.Equal([]host.Vec{
		{X: p.X - arcade.WalkReach, Y: p.Y},
		{X: p.X, Y: p.Y - arcade.JumpReach},
		p,
	}, s.handler.pointers)
}

func (s *WorldSuite) TestDisabledBodiesArePruned() {
	for i := 0; i < 1000; i++ {
		id := s.world.SpawnCollectible(host.CollectibleSpec{Variant: "soda_can", X: 40, Y: -20})
		s.world.DisableEntity(id)
	}
	kept := s.world.SpawnCollectible(host.CollectibleSpec{Variant: "soda_can", X: 40, Y: -20})
	s.Equal(1001, s.world.BodyCount())

	s.world.Step(frame)

	s.Equal(1, s.world.BodyCount())
	s.world.DestroyEntity(kept)
	s.Zero(s.world.BodyCount())
}

func (s *WorldSuite) TestCollectedItemsDoNotAccumulate() {
	s.handler.collect = true
	s.run(time.Second)
	p := s.world.PlayerPosition()

	for i := 0; i < 50; i++ {
		s.world.SpawnCollectible(host.CollectibleSpec{Variant: "soda_can", X: p.X, Y: p.Y})
		s.world.Step(frame)
	}

	s.Zero(s.world.BodyCount())
	s.Len(s.handler.overlaps, 50)
}
