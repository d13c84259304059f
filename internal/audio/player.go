package audio

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/wansatya/x.com/internal/host"
)

// Config holds speaker settings
type Config struct {
	SampleRate   int
	Buffer       time.Duration
	MasterVolume float64
}

// DefaultConfig returns the default speaker settings
func DefaultConfig() Config {
	return Config{
		SampleRate:   44100,
		Buffer:       100 * time.Millisecond,
		MasterVolume: 0.5,
	}
}

// sound is a cue instance that may still be audible
type sound struct {
	ctrl  *beep.Ctrl
	until time.Time
}

// Player plays cues on the system speaker. It is safe for concurrent use.
type Player struct {
	mu          sync.Mutex
	cfg         Config
	sr          beep.SampleRate
	cues        map[host.SoundKey]Cue
	mixer       *beep.Mixer
	playing     map[host.SoundKey][]sound
	initialized bool
	logger      *slog.Logger
}

var _ host.Audio = (*Player)(nil)

// NewPlayer creates a Player. Call Init before playing.
func NewPlayer(cfg Config, logger *slog.Logger) *Player {
	return &Player{
		cfg:     cfg,
		sr:      beep.SampleRate(cfg.SampleRate),
		cues:    DefaultCues,
		mixer:   &beep.Mixer{},
		playing: make(map[host.SoundKey][]sound),
		logger:  logger,
	}
}

// Init opens the speaker and starts the mixer
func (p *Player) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}

	if err := speaker.Init(p.sr, p.sr.N(p.cfg.Buffer)); err != nil {
		return fmt.Errorf("failed to init speaker: %w", err)
	}
	speaker.Play(p.mixer)
	p.initialized = true
	return nil
}

// Close stops all sounds and releases the speaker
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}
	speaker.Lock()
	p.mixer.Clear()
	speaker.Unlock()
	speaker.Close()
	p.playing = make(map[host.SoundKey][]sound)
	p.initialized = false
}

// PlaySound starts the cue for key. Unknown keys are ignored.
func (p *Player) PlaySound(key host.SoundKey, volume float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}
	cue, ok := p.cues[key]
	if !ok {
		return
	}

	s, err := Build(p.sr, cue, volume*p.cfg.MasterVolume)
	if err != nil {
		p.logger.Warn("failed to build cue", slog.String("sound", string(key)), slog.String("error", err.Error()))
		return
	}

	ctrl := &beep.Ctrl{Streamer: s}
	speaker.Lock()
	p.mixer.Add(ctrl)
	speaker.Unlock()

	p.playing[key] = append(p.prune(key), sound{ctrl: ctrl, until: time.Now().Add(cue.Duration())})
}

// StopSound silences every playing instance of key
func (p *Player) StopSound(key host.SoundKey) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}
	speaker.Lock()
	for _, snd := range p.playing[key] {
		snd.ctrl.Paused = true
	}
	speaker.Unlock()
	delete(p.playing, key)
}

// prune drops controls whose cue has finished
func (p *Player) prune(key host.SoundKey) []sound {
	now := time.Now()
	live := p.playing[key][:0]
	for _, snd := range p.playing[key] {
		if now.Before(snd.until) {
			live = append(live, snd)
		}
	}
	return live
}

// Silent is a host.Audio that discards every cue
type Silent struct{}

var _ host.Audio = Silent{}

func (Silent) PlaySound(host.SoundKey, float64) {}
func (Silent) StopSound(host.SoundKey)          {}
