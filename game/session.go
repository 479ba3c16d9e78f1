package game

import (
	"math/rand/v2"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Media is a loaded, playable track.
type Media interface {
	Play() error
	Pause()
	// Rewind moves the playing position back to the start.
	Rewind() error
	Position() time.Duration
	Length() time.Duration
	// Close releases the track. It is called exactly once per track.
	Close() error
}

const (
	DefaultWarmup       = 22 * time.Second
	DefaultMinInterrupt = 10 * time.Second
	DefaultMaxInterrupt = 20 * time.Second
	DefaultPollInterval = 500 * time.Millisecond
)

// Settings tune the game.
type Settings struct {
	// Warmup is how long the first segment after loading a track (or after
	// a replay) lasts.
	Warmup time.Duration
	// Every later segment lasts a random duration in [MinInterrupt, MaxInterrupt).
	MinInterrupt time.Duration
	MaxInterrupt time.Duration
	PollInterval time.Duration
}

func DefaultSettings() Settings {
	return Settings{
		Warmup:       DefaultWarmup,
		MinInterrupt: DefaultMinInterrupt,
		MaxInterrupt: DefaultMaxInterrupt,
		PollInterval: DefaultPollInterval,
	}
}

// Snapshot is a copy of a session's state for rendering.
type Snapshot struct {
	Loaded     bool
	LoadID     uint64
	State      State
	Percent    float64
	Pending    time.Duration
	HasPending bool
}

// Session owns the loaded track and the timers that interrupt it.
//
// Only one interrupt timer is ever armed. Timer callbacks carry the
// generation they were armed with and do nothing once superseded, since a
// callback may already be waiting on the lock when its timer gets stopped.
type Session struct {
	mu sync.Mutex

	settings Settings
	clock    Clock
	rng      *rand.Rand
	notify   func(Status)

	media      Media
	loadID     uint64
	state      State
	percent    float64
	pending    time.Duration
	hasPending bool
	seq        uint64
	// ended is set once the track has played through to its end.
	ended bool

	interrupt    Timer
	interruptGen uint64
	poll         Timer
	pollGen      uint64
}

type Option func(*Session)

func WithClock(c Clock) Option {
	return func(s *Session) { s.clock = c }
}

func WithRand(r *rand.Rand) Option {
	return func(s *Session) { s.rng = r }
}

// WithNotify sets the function receiving status updates. It is called
// without the session lock held, from whichever goroutine caused the change.
func WithNotify(f func(Status)) Option {
	return func(s *Session) { s.notify = f }
}

func NewSession(settings Settings, opts ...Option) *Session {
	s := &Session{
		settings: settings,
		clock:    RealClock{},
		rng:      rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		notify:   func(Status) {},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load installs a new track, releasing the previous one. The next start
// uses the warm-up window. It returns an identifier for the loaded track.
func (s *Session) Load(m Media) uint64 {
	s.mu.Lock()
	old := s.media
	s.stopInterruptLocked()
	s.stopPollLocked()
	s.media = m
	s.loadID++
	s.state = Idle
	s.percent = 0
	s.ended = false
	s.clearPendingLocked()
	out := []Status{
		MediaUpdate{Seq: s.nextSeqLocked(), LoadID: s.loadID},
		s.progressLocked(),
		s.playStateLocked(),
	}
	id := s.loadID
	s.mu.Unlock()

	if old != nil {
		if err := old.Close(); err != nil {
			logrus.WithError(err).Warn("failed to release previous track")
		}
	}
	s.emit(out)
	return id
}

// TogglePlay pauses a playing track and starts a stopped or interrupted one.
// Without a loaded track it does nothing.
func (s *Session) TogglePlay() error {
	s.mu.Lock()
	if s.media == nil {
		s.mu.Unlock()
		logrus.Debug("toggle ignored, no track loaded")
		return nil
	}

	if s.state == Playing {
		s.media.Pause()
		s.state = Idle
		s.stopInterruptLocked()
		s.stopPollLocked()
		s.percent = Percent(s.media.Position(), s.media.Length())
		out := []Status{s.progressLocked(), s.playStateLocked()}
		s.mu.Unlock()
		s.emit(out)
		return nil
	}

	out, err := s.startLocked()
	s.mu.Unlock()
	s.emit(out)
	return err
}

// Start plays the track identified by loadID unless it is already playing.
// It does nothing when another track has been loaded since.
func (s *Session) Start(loadID uint64) error {
	s.mu.Lock()
	if s.media == nil || loadID != s.loadID || s.state == Playing {
		s.mu.Unlock()
		logrus.WithField("load", loadID).Debug("start ignored")
		return nil
	}
	out, err := s.startLocked()
	s.mu.Unlock()
	s.emit(out)
	return err
}

// startLocked plays a stopped or interrupted track. A track that played to
// its end starts over from the beginning with a fresh warm-up.
func (s *Session) startLocked() ([]Status, error) {
	var out []Status
	if s.ended {
		if err := s.media.Rewind(); err != nil {
			return nil, err
		}
		s.ended = false
		s.percent = 0
		s.clearPendingLocked()
		out = append(out, s.progressLocked())
	}
	if err := s.media.Play(); err != nil {
		return out, err
	}
	s.state = Playing
	s.onPlaybackStartLocked()
	return append(out, s.playStateLocked()), nil
}

// Replay restarts the track from the beginning and forgets the pending
// delay, whatever state the session was in. Without a loaded track it does
// nothing.
func (s *Session) Replay() error {
	s.mu.Lock()
	if s.media == nil {
		s.mu.Unlock()
		logrus.Debug("replay ignored, no track loaded")
		return nil
	}

	if err := s.media.Rewind(); err != nil {
		s.mu.Unlock()
		return err
	}
	if err := s.media.Play(); err != nil {
		s.state = Idle
		s.stopInterruptLocked()
		s.stopPollLocked()
		out := []Status{s.playStateLocked()}
		s.mu.Unlock()
		s.emit(out)
		return err
	}

	s.percent = 0
	s.ended = false
	s.clearPendingLocked()
	s.state = Playing
	s.onPlaybackStartLocked()
	out := []Status{s.progressLocked(), s.playStateLocked()}
	s.mu.Unlock()
	s.emit(out)
	return nil
}

// MediaEnded tells the session that m played through to its end.
// Reports about a track that is no longer loaded are ignored.
func (s *Session) MediaEnded(m Media) {
	s.mu.Lock()
	if s.media == nil || s.media != m {
		s.mu.Unlock()
		return
	}
	s.stopInterruptLocked()
	s.stopPollLocked()
	s.state = Idle
	s.percent = 100
	s.ended = true
	out := []Status{s.progressLocked(), s.playStateLocked()}
	s.mu.Unlock()
	s.emit(out)
}

// Close stops all timers and releases the loaded track.
func (s *Session) Close() error {
	s.mu.Lock()
	s.stopInterruptLocked()
	s.stopPollLocked()
	m := s.media
	s.media = nil
	s.state = Idle
	s.mu.Unlock()

	if m != nil {
		return m.Close()
	}
	return nil
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Loaded:     s.media != nil,
		LoadID:     s.loadID,
		State:      s.state,
		Percent:    s.percent,
		Pending:    s.pending,
		HasPending: s.hasPending,
	}
}

// onPlaybackStartLocked arms the interrupt for the segment that just
// started and starts polling the position.
func (s *Session) onPlaybackStartLocked() {
	s.stopInterruptLocked()

	delay := s.settings.Warmup
	if s.hasPending {
		delay = s.pending
	}
	gen := s.interruptGen
	s.interrupt = s.clock.AfterFunc(delay, func() { s.fireInterrupt(gen) })
	logrus.WithFields(logrus.Fields{
		"delay":  delay,
		"warmup": !s.hasPending,
	}).Debug("armed interrupt")

	s.startPollLocked()
}

func (s *Session) fireInterrupt(gen uint64) {
	s.mu.Lock()
	if gen != s.interruptGen || s.state != Playing || s.media == nil {
		s.mu.Unlock()
		return
	}
	s.interrupt = nil
	s.interruptGen++

	s.media.Pause()
	s.state = Interrupted
	s.stopPollLocked()
	s.percent = Percent(s.media.Position(), s.media.Length())
	s.pending = s.drawDelayLocked()
	s.hasPending = true
	logrus.WithField("next", s.pending).Debug("pillow stopped")

	out := []Status{s.progressLocked(), s.playStateLocked()}
	s.mu.Unlock()
	s.emit(out)
}

// drawDelayLocked picks a delay uniformly from [MinInterrupt, MaxInterrupt)
// in whole milliseconds.
func (s *Session) drawDelayLocked() time.Duration {
	from, to := s.settings.MinInterrupt, s.settings.MaxInterrupt
	steps := int64((to - from) / time.Millisecond)
	if steps <= 0 {
		return from
	}
	return from + time.Duration(s.rng.Int64N(steps))*time.Millisecond
}

func (s *Session) stopInterruptLocked() {
	if s.interrupt != nil {
		s.interrupt.Stop()
		s.interrupt = nil
	}
	s.interruptGen++
}

func (s *Session) startPollLocked() {
	s.stopPollLocked()
	s.schedulePollLocked(s.pollGen)
}

func (s *Session) schedulePollLocked(gen uint64) {
	s.poll = s.clock.AfterFunc(s.settings.PollInterval, func() { s.tick(gen) })
}

func (s *Session) stopPollLocked() {
	if s.poll != nil {
		s.poll.Stop()
		s.poll = nil
	}
	s.pollGen++
}

func (s *Session) tick(gen uint64) {
	s.mu.Lock()
	if gen != s.pollGen || s.state != Playing || s.media == nil {
		s.mu.Unlock()
		return
	}
	s.percent = Percent(s.media.Position(), s.media.Length())
	s.schedulePollLocked(gen)
	out := []Status{s.progressLocked()}
	s.mu.Unlock()
	s.emit(out)
}

func (s *Session) clearPendingLocked() {
	s.pending = 0
	s.hasPending = false
}

func (s *Session) nextSeqLocked() uint64 {
	s.seq++
	return s.seq
}

func (s *Session) playStateLocked() PlayStateUpdate {
	return PlayStateUpdate{
		Seq:        s.nextSeqLocked(),
		State:      s.state,
		Pending:    s.pending,
		HasPending: s.hasPending,
	}
}

func (s *Session) progressLocked() ProgressUpdate {
	return ProgressUpdate{Seq: s.nextSeqLocked(), Percent: s.percent}
}

func (s *Session) emit(out []Status) {
	for _, st := range out {
		s.notify(st)
	}
}
