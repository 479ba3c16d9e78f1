package audio

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/flac"
	"github.com/gopxl/beep/mp3"
	"github.com/gopxl/beep/speaker"
	"github.com/gopxl/beep/vorbis"
	"github.com/gopxl/beep/wav"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

const RESAMPLE_QUALITY_FACTOR = 4

// Extensions lists the file types a track can be opened from.
var Extensions = []string{".mp3", ".flac", ".ogg", ".wav"}

var ErrUnsupportedFormat = errors.New("only mp3, flac, wav and ogg formats are supported")

// The speaker can only be initialized once per process. Every later track
// is resampled to the rate of the first one.
var (
	speakerMu         sync.Mutex
	speakerSampleRate beep.SampleRate = -1
)

// Supported reports whether path has an extension a track can be decoded from.
func Supported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range Extensions {
		if e == ext {
			return true
		}
	}
	return false
}

// Track is a decoded audio file ready to be played on the speaker.
type Track struct {
	mu sync.Mutex

	Path string

	streamer beep.StreamSeekCloser
	format   beep.Format
	ctrl     *beep.Ctrl
	// queued is true while the track sits on the speaker's mixer.
	queued bool
	closed bool
	onEnd  func()
}

// Open decodes the audio file at path. The returned track owns the file
// until Close.
func Open(fs afero.Fs, path string) (*Track, error) {
	if !Supported(path) {
		return nil, ErrUnsupportedFormat
	}

	f, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	// Closing the streamer later will close the file itself, so don't defer close it here

	var streamer beep.StreamSeekCloser
	var format beep.Format

	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	case ".flac":
		streamer, format, err = flac.Decode(f)
	case ".ogg":
		streamer, format, err = vorbis.Decode(f)
	case ".wav":
		streamer, format, err = wav.Decode(f)
	}
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to decode audio file: %w", err)
	}

	logrus.WithField("path", path).Info("opened track")
	return &Track{
		Path:     path,
		streamer: streamer,
		format:   format,
		ctrl:     &beep.Ctrl{Streamer: streamer, Paused: true},
	}, nil
}

// OnEnd sets a function to call once the track plays through to its end.
func (t *Track) OnEnd(f func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onEnd = f
}

// initSpeaker initializes the speaker on first use and reports whether
// the track needs resampling to match it.
func (t *Track) initSpeaker() (bool, error) {
	speakerMu.Lock()
	defer speakerMu.Unlock()

	// Careful not to double-initialize the speaker!
	if speakerSampleRate == -1 {
		if err := speaker.Init(t.format.SampleRate, t.format.SampleRate.N(time.Second/10)); err != nil {
			return false, fmt.Errorf("failed to initialize speaker: %w", err)
		}
		speakerSampleRate = t.format.SampleRate
	}
	return speakerSampleRate != t.format.SampleRate, nil
}

func (t *Track) Play() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return fmt.Errorf("track %s is closed", t.Path)
	}

	if !t.queued {
		if err := t.restartIfFinished(); err != nil {
			return err
		}
		resample, err := t.initSpeaker()
		if err != nil {
			return err
		}

		var s beep.Streamer = t.ctrl
		if resample {
			s = beep.Resample(RESAMPLE_QUALITY_FACTOR, t.format.SampleRate, speakerSampleRate, t.ctrl)
		}

		t.queued = true
		speaker.Play(beep.Seq(s, beep.Callback(t.ended)))
	}

	speaker.Lock()
	t.ctrl.Paused = false
	speaker.Unlock()
	return nil
}

// restartIfFinished seeks a track that played to its end back to the start,
// so queueing it again plays it instead of ending at once.
func (t *Track) restartIfFinished() error {
	speaker.Lock()
	defer speaker.Unlock()
	if t.streamer.Position() < t.streamer.Len() {
		return nil
	}
	if err := t.streamer.Seek(0); err != nil {
		return fmt.Errorf("failed to seek back to start of track: %w", err)
	}
	return nil
}

// ended runs on the speaker goroutine with the speaker locked.
func (t *Track) ended() {
	go func() {
		t.mu.Lock()
		t.queued = false
		onEnd := t.onEnd
		closed := t.closed
		t.mu.Unlock()

		if closed {
			return
		}
		logrus.WithField("path", t.Path).Info("finished playing track")
		if onEnd != nil {
			onEnd()
		}
	}()
}

func (t *Track) Pause() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return
	}
	speaker.Lock()
	t.ctrl.Paused = true
	speaker.Unlock()
}

func (t *Track) Rewind() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return fmt.Errorf("track %s is closed", t.Path)
	}
	speaker.Lock()
	defer speaker.Unlock()
	if err := t.streamer.Seek(0); err != nil {
		return fmt.Errorf("failed to seek back to start of track: %w", err)
	}
	return nil
}

func (t *Track) Position() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return 0
	}
	speaker.Lock()
	defer speaker.Unlock()
	return t.format.SampleRate.D(t.streamer.Position())
}

func (t *Track) Length() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return 0
	}
	speaker.Lock()
	defer speaker.Unlock()
	return t.format.SampleRate.D(t.streamer.Len())
}

// Close takes the track off the speaker and closes the underlying file.
// Calling it more than once is a no-op.
func (t *Track) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil
	}
	t.closed = true

	if t.queued {
		// don't lock the speaker before clearing
		// this is cuz speaker.Clear() already tries to lock it
		speaker.Clear()
		t.queued = false
	}

	speaker.Lock()
	err := t.streamer.Close()
	speaker.Unlock()

	logrus.WithField("path", t.Path).Debug("released track")
	return err
}
