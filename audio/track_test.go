package audio

import (
	"errors"
	"testing"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"
	"github.com/spf13/afero"
)

func TestSupported(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"song.mp3", true},
		{"SONG.MP3", true},
		{"dir/song.flac", true},
		{"song.ogg", true},
		{"song.wav", true},
		{"song.m4a", false},
		{"song", false},
		{"mp3", false},
	}

	for _, tt := range tests {
		if got := Supported(tt.path); got != tt.want {
			t.Errorf("Supported(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestOpenErrors(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "junk.wav", []byte("definitely not a wav file"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	if _, err := Open(fs, "notes.txt"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Open(notes.txt) error = %v, want ErrUnsupportedFormat", err)
	}
	if _, err := Open(fs, "missing.mp3"); err == nil {
		t.Errorf("Open(missing.mp3) should fail")
	}
	if _, err := Open(fs, "junk.wav"); err == nil {
		t.Errorf("Open(junk.wav) should fail")
	}
}

func writeSilence(t *testing.T, fs afero.Fs, path string, d time.Duration) {
	t.Helper()
	format := beep.Format{SampleRate: 44100, NumChannels: 2, Precision: 2}
	f, err := fs.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()
	if err := wav.Encode(f, beep.Silence(format.SampleRate.N(d)), format); err != nil {
		t.Fatalf("encode wav: %v", err)
	}
}

func TestTrackLifecycle(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeSilence(t, fs, "silence.wav", time.Second)

	track, err := Open(fs, "silence.wav")
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	if got := track.Length(); got != time.Second {
		t.Errorf("Length() = %v, want 1s", got)
	}
	if got := track.Position(); got != 0 {
		t.Errorf("Position() = %v, want 0", got)
	}
	if err := track.Rewind(); err != nil {
		t.Errorf("Rewind() = %v", err)
	}

	if err := track.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := track.Close(); err != nil {
		t.Errorf("second close: %v", err)
	}
	if got := track.Length(); got != 0 {
		t.Errorf("Length() after close = %v, want 0", got)
	}
	if err := track.Play(); err == nil {
		t.Errorf("Play() on a closed track should fail")
	}
}

func TestFinishedTrackStartsOver(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeSilence(t, fs, "silence.wav", time.Second)

	track, err := Open(fs, "silence.wav")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer track.Close()

	if err := track.streamer.Seek(track.streamer.Len() / 2); err != nil {
		t.Fatalf("seek: %v", err)
	}
	if err := track.restartIfFinished(); err != nil {
		t.Fatalf("restartIfFinished: %v", err)
	}
	if got := track.Position(); got != 500*time.Millisecond {
		t.Errorf("Position() of an unfinished track = %v, want 500ms", got)
	}

	if err := track.streamer.Seek(track.streamer.Len()); err != nil {
		t.Fatalf("seek: %v", err)
	}
	if got := track.Position(); got != time.Second {
		t.Fatalf("Position() at the end = %v, want 1s", got)
	}
	if err := track.restartIfFinished(); err != nil {
		t.Fatalf("restartIfFinished: %v", err)
	}
	if got := track.Position(); got != 0 {
		t.Errorf("Position() of a finished track = %v, want 0", got)
	}
}
