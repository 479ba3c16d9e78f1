package main

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/pes18fan/pillow/audio"
	"github.com/pes18fan/pillow/game"
	"github.com/pes18fan/pillow/termimg"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// Width of the cover art frame, in terminal columns.
const artCols = 24

type model struct {
	termWidth  int
	termHeight int

	fs         afero.Fs
	session    *game.Session
	statusChan chan game.Status

	keys     keyMap
	help     help.Model
	spinner  spinner.Model
	progress progress.Model
	picker   filepicker.Model
	picking  bool

	// Applied session state, built from status updates. Each kind of
	// update is ordered on its own.
	lastStateSeq    uint64
	lastProgressSeq uint64
	lastMediaSeq    uint64
	state           game.State
	percent         float64

	initialFile string
	loading     bool
	track       string
	loadID      uint64
	art         termimg.TerminalImage

	dark bool
	err  error
}

// tea message type for status updates
type StatusMsg struct {
	Status game.Status
}

type trackLoadedMsg struct {
	path   string
	loadID uint64
	err    error
}

type coverArtMsg struct {
	loadID uint64
	art    termimg.TerminalImage
}

type controlErrMsg struct {
	err error
}

func listenForStatus(statusChan <-chan game.Status) tea.Cmd {
	return func() tea.Msg {
		return StatusMsg{Status: <-statusChan}
	}
}

// loadTrack opens the file at path and hands it to the session, releasing
// whatever was loaded before.
func loadTrack(fs afero.Fs, session *game.Session, path string) tea.Cmd {
	return func() tea.Msg {
		track, err := audio.Open(fs, path)
		if err != nil {
			logrus.WithError(err).WithField("path", path).Error("failed to load track")
			return trackLoadedMsg{path: path, err: err}
		}
		track.OnEnd(func() { session.MediaEnded(track) })
		id := session.Load(track)
		return trackLoadedMsg{path: path, loadID: id}
	}
}

// extractCoverArt reads and encodes the artwork of a loaded track. A file
// without usable artwork gives an empty image.
func extractCoverArt(fs afero.Fs, path string, loadID uint64) tea.Cmd {
	return func() tea.Msg {
		art := audio.ExtractCoverArt(fs, path)
		if art.Empty() {
			return coverArtMsg{loadID: loadID}
		}
		logrus.WithField("bytes", len(art.DataURI())).Debug("artwork data uri ready")

		img, err := termimg.Encode(art.Data, artCols)
		if err != nil {
			logrus.WithError(err).Warn("failed to read artwork")
			return coverArtMsg{loadID: loadID}
		}
		return coverArtMsg{loadID: loadID, art: img}
	}
}

// control runs a session operation off the update loop.
func control(op func() error) tea.Cmd {
	return func() tea.Msg {
		if err := op(); err != nil {
			return controlErrMsg{err: err}
		}
		return nil
	}
}

// pickerTypes lists the extensions the file picker offers. The picker
// matches suffixes case-sensitively, so upper-case variants are added.
func pickerTypes() []string {
	return lo.FlatMap(audio.Extensions, func(ext string, _ int) []string {
		return []string{ext, strings.ToUpper(ext)}
	})
}

func initialModel(fs afero.Fs, session *game.Session, statusChan chan game.Status, dark bool, file string) model {
	picker := filepicker.New()
	picker.AllowedTypes = pickerTypes()
	if wd, err := os.Getwd(); err == nil {
		picker.CurrentDirectory = wd
	}

	return model{
		fs:          fs,
		session:     session,
		statusChan:  statusChan,
		keys:        defaultKeyMap,
		help:        help.New(),
		spinner:     spinner.New(spinner.WithSpinner(spinner.Dot)),
		progress:    progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		picker:      picker,
		initialFile: file,
		loading:     file != "",
		dark:        dark,
	}
}

func (m model) Init() tea.Cmd {
	cmds := []tea.Cmd{listenForStatus(m.statusChan), m.spinner.Tick}
	if m.initialFile != "" {
		cmds = append(cmds, loadTrack(m.fs, m.session, m.initialFile))
	}
	return tea.Batch(cmds...)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case StatusMsg:
		m.applyStatus(msg.Status)
		return m, listenForStatus(m.statusChan)
	case trackLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.track = msg.path
		m.loadID = msg.loadID
		m.art = termimg.TerminalImage{}
		logrus.WithField("path", msg.path).Info("track loaded")
		return m, tea.Batch(
			tea.ClearScreen,
			extractCoverArt(m.fs, msg.path, msg.loadID),
			control(func() error { return m.session.Start(msg.loadID) }),
		)
	case coverArtMsg:
		if msg.loadID != m.loadID {
			logrus.Debug("dropping artwork of a replaced track")
			return m, nil
		}
		m.art = msg.art
		return m, tea.ClearScreen
	case controlErrMsg:
		m.err = msg.err
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case progress.FrameMsg:
		pm, cmd := m.progress.Update(msg)
		m.progress = pm.(progress.Model)
		return m, cmd
	case tea.WindowSizeMsg:
		m.termHeight = msg.Height
		m.termWidth = msg.Width
		m.progress.Width = max(10, min(msg.Width-4, 40))
		m.help.Width = msg.Width
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		if m.picking {
			return m.updatePicker(msg)
		}
		switch {
		case key.Matches(msg, m.keys.Quit):
			if err := m.session.Close(); err != nil {
				logrus.WithError(err).Warn("failed to release track")
			}
			return m, tea.Quit
		case key.Matches(msg, m.keys.TogglePlay):
			return m, control(m.session.TogglePlay)
		case key.Matches(msg, m.keys.Replay):
			return m, control(m.session.Replay)
		case key.Matches(msg, m.keys.Theme):
			m.dark = !m.dark
			return m, nil
		case key.Matches(msg, m.keys.Upload):
			m.picking = true
			return m, m.picker.Init()
		}
	}

	if m.picking {
		return m.updatePicker(msg)
	}
	return m, nil
}

func (m model) updatePicker(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		if key.Matches(k, m.keys.Cancel) {
			m.picking = false
			return m, nil
		}
		if k.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)

	if ok, path := m.picker.DidSelectFile(msg); ok {
		m.picking = false
		m.loading = true
		return m, tea.Batch(cmd, loadTrack(m.fs, m.session, path))
	}
	if ok, path := m.picker.DidSelectDisabledFile(msg); ok {
		m.err = fmt.Errorf("%s: %w", filepath.Base(path), audio.ErrUnsupportedFormat)
	}
	return m, cmd
}

// applyStatus folds a status update into the model. Updates older than the
// last one of the same kind are dropped.
func (m *model) applyStatus(s game.Status) {
	if s == nil {
		return
	}

	switch status := s.(type) {
	case game.PlayStateUpdate:
		if !advance(&m.lastStateSeq, status.Seq) {
			return
		}
		m.state = status.State
		logrus.WithFields(logrus.Fields{
			"state":   status.State,
			"pending": status.Pending,
		}).Debug("playback state updated")
	case game.ProgressUpdate:
		if !advance(&m.lastProgressSeq, status.Seq) {
			return
		}
		m.percent = status.Percent
	case game.MediaUpdate:
		if !advance(&m.lastMediaSeq, status.Seq) {
			return
		}
		m.loadID = status.LoadID
	}
}

func advance(last *uint64, seq uint64) bool {
	if seq <= *last {
		return false
	}
	*last = seq
	return true
}

func (m model) stateLine() string {
	switch {
	case m.loading:
		return "Loading..."
	case m.track == "":
		return "Press u to pick a track"
	case m.state == game.Playing:
		return m.spinner.View() + " Playing"
	case m.state == game.Interrupted:
		return "Stopped! Pass the pillow"
	default:
		return "Paused"
	}
}

func (m model) View() string {
	width := max(m.termWidth, artCols+4)
	t := newTheme(m.dark, width)

	var b strings.Builder
	b.WriteString(t.heading.Render("Pass the pillow"))
	b.WriteString("\n\n")

	if m.picking {
		b.WriteString(t.info.Render("Pick a track"))
		b.WriteString("\n\n")
		b.WriteString(m.picker.View())
		b.WriteString("\n")
		b.WriteString(t.dim.Render("esc to cancel"))
		return b.String()
	}

	art := m.artView(t)
	percent := t.percent.Render(fmt.Sprintf("%d%%", int(math.Round(m.percent))))
	frame := t.frame.Render(lipgloss.JoinVertical(lipgloss.Center, art, percent))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, frame))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, m.progress.ViewAs(m.percent/100)))
	b.WriteString("\n")

	if m.state == game.Interrupted {
		b.WriteString(t.interrupted.Render(m.stateLine()))
	} else {
		b.WriteString(t.info.Render(m.stateLine()))
	}
	b.WriteString("\n")
	if m.track != "" {
		b.WriteString(t.dim.Render(filepath.Base(m.track)))
		b.WriteString("\n")
	}
	if m.err != nil {
		b.WriteString(t.err.Render(m.err.Error()))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))

	return b.String()
}

// artView renders the cover art or its placeholder. The kitty escape has no
// width of its own, so it is padded to the cells the image covers.
func (m model) artView(t theme) string {
	if m.art.Empty() {
		return t.placeholder.Render("No Album Art")
	}
	return lipgloss.NewStyle().Width(m.art.W).Height(m.art.H).Render(m.art.Data)
}
