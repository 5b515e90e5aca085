package ui

import (
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"ccgen/internal/buildpipeline"
)

// unitState is what one row of the build view shows.
type unitState uint8

const (
	stateQueued unitState = iota
	stateDecoding
	stateLowering
	stateWriting
	stateDone
	stateCached
	stateFailed
)

func (s unitState) String() string {
	switch s {
	case stateDecoding:
		return "decoding"
	case stateLowering:
		return "lowering"
	case stateWriting:
		return "writing"
	case stateDone:
		return "done"
	case stateCached:
		return "cached"
	case stateFailed:
		return "error"
	default:
		return "queued"
	}
}

func (s unitState) finished() bool {
	return s == stateDone || s == stateCached || s == stateFailed
}

// weight is the share of a unit's work that is complete in state s.
func (s unitState) weight() float64 {
	switch s {
	case stateDecoding:
		return 0.1
	case stateLowering:
		return 0.4
	case stateWriting:
		return 0.8
	case stateDone, stateCached, stateFailed:
		return 1
	default:
		return 0
	}
}

type unitRow struct {
	path    string
	state   unitState
	elapsed time.Duration
	err     string
}

type eventMsg buildpipeline.Event
type doneMsg struct{}

type buildModel struct {
	title   string
	events  <-chan buildpipeline.Event
	spinner spinner.Model
	bar     progress.Model
	rows    []unitRow
	byPath  map[string]int
	width   int
	done    bool
}

// NewProgressModel returns a Bubble Tea model that follows one build. It
// quits once events is closed.
func NewProgressModel(title string, files []string, events <-chan buildpipeline.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = 76

	m := &buildModel{
		title:   title,
		events:  events,
		spinner: sp,
		bar:     bar,
		rows:    make([]unitRow, len(files)),
		byPath:  make(map[string]int, len(files)),
		width:   80,
	}
	for i, file := range files {
		m.rows[i] = unitRow{path: file}
		m.byPath[file] = i
	}
	return m
}

func (m *buildModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.next())
}

func (m *buildModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		return m, tea.Batch(m.apply(buildpipeline.Event(msg)), m.next())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.bar.Width = msg.Width - 4
		}
		return m, nil
	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *buildModel) next() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *buildModel) apply(ev buildpipeline.Event) tea.Cmd {
	idx, ok := m.byPath[ev.File]
	if !ok {
		return nil
	}
	row := &m.rows[idx]
	if row.state == stateFailed {
		return nil
	}
	row.elapsed += ev.Elapsed
	if state, changed := transition(row.state, ev); changed {
		row.state = state
	}
	if ev.Status == buildpipeline.StatusError && ev.Err != nil {
		row.err = ev.Err.Error()
	}
	return m.bar.SetPercent(m.percent())
}

// transition maps an event onto the next row state. A finished intermediate
// stage keeps the row where it is until the following stage starts, and a
// cached unit stays cached while its output is written.
func transition(cur unitState, ev buildpipeline.Event) (unitState, bool) {
	if cur == stateCached && ev.Status != buildpipeline.StatusError {
		return cur, false
	}
	switch ev.Status {
	case buildpipeline.StatusQueued:
		return stateQueued, true
	case buildpipeline.StatusError:
		return stateFailed, true
	case buildpipeline.StatusCached:
		return stateCached, true
	case buildpipeline.StatusDone:
		if ev.Stage == buildpipeline.StageWrite {
			return stateDone, true
		}
	case buildpipeline.StatusWorking:
		switch ev.Stage {
		case buildpipeline.StageDecode:
			return stateDecoding, true
		case buildpipeline.StageLower:
			return stateLowering, true
		case buildpipeline.StageWrite:
			return stateWriting, true
		}
	}
	return cur, false
}

func (m *buildModel) percent() float64 {
	if len(m.rows) == 0 {
		return 0
	}
	total := 0.0
	for _, row := range m.rows {
		total += row.state.weight()
	}
	return total / float64(len(m.rows))
}

// counts returns finished, cached and failed unit totals.
func (m *buildModel) counts() (finished, cached, failed int) {
	for _, row := range m.rows {
		if row.state.finished() {
			finished++
		}
		switch row.state {
		case stateCached:
			cached++
		case stateFailed:
			failed++
		}
	}
	return finished, cached, failed
}
