package ui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"wscheck/internal/driver"
)

// recentLimit bounds the rows of the activity list; directory runs can
// touch thousands of files.
const recentLimit = 8

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	stageColor = map[string]lipgloss.Color{
		"done":    "2",
		"error":   "1",
		"skipped": "3",
		"cached":  "3",
	}
)

type fileState struct {
	label string
	stage driver.Stage
	final bool
}

type progressModel struct {
	title  string
	events <-chan driver.Event
	spin   spinner.Model
	bar    progress.Model

	order  []string
	files  map[string]*fileState
	recent []string
	counts map[string]int
	errors []string
	phase  string

	width int
	done  bool
}

type eventMsg driver.Event
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model showing how far a directory
// check over files has come. It quits once events is closed.
func NewProgressModel(title string, files []string, events <-chan driver.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = 76

	m := &progressModel{
		title:  title,
		events: events,
		spin:   sp,
		bar:    bar,
		order:  slices.Clone(files),
		files:  make(map[string]*fileState, len(files)),
		counts: make(map[string]int),
		width:  80,
	}
	for _, f := range files {
		m.files[f] = &fileState{label: string(driver.StatusQueued)}
	}
	return m
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.next())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		return m, tea.Batch(m.apply(driver.Event(msg)), m.next())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.bar.Width = msg.Width - 4
		}
	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) next() tea.Cmd {
	return func() tea.Msg {
		if ev, ok := <-m.events; ok {
			return eventMsg(ev)
		}
		return doneMsg{}
	}
}

func (m *progressModel) finished() int {
	n := 0
	for _, c := range m.counts {
		n += c
	}
	return n
}

// apply folds one event into the model. Run-level events (no File) only
// update the phase shown in the header.
func (m *progressModel) apply(ev driver.Event) tea.Cmd {
	label := statusLabel(ev.Stage, ev.Status)
	if label == "" {
		return nil
	}
	if ev.File == "" {
		m.phase = label
		return nil
	}
	st, ok := m.files[ev.File]
	if !ok || st.final {
		return nil
	}
	st.label, st.stage = label, ev.Stage
	m.touch(ev.File)

	if isFinal(ev) {
		st.final = true
		m.counts[string(ev.Status)]++
		if ev.Status == driver.StatusError {
			msg := ev.File
			if ev.Err != nil {
				msg += ": " + ev.Err.Error()
			}
			m.errors = append(m.errors, msg)
		}
	}

	sum := 0.0
	for _, f := range m.files {
		if f.final {
			sum++
		} else {
			sum += stageWeight(f.stage)
		}
	}
	return m.bar.SetPercent(sum / float64(len(m.files)))
}

// touch moves path to the end of the activity list.
func (m *progressModel) touch(path string) {
	if i := slices.Index(m.recent, path); i >= 0 {
		m.recent = slices.Delete(m.recent, i, i+1)
	}
	m.recent = append(m.recent, path)
	if len(m.recent) > recentLimit {
		m.recent = m.recent[len(m.recent)-recentLimit:]
	}
}

func (m *progressModel) View() string {
	if len(m.order) == 0 {
		return ""
	}
	header := fmt.Sprintf("%s %d/%d", m.title, m.finished(), len(m.order))
	if m.phase != "" {
		header += " (" + m.phase + ")"
	}
	if m.done {
		header = "done: " + header
	} else {
		header = m.spin.View() + " " + header
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n")

	var tally []string
	for _, s := range []string{"done", "cached", "skipped", "error"} {
		if n := m.counts[s]; n > 0 {
			tally = append(tally, labelStyle(s).Render(fmt.Sprintf("%d %s", n, s)))
		}
	}
	if len(tally) > 0 {
		b.WriteString("  " + strings.Join(tally, dimStyle.Render(" · ")) + "\n")
	}
	b.WriteString("\n")

	const labelWidth = 10
	nameWidth := max(m.width-labelWidth-4, 20)
	for _, path := range m.recent {
		st := m.files[path]
		fmt.Fprintf(&b, "  %s %s\n",
			labelStyle(st.label).Render(fmt.Sprintf("%*s", labelWidth, st.label)),
			truncate(path, nameWidth))
	}
	for _, e := range m.errors {
		b.WriteString(labelStyle("error").Render("  ! "+truncate(e, m.width-4)) + "\n")
	}

	b.WriteString("\n")
	if m.done {
		b.WriteString(m.bar.ViewAs(1.0))
	} else {
		b.WriteString(m.bar.View())
	}
	b.WriteString("\n")
	return b.String()
}

// isFinal reports whether ev closes a file. Load errors and the end of
// detection are final; skipped and cached files never reach detection.
func isFinal(ev driver.Event) bool {
	switch ev.Status {
	case driver.StatusError, driver.StatusSkipped, driver.StatusCached:
		return true
	case driver.StatusDone:
		return ev.Stage == driver.StageDetect || ev.Stage == driver.StageFix
	}
	return false
}

func stageWeight(stage driver.Stage) float64 {
	switch stage {
	case driver.StageLoad:
		return 0.1
	case driver.StageLex:
		return 0.4
	case driver.StageDetect:
		return 0.8
	case driver.StageFix:
		return 0.9
	}
	return 0
}

var workingLabels = map[driver.Stage]string{
	driver.StageLoad:   "loading",
	driver.StageLex:    "lexing",
	driver.StageDetect: "detecting",
	driver.StageFix:    "fixing",
}

func statusLabel(stage driver.Stage, status driver.Status) string {
	if status == driver.StatusWorking {
		return workingLabels[stage]
	}
	return string(status)
}

func labelStyle(label string) lipgloss.Style {
	c, ok := stageColor[label]
	switch {
	case ok:
	case label == string(driver.StatusQueued) || label == "":
		c = "7"
	default:
		c = "6"
	}
	return lipgloss.NewStyle().Foreground(c)
}

func truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}
