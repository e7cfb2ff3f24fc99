// Package ui renders the live view of a batch run in the terminal.
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"contenttag/internal/pipeline"
)

const (
	statusColumn = 10
	// строк списка, если высота терминала неизвестна
	defaultRows = 12
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	activeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	failStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

type fileRow struct {
	path    string
	label   string
	stage   pipeline.Stage
	status  pipeline.Status
	elapsed time.Duration
	// порядок последнего изменения, чтобы показывать свежие строки
	touched int
}

func (r *fileRow) finished() bool {
	switch r.status {
	case pipeline.StatusDone, pipeline.StatusSkipped, pipeline.StatusError:
		return true
	}
	return false
}

// weight is the share of the row's work already done.
func (r *fileRow) weight() float64 {
	if r.finished() {
		return 1
	}
	switch r.stage {
	case pipeline.StageLoad:
		return 0.1
	case pipeline.StageLocate, pipeline.StageRewrite:
		return 0.4
	case pipeline.StageWrite:
		return 0.8
	}
	return 0
}

type batchModel struct {
	title  string
	events <-chan pipeline.Event
	spin   spinner.Model
	bar    progress.Model

	rows   []fileRow
	byPath map[string]int
	clock  int

	done, cached, failed int

	width, height int
	closed        bool
}

type eventMsg pipeline.Event

type closedMsg struct{}

// NewProgressModel returns a Bubble Tea model that follows the events of a
// batch over files. It quits once events is closed.
func NewProgressModel(title string, files []string, events <-chan pipeline.Event) tea.Model {
	spin := spinner.New(spinner.WithSpinner(spinner.MiniDot), spinner.WithStyle(activeStyle))
	bar := progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage())
	bar.Width = 60

	m := &batchModel{
		title:  title,
		events: events,
		spin:   spin,
		bar:    bar,
		rows:   make([]fileRow, len(files)),
		byPath: make(map[string]int, len(files)),
		width:  80,
	}
	for i, f := range files {
		m.rows[i] = fileRow{path: f, label: "queued", status: pipeline.StatusQueued}
		m.byPath[f] = i
	}
	return m
}

func (m *batchModel) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.next())
}

func (m *batchModel) next() tea.Cmd {
	return func() tea.Msg {
		if ev, ok := <-m.events; ok {
			return eventMsg(ev)
		}
		return closedMsg{}
	}
}

func (m *batchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		return m, tea.Batch(m.apply(pipeline.Event(msg)), m.next())
	case closedMsg:
		m.closed = true
		return m, tea.Quit
	case tea.KeyMsg:
		// прерывание обрабатывает вызывающий через контекст
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.bar.Width = max(msg.Width-statusColumn-8, 10)
	case spinner.TickMsg:
		if !m.closed {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}
	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		return m, cmd
	}
	return m, nil
}

// apply folds one event into the rows and returns the bar animation.
func (m *batchModel) apply(ev pipeline.Event) tea.Cmd {
	i, ok := m.byPath[ev.File]
	if !ok {
		return nil
	}
	row := &m.rows[i]
	if row.finished() {
		return nil
	}
	m.clock++
	row.touched = m.clock
	row.status = ev.Status
	if ev.Stage != "" {
		row.stage = ev.Stage
	}
	if label := statusLabel(ev.Stage, ev.Status); label != "" {
		row.label = label
	}
	switch ev.Status {
	case pipeline.StatusDone:
		m.done++
	case pipeline.StatusSkipped:
		m.cached++
	case pipeline.StatusError:
		m.failed++
	}
	if row.finished() {
		row.elapsed = ev.Elapsed
	}

	var sum float64
	for j := range m.rows {
		sum += m.rows[j].weight()
	}
	return m.bar.SetPercent(sum / float64(max(len(m.rows), 1)))
}

func (m *batchModel) finishedCount() int {
	return m.done + m.cached + m.failed
}

func (m *batchModel) View() string {
	if len(m.rows) == 0 {
		return ""
	}
	var b strings.Builder

	lead := m.spin.View()
	if m.closed {
		lead = okStyle.Render("✓")
		if m.failed > 0 {
			lead = failStyle.Render("✗")
		}
	}
	fmt.Fprintf(&b, "%s %s\n", lead, headerStyle.Render(fmt.Sprintf("%s %d/%d", m.title, m.finishedCount(), len(m.rows))))

	nameWidth := max(m.width-statusColumn-12, 16)
	for _, i := range m.visible() {
		row := &m.rows[i]
		status := fmt.Sprintf("%*s", statusColumn, row.label)
		line := "  " + rowStyle(row).Render(status) + " " + truncate(row.path, nameWidth)
		if row.finished() && row.elapsed > 0 {
			line += dimStyle.Render(fmt.Sprintf(" %.1fms", float64(row.elapsed)/float64(time.Millisecond)))
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	if hidden := len(m.rows) - len(m.visible()); hidden > 0 {
		b.WriteString(dimStyle.Render(fmt.Sprintf("  … %d more", hidden)))
		b.WriteByte('\n')
	}

	if m.closed {
		b.WriteString(m.bar.ViewAs(1))
	} else {
		b.WriteString(m.bar.View())
	}
	fmt.Fprintf(&b, "\n%s\n", dimStyle.Render(fmt.Sprintf("done %d  cached %d  failed %d", m.done, m.cached, m.failed)))
	return b.String()
}

// visible picks the rows that fit: working files first, then the most
// recently touched ones, shown in input order.
func (m *batchModel) visible() []int {
	limit := defaultRows
	if m.height > 0 {
		limit = max(m.height-6, 3)
	}
	if len(m.rows) <= limit {
		out := make([]int, len(m.rows))
		for i := range out {
			out[i] = i
		}
		return out
	}
	picked := make([]bool, len(m.rows))
	n := 0
	for i := range m.rows {
		if n < limit && m.rows[i].status == pipeline.StatusWorking {
			picked[i] = true
			n++
		}
	}
	for n < limit {
		best := -1
		for i := range m.rows {
			if !picked[i] && m.rows[i].touched > 0 && (best < 0 || m.rows[i].touched > m.rows[best].touched) {
				best = i
			}
		}
		if best < 0 {
			break
		}
		picked[best] = true
		n++
	}
	out := make([]int, 0, n)
	for i, ok := range picked {
		if ok {
			out = append(out, i)
		}
	}
	return out
}

func statusLabel(stage pipeline.Stage, status pipeline.Status) string {
	switch status {
	case pipeline.StatusQueued:
		return "queued"
	case pipeline.StatusDone:
		return "done"
	case pipeline.StatusSkipped:
		return "cached"
	case pipeline.StatusError:
		return "error"
	case pipeline.StatusWorking:
		switch stage {
		case pipeline.StageLoad:
			return "loading"
		case pipeline.StageLocate:
			return "locating"
		case pipeline.StageRewrite:
			return "rewriting"
		case pipeline.StageWrite:
			return "writing"
		}
	}
	return ""
}

func rowStyle(row *fileRow) lipgloss.Style {
	switch row.status {
	case pipeline.StatusDone, pipeline.StatusSkipped:
		return okStyle
	case pipeline.StatusError:
		return failStyle
	case pipeline.StatusWorking:
		return activeStyle
	}
	return dimStyle
}

// truncate cuts value to width terminal cells, keeping the tail of the path.
func truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	// хвост пути информативнее начала
	rs := []rune(value)
	w := 0
	i := len(rs)
	for i > 0 {
		rw := runewidth.RuneWidth(rs[i-1])
		if w+rw > width-3 {
			break
		}
		w += rw
		i--
	}
	return "..." + string(rs[i:])
}
