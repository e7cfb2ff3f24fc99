package ui

import (
	"fmt"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contenttag/internal/pipeline"
)

func newModel(t *testing.T, files ...string) *batchModel {
	t.Helper()
	m, ok := NewProgressModel("rewrite", files, make(chan pipeline.Event)).(*batchModel)
	require.True(t, ok)
	return m
}

func TestModelCountsOutcomes(t *testing.T) {
	m := newModel(t, "a.gjs", "b.gts", "c.gjs")
	for _, ev := range []pipeline.Event{
		{File: "a.gjs", Stage: pipeline.StageRewrite, Status: pipeline.StatusWorking},
		{File: "a.gjs", Status: pipeline.StatusDone, Elapsed: 1500 * time.Microsecond},
		{File: "b.gts", Status: pipeline.StatusError},
		{File: "c.gjs", Status: pipeline.StatusSkipped},
		// после завершения события игнорируются
		{File: "a.gjs", Status: pipeline.StatusError},
		{File: "unknown.gjs", Status: pipeline.StatusDone},
	} {
		m.apply(ev)
	}
	assert.Equal(t, 1, m.done)
	assert.Equal(t, 1, m.cached)
	assert.Equal(t, 1, m.failed)
	assert.Equal(t, "done", m.rows[0].label)
	assert.Equal(t, pipeline.StageRewrite, m.rows[0].stage)

	view := m.View()
	assert.Contains(t, view, "rewrite 3/3")
	assert.Contains(t, view, "a.gjs 1.5ms")
	assert.Contains(t, view, "done 1  cached 1  failed 1")
}

func TestModelQuitsWhenClosed(t *testing.T) {
	m := newModel(t, "a.gjs")
	_, cmd := m.Update(closedMsg{})
	require.NotNil(t, cmd)
	assert.True(t, m.closed)
	_, ok := cmd().(tea.QuitMsg)
	assert.True(t, ok)
}

func TestNextReadsChannel(t *testing.T) {
	events := make(chan pipeline.Event, 1)
	m := NewProgressModel("x", []string{"a.gjs"}, events).(*batchModel)
	events <- pipeline.Event{File: "a.gjs", Status: pipeline.StatusDone}
	msg := m.next()()
	assert.Equal(t, eventMsg{File: "a.gjs", Status: pipeline.StatusDone}, msg)
	close(events)
	assert.Equal(t, closedMsg{}, m.next()())
}

func TestVisiblePrefersActiveRows(t *testing.T) {
	files := make([]string, 20)
	for i := range files {
		files[i] = fmt.Sprintf("f%02d.gjs", i)
	}
	m := newModel(t, files...)
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 10})
	m.apply(pipeline.Event{File: "f19.gjs", Stage: pipeline.StageLoad, Status: pipeline.StatusWorking})
	m.apply(pipeline.Event{File: "f03.gjs", Status: pipeline.StatusDone})

	vis := m.visible()
	require.Len(t, vis, 2)
	assert.Equal(t, []int{3, 19}, vis)
	assert.Contains(t, m.View(), "18 more")
}

func TestStatusLabels(t *testing.T) {
	tests := []struct {
		stage  pipeline.Stage
		status pipeline.Status
		want   string
	}{
		{"", pipeline.StatusQueued, "queued"},
		{pipeline.StageLoad, pipeline.StatusWorking, "loading"},
		{pipeline.StageLocate, pipeline.StatusWorking, "locating"},
		{pipeline.StageWrite, pipeline.StatusWorking, "writing"},
		{"", pipeline.StatusWorking, ""},
		{"", pipeline.StatusSkipped, "cached"},
		{"", pipeline.Status("other"), ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusLabel(tt.stage, tt.status), "%s/%s", tt.stage, tt.status)
	}
}

func TestTruncateKeepsTail(t *testing.T) {
	got := truncate("components/very-long-name.gjs", 12)
	assert.Equal(t, "...-name.gjs", got)
	assert.LessOrEqual(t, runewidth.StringWidth(got), 12)
	assert.Equal(t, "short.gjs", truncate("short.gjs", 20))
	assert.Equal(t, "abc", truncate("abcdef", 3))
}
