package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
		err  bool
	}{
		{"off", LevelOff, false},
		{"Phase", LevelPhase, false},
		{" detail ", LevelDetail, false},
		{"DEBUG", LevelDebug, false},
		{"error", LevelOff, true},
		{"", LevelOff, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if tt.err {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestLevelAllows(t *testing.T) {
	assert.False(t, LevelOff.Allows(ScopeDriver))
	assert.True(t, LevelPhase.Allows(ScopeFile))
	assert.False(t, LevelPhase.Allows(ScopePhase))
	assert.True(t, LevelDetail.Allows(ScopePhase))
	assert.True(t, LevelDebug.Allows(ScopePhase))
}

func TestParseMode(t *testing.T) {
	for in, want := range map[string]StorageMode{"": ModeStream, "stream": ModeStream, "Ring": ModeRing, "both": ModeBoth} {
		got, err := ParseMode(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseMode("disk")
	assert.Error(t, err)
}

func TestSpansThroughContext(t *testing.T) {
	ring := NewRingTracer(16, LevelDetail)
	ctx := WithTracer(context.Background(), ring)

	root := Begin(FromContext(ctx), ScopeDriver, "run", CurrentSpan(ctx).SpanID)
	ctx = WithSpanContext(ctx, SpanContext{SpanID: root.ID()})
	child := Begin(FromContext(ctx), ScopePhase, "parse", CurrentSpan(ctx).SpanID).WithExtra("path", "a.gjs")
	child.End("ok")
	root.End("")

	events := ring.Snapshot()
	require.Len(t, events, 4)
	assert.Equal(t, KindBegin, events[0].Kind)
	assert.Equal(t, root.ID(), events[1].ParentID)
	assert.Equal(t, "ok", events[2].Detail)
	assert.Equal(t, "a.gjs", events[2].Extra["path"])
	assert.Equal(t, KindEnd, events[3].Kind)
	for i := 1; i < len(events); i++ {
		assert.Greater(t, events[i].Seq, events[i-1].Seq)
	}

	// повторный End ничего не пишет
	assert.Zero(t, child.End("again"))
	assert.Len(t, ring.Snapshot(), 4)
}

func TestDisabledScopeIsInert(t *testing.T) {
	ring := NewRingTracer(4, LevelPhase)
	sp := Begin(ring, ScopePhase, "parse", 0).WithExtra("k", "v")
	assert.Zero(t, sp.ID())
	sp.End("")
	assert.Empty(t, ring.Snapshot())

	assert.Equal(t, Nop, FromContext(context.Background()))
	assert.Zero(t, Begin(nil, ScopeDriver, "x", 0).ID())
}

func TestRingWraps(t *testing.T) {
	ring := NewRingTracer(3, LevelDebug)
	for i := range 5 {
		ring.Emit(Event{Seq: uint64(i)})
	}
	events := ring.Snapshot()
	require.Len(t, events, 3)
	assert.Equal(t, []uint64{2, 3, 4}, []uint64{events[0].Seq, events[1].Seq, events[2].Seq})
}

func TestStreamText(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDetail, FormatText)
	sp := Begin(tr, ScopeFile, "file", 0).WithExtra("path", "a.gjs").WithExtra("bytes", "10")
	sp.End("done")
	require.NoError(t, tr.Flush())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "-> file:file")
	assert.Contains(t, lines[1], "<- file:file")
	assert.Contains(t, lines[1], "(done) {bytes=10, path=a.gjs}")
}

func TestStreamNDJSON(t *testing.T) {
	var buf bytes.Buffer
	tr, err := New(Config{Level: LevelPhase, Output: &buf, OutputPath: "trace.ndjson"})
	require.NoError(t, err)
	Begin(tr, ScopeDriver, "run", 0).End("")
	require.NoError(t, tr.Close())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	var ev map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &ev))
	assert.Equal(t, "end", ev["kind"])
	assert.Equal(t, "driver", ev["scope"])
	assert.Equal(t, "run", ev["name"])
}

func TestRingModeDumpsOnClose(t *testing.T) {
	var buf bytes.Buffer
	tr, err := New(Config{Level: LevelPhase, Mode: ModeRing, Output: &buf, RingSize: 2})
	require.NoError(t, err)
	Begin(tr, ScopeDriver, "a", 0).End("")
	Begin(tr, ScopeDriver, "b", 0).End("")
	assert.Zero(t, buf.Len())
	require.NoError(t, tr.Close())
	out := buf.String()
	assert.NotContains(t, out, ":a")
	assert.Contains(t, out, "-> driver:b")
	assert.Contains(t, out, "<- driver:b")
}

func TestNewOff(t *testing.T) {
	tr, err := New(Config{Level: LevelOff})
	require.NoError(t, err)
	assert.Equal(t, Nop, tr)
	assert.Nil(t, StartHeartbeat(tr, time.Millisecond))
}

func TestHeartbeat(t *testing.T) {
	ring := NewRingTracer(64, LevelPhase)
	hb := StartHeartbeat(ring, time.Millisecond)
	require.NotNil(t, hb)
	require.Eventually(t, func() bool {
		return len(ring.Snapshot()) >= 2
	}, time.Second, time.Millisecond)
	hb.Stop()
	hb.Stop()
	n := len(ring.Snapshot())
	time.Sleep(5 * time.Millisecond)
	assert.Equal(t, n, len(ring.Snapshot()))
	assert.Equal(t, KindHeartbeat, ring.Snapshot()[0].Kind)

	var nilHB *Heartbeat
	nilHB.Stop()
}
