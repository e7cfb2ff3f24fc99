package observ

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock сдвигается на step при каждом вызове
func fakeClock(t *Timer, step time.Duration) {
	cur := t.created
	t.now = func() time.Time {
		cur = cur.Add(step)
		return cur
	}
}

func TestTimerMeasure(t *testing.T) {
	tm := NewTimer()
	fakeClock(tm, time.Millisecond)
	assert.Empty(t, tm.Report().Phases)

	require.NoError(t, tm.Measure("load", func() (string, error) { return "", nil }))
	boom := errors.New("boom")
	err := tm.Measure("rewrite", func() (string, error) { return "2 matches", boom })
	require.ErrorIs(t, err, boom)

	r := tm.Report()
	require.Len(t, r.Phases, 2)
	assert.Equal(t, PhaseReport{Name: "load", StartMS: 1, DurationMS: 1}, r.Phases[0])
	assert.Equal(t, PhaseReport{Name: "rewrite", StartMS: 3, DurationMS: 1, Note: "2 matches", Failed: true}, r.Phases[1])
	assert.InDelta(t, 2.0, r.TotalMS, 1e-9)

	d, ok := tm.Last("rewrite")
	assert.True(t, ok)
	assert.Equal(t, time.Millisecond, d)
	_, ok = tm.Last("write")
	assert.False(t, ok)

	assert.Equal(t, "load           1.00ms\nrewrite        1.00ms  failed\ntotal          2.00ms\n", r.String())
}

func TestMillis(t *testing.T) {
	assert.InDelta(t, 1.5, Millis(1500*time.Microsecond), 1e-12)
}
