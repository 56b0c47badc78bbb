package lx

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStartedLFO(t *testing.T, kind int, low, high float64, period Period) *LFO {
	l, err := NewLFO(kind, low, high, period)
	require.NoError(t, err)
	l.Start()
	return l
}

func TestSinLFOQuarterPeriod(t *testing.T) {
	l := newStartedLFO(t, waveSine, 0, 255, FixedPeriod(2000))
	assert.InDelta(t, 127.5, l.Value(), 1e-9)
	l.Advance(500)
	assert.InDelta(t, 255.0, l.Value(), 1e-9)
	l.Advance(500)
	assert.InDelta(t, 127.5, l.Value(), 1e-9)
	l.Advance(500)
	assert.InDelta(t, 0.0, l.Value(), 1e-9)
}

func TestSinLFOPeriodicity(t *testing.T) {
	l := newStartedLFO(t, waveSine, 10, 90, FixedPeriod(1000))
	l.Advance(123)
	start := l.Value()
	for _, delta := range []float64{100, 250, 0, 333, 17, 300} {
		l.Advance(delta)
	}
	assert.InDelta(t, start, l.Value(), 1e-6)
	l.Advance(3000)
	assert.InDelta(t, start, l.Value(), 1e-6)
}

func TestLFOStaysInBounds(t *testing.T) {
	for _, kind := range []int{waveSine, waveTriangle, waveSquare, waveSaw, waveSawRev} {
		l := newStartedLFO(t, kind, -3, 7, FixedPeriod(777))
		for i := 0; i < 500; i++ {
			l.Advance(13.7)
			v := l.Value()
			assert.GreaterOrEqual(t, v, -3.0, waveKindToString(kind))
			assert.LessOrEqual(t, v, 7.0, waveKindToString(kind))
		}
	}
}

func TestDescendingLFOBounds(t *testing.T) {
	l := newStartedLFO(t, waveSine, 255, 0, FixedPeriod(2000))
	for i := 0; i < 40; i++ {
		l.Advance(50)
		assert.GreaterOrEqual(t, l.Value(), 0.0)
		assert.LessOrEqual(t, l.Value(), 255.0)
	}
}

func TestSquareLFOHalfPeriods(t *testing.T) {
	l := newStartedLFO(t, waveSquare, 0, 255, FixedPeriod(1000))
	assert.Equal(t, 0.0, l.Value())
	l.Advance(400)
	assert.Equal(t, 0.0, l.Value())
	l.Advance(200)
	assert.Equal(t, 255.0, l.Value())
	l.Advance(399)
	assert.Equal(t, 255.0, l.Value())
	l.Advance(1)
	assert.Equal(t, 0.0, l.Value())
	l.Advance(500)
	assert.Equal(t, 255.0, l.Value())
}

func TestOtherWaves(t *testing.T) {
	tri := newStartedLFO(t, waveTriangle, 0, 100, FixedPeriod(1000))
	saw := newStartedLFO(t, waveSaw, 0, 100, FixedPeriod(1000))
	rev := newStartedLFO(t, waveSawRev, 0, 100, FixedPeriod(1000))
	for _, l := range []*LFO{tri, saw, rev} {
		l.Advance(250)
	}
	assert.InDelta(t, 50.0, tri.Value(), 1e-9)
	assert.InDelta(t, 25.0, saw.Value(), 1e-9)
	assert.InDelta(t, 75.0, rev.Value(), 1e-9)
	tri.Advance(250)
	assert.InDelta(t, 100.0, tri.Value(), 1e-9)
}

func TestUnstartedLFODoesNotAdvance(t *testing.T) {
	l, err := NewSquareLFO(0, 255, FixedPeriod(1000))
	require.NoError(t, err)
	assert.False(t, l.Running())
	l.Advance(600)
	assert.Equal(t, 0.0, l.Value())
	l.Start()
	assert.True(t, l.Running())
	l.Advance(600)
	assert.Equal(t, 255.0, l.Value())
}

func TestLFOReset(t *testing.T) {
	l := newStartedLFO(t, waveSquare, 0, 255, FixedPeriod(1000))
	l.Advance(700)
	l.Reset()
	assert.Equal(t, 0.0, l.Elapsed())
	assert.Equal(t, 0.0, l.Value())
}

func TestLFOBoundPeriod(t *testing.T) {
	period, err := NewBoundedParameter("Period", 2000, 5000)
	require.NoError(t, err)
	l := newStartedLFO(t, waveSine, 0, 255, ParameterPeriod(period))
	assert.True(t, l.Period().IsBound())

	l.Advance(500)
	assert.InDelta(t, 255.0, l.Value(), 1e-9)

	// elapsed time is kept, so the phase jumps with the period
	period.Set(4000)
	assert.InDelta(t, 500.0, l.Elapsed(), 1e-9)
	expected := 255 * (1 + math.Sin(2*math.Pi*500/4000)) / 2
	assert.InDelta(t, expected, l.Value(), 1e-9)

	l.Advance(3500)
	assert.InDelta(t, 0.0, l.Elapsed(), 1e-9)
}

func TestLFOBoundPeriodShrinks(t *testing.T) {
	period, err := NewBoundedParameter("Period", 5000, 1000)
	require.NoError(t, err)
	l := newStartedLFO(t, waveSaw, 0, 100, ParameterPeriod(period))
	l.Advance(3000)
	period.Set(1000)
	assert.InDelta(t, 0.0, l.Value(), 1e-9)
	l.Advance(500)
	assert.InDelta(t, 500.0, l.Elapsed(), 1e-9)
	assert.InDelta(t, 50.0, l.Value(), 1e-9)
}

func TestInvalidLFO(t *testing.T) {
	_, err := NewSinLFO(math.NaN(), 1, FixedPeriod(100))
	assert.ErrorIs(t, err, ErrInvalidLFO)
	_, err = NewSinLFO(0, math.Inf(1), FixedPeriod(100))
	assert.ErrorIs(t, err, ErrInvalidLFO)
	_, err = NewSquareLFO(0, 1, FixedPeriod(0))
	assert.ErrorIs(t, err, ErrInvalidLFO)
	_, err = NewSquareLFO(0, 1, FixedPeriod(-5))
	assert.ErrorIs(t, err, ErrInvalidLFO)
	_, err = NewLFO(waveNone, 0, 1, FixedPeriod(100))
	assert.ErrorIs(t, err, ErrInvalidLFO)
}

func TestWaveKindNames(t *testing.T) {
	for _, name := range []string{"sine", "triangle", "square", "saw", "saw-rev"} {
		assert.Equal(t, name, waveKindToString(WaveKindFromString(name)))
	}
	assert.Equal(t, waveNone, WaveKindFromString("wobble"))
	l := newStartedLFO(t, waveSquare, 0, 255, FixedPeriod(1000))
	assert.Equal(t, "square(0, 255, 1000ms)", l.String())
}

func TestPositiveMod(t *testing.T) {
	assert.InDelta(t, 0.5, positiveMod(2.5, 1), 1e-12)
	assert.InDelta(t, 0.75, positiveMod(-0.25, 1), 1e-12)
	assert.Panics(t, func() { positiveMod(1, 0) })
}
