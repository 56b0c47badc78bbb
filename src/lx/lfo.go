package lx

import (
	"errors"
	"fmt"
	"math"
)

var ErrInvalidLFO = errors.New("invalid LFO")

// ----- Wave Kind ----- //

const (
	waveNone = iota
	waveSine
	waveTriangle
	waveSquare
	waveSaw
	waveSawRev
)

var waveKindNames = []string{"none", "sine", "triangle", "square", "saw", "saw-rev"}

func WaveKindFromString(s string) int {
	for i, name := range waveKindNames {
		if name == s {
			return i
		}
	}
	return waveNone
}

func waveKindToString(kind int) string {
	if kind < 0 || kind >= len(waveKindNames) {
		return waveKindNames[waveNone]
	}
	return waveKindNames[kind]
}

// ----- Period ----- //

// Period is either a fixed number of milliseconds or the live value of a
// parameter, resolved every time it is read.
type Period struct {
	ms    float64
	param *BoundedParameter
}

func FixedPeriod(ms float64) Period {
	return Period{ms: ms}
}

func ParameterPeriod(p *BoundedParameter) Period {
	return Period{param: p}
}

func (p Period) IsBound() bool {
	return p.param != nil
}

func (p Period) Millis() float64 {
	if p.param != nil {
		return p.param.Value()
	}
	return p.ms
}

func (p Period) String() string {
	if p.param != nil {
		return "param:" + p.param.Label()
	}
	return fmt.Sprintf("%gms", p.ms)
}

// ----- Modulator ----- //

// Modulator is a time-driven signal source advanced once per frame.
type Modulator interface {
	Start()
	Running() bool
	Advance(deltaMs float64)
	Value() float64
}

// ----- LFO ----- //

// LFO accumulates elapsed time modulo its period. A period change mid-cycle
// keeps elapsed time, not phase.
type LFO struct {
	kind    int
	low     float64
	high    float64
	period  Period
	elapsed float64 // ms
	running bool
}

var _ Modulator = (*LFO)(nil)

func NewLFO(kind int, low float64, high float64, period Period) (*LFO, error) {
	if kind <= waveNone || kind >= len(waveKindNames) {
		return nil, fmt.Errorf("%w: unknown wave %d", ErrInvalidLFO, kind)
	}
	if !isFinite(low) || !isFinite(high) {
		return nil, fmt.Errorf("%w: bounds (%v, %v)", ErrInvalidLFO, low, high)
	}
	if !period.IsBound() && (!isFinite(period.ms) || period.ms <= 0) {
		return nil, fmt.Errorf("%w: period %v", ErrInvalidLFO, period.ms)
	}
	return &LFO{
		kind:   kind,
		low:    low,
		high:   high,
		period: period,
	}, nil
}

func NewSinLFO(low float64, high float64, period Period) (*LFO, error) {
	return NewLFO(waveSine, low, high, period)
}

func NewSquareLFO(low float64, high float64, period Period) (*LFO, error) {
	return NewLFO(waveSquare, low, high, period)
}

func NewTriangleLFO(low float64, high float64, period Period) (*LFO, error) {
	return NewLFO(waveTriangle, low, high, period)
}

func NewSawLFO(low float64, high float64, period Period) (*LFO, error) {
	return NewLFO(waveSaw, low, high, period)
}

func NewSawRevLFO(low float64, high float64, period Period) (*LFO, error) {
	return NewLFO(waveSawRev, low, high, period)
}

func (l *LFO) Start() {
	l.running = true
}

func (l *LFO) Running() bool {
	return l.running
}

// Reset moves the LFO back to the start of its cycle.
func (l *LFO) Reset() {
	l.elapsed = 0
}

func (l *LFO) Wave() string {
	return waveKindToString(l.kind)
}

func (l *LFO) Period() Period {
	return l.period
}

// Elapsed is the position inside the current cycle in ms.
func (l *LFO) Elapsed() float64 {
	return l.elapsed
}

func (l *LFO) Advance(deltaMs float64) {
	if !l.running {
		return
	}
	period := l.period.Millis()
	if period <= 0 || !isFinite(deltaMs) {
		return
	}
	l.elapsed = positiveMod(l.elapsed+deltaMs, period)
}

func (l *LFO) Value() float64 {
	period := l.period.Millis()
	if period <= 0 {
		return l.low
	}
	// the bound period may have shrunk since the last advance
	p := positiveMod(l.elapsed, period) / period
	t := 0.0
	switch l.kind {
	case waveSine:
		t = (1 + math.Sin(2.0*math.Pi*p)) / 2
	case waveTriangle:
		if p < 0.5 {
			t = p * 2
		} else {
			t = 2 - p*2
		}
	case waveSquare:
		if p >= 0.5 {
			t = 1
		}
	case waveSaw:
		t = p
	case waveSawRev:
		t = 1 - p
	}
	return l.clamp(l.low + (l.high-l.low)*t)
}

func (l *LFO) clamp(v float64) float64 {
	lo, hi := math.Min(l.low, l.high), math.Max(l.low, l.high)
	return math.Max(lo, math.Min(hi, v))
}

func (l *LFO) String() string {
	return fmt.Sprintf("%s(%g, %g, %s)", l.Wave(), l.low, l.high, l.period)
}

func positiveMod(a float64, b float64) float64 {
	if b <= 0 {
		panic("b should be positive")
	}
	m := math.Mod(a, b)
	if m < 0 {
		m += b
	}
	return m
}
