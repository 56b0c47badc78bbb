package lx

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"strconv"
	"sync"
)

var (
	ErrInvalidBounds      = errors.New("invalid parameter bounds")
	ErrDuplicateParameter = errors.New("duplicate parameter key")
	ErrUnknownParameter   = errors.New("unknown parameter key")
)

// ----- Bounded Parameter ----- //

// BoundedParameter is a named scalar adjustable between two bounds.
// The bounds may be given in descending order.
type BoundedParameter struct {
	mu     sync.Mutex
	label  string
	bound1 float64
	bound2 float64
	value  float64
}

// NewBoundedParameter starts at bound1.
func NewBoundedParameter(label string, bound1 float64, bound2 float64) (*BoundedParameter, error) {
	if !isFinite(bound1) || !isFinite(bound2) {
		return nil, fmt.Errorf("%w: %s (%v, %v)", ErrInvalidBounds, label, bound1, bound2)
	}
	return &BoundedParameter{
		label:  label,
		bound1: bound1,
		bound2: bound2,
		value:  bound1,
	}, nil
}

func (p *BoundedParameter) Label() string {
	return p.label
}

// Bounds returns the bounds in declaration order.
func (p *BoundedParameter) Bounds() (float64, float64) {
	return p.bound1, p.bound2
}

// Range returns the bounds ordered as (min, max).
func (p *BoundedParameter) Range() (float64, float64) {
	return math.Min(p.bound1, p.bound2), math.Max(p.bound1, p.bound2)
}

func (p *BoundedParameter) Value() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.value
}

// Set stores v clamped into the parameter range.
func (p *BoundedParameter) Set(v float64) {
	if math.IsNaN(v) {
		return
	}
	lo, hi := p.Range()
	p.mu.Lock()
	p.value = math.Max(lo, math.Min(hi, v))
	p.mu.Unlock()
}

// SetNormalized maps t in [0, 1] from bound1 to bound2.
func (p *BoundedParameter) SetNormalized(t float64) {
	t = math.Max(0, math.Min(1, t))
	p.Set(p.bound1 + (p.bound2-p.bound1)*t)
}

// Normalized is the inverse of SetNormalized. A zero-width range reports 0.
func (p *BoundedParameter) Normalized() float64 {
	if p.bound1 == p.bound2 {
		return 0
	}
	return (p.Value() - p.bound1) / (p.bound2 - p.bound1)
}

func (p *BoundedParameter) String() string {
	return fmt.Sprintf("%s=%g [%g, %g]", p.label, p.Value(), p.bound1, p.bound2)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// ----- Parameters ----- //

// Parameters is the host-side registry filled by addParameter calls.
type Parameters struct {
	keys   []string
	values map[string]*BoundedParameter
}

func NewParameters() *Parameters {
	return &Parameters{
		values: make(map[string]*BoundedParameter),
	}
}

func (ps *Parameters) Add(key string, p *BoundedParameter) error {
	if p == nil {
		return fmt.Errorf("%w: %s is nil", ErrInvalidBounds, key)
	}
	if _, ok := ps.values[key]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateParameter, key)
	}
	ps.keys = append(ps.keys, key)
	ps.values[key] = p
	return nil
}

func (ps *Parameters) Get(key string) (*BoundedParameter, bool) {
	p, ok := ps.values[key]
	return p, ok
}

// Keys are returned in registration order.
func (ps *Parameters) Keys() []string {
	keys := make([]string, len(ps.keys))
	copy(keys, ps.keys)
	return keys
}

func (ps *Parameters) Len() int {
	return len(ps.keys)
}

func (ps *Parameters) Set(key string, value string) error {
	p, ok := ps.values[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownParameter, key)
	}
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return err
	}
	p.Set(v)
	return nil
}

func (ps *Parameters) ApplyJSON(data json.RawMessage) {
	if len(data) == 0 {
		return
	}
	var j map[string]float64
	err := json.Unmarshal(data, &j)
	if err != nil {
		log.Printf("failed to apply JSON to parameters: %v", err)
		return
	}
	for key, value := range j {
		p, ok := ps.values[key]
		if !ok {
			log.Printf("unknown parameter in JSON: %s", key)
			continue
		}
		p.Set(value)
	}
}

func (ps *Parameters) ToJSON() json.RawMessage {
	j := make(map[string]float64, len(ps.keys))
	for _, key := range ps.keys {
		j[key] = ps.values[key].Value()
	}
	return toRawMessage(j)
}

func toRawMessage(v interface{}) json.RawMessage {
	bytes, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return json.RawMessage(bytes)
}
