package lx

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoundedParameterStartsAtFirstBound(t *testing.T) {
	p, err := NewBoundedParameter("Period", 2000, 5000)
	require.NoError(t, err)
	assert.Equal(t, "Period", p.Label())
	assert.Equal(t, 2000.0, p.Value())

	desc, err := NewBoundedParameter("Desc", 5000, 2000)
	require.NoError(t, err)
	assert.Equal(t, 5000.0, desc.Value())
	lo, hi := desc.Range()
	assert.Equal(t, 2000.0, lo)
	assert.Equal(t, 5000.0, hi)
	b1, b2 := desc.Bounds()
	assert.Equal(t, 5000.0, b1)
	assert.Equal(t, 2000.0, b2)
}

func TestBoundedParameterInvalidBounds(t *testing.T) {
	_, err := NewBoundedParameter("Bad", math.NaN(), 1)
	assert.ErrorIs(t, err, ErrInvalidBounds)
	_, err = NewBoundedParameter("Bad", 0, math.Inf(-1))
	assert.ErrorIs(t, err, ErrInvalidBounds)
}

func TestBoundedParameterSetClamps(t *testing.T) {
	p, err := NewBoundedParameter("Period", 2000, 5000)
	require.NoError(t, err)
	p.Set(3500)
	assert.Equal(t, 3500.0, p.Value())
	p.Set(10000)
	assert.Equal(t, 5000.0, p.Value())
	p.Set(-1)
	assert.Equal(t, 2000.0, p.Value())
	p.Set(math.NaN())
	assert.Equal(t, 2000.0, p.Value())
}

func TestBoundedParameterNormalized(t *testing.T) {
	p, err := NewBoundedParameter("Desc", 100, 0)
	require.NoError(t, err)
	p.SetNormalized(0.25)
	assert.InDelta(t, 75.0, p.Value(), 1e-9)
	assert.InDelta(t, 0.25, p.Normalized(), 1e-9)
	p.SetNormalized(2)
	assert.Equal(t, 0.0, p.Value())

	flat, err := NewBoundedParameter("Flat", 3, 3)
	require.NoError(t, err)
	assert.Equal(t, 0.0, flat.Normalized())
}

func TestParametersRegistry(t *testing.T) {
	ps := NewParameters()
	period, _ := NewBoundedParameter("Period", 2000, 5000)
	thing, _ := NewBoundedParameter("Thing1", 2000, 5000)
	require.NoError(t, ps.Add("period", period))
	require.NoError(t, ps.Add("thing1", thing))
	assert.ErrorIs(t, ps.Add("period", thing), ErrDuplicateParameter)
	assert.Error(t, ps.Add("nil", nil))

	assert.Equal(t, []string{"period", "thing1"}, ps.Keys())
	assert.Equal(t, 2, ps.Len())
	got, ok := ps.Get("period")
	assert.True(t, ok)
	assert.Same(t, period, got)

	require.NoError(t, ps.Set("period", "4200"))
	assert.Equal(t, 4200.0, period.Value())
	assert.ErrorIs(t, ps.Set("missing", "1"), ErrUnknownParameter)
	assert.Error(t, ps.Set("period", "fast"))
}

func TestParametersJSON(t *testing.T) {
	ps := NewParameters()
	period, _ := NewBoundedParameter("Period", 2000, 5000)
	require.NoError(t, ps.Add("period", period))

	ps.ApplyJSON(json.RawMessage(`{"period": 3000, "unknown": 1}`))
	assert.Equal(t, 3000.0, period.Value())
	ps.ApplyJSON(json.RawMessage(`not json`))
	assert.Equal(t, 3000.0, period.Value())
	ps.ApplyJSON(nil)
	assert.JSONEq(t, `{"period": 3000}`, string(ps.ToJSON()))
}
