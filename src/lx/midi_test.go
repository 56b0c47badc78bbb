package lx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectPort(t *testing.T) {
	names := []string{"Midi Through Port-0", "Launch Control XL:Launch Control XL MIDI 1", "nanoKONTROL2"}

	i, ok := SelectPort(names, "")
	assert.True(t, ok)
	assert.Equal(t, 0, i)

	i, ok = SelectPort(names, "launch control")
	assert.True(t, ok)
	assert.Equal(t, 1, i)

	i, ok = SelectPort(names, "KONTROL")
	assert.True(t, ok)
	assert.Equal(t, 2, i)

	_, ok = SelectPort(names, "APC40")
	assert.False(t, ok)
	_, ok = SelectPort(nil, "")
	assert.False(t, ok)
}
