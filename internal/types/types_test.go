package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionBoolBytes(t *testing.T) {
	tests := []struct {
		name string
		in   OptionBool
		want []byte
	}{
		{"absent", Absent, []byte{0}},
		{"present true", PresentTrue, []byte{1, 1}},
		{"present false", PresentFalse, []byte{1, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.Bytes())
		})
	}
}

func TestOptionBoolFrom(t *testing.T) {
	assert.Equal(t, PresentTrue, OptionBoolFrom(true))
	assert.Equal(t, PresentFalse, OptionBoolFrom(false))
}

func TestParseOptionBool(t *testing.T) {
	for in, want := range map[string]OptionBool{
		"":      Absent,
		"none":  Absent,
		"TRUE":  PresentTrue,
		"false": PresentFalse,
	} {
		got, err := ParseOptionBool(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseOptionBool("maybe")
	assert.Error(t, err)
}

func TestSelectorsDiffer(t *testing.T) {
	assert.NotEqual(t, BuySelector, SellSelector)
	assert.Equal(t, "66063d1201daebea", BuySelector.String())
}

func TestModeFromMayhem(t *testing.T) {
	assert.Equal(t, ModeMayhem, ModeFromMayhem(true))
	assert.Equal(t, ModeNormal, ModeFromMayhem(false))
	assert.True(t, ModeMayhem.IsMayhem())
	assert.False(t, ModeNormal.IsMayhem())
}
