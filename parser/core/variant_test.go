package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNatureIndexModulo25(t *testing.T) {
	assert.Equal(t, 0, VanillaEmeraldVariant.NatureIndex(0))
	assert.Equal(t, 0, VanillaEmeraldVariant.NatureIndex(25))
	assert.Equal(t, 13, VanillaEmeraldVariant.NatureIndex(13))
}

func TestShinyRuleGen3XOR(t *testing.T) {
	v := VanillaEmeraldVariant
	// trainerId ^ secretId ^ persLo ^ persHi == 0 < 8 -> shiny.
	assert.True(t, v.IsShiny(0, 0))
	assert.False(t, v.IsShiny(0xFFFF0000, 0))
}

func TestShinyRulePersonalityByte1(t *testing.T) {
	v := QuetzalVariant
	assert.True(t, v.IsShiny(0x00000100, 0))
	assert.False(t, v.IsShiny(0x00000000, 0))
}

func TestRadiantRulePersonalityByte1Eq2(t *testing.T) {
	v := QuetzalVariant
	assert.True(t, v.IsRadiant(0x00000200))
	assert.False(t, v.IsRadiant(0x00000100))
	assert.False(t, VanillaEmeraldVariant.IsRadiant(0x00000200), "vanilla has no radiant tier")
}

func TestCanHandleRomTitleMoreSpecificBeforeGeneric(t *testing.T) {
	registry := DefaultVariantRegistry()

	v, err := registry.DetectFromRomTitle("POKEMON QUETZAL V19")
	assert.NoError(t, err)
	assert.Equal(t, "Pokemon Quetzal", v.Name)

	v, err = registry.DetectFromRomTitle("POKEMON EMERALD VERSION")
	assert.NoError(t, err)
	assert.Equal(t, "Pokemon Emerald (Vanilla)", v.Name)
}

func TestDetectFromRomTitleNoMatch(t *testing.T) {
	registry := DefaultVariantRegistry()
	_, err := registry.DetectFromRomTitle("SOME OTHER GAME")
	assert.ErrorIs(t, err, ErrNoMatch)
}

func TestCanHandleRejectsWrongSize(t *testing.T) {
	assert.False(t, VanillaEmeraldVariant.CanHandle(make([]byte, 1000)))
}
