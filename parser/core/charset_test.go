package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodePokemonTextStopsAtTerminator(t *testing.T) {
	data := []byte{0xBB, 0xBC, 0xBD, 0xFF, 0xBE, 0xBE}
	assert.Equal(t, "ABC", DecodePokemonText(data))
}

func TestDecodePokemonTextTrimsTrailingSpace(t *testing.T) {
	data := []byte{0xBB, 0xBC, 0x00, 0x00, 0xFF}
	assert.Equal(t, "AB", DecodePokemonText(data))
}

func TestDecodePokemonTextDigitsAndPunctuation(t *testing.T) {
	data := []byte{0xA1, 0xA2, 0xA3, 0xB7, 0xFF}
	assert.Equal(t, "012$", DecodePokemonText(data))
}

func TestEncodePokemonTextPadsAndTerminates(t *testing.T) {
	encoded := EncodePokemonText("AB", 5)
	assert.Len(t, encoded, 5)
	assert.Equal(t, byte(0xBB), encoded[0])
	assert.Equal(t, byte(0xBC), encoded[1])
	assert.Equal(t, textTerminator, encoded[2])
}

func TestEncodePokemonTextTruncatesToWidth(t *testing.T) {
	encoded := EncodePokemonText("TREECKO", 5)
	assert.Len(t, encoded, 5)
	assert.Equal(t, textTerminator, encoded[4])
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	encoded := EncodePokemonText("TREECKO", 11)
	assert.Equal(t, "TREECKO", DecodePokemonText(encoded))
}
