package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRecord(personality, otID uint32) []byte {
	record := make([]byte, 100)
	writeU32(record, 0x00, personality)
	writeU32(record, 0x04, otID)
	return record
}

func TestSubstructOrderIsPermutationOf24(t *testing.T) {
	for p := uint32(0); p < 24; p++ {
		order := substructOrder(p)
		seen := map[int]bool{}
		for _, slot := range order {
			assert.False(t, seen[slot], "slot %d repeated in order %v", slot, order)
			seen[slot] = true
		}
		assert.Len(t, seen, 4)
	}
}

func TestCipherRoundTrip(t *testing.T) {
	record := newTestRecord(0x12345678, 0xCAFEBABE)

	var plain [12]byte
	copy(plain[:], []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12})

	require.NoError(t, writeSub(record, SubstructGrowth, plain))
	got, err := readSub(record, SubstructGrowth)
	require.NoError(t, err)
	assert.Equal(t, plain, got)
}

func TestReadSubRejectsShortRecord(t *testing.T) {
	_, err := readSub(make([]byte, 10), SubstructGrowth)
	require.Error(t, err)
}

func TestRekeySubstructsPreservesPlaintext(t *testing.T) {
	record := newTestRecord(0x00000001, 0x00000002)

	var growth [12]byte
	copy(growth[:], "species!123!")
	require.NoError(t, writeSub(record, SubstructGrowth, growth))

	require.NoError(t, rekeySubstructs(record, 0xABCDEF01))
	assert.Equal(t, uint32(0xABCDEF01), readU32(record, 0x00))

	got, err := readSub(record, SubstructGrowth)
	require.NoError(t, err)
	assert.Equal(t, growth, got)
}
