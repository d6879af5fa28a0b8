package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindAllRespectsAlignmentAndWildcards(t *testing.T) {
	// A second, unaligned copy of the opcode bytes sits at offset 3.
	image := []byte{0x04, 0x00, 0x9F, 0xE5, 0x11, 0x9F, 0xE5, 0x44}
	pattern := Pattern{Mode: ModeARM, Entries: []int{wildcard, wildcard, 0x9F, 0xE5}}

	matches := FindAll(image, pattern)
	assert.Equal(t, []int{0}, matches)
}

func TestResolveARMLiteral(t *testing.T) {
	// Scenario: ARM `LDR Rt,[PC,#4]` word 0xE59F0004 at offset 0, whose
	// PC-relative literal pool at offset 12 holds 0x020244EC.
	image := make([]byte, 16)
	copy(image[0:4], []byte{0x04, 0x00, 0x9F, 0xE5})
	copy(image[12:16], []byte{0xEC, 0x44, 0x02, 0x02})

	addr, err := ResolveARMLiteral(image, 0)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x020244EC), addr)
}

func TestResolveARMLiteralRejectsNonLDROpcode(t *testing.T) {
	image := make([]byte, 16)
	_, err := ResolveARMLiteral(image, 0)
	assert.Error(t, err)
}

func TestResolveARMLiteralOutOfRange(t *testing.T) {
	image := make([]byte, 8)
	copy(image[0:4], []byte{0x04, 0x00, 0x9F, 0xE5})
	_, err := ResolveARMLiteral(image, 0)
	assert.Error(t, err)
}

func TestResolveTHUMBLiteral(t *testing.T) {
	// Scenario: THUMB `LDR Rt,[PC,#4]` halfword 0x4801 at offset 0,
	// whose literal pool at offset 8 holds 0x020235B8.
	image := make([]byte, 12)
	copy(image[0:2], []byte{0x01, 0x48})
	copy(image[8:12], []byte{0xB8, 0x35, 0x02, 0x02})

	addr, err := ResolveTHUMBLiteral(image, 0)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x020235B8), addr)
}

func TestResolveTHUMBLiteralRejectsNonLDROpcode(t *testing.T) {
	image := make([]byte, 12)
	_, err := ResolveTHUMBLiteral(image, 0)
	assert.Error(t, err)
}

func TestIsValidEWRAMAddr(t *testing.T) {
	assert.True(t, isValidEWRAMAddr(0x02000000))
	assert.True(t, isValidEWRAMAddr(0x0203FFFC))
	assert.False(t, isValidEWRAMAddr(0x02040000), "end of range is exclusive")
	assert.False(t, isValidEWRAMAddr(0x02000001), "must be 4-byte aligned")
	assert.False(t, isValidEWRAMAddr(0x03000000), "outside EWRAM")
}

func TestScanPartyAddressFindsARMCandidate(t *testing.T) {
	image := make([]byte, 64)
	copy(image[0:4], []byte{0x04, 0x00, 0x9F, 0xE5})
	copy(image[12:16], []byte{0xEC, 0x44, 0x02, 0x02})

	candidate, err := ScanPartyAddress(image, VanillaEmeraldVariant)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x020244EC), candidate.Address)
	assert.Equal(t, 0, candidate.Offset)
	assert.GreaterOrEqual(t, candidate.Confidence, 1)
}

func TestScanPartyAddressNoMatchWithoutCandidates(t *testing.T) {
	image := make([]byte, 64)
	_, err := ScanPartyAddress(image, VanillaEmeraldVariant)
	assert.ErrorIs(t, err, ErrNoMatch)
}

func TestResolveMemoryAddressesFallsBackOnNoMatch(t *testing.T) {
	image := make([]byte, 64)
	addrs := ResolveMemoryAddresses(image, VanillaEmeraldVariant)
	assert.Equal(t, VanillaEmeraldVariant.FallbackPartyAddr, addrs.PartyData)
	assert.Equal(t, VanillaEmeraldVariant.FallbackPartyCountAddr, addrs.PartyCount)
}

func TestResolveMemoryAddressesDerivesPartyCountFromScan(t *testing.T) {
	image := make([]byte, 64)
	copy(image[0:4], []byte{0x04, 0x00, 0x9F, 0xE5})
	copy(image[12:16], []byte{0xEC, 0x44, 0x02, 0x02})

	addrs := ResolveMemoryAddresses(image, VanillaEmeraldVariant)
	assert.Equal(t, uint32(0x020244EC), addrs.PartyData)
	assert.Equal(t, uint32(0x020244E9), addrs.PartyCount)
}
