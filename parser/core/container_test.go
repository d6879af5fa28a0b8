package core

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildTestSave assembles a minimal, structurally valid vanilla-Emerald
// save image: sector id 0 (SaveBlock2) and ids 1-4 (SaveBlock1,
// carrying one party Pokemon) occupy physical sectors 0-4, all other
// sectors are left zeroed (invalid signature, ignored by Parse).
func buildTestSave(t *testing.T, party []*PokemonData, playerName string, playTime PlayTimeData) []byte {
	t.Helper()
	v := VanillaEmeraldVariant
	image := make([]byte, v.Layout.SectorSize*v.Layout.SectorCount)

	sb1 := make([]byte, v.Layout.SectorDataSize*4)
	for i, pkm := range party {
		start := v.Layout.PartyOffset + i*v.PokemonSize
		copy(sb1[start:start+v.PokemonSize], pkm.Raw())
	}

	sb2 := make([]byte, v.Layout.SectorDataSize)
	copy(sb2[v.Offsets.OTName:v.Offsets.OTName+v.Offsets.OTNameLength], EncodePokemonText(playerName, v.Offsets.OTNameLength))
	binary.LittleEndian.PutUint16(sb2[v.Layout.PlayTimeHours:], playTime.Hours)
	sb2[v.Layout.PlayTimeMinutes] = playTime.Minutes
	sb2[v.Layout.PlayTimeSeconds] = playTime.Seconds

	writeSector := func(physIdx int, sectorID uint16, data []byte) {
		base := physIdx * v.Layout.SectorSize
		copy(image[base:base+v.Layout.SectorDataSize], data)
		footer := image[base+v.Layout.SectorDataSize : base+v.Layout.SectorDataSize+footerSize]
		binary.LittleEndian.PutUint16(footer[0:2], sectorID)
		binary.LittleEndian.PutUint16(footer[2:4], sectorChecksum(data))
		binary.LittleEndian.PutUint32(footer[4:8], v.Signature)
		binary.LittleEndian.PutUint32(footer[8:12], 1)
	}

	writeSector(0, 0, sb2)
	for id := 1; id <= 4; id++ {
		chunk := sb1[(id-1)*v.Layout.SectorDataSize : id*v.Layout.SectorDataSize]
		writeSector(id, uint16(id), chunk)
	}

	return image
}

func buildTestParty(t *testing.T, species uint16, level uint8, nickname string) *PokemonData {
	t.Helper()
	data := make([]byte, VanillaEmeraldVariant.PokemonSize)
	writeU32(data, 0x00, 0x11223344)
	writeU32(data, 0x04, 0x55667788)
	pkm, err := NewPokemonData(data, VanillaEmeraldVariant)
	require.NoError(t, err)
	require.NoError(t, pkm.SetSpeciesID(species))
	pkm.SetLevel(level)
	pkm.SetNickname(nickname)
	return pkm
}

func TestParseVanillaEmeraldSave(t *testing.T) {
	treecko := buildTestParty(t, 252, 5, "TREECKO")
	image := buildTestSave(t, []*PokemonData{treecko}, "MAY", PlayTimeData{Hours: 1, Minutes: 2, Seconds: 3})

	container, err := OpenWithVariant(image, VanillaEmeraldVariant)
	require.NoError(t, err)

	parsed, err := container.Parse()
	require.NoError(t, err)
	assert.Empty(t, parsed.Diagnostics)

	require.Len(t, parsed.Data.PartyPokemon, 1)
	species, err := parsed.Data.PartyPokemon[0].SpeciesID()
	require.NoError(t, err)
	assert.Equal(t, uint16(252), species)
	assert.Equal(t, uint8(5), parsed.Data.PartyPokemon[0].Level())
	assert.Equal(t, "TREECKO", parsed.Data.PartyPokemon[0].Nickname())
	assert.Equal(t, "MAY", parsed.Data.PlayerName)
	assert.Equal(t, PlayTimeData{Hours: 1, Minutes: 2, Seconds: 3}, parsed.Data.PlayTime)
}

func TestParseFailsWithoutSaveBlock2(t *testing.T) {
	v := VanillaEmeraldVariant
	image := make([]byte, v.Layout.SectorSize*v.Layout.SectorCount)
	// No sectors written at all: sector map will be empty, SB2 missing.
	container, err := OpenWithVariant(image, v)
	require.NoError(t, err)

	_, err = container.Parse()
	require.Error(t, err)
}

func TestChecksumRoundTripAfterRebuild(t *testing.T) {
	treecko := buildTestParty(t, 252, 5, "TREECKO")
	image := buildTestSave(t, []*PokemonData{treecko}, "MAY", PlayTimeData{})

	container, err := OpenWithVariant(image, VanillaEmeraldVariant)
	require.NoError(t, err)
	parsed, err := container.Parse()
	require.NoError(t, err)

	rebuilt, err := container.Rebuild(parsed.Data.PartyPokemon, parsed.Data.SectorMap)
	require.NoError(t, err)
	assert.Len(t, rebuilt, len(image))

	v := VanillaEmeraldVariant
	for id := 1; id <= 4; id++ {
		physIdx := parsed.Data.SectorMap[id]
		base := physIdx * v.Layout.SectorSize
		data := rebuilt[base : base+v.Layout.SectorDataSize]
		footer := rebuilt[base+v.Layout.SectorDataSize : base+v.Layout.SectorDataSize+footerSize]
		stored := binary.LittleEndian.Uint16(footer[2:4])
		assert.Equal(t, sectorChecksum(data), stored)
	}
}

func TestParseRebuildParseIdempotence(t *testing.T) {
	treecko := buildTestParty(t, 252, 5, "TREECKO")
	image := buildTestSave(t, []*PokemonData{treecko}, "MAY", PlayTimeData{Hours: 10})

	container, err := OpenWithVariant(image, VanillaEmeraldVariant)
	require.NoError(t, err)
	first, err := container.Parse()
	require.NoError(t, err)

	rebuilt, err := container.Rebuild(first.Data.PartyPokemon, first.Data.SectorMap)
	require.NoError(t, err)

	container2, err := OpenWithVariant(rebuilt, VanillaEmeraldVariant)
	require.NoError(t, err)
	second, err := container2.Parse()
	require.NoError(t, err)

	assert.Equal(t, first.Data.PlayerName, second.Data.PlayerName)
	assert.Equal(t, first.Data.PlayTime, second.Data.PlayTime)
	require.Len(t, second.Data.PartyPokemon, 1)

	firstSpecies, _ := first.Data.PartyPokemon[0].SpeciesID()
	secondSpecies, _ := second.Data.PartyPokemon[0].SpeciesID()
	assert.Equal(t, firstSpecies, secondSpecies)
	assert.Equal(t, first.Data.PartyPokemon[0].Level(), second.Data.PartyPokemon[0].Level())
}

func TestChecksumMismatchSurfacedAsDiagnosticNotError(t *testing.T) {
	treecko := buildTestParty(t, 252, 5, "TREECKO")
	image := buildTestSave(t, []*PokemonData{treecko}, "MAY", PlayTimeData{})

	// Corrupt sector id 1's (physical sector 1) stored checksum without
	// touching its data.
	v := VanillaEmeraldVariant
	footerBase := v.Layout.SectorSize + v.Layout.SectorDataSize
	footer := image[footerBase : footerBase+footerSize]
	binary.LittleEndian.PutUint16(footer[2:4], 0xFFFF)

	container, err := OpenWithVariant(image, v)
	require.NoError(t, err)

	parsed, err := container.Parse()
	require.NoError(t, err, "a checksum mismatch must not abort parsing")
	require.NotEmpty(t, parsed.Diagnostics)
	require.Len(t, parsed.Data.PartyPokemon, 1)
}
