package core

import "encoding/binary"

// footerSize is the trailing per-sector metadata block: u16 id | u16
// checksum | u32 signature | u32 counter (spec.md §3, §6).
const footerSize = 12

// slotWindowSize is the number of consecutive physical sectors that
// make up one save slot.
const slotWindowSize = 18

// Container is an opened save image bound to a detected variant. It
// does not yet carry a parsed slot — Open only detects the variant and
// validates overall size (spec.md C6: "Does not yet select slot").
type Container struct {
	image   []byte
	variant *Variant
}

// Open detects the variant of image and wraps it in a Container. Fails
// with ErrNoMatch if no registered variant recognises the image.
func Open(image []byte, registry *VariantRegistry) (*Container, error) {
	if len(image) < 131072 || len(image) > 131200 {
		return nil, invalidFormat("save image size %d out of range [131072, 131200]", len(image))
	}
	if registry == nil {
		registry = DefaultVariantRegistry()
	}
	v, err := registry.DetectFromSave(image)
	if err != nil {
		return nil, err
	}
	return OpenWithVariant(image, v)
}

// OpenWithVariant wraps image in a Container under an explicitly chosen
// variant, skipping detection. Still validates overall size.
func OpenWithVariant(image []byte, v *Variant) (*Container, error) {
	if len(image) < 131072 || len(image) > 131200 {
		return nil, invalidFormat("save image size %d out of range [131072, 131200]", len(image))
	}
	buf := make([]byte, len(image))
	copy(buf, image)
	return &Container{image: buf, variant: v}, nil
}

// Variant returns the container's detected/assigned variant.
func (c *Container) Variant() *Variant { return c.variant }

// Image returns the container's current image bytes. The returned
// slice aliases the container's internal buffer.
func (c *Container) Image() []byte { return c.image }

func sectorChecksum(data []byte) uint16 {
	var sum uint32
	for i := 0; i+4 <= len(data); i += 4 {
		sum += binary.LittleEndian.Uint32(data[i:])
	}
	return uint16((sum>>16)+(sum&0xFFFF)) & 0xFFFF
}

func sectorFooter(image []byte, layout SaveLayout, physicalIndex int) []byte {
	base := physicalIndex*layout.SectorSize + layout.SectorDataSize
	return image[base : base+footerSize]
}

// activeSlotStart picks the 18-sector window (0 or 14) with the larger
// summed counter across sectors whose signature matches v (spec.md
// §4.6 "Slot arbitration").
func activeSlotStart(image []byte, v *Variant) int {
	counterSum := func(start int) uint64 {
		var sum uint64
		for i := start; i < start+slotWindowSize; i++ {
			base := i*v.Layout.SectorSize + v.Layout.SectorDataSize
			if base+footerSize > len(image) {
				continue
			}
			footer := image[base : base+footerSize]
			sig := binary.LittleEndian.Uint32(footer[4:8])
			if sig != v.Signature {
				continue
			}
			sum += uint64(binary.LittleEndian.Uint32(footer[8:12]))
		}
		return sum
	}

	if counterSum(14) > counterSum(0) {
		return 14
	}
	return 0
}

// buildSectorMap records sectorId -> physicalIndex for the 18 physical
// sectors beginning at slotStart whose footer signature matches v
// (spec.md §4.6 "Sector map").
func buildSectorMap(image []byte, v *Variant, slotStart int) map[int]int {
	sectorMap := make(map[int]int, slotWindowSize)
	for i := slotStart; i < slotStart+slotWindowSize; i++ {
		base := i*v.Layout.SectorSize + v.Layout.SectorDataSize
		if base+footerSize > len(image) {
			continue
		}
		footer := image[base : base+footerSize]
		sig := binary.LittleEndian.Uint32(footer[4:8])
		if sig != v.Signature {
			continue
		}
		id := int(binary.LittleEndian.Uint16(footer[0:2]))
		sectorMap[id] = i
	}
	return sectorMap
}

// assembleSaveBlock1 concatenates the data region of sectors 1..4 (in
// id order) into one sectorDataSize*4 buffer, zero-filling any missing
// sector's region (spec.md §4.6 "SaveBlock extraction"). Referenced by
// Variant.CanHandle before a Container exists, so it takes image/v
// directly rather than a *Container receiver.
func assembleSaveBlock1(image []byte, sectorMap map[int]int, v *Variant) []byte {
	sb1 := make([]byte, v.Layout.SectorDataSize*4)
	for id := 1; id <= 4; id++ {
		dst := (id - 1) * v.Layout.SectorDataSize
		physIdx, ok := sectorMap[id]
		if !ok {
			continue
		}
		base := physIdx * v.Layout.SectorSize
		if base+v.Layout.SectorDataSize > len(image) {
			continue
		}
		copy(sb1[dst:dst+v.Layout.SectorDataSize], image[base:base+v.Layout.SectorDataSize])
	}
	return sb1
}

// assembleSaveBlock2 returns the data region of the sector with id 0,
// or nil if that sector is absent from sectorMap.
func assembleSaveBlock2(image []byte, sectorMap map[int]int, v *Variant) []byte {
	physIdx, ok := sectorMap[0]
	if !ok {
		return nil
	}
	base := physIdx * v.Layout.SectorSize
	if base+v.Layout.SectorDataSize > len(image) {
		return nil
	}
	sb2 := make([]byte, v.Layout.SectorDataSize)
	copy(sb2, image[base:base+v.Layout.SectorDataSize])
	return sb2
}

// ParsedSave is the result of Container.Parse: decoded player identity
// and party, plus enough bookkeeping (sector map, active slot) for
// Rebuild, and a side channel of non-fatal per-sector diagnostics
// (spec.md §4.6, §7 "parse() aggregates non-fatal ChecksumMismatch
// reports in a side channel").
type ParsedSave struct {
	Data        *SaveData
	Diagnostics []error
}

// Parse performs slot arbitration, sector-map construction, SaveBlock
// extraction, and party decoding. Fails with ErrInvalidFormat only if
// SaveBlock2 (sector id 0) is missing; a missing SaveBlock1 yields an
// empty party rather than an error (spec.md §4.6, §7).
func (c *Container) Parse() (*ParsedSave, error) {
	v := c.variant
	slotStart := activeSlotStart(c.image, v)
	sectorMap := buildSectorMap(c.image, v, slotStart)

	var diagnostics []error
	for id, physIdx := range sectorMap {
		base := physIdx * v.Layout.SectorSize
		data := c.image[base : base+v.Layout.SectorDataSize]
		footer := sectorFooter(c.image, v.Layout, physIdx)
		stored := binary.LittleEndian.Uint16(footer[2:4])
		computed := sectorChecksum(data)
		if stored != computed {
			diagnostics = append(diagnostics, &ChecksumMismatch{
				SectorID:         id,
				PhysicalIndex:    physIdx,
				StoredChecksum:   stored,
				ComputedChecksum: computed,
			})
		}
	}

	sb2 := assembleSaveBlock2(c.image, sectorMap, v)
	if sb2 == nil {
		return nil, invalidFormat("save block 2 (sector id 0) is missing from the active slot")
	}

	var party []*PokemonData
	if hasAnySaveBlock1Sector(sectorMap) {
		sb1 := assembleSaveBlock1(c.image, sectorMap, v)
		party = decodeParty(sb1, v)
	}

	playerName := DecodePokemonText(sb2[v.Offsets.OTName : v.Offsets.OTName+v.Offsets.OTNameLength])

	playTime := PlayTimeData{
		Hours:   binary.LittleEndian.Uint16(sb2[v.Layout.PlayTimeHours:]),
		Minutes: sb2[v.Layout.PlayTimeMinutes],
		Seconds: sb2[v.Layout.PlayTimeSeconds],
	}

	activeSlot := 0
	if slotStart != 0 {
		activeSlot = 1
	}

	return &ParsedSave{
		Data: &SaveData{
			PartyPokemon: party,
			PlayerName:   playerName,
			PlayTime:     playTime,
			ActiveSlot:   activeSlot,
			SectorMap:    sectorMap,
		},
		Diagnostics: diagnostics,
	}, nil
}

func hasAnySaveBlock1Sector(sectorMap map[int]int) bool {
	for id := 1; id <= 4; id++ {
		if _, ok := sectorMap[id]; ok {
			return true
		}
	}
	return false
}

// decodeParty slices sb1 at v.Layout.PartyOffset into up to
// v.MaxPartySize records of v.PokemonSize bytes, stopping at the first
// empty slot (spec.md §4.4 "Termination semantics", §4.6 "Party
// decoding").
func decodeParty(sb1 []byte, v *Variant) []*PokemonData {
	party := make([]*PokemonData, 0, v.MaxPartySize)
	for i := 0; i < v.MaxPartySize; i++ {
		start := v.Layout.PartyOffset + i*v.PokemonSize
		end := start + v.PokemonSize
		if end > len(sb1) {
			break
		}
		record := sb1[start:end]
		pkm, err := NewPokemonData(record, v)
		if err != nil {
			break
		}
		if pkm.IsEmpty() {
			break
		}
		party = append(party, pkm)
	}
	return party
}

// Rebuild serialises party back into SaveBlock1, splices the modified
// sectors back into a copy of the original image, and recomputes their
// checksums. Untouched sectors — including the SaveBlock1 sectors
// outside the party region — are preserved byte-for-byte. The result
// has the same length as the opened image (spec.md §4.6 "Rebuild").
func (c *Container) Rebuild(party []*PokemonData, sectorMap map[int]int) ([]byte, error) {
	v := c.variant
	out := make([]byte, len(c.image))
	copy(out, c.image)

	sb1 := assembleSaveBlock1(c.image, sectorMap, v)

	for i := 0; i < v.MaxPartySize; i++ {
		start := v.Layout.PartyOffset + i*v.PokemonSize
		end := start + v.PokemonSize
		if end > len(sb1) {
			break
		}
		if i < len(party) {
			copy(sb1[start:end], party[i].data)
		} else {
			for j := start; j < end; j++ {
				sb1[j] = 0
			}
		}
	}

	for id := 1; id <= 4; id++ {
		physIdx, ok := sectorMap[id]
		if !ok {
			continue
		}
		src := (id - 1) * v.Layout.SectorDataSize
		base := physIdx * v.Layout.SectorSize
		if base+v.Layout.SectorDataSize > len(out) || src+v.Layout.SectorDataSize > len(sb1) {
			continue
		}
		data := sb1[src : src+v.Layout.SectorDataSize]
		copy(out[base:base+v.Layout.SectorDataSize], data)

		footer := out[base+v.Layout.SectorDataSize : base+v.Layout.SectorDataSize+footerSize]
		binary.LittleEndian.PutUint16(footer[2:4], sectorChecksum(data))
	}

	return out, nil
}
