package core

import "encoding/binary"

// wildcard is the pattern-entry sentinel meaning "match any byte"
// (spec.md §4.7 "values 0x00-0xFF are required bytes and a sentinel is
// a wildcard").
const wildcard = -1

// InstructionMode tags whether a Pattern is matched against 4-byte
// aligned ARM words or 2-byte aligned THUMB halfwords.
type InstructionMode int

const (
	ModeARM InstructionMode = iota
	ModeTHUMB
)

// Pattern is a byte sequence to scan for, where each entry is either a
// required byte value (0x00-0xFF) or wildcard.
type Pattern struct {
	Name    string
	Mode    InstructionMode
	Entries []int
}

func (m InstructionMode) stride() int {
	if m == ModeTHUMB {
		return 2
	}
	return 4
}

// FindAll performs a naive, alignment-strided linear scan for pattern
// in image, returning every offset where every non-wildcard entry
// matches (spec.md §4.7 "Matching").
func FindAll(image []byte, pattern Pattern) []int {
	var matches []int
	stride := pattern.Mode.stride()
	n := len(pattern.Entries)
	for offset := 0; offset+n <= len(image); offset += stride {
		ok := true
		for i, entry := range pattern.Entries {
			if entry == wildcard {
				continue
			}
			if image[offset+i] != byte(entry) {
				ok = false
				break
			}
		}
		if ok {
			matches = append(matches, offset)
		}
	}
	return matches
}

// armLDRLiteralOpcodeMask/Value identify `LDR Rt,[PC,#imm12]` encoded
// in the upper 16 bits as 0xE59F (spec.md §4.7).
const (
	armLDRLiteralOpcodeMask = 0xFFFF0000
	armLDRLiteralOpcodeVal  = 0xE59F0000
)

// ResolveARMLiteral resolves the 32-bit literal loaded by an ARM
// `LDR Rt,[PC,#imm12]` instruction whose 4-byte little-endian window
// begins at offset in image.
func ResolveARMLiteral(image []byte, offset int) (uint32, error) {
	if offset+4 > len(image) {
		return 0, outOfRange("ARM literal-load window at offset %d exceeds image of %d bytes", offset, len(image))
	}
	word := binary.LittleEndian.Uint32(image[offset:])
	if word&armLDRLiteralOpcodeMask != armLDRLiteralOpcodeVal {
		return 0, invalidFormat("offset %d is not an ARM LDR Rt,[PC,#imm12] instruction", offset)
	}
	imm12 := word & 0xFFF
	pcValue := uint32(offset) + 8
	literalAddr := pcValue + imm12
	if int(literalAddr)+4 > len(image) {
		return 0, outOfRange("ARM literal address 0x%x exceeds image of %d bytes", literalAddr, len(image))
	}
	return binary.LittleEndian.Uint32(image[literalAddr:]), nil
}

// thumbLDRLiteralOpcodeMask/Value identify `LDR Rt,[PC,#imm8*4]`
// encoded as 0b01001xxx in the top byte (spec.md §4.7).
const (
	thumbLDRLiteralOpcodeMask = 0xF800
	thumbLDRLiteralOpcodeVal  = 0x4800
)

// ResolveTHUMBLiteral resolves the 32-bit literal loaded by a THUMB
// `LDR Rt,[PC,#imm8*4]` instruction whose 2-byte little-endian
// halfword begins at offset in image.
func ResolveTHUMBLiteral(image []byte, offset int) (uint32, error) {
	if offset+2 > len(image) {
		return 0, outOfRange("THUMB literal-load window at offset %d exceeds image of %d bytes", offset, len(image))
	}
	halfword := binary.LittleEndian.Uint16(image[offset:])
	if halfword&thumbLDRLiteralOpcodeMask != thumbLDRLiteralOpcodeVal {
		return 0, invalidFormat("offset %d is not a THUMB LDR Rt,[PC,#imm8*4] instruction", offset)
	}
	imm8 := uint32(halfword & 0xFF)
	pcValue := (uint32(offset) &^ 1) + 4
	literalAddr := (pcValue &^ 3) + imm8*4
	if int(literalAddr)+4 > len(image) {
		return 0, outOfRange("THUMB literal address 0x%x exceeds image of %d bytes", literalAddr, len(image))
	}
	return binary.LittleEndian.Uint32(image[literalAddr:]), nil
}

const (
	ewramBase = 0x02000000
	ewramEnd  = 0x02040000
)

func isValidEWRAMAddr(addr uint32) bool {
	return addr >= ewramBase && addr < ewramEnd && addr%4 == 0
}

// PartyAddressPatterns builds the pattern set a party-data scan
// registers: an ARM literal load and a THUMB literal load. It contains
// no multiply-by-record-size sequences and no party-count compare
// pattern, so every candidate comes from a literal-load match.
func PartyAddressPatterns() []Pattern {
	return []Pattern{
		{
			Name:    "arm-ldr-literal",
			Mode:    ModeARM,
			Entries: []int{wildcard, wildcard, 0x9F, 0xE5},
		},
		{
			Name:    "thumb-ldr-literal",
			Mode:    ModeTHUMB,
			Entries: []int{wildcard, 0x48},
		},
	}
}

// ScanCandidate is a resolved, scored party-data address candidate.
type ScanCandidate struct {
	Address    uint32
	Offset     int
	Confidence int
}

// ScanPartyAddress runs every pattern in PartyAddressPatterns against
// image, resolves each match to a 32-bit address, validates it against
// the EWRAM window, scores it (+1 per supporting pattern match, plus a
// +2 bonus when the address equals the variant's FallbackPartyAddr), and
// returns the highest-scoring valid address, earliest offset breaking
// ties (spec.md §4.7 "Candidate selection"). Fails with ErrNoMatch if
// no candidate resolves to a valid address.
func ScanPartyAddress(image []byte, v *Variant) (ScanCandidate, error) {
	scores := make(map[uint32]int)
	firstOffset := make(map[uint32]int)

	record := func(addr uint32, offset int, weight int) {
		if !isValidEWRAMAddr(addr) {
			return
		}
		scores[addr] += weight
		if first, ok := firstOffset[addr]; !ok || offset < first {
			firstOffset[addr] = offset
		}
	}

	for _, pattern := range PartyAddressPatterns() {
		for _, offset := range FindAll(image, pattern) {
			var addr uint32
			var err error
			switch pattern.Mode {
			case ModeARM:
				addr, err = ResolveARMLiteral(image, offset)
			case ModeTHUMB:
				addr, err = ResolveTHUMBLiteral(image, offset)
			}
			if err != nil {
				continue
			}
			record(addr, offset, 1)
		}
	}

	if v != nil {
		if _, ok := scores[v.FallbackPartyAddr]; ok {
			scores[v.FallbackPartyAddr] += 2
		}
	}

	var best ScanCandidate
	found := false
	for addr, score := range scores {
		offset := firstOffset[addr]
		if !found || score > best.Confidence || (score == best.Confidence && offset < best.Offset) {
			best = ScanCandidate{Address: addr, Offset: offset, Confidence: score}
			found = true
		}
	}
	if !found {
		return ScanCandidate{}, noMatch("no party-data candidate resolved to a valid EWRAM address")
	}
	return best, nil
}

// ResolveMemoryAddresses runs the scanner and falls back to the
// variant's well-known constants on NoMatch (spec.md §4.7 "Fallback
// contract"). Party count address is derived as partyDataBase - 3.
func ResolveMemoryAddresses(image []byte, v *Variant) MemoryAddresses {
	candidate, err := ScanPartyAddress(image, v)
	if err != nil {
		return MemoryAddresses{
			PartyData:  v.FallbackPartyAddr,
			PartyCount: v.FallbackPartyCountAddr,
		}
	}
	return MemoryAddresses{
		PartyData:  candidate.Address,
		PartyCount: candidate.Address - 3,
	}
}
