package core

import (
	"encoding/binary"
	"strings"
)

// Variant is a read-only descriptor of a Gen-III save-file dialect.
// Variants are represented as plain data — a tagged-value struct — not
// as an inheritance hierarchy or interface implementation (spec.md §9
// "Variant polymorphism"). The registry walks an ordered list of these
// and picks the first one whose predicate matches.
type Variant struct {
	Name      string
	Signature uint32

	PokemonSize  int // 100 (vanilla) or 104 (variant, e.g. Quetzal)
	MaxPartySize int

	Offsets PokemonOffsets
	Layout  SaveLayout

	EncryptedBody          bool
	IVsEncryptedSeparately bool
	ShinyRule              ShinyRule
	RadiantRule            RadiantRule
	NatureRule             NatureRule

	// RomTitleMatches are ASCII/Latin-1 substrings checked against a
	// ROM title or GBA header internal-title field by
	// DetectFromRomTitle. More specific variants must be registered
	// before the generic vanilla entry (spec.md §4.5).
	RomTitleMatches []string

	Mappings *GameMappings

	// FallbackPartyAddr/FallbackPartyCountAddr are the well-known
	// EWRAM addresses used when the signature scanner fails
	// (spec.md §4.7).
	FallbackPartyAddr      uint32
	FallbackPartyCountAddr uint32
}

// natureNames is the fixed Gen-III nature table, indexed by nature ID
// 0..24.
var natureNames = [25]string{
	"Hardy", "Lonely", "Brave", "Adamant", "Naughty",
	"Bold", "Docile", "Relaxed", "Impish", "Lax",
	"Timid", "Hasty", "Serious", "Jolly", "Naive",
	"Modest", "Mild", "Quiet", "Bashful", "Rash",
	"Calm", "Gentle", "Sassy", "Careful", "Quirky",
}

// NatureIndex derives the nature index (0..24) for a personality value
// under this variant's nature rule. Default (and currently only) rule
// is personality mod 25.
func (v *Variant) NatureIndex(personality uint32) int {
	switch v.NatureRule {
	default: // NatureRuleModulo25
		return int(personality % 25)
	}
}

// NatureName returns the nature name for a personality value.
func (v *Variant) NatureName(personality uint32) string {
	return natureNames[v.NatureIndex(personality)]
}

// ShinyValue computes the shiny-comparison value (spec.md §3).
func (v *Variant) ShinyValue(personality, otID uint32) uint32 {
	switch v.ShinyRule {
	case ShinyRulePersonalityByte1:
		return (personality >> 8) & 0xFF
	default: // ShinyRuleGen3XOR
		trainerID := otID & 0xFFFF
		secretID := (otID >> 16) & 0xFFFF
		persLo := personality & 0xFFFF
		persHi := (personality >> 16) & 0xFFFF
		return trainerID ^ secretID ^ persLo ^ persHi
	}
}

// IsShiny reports shininess under this variant's shiny rule.
func (v *Variant) IsShiny(personality, otID uint32) bool {
	switch v.ShinyRule {
	case ShinyRulePersonalityByte1:
		return v.ShinyValue(personality, otID) == 1
	default: // ShinyRuleGen3XOR
		return v.ShinyValue(personality, otID) < 8
	}
}

// IsRadiant reports whether a Pokemon is the ROM-hack-only "radiant"
// rarity tier. Vanilla Emerald has no such tier.
func (v *Variant) IsRadiant(personality uint32) bool {
	switch v.RadiantRule {
	case RadiantRulePersonalityByte1Eq2:
		return (personality>>8)&0xFF == 2
	default:
		return false
	}
}

// CanHandle implements the canonical save-image predicate from
// spec.md §4.5: size in range, at least 8 sectors whose footer
// signature matches, and a non-empty party at the variant's party
// offset.
func (v *Variant) CanHandle(image []byte) bool {
	if len(image) < 131072 || len(image) > 131200 {
		return false
	}

	validSectors := 0
	sectorMap := make(map[int]int)
	for i := 0; i*v.Layout.SectorSize+v.Layout.SectorSize <= len(image); i++ {
		base := i * v.Layout.SectorSize
		footer := base + v.Layout.SectorDataSize
		if footer+12 > len(image) {
			break
		}
		sig := binary.LittleEndian.Uint32(image[footer+4 : footer+8])
		if sig == v.Signature {
			validSectors++
			id := int(binary.LittleEndian.Uint16(image[footer : footer+2]))
			sectorMap[id] = i
		}
	}
	if validSectors < 8 {
		return false
	}

	sb1 := assembleSaveBlock1(image, sectorMap, v)
	if len(sb1) < v.Layout.PartyOffset+v.PokemonSize {
		return false
	}
	record := sb1[v.Layout.PartyOffset : v.Layout.PartyOffset+v.PokemonSize]
	pkm, err := NewPokemonData(record, v)
	if err != nil || pkm.IsEmpty() {
		return false
	}
	species, err := pkm.SpeciesID()
	return err == nil && species > 0
}

// CanHandleRomTitle implements detectFromRomTitle's substring match
// (spec.md §4.5).
func (v *Variant) CanHandleRomTitle(title string) bool {
	upper := strings.ToUpper(title)
	for _, m := range v.RomTitleMatches {
		if strings.Contains(upper, strings.ToUpper(m)) {
			return true
		}
	}
	return false
}

// VariantRegistry is an ordered list of variant descriptors. Order
// matters: more specific variants must precede the generic vanilla
// entry, since detection relies on ordering rather than a positive
// signal to disambiguate (spec.md §9 Open Questions).
type VariantRegistry struct {
	variants []*Variant
}

// NewVariantRegistry builds a registry from variants in priority order.
func NewVariantRegistry(variants ...*Variant) *VariantRegistry {
	return &VariantRegistry{variants: variants}
}

// Variants returns the registry's variants in priority order.
func (r *VariantRegistry) Variants() []*Variant { return r.variants }

// DefaultVariantRegistry returns the registry shipped by this package:
// Quetzal (specific) before vanilla Emerald (generic).
func DefaultVariantRegistry() *VariantRegistry {
	return NewVariantRegistry(QuetzalVariant, VanillaEmeraldVariant)
}

// DetectFromSave returns the first variant whose CanHandle predicate
// matches image, or ErrNoMatch.
func (r *VariantRegistry) DetectFromSave(image []byte) (*Variant, error) {
	for _, v := range r.variants {
		if v.CanHandle(image) {
			return v, nil
		}
	}
	return nil, noMatch("no registered variant recognised this save image")
}

// DetectFromRomTitle returns the first variant whose title-match rules
// hit, or ErrNoMatch.
func (r *VariantRegistry) DetectFromRomTitle(title string) (*Variant, error) {
	for _, v := range r.variants {
		if v.CanHandleRomTitle(title) {
			return v, nil
		}
	}
	return nil, noMatch("no registered variant recognised ROM title %q", title)
}

// VanillaEmeraldSignature is the sector-footer signature constant
// written by vanilla Pokemon Emerald.
const VanillaEmeraldSignature = 0x08012025

// VanillaEmeraldVariant is the built-in vanilla Pokemon Emerald
// descriptor.
var VanillaEmeraldVariant = &Variant{
	Name:                   "Pokemon Emerald (Vanilla)",
	Signature:              VanillaEmeraldSignature,
	PokemonSize:            100,
	MaxPartySize:           6,
	Offsets:                VanillaPokemonOffsets,
	Layout:                 VanillaSaveLayout,
	EncryptedBody:          true,
	IVsEncryptedSeparately: false,
	ShinyRule:              ShinyRuleGen3XOR,
	RadiantRule:            RadiantRuleNone,
	NatureRule:             NatureRuleModulo25,
	RomTitleMatches:        []string{"POKEMON EMER"},
	FallbackPartyAddr:      0x020244EC,
	FallbackPartyCountAddr: 0x020244E9,
}

// quetzalPokemonOffsets is the Quetzal ROM-hack Pokemon record layout:
// a 104-byte record whose offsets match vanilla, plus an unencrypted
// 32-bit IV field in the 4 extra trailing bytes. Grounded on the literal offsets used by
// cmd/pokemon-save-parser/main.go's Quetzal branch in the teacher tree.
var quetzalPokemonOffsets = PokemonOffsets{
	Personality:    0x00,
	OTID:           0x04,
	Nickname:       0x08,
	NicknameLength: 10,
	Language:       0x12,
	OTName:         0x14,
	OTNameLength:   7,
	Markings:       0x1B,
	Status:         0x50,
	Level:          0x54,
	MailID:         0x55,
	CurrentHP:      0x56,
	MaxHP:          0x58,
	Attack:         0x5A,
	Defense:        0x5C,
	Speed:          0x5E,
	SpAttack:       0x60,
	SpDefense:      0x62,
	// UnencryptedIVs lives in the 4 trailing bytes Quetzal adds past the
	// vanilla 100-byte record, clear of the 0x20..0x50 encrypted body.
	UnencryptedIVs: 0x64,
}

var quetzalSaveLayout = SaveLayout{
	SectorSize:       4096,
	SectorDataSize:   3968,
	SectorCount:      32,
	SlotsPerSave:     18,
	PartyOffset:      0x6A8,
	PartyCountOffset: 0x6A4,
	PlayTimeHours:    0x10,
	PlayTimeMinutes:  0x14,
	PlayTimeSeconds:  0x15,
	PlayTimeMS:       0x16,
}

// QuetzalVariant is the built-in descriptor for the "Quetzal" ROM
// hack family: 104-byte records, unencrypted IVs, and a
// byte-1-of-personality shiny/radiant rule rather than the vanilla
// OT-xor-personality rule (spec.md §9 Open Questions notes this flag
// is asserted by the source, not derivable from record size alone).
var QuetzalVariant = &Variant{
	Name:                   "Pokemon Quetzal",
	Signature:              VanillaEmeraldSignature,
	PokemonSize:            104,
	MaxPartySize:           6,
	Offsets:                quetzalPokemonOffsets,
	Layout:                 quetzalSaveLayout,
	EncryptedBody:          true,
	IVsEncryptedSeparately: true,
	ShinyRule:              ShinyRulePersonalityByte1,
	RadiantRule:            RadiantRulePersonalityByte1Eq2,
	NatureRule:             NatureRuleModulo25,
	RomTitleMatches:        []string{"QUETZAL"},
	FallbackPartyAddr:      0x02024284,
	FallbackPartyCountAddr: 0x02024281,
}
