package core

// PlayTimeData is the player's accumulated play time.
type PlayTimeData struct {
	Hours   uint16 `json:"hours"`
	Minutes uint8  `json:"minutes"`
	Seconds uint8  `json:"seconds"`
}

// PokemonStats are the six battle stats.
type PokemonStats struct {
	HP        uint16 `json:"hp"`
	Attack    uint16 `json:"attack"`
	Defense   uint16 `json:"defense"`
	Speed     uint16 `json:"speed"`
	SpAttack  uint16 `json:"sp_attack"`
	SpDefense uint16 `json:"sp_defense"`
}

// MoveData is a single move slot and its remaining PP. moves[i] == 0
// is treated as an empty slot, so pp[i] is logically 0 regardless of
// the stored byte (spec.md §3).
type MoveData struct {
	ID uint16 `json:"id"`
	PP uint8  `json:"pp"`
}

// PokemonMoves are all four move slots of a Pokemon.
type PokemonMoves struct {
	Move1 MoveData `json:"move1"`
	Move2 MoveData `json:"move2"`
	Move3 MoveData `json:"move3"`
	Move4 MoveData `json:"move4"`
}

// PokemonEVs are effort values, 0-255 per stat.
type PokemonEVs struct {
	HP        uint8 `json:"hp"`
	Attack    uint8 `json:"attack"`
	Defense   uint8 `json:"defense"`
	Speed     uint8 `json:"speed"`
	SpAttack  uint8 `json:"sp_attack"`
	SpDefense uint8 `json:"sp_defense"`
}

// PokemonIVs are individual values, 0-31 per stat, packed 6x5 bits in
// one 32-bit field within substruct M.
type PokemonIVs struct {
	HP        uint8 `json:"hp"`
	Attack    uint8 `json:"attack"`
	Defense   uint8 `json:"defense"`
	Speed     uint8 `json:"speed"`
	SpAttack  uint8 `json:"sp_attack"`
	SpDefense uint8 `json:"sp_defense"`
}

// SectorInfo is a diagnostic view of one physical sector.
type SectorInfo struct {
	ID            uint16 `json:"id"`
	PhysicalIndex int    `json:"physical_index"`
	Checksum      uint16 `json:"checksum"`
	Counter       uint32 `json:"counter"`
	SignatureOK   bool   `json:"signature_ok"`
	ChecksumOK    bool   `json:"checksum_ok"`
}

// SaveData is the complete parsed save: player identity, the party,
// and enough bookkeeping (active slot, sector map) to rebuild.
type SaveData struct {
	PartyPokemon []*PokemonData `json:"-"`
	PlayerName   string         `json:"player_name"`
	PlayTime     PlayTimeData   `json:"play_time"`
	ActiveSlot   int            `json:"active_slot"`
	SectorMap    map[int]int    `json:"sector_map,omitempty"`
}

// IDMapping translates a variant's internal u16 id (species/item/move)
// to an external id and display names. Unmapped ids pass through
// unchanged (spec.md §3: "unmapped inputs pass through unchanged").
type IDMapping struct {
	ExternalID  int    `json:"external_id"`
	IDName      string `json:"id_name"`
	DisplayName string `json:"display_name"`
}

// GameMappings holds a variant's species/item/move id tables. A nil
// *GameMappings, or a nil individual table, means identity mapping —
// fetching the real tables from a species/move/ability reference
// service is an external collaborator's job (spec.md §1 Non-goals).
type GameMappings struct {
	Species map[uint16]IDMapping
	Items   map[uint16]IDMapping
	Moves   map[uint16]IDMapping
}

func mapID(table map[uint16]IDMapping, raw uint16) uint16 {
	if table == nil {
		return raw
	}
	if m, ok := table[raw]; ok {
		return uint16(m.ExternalID)
	}
	return raw
}

// MemoryAddresses are the addresses a live emulator memory-image
// session resolves, either from the signature scanner or from a
// variant's fallback constants (spec.md §4.7).
type MemoryAddresses struct {
	PartyData       uint32
	PartyCount      uint32
	EnemyParty      uint32
	EnemyPartyCount uint32
}

// ShinyRule selects how a variant derives IsShiny from personality/otId.
type ShinyRule int

const (
	// ShinyRuleGen3XOR: shiny iff (otIdLo^otIdHi^persLo^persHi) < 8.
	ShinyRuleGen3XOR ShinyRule = iota
	// ShinyRulePersonalityByte1: shiny iff byte 1 of personality == 1.
	ShinyRulePersonalityByte1
)

// RadiantRule selects how a variant derives IsRadiant, a ROM-hack-only
// rarity tier with no vanilla equivalent.
type RadiantRule int

const (
	// RadiantRuleNone: the variant has no radiant tier.
	RadiantRuleNone RadiantRule = iota
	// RadiantRulePersonalityByte1Eq2: radiant iff byte 1 of personality == 2.
	RadiantRulePersonalityByte1Eq2
)

// NatureRule selects how a variant derives the nature index from
// personality. Only one rule is known today, but it is kept as a
// closed enum (rather than inferred from pokemonSize) so a future
// variant can add another without touching callers.
type NatureRule int

const (
	// NatureRuleModulo25: nature index = personality % 25.
	NatureRuleModulo25 NatureRule = iota
)

// PokemonOffsets is the byte layout of a single Pokemon record.
// Offsets inside the encrypted body (species, item, moves, pp, evs,
// condition, ivs, ribbons) are not listed here: they live at fixed
// positions *within* a substruct, which itself floats per
// substructOrder(personality) — see cipher.go and pokemon.go.
type PokemonOffsets struct {
	Personality    int
	OTID           int
	Nickname       int
	NicknameLength int
	Language       int
	OTName         int
	OTNameLength   int
	Markings       int
	CurrentHP      int
	MaxHP          int
	Attack         int
	Defense        int
	Speed          int
	SpAttack       int
	SpDefense      int
	Status         int
	Level          int
	MailID         int
	// UnencryptedIVs is only meaningful when IVsEncryptedSeparately is
	// true: the offset of a 32-bit packed IV field stored in the
	// unencrypted region instead of inside substruct M.
	UnencryptedIVs int
}

// VanillaPokemonOffsets is the vanilla Emerald Pokemon record layout
// (spec.md §6).
var VanillaPokemonOffsets = PokemonOffsets{
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
}

// SaveLayout is the container-level geometry of a save image.
type SaveLayout struct {
	SectorSize       int
	SectorDataSize   int
	SectorCount      int
	SlotsPerSave     int
	PartyOffset      int // offset of the party inside SaveBlock1
	PartyCountOffset int
	PlayTimeHours    int // offsets inside SaveBlock2
	PlayTimeMinutes  int
	PlayTimeSeconds  int
	PlayTimeMS       int
}

// VanillaSaveLayout is the vanilla Emerald save geometry (spec.md §3, §6).
var VanillaSaveLayout = SaveLayout{
	SectorSize:       4096,
	SectorDataSize:   3968,
	SectorCount:      32,
	SlotsPerSave:     18,
	PartyOffset:      0x238,
	PartyCountOffset: 0x234,
	PlayTimeHours:    0x0E,
	PlayTimeMinutes:  0x10,
	PlayTimeSeconds:  0x11,
	PlayTimeMS:       0x12,
}
