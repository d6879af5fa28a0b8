package core

import "fmt"

// PokemonData is a non-owning view over one Pokemon record: a slice of
// the save container's SaveBlock1 buffer (or of a synthetic
// "party only" slice built from a memory image), plus the variant
// descriptor that supplies every offset and behavioral rule. It never
// copies the underlying bytes; every getter reads through to data and
// every setter mutates data in place (spec.md §9 "View aliasing").
type PokemonData struct {
	data    []byte
	variant *Variant
}

// NewPokemonData wraps data (exactly variant.PokemonSize bytes, or
// more — only the first PokemonSize bytes are addressed) as a Pokemon
// record view. Fails with ErrInvalidLength if data is too short.
func NewPokemonData(data []byte, variant *Variant) (*PokemonData, error) {
	if len(data) < variant.PokemonSize {
		return nil, invalidLength("pokemon record needs %d bytes, got %d", variant.PokemonSize, len(data))
	}
	return &PokemonData{data: data, variant: variant}, nil
}

// Variant returns the descriptor this record was constructed with.
func (p *PokemonData) Variant() *Variant { return p.variant }

// Raw returns the underlying byte slice (aliased, not copied).
func (p *PokemonData) Raw() []byte { return p.data }

// --- Unencrypted fields -----------------------------------------------

func (p *PokemonData) Personality() uint32 { return readU32(p.data, p.variant.Offsets.Personality) }

// SetPersonality rekeys the record: every substruct is decrypted with
// the old key, the personality field is overwritten, and every
// substruct is re-encrypted with the new key, atomically from the
// caller's perspective (spec.md §9). Changing personality any other
// way corrupts the encrypted body.
func (p *PokemonData) SetPersonality(value uint32) error {
	if !p.variant.EncryptedBody {
		writeU32(p.data, p.variant.Offsets.Personality, value)
		return nil
	}
	return rekeySubstructs(p.data, value)
}

func (p *PokemonData) OTID() uint32 { return readU32(p.data, p.variant.Offsets.OTID) }

func (p *PokemonData) SetOTID(value uint32) { writeU32(p.data, p.variant.Offsets.OTID, value) }

// OTIDString formats the public (trainer) half of the OT id.
func (p *PokemonData) OTIDString() string {
	return fmt.Sprintf("%05d", p.OTID()&0xFFFF)
}

func (p *PokemonData) CurrentHP() uint16 { return readU16(p.data, p.variant.Offsets.CurrentHP) }
func (p *PokemonData) SetCurrentHP(v uint16) {
	writeU16(p.data, p.variant.Offsets.CurrentHP, v)
}

func (p *PokemonData) MaxHP() uint16     { return readU16(p.data, p.variant.Offsets.MaxHP) }
func (p *PokemonData) SetMaxHP(v uint16) { writeU16(p.data, p.variant.Offsets.MaxHP, v) }

func (p *PokemonData) Attack() uint16     { return readU16(p.data, p.variant.Offsets.Attack) }
func (p *PokemonData) SetAttack(v uint16) { writeU16(p.data, p.variant.Offsets.Attack, v) }

func (p *PokemonData) Defense() uint16     { return readU16(p.data, p.variant.Offsets.Defense) }
func (p *PokemonData) SetDefense(v uint16) { writeU16(p.data, p.variant.Offsets.Defense, v) }

func (p *PokemonData) Speed() uint16     { return readU16(p.data, p.variant.Offsets.Speed) }
func (p *PokemonData) SetSpeed(v uint16) { writeU16(p.data, p.variant.Offsets.Speed, v) }

func (p *PokemonData) SpAttack() uint16     { return readU16(p.data, p.variant.Offsets.SpAttack) }
func (p *PokemonData) SetSpAttack(v uint16) { writeU16(p.data, p.variant.Offsets.SpAttack, v) }

func (p *PokemonData) SpDefense() uint16     { return readU16(p.data, p.variant.Offsets.SpDefense) }
func (p *PokemonData) SetSpDefense(v uint16) { writeU16(p.data, p.variant.Offsets.SpDefense, v) }

func (p *PokemonData) Status() uint32     { return readU32(p.data, p.variant.Offsets.Status) }
func (p *PokemonData) SetStatus(v uint32) { writeU32(p.data, p.variant.Offsets.Status, v) }

func (p *PokemonData) Level() uint8     { return p.data[p.variant.Offsets.Level] }
func (p *PokemonData) SetLevel(v uint8) { p.data[p.variant.Offsets.Level] = v }

func (p *PokemonData) Stats() PokemonStats {
	return PokemonStats{
		HP:        p.MaxHP(),
		Attack:    p.Attack(),
		Defense:   p.Defense(),
		Speed:     p.Speed(),
		SpAttack:  p.SpAttack(),
		SpDefense: p.SpDefense(),
	}
}

// AbilityNumber derives the ability slot from status bits 0x10 and
// 0x20 (spec.md §4.4).
func (p *PokemonData) AbilityNumber() uint8 {
	status := p.Status()
	n := uint8(0)
	if status&0x10 != 0 {
		n |= 1
	}
	if status&0x20 != 0 {
		n |= 2
	}
	return n
}

func (p *PokemonData) Nickname() string {
	off, ln := p.variant.Offsets.Nickname, p.variant.Offsets.NicknameLength
	return DecodePokemonText(p.data[off : off+ln])
}

func (p *PokemonData) SetNickname(nickname string) {
	off, ln := p.variant.Offsets.Nickname, p.variant.Offsets.NicknameLength
	copy(p.data[off:off+ln], EncodePokemonText(nickname, ln))
}

func (p *PokemonData) OTName() string {
	off, ln := p.variant.Offsets.OTName, p.variant.Offsets.OTNameLength
	return DecodePokemonText(p.data[off : off+ln])
}

func (p *PokemonData) SetOTName(otName string) {
	off, ln := p.variant.Offsets.OTName, p.variant.Offsets.OTNameLength
	copy(p.data[off:off+ln], EncodePokemonText(otName, ln))
}

// --- Derived, variant-governed accessors -------------------------------

func (p *PokemonData) Nature() string { return p.variant.NatureName(p.Personality()) }

// SetNature sets the nature by adding (requested - current nature index)
// to personality; the carry or borrow can change bits above the lowest
// byte. If the record's current nature already equals requested, this is a
// no-op; otherwise every substruct is re-encrypted under the adjusted
// personality (spec.md §4.4). Fails with ErrOutOfRange if requested is
// not in [0, 24].
func (p *PokemonData) SetNature(requested int) error {
	if requested < 0 || requested > 24 {
		return outOfRange("nature index %d out of range [0,24]", requested)
	}
	current := p.variant.NatureIndex(p.Personality())
	if current == requested {
		return nil
	}
	newPersonality := p.Personality() - uint32(current) + uint32(requested)
	return p.SetPersonality(newPersonality)
}

func (p *PokemonData) IsShiny() bool {
	return p.variant.IsShiny(p.Personality(), p.OTID())
}

func (p *PokemonData) IsRadiant() bool {
	return p.variant.IsRadiant(p.Personality())
}

func (p *PokemonData) ShinyValue() uint32 {
	return p.variant.ShinyValue(p.Personality(), p.OTID())
}

// --- Encrypted-body accessors ------------------------------------------

// SpeciesID decodes substruct G and maps it through the variant's
// species table. An empty-slot record reports species id 0.
func (p *PokemonData) SpeciesID() (uint16, error) {
	sub, err := readSub(p.data, SubstructGrowth)
	if err != nil {
		return 0, err
	}
	raw := readU16(sub[:], 0)
	return mapID(mappingsOrNil(p.variant).Species, raw), nil
}

// SetSpeciesID encrypts raw (unmapped) species id into substruct G.
func (p *PokemonData) SetSpeciesID(raw uint16) error {
	sub, err := readSub(p.data, SubstructGrowth)
	if err != nil {
		return err
	}
	writeU16(sub[:], 0, raw)
	return writeSub(p.data, SubstructGrowth, sub)
}

// ItemID decodes substruct G and maps it through the variant's item table.
func (p *PokemonData) ItemID() (uint16, error) {
	sub, err := readSub(p.data, SubstructGrowth)
	if err != nil {
		return 0, err
	}
	raw := readU16(sub[:], 2)
	return mapID(mappingsOrNil(p.variant).Items, raw), nil
}

func (p *PokemonData) SetItemID(raw uint16) error {
	sub, err := readSub(p.data, SubstructGrowth)
	if err != nil {
		return err
	}
	writeU16(sub[:], 2, raw)
	return writeSub(p.data, SubstructGrowth, sub)
}

func (p *PokemonData) Experience() (uint32, error) {
	sub, err := readSub(p.data, SubstructGrowth)
	if err != nil {
		return 0, err
	}
	return readU32(sub[:], 4), nil
}

func (p *PokemonData) Friendship() (uint8, error) {
	sub, err := readSub(p.data, SubstructGrowth)
	if err != nil {
		return 0, err
	}
	return sub[9], nil
}

// Moves decodes substruct A into the four move/PP slots, mapping move
// ids through the variant's move table.
func (p *PokemonData) Moves() (PokemonMoves, error) {
	var out PokemonMoves
	sub, err := readSub(p.data, SubstructAttacks)
	if err != nil {
		return out, err
	}
	mappings := mappingsOrNil(p.variant).Moves
	rawIDs := [4]uint16{readU16(sub[:], 0), readU16(sub[:], 2), readU16(sub[:], 4), readU16(sub[:], 6)}
	pps := [4]uint8{sub[8], sub[9], sub[10], sub[11]}

	slots := [4]*MoveData{&out.Move1, &out.Move2, &out.Move3, &out.Move4}
	for i, slot := range slots {
		id := rawIDs[i]
		pp := pps[i]
		if id == 0 {
			pp = 0
		}
		slot.ID = mapID(mappings, id)
		slot.PP = pp
	}
	return out, nil
}

// SetMove writes move slot i (0-3)'s raw id and PP into substruct A.
func (p *PokemonData) SetMove(i int, rawID uint16, pp uint8) error {
	if i < 0 || i > 3 {
		return outOfRange("move slot %d out of range [0,3]", i)
	}
	sub, err := readSub(p.data, SubstructAttacks)
	if err != nil {
		return err
	}
	writeU16(sub[:], i*2, rawID)
	sub[8+i] = pp
	return writeSub(p.data, SubstructAttacks, sub)
}

// EVs decodes substruct E's first six bytes.
func (p *PokemonData) EVs() (PokemonEVs, error) {
	sub, err := readSub(p.data, SubstructEVCondition)
	if err != nil {
		return PokemonEVs{}, err
	}
	return PokemonEVs{
		HP: sub[0], Attack: sub[1], Defense: sub[2],
		Speed: sub[3], SpAttack: sub[4], SpDefense: sub[5],
	}, nil
}

// SetEV clamps value to [0,255] (always true for a uint8, but the
// clamp documents the invariant from spec.md §3/§8) and writes EV
// index i (0=HP,1=Atk,2=Def,3=Spe,4=SpA,5=SpD).
func (p *PokemonData) SetEV(index int, value uint8) error {
	if index < 0 || index > 5 {
		return outOfRange("EV index %d out of range [0,5]", index)
	}
	sub, err := readSub(p.data, SubstructEVCondition)
	if err != nil {
		return err
	}
	sub[index] = clampU8(value, 0, 255)
	return writeSub(p.data, SubstructEVCondition, sub)
}

// ivsWord returns the raw 32-bit packed IV field, from substruct M or
// from the unencrypted offset, depending on the variant flag.
func (p *PokemonData) ivsWord() (uint32, error) {
	if p.variant.IVsEncryptedSeparately {
		return readU32(p.data, p.variant.Offsets.UnencryptedIVs), nil
	}
	sub, err := readSub(p.data, SubstructMisc)
	if err != nil {
		return 0, err
	}
	return readU32(sub[:], 4), nil
}

func (p *PokemonData) setIVsWord(word uint32) error {
	if p.variant.IVsEncryptedSeparately {
		writeU32(p.data, p.variant.Offsets.UnencryptedIVs, word)
		return nil
	}
	sub, err := readSub(p.data, SubstructMisc)
	if err != nil {
		return err
	}
	writeU32(sub[:], 4, word)
	return writeSub(p.data, SubstructMisc, sub)
}

// IVs unpacks the six 5-bit IV fields (HP, Atk, Def, Spe, SpA, SpD, in
// that order starting at bit 0).
func (p *PokemonData) IVs() (PokemonIVs, error) {
	word, err := p.ivsWord()
	if err != nil {
		return PokemonIVs{}, err
	}
	return PokemonIVs{
		HP:        uint8(word>>0) & 0x1F,
		Attack:    uint8(word>>5) & 0x1F,
		Defense:   uint8(word>>10) & 0x1F,
		Speed:     uint8(word>>15) & 0x1F,
		SpAttack:  uint8(word>>20) & 0x1F,
		SpDefense: uint8(word>>25) & 0x1F,
	}, nil
}

// ivBitOffsets maps IV index (0=HP..5=SpD) to its bit offset in the
// packed word.
var ivBitOffsets = [6]uint{0, 5, 10, 15, 20, 25}

// SetIV clamps value to [0,31] and writes IV index i, leaving the
// remaining two high bits (egg flag, ability bit) unchanged
// (spec.md §4.4, §8 property 5).
func (p *PokemonData) SetIV(index int, value uint8) error {
	if index < 0 || index > 5 {
		return outOfRange("IV index %d out of range [0,5]", index)
	}
	word, err := p.ivsWord()
	if err != nil {
		return err
	}
	value = clampU8(value, 0, 31)
	shift := ivBitOffsets[index]
	word &^= uint32(0x1F) << shift
	word |= uint32(value) << shift
	return p.setIVsWord(word)
}

func clampU8(v, lo, hi uint8) uint8 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func mappingsOrNil(v *Variant) *GameMappings {
	if v.Mappings != nil {
		return v.Mappings
	}
	return &GameMappings{}
}

// IsEmpty reports whether this slot is unoccupied: its mapped species
// id is 0 (spec.md §4.4 "Termination semantics"). A decode error is
// treated as non-empty so malformed data surfaces through the normal
// accessor error path instead of silently vanishing from the party.
func (p *PokemonData) IsEmpty() bool {
	species, err := p.SpeciesID()
	return err == nil && species == 0
}

// ToJSON returns a plain map suitable for json.Marshal, mirroring the
// teacher's debug dump but sourced from the full accessor surface.
func (p *PokemonData) ToJSON() map[string]any {
	species, _ := p.SpeciesID()
	item, _ := p.ItemID()
	moves, _ := p.Moves()
	evs, _ := p.EVs()
	ivs, _ := p.IVs()

	return map[string]any{
		"species_id":  species,
		"item_id":     item,
		"nickname":    p.Nickname(),
		"ot_name":     p.OTName(),
		"ot_id":       p.OTIDString(),
		"level":       p.Level(),
		"personality": p.Personality(),
		"current_hp":  p.CurrentHP(),
		"max_hp":      p.MaxHP(),
		"attack":      p.Attack(),
		"defense":     p.Defense(),
		"speed":       p.Speed(),
		"sp_attack":   p.SpAttack(),
		"sp_defense":  p.SpDefense(),
		"status":      p.Status(),
		"nature":      p.Nature(),
		"is_shiny":    p.IsShiny(),
		"is_radiant":  p.IsRadiant(),
		"shiny_value": p.ShinyValue(),
		"ability_num": p.AbilityNumber(),
		"moves":       moves,
		"evs":         evs,
		"ivs":         ivs,
		"stats":       p.Stats(),
	}
}
