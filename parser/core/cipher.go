package core

// minCipherRecordLength is the smallest buffer the substruct cipher
// will operate on: a 0x20-byte unencrypted header plus four 12-byte
// substructs (spec.md C3: "for a Pokemon record of at least 80 bytes").
const minCipherRecordLength = 0x20 + 4*12

// substructBodyOffset is where the four 12-byte encrypted substructs
// begin inside a Pokemon record.
const substructBodyOffset = 0x20

const substructSize = 12

// Substruct identities: Growth, Attacks, EVs/condition, Misc.
const (
	SubstructGrowth = iota
	SubstructAttacks
	SubstructEVCondition
	SubstructMisc
)

// substructOrderTable enumerates, for personality%24, which physical
// slot (0..3) inside the encrypted body holds each logical substruct
// (Growth, Attacks, EVCondition, Misc) in that order. This is the
// standard Gen-III substructure shuffle table.
var substructOrderTable = [24][4]int{
	{0, 1, 2, 3}, {0, 1, 3, 2}, {0, 2, 1, 3}, {0, 3, 1, 2}, {0, 2, 3, 1}, {0, 3, 2, 1},
	{1, 0, 2, 3}, {1, 0, 3, 2}, {2, 0, 1, 3}, {3, 0, 1, 2}, {2, 0, 3, 1}, {3, 0, 2, 1},
	{1, 2, 0, 3}, {1, 3, 0, 2}, {2, 1, 0, 3}, {3, 1, 0, 2}, {2, 3, 0, 1}, {3, 2, 0, 1},
	{1, 2, 3, 0}, {1, 3, 2, 0}, {2, 1, 3, 0}, {3, 1, 2, 0}, {2, 3, 1, 0}, {3, 2, 1, 0},
}

// substructOrder returns the physical-slot permutation for a given
// personality value (spec.md C3: order(personality) = ORDER_TABLE[personality mod 24]).
func substructOrder(personality uint32) [4]int {
	return substructOrderTable[personality%24]
}

// cipherKey computes the 32-bit XOR key for a record: personality xor otId.
func cipherKey(record []byte) uint32 {
	personality := readU32(record, 0x00)
	otID := readU32(record, 0x04)
	return personality ^ otID
}

// readSub decrypts logical substruct i (0..3) of record and returns a
// fresh 12-byte copy; record is not mutated. Fails with ErrInvalidLength
// if record is shorter than the minimum cipher window.
func readSub(record []byte, i int) ([12]byte, error) {
	var out [12]byte
	if len(record) < minCipherRecordLength {
		return out, invalidLength("record too short for cipher: %d bytes", len(record))
	}

	personality := readU32(record, 0x00)
	key := cipherKey(record)
	slot := substructOrder(personality)[i]
	base := substructBodyOffset + slot*substructSize

	for w := 0; w < 3; w++ {
		word := readU32(record, base+w*4) ^ key
		writeU32(out[w*4:], 0, word)
	}
	return out, nil
}

// writeSub encrypts plain and stores it as logical substruct i (0..3)
// of record, overwriting the 12 ciphertext bytes at the slot computed
// from the record's current personality value.
func writeSub(record []byte, i int, plain [12]byte) error {
	if len(record) < minCipherRecordLength {
		return invalidLength("record too short for cipher: %d bytes", len(record))
	}

	personality := readU32(record, 0x00)
	key := cipherKey(record)
	slot := substructOrder(personality)[i]
	base := substructBodyOffset + slot*substructSize

	for w := 0; w < 3; w++ {
		word := readU32(plain[:], w*4) ^ key
		writeU32(record, base+w*4, word)
	}
	return nil
}

// readAllSubstructs decrypts all four substructs in logical order
// (Growth, Attacks, EVCondition, Misc).
func readAllSubstructs(record []byte) ([4][12]byte, error) {
	var subs [4][12]byte
	for i := 0; i < 4; i++ {
		s, err := readSub(record, i)
		if err != nil {
			return subs, err
		}
		subs[i] = s
	}
	return subs, nil
}

// writeAllSubstructs encrypts and stores all four substructs, in
// logical order, using the record's current personality/otId key.
func writeAllSubstructs(record []byte, subs [4][12]byte) error {
	for i := 0; i < 4; i++ {
		if err := writeSub(record, i, subs[i]); err != nil {
			return err
		}
	}
	return nil
}

// rekeySubstructs decrypts all four substructs using the record's
// current personality, overwrites the personality field with
// newPersonality, then re-encrypts all four substructs with the new
// key. This is the only correct way to mutate personality: any
// in-place write to the personality field without this transaction
// invalidates every substruct, because their shuffle order and XOR key
// both derive from it (spec.md §9 "Encryption order coupling").
func rekeySubstructs(record []byte, newPersonality uint32) error {
	subs, err := readAllSubstructs(record)
	if err != nil {
		return err
	}
	writeU32(record, 0x00, newPersonality)
	return writeAllSubstructs(record, subs)
}
