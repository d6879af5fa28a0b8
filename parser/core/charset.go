package core

import "strings"

// textTerminator is the byte that ends a Gen-III fixed-width text field.
const textTerminator byte = 0xFF

// charsetTable maps a Gen-III character byte to its UTF-8 glyph. Not
// configurable per variant in this core: every variant that shares the
// Gen-III text encoding shares this table (spec.md C2).
var charsetTable [256]string

// reverseCharsetTable maps a glyph back to its Gen-III byte, built once
// from charsetTable.
var reverseCharsetTable map[string]byte

func init() {
	charsetTable[0x00] = " "

	digits := "0123456789"
	for i := 0; i < len(digits); i++ {
		charsetTable[0xA1+i] = string(digits[i])
	}

	punct := map[byte]string{
		0xAB: "!",
		0xAC: "?",
		0xAD: ".",
		0xAE: "-",
		0xB5: "♂",
		0xB6: "♀",
		0xB7: "$",
		0xB8: ",",
		0xB9: "×",
		0xBA: "/",
	}
	for b, s := range punct {
		charsetTable[b] = s
	}

	upper := "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	for i := 0; i < len(upper); i++ {
		charsetTable[0xBB+i] = string(upper[i])
	}

	lower := "abcdefghijklmnopqrstuvwxyz"
	for i := 0; i < len(lower); i++ {
		charsetTable[0xD5+i] = string(lower[i])
	}

	reverseCharsetTable = make(map[string]byte, 256)
	for b, s := range charsetTable {
		if s != "" {
			if _, exists := reverseCharsetTable[s]; !exists {
				reverseCharsetTable[s] = byte(b)
			}
		}
	}
}

// DecodePokemonText decodes Gen-III character-encoded bytes to a
// string. Decoding stops at the terminator byte (0xFF) or the end of
// input. Trailing whitespace is trimmed.
func DecodePokemonText(data []byte) string {
	var sb strings.Builder
	for _, b := range data {
		if b == textTerminator {
			break
		}
		sb.WriteString(charsetTable[b])
	}
	return strings.TrimRight(sb.String(), " ")
}

// EncodePokemonText encodes a string to Gen-III character bytes,
// padded (and truncated) to a fixed width and terminated with 0xFF.
// Unmapped runes are encoded as a space.
func EncodePokemonText(text string, width int) []byte {
	out := make([]byte, width)
	for i := range out {
		out[i] = textTerminator
	}

	i := 0
	for _, r := range text {
		if i >= width-1 {
			break
		}
		glyph := string(r)
		b, ok := reverseCharsetTable[glyph]
		if !ok {
			b = charsetByte(' ')
		}
		out[i] = b
		i++
	}
	if i < width {
		out[i] = textTerminator
	}
	return out
}

func charsetByte(r rune) byte {
	if b, ok := reverseCharsetTable[string(r)]; ok {
		return b
	}
	return 0x00
}
