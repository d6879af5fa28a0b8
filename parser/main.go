//go:build !js && !wasm

// Command pokemon-save-parser-native is a thin CLI over the core save
// engine: parse a save file and print the party, or convert text to
// and from Gen-III character bytes.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/jessevdk/go-flags"

	"pokemonsave/parser/core"
)

type options struct {
	Debug    bool   `long:"debug" description:"Print per-Pokemon JSON after the summary table"`
	ToBytes  string `long:"to-bytes" description:"Encode text to Gen-III character bytes and exit"`
	ToString string `long:"to-string" description:"Decode hex-encoded Gen-III character bytes and exit"`

	Args struct {
		File string `positional-arg-name:"save-file" description:"Save file to parse"`
	} `positional-args:"yes"`
}

func main() {
	var opts options
	parser := flags.NewParser(&opts, flags.Default)
	parser.Name = "pokemon-save-parser"

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if opts.ToBytes != "" {
		encoded := core.EncodePokemonText(opts.ToBytes, len(opts.ToBytes)+5)
		fmt.Printf("Text %q encoded to bytes: %s\n", opts.ToBytes, hexDump(encoded))
		return
	}

	if opts.ToString != "" {
		data, err := parseHex(opts.ToString)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing hex: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Hex %q decoded to text: %q\n", opts.ToString, core.DecodePokemonText(data))
		return
	}

	if opts.Args.File == "" {
		fmt.Fprintln(os.Stderr, "Error: a save file is required")
		os.Exit(1)
	}

	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(opts options) error {
	data, err := os.ReadFile(opts.Args.File)
	if err != nil {
		return fmt.Errorf("reading save file: %w", err)
	}
	fmt.Printf("Loaded save file: %s (%d bytes)\n", opts.Args.File, len(data))

	container, err := core.Open(data, nil)
	if err != nil {
		return fmt.Errorf("opening save: %w", err)
	}

	parsed, err := container.Parse()
	if err != nil {
		return fmt.Errorf("parsing save: %w", err)
	}
	for _, diag := range parsed.Diagnostics {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", diag)
	}

	fmt.Printf("Game: %s\n", container.Variant().Name)
	fmt.Printf("Player: %s\n", parsed.Data.PlayerName)
	fmt.Printf("Play Time: %02d:%02d:%02d\n",
		parsed.Data.PlayTime.Hours, parsed.Data.PlayTime.Minutes, parsed.Data.PlayTime.Seconds)
	fmt.Printf("Active Slot: %d\n", parsed.Data.ActiveSlot)
	fmt.Printf("Party Pokemon: %d\n", len(parsed.Data.PartyPokemon))

	if len(parsed.Data.PartyPokemon) > 0 {
		fmt.Println("\nParty Summary:")
		fmt.Println("Slot  Nickname     Level  Nature     HP             Attack  Defense  Speed   SpA     SpD")
		fmt.Println("----  ------------ -----  --------   -------------- ------- -------- ------- ------- -------")

		for i, pkm := range parsed.Data.PartyPokemon {
			bars := 0
			if pkm.MaxHP() > 0 {
				bars = int(20 * int(pkm.CurrentHP()) / int(pkm.MaxHP()))
			}
			hpBar := strings.Repeat("█", bars) + strings.Repeat("░", 20-bars)

			fmt.Printf("%-4d  %-12s %-5d  %-8s   [%s] %-7d %-8d %-7d %-7d %-7d\n",
				i+1, pkm.Nickname(), pkm.Level(), pkm.Nature(), hpBar,
				pkm.Attack(), pkm.Defense(), pkm.Speed(), pkm.SpAttack(), pkm.SpDefense())
		}
	}

	if opts.Debug {
		fmt.Println("\nDebug Information:")
		for i, pkm := range parsed.Data.PartyPokemon {
			fmt.Printf("\nPokemon %d JSON:\n", i+1)
			jsonData, _ := json.MarshalIndent(pkm.ToJSON(), "", "  ")
			fmt.Println(string(jsonData))
		}
	}
	return nil
}

func hexDump(data []byte) string {
	var sb strings.Builder
	for i, b := range data {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%02X", b)
	}
	return sb.String()
}

func parseHex(s string) ([]byte, error) {
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, ",", "")
	if len(s)%2 != 0 {
		return nil, fmt.Errorf("odd-length hex string")
	}
	out := make([]byte, len(s)/2)
	for i := range out {
		b, err := strconv.ParseUint(s[i*2:i*2+2], 16, 8)
		if err != nil {
			return nil, err
		}
		out[i] = byte(b)
	}
	return out, nil
}
