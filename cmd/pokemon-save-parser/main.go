// Command pokemon-save-parser parses a Gen-III save file (or, with
// --memory, a raw emulator memory image) and prints the party, player
// identity, and play time. It is the full-featured sibling of
// parser/main.go: variant auto-detection, per-sector diagnostics, and
// the signature-scanner fallback path all go through this entry point.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog"

	applog "pokemonsave/log"
	"pokemonsave/parser/core"
)

type options struct {
	Debug    bool   `long:"debug" description:"Enable debug-level logging"`
	RomTitle string `long:"rom-title" description:"Detect the variant from a ROM/GBA header title instead of the save bytes"`
	Memory   bool   `long:"memory" description:"Treat the input file as a raw emulator memory image and run the signature scanner"`

	Args struct {
		File string `positional-arg-name:"file" description:"Save file or memory image to parse"`
	} `positional-args:"yes"`
}

func main() {
	var opts options
	parser := flags.NewParser(&opts, flags.Default)
	parser.Name = "pokemon-save-parser"
	parser.LongDescription = "Parses Pokemon Generation-III save files and emulator memory images."

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	level := zerolog.InfoLevel
	if opts.Debug {
		level = zerolog.DebugLevel
	}
	applog.SetLogger(applog.NewZerologAdapter(zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()))

	if opts.Args.File == "" {
		fmt.Fprintln(os.Stderr, "Error: a file argument is required")
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
		return fmt.Errorf("reading file: %w", err)
	}
	applog.Debug("loaded file", applog.F("path", opts.Args.File), applog.F("bytes", len(data)))

	registry := core.DefaultVariantRegistry()

	var variant *core.Variant
	if opts.RomTitle != "" {
		variant, err = registry.DetectFromRomTitle(opts.RomTitle)
		if err != nil {
			return fmt.Errorf("detecting variant from ROM title: %w", err)
		}
	}

	if opts.Memory {
		return runMemoryScan(data, variant, registry)
	}
	return runSaveFile(data, variant, registry)
}

func runSaveFile(data []byte, variant *core.Variant, registry *core.VariantRegistry) error {
	var container *core.Container
	var err error
	if variant != nil {
		container, err = core.OpenWithVariant(data, variant)
	} else {
		container, err = core.Open(data, registry)
	}
	if err != nil {
		return fmt.Errorf("opening save: %w", err)
	}

	parsed, err := container.Parse()
	if err != nil {
		return fmt.Errorf("parsing save: %w", err)
	}
	for _, diag := range parsed.Diagnostics {
		applog.Warn("sector diagnostic", applog.F("detail", diag.Error()))
	}

	fmt.Printf("Detected game: %s\n", container.Variant().Name)
	fmt.Printf("Active save slot: %d\n", parsed.Data.ActiveSlot)
	fmt.Printf("Valid sectors found: %d\n", len(parsed.Data.SectorMap))

	displaySaveInfo(parsed.Data)
	displayParty(parsed.Data.PartyPokemon)
	return nil
}

func runMemoryScan(image []byte, variant *core.Variant, registry *core.VariantRegistry) error {
	if variant == nil {
		variant = registry.Variants()[0]
	}
	addrs := core.ResolveMemoryAddresses(image, variant)
	fmt.Printf("Resolved addresses for %s:\n", variant.Name)
	fmt.Printf("  Party data:  0x%08X\n", addrs.PartyData)
	fmt.Printf("  Party count: 0x%08X\n", addrs.PartyCount)
	return nil
}

func displayParty(party []*core.PokemonData) {
	fmt.Printf("\n--- Party Pokemon Summary ---\n")
	if len(party) == 0 {
		fmt.Println("No Pokemon found in party.")
		return
	}

	header := "Slot Dex ID  Nickname    Lv  Ability Nature    Shiny HP                              Atk  Def  Spe  SpA  SpD  OT Name   IDNo    "
	fmt.Println(header)
	fmt.Println(strings.Repeat("-", len(header)))

	for i, pkm := range party {
		speciesID, _ := pkm.SpeciesID()
		hpBars := 20
		if pkm.MaxHP() > 0 {
			hpBars = int(20 * int(pkm.CurrentHP()) / int(pkm.MaxHP()))
		}
		hpBar := fmt.Sprintf("[%s%s] %d/%d",
			strings.Repeat("█", hpBars), strings.Repeat("░", 20-hpBars),
			pkm.CurrentHP(), pkm.MaxHP())

		fmt.Printf("%-5d%-8d%-12s%-4d%-8d%-10s%-6d%-34s%-5d%-5d%-5d%-5d%-5d%-10s%-8s\n",
			i+1, speciesID, pkm.Nickname(), pkm.Level(), pkm.AbilityNumber(), pkm.Nature(), pkm.ShinyValue(),
			hpBar, pkm.Attack(), pkm.Defense(), pkm.Speed(), pkm.SpAttack(), pkm.SpDefense(), pkm.OTName(), pkm.OTIDString())
	}
}

func displaySaveInfo(save *core.SaveData) {
	fmt.Printf("\n--- SaveBlock2 Data ---\n")
	fmt.Printf("Player Name: %s\n", save.PlayerName)
	fmt.Printf("Play Time: %dh %dm %ds\n", save.PlayTime.Hours, save.PlayTime.Minutes, save.PlayTime.Seconds)
}
