// Command dmgcore-run is a thin host harness around the dmgcore CORE
// library, used for conformance-ROM testing: it runs a ROM headlessly
// and reports pass/fail based on serial output or a stable framebuffer.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/urfave/cli"

	"github.com/tholian-dev/dmgcore"
)

// harnessConfig is the optional TOML configuration file accepted via
// --config. Command-line flags override the equivalent config fields.
type harnessConfig struct {
	ROM              string `toml:"rom"`
	BootROM          string `toml:"boot_rom"`
	MaxFrames        int    `toml:"max_frames"`
	SerialTimeout    string `toml:"serial_timeout"`
	PassMarker       string `toml:"pass_marker"`
	FailMarker       string `toml:"fail_marker"`
}

func main() {
	app := cli.NewApp()
	app.Name = "dmgcore-run"
	app.Usage = "dmgcore-run [options] <ROM file>"
	app.Description = "Headless conformance runner for the dmgcore emulation core"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{Name: "rom", Usage: "Path to the ROM file"},
		cli.StringFlag{Name: "boot-rom", Usage: "Path to a boot ROM image (skips the internal boot-ROM fast-path if set)"},
		cli.StringFlag{Name: "config", Usage: "Path to a TOML harness config file"},
		cli.IntFlag{Name: "max-frames", Usage: "Give up after this many frames with no result", Value: 600},
		cli.BoolFlag{Name: "conformance", Usage: "Run in conformance mode: watch serial output for pass/fail markers"},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		slog.Error("dmgcore-run failed", "error", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	cfg := harnessConfig{
		MaxFrames:  c.Int("max-frames"),
		PassMarker: "Passed",
		FailMarker: "Failed",
	}
	if path := c.String("config"); path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return fmt.Errorf("reading config %s: %w", path, err)
		}
	}
	if c.IsSet("max-frames") {
		cfg.MaxFrames = c.Int("max-frames")
	}
	if rom := c.String("rom"); rom != "" {
		cfg.ROM = rom
	} else if c.NArg() > 0 {
		cfg.ROM = c.Args().Get(0)
	}
	if cfg.ROM == "" {
		cli.ShowAppHelp(c)
		return errors.New("no ROM path provided")
	}
	if boot := c.String("boot-rom"); boot != "" {
		cfg.BootROM = boot
	}

	romData, err := os.ReadFile(cfg.ROM)
	if err != nil {
		return fmt.Errorf("reading ROM: %w", err)
	}

	var bootROM []byte
	if cfg.BootROM != "" {
		bootROM, err = os.ReadFile(cfg.BootROM)
		if err != nil {
			return fmt.Errorf("reading boot ROM: %w", err)
		}
	}

	sys, err := dmgcore.New(romData, bootROM)
	if err != nil {
		return fmt.Errorf("power on: %w", err)
	}

	title := sys.CartridgeTitle()
	slog.Info("starting run", "rom", cfg.ROM, "title", title, "max_frames", cfg.MaxFrames)

	if c.Bool("conformance") {
		return runConformance(sys, cfg)
	}

	for i := 0; i < cfg.MaxFrames; i++ {
		sys.RunUntilVBlank()
	}
	slog.Info("run completed", "clock_count", sys.ClockCount())
	return nil
}

// runConformance runs the ROM until its serial output contains a pass or
// fail marker (the convention blargg's and mooneye's test ROMs use), or
// until max_frames elapses with no verdict.
func runConformance(sys *dmgcore.System, cfg harnessConfig) error {
	var captured []byte
	sys.OnSerialByte(func(b byte) {
		captured = append(captured, b)
	})

	start := time.Now()
	for frame := 0; frame < cfg.MaxFrames; frame++ {
		sys.RunUntilVBlank()
		out := string(captured)
		if cfg.PassMarker != "" && containsMarker(out, cfg.PassMarker) {
			slog.Info("conformance PASS", "frame", frame, "elapsed", time.Since(start), "serial", out)
			return nil
		}
		if cfg.FailMarker != "" && containsMarker(out, cfg.FailMarker) {
			slog.Error("conformance FAIL", "frame", frame, "serial", out)
			return fmt.Errorf("conformance run reported failure: %s", out)
		}
	}
	return fmt.Errorf("conformance run inconclusive after %d frames, serial output: %q", cfg.MaxFrames, string(captured))
}

func containsMarker(haystack, marker string) bool {
	if marker == "" {
		return false
	}
	for i := 0; i+len(marker) <= len(haystack); i++ {
		if haystack[i:i+len(marker)] == marker {
			return true
		}
	}
	return false
}
