// Package main is the entry point for the macropad host tool.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dshills/macropad/internal/config"
	"github.com/dshills/macropad/internal/eeprom"
	"github.com/dshills/macropad/internal/keyaction"
	"github.com/dshills/macropad/internal/macrostore"
	"github.com/dshills/macropad/internal/notify"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	var configPath string
	var showVersion bool

	flag.StringVar(&configPath, "config", "", "Path to configuration file")
	flag.StringVar(&configPath, "c", "", "Path to configuration file (shorthand)")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")

	flag.Usage = usage
	flag.Parse()

	if showVersion {
		fmt.Printf("macropad %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		return 0
	}

	args := flag.Args()
	if len(args) == 0 {
		usage()
		return 2
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: loading configuration: %v\n", err)
		return 1
	}

	cmd, args := args[0], args[1:]
	if err := dispatch(cfg, cmd, args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func usage() {
	fmt.Fprintf(os.Stderr, "macropad - persistent keyboard macro store\n\n")
	fmt.Fprintf(os.Stderr, "Usage: macropad [options] <command> [args]\n\n")
	fmt.Fprintf(os.Stderr, "Options:\n")
	flag.PrintDefaults()
	fmt.Fprintf(os.Stderr, "\nCommands:\n")
	fmt.Fprintf(os.Stderr, "  info                       Show region and usage summary\n")
	fmt.Fprintf(os.Stderr, "  list                       List stored macros\n")
	fmt.Fprintf(os.Stderr, "  record <trigger> <act>...  Store a macro for a trigger key\n")
	fmt.Fprintf(os.Stderr, "  play <trigger>             Print a macro's actions in order\n")
	fmt.Fprintf(os.Stderr, "  clear <trigger>            Delete the macro for a trigger key\n")
	fmt.Fprintf(os.Stderr, "  clear-all                  Delete every stored macro\n")
	fmt.Fprintf(os.Stderr, "  compact                    Reclaim space held by deleted macros\n")
	fmt.Fprintf(os.Stderr, "  export [-o file]           Write all macros as YAML\n")
	fmt.Fprintf(os.Stderr, "  import [-merge] <file>     Record macros from a YAML export\n")
	fmt.Fprintf(os.Stderr, "  reset                      Reinitialize the region, losing all macros\n")
	fmt.Fprintf(os.Stderr, "  watch                      Report external changes to the image file\n")
	fmt.Fprintf(os.Stderr, "\nKeys are written layer/row/column, actions with a +/- prefix:\n")
	fmt.Fprintf(os.Stderr, "  macropad record 0/3/7 +0/1/2 -0/1/2\n")
}

func dispatch(cfg config.Config, cmd string, args []string) error {
	switch cmd {
	case "info":
		return cmdInfo(cfg, args)
	case "list":
		return cmdList(cfg, args)
	case "record":
		return cmdRecord(cfg, args)
	case "play":
		return cmdPlay(cfg, args)
	case "clear":
		return cmdClear(cfg, args)
	case "clear-all":
		return cmdClearAll(cfg, args)
	case "compact":
		return cmdCompact(cfg, args)
	case "export":
		return cmdExport(cfg, args)
	case "import":
		return cmdImport(cfg, args)
	case "reset":
		return cmdReset(cfg, args)
	case "watch":
		return cmdWatch(cfg, args)
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

// openStore opens the image file and the macro store over it. The
// returned notifier reports store changes to stderr so batch commands
// show what they did.
func openStore(cfg config.Config) (*macrostore.Store, *eeprom.FileDevice, error) {
	dev, err := eeprom.OpenFile(cfg.ImagePath, cfg.DeviceSize)
	if err != nil {
		return nil, nil, err
	}

	n := notify.New()
	if _, err := n.Subscribe(func(e notify.Event) {
		switch e.Kind {
		case notify.Reinitialized:
			fmt.Fprintf(os.Stderr, "region reinitialized, stored macros lost\n")
		case notify.Compacted:
			fmt.Fprintf(os.Stderr, "compacted, %d bytes reclaimed\n", e.Reclaimed)
		}
	}); err != nil {
		return nil, nil, err
	}

	region := macrostore.Region{
		Start:   cfg.RegionStart,
		End:     cfg.RegionEnd,
		Version: cfg.Version,
	}
	opts := []macrostore.Option{
		macrostore.WithNotifier(n),
		macrostore.WithAutoCompact(cfg.AutoCompact),
		macrostore.WithVersionGuard(cfg.VersionGuard),
	}
	s, err := macrostore.Open(dev, region, opts...)
	if err != nil {
		return nil, nil, err
	}
	return s, dev, nil
}

func cmdInfo(cfg config.Config, args []string) error {
	if len(args) != 0 {
		return errors.New("info takes no arguments")
	}
	s, dev, err := openStore(cfg)
	if err != nil {
		return err
	}
	macros, err := s.Macros()
	if err != nil {
		return err
	}
	fmt.Printf("image:   %s (%d bytes)\n", dev.Path(), dev.Size())
	fmt.Printf("region:  %#04x-%#04x version %#02x\n", cfg.RegionStart, cfg.RegionEnd, cfg.Version)
	fmt.Printf("macros:  %d\n", len(macros))
	fmt.Printf("free:    %d bytes\n", s.FreeBytes())
	return nil
}

func cmdList(cfg config.Config, args []string) error {
	if len(args) != 0 {
		return errors.New("list takes no arguments")
	}
	s, _, err := openStore(cfg)
	if err != nil {
		return err
	}
	macros, err := s.Macros()
	if err != nil {
		return err
	}
	for _, m := range macros {
		fmt.Printf("%s  (%d actions)\n", formatKey(m.Trigger), len(m.Actions))
	}
	return nil
}

func cmdRecord(cfg config.Config, args []string) error {
	if len(args) < 2 {
		return errors.New("record needs a trigger and at least one action")
	}
	trigger, err := parseTrigger(args[0])
	if err != nil {
		return err
	}
	actions := make([]keyaction.KeyAction, 0, len(args)-1)
	for _, arg := range args[1:] {
		k, err := parseAction(arg)
		if err != nil {
			return err
		}
		actions = append(actions, k)
	}

	s, _, err := openStore(cfg)
	if err != nil {
		return err
	}
	if s.Exists(trigger) {
		if err := s.Clear(trigger); err != nil {
			return err
		}
	}
	if err := s.RecordInit(trigger); err != nil {
		return err
	}
	for _, k := range actions {
		if err := s.RecordAction(k); err != nil {
			return err
		}
	}
	return s.RecordFinalize()
}

func cmdPlay(cfg config.Config, args []string) error {
	if len(args) != 1 {
		return errors.New("play needs a trigger")
	}
	trigger, err := parseTrigger(args[0])
	if err != nil {
		return err
	}
	s, _, err := openStore(cfg)
	if err != nil {
		return err
	}
	return s.Play(trigger, func(k keyaction.KeyAction) {
		fmt.Println(formatAction(k))
	})
}

func cmdClear(cfg config.Config, args []string) error {
	if len(args) != 1 {
		return errors.New("clear needs a trigger")
	}
	trigger, err := parseTrigger(args[0])
	if err != nil {
		return err
	}
	s, _, err := openStore(cfg)
	if err != nil {
		return err
	}
	if !s.Exists(trigger) {
		return fmt.Errorf("no macro stored for %s", formatKey(trigger))
	}
	return s.Clear(trigger)
}

func cmdClearAll(cfg config.Config, args []string) error {
	if len(args) != 0 {
		return errors.New("clear-all takes no arguments")
	}
	s, _, err := openStore(cfg)
	if err != nil {
		return err
	}
	return s.ClearAll()
}

func cmdCompact(cfg config.Config, args []string) error {
	if len(args) != 0 {
		return errors.New("compact takes no arguments")
	}
	s, _, err := openStore(cfg)
	if err != nil {
		return err
	}
	return s.Compact()
}

func cmdExport(cfg config.Config, args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	out := fs.String("o", "", "Output file (default stdout)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 0 {
		return errors.New("export takes no positional arguments")
	}

	s, _, err := openStore(cfg)
	if err != nil {
		return err
	}
	data, err := s.Export()
	if err != nil {
		return err
	}
	if *out == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(*out, data, 0o644)
}

func cmdImport(cfg config.Config, args []string) error {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	merge := fs.Bool("merge", false, "Keep stored macros whose trigger is also in the file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("import needs a file")
	}

	data, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		return err
	}
	s, _, err := openStore(cfg)
	if err != nil {
		return err
	}
	return s.Import(data, *merge)
}

func cmdReset(cfg config.Config, args []string) error {
	if len(args) != 0 {
		return errors.New("reset takes no arguments")
	}
	s, _, err := openStore(cfg)
	if err != nil {
		return err
	}
	return s.Reset()
}

// cmdWatch follows external edits to the image file, reloading the
// store and printing the macro list whenever another process rewrites
// the image. Useful while hand-editing an export and re-importing it
// from a second terminal.
func cmdWatch(cfg config.Config, args []string) error {
	if len(args) != 0 {
		return errors.New("watch takes no arguments")
	}
	s, dev, err := openStore(cfg)
	if err != nil {
		return err
	}

	w, err := eeprom.NewWatcher(dev.Path())
	if err != nil {
		return err
	}
	defer w.Close()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	fmt.Fprintf(os.Stderr, "watching %s\n", dev.Path())
	for {
		select {
		case <-signals:
			return nil
		case err := <-w.Errors():
			return err
		case <-w.Changes():
			if err := dev.Reload(); err != nil {
				fmt.Fprintf(os.Stderr, "Error: reloading image: %v\n", err)
				continue
			}
			macros, err := s.Macros()
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: reading macros: %v\n", err)
				continue
			}
			fmt.Printf("image changed, %d macros:\n", len(macros))
			for _, m := range macros {
				fmt.Printf("  %s  (%d actions)\n", formatKey(m.Trigger), len(m.Actions))
			}
		}
	}
}
