// Solsim runs the DestinationSol faction and population simulation in a
// terminal console.
// Usage: solsim [-config sol.yaml] [-env .env] [-assets dir] [-seed n] [-plain] [-script file] [-trace] [-version]
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/Du4lity5151/DestinationSol/cli"
	"github.com/Du4lity5151/DestinationSol/config"
	"github.com/Du4lity5151/DestinationSol/engine"
	"github.com/Du4lity5151/DestinationSol/engine/ledger"
	"github.com/Du4lity5151/DestinationSol/engine/populate"
	"github.com/Du4lity5151/DestinationSol/loader"
	"github.com/Du4lity5151/DestinationSol/logging"
	"github.com/Du4lity5151/DestinationSol/tui"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	configPath := flag.String("config", "", "YAML config file")
	envPath := flag.String("env", ".env", "dotenv file with SOL_* overrides")
	assets := flag.String("assets", "", "asset directory (overrides config)")
	seed := flag.Int64("seed", 0, "layout seed (overrides config)")
	plain := flag.Bool("plain", false, "plain line console instead of the TUI")
	script := flag.String("script", "", "run commands from a file")
	trace := flag.Bool("trace", false, "print simulation events")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("solsim %s (commit %s, built %s)\n", version, commit, date)
		return
	}

	if err := run(*configPath, *envPath, *assets, *seed, *plain, *script, *trace); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, envPath, assets string, seed int64, plain bool, script string, trace bool) error {
	// 1. Configuration: file, then .env and environment, then flags.
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := config.LoadEnvFile(envPath); err != nil {
		return err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return err
	}
	if assets != "" {
		cfg.AssetsDir = assets
	}
	if seed != 0 {
		cfg.Seed = seed
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	// 2. Logging goes to stderr so it never mixes with console output.
	logger := logging.New(cfg.Log, os.Stderr)

	// 3. Assets.
	defs, err := loader.Load(os.DirFS(cfg.AssetsDir), cfg.Module, logger)
	if err != nil {
		return fmt.Errorf("loading assets: %w", err)
	}

	// 4. Optional ledger.
	opts := engine.Options{
		Seed:              cfg.Seed,
		SpawnPlace:        cfg.SpawnPlace,
		EnemyPolicy:       populate.EnemyFactionPolicy(cfg.EnemyFactionPolicy),
		ViewDistance:      cfg.ViewDistance,
		TimeStep:          cfg.TimeStep,
		DetectionDistance: cfg.AIDetectionDistance,
		MouseControl:      cfg.MouseControl,
		Mazes:             cfg.Mazes,
	}
	if cfg.LedgerPath != "" {
		l, err := ledger.Open(cfg.LedgerPath, logger)
		if err != nil {
			return err
		}
		defer l.Close()
		opts.Ledger = l
	}

	// 5. Game.
	eng, err := engine.New(defs, opts, logger)
	if err != nil {
		return err
	}

	// 6. Console.
	if script != "" {
		f, err := os.Open(script)
		if err != nil {
			return fmt.Errorf("opening script: %w", err)
		}
		defer f.Close()
		c := cli.New(eng)
		c.In = f
		c.EchoInput = true
		c.Trace = trace
		c.Run()
		return nil
	}
	if plain || !isTerminal() {
		c := cli.New(eng)
		c.Trace = trace
		c.Run()
		return nil
	}
	return tui.Run(eng)
}

// isTerminal reports whether stdout is a terminal.
func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
