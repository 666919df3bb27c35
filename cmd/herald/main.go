// herald runs bus-driven skirmish simulations from scenario files.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"herald/internal/config"
	"herald/internal/sim"
	"herald/internal/waiter"
)

type app struct {
	cfg *config.Config
	log zerolog.Logger
}

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	a := &app{cfg: cfg, log: newLogger(cfg.Log)}
	if err := buildRootCmd(a).Execute(); err != nil {
		a.log.Error().Err(err).Msg("herald failed")
		os.Exit(1)
	}
}

func buildRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "herald",
		Short:         "Typed event bus demo: skirmishes where everything is a message",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().String("log-level", a.cfg.Log.Level, "log level: debug|info|warn|error")
	root.PersistentFlags().Bool("pretty", a.cfg.Log.Pretty, "human-readable log output")
	root.PersistentPreRun = func(cmd *cobra.Command, _ []string) {
		if f := cmd.InheritedFlags().Lookup("log-level"); f != nil {
			if v := f.Value.String(); v != "" {
				a.cfg.Log.Level = v
			}
		}
		if f := cmd.InheritedFlags().Lookup("pretty"); f != nil {
			a.cfg.Log.Pretty = f.Value.String() == "true"
		}
		a.log = newLogger(a.cfg.Log)
	}

	runCmd := &cobra.Command{
		Use:     "run [scenario.yaml]",
		Short:   "Run one encounter to its end",
		Example: "  herald run\n  herald run scenarios/duel.yaml --seed 42 --pretty",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			maxRounds, _ := cmd.Flags().GetInt("max-rounds")
			seed, _ := cmd.Flags().GetInt64("seed")
			return a.runEncounter(cmd.Context(), path, maxRounds, seed)
		},
	}
	runCmd.Flags().Int("max-rounds", 0, "round cap (defaults HERALD_MAX_ROUNDS, then the scenario)")
	runCmd.Flags().Int64("seed", 0, "dice seed (defaults HERALD_SEED, then the scenario)")
	root.AddCommand(runCmd)

	checkCmd := &cobra.Command{
		Use:   "check <scenario.yaml>",
		Short: "Validate a scenario file without running it",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			s, err := sim.LoadScenario(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("%s: %d units, ok\n", s.Name, len(s.Units))
			return nil
		},
	}
	root.AddCommand(checkCmd)

	return root
}

func (a *app) runEncounter(ctx context.Context, path string, maxRounds int, seed int64) error {
	if path == "" {
		path = a.cfg.Sim.Scenario
	}

	var scenario *sim.Scenario
	if path != "" {
		s, err := sim.LoadScenario(path)
		if err != nil {
			return err
		}
		scenario = s
	} else {
		scenario = sim.DefaultScenario()
	}

	if seed == 0 {
		seed = a.cfg.Sim.Seed
	}
	if seed != 0 {
		scenario.Seed = seed
	}
	if maxRounds == 0 {
		maxRounds = a.cfg.Sim.MaxRounds
	}

	enc, err := sim.NewEncounter(&sim.EncounterConfig{
		Scenario:  scenario,
		Logger:    a.log,
		MaxRounds: maxRounds,
	})
	if err != nil {
		return err
	}

	// The waiter is armed before the engine goroutine starts; the channel
	// is the only crossing between the two.
	ended, err := waiter.First[sim.EncounterEnded](enc.Bus())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return enc.Run(ctx)
	})

	outcome, waitErr := ended.Wait(ctx)
	if err := g.Wait(); err != nil {
		return err
	}
	if waitErr != nil {
		return waitErr
	}

	if outcome.Winner == "" {
		fmt.Printf("Draw after %d rounds.\n", outcome.Rounds)
	} else {
		fmt.Printf("The %s win after %d rounds. Still standing: %s\n",
			outcome.Winner, outcome.Rounds, strings.Join(outcome.Survivors, ", "))
	}
	return nil
}

func newLogger(cfg config.LogConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	var out io.Writer = os.Stderr
	if cfg.Pretty {
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}
