package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/jeopardy/internal/board"
	"github.com/robalobadob/jeopardy/internal/config"
	"github.com/robalobadob/jeopardy/internal/controller"
	"github.com/robalobadob/jeopardy/internal/history"
	"github.com/robalobadob/jeopardy/internal/trivia"
)

type dealFlags struct {
	fixture   string
	apiURL    string
	poolSize  int
	timeout   time.Duration
	reveal    int
	record    bool
	historyDB string
	verbose   bool
}

func newRootCmd() *cobra.Command {
	var f dealFlags

	root := &cobra.Command{
		Use:   "deal",
		Short: "Deal a Jeopardy board and print it",
		Long: `Deal picks six random categories, loads five clues for each and prints
the board. Defaults come from the same environment variables as the server
(TRIVIA_API_URL, TRIVIA_FIXTURE_FILE, TRIVIA_POOL_SIZE, HISTORY_DB, ...).

Examples:
  deal --fixture embedded
  deal --reveal 1     # show every question
  deal --reveal 2     # show every answer`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := zerolog.WarnLevel
			if f.verbose {
				level = zerolog.DebugLevel
			}
			zerolog.SetGlobalLevel(level)
			log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDeal(cmd, f)
		},
	}

	cfg, err := config.Load()
	if err != nil {
		// Fall back to built-in defaults; flags still apply.
		cfg = config.Config{TriviaAPIURL: "https://jservice.io/api", PoolSize: trivia.DefaultPoolSize, FetchTimeout: 10 * time.Second}
	}

	root.PersistentFlags().BoolVarP(&f.verbose, "verbose", "v", false, "log provider requests")
	root.Flags().StringVar(&f.fixture, "fixture", cfg.FixtureFile, `fixture file, or "embedded" for the built-in sample`)
	root.Flags().StringVar(&f.apiURL, "api-url", cfg.TriviaAPIURL, "trivia API base URL")
	root.Flags().IntVar(&f.poolSize, "pool-size", cfg.PoolSize, "categories to draw from")
	root.Flags().DurationVar(&f.timeout, "timeout", cfg.FetchTimeout, "per-request timeout")
	root.Flags().IntVar(&f.reveal, "reveal", 0, "click every cell this many times before printing")
	root.Flags().BoolVar(&f.record, "record", cfg.HistoryDB != "", "record the deal in HISTORY_DB")

	f.historyDB = cfg.HistoryDB

	root.AddCommand(newHistoryCmd(cfg.HistoryDB))
	return root
}

func runDeal(cmd *cobra.Command, f dealFlags) error {
	var provider trivia.Provider
	if f.fixture != "" {
		fx, err := trivia.LoadFixture(f.fixture)
		if err != nil {
			return err
		}
		provider = fx
	} else {
		provider = trivia.NewClient(f.apiURL, trivia.WithTimeout(f.timeout))
	}

	opts := controller.Options{
		Selector: trivia.NewSelector(provider, f.poolSize, nil),
		Loader:   trivia.NewLoader(provider, trivia.DefaultConcurrency),
	}
	if f.record {
		if f.historyDB == "" {
			return fmt.Errorf("--record needs HISTORY_DB")
		}
		store, err := history.Open(f.historyDB)
		if err != nil {
			return err
		}
		defer store.Close()
		opts.Recorder = store
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	v, err := playDeal(ctx, opts, f.reveal)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderView(v))
	return nil
}

// playDeal deals one board and clicks every cell reveals times.
func playDeal(ctx context.Context, opts controller.Options, reveals int) (controller.View, error) {
	ctrl := controller.New(opts)
	if err := ctrl.Start(ctx); err != nil {
		return controller.View{}, err
	}
	cycle := ctrl.View().CycleID
	for range reveals {
		if _, err := ctrl.RevealAll(ctx, cycle); err != nil {
			return controller.View{}, err
		}
	}
	return ctrl.View(), nil
}

// renderView prints the controller's grid with the terminal styles.
func renderView(v controller.View) string {
	rows := make([][]string, 0, len(v.Rows))
	for _, row := range v.Rows {
		texts := make([]string, 0, len(row))
		for _, c := range row {
			texts = append(texts, c.Text)
		}
		rows = append(rows, texts)
	}
	return board.RenderText(v.Titles, rows)
}
