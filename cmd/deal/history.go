package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/robalobadob/jeopardy/internal/history"
)

var dateStyle = lipgloss.NewStyle().Faint(true)

func newHistoryCmd(defaultDB string) *cobra.Command {
	var (
		dsn   string
		limit int
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recently dealt boards",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if dsn == "" {
				return fmt.Errorf("no history database: set HISTORY_DB or pass --db")
			}
			store, err := history.Open(dsn)
			if err != nil {
				return err
			}
			defer store.Close()

			deals, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(deals) == 0 {
				fmt.Fprintln(out, "no boards dealt yet")
				return nil
			}
			for _, d := range deals {
				fmt.Fprintf(out, "%s  %s\n",
					dateStyle.Render(d.DealtAt.Local().Format(time.DateTime)),
					strings.Join(d.Titles, " · "))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&dsn, "db", defaultDB, "history database file")
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "how many deals to list")
	return cmd
}
