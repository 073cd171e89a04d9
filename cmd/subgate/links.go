package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/mixelka/subgate/internal/database"
)

func linksCmd() *cobra.Command {
	var sort string

	cmd := &cobra.Command{
		Use:   "links",
		Short: "List linked Telegram accounts",
		Long: `List every Telegram account linked to a subscriber email.

Examples:
  subgate links
  subgate links --sort asc`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}

			db, err := openDatabase(cfg, logger)
			if err != nil {
				return err
			}
			defer db.Close()

			links, err := db.ListLinks(cmd.Context(), database.ParseSortOrder(sort))
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "TELEGRAM USER\tEMAIL\tLINKED AT")
			for _, l := range links {
				fmt.Fprintf(w, "%d\t%s\t%s\n", l.TelegramUserID, l.Email, l.LinkedAt.UTC().Format(time.DateTime))
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&sort, "sort", "desc", "order by link time: asc or desc")

	return cmd
}
