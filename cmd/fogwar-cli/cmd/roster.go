package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/nfrund/fogwar/internal/domain"
	"github.com/nfrund/fogwar/internal/game/engine"
	"github.com/spf13/cobra"
)

var rosterCmd = &cobra.Command{
	Use:   "roster",
	Short: "List the configured users in turn order",
	RunE: func(cmd *cobra.Command, args []string) error {
		roster, err := engine.LoadRoster(fs, cfg.GetRosterFile())
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "TURN\tUSER\tROLE")
		for i, name := range roster.Players() {
			fmt.Fprintf(w, "%d\t%s\t%s\n", i+1, name, domain.RolePlayer)
		}
		for _, name := range roster.Names() {
			if name == domain.AdminName {
				fmt.Fprintf(w, "-\t%s\t%s\n", name, domain.RoleAdmin)
			}
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(rosterCmd)
}
