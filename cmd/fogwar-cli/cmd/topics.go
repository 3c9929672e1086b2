package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/nfrund/fogwar/internal/modules/wargame/topics"
	"github.com/spf13/cobra"
)

// topicsCmd lists the events the game publishes.
var topicsCmd = &cobra.Command{
	Use:   "topics",
	Short: "List the game event topics",
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "TOPIC\tDESCRIPTION")
		for _, t := range []struct{ name, desc string }{
			{topics.TurnChange.Name(), topics.TurnChange.Description()},
			{topics.GameStart.Name(), topics.GameStart.Description()},
			{topics.GameReset.Name(), topics.GameReset.Description()},
			{topics.UnitDestroyed.Name(), topics.UnitDestroyed.Description()},
		} {
			fmt.Fprintf(w, "%s\t%s\n", t.name, t.desc)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(topicsCmd)
}
