package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/nfrund/fogwar/internal/game/stats"
	"github.com/spf13/cobra"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect the unit stat catalog",
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every unit type with its vision, deploy time and fuel",
	RunE: func(cmd *cobra.Command, args []string) error {
		table, err := stats.Load(fs, cfg.GetStatsDir())
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "TYPE\tVISION\tDEPLOY TIME\tFUEL")
		for _, t := range table.Types() {
			props, _ := table.Properties(t)
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", t, props[stats.KeyVision], props[stats.KeyDeployTime], props[stats.KeyFuel])
		}
		return w.Flush()
	},
}

var catalogValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check that the catalog files parse",
	RunE: func(cmd *cobra.Command, args []string) error {
		table, err := stats.Load(fs, cfg.GetStatsDir())
		if err != nil {
			return fmt.Errorf("catalog is invalid: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Catalog OK: %d unit types\n", len(table.Types()))
		return nil
	},
}

func init() {
	catalogCmd.AddCommand(catalogListCmd, catalogValidateCmd)
	rootCmd.AddCommand(catalogCmd)
}
