package cmd

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/nfrund/fogwar/internal/domain"
	"github.com/nfrund/fogwar/internal/storage"
	"github.com/spf13/cobra"
)

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Inspect or reset the persisted game",
}

func newSnapshots() (*storage.Snapshots, io.Closer, error) {
	store, closer, err := storage.Open(cfg.GetStorageDriver(), cfg.GetDatabaseURL(), fs)
	if err != nil {
		return nil, nil, err
	}
	return storage.NewSnapshots(store, storage.SnapshotConfig{
		Slot:            cfg.GetStatePath(),
		DefaultSlot:     cfg.GetDefaultMapPath(),
		BackupDir:       cfg.GetBackupDir(),
		DefaultTurnTime: cfg.GetTurnTime().Milliseconds(),
	}), closer, nil
}

var stateShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Summarize the saved game: phase, units per side and turn deadlines",
	RunE: func(cmd *cobra.Command, args []string) error {
		snaps, closer, err := newSnapshots()
		if err != nil {
			return err
		}
		defer closer.Close()

		st, err := snaps.Read(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		phase := "deployment"
		if st.GameStarted {
			phase = "turns"
		}
		fmt.Fprintf(out, "Phase:        %s\n", phase)
		fmt.Fprintf(out, "Current time: %d\n", st.CurrentTime)
		fmt.Fprintf(out, "Turn time:    %s\n", time.Duration(st.TurnTime)*time.Millisecond)
		fmt.Fprintf(out, "Airfields:    %d\n\n", len(st.Airfields))

		perUser := map[string]int{}
		for _, u := range st.Units {
			perUser[u.User]++
		}
		for _, af := range st.Airfields {
			for _, u := range af.Units {
				perUser[u.User]++
			}
		}
		users := make([]string, 0, len(perUser))
		for u := range perUser {
			users = append(users, u)
		}
		sort.Strings(users)

		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "USER\tUNITS\tDEADLINE")
		for _, u := range users {
			deadline := "-"
			if d, ok := st.TurnChangeTime[u]; ok {
				deadline = time.UnixMilli(d).UTC().Format(time.RFC3339)
			}
			fmt.Fprintf(w, "%s\t%d\t%s\n", u, perUser[u], deadline)
		}
		return w.Flush()
	},
}

var stateResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Back up the saved game and replace it with the default map",
	Long: `reset copies the saved game to the backup directory, then replaces it with
the default map, keeping the configured turn time. Stop the server first:
a running server keeps its own copy of the game and overwrites the slot on
its next change.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		snaps, closer, err := newSnapshots()
		if err != nil {
			return err
		}
		defer closer.Close()

		turnTime := cfg.GetTurnTime().Milliseconds()
		current, err := snaps.Read(ctx)
		switch {
		case err == nil:
			turnTime = current.TurnTime
		case !errors.Is(err, domain.ErrNotFound):
			return err
		}

		backup, err := snaps.Backup(ctx)
		if err != nil {
			return err
		}
		fresh, err := snaps.LoadDefault(ctx)
		if err != nil {
			return err
		}
		fresh.TurnTime = turnTime
		if err := snaps.Write(ctx, fresh); err != nil {
			return err
		}

		if backup != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "Backed up the previous game to %s\n", backup)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Game reset from %s (%d units, %d airfields)\n",
			cfg.GetDefaultMapPath(), len(fresh.Units), len(fresh.Airfields))
		return nil
	},
}

func init() {
	stateCmd.AddCommand(stateShowCmd, stateResetCmd)
	rootCmd.AddCommand(stateCmd)
}
