package cmds

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matiasleandrokruk/relaychat/internal/domain/settings"
	"github.com/matiasleandrokruk/relaychat/pkg/optional"
)

func newSettingsCommand(st *rootState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change generation settings",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the current settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			state, err := openLocalState(st.cfg.DBPath)
			if err != nil {
				return err
			}
			defer state.Close() //nolint:errcheck

			fmt.Fprintf(cmd.OutOrStdout(), "temperature: %.2f\n", state.settings.Get().Temperature) //nolint:errcheck
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set temperature <value>",
		Short: "Change a setting",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 2 || args[0] != "temperature" {
				return &UsageError{Err: fmt.Errorf("usage: %s", cmd.UseLine())}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return &UsageError{Err: fmt.Errorf("invalid temperature %q", args[1])}
			}

			state, err := openLocalState(st.cfg.DBPath)
			if err != nil {
				return err
			}
			defer state.Close() //nolint:errcheck

			updated, err := state.settings.Update(settings.Patch{Temperature: optional.Some(v)})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "temperature: %.2f\n", updated.Temperature) //nolint:errcheck
			return nil
		},
	})

	return cmd
}
