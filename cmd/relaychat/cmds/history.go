package cmds

import (
	"github.com/spf13/cobra"

	"github.com/matiasleandrokruk/relaychat/internal/cli/render"
)

func newHistoryCommand(st *rootState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect or clear the saved conversation",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the saved conversation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			state, err := openLocalState(st.cfg.DBPath)
			if err != nil {
				return err
			}
			defer state.Close() //nolint:errcheck

			render.New(cmd.OutOrStdout()).Conversation(state.conversation.Messages())
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Forget the saved conversation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			state, err := openLocalState(st.cfg.DBPath)
			if err != nil {
				return err
			}
			defer state.Close() //nolint:errcheck

			state.conversation.Clear()
			render.New(cmd.OutOrStdout()).Info("Conversation cleared.")
			return nil
		},
	})

	return cmd
}
