package cmds

import (
	"github.com/spf13/cobra"
)

func newConfigCommand(st *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration (API key redacted)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := st.cfg.YAML()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
}
