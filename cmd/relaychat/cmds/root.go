package cmds

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/matiasleandrokruk/relaychat/internal/infra/config"
	"github.com/matiasleandrokruk/relaychat/internal/infra/logging"
)

// UsageError marks bad flags or arguments, as opposed to a failed command.
type UsageError struct{ Err error }

func (e *UsageError) Error() string { return e.Err.Error() }
func (e *UsageError) Unwrap() error { return e.Err }

// IsUsageError reports whether err came from flag or argument parsing.
func IsUsageError(err error) bool {
	var ue *UsageError
	return errors.As(err, &ue)
}

// rootState is shared by every subcommand; it is filled in by the root's PersistentPreRunE.
type rootState struct {
	configPath string
	logLevel   string
	logFormat  string
	dbPath     string

	cfg config.Config
}

func NewRootCommand() *cobra.Command {
	st := &rootState{}

	root := &cobra.Command{
		Use:           "relaychat",
		Short:         "Chat with OpenRouter models through a small relay",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return st.load(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&st.configPath, "config", "", "path to a YAML config file")
	flags.StringVar(&st.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	flags.StringVar(&st.logFormat, "log-format", "", "log format (text, json)")
	flags.StringVar(&st.dbPath, "db", "", "path to the local state database")

	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &UsageError{Err: err}
	})

	root.AddCommand(
		newServeCommand(st),
		newChatCommand(st),
		newHistoryCommand(st),
		newSettingsCommand(st),
		newConfigCommand(st),
		newVersionCommand(),
	)
	return root
}

func (st *rootState) load(cmd *cobra.Command) error {
	cfg, err := config.Load(st.configPath)
	if err != nil {
		return err
	}
	if st.logLevel != "" {
		cfg.LogLevel = st.logLevel
	}
	if st.logFormat != "" {
		cfg.LogFormat = st.logFormat
	}
	if st.dbPath != "" {
		cfg.DBPath = st.dbPath
	}

	if _, err := logging.Init(logging.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Output: cmd.ErrOrStderr(),
	}); err != nil {
		return &UsageError{Err: err}
	}

	st.cfg = cfg
	return nil
}
