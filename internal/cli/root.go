// Package cli contains the chatlinks command tree.
package cli

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"chatlinks/internal/config"
	"chatlinks/internal/logging"
)

// app carries the state shared by the subcommands of one invocation.
type app struct {
	configDir string
	logLevel  string

	cfg config.Config
	log *logrus.Logger
}

// NewRootCommand builds the chatlinks command tree.
func NewRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "chatlinks",
		Short: "Extract shared links from an exported chat archive",
		Long: `chatlinks lists the links shared in an exported chat archive, with their
sender and date, optionally filtered by site, sender and date.

Example usage:
  chatlinks search message.json                  # every link
  chatlinks search message.json reddit           # links mentioning reddit
  chatlinks search message.json --sender Alice --year 2019 --month 3
  chatlinks import family message.json           # store an archive
  chatlinks serve --store                        # HTTP API over stored archives`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.init,
	}

	root.PersistentFlags().StringVar(&a.configDir, "config", ".", "directory holding config.yaml")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level (overrides configuration)")

	root.AddCommand(
		a.newSearchCommand(),
		a.newImportCommand(),
		a.newArchivesCommand(),
		a.newRemoveCommand(),
		a.newServeCommand(),
	)
	return root
}

// Execute runs the command tree against os.Args.
func Execute() error {
	return NewRootCommand().Execute()
}

func (a *app) init(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadConfig(a.configDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = a.logLevel
	}

	log, err := logging.NewWithOutput(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.log = log
	a.log.WithField("command", cmd.Name()).Debug("Configuration loaded")
	return nil
}
