// Package cli implements the msgboard command line client.
package cli

import (
	"fmt"
	"io"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/msgboard/internal/client"
	"github.com/vovakirdan/msgboard/internal/config"
	"github.com/vovakirdan/msgboard/internal/log"
)

// session is the state shared by all subcommands once flags are parsed.
type session struct {
	configPath string
	apiURL     string
	logLevel   string

	cfg config.Config
}

// NewRootCommand builds the msgboard command tree. Without a subcommand it
// starts the terminal UI.
func NewRootCommand() *cobra.Command {
	s := &session{}

	root := &cobra.Command{
		Use:   "msgboard",
		Short: "Terminal client for the message collection service",
		Long: `msgboard manages short text messages stored by the msgboard service.
Run without arguments to open the interactive interface, or use the
subcommands from scripts.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return s.load()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.runTUI(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&s.configPath, "config", "", "path to config file (default ./config.yaml)")
	flags.StringVar(&s.apiURL, "api-url", "", "collection URL, e.g. http://localhost:8080/api/messages")
	flags.StringVar(&s.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	root.AddCommand(
		newTUICommand(s),
		newListCommand(s),
		newCreateCommand(s),
		newUpdateCommand(s),
		newDeleteCommand(s),
		newWatchCommand(s),
	)
	return root
}

// load resolves configuration: defaults < file < env < flags.
// The client never writes a config file.
func (s *session) load() error {
	_ = godotenv.Load(".env")

	cfg, _, err := config.Load(nil, config.LoadOptions{Path: s.configPath})
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg.UpdateFrom(config.Config{APIURL: s.apiURL, LogLevel: s.logLevel})
	s.cfg = cfg
	return nil
}

// logger writes to w; scriptable commands keep stdout for their output.
func (s *session) logger(w io.Writer) *zerolog.Logger {
	return log.NewWriter(s.cfg.LogLevel, w)
}

func (s *session) client(logger *zerolog.Logger) *client.Client {
	return client.New(s.cfg.APIURL, s.cfg.RequestTimeout, logger)
}
