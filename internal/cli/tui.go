package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/msgboard/internal/board"
	"github.com/vovakirdan/msgboard/internal/log"
	"github.com/vovakirdan/msgboard/internal/notification"
	"github.com/vovakirdan/msgboard/internal/tui"
)

func newTUICommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive interface",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.runTUI(cmd)
		},
	}
}

func (s *session) runTUI(cmd *cobra.Command) error {
	logger, closer, err := log.NewFile(s.cfg.LogLevel, s.cfg.LogFile)
	if err != nil {
		return err
	}
	defer closer.Close()

	opts := board.Options{
		Logger:        logger,
		ServerIDs:     s.cfg.ServerIDs,
		SingleFlight:  s.cfg.SingleFlight,
		ToastDuration: s.cfg.ToastDuration,
	}
	if s.cfg.DesktopNotify {
		opts.OnToast = notification.ErrorHook(logger)
	}
	b := board.New(s.client(logger), opts)

	logger.Info().Str("api_url", s.cfg.APIURL).Msg("starting terminal ui")
	if err := tui.Run(b, tui.Options{Context: cmd.Context(), Debounce: s.cfg.InputDebounce}); err != nil {
		return fmt.Errorf("run terminal ui: %w", err)
	}
	return nil
}
