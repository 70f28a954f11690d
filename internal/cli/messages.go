package cli

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/msgboard/internal/board"
	"github.com/vovakirdan/msgboard/internal/proto"
)

var errInvalidID = errors.New("ID de mensaje inválido")

func newListCommand(s *session) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print all messages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := s.client(s.logger(cmd.ErrOrStderr()))
			msgs, err := c.ListMessages(cmd.Context())
			if err != nil {
				return fmt.Errorf("%s: %w", board.TextLoadFailed, err)
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(msgs)
			}
			printMessages(out, msgs)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the collection as JSON")
	return cmd
}

func printMessages(out io.Writer, msgs []proto.Message) {
	fmt.Fprintf(out, "Mensajes (%d)\n", len(msgs))
	if len(msgs) == 0 {
		fmt.Fprintln(out, "No hay mensajes disponibles")
		return
	}
	for _, msg := range msgs {
		fmt.Fprintf(out, "ID: %d\t%s\n", msg.ID, msg.Message)
	}
}

func newCreateCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "create <text>",
		Short: "Create a message",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := board.Validate(args[0]); err != nil {
				return err
			}
			text := strings.TrimSpace(args[0])

			c := s.client(s.logger(cmd.ErrOrStderr()))
			id, err := c.CreateMessage(cmd.Context(), text)
			if err != nil {
				return fmt.Errorf("%s: %w", board.TextCreateFailed, err)
			}

			if id > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "%s (ID: %d)\n", board.TextCreated, id)
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), board.TextCreated)
			}
			return nil
		},
	}
}

func newUpdateCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "update <id> <text>",
		Short: "Replace the text of a message",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := board.Validate(args[1]); err != nil {
				return err
			}

			c := s.client(s.logger(cmd.ErrOrStderr()))
			if err := c.UpdateMessage(cmd.Context(), id, strings.TrimSpace(args[1])); err != nil {
				return fmt.Errorf("%s: %w", board.TextUpdateFailed, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), board.TextUpdated)
			return nil
		},
	}
}

func newDeleteCommand(s *session) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a message",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			if !yes && !confirm(cmd.InOrStdin(), cmd.OutOrStdout()) {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelado")
				return nil
			}

			c := s.client(s.logger(cmd.ErrOrStderr()))
			if err := c.DeleteMessage(cmd.Context(), id); err != nil {
				return fmt.Errorf("%s: %w", board.TextDeleteFailed, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), board.TextDeleted)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

// confirm asks the delete question and reads a yes/no answer.
func confirm(in io.Reader, out io.Writer) bool {
	fmt.Fprint(out, "¿Está seguro de que desea eliminar este mensaje? [s/N]: ")
	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && answer == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "s", "si", "sí", "y", "yes":
		return true
	}
	return false
}

func newWatchCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Stream collection changes as they happen",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			logger := s.logger(cmd.ErrOrStderr())
			c := s.client(logger)
			out := cmd.OutOrStdout()

			logger.Info().Str("api_url", s.cfg.APIURL).Msg("watching for changes")
			err := c.Watch(ctx, func(ev proto.FeedEvent) {
				switch ev.Type {
				case proto.FeedDeleted:
					fmt.Fprintf(out, "[%s] ID: %d\n", ev.Type, ev.Message.ID)
				default:
					fmt.Fprintf(out, "[%s] ID: %d\t%s\n", ev.Type, ev.Message.ID, ev.Message.Message)
				}
			})
			if err != nil && ctx.Err() == nil {
				return err
			}
			return nil
		},
	}
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, errInvalidID
	}
	return id, nil
}
