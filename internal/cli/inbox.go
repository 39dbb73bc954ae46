package cli

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"vibeconnect/internal/middleware"
	"vibeconnect/internal/notifications"
	"vibeconnect/internal/service"
	"vibeconnect/internal/tui"

	"github.com/spf13/cobra"
)

func newInboxCmd(flags *globalFlags) *cobra.Command {
	var once bool

	cmd := &cobra.Command{
		Use:   "inbox",
		Short: "Show the notification inbox for --user",
		Long: "Polls pending connection requests addressed to --user and renders them.\n" +
			"Type 'accept <id>', 'decline <id>', 'refresh' or 'quit'.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			viewer, err := requireUser(flags)
			if err != nil {
				return err
			}
			cfg, err := loadConfig(cmd, flags)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			stores, err := openStores(ctx, cfg)
			if err != nil {
				return err
			}
			defer func() { _ = stores.Close(context.WithoutCancel(ctx)) }()

			out := &lockedWriter{w: cmd.OutOrStdout()}
			svc := service.NewConnectionService(stores.Connections, stores.Profiles)
			source := notifications.NewInbox(stores.Connections, stores.Profiles)

			poller := notifications.NewPoller(viewer, source, svc, notifications.PollerConfig{
				Interval: cfg.PollInterval(),
				Timeout:  cfg.PollTimeout(),
			})
			presenter := notifications.NewPresenter(poller, tui.NewTerminal(out), cfg.ToastTTL())
			defer presenter.Close()
			presenter.OnCountChange(func(n int) {
				middleware.Logger.Debug("inbox count changed", slog.Int("count", n))
			})

			if once {
				items, err := source.Refresh(ctx, viewer)
				if err != nil {
					return fmt.Errorf("%s: %w", notifications.Message(err), err)
				}
				presenter.Render(notifications.Snapshot{Version: 1, Notifications: items, Count: len(items)})
				return nil
			}

			unsubscribe := poller.Subscribe(presenter.Render)
			defer unsubscribe()
			poller.Start(ctx)
			defer func() {
				poller.Cancel()
				<-poller.Done()
			}()

			return runInboxLoop(ctx, cmd, out, presenter, poller)
		},
	}

	cmd.Flags().BoolVar(&once, "once", false, "Render the inbox once and exit")
	return cmd
}

// runInboxLoop reads commands until quit or end of input.
func runInboxLoop(ctx context.Context, cmd *cobra.Command, out *lockedWriter, presenter *notifications.Presenter, poller *notifications.Poller) error {
	scanner := bufio.NewScanner(cmd.InOrStdin())
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch strings.ToLower(fields[0]) {
		case "accept", "a", "decline", "d":
			if len(fields) != 2 {
				fmt.Fprintln(out, "usage: accept <id> | decline <id>")
				continue
			}
			id, err := strconv.ParseUint(fields[1], 10, 32)
			if err != nil || id == 0 {
				fmt.Fprintf(out, "invalid request id %q\n", fields[1])
				continue
			}
			// Failures are already shown by the presenter.
			if strings.HasPrefix(strings.ToLower(fields[0]), "a") {
				_ = presenter.Accept(ctx, uint(id))
			} else {
				_ = presenter.Decline(ctx, uint(id))
			}
		case "refresh", "r":
			poller.Refresh()
		case "quit", "q", "exit":
			return nil
		default:
			fmt.Fprintf(out, "unknown command %q\n", fields[0])
		}
	}
	return scanner.Err()
}
