package cli

import (
	"context"
	"fmt"
	"strconv"

	"vibeconnect/internal/models"
	"vibeconnect/internal/notifications"
	"vibeconnect/internal/service"

	"github.com/spf13/cobra"
)

func newRequestCmd(flags *globalFlags) *cobra.Command {
	var message string

	cmd := &cobra.Command{
		Use:   "request <recipient-id>",
		Short: "Send a connection request from --user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			initiator, err := requireUser(flags)
			if err != nil {
				return err
			}
			recipient, err := strconv.ParseUint(args[0], 10, 32)
			if err != nil || recipient == 0 {
				return fmt.Errorf("invalid recipient id %q", args[0])
			}
			if !cmd.Flags().Changed("message") {
				message = models.DefaultConnectMessage
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

			svc := service.NewConnectionService(stores.Connections, stores.Profiles)
			req, err := svc.CreateRequest(ctx, initiator, uint(recipient), message)
			if err != nil {
				return fmt.Errorf("%s: %w", notifications.Message(err), err)
			}

			name := fmt.Sprintf("user %d", recipient)
			if p, err := stores.Profiles.GetByUserID(ctx, uint(recipient)); err == nil && p.DisplayName != "" {
				name = p.DisplayName
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (request #%d)\n", notifications.SentMessage(name), req.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&message, "message", "", "Optional note; omit for the default greeting")
	return cmd
}
