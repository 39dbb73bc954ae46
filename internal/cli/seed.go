package cli

import (
	"context"
	"fmt"

	"vibeconnect/internal/seed"

	"github.com/spf13/cobra"
)

func newSeedCmd(flags *globalFlags) *cobra.Command {
	var (
		opts    seed.Options
		fixture string
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed demo profiles and pending requests",
		Long:  "Seeds random profiles and pending requests addressed to --user, or loads a YAML fixture with --fixture.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
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

			seeder := seed.NewSeeder(stores.Connections, stores.Profiles)

			var res seed.Result
			if fixture != "" {
				fx, err := seed.LoadFixture(fixture)
				if err != nil {
					return err
				}
				res, err = seeder.Apply(ctx, fx)
				if err != nil {
					return err
				}
			} else {
				opts.RecipientID = flags.user
				res, err = seeder.Run(ctx, opts)
				if err != nil {
					return err
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d profiles and %d requests (%d skipped)\n",
				res.Profiles, res.Requests, res.Skipped)
			return nil
		},
	}

	cmd.Flags().IntVar(&opts.NumProfiles, "profiles", 20, "Number of random profiles")
	cmd.Flags().IntVar(&opts.NumRequests, "requests", 5, "Pending requests addressed to --user")
	cmd.Flags().Int64Var(&opts.Seed, "seed", 0, "Random seed; 0 picks one")
	cmd.Flags().StringVar(&fixture, "fixture", "", "YAML fixture to load instead of random data")
	return cmd
}
