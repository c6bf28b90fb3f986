package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/coderi421/bow/config"
)

// NewPingCommand creates the ping command.
func NewPingCommand(rootOpts *RootOptions) *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "ping [name-or-dsn]",
		Short: "Open a configured connection and ping it",
		Long: `Resolve a connection from the config file and ping it.

Without an argument the default connection is used. An argument that is
not a connection name is taken as a DSN for the default driver.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) > 0 {
				name = args[0]
			}
			return runPing(rootOpts, cmd, name, timeout)
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Second, "ping timeout")

	return cmd
}

func runPing(opts *RootOptions, cmd *cobra.Command, name string, timeout time.Duration) error {
	log := opts.logger(cmd.ErrOrStderr())

	cfg, err := config.Load(opts.Config)
	if err != nil {
		return err
	}
	conn, err := cfg.Resolve(name)
	if err != nil {
		return err
	}
	log.Debug().Str("driver", conn.Driver).Msg("resolved connection")

	db, err := cfg.Open(name)
	if err != nil {
		return err
	}
	defer func() {
		_ = db.Close()
	}()

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()
	if err = db.Ping(ctx); err != nil {
		log.Error().Err(err).Str("driver", conn.Driver).Msg("ping failed")
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "ok (%s)\n", conn.Driver)
	return nil
}
