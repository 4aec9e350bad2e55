package cli

import (
	"context"
	"math"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/tfkr-ae/ramjet/api"
	"github.com/tfkr-ae/ramjet/core"
	"go.uber.org/zap"
)

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	Listen string
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Initialize the controller and serve the control API",
		Long: `Runs the startup sequence (codec, local store, worker registration)
and serves the control API until interrupted.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, rootOpts, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Listen, "listen", "l", "", "listen address (overrides the listen setting)")

	return cmd
}

func runServe(ctx context.Context, rootOpts *RootOptions, opts *ServeOptions) error {
	env, err := loadEnvironment(rootOpts)
	if err != nil {
		return err
	}
	defer env.logger.Sync()

	controller, err := env.controller(true)
	if err != nil {
		return err
	}
	defer controller.Close()

	registration, err := controller.Init(ctx, env.settings.WorkerPath)
	if err != nil {
		return err
	}
	env.logger.Info("controller initialized",
		core.WorkerPath(registration.ScriptURL),
		zap.String("prefix", controller.Config().Prefix),
	)

	server, err := api.NewServer(controller,
		api.WithLogger(env.logger),
		api.WithBundleDir(env.settings.BundleDir),
		api.WithRateLimit(env.settings.RateLimit, burstFor(env.settings.RateLimit)),
	)
	if err != nil {
		return err
	}

	listen := env.settings.Listen
	if opts.Listen != "" {
		listen = opts.Listen
	}
	return server.ListenAndServe(ctx, listen)
}

// burstFor allows one second worth of requests at once.
func burstFor(rps float64) int {
	return max(1, int(math.Ceil(min(rps, math.MaxInt32))))
}
