package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tfkr-ae/ramjet"
)

// NewSettingsCommand creates the settings command.
func NewSettingsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Read and change application settings",
	}
	cmd.AddCommand(NewSettingsSetCommand(rootOpts))
	cmd.AddCommand(NewSettingsShowCommand(rootOpts))
	return cmd
}

// NewSettingsSetCommand creates the settings set command.
func NewSettingsSetCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:          "set <key> <value>",
		Short:        "Change a setting",
		Long:         "Change a setting. Keys: " + strings.Join(ramjet.Keys(), ", "),
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := ramjet.LoadSettings(rootOpts.ConfigDir)
			if err != nil {
				return err
			}
			return settings.Set(args[0], args[1])
		},
	}
}

// NewSettingsShowCommand creates the settings show command.
func NewSettingsShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:          "show",
		Short:        "Print the current settings",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := ramjet.LoadSettings(rootOpts.ConfigDir)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "database: %s\n", settings.Database)
			fmt.Fprintf(w, "listen: %s\n", settings.Listen)
			fmt.Fprintf(w, "worker_path: %s\n", settings.WorkerPath)
			fmt.Fprintf(w, "worker_host: %s\n", settings.WorkerHost)
			fmt.Fprintf(w, "bundle_dir: %s\n", settings.BundleDir)
			fmt.Fprintf(w, "proxy_config: %s\n", settings.ProxyConfig)
			fmt.Fprintf(w, "rate_limit: %g\n", settings.RateLimit)
			fmt.Fprintf(w, "log_level: %s\n", settings.LogLevel)
			fmt.Fprintf(w, "log_development: %t\n", settings.LogDevelopment)
			return nil
		},
	}
}
