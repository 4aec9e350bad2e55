package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/tfkr-ae/ramjet/db"
	"gopkg.in/yaml.v3"
)

// ConfigShowOptions holds flags for the config show command.
type ConfigShowOptions struct {
	Format string
	Stored bool
}

// NewConfigCommand creates the config command.
func NewConfigCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the proxy configuration",
	}
	cmd.AddCommand(NewConfigShowCommand(rootOpts))
	return cmd
}

// NewConfigShowCommand creates the config show command.
func NewConfigShowCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ConfigShowOptions{}

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective proxy configuration",
		Long: `Prints the defaults merged with the proxy config file named in the settings.
With --stored, prints the configuration persisted in the local store instead.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return runConfigShow(cmd.Context(), rootOpts, opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "yaml", "output format (json|yaml)")
	cmd.Flags().BoolVar(&opts.Stored, "stored", false, "read the configuration persisted in the local store")

	return cmd
}

func runConfigShow(ctx context.Context, rootOpts *RootOptions, opts *ConfigShowOptions, w io.Writer) error {
	env, err := loadEnvironment(rootOpts)
	if err != nil {
		return err
	}

	var tree map[string]any
	if opts.Stored {
		repo, err := db.Open(ctx, env.settings.Database)
		if err != nil {
			return err
		}
		defer repo.Close()

		cfg, err := repo.LoadConfig(ctx)
		if err != nil {
			return err
		}
		tree = cfg.Map()
	} else {
		controller, err := env.controller(false)
		if err != nil {
			return err
		}
		tree = controller.Config().Map()
	}

	return writeTree(w, tree, opts.Format)
}

func writeTree(w io.Writer, tree map[string]any, format string) error {
	switch format {
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(tree)
	default:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(tree); err != nil {
			return fmt.Errorf("encoding configuration : %w", err)
		}
		return encoder.Close()
	}
}
