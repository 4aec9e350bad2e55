package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/spf13/cobra"
	"github.com/tfkr-ae/ramjet"
	"github.com/tfkr-ae/ramjet/core"
	"go.uber.org/zap"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigDir string
	Verbose   bool
}

// ValidFormats defines the allowed output formats of config show.
var ValidFormats = []string{"json", "yaml"}

// NewRootCommand creates the root command for the ramjet CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "ramjet",
		Short: "ramjet - interception proxy controller",
		Long:  "Bootstraps the interception proxy: merges and persists its configuration, registers the interception worker and serves the control API.",
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigDir, "config-dir", defaultConfigDir(), "directory holding settings.yaml and the local store")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "debug logging")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewEncodeCommand(opts))
	cmd.AddCommand(NewDecodeCommand(opts))
	cmd.AddCommand(NewConfigCommand(opts))
	cmd.AddCommand(NewSettingsCommand(opts))

	return cmd
}

func defaultConfigDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".ramjet"
	}
	return filepath.Join(dir, "ramjet")
}

// environment is what every command needs: the settings and a logger built from them.
type environment struct {
	settings *ramjet.Settings
	logger   *zap.Logger
}

func loadEnvironment(opts *RootOptions) (*environment, error) {
	settings, err := ramjet.LoadSettings(opts.ConfigDir)
	if err != nil {
		return nil, err
	}

	logConfig := settings.LogConfig()
	if opts.Verbose {
		logConfig.Level = "debug"
	}
	logger, err := core.NewLogger(logConfig)
	if err != nil {
		return nil, fmt.Errorf("creating logger : %w", err)
	}

	return &environment{settings: settings, logger: logger}, nil
}

// controller builds a controller from the proxy config file named in the settings.
// withStore adds the store and registrar options from the settings.
func (env *environment) controller(withStore bool) (*ramjet.Controller, error) {
	partial, err := ramjet.LoadPartial(env.settings.ProxyConfig)
	if err != nil {
		return nil, err
	}

	options := []func(*ramjet.Controller) error{ramjet.WithLogger(env.logger)}
	if withStore {
		storeOptions, err := env.settings.ControllerOptions()
		if err != nil {
			return nil, err
		}
		options = append(options, storeOptions...)
	}
	return ramjet.New(partial, options...)
}

func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}
