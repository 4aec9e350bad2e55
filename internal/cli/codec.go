package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewEncodeCommand creates the encode command.
func NewEncodeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:          "encode <url>",
		Short:        "Print the proxied address of a url",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnvironment(rootOpts)
			if err != nil {
				return err
			}

			controller, err := env.controller(false)
			if err != nil {
				return err
			}

			encoded, err := controller.EncodeURL(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), encoded)
			return nil
		},
	}
}

// NewDecodeCommand creates the decode command.
func NewDecodeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:          "decode <proxied-url>",
		Short:        "Print the real address behind a proxied address",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnvironment(rootOpts)
			if err != nil {
				return err
			}

			controller, err := env.controller(false)
			if err != nil {
				return err
			}

			decoded, err := controller.DecodeURL(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), decoded)
			return nil
		},
	}
}
