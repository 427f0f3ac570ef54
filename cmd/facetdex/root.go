package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/facetdex/internal/config"
	"github.com/kailas-cloud/facetdex/internal/version"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	env        string
	configPath string
}

// load reads the config file named by --config, or config/<env>.yaml.
func (f *globalFlags) load() (config.Config, error) {
	if f.configPath != "" {
		return config.LoadFile(f.configPath)
	}
	return config.Load(f.env)
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:           "facetdex",
		Short:         "Faceted model search over RediSearch-compatible indexes",
		SilenceUsage:  true,
		SilenceErrors: false,
		Run: func(cmd *cobra.Command, _ []string) {
			_ = cmd.Help()
		},
	}
	root.PersistentFlags().StringVar(&flags.env, "env", config.GetEnv(),
		"environment: selects config/<env>.yaml and the log format")
	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "explicit config file path")

	root.AddCommand(
		newServeCmd(flags),
		newFacetsCmd(flags),
		newIndexCmd(flags),
		newVersionCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}
