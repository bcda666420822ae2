package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pynezz/cybermap/internal/config"
	"github.com/pynezz/cybermap/pkg/model"
	"github.com/pynezz/cybermap/pkg/version"
)

type options struct {
	configPath string
	watch      bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "cybermap",
		Short: "Live cyber threat map with synthetic threat data",
		Long: `cybermap generates synthetic threat events and shows them on a world map
with type, severity and timeline charts, either in the browser (serve) or in
the terminal (tui).`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "config.yaml", "path to the configuration file")
	root.PersistentFlags().BoolVar(&opts.watch, "watch", false, "reload filters and sound settings when the configuration file changes")

	root.AddCommand(
		newServeCmd(opts),
		newTuiCmd(opts),
		newVersionCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprint(cmd.OutOrStdout(), version.Info())
		},
	}
}

func (o *options) load() (*model.Config, error) {
	return config.LoadConfig(o.configPath)
}
