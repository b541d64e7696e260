package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "dataservice",
		Short: "Inspect and manage persisted data service records.",
		Long: `dataservice reads and removes records written by data services ` +
			`and can run a service backed by an HTTP endpoint.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().Bool("verbose", false, "Enable debug logging")
	addStoreFlags(root)

	root.AddCommand(newInspectCmd(), newPurgeCmd(), newFetchCmd())
	return root
}

func newLogger(cmd *cobra.Command) zerolog.Logger {
	verbose, _ := cmd.Flags().GetBool("verbose")
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().
		Timestamp().
		Logger()
}
