package main

import (
	"github.com/spf13/cobra"
)

func newPurgeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Remove persisted records",
		Long:  `Remove the record stored under --key, or every record under the store prefix with --all.`,
		RunE:  runPurge,
	}
	cmd.Flags().String("key", "", "Cache key of the record")
	cmd.Flags().Bool("all", false, "Remove every record under the store prefix")
	cmd.MarkFlagsOneRequired("key", "all")
	cmd.MarkFlagsMutuallyExclusive("key", "all")
	return cmd
}

func runPurge(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	key, _ := cmd.Flags().GetString("key")
	all, _ := cmd.Flags().GetBool("all")
	logger := newLogger(cmd)

	store, closeStore, err := openStore(ctx, cmd)
	if err != nil {
		return err
	}
	defer closeStore()

	if all {
		if err := store.Flush(ctx); err != nil {
			return err
		}
		logger.Info().Str("driver", string(store.Driver())).Msg("flushed records")
		return nil
	}
	if err := store.Delete(ctx, key); err != nil {
		return err
	}
	logger.Info().Str("cache_key", key).Msg("removed record")
	return nil
}
