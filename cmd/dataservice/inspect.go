package main

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/spf13/cobra"
)

func newInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Print the record stored under a cache key",
		RunE:  runInspect,
	}
	cmd.Flags().String("key", "", "Cache key of the record")
	_ = cmd.MarkFlagRequired("key")
	return cmd
}

func runInspect(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	key, _ := cmd.Flags().GetString("key")
	codec, _ := cmd.Flags().GetString("codec")

	store, closeStore, err := openStore(ctx, cmd)
	if err != nil {
		return err
	}
	defer closeStore()

	body, ok, err := store.Get(ctx, key)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("no record stored under %q", key)
	}

	switch codec {
	case "cbor":
		diag, err := cbor.Diagnose(body)
		if err != nil {
			return fmt.Errorf("decode CBOR record: %w", err)
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), diag)
	default:
		var out bytes.Buffer
		if err := json.Indent(&out, body, "", "  "); err != nil {
			return fmt.Errorf("decode JSON record: %w", err)
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), out.String())
	}
	return nil
}
