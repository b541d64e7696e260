package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"

	"github.com/goforj/dataservice"
)

// httpFetcher decodes a JSON document from url.
type httpFetcher struct {
	client *http.Client
	url    string
}

func (f httpFetcher) Fetch(ctx context.Context) (any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("GET %s: %s", f.url, resp.Status)
	}
	var v any
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		return nil, fmt.Errorf("decode %s: %w", f.url, err)
	}
	return v, nil
}

func newFetchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Run a service backed by an HTTP JSON endpoint",
		Long: `Build a data service whose fetcher GETs --url, print every value ` +
			`delivered to a subscriber, and exit once the data is loaded or the fetch fails.`,
		RunE: runFetch,
	}
	cmd.Flags().String("url", "", "Endpoint returning a JSON document")
	_ = cmd.MarkFlagRequired("url")
	cmd.Flags().String("cache-mode", string(dataservice.CacheModeBootOnly), "Cache mode (none, boot_only, full)")
	cmd.Flags().String("key", "", "Cache key override (defaults to one derived from --url)")
	cmd.Flags().Duration("timeout", 30*time.Second, "Maximum time to wait for the load")
	return cmd
}

func runFetch(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()
	url, _ := flags.GetString("url")
	modeFlag, _ := flags.GetString("cache-mode")
	key, _ := flags.GetString("key")
	timeout, _ := flags.GetDuration("timeout")
	logger := newLogger(cmd)

	mode, ok := dataservice.ParseCacheMode(modeFlag)
	if !ok {
		return fmt.Errorf("unknown cache mode %q", modeFlag)
	}
	if key == "" {
		key = "dataservice:url:" + url
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	var fetchErr atomic.Pointer[error]
	opts := []dataservice.Option{
		dataservice.WithCacheKey(key),
		dataservice.WithCacheMode(mode),
		dataservice.WithLogger(logger),
		dataservice.WithObserver(dataservice.ObserverFunc(func(_ context.Context, op, _ string, err error, _ time.Duration, _ dataservice.CacheMode) {
			if op == dataservice.OpForceFetch && err != nil {
				fetchErr.Store(&err)
			}
		})),
	}
	if mode.Persistent() {
		store, closeStore, err := openStore(ctx, cmd)
		if err != nil {
			return err
		}
		defer closeStore()
		codec, err := codecFromFlags(cmd)
		if err != nil {
			return err
		}
		opts = append(opts, dataservice.WithStore(store), dataservice.WithCodec(codec))
	}

	fetcher := httpFetcher{client: &http.Client{Timeout: timeout}, url: url}
	svc, err := dataservice.New[any](ctx, fetcher, nil, opts...)
	if err != nil {
		return err
	}
	logger.Debug().
		Str("state", string(svc.State())).
		Bool("loaded_from_cache", svc.LoadedFromCache()).
		Msg("service ready")

	out := cmd.OutOrStdout()
	unsubscribe := svc.AttachDataSubs(ctx, func(v any) {
		body, err := json.Marshal(v)
		if err != nil {
			logger.Error().Err(err).Msg("encode notification")
			return
		}
		_, _ = fmt.Fprintln(out, string(body))
	})
	defer unsubscribe()

	// Wait returns once the background fetch has finished either way; the
	// http client timeout bounds it.
	svc.Wait()
	if !svc.FetchFlag() {
		if err := fetchErr.Load(); err != nil {
			return fmt.Errorf("loading %s: %w", url, *err)
		}
		return fmt.Errorf("loading %s: no data", url)
	}
	logger.Info().Str("state", string(svc.State())).Msg("loaded")
	return nil
}
