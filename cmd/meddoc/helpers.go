package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Veraticus/meddoc/internal/api"
	"github.com/Veraticus/meddoc/internal/common"
	"github.com/Veraticus/meddoc/internal/config"
	"github.com/Veraticus/meddoc/internal/metrics"
	"github.com/Veraticus/meddoc/internal/query"
)

// app is what every command needs: validated settings, the API client and the query cache.
type app struct {
	cfg     *config.Config
	client  *api.Client
	cache   *query.Cache
	metrics *metrics.ClientMetrics
}

// initApp loads configuration and wires the client, cache and optional metrics listener.
func initApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	m := metrics.NewClientMetrics()
	client, err := api.New(api.Config{
		Metrics:             m,
		BaseURL:             cfg.API.BaseURL,
		Timeout:             cfg.API.Timeout,
		RetryAttempts:       cfg.API.RetryAttempts,
		AIRequestsPerMinute: cfg.API.AIRequestsPerMinute,
	})
	if err != nil {
		return nil, common.NewUserError("invalid api.base_url", err)
	}

	cache := query.NewCache(
		query.WithStaleTime(cfg.Query.StaleTime),
		query.WithGCTime(cfg.Query.GCTime),
		query.WithMetrics(m),
	)

	if cfg.Metrics.Addr != "" {
		go func() {
			if err := m.Serve(ctx, cfg.Metrics.Addr); err != nil {
				common.LogError(err, "Metrics server stopped", common.Fields{"addr": cfg.Metrics.Addr})
			}
		}()
	}

	return &app{cfg: cfg, client: client, cache: cache, metrics: m}, nil
}

func (a *app) Close() {
	a.cache.Close()
}

// write prints rendered output to the command's stdout.
func write(cmd *cobra.Command, s string) error {
	if _, err := io.WriteString(cmd.OutOrStdout(), s); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// readDocumentText reads a local text file for the patient tools.
func readDocumentText(path string) (string, error) {
	data, err := os.ReadFile(config.ExpandPath(path))
	if err != nil {
		return "", common.NewUserError(fmt.Sprintf("cannot read %s", path), err)
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return "", common.NewUserError(fmt.Sprintf("%s has no text", path), common.ErrEmptyDocument)
	}
	return text, nil
}

// createFile creates path and any missing parent directories.
func createFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	f, err := os.Create(path) //nolint:gosec // path is user-provided on purpose
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", path, err)
	}
	return f, nil
}
