// Package evalreport loads the latest pipeline evaluation report from the API,
// object storage or a published URL.
package evalreport

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Veraticus/meddoc/internal/config"
	"github.com/Veraticus/meddoc/internal/model"
	"github.com/Veraticus/meddoc/internal/schema"
)

// ErrNoStorage is returned when the storage source is used with nothing configured.
var ErrNoStorage = errors.New("no evaluation report storage configured")

// ReportClient is the subset of the API client the loader needs.
type ReportClient interface {
	LatestEvalReport(ctx context.Context) (model.EvalReport, error)
	EvalReportFromURL(ctx context.Context, rawURL string) (model.EvalReport, error)
}

// Loader fetches the report according to eval.source.
type Loader struct {
	client ReportClient
	store  ObjectStore
	cfg    config.EvalConfig
}

// NewLoader creates a loader. store may be nil when no bucket is configured.
func NewLoader(client ReportClient, store ObjectStore, cfg config.EvalConfig) *Loader {
	if cfg.Source == "" {
		cfg.Source = config.EvalSourceAuto
	}
	return &Loader{client: client, store: store, cfg: cfg}
}

// Source returns the configured strategy.
func (l *Loader) Source() string {
	return l.cfg.Source
}

// Load returns the latest report. In auto mode an API failure falls back to storage,
// and when both fail the returned error joins the two.
func (l *Loader) Load(ctx context.Context) (model.EvalReport, error) {
	switch l.cfg.Source {
	case config.EvalSourceAPI:
		return l.client.LatestEvalReport(ctx)
	case config.EvalSourceStorage:
		return l.fromStorage(ctx)
	case config.EvalSourceAuto:
		report, apiErr := l.client.LatestEvalReport(ctx)
		if apiErr == nil {
			return report, nil
		}
		if ctx.Err() != nil || !l.hasStorage() {
			return model.EvalReport{}, apiErr
		}

		slog.Warn("Evaluation report unavailable from API, trying storage", "error", apiErr)
		report, storeErr := l.fromStorage(ctx)
		if storeErr != nil {
			return model.EvalReport{}, errors.Join(apiErr, storeErr)
		}
		return report, nil
	default:
		return model.EvalReport{}, fmt.Errorf("unknown evaluation report source %q", l.cfg.Source)
	}
}

func (l *Loader) hasStorage() bool {
	return (l.store != nil && l.cfg.Storage.Configured()) || l.cfg.FallbackURL != ""
}

// fromStorage prefers the bucket object and uses the published URL when no bucket is set.
func (l *Loader) fromStorage(ctx context.Context) (model.EvalReport, error) {
	if l.store != nil && l.cfg.Storage.Configured() {
		data, err := l.store.ReadObject(ctx, l.cfg.Storage.Bucket, l.cfg.Storage.Object)
		if err != nil {
			return model.EvalReport{}, err
		}
		return schema.DecodeEvalReport(data)
	}
	if l.cfg.FallbackURL != "" {
		return l.client.EvalReportFromURL(ctx, l.cfg.FallbackURL)
	}
	return model.EvalReport{}, ErrNoStorage
}
