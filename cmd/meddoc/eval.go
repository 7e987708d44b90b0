package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Veraticus/meddoc/internal/cli"
	"github.com/Veraticus/meddoc/internal/config"
	"github.com/Veraticus/meddoc/internal/evalreport"
	"github.com/Veraticus/meddoc/internal/model"
	"github.com/Veraticus/meddoc/internal/query"
	"github.com/Veraticus/meddoc/internal/tui/viewmodel"
)

func evalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Show the latest pipeline evaluation report",
		Long: `Show the latest evaluation of the analysis pipeline: aggregate metrics and
per-case correct, missed and extra ICD-10 codes.

The report comes from the API, from object storage (eval.storage.*), or from the
published eval.fallback_url. The default source "auto" tries the API first.`,
		Args: cobra.NoArgs,
		RunE: runEval,
	}
	cmd.Flags().String("source", "", "report source (api, storage, auto); overrides eval.source")
	return cmd
}

func runEval(cmd *cobra.Command, _ []string) error {
	a, err := initApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	evalCfg := a.cfg.Eval
	if source, _ := cmd.Flags().GetString("source"); source != "" {
		evalCfg.Source = strings.ToLower(strings.TrimSpace(source))
		if err := config.ValidateEval(evalCfg); err != nil {
			return err
		}
	}

	loader, err := newEvalLoader(a, evalCfg)
	if err != nil {
		return err
	}

	state := query.Fetch(cmd.Context(), a.cache, query.EvalReportKey(), func(ctx context.Context) (model.EvalReport, error) {
		return loader.Load(ctx)
	})

	view := viewmodel.DeriveEvalReport(state)
	if err := write(cmd, cli.RenderEvalReport(view, "meddoc eval --source "+loader.Source())); err != nil {
		return err
	}
	if view.State == viewmodel.StateError {
		return fmt.Errorf("loading evaluation report failed: %w", state.Err)
	}
	return nil
}

// newEvalLoader only builds an object store when a bucket is configured.
func newEvalLoader(a *app, cfg config.EvalConfig) (*evalreport.Loader, error) {
	if !cfg.Storage.Configured() {
		return evalreport.NewLoader(a.client, nil, cfg), nil
	}
	store, err := evalreport.NewMinioStore(cfg.Storage)
	if err != nil {
		return nil, err
	}
	return evalreport.NewLoader(a.client, store, cfg), nil
}
