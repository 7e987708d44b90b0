package api

import (
	"context"
	"fmt"

	"github.com/Veraticus/meddoc/internal/model"
	"github.com/Veraticus/meddoc/internal/schema"
)

// LatestEvalReport fetches the most recent evaluation run from the backend.
func (c *Client) LatestEvalReport(ctx context.Context) (model.EvalReport, error) {
	body, err := c.read(ctx, OpLatestEvalReport, "/eval/latest")
	if err != nil {
		return model.EvalReport{}, err
	}
	return schema.DecodeEvalReport(body)
}

// EvalReportFromURL fetches a report published as a static JSON object, such as a public bucket URL.
func (c *Client) EvalReportFromURL(ctx context.Context, rawURL string) (model.EvalReport, error) {
	if rawURL == "" {
		return model.EvalReport{}, fmt.Errorf("%s: empty report url", OpLatestEvalReport)
	}
	body, err := c.read(ctx, OpLatestEvalReport, rawURL)
	if err != nil {
		return model.EvalReport{}, err
	}
	return schema.DecodeEvalReport(body)
}
