package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/sony/gobreaker/v2"

	"github.com/Veraticus/meddoc/internal/common"
)

const (
	outcomeSuccess   = "success"
	outcomeTransport = "transport_error"
	outcomeServer    = "server_error"

	// maxResponseBytes bounds how much of a response body is read.
	maxResponseBytes = 16 << 20
)

// do sends req and returns the body of a 2xx response.
func (c *Client) do(req *http.Request, op string) ([]byte, error) {
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)
	req.Header.Set("Accept", "application/json")

	logger := slog.With("op", op, "request_id", requestID)
	logger.Debug("Sending request", "method", req.Method, "url", req.URL.String())

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.ObserveRequest(op, outcomeTransport, time.Since(start))
		logger.Debug("Request failed", "error", err)
		return nil, &TransportError{Op: op, RequestID: requestID, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		c.metrics.ObserveRequest(op, outcomeTransport, time.Since(start))
		return nil, &TransportError{Op: op, RequestID: requestID, Err: fmt.Errorf("read response body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.metrics.ObserveRequest(op, outcomeServer, time.Since(start))
		serverErr := &ServerError{
			Op:         op,
			RequestID:  requestID,
			Status:     resp.Status,
			StatusCode: resp.StatusCode,
			Detail:     parseDetail(body),
		}
		logger.Debug("Server rejected request", "status", resp.StatusCode, "detail", serverErr.Detail)
		return nil, serverErr
	}

	c.metrics.ObserveRequest(op, outcomeSuccess, time.Since(start))
	logger.Debug("Request complete", "status", resp.StatusCode, "duration", time.Since(start))
	return body, nil
}

// read performs an idempotent GET behind the circuit breaker, retrying transport failures.
// target is either a path on the base URL or an absolute URL.
func (c *Client) read(ctx context.Context, op, target string) ([]byte, error) {
	var body []byte
	err := common.WithRetry(ctx, func() error {
		b, err := c.reads.Execute(func() ([]byte, error) {
			return c.get(ctx, op, target)
		})
		if err != nil {
			var te *TransportError
			if !errors.As(err, &te) {
				if breakerRefused(err) {
					return common.Permanent(&TransportError{Op: op, Err: err})
				}
				return common.Permanent(err)
			}
			return err
		}
		body = b
		return nil
	}, c.retry)
	return body, err
}

func (c *Client) get(ctx context.Context, op, target string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.resolve(target), nil)
	if err != nil {
		return nil, fmt.Errorf("create %s request: %w", op, err)
	}
	return c.do(req, op)
}

// post sends a JSON body to an AI-backed endpoint. It waits on the rate limiter and never retries.
func (c *Client) post(ctx context.Context, op, path string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s request: %w", op, err)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%s: waiting for rate limiter: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.resolve(path), bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("create %s request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, op)
}

func (c *Client) resolve(target string) string {
	if strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://") {
		return target
	}
	return c.baseURL + target
}

func breakerRefused(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}
