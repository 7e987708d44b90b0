package api

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/Veraticus/meddoc/internal/common"
	"github.com/Veraticus/meddoc/internal/model"
	"github.com/Veraticus/meddoc/internal/schema"
)

// UploadOptions tunes an upload.
type UploadOptions struct {
	// Progress receives a copy of every file byte as it is sent.
	Progress io.Writer
	// TypeHint is sent as document_type_hint. Empty means automatic detection.
	TypeHint model.DocumentType
}

// UploadDocument posts a file and runs the analysis pipeline on it.
// The call is never retried and carries no client-side timeout.
func (c *Client) UploadDocument(ctx context.Context, filename string, r io.Reader, opts UploadOptions) (model.UploadResponse, error) {
	if opts.TypeHint != "" && !opts.TypeHint.Valid() {
		return model.UploadResponse{}, fmt.Errorf("%w: %q", ErrInvalidTypeHint, opts.TypeHint)
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return model.UploadResponse{}, fmt.Errorf("%s: waiting for rate limiter: %w", OpUploadDocument, err)
	}

	src := r
	if opts.Progress != nil {
		src = io.TeeReader(r, opts.Progress)
	}

	pr, pw := io.Pipe()
	form := multipart.NewWriter(pw)
	go func() {
		pw.CloseWithError(writeUploadForm(form, filepath.Base(filename), src, opts.TypeHint))
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.resolve("/documents"), pr)
	if err != nil {
		_ = pr.Close()
		return model.UploadResponse{}, fmt.Errorf("create %s request: %w", OpUploadDocument, err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	body, err := c.do(req, OpUploadDocument)
	if err != nil {
		return model.UploadResponse{}, err
	}

	resp, err := schema.DecodeUploadResponse(body)
	if err != nil {
		return model.UploadResponse{}, err
	}
	if !resp.Consistent() {
		slog.Warn("Upload response processed flag disagrees with results",
			"document_id", resp.DocumentID,
			"processed", resp.Processed,
			"has_results", resp.Results != nil)
	}
	return resp, nil
}

func writeUploadForm(form *multipart.Writer, filename string, src io.Reader, hint model.DocumentType) error {
	part, err := form.CreateFormFile("file", filename)
	if err != nil {
		return fmt.Errorf("create file part: %w", err)
	}
	if _, err := io.Copy(part, src); err != nil {
		return fmt.Errorf("copy file: %w", err)
	}
	if err := form.WriteField("run_pipeline", "true"); err != nil {
		return fmt.Errorf("write run_pipeline: %w", err)
	}
	if hint != "" {
		if err := form.WriteField("document_type_hint", string(hint)); err != nil {
			return fmt.Errorf("write document_type_hint: %w", err)
		}
	}
	return form.Close()
}

// ListDocuments returns every uploaded document in server order.
func (c *Client) ListDocuments(ctx context.Context) ([]model.Document, error) {
	body, err := c.read(ctx, OpListDocuments, "/documents")
	if err != nil {
		return nil, err
	}
	return schema.DecodeDocumentList(body)
}

// GetDocument returns one document with its pipeline results, if any.
func (c *Client) GetDocument(ctx context.Context, id int) (model.DocumentWithResults, error) {
	if id <= 0 {
		return model.DocumentWithResults{}, fmt.Errorf("%w: %d", common.ErrInvalidDocumentID, id)
	}

	body, err := c.read(ctx, OpGetDocument, "/documents/"+strconv.Itoa(id))
	if err != nil {
		return model.DocumentWithResults{}, err
	}

	doc, err := schema.DecodeDocumentWithResults(body)
	if err != nil {
		return model.DocumentWithResults{}, err
	}
	if doc.ID != id {
		slog.Warn("Document detail id differs from requested id", "requested", id, "returned", doc.ID)
	}
	return doc, nil
}
