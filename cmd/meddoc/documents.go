package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Veraticus/meddoc/internal/cli"
	"github.com/Veraticus/meddoc/internal/common"
	"github.com/Veraticus/meddoc/internal/config"
	"github.com/Veraticus/meddoc/internal/model"
	"github.com/Veraticus/meddoc/internal/query"
	"github.com/Veraticus/meddoc/internal/tui/viewmodel"
)

// Output formats for the documents command.
const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

func documentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "documents",
		Aliases: []string{"ls", "list"},
		Short:   "List uploaded documents, newest first",
		Args:    cobra.NoArgs,
		RunE:    runDocuments,
	}
	cmd.Flags().String("format", formatTable, "output format (table, json, yaml)")
	return cmd
}

func runDocuments(cmd *cobra.Command, _ []string) error {
	format, _ := cmd.Flags().GetString("format")
	format = strings.ToLower(format)
	if format != formatTable && format != formatJSON && format != formatYAML {
		return fmt.Errorf("unknown format %q (use table, json or yaml)", format)
	}

	a, err := initApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	state := query.Fetch(cmd.Context(), a.cache, query.DocumentsKey(), func(ctx context.Context) ([]model.Document, error) {
		return a.client.ListDocuments(ctx)
	})

	if format != formatTable {
		if state.Err != nil {
			return state.Err
		}
		return encodeDocuments(cmd, format, state.Data)
	}

	view := viewmodel.DeriveDocumentList(state)
	if err := write(cmd, cli.RenderDocumentList(view, "meddoc documents")); err != nil {
		return err
	}
	if view.State == viewmodel.StateError {
		return fmt.Errorf("listing documents failed: %w", state.Err)
	}
	return nil
}

// documentRecord is the machine-readable shape of one listed document.
type documentRecord struct {
	CreatedAt string `json:"created_at" yaml:"created_at"`
	Filename  string `json:"original_filename" yaml:"original_filename"`
	LocalPath string `json:"local_path,omitempty" yaml:"local_path,omitempty"`
	ID        int    `json:"id" yaml:"id"`
}

func encodeDocuments(cmd *cobra.Command, format string, docs []model.Document) error {
	records := make([]documentRecord, 0, len(docs))
	for _, d := range docs {
		records = append(records, documentRecord{CreatedAt: d.CreatedAt, Filename: d.OriginalFilename, LocalPath: d.LocalPath, ID: d.ID})
	}

	out := cmd.OutOrStdout()
	switch format {
	case formatJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	default:
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(records); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return enc.Close()
	}
}

func documentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "document ID",
		Aliases: []string{"show"},
		Short:   "Show one document and its analysis result",
		Args:    cobra.ExactArgs(1),
		RunE:    runDocument,
	}
	cmd.Flags().String("export", "", "also write the result as a Markdown report to this file")
	return cmd
}

func runDocument(cmd *cobra.Command, args []string) error {
	id, err := parseDocumentID(args[0])
	if err != nil {
		return err
	}

	a, err := initApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	state := query.Fetch(cmd.Context(), a.cache, query.DocumentKey(id), func(ctx context.Context) (model.DocumentWithResults, error) {
		return a.client.GetDocument(ctx, id)
	})

	view := viewmodel.DeriveDocumentDetail(state)
	if err := write(cmd, cli.RenderDocumentDetail(view, "meddoc document "+args[0])); err != nil {
		return err
	}
	if view.State == viewmodel.StateError {
		return fmt.Errorf("loading document %d failed: %w", id, state.Err)
	}

	exportPath, _ := cmd.Flags().GetString("export")
	if exportPath == "" {
		return nil
	}
	return exportReport(cmd, config.ExpandPath(exportPath), view)
}

func exportReport(cmd *cobra.Command, path string, view viewmodel.DocumentDetailView) error {
	f, err := createFile(path)
	if err != nil {
		return err
	}
	if err := cli.WriteMarkdownReport(f, view, time.Now()); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to export report: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	return write(cmd, "\n"+cli.FormatSuccess("Report written to "+path)+"\n")
}

// parseDocumentID accepts positive integers only.
func parseDocumentID(s string) (int, error) {
	id, err := strconv.Atoi(strings.TrimPrefix(strings.TrimSpace(s), "#"))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q", common.ErrInvalidDocumentID, s)
	}
	return id, nil
}
