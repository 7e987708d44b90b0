package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/Veraticus/meddoc/internal/api"
	"github.com/Veraticus/meddoc/internal/cli"
	"github.com/Veraticus/meddoc/internal/config"
	"github.com/Veraticus/meddoc/internal/model"
	"github.com/Veraticus/meddoc/internal/query"
	"github.com/Veraticus/meddoc/internal/tui/viewmodel"
)

// maxPatientText bounds how much of an uploaded file is sent to the patient tools.
const maxPatientText = 1 << 20

func uploadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "upload FILE",
		Short: "Upload a document and run the analysis pipeline",
		Long: `Upload a PDF, image or text document. The backend classifies it, extracts
ICD-10 codes and writes a summary, and the result is shown when it finishes.

With --patient (or upload.mode: patient) a text document is also run through the
patient tools: plain-language translation, medications, interactions and next steps.`,
		Args: cobra.ExactArgs(1),
		RunE: runUpload,
	}

	cmd.Flags().String("type-hint", "", "document type hint: "+strings.Join(typeHintNames(), ", "))
	cmd.Flags().Bool("patient", false, "also run the patient tools on the document text")
	cmd.Flags().Bool("no-progress", false, "hide the upload progress bar")

	return cmd
}

func runUpload(cmd *cobra.Command, args []string) error {
	hintFlag, _ := cmd.Flags().GetString("type-hint")
	hint, err := parseTypeHint(hintFlag)
	if err != nil {
		return err
	}

	a, err := initApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	path := config.ExpandPath(args[0])
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", args[0], err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			slog.Warn("Failed to close upload file", "error", closeErr)
		}
	}()
	info, err := file.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", args[0], err)
	}

	retry := "meddoc upload " + args[0]
	handler := cli.NewInterruptHandler(cmd.ErrOrStderr())
	ctx := handler.HandleInterrupts(cmd.Context(), "Upload", retry)

	opts := api.UploadOptions{TypeHint: hint}
	if hideProgress, _ := cmd.Flags().GetBool("no-progress"); !hideProgress {
		bar := cli.NewUploadProgress(info.Size(), filepath.Base(path), cmd.ErrOrStderr())
		defer func() { _ = bar.Finish() }()
		opts.Progress = bar
	}

	state := query.Fetch(ctx, a.cache, query.UploadKey(uuid.NewString()), func(ctx context.Context) (model.UploadResponse, error) {
		return a.client.UploadDocument(ctx, path, file, opts)
	})
	if state.Status == query.StatusSuccess {
		a.cache.Invalidate(query.DocumentsKey())
	}

	view := viewmodel.DeriveUpload(state)
	if err := write(cmd, cli.RenderUpload(view, retry)); err != nil {
		return err
	}
	if view.State == viewmodel.StateError {
		return fmt.Errorf("upload failed: %w", state.Err)
	}

	patient, _ := cmd.Flags().GetBool("patient")
	if !patient && a.cfg.Upload.Mode != config.UploadModePatient {
		return nil
	}

	text, ok := uploadedText(path)
	if !ok {
		return write(cmd, "\n"+cli.FormatInfo("Patient tools need a text document; skipping them for "+filepath.Base(path))+"\n")
	}
	var codes []model.ICD10Code
	if state.Data.Results != nil {
		codes = state.Data.Results.Codes.Codes
	}
	return runPatientTools(ctx, cmd, a, text, codes)
}

// runPatientTools runs the richer upload flow. Each tool's failure is shown and the rest still run.
func runPatientTools(ctx context.Context, cmd *cobra.Command, a *app, text string, codes []model.ICD10Code) error {
	sections := []func() (string, error){
		func() (string, error) {
			r, err := a.client.Translate(ctx, text, "")
			return cli.RenderTranslation(r), err
		},
		func() (string, error) {
			meds, err := a.client.ExtractMedications(ctx, text)
			if err != nil {
				return "", err
			}
			out := cli.RenderMedications(meds)
			names := medicationNames(meds.Medications)
			if len(names) < 2 {
				return out, nil
			}
			interactions, err := a.client.CheckInteractions(ctx, names)
			if err != nil {
				return out, err
			}
			return out + "\n" + cli.RenderInteractions(interactions), nil
		},
		func() (string, error) {
			r, err := a.client.ActionItems(ctx, text, codes)
			return cli.RenderActionItems(r), err
		},
	}

	for _, section := range sections {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		out, err := section()
		if err != nil {
			out = cli.RenderError(viewmodel.NewErrorView(err), "meddoc translate|medications|actions FILE")
		}
		if werr := write(cmd, "\n"+out); werr != nil {
			return werr
		}
	}
	return nil
}

// uploadedText returns the file's contents when it is UTF-8 text.
func uploadedText(path string) (string, bool) {
	data, err := os.ReadFile(path)
	if err != nil || len(data) > maxPatientText || !utf8.Valid(data) {
		return "", false
	}
	text := strings.TrimSpace(string(data))
	return text, text != ""
}

func medicationNames(meds []model.Medication) []string {
	names := make([]string, 0, len(meds))
	for _, m := range meds {
		if m.Name != "" {
			names = append(names, m.Name)
		}
	}
	return names
}

// parseTypeHint accepts a wire name exactly or a short code in any case.
func parseTypeHint(s string) (model.DocumentType, error) {
	if s == "" {
		return "", nil
	}
	if t, ok := model.ParseDocumentType(s); ok {
		return t, nil
	}
	for _, t := range model.DocumentTypes {
		if strings.EqualFold(t.Info().ShortCode, s) {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q (use one of %s)", api.ErrInvalidTypeHint, s, strings.Join(typeHintNames(), ", "))
}

func typeHintNames() []string {
	names := make([]string, 0, len(model.DocumentTypes))
	for _, t := range model.DocumentTypes {
		names = append(names, t.Info().ShortCode)
	}
	return names
}
