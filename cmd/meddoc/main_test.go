package main

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/meddoc/internal/api"
	"github.com/Veraticus/meddoc/internal/common"
	"github.com/Veraticus/meddoc/internal/config"
	"github.com/Veraticus/meddoc/internal/model"
)

const resultJSON = `{
	"classification": {"document_type": "COMPLETE BLOOD COUNT", "confidence": 0.92, "rationale": "CBC panel", "evidence": ["WBC 14.2"]},
	"codes": {"codes": [{"code": "D72.829", "description": "Elevated white blood cell count", "confidence": 0.81, "evidence": ["WBC 14.2"]}]},
	"summary": {"summary": "White cell count is elevated.", "confidence": 0.77, "evidence": []}
}`

// useServer points the global configuration at server for one test.
func useServer(t *testing.T, server *httptest.Server) {
	t.Helper()
	viper.Reset()
	config.SetDefaults(viper.GetViper())
	viper.Set("api.base_url", server.URL)
	viper.Set("api.retry_attempts", 1)
	t.Cleanup(viper.Reset)
}

func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestParseTypeHint(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    model.DocumentType
		wantErr bool
	}{
		{name: "empty means automatic", input: "", want: ""},
		{name: "wire name", input: "COMPLETE BLOOD COUNT", want: model.DocumentTypeCBC},
		{name: "short code", input: "xr", want: model.DocumentTypeXRay},
		{name: "clinical note code", input: "NOTE", want: model.DocumentTypeClinicalNote},
		{name: "wire name is case sensitive", input: "complete blood count", wantErr: true},
		{name: "unknown", input: "MRI", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseTypeHint(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, api.ErrInvalidTypeHint)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseDocumentID(t *testing.T) {
	tests := []struct {
		input   string
		want    int
		wantErr bool
	}{
		{input: "7", want: 7},
		{input: "#12", want: 12},
		{input: " 3 ", want: 3},
		{input: "0", wantErr: true},
		{input: "-4", wantErr: true},
		{input: "abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseDocumentID(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, common.ErrInvalidDocumentID)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUploadedText(t *testing.T) {
	dir := t.TempDir()

	textPath := filepath.Join(dir, "note.txt")
	require.NoError(t, os.WriteFile(textPath, []byte("  Patient reports fatigue.\n"), 0o600))
	text, ok := uploadedText(textPath)
	assert.True(t, ok)
	assert.Equal(t, "Patient reports fatigue.", text)

	binPath := filepath.Join(dir, "scan.pdf")
	require.NoError(t, os.WriteFile(binPath, []byte{0x25, 0x50, 0xff, 0xfe, 0x00}, 0o600))
	_, ok = uploadedText(binPath)
	assert.False(t, ok)

	emptyPath := filepath.Join(dir, "empty.txt")
	require.NoError(t, os.WriteFile(emptyPath, []byte("\n\n"), 0o600))
	_, ok = uploadedText(emptyPath)
	assert.False(t, ok)
}

func TestCleanNames(t *testing.T) {
	assert.Equal(t, []string{"warfarin", "aspirin"}, cleanNames([]string{" warfarin ", "", "aspirin"}))
}

func TestDocumentsCommand_JSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/documents", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[
			{"id": 2, "original_filename": "xray.png", "created_at": "2025-03-02T09:00:00"},
			{"id": 1, "original_filename": "cbc.pdf", "created_at": "2025-03-01T10:00:00"}
		]`)
	}))
	defer server.Close()
	useServer(t, server)

	out, err := execute(t, documentsCmd(), "--format", "json")
	require.NoError(t, err)

	var records []documentRecord
	require.NoError(t, json.Unmarshal([]byte(out), &records))
	require.Len(t, records, 2)
	assert.Equal(t, 2, records[0].ID)
	assert.Equal(t, "cbc.pdf", records[1].Filename)
}

func TestDocumentsCommand_Table(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[]`)
	}))
	defer server.Close()
	useServer(t, server)

	out, err := execute(t, documentsCmd())
	require.NoError(t, err)
	assert.Contains(t, out, "No documents uploaded yet")
}

func TestDocumentsCommand_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"detail": "database unavailable"}`)
	}))
	defer server.Close()
	useServer(t, server)

	out, err := execute(t, documentsCmd())
	require.Error(t, err)
	assert.Contains(t, out, "Retry with: meddoc documents")
}

func TestDocumentsCommand_UnknownFormat(t *testing.T) {
	_, err := execute(t, documentsCmd(), "--format", "xml")
	assert.ErrorContains(t, err, "unknown format")
}

func TestDocumentCommand_Export(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/documents/5", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id": 5, "original_filename": "cbc.pdf", "created_at": "2025-03-01T10:00:00", "results": `+resultJSON+`}`)
	}))
	defer server.Close()
	useServer(t, server)

	reportPath := filepath.Join(t.TempDir(), "reports", "cbc.md")
	out, err := execute(t, documentCmd(), "5", "--export", reportPath)
	require.NoError(t, err)
	assert.Contains(t, out, "D72.829")
	assert.Contains(t, out, "Report written to")

	report, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	assert.Contains(t, string(report), "| D72.829 | Elevated white blood cell count | 81% |")
}

func TestDocumentCommand_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"detail": "Document not found"}`)
	}))
	defer server.Close()
	useServer(t, server)

	out, err := execute(t, documentCmd(), "99")
	require.Error(t, err)
	assert.Contains(t, out, "Document not found")
}

func TestUploadCommand(t *testing.T) {
	var gotHint, gotName string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		file, header, err := r.FormFile("file")
		if assert.NoError(t, err) {
			gotName = header.Filename
			_ = file.Close()
		}
		gotHint = r.FormValue("document_type_hint")
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"document_id": 42, "processed": true, "results": `+resultJSON+`}`)
	}))
	defer server.Close()
	useServer(t, server)

	path := filepath.Join(t.TempDir(), "cbc.txt")
	require.NoError(t, os.WriteFile(path, []byte("WBC 14.2"), 0o600))

	out, err := execute(t, uploadCmd(), path, "--type-hint", "CBC", "--no-progress")
	require.NoError(t, err)
	assert.Equal(t, "cbc.txt", gotName)
	assert.Equal(t, string(model.DocumentTypeCBC), gotHint)
	assert.Contains(t, out, "Uploaded as document #42")
	assert.Contains(t, out, "D72.829")
	assert.False(t, strings.Contains(out, "In plain language"), "patient tools only run when requested")
}

func TestUploadCommand_InvalidHint(t *testing.T) {
	_, err := execute(t, uploadCmd(), "whatever.pdf", "--type-hint", "MRI")
	assert.ErrorIs(t, err, api.ErrInvalidTypeHint)
}
