package ingest

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/rgudla/research-assistant/internal/domain/docmodel"
)

func TestDownloadPDFSuccess(t *testing.T) {
	body := []byte("%PDF-1.4\nfake pdf body")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		w.Write(body)
	}))
	defer srv.Close()

	destDir := t.TempDir()
	filename, destPath, err := DownloadPDF(context.Background(), srv.URL+"/files/paper.pdf", destDir)
	if err != nil {
		t.Fatal(err)
	}
	if filename != "paper.pdf" {
		t.Errorf("expected filename paper.pdf, got %q", filename)
	}

	saved, err := os.ReadFile(destPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(saved) != string(body) {
		t.Error("saved file does not match the served body")
	}
	if !strings.HasPrefix(destPath, destDir) {
		t.Errorf("download landed outside destDir: %s", destPath)
	}
}

func TestDownloadPDFFilenameFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("%PDF-1.4"))
	}))
	defer srv.Close()

	filename, _, err := DownloadPDF(context.Background(), srv.URL+"/", t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if filename != "download.pdf" {
		t.Errorf("expected download.pdf fallback, got %q", filename)
	}
}

func TestDownloadPDFFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		path    string
	}{
		{
			name: "not found",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.NotFound(w, r)
			},
		},
		{
			name: "html content type",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "text/html")
				w.Write([]byte("<html>not a pdf</html>"))
			},
		},
		{
			name: "body without pdf magic",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/pdf")
				w.Write([]byte("definitely not a pdf"))
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(tc.handler)
			defer srv.Close()

			_, _, err := DownloadPDF(context.Background(), srv.URL+"/doc.pdf", t.TempDir())
			var ingestionErr *docmodel.IngestionError
			if !errors.As(err, &ingestionErr) {
				t.Fatalf("expected IngestionError, got %v", err)
			}
		})
	}
}

func TestDownloadPDFRejectsNonHTTP(t *testing.T) {
	for _, rawURL := range []string{"ftp://example.com/a.pdf", "file:///etc/passwd", "not a url at all"} {
		_, _, err := DownloadPDF(context.Background(), rawURL, t.TempDir())
		var ingestionErr *docmodel.IngestionError
		if !errors.As(err, &ingestionErr) {
			t.Fatalf("%s: expected IngestionError, got %v", rawURL, err)
		}
	}
}
