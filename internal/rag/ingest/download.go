package ingest

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"

	"github.com/rgudla/research-assistant/internal/config"
	"github.com/rgudla/research-assistant/internal/customHttpClient"
	"github.com/rgudla/research-assistant/internal/domain/docmodel"
)

var pdfMagic = []byte("%PDF-")

// DownloadPDF fetches a PDF into destDir with a hard size cap and a
// content check. The resolved filename (from the URL path) and the
// on-disk path are returned. Any failure is an IngestionError; nothing
// reaches the extraction stage on a bad download.
func DownloadPDF(ctx context.Context, rawURL string, destDir string) (string, string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return "", "", &docmodel.IngestionError{Source: rawURL, Reason: "not a valid http(s) URL", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", "", &docmodel.IngestionError{Source: rawURL, Reason: "building request failed", Err: err}
	}

	resp, err := customHttpClient.GetDownloadClient().Do(req)
	if err != nil {
		return "", "", &docmodel.IngestionError{Source: rawURL, Reason: "download failed", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", "", &docmodel.IngestionError{Source: rawURL, Reason: "server returned " + resp.Status}
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType != "" &&
		!strings.HasPrefix(contentType, "application/pdf") &&
		!strings.HasPrefix(contentType, "application/octet-stream") {
		return "", "", &docmodel.IngestionError{Source: rawURL, Reason: "unexpected content type " + contentType}
	}

	// read one byte past the cap so an oversized body is detectable
	body, err := io.ReadAll(io.LimitReader(resp.Body, config.MaxDownloadSize+1))
	if err != nil {
		return "", "", &docmodel.IngestionError{Source: rawURL, Reason: "reading body failed", Err: err}
	}
	if int64(len(body)) > config.MaxDownloadSize {
		return "", "", &docmodel.IngestionError{Source: rawURL, Reason: "size cap exceeded"}
	}
	if !bytes.HasPrefix(body, pdfMagic) {
		return "", "", &docmodel.IngestionError{Source: rawURL, Reason: "content is not a PDF"}
	}

	filename := resolveFilename(parsed)
	if err := os.MkdirAll(destDir, 0750); err != nil {
		return "", "", &docmodel.IngestionError{Source: rawURL, Reason: "storage dir unavailable", Err: err}
	}

	destPath, err := writeTemp(destDir, body)
	if err != nil {
		return "", "", &docmodel.IngestionError{Source: rawURL, Reason: "saving download failed", Err: err}
	}
	return filename, destPath, nil
}

func resolveFilename(u *url.URL) string {
	name := path.Base(u.Path)
	if name == "" || name == "." || name == "/" {
		name = "download.pdf"
	}
	if !strings.HasSuffix(strings.ToLower(name), ".pdf") {
		name += ".pdf"
	}
	return name
}

func writeTemp(dir string, content []byte) (string, error) {
	f, err := os.CreateTemp(dir, "download-*.pdf")
	if err != nil {
		return "", err
	}
	defer f.Close()
	if _, err := f.Write(content); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}
