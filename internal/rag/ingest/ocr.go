package ingest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// ocrPage rasterizes exactly one page with pdftoppm and feeds the image
// to tesseract. The temp directory is removed before returning, so only
// one page image ever exists at a time.
func (e *Extractor) ocrPage(ctx context.Context, pdfPath string, pageNum int, dpi int, lang string) (string, error) {
	tmpDir, err := os.MkdirTemp("", "ocr-page-")
	if err != nil {
		return "", err
	}
	defer os.RemoveAll(tmpDir)

	prefix := filepath.Join(tmpDir, "page")
	raster := exec.CommandContext(ctx, e.pdftoppmCmd,
		"-png",
		"-r", strconv.Itoa(dpi),
		"-f", strconv.Itoa(pageNum),
		"-l", strconv.Itoa(pageNum),
		pdfPath, prefix)
	if out, err := raster.CombinedOutput(); err != nil {
		return "", fmt.Errorf("pdftoppm failed: %w: %s", err, strings.TrimSpace(string(out)))
	}

	images, err := filepath.Glob(prefix + "*.png")
	if err != nil || len(images) == 0 {
		return "", errors.New("pdftoppm produced no image")
	}

	ocr := exec.CommandContext(ctx, e.tesseractCmd, images[0], "stdout", "-l", lang)
	out, err := ocr.Output()
	if err != nil {
		return "", fmt.Errorf("tesseract failed: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}
