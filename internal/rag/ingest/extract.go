package ingest

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dslipak/pdf"
	"github.com/rgudla/research-assistant/internal/config"
	"github.com/rgudla/research-assistant/internal/domain/docmodel"
	"github.com/rgudla/research-assistant/internal/metrics"
	"github.com/rgudla/research-assistant/pkg/logger_i"
)

// Extractor turns a PDF on disk into per-page plain text. Each page is
// tried against the embedded text layer first; pages with no usable
// text layer are rasterized and OCRed one at a time, so peak memory
// stays flat regardless of document length.
type Extractor struct {
	pdftoppmCmd  string
	tesseractCmd string
	logger       *logger_i.Logger
}

func NewExtractor(pdftoppmCmd string, tesseractCmd string) *Extractor {
	return &Extractor{
		pdftoppmCmd:  pdftoppmCmd,
		tesseractCmd: tesseractCmd,
		logger:       logger_i.NewLogger("Extractor"),
	}
}

// ExtractPages returns one string per page. A page that yields nothing
// from either path comes back empty; only a document where every page is
// empty is an error.
func (e *Extractor) ExtractPages(ctx context.Context, pdfPath string, ocrLang string, dpi int) ([]string, error) {
	f, err := pdf.Open(pdfPath)
	if err != nil {
		e.logger.Error("failed opening pdf", "path", pdfPath, "error", err)
		return nil, &docmodel.IngestionError{Source: pdfPath, Reason: "not a readable PDF", Err: err}
	}

	numPages := f.NumPage()
	pages := make([]string, 0, numPages)
	anyText := false

	for i := 1; i <= numPages; i++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		text := e.extractPageText(f, i)
		if len(text) < config.MinTextLayerChars {
			text = e.ocrFallback(ctx, pdfPath, i, dpi, ocrLang, text)
		}

		if text != "" {
			anyText = true
		}
		e.logger.Debug("page extracted", "page", i, "chars", len(text))
		pages = append(pages, text)
	}

	if !anyText {
		return nil, &docmodel.ExtractionError{SourceFile: pdfPath, Pages: numPages}
	}
	return pages, nil
}

// ocrFallback OCRs one page and returns the better of the two texts.
// The OCR page counter only moves on a successful OCR run; failed
// attempts (missing binaries included) must not inflate it.
func (e *Extractor) ocrFallback(ctx context.Context, pdfPath string, pageNum int, dpi int, lang string, current string) string {
	ocrText, err := e.ocrPage(ctx, pdfPath, pageNum, dpi, lang)
	if err != nil {
		e.logger.Warn("OCR fallback failed", "page", pageNum, "error", err)
		return current
	}
	metrics.CountOCRPage()
	if len(ocrText) > len(current) {
		return ocrText
	}
	return current
}

func (e *Extractor) extractPageText(f *pdf.Reader, pageNum int) string {
	page := f.Page(pageNum)
	if page.V.IsNull() {
		return ""
	}
	content, err := protectExtract(page)
	if err != nil {
		e.logger.Warn("text layer extraction failed", "page", pageNum, "error", err)
		return ""
	}
	return strings.TrimSpace(content)
}

// protectExtract guards against the pdf library hanging on malformed
// content streams.
func protectExtract(page pdf.Page) (string, error) {
	type result struct {
		content string
		err     error
	}
	resChan := make(chan result, 1)

	go func() {
		content, err := page.GetPlainText(nil)
		resChan <- result{content, err}
	}()
	select {
	case r := <-resChan:
		return r.content, r.err
	case <-time.After(time.Second * 10):
		return "", errors.New("timeout")
	}
}
