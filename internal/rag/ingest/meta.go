package ingest

import (
	"regexp"
	"strings"

	"github.com/dslipak/pdf"
	"github.com/rgudla/research-assistant/internal/domain/docmodel"
)

var yearRe = regexp.MustCompile(`(19|20)\d{2}`)
var authorLineRe = regexp.MustCompile(`(?i)(,| and )`)

const metaFieldMax = 200

// ExtractMeta reads bibliographic metadata from the PDF info dictionary.
// Missing title and authors fall back to the first page: its first line
// as the title, its second line as authors when it reads like a name
// list. Everything here is best-effort; a document without metadata
// still ingests fine.
func (e *Extractor) ExtractMeta(pdfPath string, firstPageText string) docmodel.DocMeta {
	info := func(string) string { return "" }

	f, err := pdf.Open(pdfPath)
	if err == nil {
		info = func(key string) string { return infoValue(f, key) }
	} else {
		e.logger.Warn("metadata extraction skipped, info dictionary unreadable", "error", err)
	}
	return buildMeta(info, firstPageText)
}

func buildMeta(info func(string) string, firstPageText string) docmodel.DocMeta {
	meta := docmodel.DocMeta{
		Title:    strings.TrimSpace(info("Title")),
		Authors:  strings.TrimSpace(info("Author")),
		Subject:  strings.TrimSpace(info("Subject")),
		Keywords: strings.TrimSpace(info("Keywords")),
	}

	for _, key := range []string{"ModDate", "CreationDate", "Producer", "Creator"} {
		if y := yearRe.FindString(info(key)); y != "" {
			meta.Year = y
			break
		}
	}

	lines := nonEmptyLines(firstPageText)
	if meta.Title == "" && len(lines) > 0 {
		meta.Title = truncate(lines[0], metaFieldMax)
	}
	if meta.Authors == "" && len(lines) > 1 && authorLineRe.MatchString(lines[1]) {
		meta.Authors = truncate(lines[1], metaFieldMax)
	}
	if meta.Year == "" {
		meta.Year = yearRe.FindString(firstPageText)
	}
	return meta
}

// infoValue tolerates malformed info dictionaries; the pdf library
// panics on some of them.
func infoValue(f *pdf.Reader, key string) (val string) {
	defer func() {
		if r := recover(); r != nil {
			val = ""
		}
	}()
	return f.Trailer().Key("Info").Key(key).Text()
}

func nonEmptyLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return lines
}

func truncate(s string, max int) string {
	if len(s) > max {
		return s[:max]
	}
	return s
}
