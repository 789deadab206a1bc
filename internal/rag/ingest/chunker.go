package ingest

import (
	"strings"

	"github.com/rgudla/research-assistant/internal/domain/docmodel"
)

// Separators ordered from "best" to "worst" for semantic meaning. The
// empty fallback is a hard fixed-width cut.
var separators = []string{"\n\n", "\n", ". ", " "}

// SplitText splits text into chunks of at most chunkSize characters,
// each chunk after the first starting with the last chunkOverlap
// characters of its predecessor. It is a pure function: identical inputs
// always produce the identical chunk sequence, which is what makes
// chunk ids stable across re-ingestion.
func SplitText(text string, chunkSize int, chunkOverlap int) ([]string, error) {
	if chunkSize <= 0 {
		return nil, &docmodel.ValidationError{Field: "chunk_size", Reason: "must be positive"}
	}
	if chunkOverlap < 0 {
		return nil, &docmodel.ValidationError{Field: "chunk_overlap", Reason: "must not be negative"}
	}
	if chunkOverlap >= chunkSize {
		return nil, &docmodel.ValidationError{Field: "chunk_overlap", Reason: "must be smaller than chunk_size"}
	}
	return splitRecursive(text, chunkSize, chunkOverlap, separators), nil
}

func splitRecursive(text string, size int, overlap int, seps []string) []string {
	if len(text) <= size {
		return []string{text}
	}

	sepIdx := -1
	for i, s := range seps {
		if strings.Contains(text, s) {
			sepIdx = i
			break
		}
	}
	if sepIdx == -1 {
		return hardCut(text, size, overlap)
	}
	sep := seps[sepIdx]

	// SplitAfter keeps the separator attached to the preceding part, so
	// joining all parts reconstructs the input exactly.
	parts := strings.SplitAfter(text, sep)

	var chunks []string
	var current strings.Builder
	carryLen := 0

	flush := func() {
		if current.Len() == 0 {
			return
		}
		chunk := current.String()
		chunks = append(chunks, chunk)
		current.Reset()
		carryLen = 0
		if overlap > 0 && len(chunk) > overlap {
			current.WriteString(chunk[len(chunk)-overlap:])
			carryLen = overlap
		}
	}

	for _, part := range parts {
		if part == "" {
			continue
		}

		if len(part) > size {
			// a single part exceeds the ceiling: flush what we have and
			// recurse into the part with the finer separators
			flush()
			current.Reset()
			carryLen = 0

			sub := splitRecursive(part, size, overlap, seps[sepIdx+1:])
			chunks = append(chunks, sub...)

			last := sub[len(sub)-1]
			if overlap > 0 && len(last) > overlap {
				current.WriteString(last[len(last)-overlap:])
				carryLen = overlap
			}
			continue
		}

		if current.Len()+len(part) > size {
			if current.Len() == carryLen {
				// nothing but overlap carry accumulated; drop it rather
				// than emitting a chunk that repeats the previous one
				current.Reset()
				carryLen = 0
			} else {
				flush()
				if current.Len()+len(part) > size {
					current.Reset()
					carryLen = 0
				}
			}
		}
		current.WriteString(part)
	}

	// the trailing builder content is a real chunk only if it holds more
	// than the carried overlap
	if current.Len() > carryLen {
		chunks = append(chunks, current.String())
	}

	return chunks
}

// hardCut produces fixed windows with stride size-overlap. Every chunk
// after the first repeats exactly overlap characters of its predecessor
// and the non-overlapping spans concatenate back to the input.
func hardCut(text string, size int, overlap int) []string {
	stride := size - overlap
	var chunks []string
	for start := 0; start < len(text); start += stride {
		end := start + size
		if end >= len(text) {
			chunks = append(chunks, text[start:])
			break
		}
		chunks = append(chunks, text[start:end])
	}
	return chunks
}
