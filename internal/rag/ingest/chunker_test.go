package ingest

import (
	"errors"
	"strings"
	"testing"

	"github.com/rgudla/research-assistant/internal/domain/docmodel"
)

func TestSplitTextValidation(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		overlap int
	}{
		{name: "zero size", size: 0, overlap: 0},
		{name: "negative size", size: -5, overlap: 0},
		{name: "negative overlap", size: 100, overlap: -1},
		{name: "overlap equals size", size: 100, overlap: 100},
		{name: "overlap exceeds size", size: 100, overlap: 150},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := SplitText("some text", tc.size, tc.overlap)
			var validationErr *docmodel.ValidationError
			if !errors.As(err, &validationErr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
		})
	}
}

func TestSplitTextSingleChunk(t *testing.T) {
	text := "short text that fits in one chunk"
	chunks, err := SplitText(text, 500, 50)
	if err != nil {
		t.Fatal(err)
	}
	if len(chunks) != 1 || chunks[0] != text {
		t.Fatalf("expected the input back as one chunk, got %q", chunks)
	}
}

func TestSplitTextDeterministic(t *testing.T) {
	text := strings.Repeat("The quick brown fox jumps over the lazy dog. ", 60)

	first, err := SplitText(text, 200, 40)
	if err != nil {
		t.Fatal(err)
	}
	second, err := SplitText(text, 200, 40)
	if err != nil {
		t.Fatal(err)
	}

	if len(first) != len(second) {
		t.Fatalf("chunk counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("chunk %d differs between runs", i)
		}
	}
}

func TestSplitTextRespectsChunkSize(t *testing.T) {
	text := strings.Repeat("Lorem ipsum dolor sit amet, consectetur adipiscing elit. ", 50)
	chunks, err := SplitText(text, 150, 30)
	if err != nil {
		t.Fatal(err)
	}
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if len(c) > 150 {
			t.Errorf("chunk %d has %d chars, limit is 150", i, len(c))
		}
	}
}

func TestSplitTextParagraphBoundaries(t *testing.T) {
	para := strings.Repeat("a", 200)
	text := para + "\n\n" + para + "\n\n" + para

	chunks, err := SplitText(text, 250, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(chunks) != 3 {
		t.Fatalf("expected one chunk per paragraph, got %d: %v", len(chunks), chunks)
	}
	for i, c := range chunks {
		if !strings.Contains(c, para) {
			t.Errorf("chunk %d does not hold a full paragraph", i)
		}
	}
}

// 1200 characters without any separator, size 500, overlap 50: fixed
// windows with stride 450 give exactly three chunks.
func TestSplitTextHardCutWindowing(t *testing.T) {
	text := buildSeparatorFreeText(1200)

	chunks, err := SplitText(text, 500, 50)
	if err != nil {
		t.Fatal(err)
	}
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}

	if chunks[0] != text[0:500] {
		t.Error("first chunk is not text[0:500]")
	}
	if chunks[1] != text[450:950] {
		t.Error("second chunk is not text[450:950]")
	}
	if chunks[2] != text[900:1200] {
		t.Error("third chunk is not text[900:1200]")
	}

	for i := 1; i < len(chunks); i++ {
		prevTail := chunks[i-1][len(chunks[i-1])-50:]
		if !strings.HasPrefix(chunks[i], prevTail) {
			t.Errorf("chunk %d does not start with the last 50 chars of chunk %d", i, i-1)
		}
	}
}

func TestSplitTextHardCutCoverage(t *testing.T) {
	text := buildSeparatorFreeText(3000)
	overlap := 50

	chunks, err := SplitText(text, 500, overlap)
	if err != nil {
		t.Fatal(err)
	}

	var rebuilt strings.Builder
	rebuilt.WriteString(chunks[0])
	for _, c := range chunks[1:] {
		rebuilt.WriteString(c[overlap:])
	}
	if rebuilt.String() != text {
		t.Fatal("dropping the overlap prefixes does not reconstruct the input")
	}
}

func TestSplitTextOverlapCarryWithSeparators(t *testing.T) {
	text := strings.Repeat("abcde ", 100)

	chunks, err := SplitText(text, 100, 20)
	if err != nil {
		t.Fatal(err)
	}
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i := 1; i < len(chunks); i++ {
		prevTail := chunks[i-1][len(chunks[i-1])-20:]
		if !strings.HasPrefix(chunks[i], prevTail) {
			t.Errorf("chunk %d does not carry the 20-char tail of its predecessor", i)
		}
	}
}

// no spaces, newlines or sentence breaks anywhere
func buildSeparatorFreeText(n int) string {
	var b strings.Builder
	b.Grow(n)
	for i := 0; i < n; i++ {
		b.WriteByte(byte('a' + i%23))
	}
	return b.String()
}
