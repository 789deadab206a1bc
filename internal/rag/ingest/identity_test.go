package ingest

import (
	"regexp"
	"strings"
	"testing"
)

var docIdPattern = regexp.MustCompile(`^[a-z0-9_]+_[0-9a-f]{8}$`)

func TestAssignDocIdDeterministic(t *testing.T) {
	content := []byte("%PDF-1.4 fake content")

	first := AssignDocId("attention_is_all_you_need.pdf", content)
	second := AssignDocId("attention_is_all_you_need.pdf", content)

	if first != second {
		t.Fatalf("same name and bytes must yield the same id: %s vs %s", first, second)
	}
	if !docIdPattern.MatchString(first) {
		t.Fatalf("id %q does not match slug_hash8 shape", first)
	}
	if !strings.HasPrefix(first, "attention_is_all_you_need_") {
		t.Fatalf("id %q does not start with the slugified basename", first)
	}
}

func TestAssignDocIdNameParticipatesInHash(t *testing.T) {
	content := []byte("identical bytes")

	a := AssignDocId("paper.pdf", content)
	b := AssignDocId("thesis.pdf", content)

	if a == b {
		t.Fatal("same bytes under different names must be distinct documents")
	}
	if a[strings.LastIndex(a, "_")+1:] == b[strings.LastIndex(b, "_")+1:] {
		t.Fatal("hash suffix must change when the name changes")
	}
}

func TestAssignDocIdContentChangesId(t *testing.T) {
	a := AssignDocId("paper.pdf", []byte("version one"))
	b := AssignDocId("paper.pdf", []byte("version two"))
	if a == b {
		t.Fatal("different bytes must yield different ids")
	}
}

func TestAssignDocIdSlugification(t *testing.T) {
	tests := []struct {
		name   string
		source string
		prefix string
	}{
		{name: "spaces and parens", source: "My Paper (v2).pdf", prefix: "my_paper_v2_"},
		{name: "path is stripped", source: "/tmp/uploads/Deep Learning.pdf", prefix: "deep_learning_"},
		{name: "unicode collapses", source: "résumé.pdf", prefix: "r_sum_"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			id := AssignDocId(tc.source, []byte("x"))
			if !strings.HasPrefix(id, tc.prefix) {
				t.Fatalf("expected prefix %q, got %q", tc.prefix, id)
			}
		})
	}
}

func TestChunkID(t *testing.T) {
	if got := ChunkID("paper_1a2b3c4d", 0); got != "paper_1a2b3c4d_chunk_0" {
		t.Fatalf("unexpected chunk id %q", got)
	}
	if got := ChunkID("paper_1a2b3c4d", 17); got != "paper_1a2b3c4d_chunk_17" {
		t.Fatalf("unexpected chunk id %q", got)
	}
}
