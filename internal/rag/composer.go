package rag

import (
	"fmt"
	"strings"

	"github.com/rgudla/research-assistant/internal/domain/docmodel"
)

// keeps a pathological retrieval result from blowing the model context
const maxContextChars = 4000

const qaInstruction = `You are a careful research assistant.
Answer the user's question using ONLY the provided context.
If the context does not contain the information needed, say explicitly that the context is insufficient instead of guessing.
Cite the sources you rely on by their tag, e.g. "From [Source 2]".
Do not include chain-of-thought or hidden reasoning in the answer.`

const gapInstruction = `You are a diligent researcher reviewing study material.
Your tasks:
1. Restate the provided content in clear, accessible language.
2. List the limitations, open problems and missing areas as a numbered list, grounded ONLY in the context.
If the context does not support a claim, do not make it; say the context is insufficient instead.
Do not include chain-of-thought or hidden reasoning in the answer.`

func buildPrompt(mode docmodel.AnswerMode, question string, results []docmodel.RetrievalResult) (system string, user string) {
	contextBlock := buildContext(results)

	if mode == docmodel.ModeGapDetection {
		user = fmt.Sprintf("Context:\n%s\n\nTopic under review: %s\n\nRequired format:\nSummary:\n<accessible restatement>\n\nGaps:\n1. ...\n2. ...", contextBlock, question)
		return gapInstruction, user
	}

	user = fmt.Sprintf("Context:\n%s\n\nQuestion: %s", contextBlock, question)
	return qaInstruction, user
}

// buildContext renders retrieved chunks as tagged blocks so the model
// can cite them. Total size is capped; whole blocks are dropped rather
// than truncated mid-sentence.
func buildContext(results []docmodel.RetrievalResult) string {
	var b strings.Builder
	for i, res := range results {
		sourceFile, _ := res.Metadata["source_file"].(string)
		block := fmt.Sprintf("[Source %d | %s | %s]\n%s\n\n", i+1, res.ChunkId, sourceFile, res.Content)
		if i > 0 && b.Len()+len(block) > maxContextChars {
			break
		}
		b.WriteString(block)
	}
	return strings.TrimRight(b.String(), "\n")
}

func noContextAnswer(mode docmodel.AnswerMode) string {
	if mode == docmodel.ModeGapDetection {
		return "No relevant material was found in the collection for this topic, so no gap analysis can be produced. Ingest the relevant documents first."
	}
	return "No relevant context was found in the collection for this question. Ingest the relevant documents first."
}
