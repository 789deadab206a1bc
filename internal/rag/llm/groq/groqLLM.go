package groq

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"sync"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/rgudla/research-assistant/internal/config"
	"github.com/rgudla/research-assistant/internal/rag/llm"
	"github.com/rgudla/research-assistant/pkg/logger_i"
)

// Groq exposes an OpenAI-compatible API, so the official OpenAI client
// pointed at the Groq base URL is all the transport we need.

type llmClient struct {
	client    openai.Client
	modelName string
}

var logger *logger_i.Logger
var groqClient *llmClient
var once sync.Once

// reasoning models wrap their chain-of-thought in <think> tags; that
// never belongs in an answer we return
var thinkTagRe = regexp.MustCompile(`(?is)<think>.*?</think>`)

func GetGroqClient(ctx context.Context, apikey string, modelName string) llm.Provider {
	once.Do(func() {
		logger = logger_i.NewLogger("llm_groq")
		newGroqClient(apikey, modelName)
	})

	if groqClient == nil {
		return nil
	}
	return &llmClient{client: groqClient.client, modelName: groqClient.modelName}
}

func newGroqClient(apikey string, modelName string) {
	if apikey == "" {
		logger.Error("GROQ_API_KEY not set")
		return
	}
	c := openai.NewClient(
		option.WithAPIKey(apikey),
		option.WithBaseURL(config.GroqBaseURL),
	)
	groqClient = &llmClient{client: c, modelName: modelName}
	logger.Info("Groq client created", "model", modelName)
}

func (c *llmClient) Complete(ctx context.Context, system string, user string) (string, error) {
	log := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))
	log.Debug("LLM call", "system_len", len(system), "user_len", len(user))

	callCtx, cancel := context.WithTimeout(ctx, config.LLMCallTimeout)
	defer cancel()

	completion, err := c.client.Chat.Completions.New(callCtx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.modelName),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
		Temperature: openai.Float(config.ModelTemperature),
		TopP:        openai.Float(config.ModelTopP),
		MaxTokens:   openai.Int(config.ModelMaxCompletionTokens),
	})
	if err != nil {
		log.Error("LLM call failed", "error", err)
		return "", err
	}
	if len(completion.Choices) == 0 {
		return "", errors.New("empty completion")
	}

	raw := completion.Choices[0].Message.Content
	answer := sanitizeAnswer(raw)
	log.Debug("LLM response", "raw_len", len(raw), "answer_len", len(answer))
	return answer, nil
}

func sanitizeAnswer(text string) string {
	return strings.TrimSpace(thinkTagRe.ReplaceAllString(text, ""))
}
