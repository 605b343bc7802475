package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nordvig/healthapp-backend/internal/storage"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

const maxTitleLength = 255

type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// TitleGenerator summarizes a thread's first user input into a short title
// and persists it. A thread stays untitled (and cleanup-eligible) when
// generation fails.
type TitleGenerator struct {
	client      chatCompleter
	store       storage.ThreadStorage
	model       string
	maxTokens   int
	temperature float64
	logger      *zap.Logger
}

func NewTitleGenerator(apiKey, model string, maxTokens int, temperature float64, store storage.ThreadStorage, logger *zap.Logger) *TitleGenerator {
	return &TitleGenerator{
		client:      openai.NewClient(apiKey),
		store:       store,
		model:       model,
		maxTokens:   maxTokens,
		temperature: temperature,
		logger:      logger,
	}
}

func (g *TitleGenerator) GenerateTitle(ctx context.Context, threadID, userInput string) (string, error) {
	prompt := fmt.Sprintf("Generate a very short/concise thread title (for our Health AI chatbot app) based on the following user input: %s", userInput)

	resp, err := g.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: g.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			MaxTokens:   g.maxTokens,
			Temperature: float32(g.temperature),
		},
	)
	if err != nil {
		g.logger.Error("Failed to generate thread title",
			zap.Error(err),
			zap.String("thread_id", threadID))
		return "", err
	}

	if len(resp.Choices) == 0 {
		g.logger.Error("Title completion returned no choices",
			zap.String("thread_id", threadID))
		return "", errors.New("title completion returned no choices")
	}

	title := strings.TrimSpace(resp.Choices[0].Message.Content)
	title = strings.Trim(title, `"`)
	if runes := []rune(title); len(runes) > maxTitleLength {
		title = string(runes[:maxTitleLength])
	}

	if err := g.store.UpdateTitle(ctx, threadID, title); err != nil {
		return "", err
	}

	g.logger.Info("Generated thread title",
		zap.String("thread_id", threadID),
		zap.String("title", title))
	return title, nil
}
