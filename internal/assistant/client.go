package assistant

import (
	"context"
	"fmt"

	"github.com/nordvig/healthapp-backend/internal/models"
	"github.com/sashabaranov/go-openai"
)

// Client is the surface of the remote assistant system the orchestrator
// depends on. Implementations are network-backed; tests inject fakes.
type Client interface {
	CreateThread(ctx context.Context) (string, error)
	SendMessage(ctx context.Context, threadID, role, content string) error
	// ListMessages returns the thread history newest first.
	ListMessages(ctx context.Context, threadID string) ([]models.ThreadMessage, error)
	CreateRun(ctx context.Context, threadID, assistantID string) (string, error)
	GetRunStatus(ctx context.Context, threadID, runID string) (models.RunStatus, error)
	CancelRun(ctx context.Context, threadID, runID string) error
	ListRuns(ctx context.Context, threadID string) ([]models.Run, error)
	UpdateAssistant(ctx context.Context, assistantID, name, instructions string) error
}

// OpenAIClient adapts the OpenAI Assistants API to the Client interface.
type OpenAIClient struct {
	client *openai.Client
}

func NewOpenAIClient(apiKey string) *OpenAIClient {
	return &OpenAIClient{client: openai.NewClient(apiKey)}
}

func (c *OpenAIClient) CreateThread(ctx context.Context) (string, error) {
	thread, err := c.client.CreateThread(ctx, openai.ThreadRequest{})
	if err != nil {
		return "", fmt.Errorf("failed to create thread: %w", err)
	}
	return thread.ID, nil
}

func (c *OpenAIClient) SendMessage(ctx context.Context, threadID, role, content string) error {
	_, err := c.client.CreateMessage(ctx, threadID, openai.MessageRequest{
		Role:    role,
		Content: content,
	})
	if err != nil {
		return fmt.Errorf("failed to send message to thread %s: %w", threadID, err)
	}
	return nil
}

func (c *OpenAIClient) ListMessages(ctx context.Context, threadID string) ([]models.ThreadMessage, error) {
	list, err := c.client.ListMessage(ctx, threadID, nil, nil, nil, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages for thread %s: %w", threadID, err)
	}

	messages := make([]models.ThreadMessage, 0, len(list.Messages))
	for _, msg := range list.Messages {
		if len(msg.Content) == 0 || msg.Content[0].Text == nil {
			continue
		}
		messages = append(messages, models.ThreadMessage{
			Role: msg.Role,
			Text: msg.Content[0].Text.Value,
		})
	}
	return messages, nil
}

func (c *OpenAIClient) CreateRun(ctx context.Context, threadID, assistantID string) (string, error) {
	run, err := c.client.CreateRun(ctx, threadID, openai.RunRequest{
		AssistantID: assistantID,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create run on thread %s: %w", threadID, err)
	}
	return run.ID, nil
}

func (c *OpenAIClient) GetRunStatus(ctx context.Context, threadID, runID string) (models.RunStatus, error) {
	run, err := c.client.RetrieveRun(ctx, threadID, runID)
	if err != nil {
		return models.RunStatusUnknown, fmt.Errorf("failed to retrieve run %s: %w", runID, err)
	}
	return runStatus(run.Status), nil
}

func (c *OpenAIClient) CancelRun(ctx context.Context, threadID, runID string) error {
	if _, err := c.client.CancelRun(ctx, threadID, runID); err != nil {
		return fmt.Errorf("failed to cancel run %s: %w", runID, err)
	}
	return nil
}

func (c *OpenAIClient) ListRuns(ctx context.Context, threadID string) ([]models.Run, error) {
	list, err := c.client.ListRuns(ctx, threadID, openai.Pagination{})
	if err != nil {
		return nil, fmt.Errorf("failed to list runs for thread %s: %w", threadID, err)
	}

	runs := make([]models.Run, 0, len(list.Runs))
	for _, run := range list.Runs {
		runs = append(runs, models.Run{
			ID:       run.ID,
			ThreadID: threadID,
			Status:   runStatus(run.Status),
		})
	}
	return runs, nil
}

func (c *OpenAIClient) UpdateAssistant(ctx context.Context, assistantID, name, instructions string) error {
	_, err := c.client.ModifyAssistant(ctx, assistantID, openai.AssistantRequest{
		Name:         &name,
		Instructions: &instructions,
	})
	if err != nil {
		return fmt.Errorf("failed to update assistant %s: %w", assistantID, err)
	}
	return nil
}

func runStatus(status openai.RunStatus) models.RunStatus {
	switch status {
	case openai.RunStatusQueued:
		return models.RunStatusQueued
	case openai.RunStatusInProgress, openai.RunStatusRequiresAction, openai.RunStatusCancelling:
		return models.RunStatusInProgress
	case openai.RunStatusCompleted:
		return models.RunStatusCompleted
	case openai.RunStatusFailed, openai.RunStatusIncomplete:
		return models.RunStatusFailed
	case openai.RunStatusCancelled:
		return models.RunStatusCancelled
	case openai.RunStatusExpired:
		return models.RunStatusExpired
	default:
		return models.RunStatusUnknown
	}
}
