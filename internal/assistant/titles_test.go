package assistant

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/nordvig/healthapp-backend/internal/models"
	"github.com/nordvig/healthapp-backend/internal/storage"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

type fakeCompleter struct {
	resp openai.ChatCompletionResponse
	err  error
}

func (f *fakeCompleter) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	return f.resp, f.err
}

func completionWith(content string) openai.ChatCompletionResponse {
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: content}},
		},
	}
}

func newTestTitleGenerator(t *testing.T, completer chatCompleter) (*TitleGenerator, *storage.MemoryStorage) {
	t.Helper()
	store := storage.NewMemoryStorage()
	if err := store.Insert(context.Background(), &models.Thread{UserID: 1, RemoteID: "t1", Category: 1}); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	g := &TitleGenerator{
		client:      completer,
		store:       store,
		model:       openai.GPT3Dot5Turbo,
		maxTokens:   16,
		temperature: 0.7,
		logger:      zap.NewNop(),
	}
	return g, store
}

func TestGenerateTitlePersistsTrimmedTitle(t *testing.T) {
	g, store := newTestTitleGenerator(t, &fakeCompleter{resp: completionWith(`  "Jernmangel og kost"  `)})

	title, err := g.GenerateTitle(context.Background(), "t1", "how is my iron level?")
	if err != nil {
		t.Fatalf("GenerateTitle failed: %v", err)
	}
	if title != "Jernmangel og kost" {
		t.Errorf("expected trimmed title, got %q", title)
	}

	thread, err := store.FindByRemoteID(context.Background(), "t1")
	if err != nil {
		t.Fatalf("FindByRemoteID failed: %v", err)
	}
	if thread.Title != title {
		t.Errorf("expected persisted title %q, got %q", title, thread.Title)
	}
}

func TestGenerateTitleNoChoices(t *testing.T) {
	g, store := newTestTitleGenerator(t, &fakeCompleter{resp: openai.ChatCompletionResponse{}})

	if _, err := g.GenerateTitle(context.Background(), "t1", "hello"); err == nil {
		t.Fatal("expected error for a completion without choices")
	}

	thread, err := store.FindByRemoteID(context.Background(), "t1")
	if err != nil {
		t.Fatalf("FindByRemoteID failed: %v", err)
	}
	if thread.Title != "" {
		t.Errorf("expected thread to stay untitled, got %q", thread.Title)
	}
}

func TestGenerateTitleTruncatesOnRuneBoundary(t *testing.T) {
	long := `"` + strings.Repeat("æ", 300) + `"`
	g, _ := newTestTitleGenerator(t, &fakeCompleter{resp: completionWith(long)})

	title, err := g.GenerateTitle(context.Background(), "t1", "blodprøver")
	if err != nil {
		t.Fatalf("GenerateTitle failed: %v", err)
	}
	if !utf8.ValidString(title) {
		t.Error("expected truncated title to stay valid UTF-8")
	}
	if n := utf8.RuneCountInString(title); n != maxTitleLength {
		t.Errorf("expected %d runes, got %d", maxTitleLength, n)
	}
}
