package assistant

import (
	"testing"

	"github.com/nordvig/healthapp-backend/internal/models"
)

func TestLatestAssistantReplyEmptyHistory(t *testing.T) {
	if got := LatestAssistantReply(nil); got != NoResponseSentinel {
		t.Errorf("expected sentinel for empty history, got %q", got)
	}
}

func TestLatestAssistantReplyOnlyUserMessages(t *testing.T) {
	messages := []models.ThreadMessage{
		{Role: models.RoleUser, Text: "second question"},
		{Role: models.RoleUser, Text: "first question"},
	}
	if got := LatestAssistantReply(messages); got != NoResponseSentinel {
		t.Errorf("expected sentinel for user-only history, got %q", got)
	}
}

func TestLatestAssistantReplySingleAssistantMessage(t *testing.T) {
	messages := []models.ThreadMessage{
		{Role: models.RoleAssistant, Text: "drink more water"},
	}
	if got := LatestAssistantReply(messages); got != "drink more water" {
		t.Errorf("expected verbatim reply, got %q", got)
	}
}

func TestLatestAssistantReplyIgnoresPosition(t *testing.T) {
	// Histories are not guaranteed to alternate roles; only the role field
	// decides.
	messages := []models.ThreadMessage{
		{Role: models.RoleUser, Text: "are you there?"},
		{Role: models.RoleUser, Text: "hello?"},
		{Role: models.RoleAssistant, Text: "newest assistant reply"},
		{Role: models.RoleAssistant, Text: "older assistant reply"},
	}
	if got := LatestAssistantReply(messages); got != "newest assistant reply" {
		t.Errorf("expected newest assistant message, got %q", got)
	}
}
