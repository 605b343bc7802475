package assistant

import "github.com/nordvig/healthapp-backend/internal/models"

// NoResponseSentinel is returned when a thread history holds no assistant
// message. The absence of a reply is not an error at this layer.
const NoResponseSentinel = "No response from assistant"

// LatestAssistantReply returns the text of the most recent assistant message
// in a newest-first history. Selection keys off the role field only; thread
// histories are not guaranteed to alternate roles.
func LatestAssistantReply(messages []models.ThreadMessage) string {
	for _, msg := range messages {
		if msg.Role == models.RoleAssistant && msg.Text != "" {
			return msg.Text
		}
	}
	return NoResponseSentinel
}
