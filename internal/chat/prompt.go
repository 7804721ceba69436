package chat

import (
	"strings"

	"github.com/cchalm/gemini-proxy/internal/conversation"
)

// SystemInstruction guides the model's behavior. It is spliced into the first turn of every outbound prompt and never
// stored.
const SystemInstruction = "You are a helpful and concise assistant. Please format your response using Markdown. Use paragraphs and lists where appropriate to ensure readability."

// OutboundPrompt returns the turns to send upstream for a new message: the stored history, then the message as a user
// turn, with SystemInstruction prepended to the first turn's text unless that text already contains it. The history
// slice is not modified.
func OutboundPrompt(history []conversation.Turn, message string) []conversation.Turn {
	prompt := make([]conversation.Turn, 0, len(history)+1)
	prompt = append(prompt, history...)
	prompt = append(prompt, conversation.UserTurn(message))

	first := prompt[0]
	if !strings.Contains(first.Text, SystemInstruction) {
		prompt[0] = conversation.Turn{
			Role: first.Role,
			Text: SystemInstruction + "\n\n" + first.Text,
		}
	}
	return prompt
}
