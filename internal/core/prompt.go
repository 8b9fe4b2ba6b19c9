package core

import (
	"fmt"

	"emotionix.ai/emotionix/internal/store"
)

// ChatMessage is one role-tagged entry of the conversation sent to a generator.
type ChatMessage struct {
	Role    store.Role
	Content string
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// SystemPrompt builds the system entry for a conversation.
func SystemPrompt(mode Mode, emotion, board, grade string) string {
	text := fmt.Sprintf("You are %s. Be helpful and adapt tone to user's emotion: %s.", mode, orDefault(emotion, "neutral"))
	if mode == ModeStudy {
		text += fmt.Sprintf(" Student board: %s. Grade: %s.", orDefault(board, "any"), orDefault(grade, "any"))
	}
	return text
}

// Assemble turns a chat history into the message list for a generator.
//
// The first system entry of history gets system as its content and keeps its
// position; later system entries are left untouched. Without one, a system
// entry is inserted at the front. prompt is appended as the final user entry.
func Assemble(system string, history []store.Message, prompt string) []ChatMessage {
	out := make([]ChatMessage, 0, len(history)+2)
	replaced := false
	for _, m := range history {
		content := m.Content
		if m.Role == store.RoleSystem && !replaced {
			content = system
			replaced = true
		}
		out = append(out, ChatMessage{Role: m.Role, Content: content})
	}
	if !replaced {
		out = append([]ChatMessage{{Role: store.RoleSystem, Content: system}}, out...)
	}
	return append(out, ChatMessage{Role: store.RoleUser, Content: prompt})
}
