package chat

import "slices"

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one chat turn
type Message struct {
	Role    Role
	Content string
}

// Session is the in-memory turn history of one conversation. It only grows.
type Session struct {
	messages []Message
}

func (s *Session) Append(role Role, content string) {
	s.messages = append(s.messages, Message{Role: role, Content: content})
}

// Messages returns a copy of the history in order
func (s *Session) Messages() []Message {
	return slices.Clone(s.messages)
}

func (s *Session) Len() int {
	return len(s.messages)
}
