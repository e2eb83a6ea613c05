package models

import "time"

// Author identifies who produced a chat message
type Author int

const (
	AuthorUser Author = iota
	AuthorBot
	AuthorSystem
)

// String returns the label used in transcripts and logs
func (a Author) String() string {
	switch a {
	case AuthorUser:
		return "user"
	case AuthorBot:
		return "bot"
	case AuthorSystem:
		return "system"
	default:
		return "unknown"
	}
}

// ParseAuthor converts a transcript label back into an Author
func ParseAuthor(s string) (Author, bool) {
	switch s {
	case "user":
		return AuthorUser, true
	case "bot":
		return AuthorBot, true
	case "system":
		return AuthorSystem, true
	}
	return AuthorUser, false
}

// Message is a single entry of the chat log. Messages are never mutated
// after creation.
type Message struct {
	Text      string
	Author    Author
	Timestamp time.Time
}

// NewMessage creates a message stamped with the given time
func NewMessage(author Author, text string, at time.Time) Message {
	return Message{Text: text, Author: author, Timestamp: at}
}

// IsUser reports whether the message was typed by the visitor
func (m Message) IsUser() bool {
	return m.Author == AuthorUser
}
