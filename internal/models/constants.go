// Package models contains data types and constants for the portfolio chat client.
package models

// Endpoints for the portfolio services
const (
	DefaultChatEndpoint = "https://api.aufaim.com/chat"
	DefaultProjectsURL  = "https://aufaim.com/projects.json"
)

// DefaultNResults is the fixed result-count parameter sent with every chat request
const DefaultNResults = 5

// Texts shown in the chat log
const (
	// FallbackReply replaces a success body that has no "response" field
	FallbackReply = "No response received."

	GreetingAuthenticated = "Hi! I'm the portfolio assistant. Ask me anything about the projects, the stack or the experience behind them."
	GreetingAnonymous     = "Hi! I'm the portfolio assistant. Log in to start chatting."

	LoginPrompt     = "Please log in to use the chat. Opening the login page..."
	LoginCompleted  = "You're logged in. Ask away!"
	LogoutCompleted = "You have been logged out."

	TypingLabel = "Assistant is typing"
)

// DefaultHeaders returns headers sent with every request
func DefaultHeaders() map[string]string {
	return map[string]string{
		"Accept":     "application/json",
		"User-Agent": "portfoliochat/1.0",
	}
}
