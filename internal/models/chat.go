package models

// ChatRequest is the JSON body posted to the chat endpoint
type ChatRequest struct {
	Query    string `json:"query"`
	NResults int    `json:"n_results"`
}

// NewChatRequest builds a request with the default result count
func NewChatRequest(query string) ChatRequest {
	return ChatRequest{Query: query, NResults: DefaultNResults}
}

// ChatReply is a successful answer from the chat service
type ChatReply struct {
	Text string
	// Fallback is set when the body had no "response" field and
	// FallbackReply was substituted
	Fallback bool
}
