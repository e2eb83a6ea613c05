package api

import (
	"context"
	"sync"

	"github.com/aufaim/portfoliochat/internal/models"
)

// ChatAPI is the subset of ChatClient the chat controller depends on
type ChatAPI interface {
	Ask(ctx context.Context, request models.ChatRequest, token string) (*models.ChatReply, error)
}

// ProjectsAPI is the subset of ProjectsClient the UI depends on
type ProjectsAPI interface {
	FetchProjects(ctx context.Context) ([]models.Project, error)
}

// Ensure the real clients satisfy the interfaces
var (
	_ ChatAPI     = (*ChatClient)(nil)
	_ ProjectsAPI = (*ProjectsClient)(nil)
)

// MockChatClient is a ChatAPI for tests. When Block is set, Ask waits
// until it is closed (or ctx ends) before answering.
type MockChatClient struct {
	Reply *models.ChatReply
	Err   error
	Block chan struct{}
	// Started receives one value per call once Ask is entered
	Started chan struct{}

	mu        sync.Mutex
	calls     int
	lastReq   models.ChatRequest
	lastToken string
}

// Ensure MockChatClient implements ChatAPI
var _ ChatAPI = (*MockChatClient)(nil)

// Ask records the call and returns the configured reply
func (m *MockChatClient) Ask(ctx context.Context, request models.ChatRequest, token string) (*models.ChatReply, error) {
	m.mu.Lock()
	m.calls++
	m.lastReq = request
	m.lastToken = token
	m.mu.Unlock()

	if m.Started != nil {
		m.Started <- struct{}{}
	}

	if m.Block != nil {
		select {
		case <-m.Block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return m.Reply, m.Err
}

// Calls returns how many times Ask was invoked
func (m *MockChatClient) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// LastRequest returns the most recent request and token
func (m *MockChatClient) LastRequest() (models.ChatRequest, string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastReq, m.lastToken
}

// MockProjectsClient is a ProjectsAPI for tests
type MockProjectsClient struct {
	Projects []models.Project
	Err      error
}

// FetchProjects returns the configured projects
func (m *MockProjectsClient) FetchProjects(ctx context.Context) ([]models.Project, error) {
	return m.Projects, m.Err
}
