package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	http "github.com/bogdanfinn/fhttp"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	apierrors "github.com/aufaim/portfoliochat/internal/errors"
	"github.com/aufaim/portfoliochat/internal/models"
)

// ChatClient posts visitor questions to the portfolio chat service
type ChatClient struct {
	endpoint   string
	httpClient tls_client.HttpClient
	apiKey     string
	logger     *zap.Logger
}

// NewChatClient creates a client for the chat endpoint
func NewChatClient(endpoint string, opts ...ClientOption) (*ChatClient, error) {
	if strings.TrimSpace(endpoint) == "" {
		return nil, fmt.Errorf("chat endpoint: %w", apierrors.ErrNotConfigured)
	}

	o, err := buildOptions(opts)
	if err != nil {
		return nil, err
	}

	return &ChatClient{
		endpoint:   endpoint,
		httpClient: o.httpClient,
		apiKey:     o.apiKey,
		logger:     o.logger,
	}, nil
}

// Endpoint returns the chat endpoint URL
func (c *ChatClient) Endpoint() string {
	return c.endpoint
}

// Ask sends exactly one chat request. token is attached as a bearer
// credential when non-empty. A success body without a "response" field
// yields models.FallbackReply instead of an error.
func (c *ChatClient) Ask(ctx context.Context, request models.ChatRequest, token string) (*models.ChatReply, error) {
	if request.NResults <= 0 {
		request.NResults = models.DefaultNResults
	}

	payload, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to build payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	setDefaultHeaders(req, c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		}
		c.logger.Warn("chat request failed", zap.String("endpoint", c.endpoint), zap.Error(err))
		return nil, apierrors.NewNetworkErrorWithEndpoint("chat request", c.endpoint, err)
	}
	defer closeBody(resp)

	c.logger.Debug("chat response",
		zap.Int("status", resp.StatusCode),
		zap.Bool("authorized", token != ""),
		zap.Duration("elapsed", time.Since(start)))

	if !isSuccess(resp.StatusCode) {
		body, _ := readBody(resp, maxErrorBody)
		return nil, apierrors.NewAPIErrorWithBody(resp.StatusCode, c.endpoint, "chat request failed", parseDetail(body), string(body))
	}

	body, err := readBody(resp, maxBody)
	if err != nil {
		return nil, apierrors.NewNetworkErrorWithEndpoint("read chat response", c.endpoint, err)
	}

	return parseReply(body)
}

// parseReply extracts the "response" field of a success body
func parseReply(body []byte) (*models.ChatReply, error) {
	if !gjson.ValidBytes(body) {
		return nil, apierrors.NewParseError("chat response is not valid JSON", "")
	}

	text := gjson.GetBytes(body, "response")
	if !text.Exists() || text.Type != gjson.String || text.String() == "" {
		return &models.ChatReply{Text: models.FallbackReply, Fallback: true}, nil
	}

	return &models.ChatReply{Text: text.String()}, nil
}

// parseDetail extracts the server-supplied error detail. FastAPI sends a
// string for HTTPException and a list of {msg} objects for validation
// failures. Anything else yields "".
func parseDetail(body []byte) string {
	if !gjson.ValidBytes(body) {
		return ""
	}

	detail := gjson.GetBytes(body, "detail")
	switch {
	case detail.Type == gjson.String:
		return strings.TrimSpace(detail.String())
	case detail.IsArray():
		var msgs []string
		detail.ForEach(func(_, item gjson.Result) bool {
			if msg := item.Get("msg"); msg.Type == gjson.String {
				msgs = append(msgs, msg.String())
			}
			return true
		})
		return strings.Join(msgs, "; ")
	}
	return ""
}
