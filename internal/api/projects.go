package api

import (
	"context"
	"fmt"
	"strings"

	http "github.com/bogdanfinn/fhttp"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	apierrors "github.com/aufaim/portfoliochat/internal/errors"
	"github.com/aufaim/portfoliochat/internal/models"
)

// ProjectsClient fetches the static project list
type ProjectsClient struct {
	url        string
	httpClient tls_client.HttpClient
	apiKey     string
	logger     *zap.Logger
}

// NewProjectsClient creates a client for the project list URL
func NewProjectsClient(url string, opts ...ClientOption) (*ProjectsClient, error) {
	if strings.TrimSpace(url) == "" {
		return nil, fmt.Errorf("projects url: %w", apierrors.ErrNotConfigured)
	}

	o, err := buildOptions(opts)
	if err != nil {
		return nil, err
	}

	return &ProjectsClient{
		url:        url,
		httpClient: o.httpClient,
		apiKey:     o.apiKey,
		logger:     o.logger,
	}, nil
}

// FetchProjects downloads the project list, preserving its order
func (c *ProjectsClient) FetchProjects(ctx context.Context) ([]models.Project, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	setDefaultHeaders(req, "")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apierrors.NewNetworkErrorWithEndpoint("fetch projects", c.url, err)
	}
	defer closeBody(resp)

	if !isSuccess(resp.StatusCode) {
		body, _ := readBody(resp, maxErrorBody)
		return nil, apierrors.NewAPIErrorWithBody(resp.StatusCode, c.url, "fetch projects failed", parseDetail(body), string(body))
	}

	body, err := readBody(resp, maxBody)
	if err != nil {
		return nil, apierrors.NewNetworkErrorWithEndpoint("read projects", c.url, err)
	}

	projects, err := ParseProjects(body)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("projects loaded", zap.Int("count", len(projects)))
	return projects, nil
}

// ParseProjects decodes a project list. Entries without a title are
// skipped; tech accepts a list or a single string.
func ParseProjects(body []byte) ([]models.Project, error) {
	if !gjson.ValidBytes(body) {
		return nil, apierrors.NewParseError("project list is not valid JSON", "")
	}

	root := gjson.ParseBytes(body)
	// Some deployments wrap the list: {"projects": [...]}
	if root.IsObject() {
		root = root.Get("projects")
	}
	if !root.IsArray() {
		return nil, apierrors.NewParseError("project list is not an array", "projects")
	}

	projects := []models.Project{}
	root.ForEach(func(_, item gjson.Result) bool {
		title := strings.TrimSpace(item.Get("title").String())
		if title == "" {
			return true
		}

		p := models.Project{
			Title:       title,
			Description: strings.TrimSpace(item.Get("description").String()),
			Link:        strings.TrimSpace(item.Get("link").String()),
		}

		tech := item.Get("tech")
		if tech.IsArray() {
			tech.ForEach(func(_, t gjson.Result) bool {
				if s := strings.TrimSpace(t.String()); s != "" {
					p.Tech = append(p.Tech, s)
				}
				return true
			})
		} else if s := strings.TrimSpace(tech.String()); s != "" {
			p.Tech = []string{s}
		}

		projects = append(projects, p)
		return true
	})

	return projects, nil
}
