// Package googletasks implements the service.Service interface using the
// default list of the Google Tasks API as the task collection.
package googletasks

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/option"
	tasks "google.golang.org/api/tasks/v1"

	"todo/internal/config"
	"todo/internal/log"
	"todo/internal/service"
)

const (
	// DefaultListID is the special ID for the default list.
	DefaultListID = "@default"

	// PageSize is the number of tasks per page.
	PageSize = 100

	// APITimeout is the timeout for API calls.
	APITimeout = 5 * time.Second
)

// Client implements service.Service using Google Tasks API.
type Client struct {
	svc    *tasks.Service
	listID string
	logger log.Logger
}

// New creates a new Google Tasks client.
// Requires oauth_client.json and token.json to exist.
func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	oauthConfig, err := LoadOAuthConfig(cfg)
	if err != nil {
		return nil, err
	}

	token, err := LoadToken(cfg.TokenPath())
	if err != nil {
		return nil, err
	}

	// Create token source that auto-refreshes
	tokenSource := oauthConfig.TokenSource(ctx, token)
	httpClient := oauth2.NewClient(ctx, tokenSource)

	svc, err := tasks.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create tasks service: %w", err)
	}

	return &Client{
		svc:    svc,
		listID: DefaultListID,
		logger: cfg.Logger.WithValues(log.Kv{"svc": "backend.GoogleTasks"}),
	}, nil
}

// NewWithHTTPClient creates a client with a custom HTTP client and endpoint (for testing).
func NewWithHTTPClient(ctx context.Context, httpClient *http.Client, endpoint string) (*Client, error) {
	opts := []option.ClientOption{option.WithHTTPClient(httpClient)}
	if endpoint != "" {
		opts = append(opts, option.WithEndpoint(endpoint))
	}
	svc, err := tasks.NewService(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return &Client{svc: svc, listID: DefaultListID, logger: log.Noop}, nil
}

// ListTasks returns every open task of the default list, in API order.
func (c *Client) ListTasks(ctx context.Context) ([]service.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	result := []service.Task{}
	err := c.svc.Tasks.List(c.listID).
		MaxResults(PageSize).
		ShowCompleted(false).
		ShowDeleted(false).
		ShowHidden(false).
		Pages(ctx, func(resp *tasks.Tasks) error {
			for _, task := range resp.Items {
				result = append(result, toTask(task))
			}
			return nil
		})
	if err != nil {
		return nil, wrapError("list", err)
	}

	c.logger.Debugf("listed %d tasks", len(result))
	return result, nil
}

// CreateTask creates a new task in the default list.
func (c *Client) CreateTask(ctx context.Context, text string) (service.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	created, err := c.svc.Tasks.Insert(c.listID, &tasks.Task{Title: text}).Context(ctx).Do()
	if err != nil {
		return service.Task{}, wrapError("create", err)
	}
	return toTask(created), nil
}

// UpdateTask replaces the title of a task.
func (c *Client) UpdateTask(ctx context.Context, id service.ID, text string) (service.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	updated, err := c.svc.Tasks.Patch(c.listID, id.String(), &tasks.Task{Title: text}).Context(ctx).Do()
	if err != nil {
		return service.Task{}, wrapError("update", err)
	}
	return toTask(updated), nil
}

// DeleteTask deletes a task.
func (c *Client) DeleteTask(ctx context.Context, id service.ID) error {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	if err := c.svc.Tasks.Delete(c.listID, id.String()).Context(ctx).Do(); err != nil {
		return wrapError("delete", err)
	}
	return nil
}

func toTask(t *tasks.Task) service.Task {
	return service.Task{ID: service.StringID(t.Id), Text: t.Title}
}

// wrapError wraps API errors with user-friendly messages.
// Every failure becomes a *service.TransportError so callers handle both
// backends alike.
func wrapError(op string, err error) error {
	if err == nil {
		return nil
	}

	te := &service.TransportError{Op: op, Method: "API", URL: "tasks.googleapis.com", Err: err}
	errStr := err.Error()

	switch {
	case strings.Contains(errStr, "context deadline exceeded"):
		te.Err = fmt.Errorf("request timed out")
	case strings.Contains(errStr, "401") || strings.Contains(errStr, "403"):
		te.StatusCode = http.StatusUnauthorized
		te.Err = fmt.Errorf("token expired or revoked (run: todo login)")
	case strings.Contains(errStr, "404"):
		te.StatusCode = http.StatusNotFound
		te.Err = nil
	}

	return te
}
