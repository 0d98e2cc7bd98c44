// Package rest implements the service.Service interface against a REST
// collection of tasks served as JSON under /todos.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"todo/internal/log"
	"todo/internal/service"
)

const (
	// CollectionPath is the resource path of the task collection.
	CollectionPath = "/todos"

	// maxBodyExcerpt bounds the response body kept in transport errors.
	maxBodyExcerpt = 256
)

// ClientConfig is the configuration of the REST client.
type ClientConfig struct {
	// BaseURL is the address the collection path is appended to.
	BaseURL string
	// HTTPClient is used for every call. Defaults to a new http.Client.
	HTTPClient *http.Client
	// Timeout bounds each call when set. Zero means no timeout.
	Timeout time.Duration
	Logger  log.Logger
}

func (c *ClientConfig) defaults() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base url is required")
	}
	if _, err := url.Parse(c.BaseURL); err != nil {
		return fmt.Errorf("invalid base url: %w", err)
	}
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{}
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "backend.REST"})
	return nil
}

// Client implements service.Service over HTTP+JSON.
type Client struct {
	collection string
	httpClient *http.Client
	timeout    time.Duration
	logger     log.Logger
}

// New creates a new REST client.
func New(cfg ClientConfig) (*Client, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Client{
		collection: strings.TrimRight(cfg.BaseURL, "/") + CollectionPath,
		httpClient: cfg.HTTPClient,
		timeout:    cfg.Timeout,
		logger:     cfg.Logger,
	}, nil
}

type createRequest struct {
	Text string `json:"text"`
}

type updateRequest struct {
	ID   service.ID `json:"id"`
	Text string     `json:"text"`
}

// ListTasks implements service.Service.
func (c *Client) ListTasks(ctx context.Context) ([]service.Task, error) {
	var tasks []service.Task
	if err := c.do(ctx, "list", http.MethodGet, c.collection, nil, &tasks); err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []service.Task{}
	}
	return tasks, nil
}

// CreateTask implements service.Service.
func (c *Client) CreateTask(ctx context.Context, text string) (service.Task, error) {
	var task service.Task
	if err := c.do(ctx, "create", http.MethodPost, c.collection, createRequest{Text: text}, &task); err != nil {
		return service.Task{}, err
	}
	return task, nil
}

// UpdateTask implements service.Service.
func (c *Client) UpdateTask(ctx context.Context, id service.ID, text string) (service.Task, error) {
	var task service.Task
	body := updateRequest{ID: id, Text: text}
	if err := c.do(ctx, "update", http.MethodPut, c.itemURL(id), body, &task); err != nil {
		return service.Task{}, err
	}
	return task, nil
}

// DeleteTask implements service.Service.
// The acknowledgement body is checked to be JSON when present and then ignored.
func (c *Client) DeleteTask(ctx context.Context, id service.ID) error {
	var ack json.RawMessage
	return c.do(ctx, "delete", http.MethodDelete, c.itemURL(id), nil, &ack)
}

func (c *Client) itemURL(id service.ID) string {
	return c.collection + "/" + url.PathEscape(id.String())
}

// do sends a single request and decodes a 2xx response into out.
// An empty body is accepted only when out is a *json.RawMessage. A decoded
// task must carry an id.
func (c *Client) do(ctx context.Context, op, method, target string, in, out any) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	newErr := func(status int, body string, err error) error {
		return &service.TransportError{Op: op, Method: method, URL: target, StatusCode: status, Body: body, Err: err}
	}

	var reqBody io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return newErr(0, "", fmt.Errorf("could not encode request: %w", err))
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reqBody)
	if err != nil {
		return newErr(0, "", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debugf("%s %s", method, target)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return newErr(0, "", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return newErr(resp.StatusCode, "", fmt.Errorf("could not read body: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Debugf("%s %s: status %d", method, target, resp.StatusCode)
		return newErr(resp.StatusCode, excerpt(data), nil)
	}

	trimmed := bytes.TrimSpace(data)
	raw, isRaw := out.(*json.RawMessage)
	if isRaw && len(trimmed) == 0 {
		*raw = nil
		return nil
	}

	// null decodes without error into slices and structs.
	if !isRaw && bytes.Equal(trimmed, []byte("null")) {
		return newErr(resp.StatusCode, excerpt(data), fmt.Errorf("could not decode body: got null"))
	}

	if err := json.Unmarshal(data, out); err != nil {
		return newErr(resp.StatusCode, excerpt(data), fmt.Errorf("could not decode body: %w", err))
	}

	if task, ok := out.(*service.Task); ok && task.ID.IsZero() {
		return newErr(resp.StatusCode, excerpt(data), fmt.Errorf("could not decode body: task has no id"))
	}

	return nil
}

func excerpt(data []byte) string {
	s := strings.TrimSpace(string(data))
	if len(s) > maxBodyExcerpt {
		s = s[:maxBodyExcerpt] + "..."
	}
	return s
}
