package rest_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo/internal/backend/rest"
	"todo/internal/service"
)

type recordedRequest struct {
	Method      string
	Path        string
	ContentType string
	Body        string
}

// newTestClient serves every request with the given status and body, and
// records what the client sent.
func newTestClient(t *testing.T, status int, body string) (*rest.Client, *[]recordedRequest) {
	t.Helper()

	var reqs []recordedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		reqs = append(reqs, recordedRequest{
			Method:      r.Method,
			Path:        r.URL.EscapedPath(),
			ContentType: r.Header.Get("Content-Type"),
			Body:        string(data),
		})
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)

	c, err := rest.New(rest.ClientConfig{BaseURL: srv.URL + "/"})
	require.NoError(t, err)
	return c, &reqs
}

func TestClientRequests(t *testing.T) {
	tests := map[string]struct {
		status  int
		body    string
		call    func(c *rest.Client) (any, error)
		expReq  recordedRequest
		expResp any
	}{
		"Listing should GET the collection.": {
			status: http.StatusOK,
			body:   `[{"id":1,"text":"buy milk"},{"id":"b","text":"walk dog"}]`,
			call: func(c *rest.Client) (any, error) {
				return c.ListTasks(context.Background())
			},
			expReq: recordedRequest{Method: http.MethodGet, Path: "/todos"},
			expResp: []service.Task{
				{ID: service.NumericID(1), Text: "buy milk"},
				{ID: service.StringID("b"), Text: "walk dog"},
			},
		},
		"Listing an empty collection should return an empty list.": {
			status: http.StatusOK,
			body:   `[]`,
			call: func(c *rest.Client) (any, error) {
				return c.ListTasks(context.Background())
			},
			expReq:  recordedRequest{Method: http.MethodGet, Path: "/todos"},
			expResp: []service.Task{},
		},
		"Creating should POST only the text.": {
			status: http.StatusCreated,
			body:   `{"id":3,"text":"buy milk"}`,
			call: func(c *rest.Client) (any, error) {
				return c.CreateTask(context.Background(), "buy milk")
			},
			expReq: recordedRequest{
				Method:      http.MethodPost,
				Path:        "/todos",
				ContentType: "application/json",
				Body:        `{"text":"buy milk"}`,
			},
			expResp: service.Task{ID: service.NumericID(3), Text: "buy milk"},
		},
		"Updating should PUT the id and the text, keeping a numeric id numeric.": {
			status: http.StatusOK,
			body:   `{"id":3,"text":"buy oat milk"}`,
			call: func(c *rest.Client) (any, error) {
				return c.UpdateTask(context.Background(), service.NumericID(3), "buy oat milk")
			},
			expReq: recordedRequest{
				Method:      http.MethodPut,
				Path:        "/todos/3",
				ContentType: "application/json",
				Body:        `{"id":3,"text":"buy oat milk"}`,
			},
			expResp: service.Task{ID: service.NumericID(3), Text: "buy oat milk"},
		},
		"Updating should escape string ids in the path.": {
			status: http.StatusOK,
			body:   `{"id":"a/b","text":"x"}`,
			call: func(c *rest.Client) (any, error) {
				return c.UpdateTask(context.Background(), service.StringID("a/b"), "x")
			},
			expReq: recordedRequest{
				Method:      http.MethodPut,
				Path:        "/todos/a%2Fb",
				ContentType: "application/json",
				Body:        `{"id":"a/b","text":"x"}`,
			},
			expResp: service.Task{ID: service.StringID("a/b"), Text: "x"},
		},
		"Deleting should DELETE the item and accept an empty object.": {
			status: http.StatusOK,
			body:   `{}`,
			call: func(c *rest.Client) (any, error) {
				return nil, c.DeleteTask(context.Background(), service.NumericID(3))
			},
			expReq: recordedRequest{Method: http.MethodDelete, Path: "/todos/3"},
		},
		"Deleting should accept an empty body.": {
			status: http.StatusNoContent,
			call: func(c *rest.Client) (any, error) {
				return nil, c.DeleteTask(context.Background(), service.StringID("x"))
			},
			expReq: recordedRequest{Method: http.MethodDelete, Path: "/todos/x"},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			require := require.New(t)

			c, reqs := newTestClient(t, test.status, test.body)

			got, err := test.call(c)
			require.NoError(err)
			require.Len(*reqs, 1)

			gotReq := (*reqs)[0]
			assert.Equal(test.expReq.Method, gotReq.Method)
			assert.Equal(test.expReq.Path, gotReq.Path)
			assert.Equal(test.expReq.ContentType, gotReq.ContentType)
			if test.expReq.Body != "" {
				assert.JSONEq(test.expReq.Body, gotReq.Body)
			} else {
				assert.Empty(gotReq.Body)
			}
			if test.expResp != nil {
				assert.Equal(test.expResp, got)
			}
		})
	}
}

func TestClientFailures(t *testing.T) {
	tests := map[string]struct {
		status      int
		body        string
		call        func(c *rest.Client) error
		expStatus   int
		expNotFound bool
		expMsg      string
	}{
		"A server error on list should be a transport error.": {
			status: http.StatusInternalServerError,
			body:   `boom`,
			call: func(c *rest.Client) error {
				_, err := c.ListTasks(context.Background())
				return err
			},
			expStatus: http.StatusInternalServerError,
			expMsg:    "response was not ok: 500 Internal Server Error: boom",
		},
		"A missing item on update should unwrap to not found.": {
			status: http.StatusNotFound,
			body:   `{}`,
			call: func(c *rest.Client) error {
				_, err := c.UpdateTask(context.Background(), service.NumericID(9), "x")
				return err
			},
			expStatus:   http.StatusNotFound,
			expNotFound: true,
		},
		"A missing item on delete should unwrap to not found.": {
			status: http.StatusNotFound,
			call: func(c *rest.Client) error {
				return c.DeleteTask(context.Background(), service.NumericID(9))
			},
			expStatus:   http.StatusNotFound,
			expNotFound: true,
		},
		"A rejected create should be a transport error.": {
			status: http.StatusBadRequest,
			body:   `{"error":"text is required"}`,
			call: func(c *rest.Client) error {
				_, err := c.CreateTask(context.Background(), "x")
				return err
			},
			expStatus: http.StatusBadRequest,
			expMsg:    "text is required",
		},
		"An undecodable list body should be a transport error.": {
			status: http.StatusOK,
			body:   `<html>`,
			call: func(c *rest.Client) error {
				_, err := c.ListTasks(context.Background())
				return err
			},
			expStatus: http.StatusOK,
			expMsg:    "could not decode body",
		},
		"A null list body should be a transport error.": {
			status: http.StatusOK,
			body:   `null`,
			call: func(c *rest.Client) error {
				_, err := c.ListTasks(context.Background())
				return err
			},
			expStatus: http.StatusOK,
			expMsg:    "could not decode body",
		},
		"A null create body should be a transport error.": {
			status: http.StatusCreated,
			body:   ` null `,
			call: func(c *rest.Client) error {
				_, err := c.CreateTask(context.Background(), "x")
				return err
			},
			expStatus: http.StatusCreated,
			expMsg:    "could not decode body",
		},
		"A null update body should be a transport error.": {
			status: http.StatusOK,
			body:   `null`,
			call: func(c *rest.Client) error {
				_, err := c.UpdateTask(context.Background(), service.NumericID(3), "x")
				return err
			},
			expStatus: http.StatusOK,
			expMsg:    "could not decode body",
		},
		"A created task without an id should be a transport error.": {
			status: http.StatusCreated,
			body:   `{"text":"x"}`,
			call: func(c *rest.Client) error {
				_, err := c.CreateTask(context.Background(), "x")
				return err
			},
			expStatus: http.StatusCreated,
			expMsg:    "task has no id",
		},
		"A non JSON delete acknowledgement should be a transport error.": {
			status: http.StatusOK,
			body:   `ok`,
			call: func(c *rest.Client) error {
				return c.DeleteTask(context.Background(), service.NumericID(1))
			},
			expStatus: http.StatusOK,
			expMsg:    "could not decode body",
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)

			c, _ := newTestClient(t, test.status, test.body)
			err := test.call(c)

			var te *service.TransportError
			if assert.ErrorAs(err, &te) {
				assert.Equal(test.expStatus, te.StatusCode)
			}
			assert.Equal(test.expNotFound, errors.Is(err, service.ErrNotFound))
			if test.expMsg != "" {
				assert.Contains(err.Error(), test.expMsg)
			}
		})
	}
}

func TestClientUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := rest.New(rest.ClientConfig{BaseURL: url})
	require.NoError(t, err)

	_, err = c.ListTasks(context.Background())
	var te *service.TransportError
	require.ErrorAs(t, err, &te)
	assert.Zero(t, te.StatusCode)
	assert.True(t, strings.HasSuffix(te.URL, "/todos"))
}

func TestClientRequiresBaseURL(t *testing.T) {
	_, err := rest.New(rest.ClientConfig{})
	assert.Error(t, err)
}

func TestClientTimeout(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-block:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() {
		close(block)
		srv.Close()
	})

	c, err := rest.New(rest.ClientConfig{BaseURL: srv.URL, Timeout: 20 * time.Millisecond})
	require.NoError(t, err)

	_, err = c.ListTasks(context.Background())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestUpdateRequestEchoesStringID(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = io.WriteString(w, `{"id":"7","text":"x"}`)
	}))
	t.Cleanup(srv.Close)

	c, err := rest.New(rest.ClientConfig{BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = c.UpdateTask(context.Background(), service.StringID("7"), "x")
	require.NoError(t, err)
	assert.Equal(t, "7", got["id"])
}
