package googletasks_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo/internal/backend/googletasks"
	"todo/internal/service"
)

// fakeTasksAPI answers the subset of the Google Tasks API the client uses.
func fakeTasksAPI(t *testing.T, handler func(w http.ResponseWriter, r *http.Request, taskID string)) *googletasks.Client {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Paths look like /tasks/v1/lists/@default/tasks[/{task}].
		_, rest, ok := strings.Cut(r.URL.Path, "/tasks/v1/lists/")
		if !ok {
			http.NotFound(w, r)
			return
		}
		parts := strings.Split(rest, "/")
		taskID := ""
		if len(parts) > 2 {
			taskID = parts[2]
		}
		w.Header().Set("Content-Type", "application/json")
		handler(w, r, taskID)
	}))
	t.Cleanup(srv.Close)

	c, err := googletasks.NewWithHTTPClient(context.Background(), srv.Client(), srv.URL+"/")
	require.NoError(t, err)
	return c
}

func TestClientListTasks(t *testing.T) {
	c := fakeTasksAPI(t, func(w http.ResponseWriter, r *http.Request, _ string) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "false", r.URL.Query().Get("showCompleted"))
		_, _ = w.Write([]byte(`{"items":[{"id":"a","title":"buy milk"},{"id":"b","title":"walk dog"}]}`))
	})

	got, err := c.ListTasks(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []service.Task{
		{ID: service.StringID("a"), Text: "buy milk"},
		{ID: service.StringID("b"), Text: "walk dog"},
	}, got)
}

func TestClientCreateUpdateDelete(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	var calls []string
	c := fakeTasksAPI(t, func(w http.ResponseWriter, r *http.Request, taskID string) {
		calls = append(calls, r.Method+" "+taskID)

		switch r.Method {
		case http.MethodPost, http.MethodPatch:
			var body struct {
				Title string `json:"title"`
			}
			_ = json.NewDecoder(r.Body).Decode(&body)
			id := taskID
			if id == "" {
				id = "new"
			}
			_ = json.NewEncoder(w).Encode(map[string]string{"id": id, "title": body.Title})
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		}
	})

	created, err := c.CreateTask(context.Background(), "buy milk")
	require.NoError(err)
	assert.Equal(service.Task{ID: service.StringID("new"), Text: "buy milk"}, created)

	updated, err := c.UpdateTask(context.Background(), created.ID, "buy oat milk")
	require.NoError(err)
	assert.Equal(service.Task{ID: service.StringID("new"), Text: "buy oat milk"}, updated)

	require.NoError(c.DeleteTask(context.Background(), created.ID))

	assert.Equal([]string{"POST ", "PATCH new", "DELETE new"}, calls)
}

func TestClientErrors(t *testing.T) {
	tests := map[string]struct {
		status      int
		expNotFound bool
		expMsg      string
	}{
		"A 404 should be a not found transport error": {
			status:      http.StatusNotFound,
			expNotFound: true,
		},
		"A 401 should ask to login again": {
			status: http.StatusUnauthorized,
			expMsg: "run: todo login",
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			c := fakeTasksAPI(t, func(w http.ResponseWriter, r *http.Request, _ string) {
				w.WriteHeader(test.status)
				_, _ = fmt.Fprintf(w, `{"error":{"code":%d,"message":"nope"}}`, test.status)
			})

			err := c.DeleteTask(context.Background(), service.StringID("x"))
			require.Error(t, err)
			assert.True(t, service.IsTransportError(err))
			assert.Equal(t, test.expNotFound, errors.Is(err, service.ErrNotFound))
			if test.expMsg != "" {
				assert.Contains(t, err.Error(), test.expMsg)
			}
		})
	}
}
