package service_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"todo/internal/service"
)

func TestTransportError(t *testing.T) {
	tests := map[string]struct {
		err         *service.TransportError
		expMsg      string
		expNotFound bool
	}{
		"A not ok status should be reported": {
			err:    &service.TransportError{Op: "list", Method: http.MethodGet, URL: "http://x/todos", StatusCode: 500},
			expMsg: "list: GET http://x/todos: response was not ok: 500 Internal Server Error",
		},
		"A 404 should match not found": {
			err:         &service.TransportError{Op: "update", Method: http.MethodPut, URL: "http://x/todos/1", StatusCode: 404},
			expMsg:      "update: PUT http://x/todos/1: response was not ok: 404 Not Found",
			expNotFound: true,
		},
		"A body excerpt should be included": {
			err:    &service.TransportError{Op: "create", Method: http.MethodPost, URL: "http://x/todos", StatusCode: 400, Body: "text required"},
			expMsg: "create: POST http://x/todos: response was not ok: 400 Bad Request: text required",
		},
		"A network error should be reported without status": {
			err:    &service.TransportError{Op: "delete", Method: http.MethodDelete, URL: "http://x/todos/1", Err: fmt.Errorf("connection refused")},
			expMsg: "delete: DELETE http://x/todos/1: connection refused",
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)

			wrapped := fmt.Errorf("could not do it: %w", test.err)
			assert.Equal(test.expMsg, test.err.Error())
			assert.Equal(test.expNotFound, errors.Is(wrapped, service.ErrNotFound))
			assert.True(service.IsTransportError(wrapped))
		})
	}
}
