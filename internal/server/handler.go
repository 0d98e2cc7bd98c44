// Package server serves a json-server compatible /todos collection for local
// development and integration tests.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"todo/internal/log"
	"todo/internal/storage"
)

type todoRequest struct {
	Text string `json:"text"`
}

type todoResponse struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// HandlerConfig is the configuration of the HTTP handler.
type HandlerConfig struct {
	Repository storage.Repository
	Logger     log.Logger
}

func (c *HandlerConfig) defaults() error {
	if c.Repository == nil {
		return fmt.Errorf("repository is required")
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "server.Handler"})
	return nil
}

type handler struct {
	repo   storage.Repository
	logger log.Logger
}

// NewHandler returns the router of the /todos collection.
func NewHandler(cfg HandlerConfig) (http.Handler, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	h := &handler{repo: cfg.Repository, logger: cfg.Logger}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /todos", h.list)
	mux.HandleFunc("POST /todos", h.create)
	mux.HandleFunc("GET /todos/{id}", h.get)
	mux.HandleFunc("PUT /todos/{id}", h.update)
	mux.HandleFunc("DELETE /todos/{id}", h.delete)

	return mux, nil
}

// GET /todos
func (h *handler) list(w http.ResponseWriter, r *http.Request) {
	todos, err := h.repo.ListTodos(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}

	resp := make([]todoResponse, 0, len(todos))
	for _, t := range todos {
		resp = append(resp, toResponse(t))
	}
	writeJSON(w, http.StatusOK, resp)
}

// GET /todos/{id}
func (h *handler) get(w http.ResponseWriter, r *http.Request) {
	todo, err := h.repo.GetTodo(r.Context(), r.PathValue("id"))
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toResponse(*todo))
}

// POST /todos
func (h *handler) create(w http.ResponseWriter, r *http.Request) {
	text, err := decodeText(r)
	if err != nil {
		h.fail(w, err)
		return
	}

	todo, err := h.repo.CreateTodo(r.Context(), text)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toResponse(*todo))
}

// PUT /todos/{id}
// An id in the body is ignored; the path decides which todo is replaced.
func (h *handler) update(w http.ResponseWriter, r *http.Request) {
	text, err := decodeText(r)
	if err != nil {
		h.fail(w, err)
		return
	}

	todo, err := h.repo.UpdateTodo(r.Context(), r.PathValue("id"), text)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toResponse(*todo))
}

// DELETE /todos/{id}
func (h *handler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.repo.DeleteTodo(r.Context(), r.PathValue("id")); err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct{}{})
}

func (h *handler) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, storage.ErrNotValid):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, storage.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		h.logger.Errorf("request failed: %s", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func decodeText(r *http.Request) (string, error) {
	var req todoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return "", fmt.Errorf("invalid body: %s: %w", err, storage.ErrNotValid)
	}
	if strings.TrimSpace(req.Text) == "" {
		return "", fmt.Errorf("text is required: %w", storage.ErrNotValid)
	}
	return req.Text, nil
}

func toResponse(t storage.Todo) todoResponse {
	return todoResponse{ID: t.ID, Text: t.Text}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
