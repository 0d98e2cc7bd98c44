// Package service defines the backend-agnostic interface for task operations.
package service

// Task represents a single to-do item.
// ID is assigned by the remote side and never changes for the task lifetime.
type Task struct {
	ID   ID     `json:"id"`
	Text string `json:"text"`
}
