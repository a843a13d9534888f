package domain

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// StatusComplete is the only status value this service ever writes.
const StatusComplete = "complete"

// TaskFields is the client-owned part of a task document. Apart from the
// few keys checked by Validate, its contents are opaque to the service.
type TaskFields map[string]any

// Task is a stored task document: its storage-assigned identifier plus the
// fields the client sent.
type Task struct {
	ID     string
	Fields TaskFields
}

// MarshalJSON flattens the task so clients see the same document they
// posted, with "_id" added.
func (t Task) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(t.Fields)+1)
	for k, v := range t.Fields {
		out[k] = v
	}
	out["_id"] = t.ID
	return json.Marshal(out)
}

// Validate enforces the shape contract for task bodies before they reach
// storage.
func (f TaskFields) Validate() error {
	if len(f) == 0 {
		return NewValidationError(FieldError{Field: "body", Message: "task must be a non-empty JSON object"})
	}

	var errs []FieldError
	for k, v := range f {
		switch {
		case k == "":
			errs = append(errs, FieldError{Field: k, Message: "field names must not be empty"})
		case k == "_id":
			errs = append(errs, FieldError{Field: k, Message: "_id is assigned by the server"})
		case strings.HasPrefix(k, "$"):
			errs = append(errs, FieldError{Field: k, Message: fmt.Sprintf("%s must not start with '$'", k)})
		case strings.Contains(k, "."):
			errs = append(errs, FieldError{Field: k, Message: fmt.Sprintf("%s must not contain '.'", k)})
		case k == "title" || k == "status":
			if _, ok := v.(string); !ok {
				errs = append(errs, FieldError{Field: k, Message: k + " must be a string"})
			}
		}
	}
	if len(errs) > 0 {
		return NewValidationError(errs...)
	}
	return nil
}

// InsertResult mirrors the acknowledgement returned by the document store
// after an insert.
type InsertResult struct {
	Acknowledged bool   `json:"acknowledged"`
	InsertedID   string `json:"insertedId"`
}

// TaskAction names a mutation recorded in a task's activity trail.
type TaskAction string

const (
	ActionCreated   TaskAction = "created"
	ActionDeleted   TaskAction = "deleted"
	ActionCompleted TaskAction = "completed"
)

// TaskActivity is one entry of a task's audit trail.
type TaskActivity struct {
	TaskID string     `json:"task_id"`
	Action TaskAction `json:"action"`
	Actor  string     `json:"actor,omitempty"`
	At     time.Time  `json:"at"`
}

// ValidTaskID reports whether id has the 24-character hex form of a
// storage-assigned identifier.
func ValidTaskID(id string) bool {
	if len(id) != 24 {
		return false
	}
	_, err := hex.DecodeString(id)
	return err == nil
}
