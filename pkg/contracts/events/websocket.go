// Package events contains the WebSocket message contracts pushed to the
// report page when the session changes.
package events

import (
	"time"
)

// MessageType defines the type of WebSocket message
type MessageType string

const (
	// MessageTypeSessionUpdated follows a successful upload
	MessageTypeSessionUpdated MessageType = "session:updated"
	// MessageTypeViewUpdated follows a threshold, highlight or view change
	MessageTypeViewUpdated MessageType = "view:updated"
	// MessageTypeSessionCleared follows a discarded session
	MessageTypeSessionCleared MessageType = "session:cleared"

	MessageTypeConnect MessageType = "connect"
	MessageTypeError   MessageType = "error"
)

// BaseMessage represents the base structure for all WebSocket messages
type BaseMessage struct {
	ID        string      `json:"id,omitempty"`
	Type      MessageType `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	TraceID   string      `json:"trace_id,omitempty"`
}

// WebSocketMessage represents a complete WebSocket message
type WebSocketMessage struct {
	BaseMessage
	Data interface{} `json:"data,omitempty"`
}

// SessionSnapshot summarises the loaded session for connected pages
type SessionSnapshot struct {
	SessionID string   `json:"session_id"`
	FileName  string   `json:"file_name"`
	Records   int      `json:"records"`
	Jobs      int      `json:"jobs"`
	Dates     []string `json:"dates"`
	Warnings  int      `json:"warnings"`
}

// ViewSnapshot carries the presentation state
type ViewSnapshot struct {
	SessionID string  `json:"session_id"`
	Threshold float64 `json:"threshold"`
	Highlight bool    `json:"highlight"`
	View      string  `json:"view"`
}
