package models

import (
	"encoding/json"
	"fmt"
)

// Methods served by the agent
const (
	MethodPing           = "ping"
	MethodCursorDisplay  = "cursor.display"
	MethodCursorPosition = "cursor.position"
	MethodCursorMove     = "cursor.move"
	MethodInputSync      = "input.sync"
	MethodButtonPress    = "button.press"
	MethodButtonRelease  = "button.release"
	MethodTopologyGet    = "topology.get"
)

// Error codes carried in ErrorInfo
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
	CodeUnsupported    = -32000
)

// MessageEnvelope is the top-level message structure for all communications
type MessageEnvelope struct {
	Type     string    `json:"type"` // "request" or "response"
	Request  *Request  `json:"request,omitempty"`
	Response *Response `json:"response,omitempty"`
}

// Request represents an RPC request
type Request struct {
	ID     string                 `json:"id"`
	Method string                 `json:"method"`
	Params map[string]interface{} `json:"params"`
}

// Response represents an RPC response
type Response struct {
	ID     string                 `json:"id"`
	Result map[string]interface{} `json:"result,omitempty"`
	Error  *ErrorInfo             `json:"error,omitempty"`
}

// ErrorInfo represents an error in a response
type ErrorInfo struct {
	Code    int                    `json:"code"`
	Message string                 `json:"message"`
	Data    map[string]interface{} `json:"data,omitempty"`
}

// Error implements error so callers can inspect the code with errors.As
func (e *ErrorInfo) Error() string {
	return fmt.Sprintf("agent error %d: %s", e.Code, e.Message)
}

// NewRequest creates a new request envelope
func NewRequest(id, method string, params map[string]interface{}) *MessageEnvelope {
	return &MessageEnvelope{
		Type: "request",
		Request: &Request{
			ID:     id,
			Method: method,
			Params: params,
		},
	}
}

// NewResponse creates a successful response envelope
func NewResponse(id string, result map[string]interface{}) *MessageEnvelope {
	if result == nil {
		result = map[string]interface{}{}
	}
	return &MessageEnvelope{
		Type: "response",
		Response: &Response{
			ID:     id,
			Result: result,
		},
	}
}

// NewErrorResponse creates a failed response envelope
func NewErrorResponse(id string, code int, message string) *MessageEnvelope {
	return &MessageEnvelope{
		Type: "response",
		Response: &Response{
			ID:    id,
			Error: &ErrorInfo{Code: code, Message: message},
		},
	}
}

// MarshalLine encodes the envelope followed by the newline delimiter
func (m *MessageEnvelope) MarshalLine() ([]byte, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal envelope: %w", err)
	}
	return append(data, '\n'), nil
}

// ParseEnvelope decodes a single newline-delimited message
func ParseEnvelope(line []byte) (*MessageEnvelope, error) {
	var env MessageEnvelope
	if err := json.Unmarshal(line, &env); err != nil {
		return nil, fmt.Errorf("failed to unmarshal envelope: %w", err)
	}
	switch env.Type {
	case "request":
		if env.Request == nil {
			return nil, fmt.Errorf("request envelope has nil request")
		}
	case "response":
		if env.Response == nil {
			return nil, fmt.Errorf("response envelope has nil response")
		}
	default:
		return nil, fmt.Errorf("unknown envelope type %q", env.Type)
	}
	return &env, nil
}

// IsError returns true if the response contains an error
func (r *Response) IsError() bool {
	return r.Error != nil
}

// GetError returns the error message if present
func (r *Response) GetError() string {
	if r.Error != nil {
		return r.Error.Message
	}
	return ""
}

// Err returns the response error, or nil on success
func (r *Response) Err() error {
	if r.Error == nil {
		return nil
	}
	return r.Error
}
