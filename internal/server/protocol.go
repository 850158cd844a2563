package server

import (
	"bytes"
	"encoding/json"
	"errors"
)

// JSON-RPC 2.0 envelope for the line protocol.

// Error codes.
const (
	CodeParseError     = -32700
	CodeMethodNotFound = -32601
	CodeInternalError  = -32000
)

// Fixed error messages.
const (
	MsgParseError    = "Parse error"
	MsgInternalError = "Internal error"
)

var nullID = json.RawMessage("null")

var (
	// ErrParse marks a line that is not valid JSON.
	ErrParse = errors.New("invalid JSON")
	// ErrNotObject marks a line that is valid JSON but not a request object.
	ErrNotObject = errors.New("request is not a JSON object")
)

// Request is one decoded request line.
type Request struct {
	// ID is echoed verbatim; "null" when absent.
	ID json.RawMessage
	// Method is the method name. Non-string methods keep their JSON text.
	Method string
	// Params is the params object, empty when absent or not an object.
	Params map[string]json.RawMessage
}

// Response is one response line. Exactly one of Result and Error is set.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  any             `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
}

// RPCError is a JSON-RPC 2.0 error object.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// NewResult wraps a successful result.
func NewResult(id json.RawMessage, result any) *Response {
	return &Response{JSONRPC: "2.0", ID: orNull(id), Result: result}
}

// NewError wraps a protocol error.
func NewError(id json.RawMessage, code int, message string) *Response {
	return &Response{JSONRPC: "2.0", ID: orNull(id), Error: &RPCError{Code: code, Message: message}}
}

// DecodeRequest parses one line. It returns ErrParse for invalid JSON and
// ErrNotObject for valid JSON that is not an object.
func DecodeRequest(line []byte) (*Request, error) {
	if !json.Valid(line) {
		return nil, ErrParse
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(line, &fields); err != nil || fields == nil {
		return nil, ErrNotObject
	}

	req := &Request{
		ID:     orNull(fields["id"]),
		Method: displayValue(fields["method"]),
		Params: map[string]json.RawMessage{},
	}

	if raw, ok := fields["params"]; ok {
		var params map[string]json.RawMessage
		if err := json.Unmarshal(raw, &params); err == nil && params != nil {
			req.Params = params
		}
	}

	return req, nil
}

// stringValue returns raw as a Go string if it is a JSON string.
func stringValue(raw json.RawMessage) (string, bool) {
	var s string
	if len(raw) == 0 || raw[0] != '"' {
		return "", false
	}
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// displayValue renders a JSON value for routing and error messages: strings
// unquoted, anything else as compact JSON, absent values as null.
func displayValue(raw json.RawMessage) string {
	if s, ok := stringValue(raw); ok {
		return s
	}
	if len(raw) == 0 {
		return "null"
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}

func orNull(id json.RawMessage) json.RawMessage {
	if len(id) == 0 {
		return nullID
	}
	return id
}
