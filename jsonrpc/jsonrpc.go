// Package jsonrpc holds the JSON-RPC 2.0 wire types spoken by WebUntis.
package jsonrpc

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Version is the protocol version sent with every request.
const Version = "2.0"

// JSON-RPC 2.0 error codes.
const (
	ErrCodeParseError     = -32700
	ErrCodeInvalidRequest = -32600
	ErrCodeMethodNotFound = -32601
	ErrCodeInvalidParams  = -32602
	ErrCodeInternal       = -32603
)

// WebUntis specific error codes.
const (
	ErrCodeInvalidSchool    = -8500
	ErrCodeBadCredentials   = -8504
	ErrCodeNoRight          = -8509
	ErrCodeNotAuthenticated = -8520
)

// ErrMalformedResponse is returned when the server answers with something
// that is not a JSON-RPC document.
var ErrMalformedResponse = errors.New("malformed json-rpc response")

// maxExcerpt bounds how much of an unparseable body ends up in an error.
const maxExcerpt = 256

// Request is an outgoing JSON-RPC 2.0 request.
type Request struct {
	JSONRPC string `json:"jsonrpc"`
	ID      string `json:"id"`
	Method  string `json:"method"`
	Params  any    `json:"params"`
}

// Response is an incoming JSON-RPC 2.0 response.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      any             `json:"id,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
}

// Error carries error information in a JSON-RPC response.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("untis error %d: %s", e.Code, e.Message)
}

// IsCode reports whether err is a JSON-RPC error with the given code.
func IsCode(err error, code int) bool {
	var rpcErr *Error
	return errors.As(err, &rpcErr) && rpcErr.Code == code
}

// NewRequest creates a request with a fresh id. Nil params are sent as an
// empty object because WebUntis rejects a missing params member.
func NewRequest(method string, params any) *Request {
	if params == nil {
		params = map[string]any{}
	}
	return &Request{
		JSONRPC: Version,
		ID:      uuid.NewString(),
		Method:  method,
		Params:  params,
	}
}

// ParseResponse decodes a response body. A response carrying an error
// member is returned together with that error.
func ParseResponse(body []byte) (*Response, error) {
	var resp Response
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedResponse, excerpt(body))
	}
	if resp.Error != nil {
		return &resp, resp.Error
	}
	return &resp, nil
}

// Decode unmarshals the result member into v.
func (r *Response) Decode(v any) error {
	if len(r.Result) == 0 {
		return fmt.Errorf("%w: empty result", ErrMalformedResponse)
	}
	if err := json.Unmarshal(r.Result, v); err != nil {
		return fmt.Errorf("decoding result: %w", err)
	}
	return nil
}

// IsNull reports whether the result is absent or JSON null.
func (r *Response) IsNull() bool {
	trimmed := bytes.TrimSpace(r.Result)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// CacheKey returns a key identifying a method call. encoding/json sorts map
// keys, so equal params always produce equal keys.
func CacheKey(method string, params any) (string, error) {
	if params == nil {
		params = map[string]any{}
	}
	data, err := json.Marshal(params)
	if err != nil {
		return "", fmt.Errorf("encoding params for %s: %w", method, err)
	}
	return method + ":" + string(data), nil
}

func excerpt(body []byte) string {
	body = bytes.TrimSpace(body)
	if len(body) > maxExcerpt {
		return string(body[:maxExcerpt]) + "..."
	}
	return string(body)
}
