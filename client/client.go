// Package client implements the HTTP transport for the WebUntis JSON-RPC
// endpoint together with the response cache used by sessions.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/initializ/untis/jsonrpc"
	"github.com/initializ/untis/logging"
)

// Endpoint is the JSON-RPC path below the server address.
const Endpoint = "/WebUntis/jsonrpc.do"

// maxBodyBytes bounds how much of a response body is read.
const maxBodyBytes = 16 << 20

const defaultTimeout = 30 * time.Second

// Config holds configuration for creating a Client.
type Config struct {
	Server     string
	School     string
	UserAgent  string
	HTTPClient *http.Client
	Timeout    time.Duration
	Logger     logging.Logger
}

// Client posts JSON-RPC requests to one school on one WebUntis server. It
// is safe for concurrent use.
type Client struct {
	server    string
	school    string
	userAgent string
	url       string
	client    *http.Client
	logger    logging.Logger
}

// NormalizeServer prefixes a bare host with https:// and drops trailing
// slashes.
func NormalizeServer(server string) string {
	server = strings.TrimSpace(server)
	if !strings.HasPrefix(server, "http://") && !strings.HasPrefix(server, "https://") {
		server = "https://" + server
	}
	return strings.TrimRight(server, "/")
}

// New creates a new Client.
func New(cfg Config) *Client {
	server := NormalizeServer(cfg.Server)
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		server:    server,
		school:    cfg.School,
		userAgent: cfg.UserAgent,
		url:       server + Endpoint + "?school=" + url.QueryEscape(cfg.School),
		client:    httpClient,
		logger:    logging.OrNop(cfg.Logger),
	}
}

// URL returns the endpoint URL built from server and school.
func (c *Client) URL() string { return c.url }

// Server returns the normalized server address.
func (c *Client) Server() string { return c.server }

// School returns the school name.
func (c *Client) School() string { return c.school }

// Call sends one JSON-RPC request. sessionID may be empty for calls that do
// not need authentication. A JSON-RPC error member is returned as a
// *jsonrpc.Error.
func (c *Client) Call(ctx context.Context, sessionID, method string, params any) (*jsonrpc.Response, error) {
	data, err := json.Marshal(jsonrpc.NewRequest(method, params))
	if err != nil {
		return nil, fmt.Errorf("marshalling %s request: %w", method, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	c.setHeaders(httpReq, sessionID)

	start := time.Now()
	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("untis %s request: %w", method, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("reading %s response: %w", method, err)
	}

	c.logger.Debug("untis call", map[string]any{
		"method":      method,
		"status":      resp.StatusCode,
		"duration_ms": time.Since(start).Milliseconds(),
	})

	rpcResp, err := jsonrpc.ParseResponse(body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if rpcResp != nil && rpcResp.Error != nil {
			return nil, fmt.Errorf("%s: %w", method, rpcResp.Error)
		}
		return nil, fmt.Errorf("untis request failed (status %d): %s", resp.StatusCode, strings.TrimSpace(string(truncate(body))))
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", method, err)
	}
	return rpcResp, nil
}

func (c *Client) setHeaders(req *http.Request, sessionID string) {
	req.Header.Set("Content-Type", "application/json;charset=UTF-8")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if sessionID != "" {
		req.Header.Set("Cookie", "JSESSIONID="+sessionID+"; schoolname="+c.school)
	}
}

func truncate(body []byte) []byte {
	if len(body) > 512 {
		return body[:512]
	}
	return body
}
