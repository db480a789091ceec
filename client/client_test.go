package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/initializ/untis/jsonrpc"
)

func TestNormalizeServer(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"mese.webuntis.com", "https://mese.webuntis.com"},
		{"https://mese.webuntis.com/", "https://mese.webuntis.com"},
		{"http://localhost:8080", "http://localhost:8080"},
		{"  nessa.webuntis.com  ", "https://nessa.webuntis.com"},
	}
	for _, tt := range tests {
		if got := NormalizeServer(tt.in); got != tt.want {
			t.Errorf("NormalizeServer(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestClientURL(t *testing.T) {
	c := New(Config{Server: "mese.webuntis.com", School: "Demo School"})
	want := "https://mese.webuntis.com/WebUntis/jsonrpc.do?school=Demo+School"
	if c.URL() != want {
		t.Errorf("URL: got %q, want %q", c.URL(), want)
	}
}

func TestCall_HeadersAndBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method: got %q", r.Method)
		}
		if r.URL.Path != Endpoint {
			t.Errorf("path: got %q", r.URL.Path)
		}
		if r.URL.Query().Get("school") != "demo" {
			t.Errorf("school query: got %q", r.URL.Query().Get("school"))
		}
		if got := r.Header.Get("Content-Type"); got != "application/json;charset=UTF-8" {
			t.Errorf("content-type: got %q", got)
		}
		if got := r.Header.Get("User-Agent"); got != "untis-test" {
			t.Errorf("user-agent: got %q", got)
		}
		if got := r.Header.Get("Cookie"); got != "JSESSIONID=abc123; schoolname=demo" {
			t.Errorf("cookie: got %q", got)
		}

		body, _ := io.ReadAll(r.Body)
		var req jsonrpc.Request
		if err := json.Unmarshal(body, &req); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		if req.Method != "getRooms" || req.JSONRPC != "2.0" {
			t.Errorf("request: %+v", req)
		}
		w.Write([]byte(`{"jsonrpc":"2.0","id":"` + req.ID + `","result":[]}`)) //nolint:errcheck
	}))
	defer ts.Close()

	c := New(Config{Server: ts.URL, School: "demo", UserAgent: "untis-test"})
	resp, err := c.Call(context.Background(), "abc123", "getRooms", nil)
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if string(resp.Result) != "[]" {
		t.Errorf("result: got %s", resp.Result)
	}
}

func TestCall_NoCookieWithoutSession(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Cookie"); got != "" {
			t.Errorf("cookie should be empty, got %q", got)
		}
		w.Write([]byte(`{"jsonrpc":"2.0","id":"1","result":{}}`)) //nolint:errcheck
	}))
	defer ts.Close()

	c := New(Config{Server: ts.URL, School: "demo"})
	if _, err := c.Call(context.Background(), "", "authenticate", map[string]string{"user": "u"}); err != nil {
		t.Fatalf("Call: %v", err)
	}
}

func TestCall_RPCError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"jsonrpc":"2.0","id":"1","error":{"code":-8509,"message":"no right for getStatusData"}}`)) //nolint:errcheck
	}))
	defer ts.Close()

	c := New(Config{Server: ts.URL, School: "demo"})
	_, err := c.Call(context.Background(), "s", "getStatusData", nil)
	if !jsonrpc.IsCode(err, jsonrpc.ErrCodeNoRight) {
		t.Fatalf("expected no-right error, got %v", err)
	}
	if !strings.HasPrefix(err.Error(), "getStatusData:") {
		t.Errorf("error should name the method: %v", err)
	}
}

func TestCall_HTTPErrorWithoutJSON(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream down")) //nolint:errcheck
	}))
	defer ts.Close()

	c := New(Config{Server: ts.URL, School: "demo"})
	_, err := c.Call(context.Background(), "s", "getRooms", nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "status 502") || !strings.Contains(err.Error(), "upstream down") {
		t.Errorf("error: %v", err)
	}
}

func TestCall_HTTPErrorWithRPCBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"jsonrpc":"2.0","id":"1","error":{"code":-8520,"message":"not authenticated"}}`)) //nolint:errcheck
	}))
	defer ts.Close()

	c := New(Config{Server: ts.URL, School: "demo"})
	_, err := c.Call(context.Background(), "s", "getRooms", nil)
	if !jsonrpc.IsCode(err, jsonrpc.ErrCodeNotAuthenticated) {
		t.Fatalf("expected not-authenticated error, got %v", err)
	}
}

func TestCall_MalformedBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>maintenance</html>")) //nolint:errcheck
	}))
	defer ts.Close()

	c := New(Config{Server: ts.URL, School: "demo"})
	_, err := c.Call(context.Background(), "s", "getRooms", nil)
	if !errors.Is(err, jsonrpc.ErrMalformedResponse) {
		t.Fatalf("expected ErrMalformedResponse, got %v", err)
	}
}

func TestCall_ContextCanceled(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"jsonrpc":"2.0","id":"1","result":[]}`)) //nolint:errcheck
	}))
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := New(Config{Server: ts.URL, School: "demo"})
	if _, err := c.Call(ctx, "s", "getRooms", nil); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
