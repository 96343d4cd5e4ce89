package integrations

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kustodian/sunburst/pkg/cache"
	"github.com/kustodian/sunburst/pkg/httputil"
)

func TestNewClient(t *testing.T) {
	c, _ := cache.NewFileCache(t.TempDir())
	defer c.Close()

	headers := map[string]string{"User-Agent": "sunburst-test"}
	client := NewClient(c, "test:", time.Hour, headers)

	if client.http == nil {
		t.Error("NewClient() http client is nil")
	}
	if client.cache != c {
		t.Error("NewClient() cache not set correctly")
	}
	if client.headers["User-Agent"] != "sunburst-test" {
		t.Error("NewClient() headers not set correctly")
	}
}

func TestNewClientNilCache(t *testing.T) {
	client := NewClient(nil, "test:", time.Hour, nil)
	if _, ok := client.cache.(cache.NullCache); !ok {
		t.Errorf("nil cache should become NullCache, got %T", client.cache)
	}
}

func TestClientGet(t *testing.T) {
	type response struct {
		Message string `json:"message"`
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		if r.Header.Get("Accept") != "application/json" {
			t.Errorf("Accept = %q", r.Header.Get("Accept"))
		}
		json.NewEncoder(w).Encode(response{Message: "hello"})
	}))
	defer server.Close()

	client := NewClient(nil, "test:", time.Hour, nil)
	client.SetHTTPClient(server.Client())

	var resp response
	if err := client.Get(context.Background(), server.URL, &resp); err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if resp.Message != "hello" {
		t.Errorf("Get() message = %q, want %q", resp.Message, "hello")
	}
}

func TestClientGetWithHeadersOverridesDefaults(t *testing.T) {
	var received string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		received = r.Header.Get("X-Override")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}))
	defer server.Close()

	client := NewClient(nil, "test:", time.Hour, map[string]string{"X-Override": "default"})
	client.SetHTTPClient(server.Client())

	var resp map[string]string
	err := client.GetWithHeaders(context.Background(), server.URL, map[string]string{"X-Override": "overridden"}, &resp)
	if err != nil {
		t.Fatalf("GetWithHeaders() error: %v", err)
	}
	if received != "overridden" {
		t.Errorf("header = %q, want %q", received, "overridden")
	}
}

func TestClientSetHeader(t *testing.T) {
	var ua string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ua = r.Header.Get("User-Agent")
		json.NewEncoder(w).Encode(map[string]string{})
	}))
	defer server.Close()

	client := NewClient(nil, "test:", time.Hour, nil)
	client.SetHTTPClient(server.Client())
	client.SetHeader("User-Agent", "lab-dashboard/1.0")

	var resp map[string]string
	if err := client.Get(context.Background(), server.URL, &resp); err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if ua != "lab-dashboard/1.0" {
		t.Errorf("User-Agent = %q", ua)
	}
}

func TestClientGetDecodeError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>"))
	}))
	defer server.Close()

	client := NewClient(nil, "test:", time.Hour, nil)
	client.SetHTTPClient(server.Client())

	var v map[string]any
	if err := client.Get(context.Background(), server.URL, &v); err == nil {
		t.Error("expected decode error")
	}
}

func TestClientGetNotFound(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	client := NewClient(nil, "test:", time.Hour, nil)
	client.SetHTTPClient(server.Client())

	var v map[string]any
	if err := client.Get(context.Background(), server.URL, &v); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestClientCached(t *testing.T) {
	c, _ := cache.NewFileCache(t.TempDir())
	client := NewClient(c, "test:", time.Hour, nil)
	ctx := context.Background()

	var fetches int
	fetch := func(v *string) func() error {
		return func() error {
			fetches++
			*v = "fresh"
			return nil
		}
	}

	var first string
	if err := client.Cached(ctx, "k", false, &first, fetch(&first)); err != nil {
		t.Fatal(err)
	}
	var second string
	if err := client.Cached(ctx, "k", false, &second, fetch(&second)); err != nil {
		t.Fatal(err)
	}
	if fetches != 1 || second != "fresh" {
		t.Errorf("fetches = %d, second = %q; want 1 fetch and cached value", fetches, second)
	}

	var third string
	if err := client.Cached(ctx, "k", true, &third, fetch(&third)); err != nil {
		t.Fatal(err)
	}
	if fetches != 2 {
		t.Errorf("refresh should bypass the cache, fetches = %d", fetches)
	}

	data, ok, _ := c.Get(ctx, "test:k")
	if !ok || string(data) != `"fresh"` {
		t.Errorf("cache entry = %q, %v; want namespaced JSON", data, ok)
	}
}

func TestClientCachedFetchError(t *testing.T) {
	client := NewClient(nil, "test:", time.Hour, nil)

	var value string
	var calls int
	err := client.Cached(context.Background(), "missing", false, &value, func() error {
		calls++
		return ErrNotFound
	})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
	if calls != 1 {
		t.Errorf("non-retryable errors should not be retried, calls = %d", calls)
	}
}

func TestClientRetriesServerErrors(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		json.NewEncoder(w).Encode(map[string]int{"n": 1})
	}))
	defer server.Close()

	client := NewClient(nil, "test:", time.Hour, nil)
	client.SetHTTPClient(server.Client())

	var v map[string]int
	err := client.Cached(context.Background(), "k", false, &v, func() error {
		return client.Get(context.Background(), server.URL, &v)
	})
	if err != nil {
		t.Fatalf("Cached() error: %v", err)
	}
	if hits.Load() != 2 || v["n"] != 1 {
		t.Errorf("hits = %d, v = %v", hits.Load(), v)
	}
}

func TestCheckStatus(t *testing.T) {
	tests := []struct {
		name       string
		code       int
		wantErr    bool
		wantType   error
		isRetryErr bool
	}{
		{name: "200 OK", code: 200},
		{name: "204 No Content", code: 204},
		{name: "404 Not Found", code: 404, wantErr: true, wantType: ErrNotFound},
		{name: "500 Internal Server Error", code: 500, wantErr: true, wantType: ErrNetwork, isRetryErr: true},
		{name: "503 Service Unavailable", code: 503, wantErr: true, wantType: ErrNetwork, isRetryErr: true},
		{name: "400 Bad Request", code: 400, wantErr: true, wantType: ErrNetwork},
		{name: "403 Forbidden", code: 403, wantErr: true, wantType: ErrNetwork},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkStatus(tt.code)
			if !tt.wantErr {
				if err != nil {
					t.Errorf("checkStatus() unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("checkStatus() should return error")
			}
			if tt.wantType != nil && !errors.Is(err, tt.wantType) {
				t.Errorf("checkStatus() error = %v, want %v", err, tt.wantType)
			}
			if got := httputil.IsRetryable(err); got != tt.isRetryErr {
				t.Errorf("IsRetryable = %v, want %v", got, tt.isRetryErr)
			}
		})
	}
}

func TestJoinURL(t *testing.T) {
	tests := []struct {
		base string
		segs []string
		want string
	}{
		{"https://demo.kustodian.org/api", []string{"item", "7"}, "https://demo.kustodian.org/api/item/7"},
		{"https://demo.kustodian.org/api/", []string{"/report/", "sunburst", "42"}, "https://demo.kustodian.org/api/report/sunburst/42"},
		{"http://localhost:8080", nil, "http://localhost:8080"},
		{"http://x", []string{"", "a"}, "http://x/a"},
	}
	for _, tt := range tests {
		if got := JoinURL(tt.base, tt.segs...); got != tt.want {
			t.Errorf("JoinURL(%q, %v) = %q, want %q", tt.base, tt.segs, got, tt.want)
		}
	}
}
