package observability

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	// Pipeline hooks
	p := NoopPipelineHooks{}
	p.OnLoadStart(ctx, "api:42")
	p.OnLoadComplete(ctx, "api:42", 100, time.Second, nil)
	p.OnRenderStart(ctx, "sunburst", []string{"svg"})
	p.OnRenderComplete(ctx, "sunburst", []string{"svg"}, time.Second, nil)

	// Navigation hooks
	n := NoopNavigationHooks{}
	n.OnActivate(ctx, 2, true)
	n.OnLookup(ctx, 7, time.Millisecond, true, errors.New("boom"))

	// Cache hooks
	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "tree")
	c.OnCacheMiss(ctx, "artifact")
	c.OnCacheSet(ctx, "artifact", 1024)

	// HTTP hooks
	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "GET", "demo.kustodian.org", "/api/report/sunburst/42")
	h.OnResponse(ctx, "GET", "demo.kustodian.org", "/api/report/sunburst/42", 200, time.Second)
	h.OnError(ctx, "GET", "demo.kustodian.org", "/api/item/7", nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	// Reset to known state
	Reset()

	// Verify defaults are noop
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Pipeline() should return NoopPipelineHooks by default")
	}
	if _, ok := Navigation().(NoopNavigationHooks); !ok {
		t.Error("Navigation() should return NoopNavigationHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	// Set custom hooks
	customPipeline := &testPipelineHooks{}
	SetPipelineHooks(customPipeline)
	if Pipeline() != customPipeline {
		t.Error("SetPipelineHooks should set custom hooks")
	}

	customNav := &testNavigationHooks{}
	SetNavigationHooks(customNav)
	if Navigation() != customNav {
		t.Error("SetNavigationHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	// Reset and verify
	Reset()
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Reset() should restore NoopPipelineHooks")
	}
	if _, ok := Navigation().(NoopNavigationHooks); !ok {
		t.Error("Reset() should restore NoopNavigationHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testNavigationHooks{}
	SetNavigationHooks(custom)

	// Setting nil should be ignored
	SetNavigationHooks(nil)

	if Navigation() != custom {
		t.Error("SetNavigationHooks(nil) should be ignored")
	}

	Reset()
}

// Test implementations
type testPipelineHooks struct{ NoopPipelineHooks }
type testNavigationHooks struct{ NoopNavigationHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testHTTPHooks struct{ NoopHTTPHooks }
