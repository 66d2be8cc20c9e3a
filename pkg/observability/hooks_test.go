package observability

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	d := NoopDeckHooks{}
	d.OnDispatch("navigate", "started")
	d.OnOperationComplete("navigate", time.Second)
	d.OnTimeout("fan")
	d.OnStackUpdated(4)

	s := NoopStoreHooks{}
	s.OnStoreHit(ctx, "file")
	s.OnStoreMiss(ctx, "redis")
	s.OnStoreSet(ctx, "mongo", 1024)

	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "POST", "/decks/{id}/next")
	h.OnResponse(ctx, "POST", "/decks/{id}/next", 200, time.Second)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Deck().(NoopDeckHooks); !ok {
		t.Error("Deck() should return NoopDeckHooks by default")
	}
	if _, ok := Store().(NoopStoreHooks); !ok {
		t.Error("Store() should return NoopStoreHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	custom := &testDeckHooks{}
	SetDeckHooks(custom)
	if Deck() != custom {
		t.Error("SetDeckHooks should set custom hooks")
	}

	Reset()
	if _, ok := Deck().(NoopDeckHooks); !ok {
		t.Error("Reset() should restore NoopDeckHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	defer Reset()

	custom := &testDeckHooks{}
	SetDeckHooks(custom)
	SetDeckHooks(nil)
	if Deck() != custom {
		t.Error("SetDeckHooks(nil) should not override existing hooks")
	}
	SetStoreHooks(nil)
	SetHTTPHooks(nil)
	if _, ok := Store().(NoopStoreHooks); !ok {
		t.Error("SetStoreHooks(nil) replaced the default")
	}
}

func TestPrometheusHooksExposeMetrics(t *testing.T) {
	p := NewPrometheusHooks(prometheus.NewRegistry())
	ctx := context.Background()

	p.OnDispatch("fan", "started")
	p.OnDispatch("fan", "rejected")
	p.OnOperationComplete("fan", 500*time.Millisecond)
	p.OnTimeout("navigate")
	p.OnStackUpdated(3)
	p.OnStoreHit(ctx, "file")
	p.OnStoreSet(ctx, "file", 42)
	p.OnResponse(ctx, "GET", "/decks/{id}", 200, time.Millisecond)

	rec := httptest.NewRecorder()
	p.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	out := string(body)

	for _, want := range []string{
		`stackdeck_dispatches_total{kind="fan",outcome="rejected"} 1`,
		`stackdeck_operation_timeouts_total{kind="navigate"} 1`,
		`stackdeck_last_stack_items 3`,
		`stackdeck_store_lookups_total{backend="file",result="hit"} 1`,
		`stackdeck_store_written_bytes_total{backend="file"} 42`,
		`stackdeck_http_requests_total{method="GET",route="/decks/{id}",status="200"} 1`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

type testDeckHooks struct{ NoopDeckHooks }
