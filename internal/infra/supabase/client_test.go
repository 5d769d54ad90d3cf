package supabase_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/lojaviva/admin-api-go/internal/infra/resilience"
	"github.com/lojaviva/admin-api-go/internal/infra/supabase"

	"go.uber.org/zap"
)

func newTestClient(baseURL string, maxConcurrency int) *supabase.Client {
	cfg := resilience.Config{
		MaxRetries:     0,
		InitialBackoff: time.Millisecond,
		MaxConcurrency: maxConcurrency,
	}
	return supabase.NewClient(http.DefaultClient, baseURL, "anon-key", "service-key", "bucket",
		resilience.NewCircuitBreaker("test"), cfg, zap.NewNop())
}

func TestReadsSendAuthHeaders(t *testing.T) {
	var apikey, auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apikey = r.Header.Get("apikey")
		auth = r.Header.Get("Authorization")
		w.Write([]byte("[]"))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, 10)
	if _, err := client.ListPromotions(context.Background(), "loja-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if apikey != "anon-key" {
		t.Errorf("apikey header = %q, want anon-key", apikey)
	}
	if auth != "Bearer service-key" {
		t.Errorf("authorization header = %q, want Bearer service-key", auth)
	}
}

func TestReadsHonorConcurrencyLimit(t *testing.T) {
	var inFlight, maxSeen int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cur := atomic.AddInt32(&inFlight, 1)
		for {
			seen := atomic.LoadInt32(&maxSeen)
			if cur <= seen || atomic.CompareAndSwapInt32(&maxSeen, seen, cur) {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)
		atomic.AddInt32(&inFlight, -1)
		w.Write([]byte("[]"))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, 1)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := client.ListPromotions(context.Background(), "loja-1"); err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if got := atomic.LoadInt32(&maxSeen); got != 1 {
		t.Errorf("max concurrent reads = %d, want 1", got)
	}
}
