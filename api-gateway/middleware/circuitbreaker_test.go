package middleware

import (
	"testing"
	"time"

	"github.com/sellhub/pos-backend/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Init("middleware-test", false)
	m.Run()
}

func TestBreakerOpensAfterThreshold(t *testing.T) {
	cb := newCircuitBreaker("sales", breakerSettings{maxFailures: 3, cooldown: time.Minute, probeQuota: 1})

	for i := 0; i < 2; i++ {
		cb.Observe(true)
	}
	if got := cb.GetState(); got != StateClosed {
		t.Fatalf("state after 2 failures = %s, want closed", got)
	}

	cb.Observe(true)
	if got := cb.GetState(); got != StateOpen {
		t.Fatalf("state after 3 failures = %s, want open", got)
	}

	ok, retryIn := cb.Allow()
	if ok {
		t.Fatal("open breaker allowed a request")
	}
	if retryIn <= 0 {
		t.Fatalf("retryIn = %v, want positive", retryIn)
	}
}

func TestBreakerSuccessResetsFailureCount(t *testing.T) {
	cb := newCircuitBreaker("sales", breakerSettings{maxFailures: 2, cooldown: time.Minute, probeQuota: 1})

	cb.Observe(true)
	cb.Observe(false)
	cb.Observe(true)

	if got := cb.GetState(); got != StateClosed {
		t.Fatalf("state = %s, want closed after non-consecutive failures", got)
	}
}

func TestBreakerProbesAfterCooldown(t *testing.T) {
	cb := newCircuitBreaker("reports", breakerSettings{maxFailures: 1, cooldown: 10 * time.Millisecond, probeQuota: 2})

	cb.Observe(true)
	if got := cb.GetState(); got != StateOpen {
		t.Fatalf("state = %s, want open", got)
	}

	time.Sleep(20 * time.Millisecond)

	ok, _ := cb.Allow()
	if !ok {
		t.Fatal("breaker did not allow a probe after cooldown")
	}
	if got := cb.GetState(); got != StateHalfOpen {
		t.Fatalf("state = %s, want half-open", got)
	}

	cb.Observe(false)
	if got := cb.GetState(); got != StateHalfOpen {
		t.Fatalf("state = %s, want half-open until probe quota met", got)
	}

	cb.Observe(false)
	if got := cb.GetState(); got != StateClosed {
		t.Fatalf("state = %s, want closed after %d good probes", got, 2)
	}
}

func TestBreakerReopensOnProbeFailure(t *testing.T) {
	cb := newCircuitBreaker("reports", breakerSettings{maxFailures: 1, cooldown: 10 * time.Millisecond, probeQuota: 1})

	cb.Observe(true)
	time.Sleep(20 * time.Millisecond)
	if ok, _ := cb.Allow(); !ok {
		t.Fatal("breaker did not allow a probe after cooldown")
	}

	cb.Observe(true)
	if got := cb.GetState(); got != StateOpen {
		t.Fatalf("state = %s, want open after failed probe", got)
	}
}

func TestRouteClass(t *testing.T) {
	cases := []struct {
		path string
		want string
	}{
		{"/api/pos/sell", "sales"},
		{"/api/invoices", "sales"},
		{"/auth/login", "sales"},
		{"/api/pos/reports/daily", "reports"},
		{"/api/admin/dashboard", "reports"},
		{"/health", ""},
		{"/metrics", ""},
	}
	for _, tc := range cases {
		if got := routeClass(tc.path); got != tc.want {
			t.Errorf("routeClass(%q) = %q, want %q", tc.path, got, tc.want)
		}
	}
}
