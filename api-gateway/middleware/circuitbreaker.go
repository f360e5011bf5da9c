package middleware

import (
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/sellhub/pos-backend/pkg/logger"
)

// CircuitState is the current mode of a breaker.
type CircuitState string

const (
	StateClosed   CircuitState = "closed"
	StateOpen     CircuitState = "open"
	StateHalfOpen CircuitState = "half-open"
)

// Route classes get independent breakers. A slow reporting query must not
// take card sales down with it.
const (
	classSales   = "sales"
	classReports = "reports"
)

type breakerSettings struct {
	maxFailures int
	cooldown    time.Duration
	probeQuota  int
}

var classSettings = map[string]breakerSettings{
	// Reports run heavy aggregate queries, so they trip early and probe
	// with a single request before reopening the class.
	classReports: {maxFailures: 3, cooldown: 20 * time.Second, probeQuota: 1},
	classSales:   {maxFailures: 5, cooldown: 30 * time.Second, probeQuota: 3},
}

// CircuitBreaker counts consecutive downstream failures for one route class.
type CircuitBreaker struct {
	class    string
	settings breakerSettings

	mu          sync.Mutex
	state       CircuitState
	failures    int
	probes      int
	openedAt    time.Time
	lastFailure time.Time
}

func newCircuitBreaker(class string, settings breakerSettings) *CircuitBreaker {
	return &CircuitBreaker{
		class:    class,
		settings: settings,
		state:    StateClosed,
	}
}

// Allow reports whether a request may pass. An open breaker moves to
// half-open once its cooldown elapsed; while still cooling down the
// remaining wait is returned for the Retry-After header.
func (cb *CircuitBreaker) Allow() (bool, time.Duration) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state != StateOpen {
		return true, 0
	}

	remaining := cb.settings.cooldown - time.Since(cb.openedAt)
	if remaining > 0 {
		return false, remaining
	}

	cb.state = StateHalfOpen
	cb.probes = 0
	logger.Logger.Info().
		Str("class", cb.class).
		Msg("Circuit breaker half-open, probing backend")
	return true, 0
}

// Observe records the outcome of a proxied request.
func (cb *CircuitBreaker) Observe(failed bool) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if failed {
		cb.lastFailure = time.Now()
		if cb.state == StateHalfOpen {
			cb.trip("probe failed")
			return
		}
		cb.failures++
		if cb.failures >= cb.settings.maxFailures {
			cb.trip("failure threshold reached")
		}
		return
	}

	switch cb.state {
	case StateHalfOpen:
		cb.probes++
		if cb.probes >= cb.settings.probeQuota {
			cb.state = StateClosed
			cb.failures = 0
			logger.Logger.Info().
				Str("class", cb.class).
				Msg("Circuit breaker closed, backend recovered")
		}
	case StateClosed:
		cb.failures = 0
	}
}

// trip is called with cb.mu held.
func (cb *CircuitBreaker) trip(reason string) {
	cb.state = StateOpen
	cb.openedAt = time.Now()
	logger.Logger.Warn().
		Str("class", cb.class).
		Int("failures", cb.failures).
		Str("reason", reason).
		Msg("Circuit breaker opened")
}

// GetState returns the current state.
func (cb *CircuitBreaker) GetState() CircuitState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// Snapshot returns breaker telemetry for the gateway status endpoint.
func (cb *CircuitBreaker) Snapshot() map[string]interface{} {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	snap := map[string]interface{}{
		"class":        cb.class,
		"state":        cb.state,
		"failures":     cb.failures,
		"max_failures": cb.settings.maxFailures,
	}
	if !cb.lastFailure.IsZero() {
		snap["last_failure"] = cb.lastFailure
	}
	if cb.state == StateOpen {
		snap["cooldown_remaining"] = (cb.settings.cooldown - time.Since(cb.openedAt)).Seconds()
	}
	return snap
}

// CircuitBreakerManager holds one breaker per route class.
type CircuitBreakerManager struct {
	mu       sync.Mutex
	breakers map[string]*CircuitBreaker
}

func NewCircuitBreakerManager() *CircuitBreakerManager {
	return &CircuitBreakerManager{
		breakers: make(map[string]*CircuitBreaker),
	}
}

func (m *CircuitBreakerManager) forClass(class string) *CircuitBreaker {
	m.mu.Lock()
	defer m.mu.Unlock()

	if cb, ok := m.breakers[class]; ok {
		return cb
	}

	settings, ok := classSettings[class]
	if !ok {
		settings = classSettings[classSales]
	}
	cb := newCircuitBreaker(class, settings)
	m.breakers[class] = cb
	return cb
}

// Stats returns a snapshot of every active breaker.
func (m *CircuitBreakerManager) Stats() map[string]interface{} {
	m.mu.Lock()
	defer m.mu.Unlock()

	stats := make(map[string]interface{}, len(m.breakers))
	for class, cb := range m.breakers {
		stats[class] = cb.Snapshot()
	}
	return stats
}

// CircuitBreakerMiddleware blocks route classes whose backend keeps failing.
func CircuitBreakerMiddleware(manager *CircuitBreakerManager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		class := routeClass(c.Path())
		if class == "" {
			return c.Next()
		}

		cb := manager.forClass(class)
		ok, retryIn := cb.Allow()
		if !ok {
			logger.Logger.Warn().
				Str("class", class).
				Str("path", c.Path()).
				Msg("Circuit breaker open, request rejected")

			c.Set("Retry-After", strconv.Itoa(int(retryIn.Seconds())+1))
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"error":       "Service temporarily unavailable",
				"retry_after": int(retryIn.Seconds()) + 1,
			})
		}

		err := c.Next()
		cb.Observe(err != nil || c.Response().StatusCode() >= 500)
		return err
	}
}

// routeClass maps a request path to its breaker class. Paths the gateway does
// not proxy are exempt.
func routeClass(path string) string {
	switch {
	case strings.HasPrefix(path, "/api/pos/reports"),
		strings.HasPrefix(path, "/api/admin"):
		return classReports
	case strings.HasPrefix(path, "/api/"),
		strings.HasPrefix(path, "/auth"):
		return classSales
	default:
		return ""
	}
}
