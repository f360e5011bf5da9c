package proxy

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/sellhub/pos-backend/api-gateway/config"
	"github.com/sellhub/pos-backend/api-gateway/loadbalancer"
	"github.com/sellhub/pos-backend/pkg/logger"
)

// ReverseProxy forwards requests to the backend replica pools
type ReverseProxy struct {
	config *config.GatewayConfig
	client *http.Client
	pools  map[string]*loadbalancer.Pool
}

// NewReverseProxy creates a new reverse proxy
func NewReverseProxy(cfg *config.GatewayConfig) *ReverseProxy {
	pools := make(map[string]*loadbalancer.Pool)
	for name, svc := range cfg.Services {
		pools[name] = loadbalancer.NewPool(svc.Instances)
	}

	return &ReverseProxy{
		config: cfg,
		pools:  pools,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// ProxyRequest forwards the request to the target service. A transport
// error marks the instance down and fails over to the next one; the request
// body is buffered by fiber so the retry resends it intact. Responses with
// an HTTP status are returned as-is, errors and all: only unreachable
// instances trigger failover.
func (p *ReverseProxy) ProxyRequest(c *fiber.Ctx, serviceName string) error {
	pool, ok := p.pools[serviceName]
	if !ok {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": fmt.Sprintf("No backend pool for '%s'", serviceName),
		})
	}

	attempts, _ := pool.Size()
	if attempts > 3 {
		attempts = 3
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		instance := pool.Next()
		if instance == "" {
			break
		}

		resp, err := p.forward(c, instance)
		if err != nil {
			lastErr = err
			pool.MarkDown(instance)
			logger.Logger.Warn().
				Err(err).
				Str("service", serviceName).
				Str("instance", instance).
				Int("attempt", attempt+1).
				Msg("Backend instance unreachable, failing over")
			continue
		}
		defer resp.Body.Close()

		p.copyResponseHeaders(c, resp)
		c.Status(resp.StatusCode)

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to read response",
			})
		}
		return c.Send(body)
	}

	details := "no usable instances"
	if lastErr != nil {
		details = lastErr.Error()
	}
	return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
		"error":   "Failed to reach backend service",
		"service": serviceName,
		"details": details,
	})
}

// forward sends the request to one backend instance
func (p *ReverseProxy) forward(c *fiber.Ctx, instance string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(
		c.UserContext(),
		c.Method(),
		p.buildTargetURL(c, instance),
		bytes.NewReader(c.Body()),
	)
	if err != nil {
		return nil, err
	}

	p.copyHeaders(c, req)
	return p.client.Do(req)
}

// buildTargetURL constructs the full URL for the selected backend instance
func (p *ReverseProxy) buildTargetURL(c *fiber.Ctx, instance string) string {
	path := string(c.Request().URI().Path())

	queryString := string(c.Request().URI().QueryString())
	if queryString != "" {
		queryString = "?" + queryString
	}

	return instance + path + queryString
}

// Pools returns the backend pools keyed by service name
func (p *ReverseProxy) Pools() map[string]*loadbalancer.Pool {
	return p.pools
}

// copyHeaders copies relevant headers from Fiber context to http.Request
func (p *ReverseProxy) copyHeaders(c *fiber.Ctx, req *http.Request) {
	c.Request().Header.VisitAll(func(key, value []byte) {
		keyStr := string(key)
		if strings.ToLower(keyStr) == "host" {
			return
		}
		req.Header.Set(keyStr, string(value))
	})

	if contentType := c.Get("Content-Type"); contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if auth := c.Get("Authorization"); auth != "" {
		req.Header.Set("Authorization", auth)
	}

	req.Header.Set("X-Forwarded-For", c.IP())
	req.Header.Set("X-Forwarded-Proto", c.Protocol())
	req.Header.Set("X-Forwarded-Host", c.Hostname())
}

// copyResponseHeaders copies headers from http.Response to Fiber context
func (p *ReverseProxy) copyResponseHeaders(c *fiber.Ctx, resp *http.Response) {
	for key, values := range resp.Header {
		if strings.ToLower(key) == "content-length" {
			continue
		}
		for _, value := range values {
			c.Set(key, value)
		}
	}
}
