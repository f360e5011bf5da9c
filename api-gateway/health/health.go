package health

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/sellhub/pos-backend/api-gateway/config"
	"github.com/sellhub/pos-backend/api-gateway/loadbalancer"
	"github.com/sellhub/pos-backend/pkg/logger"
)

// InstanceHealth represents the health status of one backend instance
type InstanceHealth struct {
	Name      string        `json:"name"`
	Status    string        `json:"status"`
	URL       string        `json:"url"`
	Latency   time.Duration `json:"latency_ms"`
	Error     string        `json:"error,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}

// GatewayHealth represents the overall gateway health
type GatewayHealth struct {
	Gateway   string                    `json:"gateway"`
	Status    string                    `json:"status"`
	Instances map[string]InstanceHealth `json:"instances"`
	Uptime    time.Duration             `json:"uptime_seconds"`
}

// HealthChecker checks health of backend instances
type HealthChecker struct {
	config    *config.GatewayConfig
	client    *http.Client
	startTime time.Time
}

// NewHealthChecker creates a new health checker
func NewHealthChecker(cfg *config.GatewayConfig) *HealthChecker {
	return &HealthChecker{
		config: cfg,
		client: &http.Client{
			Timeout: 5 * time.Second,
		},
		startTime: time.Now(),
	}
}

// CheckInstance checks health of a single backend instance
func (h *HealthChecker) CheckInstance(ctx context.Context, name, baseURL, healthPath string) InstanceHealth {
	start := time.Now()

	result := InstanceHealth{
		Name:      name,
		URL:       baseURL,
		Timestamp: time.Now(),
	}

	req, err := http.NewRequestWithContext(ctx, "GET", baseURL+healthPath, nil)
	if err != nil {
		result.Status = "unhealthy"
		result.Error = fmt.Sprintf("Failed to create request: %v", err)
		result.Latency = time.Since(start)
		return result
	}

	resp, err := h.client.Do(req)
	if err != nil {
		result.Status = "unhealthy"
		result.Error = fmt.Sprintf("Failed to reach instance: %v", err)
		result.Latency = time.Since(start)
		return result
	}
	defer resp.Body.Close()

	result.Latency = time.Since(start)

	if resp.StatusCode == http.StatusOK {
		result.Status = "healthy"
	} else {
		result.Status = "unhealthy"
		result.Error = fmt.Sprintf("Unexpected status code: %d", resp.StatusCode)
	}

	return result
}

// CheckAllInstances checks health of every configured backend instance
func (h *HealthChecker) CheckAllInstances(ctx context.Context) GatewayHealth {
	instances := make(map[string]InstanceHealth)
	var wg sync.WaitGroup
	var mu sync.Mutex

	for name, svc := range h.config.Services {
		for i, url := range svc.Instances {
			wg.Add(1)
			go func(key, baseURL, healthPath string) {
				defer wg.Done()
				health := h.CheckInstance(ctx, key, baseURL, healthPath)

				mu.Lock()
				instances[key] = health
				mu.Unlock()

				if health.Status == "healthy" {
					logger.Logger.Debug().
						Str("instance", key).
						Str("status", health.Status).
						Dur("latency", health.Latency).
						Msg("Instance health check")
				} else {
					logger.Logger.Warn().
						Str("instance", key).
						Str("status", health.Status).
						Str("error", health.Error).
						Msg("Instance health check failed")
				}
			}(fmt.Sprintf("%s-%d", name, i), url, svc.HealthCheck)
		}
	}

	wg.Wait()

	return GatewayHealth{
		Gateway:   "api-gateway",
		Status:    h.determineOverallStatus(instances),
		Instances: instances,
		Uptime:    time.Since(h.startTime),
	}
}

func (h *HealthChecker) determineOverallStatus(instances map[string]InstanceHealth) string {
	healthyCount := 0
	for _, inst := range instances {
		if inst.Status == "healthy" {
			healthyCount++
		}
	}

	if healthyCount == len(instances) {
		return "healthy"
	} else if healthyCount > 0 {
		return "degraded"
	}
	return "unhealthy"
}

// Watch sweeps every backend instance on the given interval and syncs the
// result into the proxy pools, returning recovered instances to rotation
// and pulling failed ones out before a request has to discover it.
func (h *HealthChecker) Watch(ctx context.Context, pools map[string]*loadbalancer.Pool, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sweep := h.CheckAllInstances(ctx)
			for name, svc := range h.config.Services {
				pool, ok := pools[name]
				if !ok {
					continue
				}
				for i, url := range svc.Instances {
					inst, ok := sweep.Instances[fmt.Sprintf("%s-%d", name, i)]
					if !ok {
						continue
					}
					if inst.Status == "healthy" {
						pool.MarkUp(url)
					} else {
						pool.MarkDown(url)
					}
				}
			}
		}
	}
}

// QuickCheck performs a quick health check (just gateway itself)
func (h *HealthChecker) QuickCheck() map[string]interface{} {
	return map[string]interface{}{
		"status":    "healthy",
		"gateway":   "api-gateway",
		"uptime":    time.Since(h.startTime).Seconds(),
		"timestamp": time.Now(),
	}
}
