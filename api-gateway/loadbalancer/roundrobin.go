package loadbalancer

import (
	"sync"

	"github.com/sellhub/pos-backend/pkg/logger"
)

// Pool rotates over the backend replica instances. Instances marked down
// are skipped; when every instance is down the pool fails open and rotates
// over all of them, so a recovered backend starts serving again without
// waiting for the next health sweep.
type Pool struct {
	mu        sync.Mutex
	instances []string
	down      map[string]bool
	current   int
}

// NewPool creates a round-robin pool over the given instance URLs
func NewPool(instances []string) *Pool {
	if len(instances) == 0 {
		instances = []string{"http://localhost:8080"}
	}

	logger.Logger.Info().
		Int("instance_count", len(instances)).
		Strs("instances", instances).
		Msg("Backend pool initialized")

	return &Pool{
		instances: instances,
		down:      make(map[string]bool),
	}
}

// Next returns the next usable instance in rotation
func (p *Pool) Next() string {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.instances) == 0 {
		return ""
	}

	for range p.instances {
		instance := p.instances[p.current]
		p.current = (p.current + 1) % len(p.instances)
		if !p.down[instance] {
			return instance
		}
	}

	// Everything is down; hand out the next instance anyway.
	instance := p.instances[p.current]
	p.current = (p.current + 1) % len(p.instances)
	return instance
}

// MarkDown removes an instance from rotation until MarkUp
func (p *Pool) MarkDown(instance string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.down[instance] {
		p.down[instance] = true
		logger.Logger.Warn().
			Str("instance", instance).
			Msg("Instance marked down")
	}
}

// MarkUp returns an instance to rotation
func (p *Pool) MarkUp(instance string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.down[instance] {
		delete(p.down, instance)
		logger.Logger.Info().
			Str("instance", instance).
			Msg("Instance marked up")
	}
}

// Instances returns all configured instances
func (p *Pool) Instances() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string{}, p.instances...)
}

// Size returns the total and usable instance counts
func (p *Pool) Size() (total, up int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.instances), len(p.instances) - len(p.down)
}

// Stats returns pool statistics
func (p *Pool) Stats() map[string]interface{} {
	p.mu.Lock()
	defer p.mu.Unlock()

	downList := make([]string, 0, len(p.down))
	for instance := range p.down {
		downList = append(downList, instance)
	}

	return map[string]interface{}{
		"algorithm":      "round-robin",
		"instance_count": len(p.instances),
		"instances":      p.instances,
		"down":           downList,
	}
}
