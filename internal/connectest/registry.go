package connectest

import (
	"net/http"
	"sync"

	"github.com/mrtandempilot/ceyhun-sub000/internal/config"
)

// Registry maps platform names to their verification checkers. New platforms
// register at startup without touching any dispatch logic. Safe for
// concurrent use.
type Registry struct {
	mu       sync.RWMutex
	checkers map[string]Checker
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{checkers: map[string]Checker{}}
}

// Register installs or replaces the checker for a platform.
func (r *Registry) Register(platform string, c Checker) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.checkers[platform] = c
}

// Lookup returns the checker for a platform.
func (r *Registry) Lookup(platform string) (Checker, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.checkers[platform]
	return c, ok
}

// Platforms returns the registered platform names.
func (r *Registry) Platforms() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.checkers))
	for p := range r.checkers {
		out = append(out, p)
	}
	return out
}

// DefaultRegistry builds a Registry with the built-in platform checkers.
func DefaultRegistry(cfg config.TestConfig) *Registry {
	client := &http.Client{Timeout: cfg.Timeout}

	r := NewRegistry()
	r.Register("facebook", NewGraphChecker("facebook", cfg.GraphBaseURL, client))
	r.Register("instagram", NewGraphChecker("instagram", cfg.GraphBaseURL, client))
	r.Register("whatsapp", NewWhatsAppChecker(cfg.GraphBaseURL, client))
	r.Register("telegram", NewTelegramChecker(cfg.TelegramAPIURL, client))
	r.Register("n8n", NewWebhookChecker(client))
	r.Register("email", SMTPConfigChecker{})
	r.Register("google", GoogleChecker{})
	return r
}
