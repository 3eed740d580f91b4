package connectest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/mrtandempilot/ceyhun-sub000/internal/cache"
	"github.com/mrtandempilot/ceyhun-sub000/internal/store"
	"github.com/mrtandempilot/ceyhun-sub000/pkg/models"
)

// CredentialSource is the slice of the vault the tester depends on.
type CredentialSource interface {
	GetAll(ctx context.Context, platform string) map[string]string
	UpdateTestStatus(ctx context.Context, platform, key, status string, testErr *string) error
}

// Outcome is the result of one connection test as reported to callers.
type Outcome struct {
	Success  bool      `json:"success"`
	Message  string    `json:"message"`
	Platform string    `json:"platform"`
	TestedAt time.Time `json:"tested_at"`
}

// Tester resolves a platform's credentials, dispatches through the registry
// under a bounded timeout, persists the outcome, and caches it for dashboard
// reads. Transient transport failures are retried with capped exponential
// backoff; a definitive credential-invalid outcome is never retried.
type Tester struct {
	registry   *Registry
	creds      CredentialSource
	cache      cache.Cache
	timeout    time.Duration
	maxRetries int
	cacheTTL   time.Duration
}

// NewTester creates a Tester.
func NewTester(reg *Registry, creds CredentialSource, ca cache.Cache, timeout time.Duration, maxRetries int, cacheTTL time.Duration) *Tester {
	return &Tester{
		registry:   reg,
		creds:      creds,
		cache:      ca,
		timeout:    timeout,
		maxRetries: maxRetries,
		cacheTTL:   cacheTTL,
	}
}

// Test runs the live check for a platform. Unregistered platforms and missing
// required fields report failure without any network round trip.
func (t *Tester) Test(ctx context.Context, platform string) Outcome {
	now := time.Now().UTC()

	checker, ok := t.registry.Lookup(platform)
	if !ok {
		return Outcome{
			Message:  fmt.Sprintf("Testing not implemented for platform: %s", platform),
			Platform: platform,
			TestedAt: now,
		}
	}

	creds := t.creds.GetAll(ctx, platform)
	res := t.runChecker(ctx, checker, creds)

	outcome := Outcome{
		Success:  res.Success,
		Message:  res.Message,
		Platform: platform,
		TestedAt: now,
	}
	t.persist(ctx, outcome)
	return outcome
}

// CachedResult returns the most recent outcome for a platform, if one is
// still cached.
func (t *Tester) CachedResult(ctx context.Context, platform string) (Outcome, bool) {
	raw, ok, err := t.cache.Get(ctx, cache.TestResultKey(platform))
	if err != nil || !ok {
		return Outcome{}, false
	}
	var o Outcome
	if err := json.Unmarshal(raw, &o); err != nil {
		return Outcome{}, false
	}
	return o, true
}

func (t *Tester) runChecker(ctx context.Context, checker Checker, creds map[string]string) Result {
	cctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	var res Result
	op := func() error {
		r, err := checker.Check(cctx, creds)
		if err != nil {
			return err
		}
		res = r
		return nil
	}

	b := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(t.maxRetries)), cctx)
	if err := backoff.Retry(op, b); err != nil {
		return Result{Message: fmt.Sprintf("Connection failed: %v", err)}
	}
	return res
}

// persist writes the outcome back onto the platform's primary credential and
// into the result cache. The status key is the derived <platform>_access_token
// regardless of which credential the check actually exercised; this mirrors
// the settings surface, which reads the platform's test state from that row.
func (t *Tester) persist(ctx context.Context, o Outcome) {
	status := models.TestStatusFailed
	var testErr *string
	if o.Success {
		status = models.TestStatusSuccess
	} else {
		msg := o.Message
		testErr = &msg
	}

	key := o.Platform + "_access_token"
	if err := t.creds.UpdateTestStatus(ctx, o.Platform, key, status, testErr); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			slog.Warn("no credential row to stamp test status", "platform", o.Platform, "key", key)
		} else {
			slog.Error("persist test status failed", "platform", o.Platform, "key", key, "error", err)
		}
	}

	raw, err := json.Marshal(o)
	if err != nil {
		return
	}
	if err := t.cache.Set(ctx, cache.TestResultKey(o.Platform), raw, t.cacheTTL); err != nil {
		slog.Warn("cache test result failed", "platform", o.Platform, "error", err)
	}
}
