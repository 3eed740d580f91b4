// Package connectest verifies that stored platform credentials are live by
// calling each platform's cheapest authenticated endpoint. Platforms are an
// open set: checkers register against a Registry instead of a central
// dispatcher.
package connectest

import "context"

// Result is the uniform outcome every checker converges to.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Checker verifies one platform's credentials. creds holds the platform's
// decrypted key/value pairs. A non-nil error signals a transient transport
// failure the caller may retry; definitive outcomes (bad credentials, missing
// fields) are a Result with a nil error.
type Checker interface {
	Check(ctx context.Context, creds map[string]string) (Result, error)
}
