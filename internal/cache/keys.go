package cache

import "fmt"

// TestResultKey caches the most recent connection-test outcome per platform.
func TestResultKey(platform string) string {
	return fmt.Sprintf("conntest:result:%s", platform)
}

func RateLimitKey(keyPrefix string) string {
	return fmt.Sprintf("ratelimit:%s", keyPrefix)
}
