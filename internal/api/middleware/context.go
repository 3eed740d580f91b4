package middleware

import (
	"context"
	"net/http"
)

type contextKey string

const (
	actorKey     contextKey = "actor"
	keyPrefixKey contextKey = "key_prefix"
	scopesKey    contextKey = "scopes"
)

// SetActor records the authenticated principal's name; it becomes the
// created_by/updated_by actor on credential writes.
func SetActor(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, actorKey, name)
}

func GetActor(r *http.Request) (string, bool) {
	name, ok := r.Context().Value(actorKey).(string)
	return name, ok
}

func setKeyPrefix(ctx context.Context, prefix string) context.Context {
	return context.WithValue(ctx, keyPrefixKey, prefix)
}

func getKeyPrefix(r *http.Request) (string, bool) {
	prefix, ok := r.Context().Value(keyPrefixKey).(string)
	return prefix, ok
}

// SetScopes is exported for handler tests that bypass the auth middleware.
func SetScopes(ctx context.Context, scopes []string) context.Context {
	return context.WithValue(ctx, scopesKey, scopes)
}

func getScopes(r *http.Request) []string {
	scopes, _ := r.Context().Value(scopesKey).([]string)
	return scopes
}
