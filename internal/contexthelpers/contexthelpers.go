// Package contexthelpers stores request-scoped values used by the HTML templates.
package contexthelpers

import (
	"context"
	"net/http"
)

type contextKey string

const (
	currentPathContextKey = contextKey("currentPath")
	cspNonceContextKey    = contextKey("cspNonce")
)

func CurrentPath(ctx context.Context) string {
	currentPath, ok := ctx.Value(currentPathContextKey).(string)
	if !ok {
		return ""
	}
	return currentPath
}

func CSPNonce(ctx context.Context) string {
	cspNonce, ok := ctx.Value(cspNonceContextKey).(string)
	if !ok {
		return ""
	}
	return cspNonce
}

func SetCurrentPath(r *http.Request, currentPath string) *http.Request {
	ctx := context.WithValue(r.Context(), currentPathContextKey, currentPath)
	return r.WithContext(ctx)
}

func SetCSPNonce(r *http.Request, cspNonce string) *http.Request {
	ctx := context.WithValue(r.Context(), cspNonceContextKey, cspNonce)
	return r.WithContext(ctx)
}
