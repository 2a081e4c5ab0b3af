package core

import (
	"context"

	"github.com/scangrade/scangrade/internal/contract"
)

// Context keys for grading options
type contextKey string

const (
	suppressHeaderKey contextKey = "suppressHeader"
	storeManagerKey   contextKey = "storeManager"
	runIDKey          contextKey = "runID"
)

// WithSuppressHeader sets whether progress headers should be suppressed in the
// context. The MCP server uses this to keep stdout clean for the protocol.
func WithSuppressHeader(ctx context.Context) context.Context {
	return context.WithValue(ctx, suppressHeaderKey, true)
}

// shouldSuppressHeader returns whether headers should be suppressed from context
func shouldSuppressHeader(ctx context.Context) bool {
	val := ctx.Value(suppressHeaderKey)
	if val == nil {
		return false // default: show headers
	}
	suppress, ok := val.(bool)
	return ok && suppress
}

// contextWithStoreManager attaches the persistence store manager to the context
func contextWithStoreManager(ctx context.Context, mgr contract.StoreManager) context.Context {
	return context.WithValue(ctx, storeManagerKey, mgr)
}

// storeManagerFromContext returns the store manager from context, or nil when
// no stores are configured
func storeManagerFromContext(ctx context.Context) contract.StoreManager {
	val := ctx.Value(storeManagerKey)
	if val == nil {
		return nil
	}
	mgr, ok := val.(contract.StoreManager)
	if !ok {
		return nil
	}
	return mgr
}

// withRunID sets the active run tracking ID in the context
func withRunID(ctx context.Context, runID int64) context.Context {
	return context.WithValue(ctx, runIDKey, runID)
}

// getRunID returns the active run tracking ID from context
func getRunID(ctx context.Context) (int64, bool) {
	val := ctx.Value(runIDKey)
	if val == nil {
		return 0, false
	}
	runID, ok := val.(int64)
	return runID, ok
}
