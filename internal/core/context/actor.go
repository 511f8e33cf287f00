// Package context provides request-scoped values extraction.
package context

import (
	"context"
	"strings"
)

// DefaultStaffName is recorded on purchase history when no operator is known.
const DefaultStaffName = "system"

// Actor describes who triggered an operation (POS operator, scheduled job).
// Authentication is handled outside this service; the name is taken as given.
type Actor struct {
	StaffName string
	Source    string // "http", "worker", "seed"
}

type actorContextKey struct{}

// WithActor adds Actor to context.
func WithActor(ctx context.Context, actor *Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

// GetActor returns Actor from context.
func GetActor(ctx context.Context) *Actor {
	if v, ok := ctx.Value(actorContextKey{}).(*Actor); ok {
		return v
	}
	return nil
}

// GetStaffName returns the acting staff name or DefaultStaffName.
func GetStaffName(ctx context.Context) string {
	if a := GetActor(ctx); a != nil {
		if name := strings.TrimSpace(a.StaffName); name != "" {
			return name
		}
	}
	return DefaultStaffName
}
