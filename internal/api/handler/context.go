// internal/api/handler/context.go
package handler

import "context"

type buyerKey struct{}

// WithBuyerID returns a context carrying the authenticated buyer.
func WithBuyerID(ctx context.Context, buyerID string) context.Context {
	return context.WithValue(ctx, buyerKey{}, buyerID)
}

// BuyerIDFromContext returns the buyer set by WithBuyerID.
func BuyerIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(buyerKey{}).(string)
	return id, ok && id != ""
}
