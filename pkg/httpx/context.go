package httpx

import "context"

type ctxKey string

// CtxKeyEmail holds the verified account email for authenticated requests.
const CtxKeyEmail ctxKey = "email"

// EmailFromContext returns the authenticated email, or "" when the request
// did not pass through AuthnMiddleware.
func EmailFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyEmail).(string); ok {
		return v
	}
	return ""
}
