package llm

import "context"

// Call identifies who asked for an LLM request. It is carried on the
// context so the logging decorator can attribute events without every
// Provider knowing about sessions.
type Call struct {
	Purpose   string
	SessionID string
}

type callKey struct{}

// WithCall attaches call metadata to ctx.
func WithCall(ctx context.Context, c Call) context.Context {
	return context.WithValue(ctx, callKey{}, c)
}

// WithPurpose sets only the purpose, keeping any session already on ctx.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	c := CallFrom(ctx)
	c.Purpose = purpose
	return WithCall(ctx, c)
}

// CallFrom returns the call metadata on ctx. Purpose is "unknown" when
// none was set.
func CallFrom(ctx context.Context) Call {
	c, _ := ctx.Value(callKey{}).(Call)
	if c.Purpose == "" {
		c.Purpose = "unknown"
	}
	return c
}

// PurposeFrom extracts the purpose label from the context.
func PurposeFrom(ctx context.Context) string {
	return CallFrom(ctx).Purpose
}
