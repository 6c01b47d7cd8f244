package metrics

import (
	"context"

	"github.com/newrelic/go-agent/v3/newrelic"
)

type newRelicContextKey struct{}

// NewRelicContextKey is the context key holding the *newrelic.Application
// that RecordCount, RecordDuration and RecordEvent report to.
var NewRelicContextKey = newRelicContextKey{}

// WithApplication returns a context that reports metrics to app.
func WithApplication(ctx context.Context, app *newrelic.Application) context.Context {
	return context.WithValue(ctx, NewRelicContextKey, app)
}
