package metrics

import (
	"context"
	"testing"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoApplication(t *testing.T) {
	ctx := context.Background()

	RecordCount(ctx, "count", 1)
	RecordDuration(ctx, "duration", time.Second)
	RecordEvent(ctx, "event", map[string]interface{}{"key": "value"})

	tracer := TraceMethodCall(ctx, "metrics", "TestNoApplication")
	assert.Nil(t, tracer)
	tracer.AddAttribute("key", "value")
	tracer.AddAttributes(map[string]interface{}{"key": "value"})
	tracer.OnError(errors.New("failure"))
	tracer.End()
}

func TestWithApplication(t *testing.T) {
	app, err := newrelic.NewApplication(
		newrelic.ConfigAppName("transfer-hook-test"),
		newrelic.ConfigEnabled(false),
	)
	require.NoError(t, err)

	ctx := WithApplication(context.Background(), app)
	actual, ok := ctx.Value(NewRelicContextKey).(*newrelic.Application)
	require.True(t, ok)
	assert.Equal(t, app, actual)

	RecordCount(ctx, "count", 1)
	RecordDuration(ctx, "duration", time.Second)
	RecordEvent(ctx, "event", map[string]interface{}{"key": "value"})
}

func TestTraceMethodCall(t *testing.T) {
	app, err := newrelic.NewApplication(
		newrelic.ConfigAppName("transfer-hook-test"),
		newrelic.ConfigEnabled(false),
	)
	require.NoError(t, err)

	txn := app.StartTransaction("test")
	defer txn.End()

	ctx := newrelic.NewContext(context.Background(), txn)

	tracer := TraceMethodCall(ctx, "metrics", "TestTraceMethodCall")
	require.NotNil(t, tracer)
	tracer.AddAttribute("key", "value")
	tracer.AddAttributes(map[string]interface{}{"other": 1})
	tracer.OnError(nil)
	tracer.OnError(errors.New("failure"))
	tracer.End()
}
