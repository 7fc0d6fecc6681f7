package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// assertMetricLine checks that the Prometheus output contains a metric line
// matching the given name, partial label pattern, and value. Regex absorbs the
// extra OTel scope labels the Prometheus exporter injects.
func assertMetricLine(t *testing.T, output, name, labels, value string) {
	t.Helper()
	pattern := name + `\{[^}]*` + labels + `[^}]*\} ` + value
	assert.Regexp(t, pattern, output)
}

func TestNewBusinessMetrics(t *testing.T) {
	provider, err := NewProvider("orderloop")
	require.NoError(t, err)

	bm, err := NewBusinessMetrics(provider.MeterProvider(), "orderloop")

	require.NoError(t, err)
	assert.NotNil(t, bm)
}

func TestBusinessMetrics_Integration(t *testing.T) {
	provider, err := NewProvider("orderloop_test")
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, provider.Shutdown(context.Background()))
	}()

	bm, err := NewBusinessMetrics(provider.MeterProvider(), "orderloop_test")
	require.NoError(t, err)

	ctx := context.Background()

	bm.RecordOperation(ctx, "order", "order_prepare", "success")
	bm.RecordOperation(ctx, "order", "order_prepare", "success")
	bm.RecordOperation(ctx, "order", "order_redeem", "error")
	bm.RecordOperation(ctx, "authz", "authorize", "success")
	bm.RecordOperation(ctx, "apitoken", "token_issue", "success")

	bm.RecordDuration(ctx, "order", "order_prepare", 50*time.Millisecond, "success")
	bm.RecordDuration(ctx, "order", "order_prepare", 60*time.Millisecond, "success")
	bm.RecordDuration(ctx, "authz", "authorize", 5*time.Millisecond, "success")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	provider.Handler().ServeHTTP(w, req)

	output := w.Body.String()

	assertMetricLine(
		t,
		output,
		`orderloop_test_operations_total`,
		`domain="order".*operation="order_prepare".*status="success"`,
		`2`,
	)
	assertMetricLine(
		t,
		output,
		`orderloop_test_operations_total`,
		`domain="order".*operation="order_redeem".*status="error"`,
		`1`,
	)
	assertMetricLine(
		t,
		output,
		`orderloop_test_operation_duration_seconds_count`,
		`domain="order".*operation="order_prepare".*status="success"`,
		`2`,
	)
}

func TestNoOpBusinessMetrics(t *testing.T) {
	noOp := NewNoOpBusinessMetrics()

	assert.NotNil(t, noOp)
	assert.IsType(t, &NoOpBusinessMetrics{}, noOp)

	// Neither call should panic or record anything.
	noOp.RecordOperation(context.Background(), "order", "order_prepare", "success")
	noOp.RecordDuration(context.Background(), "order", "order_prepare", 100*time.Millisecond, "success")
}
