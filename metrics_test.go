package authgate

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopMetrics(t *testing.T) {
	// Test that NoopMetrics methods don't panic
	var metrics Metrics = NoopMetrics{}

	metrics.ObserveAuthorization("get:drinks-detail", OutcomeAuthorized, 200, time.Millisecond)
	metrics.ObserveKeySetFetch(nil)
}

func TestPrometheusMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()

	metrics, err := NewPrometheusMetrics(reg)
	require.NoError(t, err)

	t.Run("ObserveAuthorization", func(t *testing.T) {
		metrics.ObserveAuthorization("get:drinks-detail", OutcomeAuthorized, 200, 5*time.Millisecond)
		metrics.ObserveAuthorization("get:drinks-detail", OutcomeAuthorized, 200, 5*time.Millisecond)
		metrics.ObserveAuthorization("delete:drinks", "not_permitted", 403, time.Millisecond)

		assert.Equal(t, 2.0, testutil.ToFloat64(metrics.authorizations.WithLabelValues("get:drinks-detail", "authorized", "200")))
		assert.Equal(t, 1.0, testutil.ToFloat64(metrics.authorizations.WithLabelValues("delete:drinks", "not_permitted", "403")))
		assert.Equal(t, 2, testutil.CollectAndCount(metrics.latency))
	})

	t.Run("ObserveKeySetFetch", func(t *testing.T) {
		metrics.ObserveKeySetFetch(nil)
		metrics.ObserveKeySetFetch(errors.New("status 503"))
		metrics.ObserveKeySetFetch(errors.New("status 503"))

		assert.Equal(t, 1.0, testutil.ToFloat64(metrics.fetches.WithLabelValues("success")))
		assert.Equal(t, 2.0, testutil.ToFloat64(metrics.fetches.WithLabelValues("error")))
	})

	t.Run("registry exposes the collectors", func(t *testing.T) {
		families, err := reg.Gather()
		require.NoError(t, err)

		var names []string
		for _, f := range families {
			names = append(names, f.GetName())
		}
		assert.Contains(t, names, "authgate_authorizations_total")
		assert.Contains(t, names, "authgate_authorization_duration_seconds")
		assert.Contains(t, names, "authgate_jwks_fetches_total")
	})

	t.Run("registering twice fails", func(t *testing.T) {
		_, err := NewPrometheusMetrics(reg)
		assert.Error(t, err)
	})
}
