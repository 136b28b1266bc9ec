package infra

import (
	"context"
	"testing"

	"fileserver-gateway/middleware/ratelimit/domain"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestPromStats_CountsByResult(t *testing.T) {
	reg := prometheus.NewRegistry()
	s := NewPromStats(reg)
	ctx := context.Background()

	_ = s.Record(ctx, domain.StatsEvent{Allowed: true})
	_ = s.Record(ctx, domain.StatsEvent{Allowed: true})
	_ = s.Record(ctx, domain.StatsEvent{Allowed: false})

	if got := testutil.ToFloat64(s.requests.WithLabelValues("allowed")); got != 2 {
		t.Fatalf("expected allowed=2, got %v", got)
	}
	if got := testutil.ToFloat64(s.requests.WithLabelValues("denied")); got != 1 {
		t.Fatalf("expected denied=1, got %v", got)
	}
}
