package infra

import (
	"context"

	"fileserver-gateway/middleware/ratelimit/domain"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PromStats expõe as decisões de admissão como métricas Prometheus.
//
// Só o resultado vira label; método/path/key ficam de fora de propósito
// para não explodir a cardinalidade das séries.
type PromStats struct {
	requests *prometheus.CounterVec
}

// NewPromStats registra os collectors em reg (ou no registerer padrão se nil).
func NewPromStats(reg prometheus.Registerer) *PromStats {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	return &PromStats{
		requests: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "fileserver_requests_total",
				Help: "Total of admission decisions, by result (allowed/denied)",
			},
			[]string{"result"},
		),
	}
}

func (s *PromStats) Record(_ context.Context, ev domain.StatsEvent) error {
	result := "denied"
	if ev.Allowed {
		result = "allowed"
	}
	s.requests.WithLabelValues(result).Inc()
	return nil
}
