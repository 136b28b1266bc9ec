package infra

import (
	"context"

	"fileserver-gateway/middleware/ratelimit/domain"
)

// MultiStats replica cada evento para vários stores (ex: memória + Redis +
// Prometheus). Todos os stores recebem o evento mesmo se algum falhar; o
// primeiro erro é retornado.
type MultiStats []domain.StatsStore

func (m MultiStats) Record(ctx context.Context, ev domain.StatsEvent) error {
	var firstErr error
	for _, s := range m {
		if s == nil {
			continue
		}
		if err := s.Record(ctx, ev); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
