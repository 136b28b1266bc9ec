package application

import (
	"time"

	"fileserver-gateway/middleware/ratelimit/domain"
)

// Service concentra a regra de aplicação da admissão.
//
// Ele não sabe nada sobre HTTP (headers/status), apenas retorna uma decisão.
// O Limiter é global: toda requisição do processo disputa a mesma janela.
type Service struct {
	Limiter    domain.Limiter
	RetryAfter time.Duration
}

func (s Service) Decide() domain.Decision {
	if s.Limiter == nil {
		return domain.Decision{Allowed: true}
	}
	if s.RetryAfter <= 0 {
		s.RetryAfter = 1 * time.Second
	}

	if s.Limiter.Allow() {
		return domain.Decision{Allowed: true}
	}
	return domain.Decision{Allowed: false, RetryAfter: s.RetryAfter}
}
