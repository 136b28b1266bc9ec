package infra

import (
	"time"

	"golang.org/x/time/rate"
)

// TokenBucket é a alternativa de limitador global baseada em token-bucket
// (x/time/rate). Mais estrita que a janela fixa: o reabastecimento é contínuo,
// então não existe a rajada de até 2x o limite na virada de janela.
type TokenBucket struct {
	lim    *rate.Limiter
	limit  int
	window time.Duration
}

// NewTokenBucket cria um bucket que reabastece `limit` tokens por `window`.
// Se burst <= 0, usa o próprio limite como capacidade.
func NewTokenBucket(limit int, window time.Duration, burst int) *TokenBucket {
	if burst <= 0 {
		burst = limit
	}
	return &TokenBucket{
		lim:    rate.NewLimiter(rate.Limit(float64(limit)/window.Seconds()), burst),
		limit:  limit,
		window: window,
	}
}

func (b *TokenBucket) Limit() int            { return b.limit }
func (b *TokenBucket) Window() time.Duration { return b.window }

// Allow implementa domain.Limiter.
func (b *TokenBucket) Allow() bool { return b.lim.Allow() }
