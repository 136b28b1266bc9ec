package infra

import (
	"sync"
	"time"
)

// FixedWindow é um limitador global de janela fixa: admite até `limit`
// requisições por janela de duração `window` e zera o contador a cada
// virada de janela.
//
// A sequência checa-reseta-incrementa acontece inteira sob o mutex: dois
// chamadores simultâneos nunca ganham a mesma última vaga, e a virada de
// janela nunca é aplicada duas vezes para o mesmo limite de tempo.
type FixedWindow struct {
	mu     sync.Mutex
	limit  int
	window time.Duration
	start  time.Time
	count  int

	now func() time.Time
}

type FixedWindowOption func(*FixedWindow)

// WithClock troca a fonte de tempo (para testes determinísticos).
func WithClock(now func() time.Time) FixedWindowOption {
	return func(fw *FixedWindow) { fw.now = now }
}

func NewFixedWindow(limit int, window time.Duration, opts ...FixedWindowOption) *FixedWindow {
	fw := &FixedWindow{
		limit:  limit,
		window: window,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(fw)
	}
	fw.start = fw.now()
	return fw
}

func (fw *FixedWindow) Limit() int            { return fw.limit }
func (fw *FixedWindow) Window() time.Duration { return fw.window }

// Allow implementa domain.Limiter. Não bloqueia: responde na hora.
//
// Uma chamada exatamente em start+window pertence à janela nova (o teste de
// virada usa >=). Se o relógio andar para trás, o tempo decorrido fica
// negativo e a janela atual é mantida.
func (fw *FixedWindow) Allow() bool {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	now := fw.now()
	if elapsed := now.Sub(fw.start); elapsed >= fw.window {
		fw.start = now
		fw.count = 0
	}

	if fw.count < fw.limit {
		fw.count++
		return true
	}
	return false
}
