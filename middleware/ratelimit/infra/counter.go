package infra

import "sync/atomic"

// RequestCounter conta toda requisição bem-formada recebida pelo processo,
// admitida ou não. sync/atomic garante que nenhum incremento se perde sob
// qualquer intercalação de handlers.
type RequestCounter struct {
	n atomic.Int64
}

func NewRequestCounter() *RequestCounter { return &RequestCounter{} }

// Inc implementa domain.Counter; retorna o total pós-incremento.
func (c *RequestCounter) Inc() int64 { return c.n.Add(1) }

func (c *RequestCounter) Value() int64 { return c.n.Load() }
