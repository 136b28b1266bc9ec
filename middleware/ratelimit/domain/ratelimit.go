package domain

// Camada de domínio do rate limit.
//
// Regras e contratos (interfaces/tipos) sem dependência de net/http.

import "time"

// Key identifica o cliente de uma requisição (ex: IP, API key). O limite é
// global ao processo, então a Key não participa da decisão; ela serve apenas
// para atribuição nas estatísticas.
type Key string

// Limiter representa algo que pode decidir se uma ação é permitida agora.
//
// Observação: a implementação pode ser janela fixa, token-bucket, etc.
// A instância é compartilhada por todos os handlers concorrentes, então a
// implementação precisa ser segura para chamadas simultâneas e a chamada
// inteira (checagem + incremento) precisa ser atômica.
type Limiter interface {
	Allow() bool
}

// Counter conta requisições recebidas, admitidas ou não.
// Inc retorna o valor pós-incremento; nunca pode perder updates sob concorrência.
type Counter interface {
	Inc() int64
	Value() int64
}

type Decision struct {
	Allowed bool
	// RetryAfter é o valor a ser retornado em Retry-After quando bloquear.
	// Se 0, não há recomendação.
	RetryAfter time.Duration
}
