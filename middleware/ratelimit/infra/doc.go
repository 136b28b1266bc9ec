// Package infra contém implementações concretas (infraestrutura) para os contratos
// definidos no pacote domain.
//
// Exemplos:
//   - FixedWindow: limitador global de janela fixa (mutex)
//   - TokenBucket: limitador global usando golang.org/x/time/rate
//   - RequestCounter: contador atômico de requisições
//   - MemoryHitStore / SQLiteHitStore: acessos por caminho
//   - MemoryStatsStore / RedisStatsStore / PromStats: estatísticas de decisão
//   - ChanPool: semáforo simples para limite de concorrência
package infra
