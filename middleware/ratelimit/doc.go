// Package ratelimit fornece adapters HTTP (net/http) para admissão global de
// requisições e limite de concorrência.
//
// Visão geral (camadas):
//
//   - domain: contratos e tipos do domínio (sem dependência de net/http)
//   - application: casos de uso (decisão allow/deny, acquire/timeout) sem net/http
//   - infra: implementações concretas (janela fixa, token bucket, contadores,
//     stats em memória/Redis/Prometheus), detalhes de infraestrutura
//   - ratelimit (este pacote): middlewares HTTP + extração de chave + tradução
//     para status/headers/corpo
//
// Fluxo no servidor de arquivos:
//
//  1. Conta a requisição recebida (Counter), admitida ou não
//  2. Chama a camada application para obter a decisão do limitador global
//  3. Se bloqueado, responde 429 com página HTML e Retry-After, sem tocar no
//     filesystem
//  4. Se permitido, chama o próximo handler (o servidor de arquivos estáticos)
//
// Variáveis de ambiente do binário fileserver (cmd/fileserver) controlam o
// comportamento, como RATE_MAX, RATE_WINDOW, CONCURRENCY_MAX e CONCURRENCY_TIMEOUT.
package ratelimit
