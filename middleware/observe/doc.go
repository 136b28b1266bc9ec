// Package observe fornece middlewares HTTP de observabilidade: request-id,
// access log e contenção de panics.
//
// A contenção segue o contrato do servidor: a falha de um handler fica restrita
// àquela conexão (responde 500 e loga), nunca derruba o listener nem afeta os
// handlers irmãos em voo.
package observe
