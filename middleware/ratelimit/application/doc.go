// Package application contém os casos de uso (regras de aplicação) para
// admissão de requisições e limite de concorrência.
//
// Ele depende apenas do pacote domain e não conhece net/http.
// Ex.: Service.Decide() retorna uma Decision (allow/deny + retry-after).
package application
