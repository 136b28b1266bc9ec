package domain

// HitStore acumula acessos por caminho servido. Alimenta a coluna "Hits" da
// listagem de diretórios e relatórios de diagnóstico.
//
// Bump retorna o total pós-incremento. Implementações precisam ser seguras
// para chamadas concorrentes; persistência (ex: SQLite) é detalhe de infra.
type HitStore interface {
	Bump(path string) int64
	Get(path string) int64
	Snapshot() map[string]int64
}
