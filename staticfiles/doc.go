// Package staticfiles serve uma árvore de arquivos estáticos sob o diretório
// public/ da raiz de conteúdo.
//
// Responsabilidades: resolução de caminho com guarda contra traversal,
// allow-list de extensões, Content-Type por extensão, listagem de diretórios
// (nome/tamanho/acessos, com filtro de visibilidade na raiz), redirect 301
// para diretório sem barra final e páginas de erro HTML.
//
// A admissão (rate limit) acontece antes, no middleware; quando a requisição
// chega aqui ela já foi admitida.
package staticfiles
