package main

import (
	"fmt"
	"os"
	"path/filepath"
)

// Gera uma árvore de conteúdo de exemplo para validar o fileserver na mão:
//
//	go run ./teste-validacao/gera-conteudo ./conteudo
//	go run ./cmd/fileserver ./conteudo
func main() {
	dir := "./conteudo"
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}

	files := map[string]string{
		"public/index.html":       "<h1>Bem-vindo</h1><p><a href=\"/books/\">books</a></p>",
		"public/sobre.html":       "<h1>Sobre</h1>",
		"public/notas.txt":        "extensão não permitida, deve dar 404",
		"public/books/guia.html":  "<h1>Guia</h1>",
		"public/books/capa.png":   "png de mentira",
		"segredo.txt":             "fora de public/, nunca deve ser servido",
	}
	for name, body := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			fmt.Printf("Erro criando diretório: %s\n", err)
			os.Exit(1)
		}
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			fmt.Printf("Erro escrevendo %s: %s\n", name, err)
			os.Exit(1)
		}
	}

	rules := `visible_files:
  - index.html
  - sobre.html
visible_dirs:
  - books
allowed_extensions:
  - .html
  - .png
  - .jpg
  - .pdf
`
	if err := os.WriteFile(filepath.Join(dir, "rules.yaml"), []byte(rules), 0o644); err != nil {
		fmt.Printf("Erro escrevendo rules.yaml: %s\n", err)
		os.Exit(1)
	}

	fmt.Printf("Conteúdo de exemplo gerado em %s\n", dir)
}
