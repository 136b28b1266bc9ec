package staticfiles

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"fileserver-gateway/middleware/ratelimit/domain"
	"fileserver-gateway/middleware/ratelimit/infra"
)

func init() {
	// garante os tipos comuns mesmo sem tabela de MIME do sistema
	_ = mime.AddExtensionType(".pdf", "application/pdf")
	_ = mime.AddExtensionType(".png", "image/png")
	_ = mime.AddExtensionType(".jpg", "image/jpeg")
	_ = mime.AddExtensionType(".html", "text/html; charset=utf-8")
}

// Handler serve a árvore <contentDir>/public. Uma instância, compartilhada por
// todas as conexões; todo estado mutável fica nos stores injetados.
type Handler struct {
	root     string // diretório public
	rootReal string // public com symlinks resolvidos, para a guarda de traversal
	rules    *RulesStore
	hits     domain.HitStore
}

type Option func(*Handler)

func WithRules(rs *RulesStore) Option {
	return func(h *Handler) { h.rules = rs }
}

func WithHits(hs domain.HitStore) Option {
	return func(h *Handler) { h.hits = hs }
}

func NewHandler(contentDir string, opts ...Option) (*Handler, error) {
	root := filepath.Join(contentDir, "public")
	fi, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("staticfiles: %s: %w", root, err)
	}
	if !fi.IsDir() {
		return nil, fmt.Errorf("staticfiles: %s is not a directory", root)
	}

	rootReal, err := filepath.EvalSymlinks(root)
	if err != nil {
		return nil, fmt.Errorf("staticfiles: resolve %s: %w", root, err)
	}

	h := &Handler{
		root:     root,
		rootReal: rootReal,
		rules:    NewRulesStore(DefaultRules()),
		hits:     infra.NewMemoryHitStore(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "Only GET and HEAD are allowed", http.StatusMethodNotAllowed)
		return
	}

	reqPath := cleanRequestPath(r.URL.Path)
	h.hits.Bump(reqPath)

	abs, ok := h.resolve(reqPath)
	if !ok {
		h.notFound(w, r)
		return
	}

	fi, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			h.notFound(w, r)
			return
		}
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if fi.IsDir() {
		if !strings.HasSuffix(reqPath, "/") {
			http.Redirect(w, r, reqPath+"/", http.StatusMovedPermanently)
			return
		}
		h.serveListing(w, r, reqPath, abs)
		return
	}

	h.serveFile(w, r, abs, fi)
}

// cleanRequestPath normaliza o caminho pedido preservando a barra final,
// que distingue listagem de redirect.
func cleanRequestPath(p string) string {
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	trailing := strings.HasSuffix(p, "/")
	p = path.Clean(p)
	if trailing && p != "/" {
		p += "/"
	}
	return p
}

// resolve mapeia o caminho da requisição para o filesystem e garante que o
// resultado continua sob a raiz, mesmo atravessando symlinks.
func (h *Handler) resolve(reqPath string) (string, bool) {
	abs := filepath.Join(h.root, filepath.FromSlash(strings.TrimPrefix(reqPath, "/")))

	real := abs
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		real = resolved
	}

	rel, err := filepath.Rel(h.rootReal, real)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return abs, true
}

func (h *Handler) serveFile(w http.ResponseWriter, r *http.Request, abs string, fi os.FileInfo) {
	ext := strings.ToLower(filepath.Ext(abs))
	if !h.rules.ExtensionAllowed(ext) {
		h.notFound(w, r)
		return
	}
	ctype := mime.TypeByExtension(ext)
	if ctype == "" {
		h.notFound(w, r)
		return
	}

	f, err := os.Open(abs)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", ctype)
	w.Header().Set("Content-Length", strconv.FormatInt(fi.Size(), 10))
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	_, _ = io.Copy(w, f)
}

func (h *Handler) serveListing(w http.ResponseWriter, r *http.Request, reqPath, absDir string) {
	body, err := h.renderListing(reqPath, absDir)
	if err != nil {
		respondHTML(w, r, http.StatusForbidden, forbiddenBody)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	_, _ = w.Write(body)
}

func (h *Handler) notFound(w http.ResponseWriter, r *http.Request) {
	respondHTML(w, r, http.StatusNotFound, notFoundBody)
}

func respondHTML(w http.ResponseWriter, r *http.Request, status int, body string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(status)
	if r.Method == http.MethodHead {
		return
	}
	_, _ = io.WriteString(w, body)
}
