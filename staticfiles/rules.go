package staticfiles

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Rules controla o que o servidor expõe: extensões servíveis e o filtro de
// visibilidade da listagem na raiz. Listas de visibilidade vazias significam
// "mostrar tudo"; subdiretórios nunca são filtrados.
type Rules struct {
	VisibleFiles      []string `yaml:"visible_files"`
	VisibleDirs       []string `yaml:"visible_dirs"`
	AllowedExtensions []string `yaml:"allowed_extensions"`
}

func DefaultRules() Rules {
	return Rules{
		AllowedExtensions: []string{".html", ".png", ".jpg", ".pdf"},
	}
}

// LoadRules lê um arquivo YAML de regras. allowed_extensions ausente/vazio cai
// no padrão; extensões são normalizadas (minúsculas, com ponto).
func LoadRules(path string) (Rules, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Rules{}, fmt.Errorf("rules: read %s: %w", path, err)
	}

	var r Rules
	if err := yaml.Unmarshal(raw, &r); err != nil {
		return Rules{}, fmt.Errorf("rules: parse %s: %w", path, err)
	}
	if len(r.AllowedExtensions) == 0 {
		r.AllowedExtensions = DefaultRules().AllowedExtensions
	}
	return r, nil
}

type compiledRules struct {
	visibleFiles map[string]struct{}
	visibleDirs  map[string]struct{}
	allowedExts  map[string]struct{}
}

func compileRules(r Rules) compiledRules {
	c := compiledRules{
		visibleFiles: make(map[string]struct{}, len(r.VisibleFiles)),
		visibleDirs:  make(map[string]struct{}, len(r.VisibleDirs)),
		allowedExts:  make(map[string]struct{}, len(r.AllowedExtensions)),
	}
	for _, f := range r.VisibleFiles {
		if f = strings.TrimSpace(f); f != "" {
			c.visibleFiles[f] = struct{}{}
		}
	}
	for _, d := range r.VisibleDirs {
		if d = strings.TrimSpace(d); d != "" {
			c.visibleDirs[d] = struct{}{}
		}
	}
	for _, ext := range r.AllowedExtensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		c.allowedExts[ext] = struct{}{}
	}
	return c
}

// RulesStore guarda as regras vigentes e permite troca atômica (hot reload).
type RulesStore struct {
	mu  sync.RWMutex
	cur compiledRules
}

func NewRulesStore(r Rules) *RulesStore {
	return &RulesStore{cur: compileRules(r)}
}

// Replace troca todas as regras de uma vez; requisições em voo terminam com
// as regras antigas, as próximas enxergam as novas.
func (s *RulesStore) Replace(r Rules) {
	c := compileRules(r)
	s.mu.Lock()
	s.cur = c
	s.mu.Unlock()
}

func (s *RulesStore) ExtensionAllowed(ext string) bool {
	ext = strings.ToLower(ext)
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.cur.allowedExts[ext]
	return ok
}

func (s *RulesStore) VisibleAtRoot(name string, isDir bool) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if isDir {
		if len(s.cur.visibleDirs) == 0 {
			return true
		}
		_, ok := s.cur.visibleDirs[name]
		return ok
	}
	if len(s.cur.visibleFiles) == 0 {
		return true
	}
	_, ok := s.cur.visibleFiles[name]
	return ok
}
