package infra

import "sync"

// MemoryHitStore acumula acessos por caminho em memória.
//
// Não faz expiração: o conjunto de caminhos servidos é finito (a árvore de
// arquivos), então o mapa não cresce sem limite.
type MemoryHitStore struct {
	mu   sync.Mutex
	hits map[string]int64
}

func NewMemoryHitStore() *MemoryHitStore {
	return &MemoryHitStore{hits: make(map[string]int64)}
}

func (s *MemoryHitStore) Bump(path string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hits[path]++
	return s.hits[path]
}

func (s *MemoryHitStore) Get(path string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[path]
}

func (s *MemoryHitStore) Snapshot() map[string]int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]int64, len(s.hits))
	for k, v := range s.hits {
		out[k] = v
	}
	return out
}
