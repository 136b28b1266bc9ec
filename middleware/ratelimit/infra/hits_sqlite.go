package infra

import (
	"database/sql"
	"fmt"
	"sync"

	_ "modernc.org/sqlite" // driver SQLite puro-Go
)

// SQLiteHitStore persiste os acessos por caminho em SQLite, para que a coluna
// "Hits" da listagem sobreviva a restarts. O estado do limitador em si nunca é
// persistido; isto aqui é só dado de relatório.
//
// O cache em memória é a fonte da verdade durante a execução; a escrita no
// banco é best-effort (um erro de I/O não derruba a requisição).
type SQLiteHitStore struct {
	mu    sync.Mutex
	db    *sql.DB
	cache map[string]int64
	bump  *sql.Stmt
}

func NewSQLiteHitStore(dbPath string) (*SQLiteHitStore, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("sqlite hit store: db path cannot be empty")
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite hit store: open: %w", err)
	}
	// SQLite só suporta um escritor
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA synchronous=NORMAL;",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("sqlite hit store: %s: %w", pragma, err)
		}
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS hits (
		path  TEXT PRIMARY KEY,
		count INTEGER NOT NULL
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite hit store: schema: %w", err)
	}

	bump, err := db.Prepare(`INSERT INTO hits(path, count) VALUES(?, 1)
		ON CONFLICT(path) DO UPDATE SET count = count + 1`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite hit store: prepare: %w", err)
	}

	s := &SQLiteHitStore{db: db, cache: make(map[string]int64), bump: bump}
	if err := s.load(); err != nil {
		bump.Close()
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteHitStore) load() error {
	rows, err := s.db.Query(`SELECT path, count FROM hits`)
	if err != nil {
		return fmt.Errorf("sqlite hit store: load: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var path string
		var count int64
		if err := rows.Scan(&path, &count); err != nil {
			return fmt.Errorf("sqlite hit store: scan: %w", err)
		}
		s.cache[path] = count
	}
	return rows.Err()
}

func (s *SQLiteHitStore) Bump(path string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache[path]++
	total := s.cache[path]
	_, _ = s.bump.Exec(path)
	return total
}

func (s *SQLiteHitStore) Get(path string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache[path]
}

func (s *SQLiteHitStore) Snapshot() map[string]int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]int64, len(s.cache))
	for k, v := range s.cache {
		out[k] = v
	}
	return out
}

func (s *SQLiteHitStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.bump.Close(); err != nil {
		s.db.Close()
		return err
	}
	return s.db.Close()
}
