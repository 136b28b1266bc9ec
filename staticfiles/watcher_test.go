package staticfiles

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatchRules_ReloadsOnFileChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	if err := os.WriteFile(path, []byte("allowed_extensions: [.html]\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	r, err := LoadRules(path)
	if err != nil {
		t.Fatalf("LoadRules: %v", err)
	}
	store := NewRulesStore(r)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := WatchRules(ctx, path, store, log.New(os.Stderr, "", 0)); err != nil {
		t.Fatalf("WatchRules: %v", err)
	}

	if store.ExtensionAllowed(".txt") {
		t.Fatalf("expected .txt rejected before reload")
	}

	if err := os.WriteFile(path, []byte("allowed_extensions: [.txt]\n"), 0o644); err != nil {
		t.Fatalf("rewrite: %v", err)
	}

	// espera o debounce + reload (best-effort, com folga)
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if store.ExtensionAllowed(".txt") && !store.ExtensionAllowed(".html") {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("expected rules to be reloaded after file change")
}

func TestWatchRules_InvalidFileKeepsPreviousRules(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	if err := os.WriteFile(path, []byte("allowed_extensions: [.html]\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	r, err := LoadRules(path)
	if err != nil {
		t.Fatalf("LoadRules: %v", err)
	}
	store := NewRulesStore(r)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := WatchRules(ctx, path, store, log.New(os.Stderr, "", 0)); err != nil {
		t.Fatalf("WatchRules: %v", err)
	}

	// YAML inválido: reload falha e as regras antigas continuam valendo
	if err := os.WriteFile(path, []byte(":- isso nao eh yaml: ["), 0o644); err != nil {
		t.Fatalf("rewrite: %v", err)
	}

	time.Sleep(500 * time.Millisecond)
	if !store.ExtensionAllowed(".html") {
		t.Fatalf("expected previous rules to survive a failed reload")
	}
}
