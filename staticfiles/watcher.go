package staticfiles

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const reloadDebounce = 100 * time.Millisecond

// WatchRules observa o arquivo de regras e recarrega a RulesStore quando ele
// muda. Falha de reload mantém as regras anteriores e só loga um aviso.
// A goroutine encerra quando o ctx for cancelado.
func WatchRules(ctx context.Context, path string, store *RulesStore, logger *log.Logger) error {
	if logger == nil {
		logger = log.Default()
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("rules watcher: %w", err)
	}
	// observa o diretório: editores costumam salvar por rename/replace
	if err := w.Add(filepath.Dir(path)); err != nil {
		w.Close()
		return fmt.Errorf("rules watcher: %w", err)
	}
	target := filepath.Clean(path)

	go func() {
		defer w.Close()

		var debounce *time.Timer
		var fire <-chan time.Time

		for {
			select {
			case <-ctx.Done():
				if debounce != nil {
					debounce.Stop()
				}
				return

			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != target {
					continue
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				// debounce: uma gravação costuma gerar rajada de eventos
				if debounce == nil {
					debounce = time.NewTimer(reloadDebounce)
					fire = debounce.C
				} else {
					debounce.Reset(reloadDebounce)
				}

			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				logger.Printf("rules watcher error: %v", err)

			case <-fire:
				r, err := LoadRules(path)
				if err != nil {
					logger.Printf("rules reload failed, keeping previous rules: %v", err)
					continue
				}
				store.Replace(r)
				logger.Printf("rules reloaded from %s", path)
			}
		}
	}()

	return nil
}
