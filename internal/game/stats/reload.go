package stats

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/afero"
)

// Reloadable is a Catalog whose backing table can be swapped while the server
// is running. A failed reload keeps the previous table.
type Reloadable struct {
	mu    sync.RWMutex
	table *Table
	fs    afero.Fs
	dir   string
}

// NewReloadable loads the catalog from dir.
func NewReloadable(fs afero.Fs, dir string) (*Reloadable, error) {
	t, err := Load(fs, dir)
	if err != nil {
		return nil, err
	}
	return &Reloadable{table: t, fs: fs, dir: dir}, nil
}

// Reload re-reads the CSV files.
func (r *Reloadable) Reload() error {
	t, err := Load(r.fs, r.dir)
	if err != nil {
		return err
	}
	r.mu.Lock()
	r.table = t
	r.mu.Unlock()
	return nil
}

func (r *Reloadable) current() *Table {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.table
}

func (r *Reloadable) Properties(unitType string) (Properties, bool) {
	return r.current().Properties(unitType)
}

func (r *Reloadable) Types() []string { return r.current().Types() }

func (r *Reloadable) AttackStrength(a, d string) float64 { return r.current().AttackStrength(a, d) }

func (r *Reloadable) DefenceStrength(a, d string) float64 { return r.current().DefenceStrength(a, d) }

func (r *Reloadable) DodgeChance(a, d string) float64 { return r.current().DodgeChance(a, d) }

func (r *Reloadable) Data() Data { return r.current().Data() }

// Watch reloads the catalog whenever one of its CSV files changes on disk.
// It blocks until ctx is cancelled.
func (r *Reloadable) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create stats watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(r.dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", r.dir, err)
	}
	slog.Debug("Watching stat catalog for changes", "directory", r.dir)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			r.handleEvent(event)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("Stats watcher error", "error", err)
		}
	}
}

func (r *Reloadable) handleEvent(event fsnotify.Event) {
	if filepath.Ext(event.Name) != ".csv" {
		return
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}
	if err := r.Reload(); err != nil {
		slog.Error("Failed to reload stat catalog, keeping previous", "path", event.Name, "error", err)
		return
	}
	slog.Info("Reloaded stat catalog", "path", event.Name, "types", len(r.Types()))
}
