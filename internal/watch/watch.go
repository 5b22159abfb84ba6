// ABOUTME: Watches a design file and recomputes the design whenever it settles
// ABOUTME: Rapid saves are debounced and the file is reread, so the last write wins

package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/Simtestlab/bess-handbook/models"
	"github.com/Simtestlab/bess-handbook/services"
)

// DefaultDebounce is how long a file must be quiet before it is reread
const DefaultDebounce = 300 * time.Millisecond

// LoadFunc reads a design from a file
type LoadFunc func(path string) (models.DesignInput, error)

// Update is one evaluation of the watched file. Err is set when the file
// could not be read or the design failed validation.
type Update struct {
	Path   string
	Input  models.DesignInput
	Result models.DerivedResult
	Err    error
	At     time.Time
}

// Watcher recomputes a single design file on change
type Watcher struct {
	path     string
	engine   services.Computer
	load     LoadFunc
	debounce time.Duration
}

// New creates a watcher for path. A nil load uses models.ReadDesignFile.
func New(path string, engine services.Computer, load LoadFunc) *Watcher {
	if load == nil {
		load = models.ReadDesignFile
	}
	return &Watcher{
		path:     path,
		engine:   engine,
		load:     load,
		debounce: DefaultDebounce,
	}
}

// SetDebounce changes the quiet period before a change is processed
func (w *Watcher) SetDebounce(d time.Duration) {
	if d > 0 {
		w.debounce = d
	}
}

// Run evaluates the file once, then again after every settled change, until
// ctx is cancelled. The parent directory is watched so editors that save by
// renaming a temp file are seen.
func (w *Watcher) Run(ctx context.Context, onUpdate func(Update)) error {
	abs, err := filepath.Abs(w.path)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", w.path, err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}
	slog.Info("Watching design file", "path", abs, "debounce", w.debounce)

	onUpdate(w.evaluate(abs))

	tick := w.debounce / 4
	if tick < 10*time.Millisecond {
		tick = 10 * time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	var pending time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			slog.Debug("Design file changed", "op", event.Op.String())
			pending = time.Now()

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			slog.Warn("File watcher error", "error", err)

		case now := <-ticker.C:
			if pending.IsZero() || now.Sub(pending) < w.debounce {
				continue
			}
			pending = time.Time{}
			onUpdate(w.evaluate(abs))
		}
	}
}

func (w *Watcher) evaluate(path string) Update {
	u := Update{Path: path, At: time.Now()}

	in, err := w.load(path)
	if err != nil {
		u.Err = err
		return u
	}
	u.Input = in

	r, err := w.engine.Compute(in)
	if err != nil {
		u.Err = err
		return u
	}
	u.Result = r
	return u
}
