package fs

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/fwojciec/docschema"
)

// LoadFieldSet reads a field list file with one field name per line.
// Returns ENOTFOUND if the file does not exist.
func LoadFieldSet(path string) (*docschema.FieldSet, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, docschema.Errorf(docschema.ENOTFOUND, "field list %q not found", path)
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return docschema.ParseFieldSet(f)
}

// FieldSetWatcher reloads a field list file into a holder whenever the file
// changes. A file that fails to load leaves the previous snapshot in place.
type FieldSetWatcher struct {
	path     string
	holder   *docschema.FieldSetHolder
	onReload func(*docschema.FieldSet, error)
	watcher  *fsnotify.Watcher
}

// WatcherOption configures a FieldSetWatcher.
type WatcherOption func(*FieldSetWatcher)

// WithReloadHook is called after every reload attempt with the new snapshot
// or the load error.
func WithReloadHook(fn func(*docschema.FieldSet, error)) WatcherOption {
	return func(w *FieldSetWatcher) {
		w.onReload = fn
	}
}

// NewFieldSetWatcher creates a watcher of path publishing into holder.
func NewFieldSetWatcher(path string, holder *docschema.FieldSetHolder, opts ...WatcherOption) *FieldSetWatcher {
	w := &FieldSetWatcher{
		path:     filepath.Clean(path),
		holder:   holder,
		onReload: func(*docschema.FieldSet, error) {},
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Open starts watching. The directory of the file is watched so that
// editors replacing the file are noticed.
func (w *FieldSetWatcher) Open() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(w.path)); err != nil {
		watcher.Close()
		return err
	}
	w.watcher = watcher
	return nil
}

// Close stops watching.
func (w *FieldSetWatcher) Close() error {
	if w.watcher != nil {
		return w.watcher.Close()
	}
	return nil
}

// Run processes file events until ctx is done or the watcher is closed.
func (w *FieldSetWatcher) Run(ctx context.Context) error {
	if w.watcher == nil {
		return docschema.Errorf(docschema.EINVALID, "field list watcher not open")
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if w.handleEvent(event) {
				w.reload()
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.onReload(nil, err)
		}
	}
}

// handleEvent reports whether event changed the content of the file.
func (w *FieldSetWatcher) handleEvent(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create)
}

func (w *FieldSetWatcher) reload() {
	set, err := LoadFieldSet(w.path)
	if err != nil {
		w.onReload(nil, err)
		return
	}
	w.holder.Store(set)
	w.onReload(set, nil)
}
