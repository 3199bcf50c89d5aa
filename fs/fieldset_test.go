package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fwojciec/docschema"
	"github.com/fwojciec/docschema/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFieldSet(t *testing.T) {
	t.Parallel()

	t.Run("loads field names", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "fields.txt")
		require.NoError(t, os.WriteFile(path, []byte("title\n# author\ntext_t\n"), 0644))

		set, err := fs.LoadFieldSet(path)

		require.NoError(t, err)
		assert.Equal(t, []string{"text_t", "title"}, set.Names())
	})

	t.Run("returns ENOTFOUND for missing file", func(t *testing.T) {
		t.Parallel()

		_, err := fs.LoadFieldSet(filepath.Join(t.TempDir(), "missing.txt"))

		assert.Equal(t, docschema.ENOTFOUND, docschema.ErrorCode(err))
	})
}

func TestFieldSetWatcher(t *testing.T) {
	t.Parallel()

	start := func(t *testing.T, w *fs.FieldSetWatcher) {
		t.Helper()
		require.NoError(t, w.Open())
		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan struct{})
		go func() {
			defer close(done)
			_ = w.Run(ctx)
		}()
		t.Cleanup(func() {
			cancel()
			<-done
			w.Close()
		})
	}

	t.Run("publishes the rewritten file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "fields.txt")
		require.NoError(t, os.WriteFile(path, []byte("title\n"), 0644))
		holder := docschema.NewFieldSetHolder(docschema.NewFieldSet("title"))
		start(t, fs.NewFieldSetWatcher(path, holder))

		require.NoError(t, os.WriteFile(path, []byte("title\nauthor\n"), 0644))

		require.Eventually(t, func() bool {
			return holder.Load().Contains("author")
		}, 2*time.Second, 10*time.Millisecond)
	})

	t.Run("picks up a file created after start", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "fields.txt")
		holder := docschema.NewFieldSetHolder(nil)
		start(t, fs.NewFieldSetWatcher(path, holder))

		require.NoError(t, os.WriteFile(path, []byte("sku\n"), 0644))

		require.Eventually(t, func() bool {
			return holder.Load().Contains("sku")
		}, 2*time.Second, 10*time.Millisecond)
	})

	t.Run("ignores other files in the directory", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := filepath.Join(dir, "fields.txt")
		require.NoError(t, os.WriteFile(path, []byte("title\n"), 0644))
		holder := docschema.NewFieldSetHolder(docschema.NewFieldSet("title"))

		var mu sync.Mutex
		reloads := 0
		start(t, fs.NewFieldSetWatcher(path, holder, fs.WithReloadHook(func(*docschema.FieldSet, error) {
			mu.Lock()
			reloads++
			mu.Unlock()
		})))

		require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("author\n"), 0644))
		time.Sleep(100 * time.Millisecond)

		mu.Lock()
		defer mu.Unlock()
		assert.Zero(t, reloads)
		assert.Equal(t, []string{"title"}, holder.Load().Names())
	})

	t.Run("run requires open", func(t *testing.T) {
		t.Parallel()

		w := fs.NewFieldSetWatcher(filepath.Join(t.TempDir(), "fields.txt"), docschema.NewFieldSetHolder(nil))

		err := w.Run(context.Background())

		assert.Equal(t, docschema.EINVALID, docschema.ErrorCode(err))
	})
}
