package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fwojciec/docschema"
	"github.com/fwojciec/docschema/crawl"
	"github.com/fwojciec/docschema/fs"
)

// Run executes the index command.
func (c *IndexCmd) Run(deps *Dependencies) error {
	ix := deps.Indexer
	ix.Records = deps.Records
	ix.RecordFailures = c.RecordFailures
	if c.Concurrency > 0 {
		ix.Concurrency = c.Concurrency
	}

	var store *fs.FileStore
	switch {
	case c.JSONL == "-":
		ix.Writer = fs.NewWriter(deps.Stdout)
	case c.JSONL != "":
		f, err := os.OpenFile(c.JSONL, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %v\n", err)
			return err
		}
		defer f.Close()
		ix.Writer = fs.NewWriter(f)
	case c.Dir != "":
		dir := filepath.Clean(c.Dir)
		store = fs.NewFileStore(filepath.Dir(dir), filepath.Base(dir))
		ix.Writer = store
	}

	// Progress goes to stderr when records are streamed to stdout.
	out := deps.Stdout
	if c.JSONL == "-" {
		out = deps.Stderr
	}

	progress := func(event crawl.ProgressEvent) {
		switch event.Type {
		case crawl.ProgressStarted:
			fmt.Fprintf(out, "  Indexing %d URLs\n", event.Total)
		case crawl.ProgressFailed:
			fmt.Fprintf(deps.Stderr, "  skip %s: %s\n", crawl.TruncateURL(event.URL, 80), docschema.ErrorMessage(event.Error))
		case crawl.ProgressSkipped:
			fmt.Fprintf(deps.Stderr, "  duplicate %s\n", crawl.TruncateURL(event.URL, 80))
		}
	}

	result, err := ix.Index(deps.Ctx, c.URLs, progress)
	if err != nil {
		if store != nil {
			_ = store.Abort()
		}
		fmt.Fprintf(deps.Stderr, "error indexing: %v\n", err)
		return err
	}

	if store != nil {
		if err := commitStore(store, result); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %v\n", err)
			return err
		}
	}

	printSummary(out, result)
	return nil
}

// commitStore publishes the record files, or discards them when nothing was
// written.
func commitStore(store *fs.FileStore, result *crawl.Result) error {
	if result.Indexed == 0 {
		return store.Abort()
	}
	return store.Commit()
}

func printSummary(w io.Writer, result *crawl.Result) {
	fmt.Fprintf(w, "  Indexed %d documents (%s)", result.Indexed, crawl.FormatBytes(result.Bytes))
	if result.Failed > 0 {
		fmt.Fprintf(w, ", %d failed", result.Failed)
	}
	if result.Skipped > 0 {
		fmt.Fprintf(w, ", %d duplicates", result.Skipped)
	}
	fmt.Fprintln(w)
}
