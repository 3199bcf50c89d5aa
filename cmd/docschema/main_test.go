package main_test

import (
	"bytes"
	"context"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/fwojciec/docschema"
	main "github.com/fwojciec/docschema/cmd/docschema"
	"github.com/fwojciec/docschema/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPage = `<html><head><title>Hello</title></head><body><h1>Greeting</h1><p>hello world</p></body></html>`

func htmlFetcher(body string) *mock.Fetcher {
	return &mock.Fetcher{
		FetchFn: func(_ context.Context, url string) (*docschema.FetchResult, error) {
			return &docschema.FetchResult{
				URL:  url,
				Body: body,
				Response: &docschema.Response{
					StatusCode: http.StatusOK,
					Header:     http.Header{"Content-Type": {"text/html"}},
				},
			}, nil
		},
		CloseFn: func() error { return nil },
	}
}

// writeFile creates a file under a fresh temp directory and returns its path.
func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func missingConfig(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "missing.toml")
}

func TestMain_Run_NoArgsShowsHelp(t *testing.T) {
	t.Parallel()

	stdout := &bytes.Buffer{}
	err := main.NewMain().Run(context.Background(), nil, stdout, &bytes.Buffer{})

	require.Error(t, err)
	assert.Contains(t, stdout.String(), "Usage:")
}

func TestMain_Run_MapPrintsRecord(t *testing.T) {
	t.Parallel()

	fields := writeFile(t, "fields.txt", "title\n# text_t\nattr_h1\n")

	m := main.NewMain()
	m.Fetcher = htmlFetcher(testPage)

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	err := m.Run(context.Background(), []string{
		"--config", missingConfig(t),
		"--fields", fields,
		"--extractor", "none",
		"map", "https://example.com/hello",
	}, stdout, stderr)

	require.NoError(t, err, stderr.String())
	out := stdout.String()
	assert.Contains(t, out, `"title": "Hello"`)
	assert.Contains(t, out, `"attr_h1": [`)
	assert.Contains(t, out, `"Greeting"`)
	assert.NotContains(t, out, `"text_t"`)
	assert.NotContains(t, out, `"host_s"`)
}

func TestMain_Run_MapFromFile(t *testing.T) {
	t.Parallel()

	page := writeFile(t, "page.html", testPage)
	fields := writeFile(t, "fields.txt", "title\n")

	m := main.NewMain()
	m.Fetcher = &mock.Fetcher{CloseFn: func() error { return nil }}

	stdout := &bytes.Buffer{}
	err := m.Run(context.Background(), []string{
		"--config", missingConfig(t),
		"--fields", fields,
		"--extractor", "none",
		"map", "--file", page, "https://example.com/hello",
	}, stdout, &bytes.Buffer{})

	require.NoError(t, err)
	assert.Contains(t, stdout.String(), `"title": "Hello"`)
}

func TestMain_Run_IndexStoresRecords(t *testing.T) {
	t.Parallel()

	fields := writeFile(t, "fields.txt", "title\n")

	var mu sync.Mutex
	var stored []*docschema.Record
	m := main.NewMain()
	m.Fetcher = htmlFetcher(testPage)
	m.RecordService = &mock.RecordService{
		PutRecordFn: func(_ context.Context, rec *docschema.Record) error {
			mu.Lock()
			defer mu.Unlock()
			stored = append(stored, rec)
			return nil
		},
	}

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	err := m.Run(context.Background(), []string{
		"--config", missingConfig(t),
		"--fields", fields,
		"--extractor", "none",
		"index", "https://example.com/a", "https://example.com/b", "https://example.com/a",
	}, stdout, stderr)

	require.NoError(t, err, stderr.String())
	assert.Len(t, stored, 2)
	assert.Contains(t, stdout.String(), "Indexed 2 documents")
	assert.Contains(t, stdout.String(), "1 duplicates")
}

func TestMain_Run_RejectsInvalidConfig(t *testing.T) {
	t.Parallel()

	cfg := writeFile(t, "docschema.toml", "[crawl]\nconcurrency = 0\n")

	stderr := &bytes.Buffer{}
	err := main.NewMain().Run(context.Background(), []string{"--config", cfg, "fields"}, &bytes.Buffer{}, stderr)

	require.Error(t, err)
	assert.Equal(t, docschema.EINVALID, docschema.ErrorCode(err))
	assert.Contains(t, stderr.String(), "error:")
}

func TestMain_Run_MissingFieldsFile(t *testing.T) {
	t.Parallel()

	err := main.NewMain().Run(context.Background(), []string{
		"--config", missingConfig(t),
		"--fields", filepath.Join(t.TempDir(), "nope.txt"),
		"fields",
	}, &bytes.Buffer{}, &bytes.Buffer{})

	assert.Equal(t, docschema.ENOTFOUND, docschema.ErrorCode(err))
}

func TestMain_Run_ConfigPrintsEffectiveSettings(t *testing.T) {
	t.Parallel()

	cfg := writeFile(t, "docschema.toml", "db = \"records.db\"\n\n[crawl]\nconcurrency = 4\n")

	stdout := &bytes.Buffer{}
	err := main.NewMain().Run(context.Background(), []string{"--config", cfg, "--db", "override.db", "config"}, stdout, &bytes.Buffer{})

	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "override.db")
	assert.Contains(t, stdout.String(), "concurrency = 4")
}
