// Package crawl provides the indexing pipeline. It coordinates fetching,
// parsing, metadata enrichment, mapping and storage of index records.
package crawl

import (
	"context"
	"mime"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fwojciec/docschema"
	"github.com/fwojciec/docschema/bloom"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Deduplication filter sizing.
const (
	dedupeExpectedURLs      = 10000
	dedupeFalsePositiveRate = 0.001
)

// DefaultConcurrency is the number of documents processed in parallel when
// Indexer.Concurrency is not set.
const DefaultConcurrency = 10

// DocumentID returns the stable record id of a normalized source URL.
func DocumentID(sku string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(sku)).String()
}

// Indexer fetches documents and turns them into index records.
type Indexer struct {
	Fetcher docschema.Fetcher
	Parser  docschema.Parser

	// Extractor fills bibliographic metadata the parser did not find.
	// Optional.
	Extractor docschema.Extractor

	// Fields holds the current field selection. Each document is mapped
	// with the snapshot loaded when its mapping starts. Nil indexes
	// everything.
	Fields *docschema.FieldSetHolder

	Resolver    docschema.HostResolver  // optional
	RateLimiter docschema.DomainLimiter // optional

	// Records and Writer receive every record. Either may be nil.
	Records docschema.RecordService
	Writer  docschema.RecordWriter

	// RecordFailures stores a record carrying the fail reason for
	// documents that could not be fetched.
	RecordFailures bool

	Concurrency int
	RetryDelays []time.Duration
	Logger      LogFunc
}

// Result holds the outcome of an indexing run.
type Result struct {
	Indexed int
	Failed  int
	Skipped int
	Bytes   int
}

// ProgressEvent reports progress during an indexing run.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	URL       string
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	ProgressSkipped
	ProgressFinished
)

// ProgressFunc is a callback for reporting indexing progress.
type ProgressFunc func(event ProgressEvent)

// indexResult holds the outcome of processing a single URL.
type indexResult struct {
	url   string
	bytes int
	err   error
}

// Index processes urls concurrently. Duplicate URLs, after normalization,
// are skipped. The progress callback, if provided, is called from a single
// goroutine as documents complete.
func (ix *Indexer) Index(ctx context.Context, urls []string, progress ProgressFunc) (*Result, error) {
	if progress == nil {
		progress = func(ProgressEvent) {}
	}

	var result Result
	seen := bloom.NewFilter(max(uint(len(urls)), dedupeExpectedURLs), dedupeFalsePositiveRate)
	queue := make([]string, 0, len(urls))
	for _, raw := range urls {
		sku, err := docschema.NormalizeURL(raw)
		if err != nil {
			result.Failed++
			progress(ProgressEvent{Type: ProgressFailed, URL: raw, Error: err})
			continue
		}
		if seen.TestAndAdd(sku) {
			result.Skipped++
			progress(ProgressEvent{Type: ProgressSkipped, URL: raw})
			continue
		}
		queue = append(queue, sku)
	}

	total := len(queue)
	progress(ProgressEvent{Type: ProgressStarted, Total: total})

	concurrency := ix.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	resultCh := make(chan indexResult, total)
	var completed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	go func() {
		for _, u := range queue {
			g.Go(func() error {
				resultCh <- ix.process(gctx, u)
				return nil
			})
		}
		_ = g.Wait()
		close(resultCh)
	}()

	for r := range resultCh {
		completed.Add(1)
		if r.err != nil {
			result.Failed++
			progress(ProgressEvent{
				Type:      ProgressFailed,
				Completed: int(completed.Load()),
				Total:     total,
				URL:       r.url,
				Error:     r.err,
			})
			continue
		}
		result.Indexed++
		result.Bytes += r.bytes
		progress(ProgressEvent{
			Type:      ProgressCompleted,
			Completed: int(completed.Load()),
			Total:     total,
			URL:       r.url,
		})
	}

	progress(ProgressEvent{Type: ProgressFinished, Completed: total, Total: total})

	if err := ctx.Err(); err != nil {
		return &result, err
	}
	return &result, nil
}

func (ix *Indexer) process(ctx context.Context, sku string) indexResult {
	res, err := ix.fetch(ctx, sku)
	if err != nil {
		if ix.RecordFailures && ctx.Err() == nil {
			if ferr := ix.recordFailure(ctx, sku, err); ferr != nil {
				ix.logf("  failure record %s: %v", sku, ferr)
			}
		}
		return indexResult{url: sku, err: err}
	}

	rec, err := ix.build(ctx, sku, res)
	if err != nil {
		return indexResult{url: sku, err: err}
	}
	if err := ix.store(ctx, rec); err != nil {
		return indexResult{url: sku, err: err}
	}
	return indexResult{url: sku, bytes: len(res.Body)}
}

// IndexURL indexes a single URL and returns its record.
func (ix *Indexer) IndexURL(ctx context.Context, rawURL string) (*docschema.Record, error) {
	sku, err := docschema.NormalizeURL(rawURL)
	if err != nil {
		return nil, err
	}
	res, err := ix.fetch(ctx, sku)
	if err != nil {
		return nil, err
	}
	rec, err := ix.build(ctx, sku, res)
	if err != nil {
		return nil, err
	}
	if err := ix.store(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// MapBody builds the record of a document already in hand.
func (ix *Indexer) MapBody(ctx context.Context, sourceURL string, body string, resp *docschema.Response) (*docschema.Record, error) {
	sku, err := docschema.NormalizeURL(sourceURL)
	if err != nil {
		return nil, err
	}
	return ix.build(ctx, sku, &docschema.FetchResult{URL: sku, Body: body, Response: resp})
}

func (ix *Indexer) fetch(ctx context.Context, sku string) (*docschema.FetchResult, error) {
	if ix.RateLimiter != nil {
		u, err := url.Parse(sku)
		if err != nil {
			return nil, docschema.Errorf(docschema.EINVALID, "invalid URL %q: %v", sku, err)
		}
		if err := ix.RateLimiter.Wait(ctx, u.Host); err != nil {
			return nil, err
		}
	}

	delays := ix.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	return FetchWithRetryDelays(ctx, sku, ix.Fetcher.Fetch, ix.Logger, delays)
}

// build parses the fetched body and maps it with the current field
// selection. The record is keyed by the final URL after redirects.
func (ix *Indexer) build(ctx context.Context, sku string, res *docschema.FetchResult) (*docschema.Record, error) {
	sourceURL := sku
	if res.URL != "" {
		sourceURL = res.URL
	}

	doc, err := ix.Parser.Parse(sourceURL, res.Body)
	if err != nil {
		return nil, err
	}

	if ix.Extractor != nil && res.Body != "" {
		if extracted, err := ix.Extractor.Extract(res.Body); err == nil {
			extracted.Enrich(doc)
		} else {
			ix.logf("  extract %s: %v", sourceURL, err)
		}
	}
	applyContentType(doc, res.Response)

	id, err := recordID(doc.SourceURL)
	if err != nil {
		return nil, err
	}

	var fields *docschema.FieldSet
	if ix.Fields != nil {
		fields = ix.Fields.Load()
	}
	return docschema.NewMapper(fields, ix.Resolver).Map(ctx, id, res.Response, doc)
}

func (ix *Indexer) store(ctx context.Context, rec *docschema.Record) error {
	if ix.Records != nil {
		if err := ix.Records.PutRecord(ctx, rec); err != nil {
			return err
		}
	}
	if ix.Writer != nil {
		if err := ix.Writer.WriteRecord(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}

// recordFailure stores a record of a document that could not be fetched.
// A later successful mapping of the same URL clears the fail reason.
func (ix *Indexer) recordFailure(ctx context.Context, sku string, cause error) error {
	var fields *docschema.FieldSet
	if ix.Fields != nil {
		fields = ix.Fields.Load()
	}

	rec := docschema.NewRecord()
	rec.Set(docschema.FieldID, docschema.StringValue(DocumentID(sku)))
	rec.Set(docschema.FieldSKU, docschema.BoostedValue(sku, docschema.SKUBoost))
	if docschema.Enabled(fields, docschema.FieldFailReason) {
		rec.Set(docschema.FieldFailReason, docschema.StringValue(cause.Error()))
	}
	if u, err := url.Parse(sku); err == nil && docschema.Enabled(fields, docschema.FieldHost) {
		rec.Set(docschema.FieldHost, docschema.StringValue(u.Hostname()))
	}
	return ix.store(ctx, rec)
}

func (ix *Indexer) logf(format string, args ...any) {
	if ix.Logger != nil {
		ix.Logger(format, args...)
	}
}

func recordID(sourceURL string) (string, error) {
	sku, err := docschema.NormalizeURL(sourceURL)
	if err != nil {
		return "", err
	}
	return DocumentID(sku), nil
}

// applyContentType fills the format and charset of doc from the
// Content-Type response header when the document did not declare them.
func applyContentType(doc *docschema.Document, resp *docschema.Response) {
	ct := resp.HeaderValue("Content-Type", "")
	if ct == "" {
		return
	}
	mediaType, params, err := mime.ParseMediaType(ct)
	if err != nil {
		return
	}
	if doc.Format == "" {
		doc.Format = strings.ToLower(mediaType)
	}
	if doc.Charset == "" {
		doc.Charset = params["charset"]
	}
}
