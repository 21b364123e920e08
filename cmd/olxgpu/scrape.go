package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/fwojciec/olxgpu"
	"github.com/fwojciec/olxgpu/crawl"
	"github.com/fwojciec/olxgpu/csv"
	"github.com/fwojciec/olxgpu/fs"
	"github.com/fwojciec/olxgpu/jsonl"
	"golang.org/x/sync/errgroup"
)

// maxLogURL caps the length of URLs in progress logs.
const maxLogURL = 80

// Run executes the scrape command.
func (c *ScrapeCmd) Run(deps *Dependencies) error {
	cfg := deps.Config

	newWriter, err := writerFor(c.Format, c.Output)
	if err != nil {
		return err
	}

	started := deps.Now()
	logger := deps.Logger

	var run *olxgpu.Run
	if deps.Runs != nil {
		run = &olxgpu.Run{BaseURL: cfg.BaseURL, PageLimit: cfg.PageLimit}
		if err := deps.Runs.CreateRun(deps.Ctx, run); err != nil {
			return fmt.Errorf("create run: %w", err)
		}
		logger.Debug("run created", "id", run.ID)
	}

	res, crawlErr := deps.Crawler.Crawl(deps.Ctx, cfg.BaseURL, func(ev crawl.ProgressEvent) {
		switch ev.Type {
		case crawl.ProgressPage:
			logger.Info("page", "page", ev.Page, "url", crawl.TruncateURL(ev.URL, maxLogURL), "listings", ev.Listings)
		case crawl.ProgressOfferFailed:
			logger.Warn("offer", "page", ev.Page, "title", ev.Title, "err", ev.Error)
		case crawl.ProgressFetchFailed:
			logger.Error("fetch failed, stopping", "page", ev.Page, "url", ev.URL, "err", ev.Error)
		}
	})
	if res == nil {
		return crawlErr
	}

	upd := olxgpu.RunUpdate{
		PagesVisited: res.PagesVisited,
		Listings:     len(res.Listings),
		Skipped:      res.Skipped,
		Failures:     res.Failures,
	}
	switch {
	case crawlErr != nil:
		upd.Error = crawlErr.Error()
	case res.Err != nil:
		upd.Error = res.Err.Error()
	}

	// Partial results are still written after cancellation.
	ctx := context.WithoutCancel(deps.Ctx)

	var path string
	var duplicates int
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := fs.Export(c.Output, started, newWriter, res.Listings)
		if err != nil {
			return fmt.Errorf("export: %w", err)
		}
		path = p
		return nil
	})
	if run != nil {
		g.Go(func() error {
			if err := deps.Listings.CreateListings(gctx, run.ID, res.Listings); err != nil {
				return fmt.Errorf("store listings: %w", err)
			}
			if _, err := deps.Runs.FinishRun(gctx, run.ID, upd); err != nil {
				return fmt.Errorf("finish run: %w", err)
			}
			n, err := deps.Listings.CountDuplicates(gctx, run.ID)
			if err != nil {
				return fmt.Errorf("count duplicates: %w", err)
			}
			duplicates = n
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	logger.Info("scrape finished",
		"pages", res.PagesVisited,
		"listings", len(res.Listings),
		"skipped", res.Skipped,
		"failures", res.Failures,
		"duplicates", duplicates,
		"output", path,
	)

	fmt.Fprintf(deps.Stdout, "Visited %d pages, extracted %d listings (%d barter skipped, %d failed)\n",
		res.PagesVisited, len(res.Listings), res.Skipped, res.Failures)
	if run != nil {
		fmt.Fprintf(deps.Stdout, "Run %s (%d duplicate listings)\n", run.ID, duplicates)
	}
	fmt.Fprintf(deps.Stdout, "Wrote %s\n", path)

	if crawlErr != nil {
		return crawlErr
	}
	return nil
}

// writerFor picks the export format. "auto" decides by the output extension
// and falls back to CSV.
func writerFor(format, output string) (fs.WriterFunc, error) {
	if format == "" || format == "auto" {
		format = "csv"
		if ext := strings.ToLower(filepath.Ext(output)); ext == ".jsonl" || ext == ".ndjson" {
			format = "jsonl"
		}
	}
	switch format {
	case "csv":
		return func(w io.Writer) olxgpu.ListingWriter { return csv.NewListingWriter(w) }, nil
	case "jsonl":
		return func(w io.Writer) olxgpu.ListingWriter { return jsonl.NewListingWriter(w) }, nil
	default:
		return nil, olxgpu.Errorf(olxgpu.EINVALID, "unknown export format %q", format)
	}
}

// readerFor opens the listing reader matching the file extension.
func readerFor(path string, r io.Reader) olxgpu.ListingReader {
	if ext := strings.ToLower(filepath.Ext(path)); ext == ".jsonl" || ext == ".ndjson" {
		return jsonl.NewListingReader(r)
	}
	return csv.NewListingReader(r)
}
