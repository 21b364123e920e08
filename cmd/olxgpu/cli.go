package main

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/fwojciec/olxgpu"
	"github.com/fwojciec/olxgpu/crawl"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx      context.Context
	Stdout   io.Writer
	Stderr   io.Writer
	Stdin    io.Reader
	Logger   *slog.Logger
	Config   olxgpu.Config
	Runs     olxgpu.RunService
	Listings olxgpu.ListingService
	Crawler  *crawl.Crawler
	Resolver olxgpu.ModelResolver
	Now      func() time.Time
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose  bool   `short:"v" help:"Log debug output"`
	DB       string `name:"db" help:"SQLite database path" env:"OLXGPU_DB"`
	Postgres string `help:"PostgreSQL DSN; stores runs in PostgreSQL instead of SQLite" env:"OLXGPU_POSTGRES"`
	Catalog  string `help:"Model catalog CSV (defaults to the built-in catalog)"`

	Scrape  ScrapeCmd  `cmd:"" help:"Crawl listing pages and export the resolved listings"`
	Resolve ResolveCmd `cmd:"" help:"Resolve offer titles to catalog models"`
	Runs    RunsCmd    `cmd:"" help:"List or delete stored scrape runs"`
	Stats   StatsCmd   `cmd:"" help:"Summarize prices per model"`
}

// ScrapeCmd is the "scrape" subcommand.
type ScrapeCmd struct {
	BaseURL   string        `name:"url" short:"u" default:"${base_url}" help:"First results page"`
	PageLimit int           `name:"pages" short:"p" default:"${page_limit}" help:"Maximum number of pages to visit"`
	Delay     time.Duration `default:"${delay}" help:"Pause before every request to the same host"`
	Retries   int           `default:"${retries}" help:"Fetch attempts per page"`
	Timeout   time.Duration `default:"10s" help:"HTTP timeout per request"`
	Output    string        `short:"o" default:"adverts_{datetime}.csv" help:"Export file; {datetime} is replaced by the start time"`
	Format    string        `short:"f" enum:"auto,csv,jsonl" default:"auto" help:"Export format (auto picks by file extension)"`
	NoStore   bool          `help:"Do not record the run in the database"`

	SkipVisited bool `help:"Stop when the next page link points to a page already fetched"`
}

// ResolveCmd is the "resolve" subcommand.
type ResolveCmd struct {
	Titles []string `arg:"" optional:"" help:"Offer titles (read from stdin, one per line, when omitted)"`
}

// RunsCmd is the "runs" subcommand.
type RunsCmd struct {
	Limit  int    `short:"n" default:"20" help:"Maximum number of runs to show"`
	Delete string `help:"Delete the run with this ID and its listings"`
	Force  bool   `help:"Confirm deletion"`
}

// StatsCmd is the "stats" subcommand.
type StatsCmd struct {
	RunID     string `name:"run" help:"Run ID (defaults to the latest run)"`
	Input     string `short:"i" help:"Read listings from a CSV or JSONL export instead of the database"`
	Condition string `enum:"new,used,broken,error,any" default:"used" help:"Condition to include"`
	MinCount  int    `default:"${min_count}" help:"Minimum listings per model"`
	MinPrice  int    `default:"${min_price}" help:"Exclusive lower price bound"`
	MaxPrice  int    `default:"${max_price}" help:"Exclusive upper price bound (0 for none)"`
}

// Config collects the scrape settings from the parsed flags.
func (c *CLI) Config() olxgpu.Config {
	return olxgpu.Config{
		BaseURL:     c.Scrape.BaseURL,
		PageLimit:   c.Scrape.PageLimit,
		Delay:       c.Scrape.Delay,
		Retries:     c.Scrape.Retries,
		SkipVisited: c.Scrape.SkipVisited,
		CatalogPath: c.Catalog,
	}
}

// vars returns the kong interpolation variables for flag defaults.
func vars() map[string]string {
	cfg := olxgpu.DefaultConfig()
	f := olxgpu.DefaultStatsFilter()
	return map[string]string{
		"base_url":   cfg.BaseURL,
		"page_limit": strconv.Itoa(cfg.PageLimit),
		"delay":      cfg.Delay.String(),
		"retries":    strconv.Itoa(cfg.Retries),
		"min_count":  strconv.Itoa(f.MinCount),
		"min_price":  strconv.Itoa(f.MinPrice),
		"max_price":  strconv.Itoa(f.MaxPrice),
	}
}
