package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fwojciec/olxgpu"
	"github.com/fwojciec/olxgpu/crawl"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

var errNoRuns = errors.New("no runs recorded; use 'olxgpu scrape' first")

// Run executes the stats command.
func (c *StatsCmd) Run(deps *Dependencies) error {
	listings, err := c.listings(deps)
	if err != nil {
		return err
	}

	filter := olxgpu.StatsFilter{
		Condition: olxgpu.Condition(c.Condition),
		MinCount:  c.MinCount,
		MinPrice:  c.MinPrice,
		MaxPrice:  c.MaxPrice,
	}
	if c.Condition == "any" {
		filter.Condition = ""
	}

	stats := olxgpu.Summarize(listings, filter)
	if len(stats) == 0 {
		fmt.Fprintf(deps.Stdout, "No model has at least %d matching listings.\n", filter.MinCount)
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(deps.Stdout)
	t.AppendHeader(table.Row{"Model", "Count", "Mean", "Median", "Min", "Max"})
	for _, s := range stats {
		t.AppendRow(table.Row{
			s.Model,
			s.Count,
			fmt.Sprintf("%.0f zł", s.Mean),
			fmt.Sprintf("%.0f zł", s.Median),
			crawl.FormatPrice(&s.Min),
			crawl.FormatPrice(&s.Max),
		})
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
	})
	t.SetStyle(table.StyleRounded)
	t.Render()
	return nil
}

// listings loads the listings to summarize from an export file or a stored run.
func (c *StatsCmd) listings(deps *Dependencies) ([]olxgpu.Listing, error) {
	if c.Input != "" {
		f, err := os.Open(c.Input)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		listings, err := readerFor(c.Input, f).ReadListings()
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", c.Input, err)
		}
		return listings, nil
	}

	runID := c.RunID
	if runID == "" {
		runs, err := deps.Runs.FindRuns(deps.Ctx, olxgpu.RunFilter{Limit: 1})
		if err != nil {
			return nil, err
		}
		if len(runs) == 0 {
			return nil, errNoRuns
		}
		runID = runs[0].ID
	}

	listings, err := deps.Listings.FindListings(deps.Ctx, olxgpu.ListingFilter{RunID: &runID})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", olxgpu.ErrorMessage(err))
		return nil, err
	}
	return listings, nil
}
