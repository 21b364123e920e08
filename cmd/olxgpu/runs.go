package main

import (
	"fmt"
	"time"

	"github.com/fwojciec/olxgpu"
	"github.com/jedib0t/go-pretty/v6/table"
)

// Run executes the runs command.
func (c *RunsCmd) Run(deps *Dependencies) error {
	if c.Delete != "" {
		return c.delete(deps)
	}

	runs, err := deps.Runs.FindRuns(deps.Ctx, olxgpu.RunFilter{Limit: c.Limit})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", olxgpu.ErrorMessage(err))
		return err
	}

	if len(runs) == 0 {
		fmt.Fprintln(deps.Stdout, "No runs found. Use 'olxgpu scrape' to record one.")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(deps.Stdout)
	t.AppendHeader(table.Row{"ID", "Started", "Pages", "Listings", "Skipped", "Failures", "Error"})
	for _, r := range runs {
		t.AppendRow(table.Row{
			r.ID,
			r.StartedAt.Local().Format(time.DateTime),
			fmt.Sprintf("%d/%d", r.PagesVisited, r.PageLimit),
			r.Listings,
			r.Skipped,
			r.Failures,
			r.Error,
		})
	}
	t.SetStyle(table.StyleRounded)
	t.Render()
	return nil
}

func (c *RunsCmd) delete(deps *Dependencies) error {
	run, err := deps.Runs.FindRunByID(deps.Ctx, c.Delete)
	if err != nil {
		if olxgpu.ErrorCode(err) == olxgpu.ENOTFOUND {
			fmt.Fprintf(deps.Stderr, "error: run %q not found\n", c.Delete)
		} else {
			fmt.Fprintf(deps.Stderr, "error: %s\n", olxgpu.ErrorMessage(err))
		}
		return err
	}

	if !c.Force {
		fmt.Fprintf(deps.Stdout, "Would delete run %s (%d listings). Use --force to confirm.\n", run.ID, run.Listings)
		return nil
	}

	if err := deps.Runs.DeleteRun(deps.Ctx, run.ID); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", olxgpu.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Deleted run %s\n", run.ID)
	return nil
}
