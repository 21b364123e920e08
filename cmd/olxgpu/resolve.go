package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/fwojciec/olxgpu"
	"github.com/jedib0t/go-pretty/v6/table"
)

// Run executes the resolve command.
func (c *ResolveCmd) Run(deps *Dependencies) error {
	titles := c.Titles
	if len(titles) == 0 {
		if deps.Stdin == nil {
			return olxgpu.Errorf(olxgpu.EINVALID, "no titles given")
		}
		sc := bufio.NewScanner(deps.Stdin)
		for sc.Scan() {
			if line := strings.TrimSpace(sc.Text()); line != "" {
				titles = append(titles, line)
			}
		}
		if err := sc.Err(); err != nil {
			return fmt.Errorf("read titles: %w", err)
		}
	}

	t := table.NewWriter()
	t.SetOutputMirror(deps.Stdout)
	t.AppendHeader(table.Row{"Title", "Model", "Note"})
	for _, title := range titles {
		model, err := deps.Resolver.Resolve(title)
		t.AppendRow(table.Row{title, model, resolveNote(err)})
	}
	t.SetStyle(table.StyleRounded)
	t.Render()
	return nil
}

func resolveNote(err error) string {
	var noMatch *olxgpu.NoMatchError
	var ambiguous *olxgpu.AmbiguousMatchError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &ambiguous):
		return "ambiguous: " + strings.Join(ambiguous.Candidates, ", ")
	case errors.As(err, &noMatch):
		if noMatch.Suggestion != "" {
			return "no match (closest: " + noMatch.Suggestion + ")"
		}
		return "no match"
	default:
		return err.Error()
	}
}
