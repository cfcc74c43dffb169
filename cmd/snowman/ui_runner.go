package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"surge/internal/cache"
	"surge/internal/codegen"
	"surge/internal/driver"
	"surge/internal/progress"
	"surge/internal/ui"
)

// runBatchWithUI drives driver.GenerateAll for units, rendering a
// bubbletea progress bar fed directly by the run's progress.Events. It
// blocks until every unit is accounted for and the program has exited.
func runBatchWithUI(ctx context.Context, title string, units []driver.Unit, gen *codegen.Generator, opts codegen.Options, jobs int, c *cache.Cache) ([]driver.Outcome, error) {
	names := make([]string, len(units))
	for i, u := range units {
		names[i] = u.Func.Name
	}

	events := make(chan progress.Event, 256)
	type result struct {
		outcomes []driver.Outcome
		err      error
	}
	resultCh := make(chan result, 1)

	go func() {
		outcomes, err := driver.GenerateAll(ctx, gen, opts, units, jobs, c, events)
		resultCh <- result{outcomes: outcomes, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, names, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	res := <-resultCh
	if uiErr != nil {
		return res.outcomes, uiErr
	}
	return res.outcomes, res.err
}
