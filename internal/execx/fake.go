package execx

import (
	"context"
	"io"
)

// FakeResult scripts the outcome of one FakeRunner call.
type FakeResult struct {
	Stdout string
	Err    error
}

// FakeRunner records commands and replays scripted results in order.
// Calls beyond the scripted results succeed with no output.
type FakeRunner struct {
	Calls   []Cmd
	Results []FakeResult
}

// NewFakeRunner creates a FakeRunner replaying results.
func NewFakeRunner(results ...FakeResult) *FakeRunner {
	return &FakeRunner{Results: results}
}

// Run records c and writes the next scripted stdout.
func (f *FakeRunner) Run(_ context.Context, c Cmd) error {
	idx := len(f.Calls)
	f.Calls = append(f.Calls, c)
	if idx >= len(f.Results) {
		return nil
	}

	res := f.Results[idx]
	if c.Stdout != nil && res.Stdout != "" {
		if _, err := io.WriteString(c.Stdout, res.Stdout); err != nil {
			return err
		}
	}
	return res.Err
}
