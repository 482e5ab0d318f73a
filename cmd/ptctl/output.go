package main

import (
	"encoding/json"
	"fmt"
	"io"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (a *app) printSession() error {
	return writeJSON(a.out, map[string]any{
		"mode": a.env.session.Mode(),
		"user": a.env.session.User(),
	})
}

// batchOutput is one line of analyze output. Result is either a remote
// analysis or a demo analysis.
type batchOutput struct {
	Path   string `json:"path"`
	Result any    `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

func newBatchOutput(path string, result any, err error) batchOutput {
	out := batchOutput{Path: path}
	if err != nil {
		out.Error = err.Error()
		return out
	}
	out.Result = result
	return out
}

func batchError(results []batchOutput) error {
	failed := 0
	for _, r := range results {
		if r.Error != "" {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d analyses failed", failed, len(results))
	}
	return nil
}

// lastN returns the newest n entries of an oldest-first list.
func lastN[T any](items []T, n int) []T {
	if n <= 0 || n >= len(items) {
		return items
	}
	return items[len(items)-n:]
}
