// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"code.hybscloud.com/lincheck"
)

// newLogger builds a text or JSON handler writing to w.
func newLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	var lv slog.Level
	if err := lv.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("log level %q: %w", level, err)
	}
	opts := &slog.HandlerOptions{Level: lv}
	switch strings.ToLower(format) {
	case "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return nil, fmt.Errorf("log format %q: want text or json", format)
}

// report prints the verdict and search statistics.
func report(w io.Writer, res lincheck.Result) {
	st := res.Stats()
	fmt.Fprintf(w, "result: %s\n", res.Outcome())
	fmt.Fprintf(w, "operations: %d (%d pending)\n", st.Operations, st.Pending)
	fmt.Fprintf(w, "search: %d steps, max depth %d, %s\n", st.Steps, st.MaxDepth, st.Elapsed)
	fmt.Fprintf(w, "cache: %d hits, %d stores, %d evictions\n", st.CacheHits, st.CacheStores, st.CacheEvictions)

	c := res.Counterexample()
	if c == nil {
		return
	}
	fmt.Fprintf(w, "counterexample: %s\n", c)
	const tail = 10
	from := max(len(c.Prefix)-tail, 0)
	if from > 0 {
		fmt.Fprintf(w, "  ... %d earlier operations\n", from)
	}
	for _, op := range c.Prefix[from:] {
		fmt.Fprintf(w, "  %s\n", op)
	}
}

// writeHistory saves snap as JSON to path.
func writeHistory(path string, snap *lincheck.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write history: %w", err)
	}
	return nil
}

// readHistory loads a snapshot saved by writeHistory.
func readHistory(path string) (*lincheck.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}
	snap := new(lincheck.Snapshot)
	if err := json.Unmarshal(data, snap); err != nil {
		return nil, fmt.Errorf("decode history %s: %w", path, err)
	}
	return snap, nil
}
